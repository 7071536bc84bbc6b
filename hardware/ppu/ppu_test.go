// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package ppu_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
	"github.com/jetsetilly/gopheradvance/test"
)

func newPPU() (*memory.Memory, *ppu.PPU) {
	mem := memory.NewMemory()
	p := ppu.NewPPU(mem)
	mem.Video = p
	return mem, p
}

func TestTiming_horizontalBlank(t *testing.T) {
	mem, p := newPPU()

	p.Step(959)
	stat, _ := mem.Read16(0x04000004)
	test.Equate(t, stat&0x0002, 0x0000)

	// the horizontal blank flag rises at cycle 960 of the 1232 cycle line
	p.Step(1)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0002, 0x0002)

	// and falls again at the end of the line
	p.Step(272)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0002, 0x0000)

	v, _ := mem.Read16(0x04000006)
	test.Equate(t, v, 1)
}

func TestTiming_verticalBlank(t *testing.T) {
	mem, p := newPPU()

	// enable the vertical blank interrupt
	mem.Write16(0x04000004, 0x0008)

	p.Step(ppu.ClksScanline*160 - 1)
	stat, _ := mem.Read16(0x04000004)
	test.Equate(t, stat&0x0001, 0x0000)

	p.Step(1)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0001, 0x0001)

	iflags, _ := mem.Read16(0x04000202)
	test.Equate(t, iflags&memory.IntVBlank, memory.IntVBlank)

	// the flag holds through the final line of the frame
	p.Step(ppu.ClksScanline * 67)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0001, 0x0001)
	v, _ := mem.Read16(0x04000006)
	test.Equate(t, v, 227)

	// and clears on the wrap to line zero
	p.Step(ppu.ClksScanline)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0001, 0x0000)
	v, _ = mem.Read16(0x04000006)
	test.Equate(t, v, 0)
}

func TestTiming_vcountMatch(t *testing.T) {
	mem, p := newPPU()

	// interrupt on line 100
	mem.Write16(0x04000004, 0x0020|100<<8)

	p.Step(ppu.ClksScanline * 100)
	stat, _ := mem.Read16(0x04000004)
	test.Equate(t, stat&0x0004, 0x0004)

	iflags, _ := mem.Read16(0x04000202)
	test.Equate(t, iflags&memory.IntVCount, memory.IntVCount)

	p.Step(ppu.ClksScanline)
	stat, _ = mem.Read16(0x04000004)
	test.Equate(t, stat&0x0004, 0x0000)
}

func TestTiming_hblankDMAOnVisibleLinesOnly(t *testing.T) {
	mem, p := newPPU()

	// channel 0: one halfword per horizontal blank, repeating
	mem.Write32(0x040000b0, 0x02000000)
	mem.Write32(0x040000b4, 0x03000000)
	mem.Write16(0x040000b8, 1)
	mem.Write16(0x040000ba, 0xa200) // enable, hblank timing, repeat

	// 160 visible lines each trigger the transfer
	p.Step(ppu.ClksScanline * 160)
	stall := mem.DrainStall()
	test.ExpectedSuccess(t, stall > 0)
	test.Equate(t, stall%160, 0)

	// no further transfers during the vertical blank
	p.Step(ppu.ClksScanline * 68)
	test.Equate(t, mem.DrainStall(), 0)
}

type frameCounter struct {
	frames int
	pixels []uint8
}

func (f *frameCounter) NewFrame(pixels []uint8, frameNum int) error {
	f.frames = frameNum
	f.pixels = pixels
	return nil
}

func TestFrame_publishedAtVBlank(t *testing.T) {
	_, p := newPPU()

	fc := &frameCounter{}
	p.AddRenderer(fc)

	p.Step(ppu.ClksFrame)
	test.Equate(t, fc.frames, 1)
	test.Equate(t, len(fc.pixels), 240*160*4)

	p.Step(ppu.ClksFrame)
	test.Equate(t, fc.frames, 2)
}

func TestRender_mode3(t *testing.T) {
	mem, p := newPPU()

	// mode 3, background 2 on
	mem.Write16(0x04000000, 0x0403)

	// a pure red pixel at (5,0) and pure green at (6,0)
	mem.Write16(0x06000000+5*2, 0x001f)
	mem.Write16(0x06000000+6*2, 0x03e0)

	fc := &frameCounter{}
	p.AddRenderer(fc)
	p.Step(ppu.ClksFrame)

	test.Equate(t, fc.pixels[5*4+0], 0xf8)
	test.Equate(t, fc.pixels[5*4+1], 0x00)
	test.Equate(t, fc.pixels[6*4+0], 0x00)
	test.Equate(t, fc.pixels[6*4+1], 0xf8)
}

func TestRender_mode0Tile(t *testing.T) {
	mem, p := newPPU()

	// mode 0, background 0 on. bg0: char base 0, screen base block 2
	mem.Write16(0x04000000, 0x0100)
	mem.Write16(0x04000008, 2<<8)

	// tile 1: all pixels colour index 1 (4bpp)
	for i := 0; i < 32; i++ {
		mem.Write8(0x06000000+32+uint32(i), 0x11)
	}

	// map entry (0,0): tile 1, palette 0
	mem.Write16(0x06000000+0x1000, 0x0001)

	// palette colour 1: white
	mem.Write16(0x05000002, 0x7fff)

	fc := &frameCounter{}
	p.AddRenderer(fc)
	p.Step(ppu.ClksFrame)

	// the top-left 8x8 pixels are white, the rest backdrop (black)
	test.Equate(t, fc.pixels[0], 0xf8)
	test.Equate(t, fc.pixels[1], 0xf8)
	test.Equate(t, fc.pixels[2], 0xf8)
	test.Equate(t, fc.pixels[8*4], 0x00)
}

// tile data written through the upper VRAM mirror lands in object tile
// memory and is rendered from there
func TestRender_vramMirrorQuirk(t *testing.T) {
	mem, p := newPPU()

	// mode 0, objects on, 1D mapping
	mem.Write16(0x04000000, 0x1040)

	// object tile 2 written through the 0x06018000 mirror of 0x06010000.
	// all pixels colour index 3
	for i := 0; i < 32; i += 2 {
		mem.Write16(0x06018000+2*32+uint32(i), 0x3333)
	}

	// object 0: 8x8 at (0,0), tile 2
	mem.Write16(0x07000000, 0x0000)
	mem.Write16(0x07000002, 0x0000)
	mem.Write16(0x07000004, 0x0002)

	// object palette colour 3: blue
	mem.Write16(0x05000200+3*2, 0x7c00)

	fc := &frameCounter{}
	p.AddRenderer(fc)
	p.Step(ppu.ClksFrame)

	test.Equate(t, fc.pixels[0], 0x00)
	test.Equate(t, fc.pixels[1], 0x00)
	test.Equate(t, fc.pixels[2], 0xf8)
}

// a background tile whose data address reaches past the character blocks
// fetches from object tile memory, the same bytes a direct read of the
// mirrored address returns
func TestRender_bgTileIntoObjectMemory(t *testing.T) {
	mem, p := newPPU()

	// mode 0, background 0 on. bg0: char base 3, 8bpp, screen base block 2
	mem.Write16(0x04000000, 0x0100)
	mem.Write16(0x04000008, 2<<8|0x0080|3<<2)

	// tile 300: char base 3 places its data at 0x10b00, inside object
	// tile memory. all pixels colour index 1
	for i := uint32(0); i < 64; i += 2 {
		mem.Write16(0x06010b00+i, 0x0101)
	}

	// map entry (0,0): tile 300
	mem.Write16(0x06001000, 300)

	// palette colour 1: white
	mem.Write16(0x05000002, 0x7fff)

	fc := &frameCounter{}
	p.AddRenderer(fc)
	p.Step(ppu.ClksFrame)

	// the top-left 8x8 pixels are white, the rest backdrop (black)
	test.Equate(t, fc.pixels[0], 0xf8)
	test.Equate(t, fc.pixels[1], 0xf8)
	test.Equate(t, fc.pixels[2], 0xf8)
	test.Equate(t, fc.pixels[8*4], 0x00)
}

func TestRender_priority(t *testing.T) {
	mem, p := newPPU()

	// mode 3 with an object over the bitmap
	mem.Write16(0x04000000, 0x1403)

	// bitmap: red everywhere on line 0
	for x := uint32(0); x < 240; x++ {
		mem.Write16(0x06000000+x*2, 0x001f)
	}

	// 8x8 object at (0,0) using tile 512 (the first available in the
	// bitmap modes), all pixels colour index 1, priority 0
	for i := 0; i < 32; i += 2 {
		mem.Write16(0x06010000+512*32+uint32(i), 0x1111)
	}
	mem.Write16(0x07000000, 0x0000)
	mem.Write16(0x07000002, 0x0000)
	mem.Write16(0x07000004, 512)

	// object palette colour 1: green
	mem.Write16(0x05000202, 0x03e0)

	fc := &frameCounter{}
	p.AddRenderer(fc)
	p.Step(ppu.ClksFrame)

	// object pixel on top at x=0, bitmap from x=8
	test.Equate(t, fc.pixels[1], 0xf8)
	test.Equate(t, fc.pixels[8*4], 0xf8)
	test.Equate(t, fc.pixels[8*4+1], 0x00)
}
