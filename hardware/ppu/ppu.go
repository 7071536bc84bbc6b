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

// Package ppu implements the picture processor. A scanline is rendered in
// one go at the moment the horizontal blank begins, which is accurate enough
// for everything except software that races the beam within a single line.
//
// The PPU is the conductor of the whole machine: the horizontal and vertical
// blanking periods it signals are what trigger the corresponding DMA
// channels and interrupts, and the completion of a frame is what paces the
// emulation against real time.
package ppu

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// Screen geometry and timing. A scanline is 1232 cycles: 240 visible dots
// and 68 blanked dots, four cycles each. A frame is 228 scanlines: 160
// visible and 68 blanked.
const (
	ClksScanline = 1232
	ClksVisible  = 960
	ClksHBlank   = ClksScanline - ClksVisible

	HorizPixels = 240
	VertPixels  = 160
	TotalLines  = 228

	// ClksFrame is the number of cycles in a complete frame.
	ClksFrame = ClksScanline * TotalLines
)

// display status register fields.
const (
	statVBlank     = 0x0001
	statHBlank     = 0x0002
	statVCount     = 0x0004
	statVBlankIRQ  = 0x0008
	statHBlankIRQ  = 0x0010
	statVCountIRQ  = 0x0020
	statVCountMask = 0xff00
)

// Renderer implementations receive the completed frame at the start of every
// vertical blank. The pixels slice is RGBA, one byte per channel, and is
// reused for the next frame once the function returns.
type Renderer interface {
	NewFrame(pixels []uint8, frameNum int) error
}

// PPU is the picture processor.
type PPU struct {
	mem *memory.Memory

	// position of the raster within the frame
	line       int
	lineCycles int
	inHBlank   bool

	// affine background reference point accumulators. latched from the
	// reference registers at the start of the frame and on writes, advanced
	// by the dmx/dmy parameters every scanline
	bgRef [2]affineRef

	// completed frame count
	frameNum int

	// the frame being built, RGBA
	pixels []uint8

	// per-scanline working buffers. a negative value is a transparent pixel,
	// otherwise the low 15 bits are a BGR555 colour
	bgLine  [4][HorizPixels]int32
	objLine [HorizPixels]objPixel

	renderers []Renderer
}

type affineRef struct {
	x int32
	y int32

	// true when software has rewritten the reference registers mid-frame
	dirty bool
}

// NewPPU is the preferred method of initialisation for the PPU type.
func NewPPU(mem *memory.Memory) *PPU {
	ppu := &PPU{
		mem:    mem,
		pixels: make([]uint8, HorizPixels*VertPixels*4),
	}
	ppu.Reset()
	return ppu
}

// Reset the picture processor to its power-on state.
func (ppu *PPU) Reset() {
	ppu.line = 0
	ppu.lineCycles = 0
	ppu.inHBlank = false
	ppu.bgRef = [2]affineRef{}
	ppu.latchAffineReferences()
}

// AddRenderer attaches a Renderer to the PPU.
func (ppu *PPU) AddRenderer(r Renderer) {
	ppu.renderers = append(ppu.renderers, r)
}

// FrameNum returns the number of completed frames since power-on.
func (ppu *PPU) FrameNum() int {
	return ppu.frameNum
}

// Pixels returns the frame buffer in RGBA order. The buffer is owned by
// the PPU and must be treated as read-only. It is complete at the start of
// the vertical blank and partially redrawn at any other time.
func (ppu *PPU) Pixels() []uint8 {
	return ppu.pixels
}

// Coords returns the current raster position as scanline and cycle-in-line.
func (ppu *PPU) Coords() (int, int) {
	return ppu.line, ppu.lineCycles
}

// NotifyRegisterWrite implements the memory.VideoBus interface. A rewritten
// affine reference register takes effect from the next scanline.
func (ppu *PPU) NotifyRegisterWrite(offset uint32) {
	if offset >= memory.RegBG3X {
		ppu.bgRef[1].dirty = true
	} else {
		ppu.bgRef[0].dirty = true
	}
}

// Step advances the picture processor by the given number of system clock
// cycles.
func (ppu *PPU) Step(cycles int) {
	ppu.lineCycles += cycles

	for {
		if !ppu.inHBlank {
			if ppu.lineCycles < ClksVisible {
				return
			}
			ppu.beginHBlank()
			continue
		}

		if ppu.lineCycles < ClksScanline {
			return
		}
		ppu.lineCycles -= ClksScanline
		ppu.endScanline()
	}
}

func (ppu *PPU) beginHBlank() {
	ppu.inHBlank = true

	stat := ppu.mem.PeekIO(memory.RegDISPSTAT)
	ppu.mem.PokeIO(memory.RegDISPSTAT, stat|statHBlank)

	if ppu.line < VertPixels {
		ppu.renderScanline(ppu.line)
		ppu.advanceAffineReferences()

		// the horizontal blank DMA trigger only fires on visible lines
		ppu.mem.DMA.OnHBlank()
	}

	if stat&statHBlankIRQ == statHBlankIRQ {
		ppu.mem.RequestInterrupt(memory.IntHBlank)
	}
}

func (ppu *PPU) endScanline() {
	ppu.inHBlank = false

	stat := ppu.mem.PeekIO(memory.RegDISPSTAT)
	stat &^= statHBlank

	ppu.line++
	switch ppu.line {
	case VertPixels:
		// entering the vertical blank
		stat |= statVBlank
		ppu.mem.PokeIO(memory.RegDISPSTAT, stat)

		if stat&statVBlankIRQ == statVBlankIRQ {
			ppu.mem.RequestInterrupt(memory.IntVBlank)
		}
		ppu.mem.DMA.OnVBlank()

		ppu.frameNum++
		for _, r := range ppu.renderers {
			_ = r.NewFrame(ppu.pixels, ppu.frameNum)
		}

	case TotalLines:
		// the vertical blank flag holds through the final line of the
		// frame and clears on the wrap back to line zero
		ppu.line = 0
		ppu.latchAffineReferences()
		stat &^= statVBlank
		ppu.mem.PokeIO(memory.RegDISPSTAT, stat)

	default:
		ppu.mem.PokeIO(memory.RegDISPSTAT, stat)
	}

	ppu.mem.PokeIO(memory.RegVCOUNT, uint16(ppu.line))
	ppu.checkVCount()
}

func (ppu *PPU) checkVCount() {
	stat := ppu.mem.PeekIO(memory.RegDISPSTAT)

	if int(stat>>8) == ppu.line {
		if stat&statVCount == 0x0000 {
			ppu.mem.PokeIO(memory.RegDISPSTAT, stat|statVCount)
			if stat&statVCountIRQ == statVCountIRQ {
				ppu.mem.RequestInterrupt(memory.IntVCount)
			}
		}
	} else {
		ppu.mem.PokeIO(memory.RegDISPSTAT, stat&^statVCount)
	}
}

// latchAffineReferences loads the affine accumulators from the reference
// registers.
func (ppu *PPU) latchAffineReferences() {
	for bg := 2; bg <= 3; bg++ {
		base := uint32(memory.RegBG2X)
		if bg == 3 {
			base = memory.RegBG3X
		}
		x := uint32(ppu.mem.PeekIO(base)) | uint32(ppu.mem.PeekIO(base+2))<<16
		y := uint32(ppu.mem.PeekIO(base+4)) | uint32(ppu.mem.PeekIO(base+6))<<16
		ppu.bgRef[bg-2].x = signExtend28(x)
		ppu.bgRef[bg-2].y = signExtend28(y)
		ppu.bgRef[bg-2].dirty = false
	}
}

// advanceAffineReferences moves the accumulators one scanline on, or reloads
// them if the registers were rewritten during the line.
func (ppu *PPU) advanceAffineReferences() {
	for bg := 2; bg <= 3; bg++ {
		ref := &ppu.bgRef[bg-2]
		if ref.dirty {
			base := uint32(memory.RegBG2X)
			if bg == 3 {
				base = memory.RegBG3X
			}
			x := uint32(ppu.mem.PeekIO(base)) | uint32(ppu.mem.PeekIO(base+2))<<16
			y := uint32(ppu.mem.PeekIO(base+4)) | uint32(ppu.mem.PeekIO(base+6))<<16
			ref.x = signExtend28(x)
			ref.y = signExtend28(y)
			ref.dirty = false
			continue
		}

		pbase := uint32(memory.RegBG2PA)
		if bg == 3 {
			pbase = memory.RegBG3PA
		}
		dmx := int32(int16(ppu.mem.PeekIO(pbase + 2)))
		dmy := int32(int16(ppu.mem.PeekIO(pbase + 6)))
		ref.x += dmx
		ref.y += dmy
	}
}

func signExtend28(v uint32) int32 {
	return int32(v<<4) >> 4
}

// Snapshot of the picture processor state, for the rewind system. The frame
// being built is not part of the snapshot; it is redrawn.
type Snapshot struct {
	Line       int
	LineCycles int
	InHBlank   bool
	BGRef      [2]affineRef
	FrameNum   int
}

// Snapshot the current picture processor state.
func (ppu *PPU) Snapshot() *Snapshot {
	return &Snapshot{
		Line:       ppu.line,
		LineCycles: ppu.lineCycles,
		InHBlank:   ppu.inHBlank,
		BGRef:      ppu.bgRef,
		FrameNum:   ppu.frameNum,
	}
}

// Plumb a previously taken snapshot back into the picture processor.
func (ppu *PPU) Plumb(s *Snapshot) {
	ppu.line = s.Line
	ppu.lineCycles = s.LineCycles
	ppu.inHBlank = s.InHBlank
	ppu.bgRef = s.BGRef
	ppu.frameNum = s.FrameNum
}
