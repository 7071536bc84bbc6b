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

package ppu

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// display control register fields.
const (
	dispModeMask    = 0x0007
	dispFrameSelect = 0x0010
	dispObjMapping  = 0x0040
	dispForcedBlank = 0x0080
	dispBG0         = 0x0100
	dispObj         = 0x1000
	dispWin0        = 0x2000
	dispWin1        = 0x4000
	dispObjWin      = 0x8000
)

// background control register fields.
const (
	bgPriorityMask  = 0x0003
	bgCharBaseMask  = 0x000c
	bgCharBaseShift = 2
	bgMosaic        = 0x0040
	bg8bpp          = 0x0080
	bgScrBaseMask   = 0x1f00
	bgScrBaseShift  = 8
	bgWrap          = 0x2000
	bgSizeMask      = 0xc000
	bgSizeShift     = 14
)

// layer numbers for the colour effect target bits. backgrounds map to their
// own number.
const (
	layerObj      = 4
	layerBackdrop = 5
)

// transparent marks an empty pixel in the scanline buffers.
const transparent = int32(-1)

// window content flags: bits 0-3 background visibility, bit 4 object
// visibility, bit 5 colour effect enable. outside any window everything is
// visible and effects are enabled.
const winAll = 0x3f

// renderScanline draws one visible scanline into the frame buffer.
func (ppu *PPU) renderScanline(line int) {
	dispcnt := ppu.mem.PeekIO(memory.RegDISPCNT)

	if dispcnt&dispForcedBlank == dispForcedBlank {
		for x := 0; x < HorizPixels; x++ {
			ppu.plot(line, x, 0x7fff)
		}
		return
	}

	for n := 0; n < 4; n++ {
		for x := 0; x < HorizPixels; x++ {
			ppu.bgLine[n][x] = transparent
		}
	}
	for x := 0; x < HorizPixels; x++ {
		ppu.objLine[x] = objPixel{color: transparent}
	}

	mode := int(dispcnt & dispModeMask)

	bgEnabled := func(n int) bool {
		return dispcnt&(dispBG0<<n) != 0x0000
	}

	switch mode {
	case 0:
		for n := 0; n < 4; n++ {
			if bgEnabled(n) {
				ppu.renderTextBG(n, line)
			}
		}
	case 1:
		if bgEnabled(0) {
			ppu.renderTextBG(0, line)
		}
		if bgEnabled(1) {
			ppu.renderTextBG(1, line)
		}
		if bgEnabled(2) {
			ppu.renderAffineBG(2)
		}
	case 2:
		if bgEnabled(2) {
			ppu.renderAffineBG(2)
		}
		if bgEnabled(3) {
			ppu.renderAffineBG(3)
		}
	case 3, 4, 5:
		if bgEnabled(2) {
			ppu.renderBitmapBG(mode, line, dispcnt&dispFrameSelect == dispFrameSelect)
		}
	}

	if dispcnt&dispObj == dispObj {
		ppu.renderObjects(line, dispcnt&dispObjMapping == dispObjMapping)
	}

	ppu.compose(line, mode, dispcnt)
}

// compose flattens the scanline buffers into final colours, applying
// windows, priority and the colour effects.
func (ppu *PPU) compose(line int, mode int, dispcnt uint16) {
	bldcnt := ppu.mem.PeekIO(memory.RegBLDCNT)
	backdrop := int32(ppu.paletteColor(0))

	// backgrounds in priority order, stable on the background number
	var order [4]int
	var orderLen int
	for pri := 0; pri < 4; pri++ {
		for n := 0; n < 4; n++ {
			if ppu.bgUsed(n, mode) && int(ppu.bgcnt(n)&bgPriorityMask) == pri {
				order[orderLen] = n
				orderLen++
			}
		}
	}

	for x := 0; x < HorizPixels; x++ {
		win := ppu.windowAt(line, x, dispcnt)

		// find the top two visible pixels
		top := backdrop
		topLayer := layerBackdrop
		second := backdrop
		secondLayer := layerBackdrop
		topSemi := false

		found := 0
		obj := &ppu.objLine[x]
		objVisible := obj.color != transparent && win&0x10 != 0x0000

		for i := 0; i < orderLen && found < 2; i++ {
			n := order[i]

			// an object sits above any background of the same priority
			if objVisible && obj.priority <= int(ppu.bgcnt(n)&bgPriorityMask) {
				if found == 0 {
					top = obj.color
					topLayer = layerObj
					topSemi = obj.semi
				} else {
					second = obj.color
					secondLayer = layerObj
				}
				found++
				objVisible = false
				if found == 2 {
					break
				}
			}

			if win&(1<<n) == 0x0000 {
				continue
			}
			if c := ppu.bgLine[n][x]; c != transparent {
				if found == 0 {
					top = c
					topLayer = n
				} else {
					second = c
					secondLayer = n
				}
				found++
			}
		}

		if objVisible && found < 2 {
			if found == 0 {
				top = obj.color
				topLayer = layerObj
				topSemi = obj.semi
			} else {
				second = obj.color
				secondLayer = layerObj
			}
		}

		color := ppu.colorEffect(uint16(top), topLayer, topSemi, uint16(second), secondLayer, bldcnt, win)
		ppu.plot(line, x, color)
	}
}

// colorEffect applies the blending register to the top pixel of the stack.
func (ppu *PPU) colorEffect(top uint16, topLayer int, topSemi bool, second uint16, secondLayer int, bldcnt uint16, win uint16) uint16 {
	secondTarget := bldcnt&(0x0100<<secondLayer) != 0x0000

	// a semi-transparent object blends with whatever is below it whenever
	// the below pixel is a second target, regardless of the effect mode
	if topSemi && secondTarget {
		return alphaBlend(top, second, ppu.mem.PeekIO(memory.RegBLDALPHA))
	}

	if win&0x20 == 0x0000 {
		return top
	}

	firstTarget := bldcnt&(0x0001<<topLayer) != 0x0000
	if !firstTarget {
		return top
	}

	switch (bldcnt >> 6) & 0x03 {
	case 1:
		if secondTarget {
			return alphaBlend(top, second, ppu.mem.PeekIO(memory.RegBLDALPHA))
		}
	case 2:
		return brighten(top, ppu.mem.PeekIO(memory.RegBLDY))
	case 3:
		return darken(top, ppu.mem.PeekIO(memory.RegBLDY))
	}

	return top
}

func alphaBlend(a, b uint16, bldalpha uint16) uint16 {
	eva := int(bldalpha & 0x001f)
	if eva > 16 {
		eva = 16
	}
	evb := int((bldalpha >> 8) & 0x001f)
	if evb > 16 {
		evb = 16
	}

	blend := func(ca, cb int) int {
		v := (ca*eva + cb*evb) / 16
		if v > 31 {
			v = 31
		}
		return v
	}

	r := blend(int(a&0x1f), int(b&0x1f))
	g := blend(int((a>>5)&0x1f), int((b>>5)&0x1f))
	bl := blend(int((a>>10)&0x1f), int((b>>10)&0x1f))
	return uint16(r | g<<5 | bl<<10)
}

func brighten(c uint16, bldy uint16) uint16 {
	evy := int(bldy & 0x001f)
	if evy > 16 {
		evy = 16
	}
	adj := func(v int) int {
		return v + (31-v)*evy/16
	}
	return uint16(adj(int(c&0x1f)) | adj(int((c>>5)&0x1f))<<5 | adj(int((c>>10)&0x1f))<<10)
}

func darken(c uint16, bldy uint16) uint16 {
	evy := int(bldy & 0x001f)
	if evy > 16 {
		evy = 16
	}
	adj := func(v int) int {
		return v - v*evy/16
	}
	return uint16(adj(int(c&0x1f)) | adj(int((c>>5)&0x1f))<<5 | adj(int((c>>10)&0x1f))<<10)
}

// windowAt returns the content flags in effect at a pixel.
func (ppu *PPU) windowAt(line, x int, dispcnt uint16) uint16 {
	if dispcnt&(dispWin0|dispWin1|dispObjWin) == 0x0000 {
		return winAll
	}

	winin := ppu.mem.PeekIO(memory.RegWININ)
	winout := ppu.mem.PeekIO(memory.RegWINOUT)

	if dispcnt&dispWin0 == dispWin0 && ppu.insideWindow(0, line, x) {
		return winin & 0x3f
	}
	if dispcnt&dispWin1 == dispWin1 && ppu.insideWindow(1, line, x) {
		return (winin >> 8) & 0x3f
	}
	if dispcnt&dispObjWin == dispObjWin && ppu.objLine[x].window {
		return (winout >> 8) & 0x3f
	}
	return winout & 0x3f
}

func (ppu *PPU) insideWindow(w int, line, x int) bool {
	h := ppu.mem.PeekIO(memory.RegWIN0H + uint32(w)*2)
	v := ppu.mem.PeekIO(memory.RegWIN0V + uint32(w)*2)

	x1 := int(h >> 8)
	x2 := int(h & 0xff)
	if x2 > HorizPixels || x1 > x2 {
		x2 = HorizPixels
	}

	y1 := int(v >> 8)
	y2 := int(v & 0xff)
	if y2 > VertPixels || y1 > y2 {
		y2 = VertPixels
	}

	return x >= x1 && x < x2 && line >= y1 && line < y2
}

// bgUsed reports whether a background number exists in a video mode.
func (ppu *PPU) bgUsed(n int, mode int) bool {
	switch mode {
	case 0:
		return true
	case 1:
		return n <= 2
	case 2:
		return n == 2 || n == 3
	case 3, 4, 5:
		return n == 2
	}
	return false
}

func (ppu *PPU) bgcnt(n int) uint16 {
	return ppu.mem.PeekIO(memory.RegBG0CNT + uint32(n)*2)
}

func (ppu *PPU) paletteColor(index int) uint16 {
	return uint16(ppu.mem.Palette[index*2]) | uint16(ppu.mem.Palette[index*2+1])<<8
}

func (ppu *PPU) objPaletteColor(index int) uint16 {
	return ppu.paletteColor(0x100 + index)
}

// mosaicSize returns the horizontal and vertical size of the background
// mosaic, as a stretch factor of at least one.
func (ppu *PPU) mosaicSize() (int, int) {
	m := ppu.mem.PeekIO(memory.RegMOSAIC)
	return int(m&0x0f) + 1, int((m>>4)&0x0f) + 1
}

// vramMirror folds an address into the 96KB of VRAM. the 128KB window
// maps its upper 32KB onto the preceding 32KB, the same rule the bus
// applies to direct accesses.
func vramMirror(addr uint32) uint32 {
	addr &= 0x1ffff
	if addr >= 0x18000 {
		addr -= 0x8000
	}
	return addr
}

// renderTextBG draws one scanline of a tiled background.
func (ppu *PPU) renderTextBG(n int, line int) {
	cnt := ppu.bgcnt(n)

	hofs := int(ppu.mem.PeekIO(memory.RegBG0HOFS+uint32(n)*4) & 0x01ff)
	vofs := int(ppu.mem.PeekIO(memory.RegBG0VOFS+uint32(n)*4) & 0x01ff)

	charBase := (uint32(cnt&bgCharBaseMask) >> bgCharBaseShift) * 0x4000
	scrBase := (uint32(cnt&bgScrBaseMask) >> bgScrBaseShift) * 0x0800
	size := int(cnt&bgSizeMask) >> bgSizeShift

	width := 256
	if size == 1 || size == 3 {
		width = 512
	}
	height := 256
	if size == 2 || size == 3 {
		height = 512
	}

	mh, mv := 1, 1
	if cnt&bgMosaic == bgMosaic {
		mh, mv = ppu.mosaicSize()
	}

	srcLine := line - line%mv

	y := (srcLine + vofs) & (height - 1)

	for x := 0; x < HorizPixels; x++ {
		sx := x - x%mh
		px := (sx + hofs) & (width - 1)

		// which 256x256 screen block
		block := px >> 8
		if size == 3 {
			block += (y >> 8) * 2
		} else if size == 2 {
			block = y >> 8
		}

		entryAddr := scrBase + uint32(block)*0x0800 + uint32((y>>3)&0x1f)*64 + uint32((px>>3)&0x1f)*2
		entry := uint16(ppu.mem.VRAM[entryAddr]) | uint16(ppu.mem.VRAM[entryAddr+1])<<8

		tile := uint32(entry & 0x03ff)
		tx := px & 0x07
		ty := y & 0x07
		if entry&0x0400 == 0x0400 {
			tx = 7 - tx
		}
		if entry&0x0800 == 0x0800 {
			ty = 7 - ty
		}

		var index int
		if cnt&bg8bpp == bg8bpp {
			addr := vramMirror(charBase + tile*64 + uint32(ty)*8 + uint32(tx))
			index = int(ppu.mem.VRAM[addr])
		} else {
			addr := vramMirror(charBase + tile*32 + uint32(ty)*4 + uint32(tx)/2)
			b := ppu.mem.VRAM[addr]
			if tx&0x01 == 0x01 {
				index = int(b >> 4)
			} else {
				index = int(b & 0x0f)
			}
			if index != 0 {
				index += int(entry>>12) * 16
			}
		}

		if index != 0 {
			ppu.bgLine[n][x] = int32(ppu.paletteColor(index))
		}
	}
}

// renderAffineBG draws one scanline of a rotated/scaled background.
func (ppu *PPU) renderAffineBG(n int) {
	cnt := ppu.bgcnt(n)

	charBase := (uint32(cnt&bgCharBaseMask) >> bgCharBaseShift) * 0x4000
	scrBase := (uint32(cnt&bgScrBaseMask) >> bgScrBaseShift) * 0x0800
	size := 128 << (int(cnt&bgSizeMask) >> bgSizeShift)
	wrap := cnt&bgWrap == bgWrap

	pbase := uint32(memory.RegBG2PA)
	if n == 3 {
		pbase = memory.RegBG3PA
	}
	pa := int32(int16(ppu.mem.PeekIO(pbase)))
	pc := int32(int16(ppu.mem.PeekIO(pbase + 4)))

	ref := ppu.bgRef[n-2]
	cx := ref.x
	cy := ref.y

	tilesPerRow := uint32(size / 8)

	for x := 0; x < HorizPixels; x++ {
		px := int(cx >> 8)
		py := int(cy >> 8)
		cx += pa
		cy += pc

		if wrap {
			px &= size - 1
			py &= size - 1
		} else if px < 0 || px >= size || py < 0 || py >= size {
			continue
		}

		tileAddr := vramMirror(scrBase + uint32(py/8)*tilesPerRow + uint32(px/8))
		tile := uint32(ppu.mem.VRAM[tileAddr])

		addr := vramMirror(charBase + tile*64 + uint32(py%8)*8 + uint32(px%8))
		if index := int(ppu.mem.VRAM[addr]); index != 0 {
			ppu.bgLine[n][x] = int32(ppu.paletteColor(index))
		}
	}
}

// renderBitmapBG draws one scanline of the framebuffer modes.
func (ppu *PPU) renderBitmapBG(mode int, line int, frame1 bool) {
	switch mode {
	case 3:
		base := uint32(line) * HorizPixels * 2
		for x := 0; x < HorizPixels; x++ {
			c := uint16(ppu.mem.VRAM[base]) | uint16(ppu.mem.VRAM[base+1])<<8
			ppu.bgLine[2][x] = int32(c & 0x7fff)
			base += 2
		}

	case 4:
		base := uint32(line) * HorizPixels
		if frame1 {
			base += 0xa000
		}
		for x := 0; x < HorizPixels; x++ {
			if index := int(ppu.mem.VRAM[base]); index != 0 {
				ppu.bgLine[2][x] = int32(ppu.paletteColor(index))
			}
			base++
		}

	case 5:
		// the small framebuffer is 160x128
		if line >= 128 {
			return
		}
		base := uint32(line) * 160 * 2
		if frame1 {
			base += 0xa000
		}
		for x := 0; x < 160; x++ {
			c := uint16(ppu.mem.VRAM[base]) | uint16(ppu.mem.VRAM[base+1])<<8
			ppu.bgLine[2][x] = int32(c & 0x7fff)
			base += 2
		}
	}
}

// plot writes a BGR555 colour to the frame buffer as RGBA.
func (ppu *PPU) plot(line, x int, color uint16) {
	i := (line*HorizPixels + x) * 4
	ppu.pixels[i] = uint8(color&0x1f) << 3
	ppu.pixels[i+1] = uint8((color>>5)&0x1f) << 3
	ppu.pixels[i+2] = uint8((color>>10)&0x1f) << 3
	ppu.pixels[i+3] = 255
}
