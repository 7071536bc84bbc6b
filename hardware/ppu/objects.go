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

// object attribute fields.
const (
	attr0YMask     = 0x00ff
	attr0Affine    = 0x0100
	attr0Double    = 0x0200
	attr0ModeMask  = 0x0c00
	attr0Mosaic    = 0x1000
	attr08bpp      = 0x2000
	attr0ShapeMask = 0xc000

	attr1XMask      = 0x01ff
	attr1ParamMask  = 0x3e00
	attr1ParamShift = 9
	attr1HFlip      = 0x1000
	attr1VFlip      = 0x2000
	attr1SizeMask   = 0xc000

	attr2TileMask     = 0x03ff
	attr2PriorityMask = 0x0c00
	attr2PaletteMask  = 0xf000
)

// object modes from attribute 0.
const (
	objModeNormal = 0x0000
	objModeSemi   = 0x0400
	objModeWindow = 0x0800
)

// object dimensions indexed by shape then size.
var objSizes = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}}, // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}}, // horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}}, // vertical
}

// objPixel is one object layer pixel in the scanline buffer.
type objPixel struct {
	color    int32
	priority int
	semi     bool
	window   bool
}

// object tile data lives in the top quarter of video RAM.
const objTileBase = 0x10000

// renderObjects draws the object layer for one scanline. Objects are walked
// in OAM order and the first opaque pixel at each position wins, except that
// a lower priority value always beats a higher one.
func (ppu *PPU) renderObjects(line int, mapping1D bool) {
	for n := 0; n < 128; n++ {
		base := n * 8
		attr0 := uint16(ppu.mem.OAM[base]) | uint16(ppu.mem.OAM[base+1])<<8
		attr1 := uint16(ppu.mem.OAM[base+2]) | uint16(ppu.mem.OAM[base+3])<<8
		attr2 := uint16(ppu.mem.OAM[base+4]) | uint16(ppu.mem.OAM[base+5])<<8

		affine := attr0&attr0Affine == attr0Affine
		if !affine && attr0&attr0Double == attr0Double {
			// disabled
			continue
		}

		shape := int(attr0&attr0ShapeMask) >> 14
		if shape == 3 {
			continue
		}
		size := int(attr1&attr1SizeMask) >> 14
		w := objSizes[shape][size][0]
		h := objSizes[shape][size][1]

		// the on-screen footprint of a double-size affine object is twice
		// the sprite dimensions
		fw, fh := w, h
		if affine && attr0&attr0Double == attr0Double {
			fw *= 2
			fh *= 2
		}

		y := int(attr0 & attr0YMask)
		if y >= VertPixels {
			y -= 256
		}
		if line < y || line >= y+fh {
			continue
		}

		x := int(attr1 & attr1XMask)
		if x >= HorizPixels {
			x -= 512
		}

		mode := attr0 & attr0ModeMask
		mosaic := attr0&attr0Mosaic == attr0Mosaic

		mh, mv := 1, 1
		if mosaic {
			m := ppu.mem.PeekIO(memory.RegMOSAIC)
			mh = int((m>>8)&0x0f) + 1
			mv = int((m>>12)&0x0f) + 1
		}

		srcLine := line
		if mosaic {
			srcLine = line - line%mv
			if srcLine < y {
				srcLine = y
			}
		}

		var pa, pb, pc, pd int32 = 0x100, 0, 0, 0x100
		if affine {
			p := int(attr1&attr1ParamMask) >> attr1ParamShift
			pa = ppu.oamParam(p, 0)
			pb = ppu.oamParam(p, 1)
			pc = ppu.oamParam(p, 2)
			pd = ppu.oamParam(p, 3)
		}

		for dx := 0; dx < fw; dx++ {
			sx := x + dx
			if sx < 0 || sx >= HorizPixels {
				continue
			}

			// first opaque pixel in OAM order wins unless a later object
			// carries a strictly better priority
			existing := &ppu.objLine[sx]

			mdx := dx
			if mosaic {
				mdx = sx - sx%mh - x
				if mdx < 0 {
					mdx = 0
				}
			}

			var tx, ty int
			if affine {
				// texture coordinates relative to the centre of the sprite
				cx := int32(mdx - fw/2)
				cy := int32(srcLine - y - fh/2)
				tx = int((pa*cx+pb*cy)>>8) + w/2
				ty = int((pc*cx+pd*cy)>>8) + h/2
				if tx < 0 || tx >= w || ty < 0 || ty >= h {
					continue
				}
			} else {
				tx = mdx
				ty = srcLine - y
				if attr1&attr1HFlip == attr1HFlip {
					tx = w - 1 - tx
				}
				if attr1&attr1VFlip == attr1VFlip {
					ty = h - 1 - ty
				}
			}

			index := ppu.objPixelIndex(attr2, tx, ty, w, attr0&attr08bpp == attr08bpp, mapping1D)
			if index == 0 {
				continue
			}

			if mode == objModeWindow {
				existing.window = true
				continue
			}

			priority := int(attr2&attr2PriorityMask) >> 10
			if existing.color != transparent && priority >= existing.priority {
				continue
			}

			var color uint16
			if attr0&attr08bpp == attr08bpp {
				color = ppu.objPaletteColor(index)
			} else {
				color = ppu.objPaletteColor(int(attr2&attr2PaletteMask)>>12*16 + index)
			}

			existing.color = int32(color)
			existing.priority = priority
			existing.semi = mode == objModeSemi
		}
	}
}

// objPixelIndex fetches the palette index of a texel within an object.
func (ppu *PPU) objPixelIndex(attr2 uint16, tx, ty, w int, is8bpp bool, mapping1D bool) int {
	tile := uint32(attr2 & attr2TileMask)

	var rowStride uint32
	if mapping1D {
		rowStride = uint32(w / 8)
		if is8bpp {
			rowStride *= 2
		}
	} else {
		rowStride = 32
	}

	tileX := uint32(tx / 8)
	tileY := uint32(ty / 8)

	if is8bpp {
		t := tile + tileY*rowStride + tileX*2
		addr := objTileBase + (t%1024)*32 + uint32(ty%8)*8 + uint32(tx%8)
		if addr >= 0x18000 {
			return 0
		}
		return int(ppu.mem.VRAM[addr])
	}

	t := tile + tileY*rowStride + tileX
	addr := objTileBase + (t%1024)*32 + uint32(ty%8)*4 + uint32(tx%8)/2
	if addr >= 0x18000 {
		return 0
	}
	b := ppu.mem.VRAM[addr]
	if tx&0x01 == 0x01 {
		return int(b >> 4)
	}
	return int(b & 0x0f)
}

// oamParam reads one affine parameter from the OAM filler halfwords. group
// selects one of the 32 parameter sets, element one of pa/pb/pc/pd.
func (ppu *PPU) oamParam(group, element int) int32 {
	offset := group*32 + element*8 + 6
	return int32(int16(uint16(ppu.mem.OAM[offset]) | uint16(ppu.mem.OAM[offset+1])<<8))
}
