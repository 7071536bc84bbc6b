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

// Package memorymap facilitates the translation of 32 bit addresses to the
// part of the console that is being addressed. The bus decodes only the top
// byte of the address; offsets beyond the physical size of an area wrap
// around, which is what produces the mirroring behaviour relied on by a lot
// of software.
//
// The MapAddress() function returns the Area for an address along with the
// offset into that area's memory. For example:
//
//	area, offset := memorymap.MapAddress(0x03008000)
//
// returns memorymap.IWRAM and an offset of 0x0000, the 32KB of internal work
// RAM being mirrored throughout the 0x03 segment.
package memorymap

// Area represents the different areas of the address space.
type Area int

func (a Area) String() string {
	switch a {
	case BIOS:
		return "BIOS"
	case EWRAM:
		return "EWRAM"
	case IWRAM:
		return "IWRAM"
	case IO:
		return "IO"
	case Palette:
		return "Palette"
	case VRAM:
		return "VRAM"
	case OAM:
		return "OAM"
	case GamePak:
		return "GamePak"
	case SaveRAM:
		return "SaveRAM"
	}
	return "undefined"
}

// The different Areas of the address space.
const (
	Undefined Area = iota
	BIOS
	EWRAM
	IWRAM
	IO
	Palette
	VRAM
	OAM
	GamePak
	SaveRAM
)

// The origin address of each area.
const (
	OriginBIOS    = uint32(0x00000000)
	OriginEWRAM   = uint32(0x02000000)
	OriginIWRAM   = uint32(0x03000000)
	OriginIO      = uint32(0x04000000)
	OriginPalette = uint32(0x05000000)
	OriginVRAM    = uint32(0x06000000)
	OriginOAM     = uint32(0x07000000)
	OriginGamePak = uint32(0x08000000)
	OriginSaveRAM = uint32(0x0e000000)
)

// The physical size of each area. Addressing capacity is larger in every
// case, the remainder being filled with mirrors.
const (
	SizeBIOS    = 0x00004000
	SizeEWRAM   = 0x00040000
	SizeIWRAM   = 0x00008000
	SizeIO      = 0x00000400
	SizePalette = 0x00000400
	SizeVRAM    = 0x00018000
	SizeOAM     = 0x00000400
	SizeGamePak = 0x02000000
)

// MapAddress translates the address argument to an Area and an offset into
// that area, applying the area's mirroring rule.
//
// Offsets into the GamePak area are relative to OriginGamePak and cover the
// full 32MB addressing range. The three ROM mirrors at 0x0a, 0x0c and 0x0d
// fold onto the same offsets, meaning a cartridge smaller than 32MB is
// repeated throughout. Further reduction modulo the actual cartridge size is
// the responsibility of the cartridge implementation, which knows that size.
func MapAddress(address uint32) (Area, uint32) {
	switch address >> 24 {
	case 0x00:
		// the system ROM is not mirrored. addresses beyond its 16KB return
		// open bus values, which the caller decides on
		if address >= SizeBIOS {
			return Undefined, address
		}
		return BIOS, address
	case 0x02:
		return EWRAM, address & (SizeEWRAM - 1)
	case 0x03:
		return IWRAM, address & (SizeIWRAM - 1)
	case 0x04:
		// registers are not mirrored (with one obscure exception that is not
		// reproduced here). out of range addresses read as open bus
		if address&0x00ffffff >= SizeIO {
			return Undefined, address
		}
		return IO, address & 0x000003ff
	case 0x05:
		return Palette, address & (SizePalette - 1)
	case 0x06:
		// VRAM is 96KB mirrored in 128KB steps. the upper 32KB of each 128KB
		// window maps onto the preceding 32KB
		offset := address & 0x0001ffff
		if offset >= SizeVRAM {
			offset -= 0x00008000
		}
		return VRAM, offset
	case 0x07:
		return OAM, address & (SizeOAM - 1)
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		return GamePak, address & 0x01ffffff
	case 0x0e, 0x0f:
		return SaveRAM, address & 0x0000ffff
	}

	return Undefined, address
}
