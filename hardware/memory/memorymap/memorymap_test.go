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

package memorymap_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestMapAddress_areas(t *testing.T) {
	for _, tc := range []struct {
		address uint32
		area    memorymap.Area
		offset  uint32
	}{
		{0x00000000, memorymap.BIOS, 0x0000},
		{0x00003fff, memorymap.BIOS, 0x3fff},
		{0x00004000, memorymap.Undefined, 0x4000},
		{0x02000000, memorymap.EWRAM, 0x0000},
		{0x02040000, memorymap.EWRAM, 0x0000},
		{0x02f4abcd, memorymap.EWRAM, 0x00abcd},
		{0x03000000, memorymap.IWRAM, 0x0000},
		{0x03008000, memorymap.IWRAM, 0x0000},
		{0x03ffff00, memorymap.IWRAM, 0x7f00},
		{0x04000000, memorymap.IO, 0x0000},
		{0x040003fe, memorymap.IO, 0x03fe},
		{0x04000400, memorymap.Undefined, 0x04000400},
		{0x05000000, memorymap.Palette, 0x0000},
		{0x05000400, memorymap.Palette, 0x0000},
		{0x06000000, memorymap.VRAM, 0x0000},
		{0x06020000, memorymap.VRAM, 0x0000},
		{0x07000000, memorymap.OAM, 0x0000},
		{0x07000400, memorymap.OAM, 0x0000},
		{0x08000000, memorymap.GamePak, 0x0000000},
		{0x09000000, memorymap.GamePak, 0x1000000},
		{0x0e000000, memorymap.SaveRAM, 0x0000},
		{0x0e010000, memorymap.SaveRAM, 0x0000},
	} {
		area, offset := memorymap.MapAddress(tc.address)
		test.Equate(t, int(area), int(tc.area))
		test.Equate(t, offset, tc.offset)
	}
}

// cartridge ROM appears at every one of the 0x08 to 0x0d segments with the
// same in-segment offset
func TestMapAddress_romMirrors(t *testing.T) {
	for _, in := range []uint32{0x0001234, 0x0700000, 0x1fffffe} {
		area, offset := memorymap.MapAddress(0x08000000 + in)
		test.Equate(t, int(area), int(memorymap.GamePak))
		test.Equate(t, offset, in)

		area, mirrored := memorymap.MapAddress(0x0a000000 + in)
		test.Equate(t, int(area), int(memorymap.GamePak))
		test.Equate(t, mirrored, offset)

		area, mirrored = memorymap.MapAddress(0x0c000000 + in)
		test.Equate(t, int(area), int(memorymap.GamePak))
		test.Equate(t, mirrored, offset)
	}
}

// the upper 32KB of the 128KB VRAM window mirrors the preceding 32KB
func TestMapAddress_vramQuirk(t *testing.T) {
	area, offset := memorymap.MapAddress(0x06018000)
	test.Equate(t, int(area), int(memorymap.VRAM))
	test.Equate(t, offset, 0x10000)

	area, offset = memorymap.MapAddress(0x0601ffff)
	test.Equate(t, int(area), int(memorymap.VRAM))
	test.Equate(t, offset, 0x17fff)

	// and the whole thing repeats every 128KB
	area, offset = memorymap.MapAddress(0x06038000)
	test.Equate(t, int(area), int(memorymap.VRAM))
	test.Equate(t, offset, 0x10000)
}
