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

package memory

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// access widths for the AccessCycles function.
const (
	Width8 = iota
	Width16
	Width32
)

// AccessCycles returns the number of bus cycles an access to the given area
// costs, including wait states.
//
// The values correspond to the power-on defaults of the wait state control
// register. Software that reprograms the cartridge wait states or enables
// prefetch is billed the default cost regardless, a simplification that
// overstates ROM access cost slightly for the handful of games that tighten
// the timings.
//
//	system ROM, work RAM (internal), registers, OAM: 1 cycle
//	work RAM (external): 3 cycles, 16 bit bus so double for 32 bit access
//	palette, video RAM:  1 cycle,  16 bit bus so double for 32 bit access
//	cartridge ROM:       5 cycles (non-sequential), double for 32 bit access
//	cartridge save RAM:  5 cycles, 8 bit bus
func AccessCycles(area memorymap.Area, width int) int {
	switch area {
	case memorymap.EWRAM:
		if width == Width32 {
			return 6
		}
		return 3
	case memorymap.Palette, memorymap.VRAM:
		if width == Width32 {
			return 2
		}
		return 1
	case memorymap.GamePak:
		if width == Width32 {
			return 8
		}
		return 5
	case memorymap.SaveRAM:
		return 5
	}

	// BIOS, IWRAM, IO, OAM and undefined areas
	return 1
}
