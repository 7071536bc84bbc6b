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

package cartridgeloader

// Regions inferred from the fourth character of the game code.
const (
	RegionNTSC    = "NTSC"
	RegionPAL     = "PAL"
	RegionJapan   = "NTSC-J"
	RegionUnknown = ""
)

// regionFromGameCode maps the fourth character of the game code to a
// region. The mapping follows publisher convention rather than any
// specification, so unknown characters are reported as such rather than
// guessed at.
func regionFromGameCode(code string) string {
	if len(code) != 4 {
		return RegionUnknown
	}

	switch code[3] {
	case 'E':
		return RegionNTSC
	case 'P', 'D', 'F', 'I', 'S', 'X', 'Y':
		return RegionPAL
	case 'J':
		return RegionJapan
	case 'K', 'C':
		// korea and china released carts exist but are rare. both
		// territories used NTSC-style displays
		return RegionNTSC
	}
	return RegionUnknown
}
