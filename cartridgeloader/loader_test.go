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

package cartridgeloader_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/test"
)

// header builds a minimal ROM image with the given header fields.
func header(title string, gameCode string, maker string) []byte {
	data := make([]byte, 0x100)
	copy(data[0xa0:], title)
	copy(data[0xac:], gameCode)
	copy(data[0xb0:], maker)
	return data
}

func TestLoader_header(t *testing.T) {
	cl := cartridgeloader.NewLoader("game.gba")
	cl.Data = header("SUPER GAME", "ASGE", "01")

	err := cl.Load()
	test.ExpectedSuccess(t, err)

	test.Equate(t, cl.Title, "SUPER GAME")
	test.Equate(t, cl.GameCode, "ASGE")
	test.Equate(t, cl.MakerCode, "01")
}

func TestLoader_region(t *testing.T) {
	for _, tc := range []struct {
		code   string
		region string
	}{
		{"ASGE", cartridgeloader.RegionNTSC},
		{"ASGP", cartridgeloader.RegionPAL},
		{"ASGJ", cartridgeloader.RegionJapan},
		{"ASGD", cartridgeloader.RegionPAL},
		{"ASG?", cartridgeloader.RegionUnknown},
	} {
		cl := cartridgeloader.NewLoader("game.gba")
		cl.Data = header("TEST", tc.code, "01")

		err := cl.Load()
		test.ExpectedSuccess(t, err)
		test.Equate(t, cl.Region, tc.region)
	}
}

func TestLoader_tooSmallForHeader(t *testing.T) {
	cl := cartridgeloader.NewLoader("tiny.gba")
	cl.Data = []byte{0x01, 0x02, 0x03}

	err := cl.Load()
	test.ExpectedSuccess(t, err)
	test.Equate(t, cl.Title, "")
	test.Equate(t, cl.Region, cartridgeloader.RegionUnknown)
}

func TestLoader_missingFile(t *testing.T) {
	cl := cartridgeloader.NewLoader("/does/not/exist.gba")
	err := cl.Load()
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, !cl.HasLoaded())
}
