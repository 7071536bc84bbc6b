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

package modalflag_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/modalflag"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestModalflag_defaultMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"game.gba"})
	md.AddSubModes("RUN", "DEBUG")

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(r), int(modalflag.ParseContinue))
	test.Equate(t, md.Mode(), "RUN")
	test.Equate(t, md.GetArg(0), "game.gba")
}

func TestModalflag_explicitMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"debug", "game.gba"})
	md.AddSubModes("RUN", "DEBUG")

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(r), int(modalflag.ParseContinue))
	test.Equate(t, md.Mode(), "DEBUG")

	// second stage parses the remaining arguments
	md.NewMode()
	tv := md.AddBool("colorterm", false, "use color terminal")
	r, err = md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(r), int(modalflag.ParseContinue))
	test.Equate(t, *tv, false)
	test.Equate(t, md.GetArg(0), "game.gba")
}

func TestModalflag_flags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-scale", "3", "game.gba"})
	scale := md.AddInt("scale", 2, "window scale")

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(r), int(modalflag.ParseContinue))
	test.Equate(t, *scale, 3)
	test.Equate(t, md.GetArg(0), "game.gba")
}

func TestModalflag_path(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"debug"})
	md.AddSubModes("RUN", "DEBUG")
	_, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, md.Path(), "DEBUG")
}
