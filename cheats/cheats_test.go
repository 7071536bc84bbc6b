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

package cheats_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/cheats"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/test"
)

func newManager(t *testing.T) (*hardware.GBA, *cheats.Manager) {
	t.Helper()
	gba := hardware.NewGBA()
	gba.Reset()
	return gba, cheats.NewManager(gba)
}

func TestCheats_codeBreakerWrites(t *testing.T) {
	gba, m := newManager(t)

	// 8 bit write to IWRAM and 16 bit write to EWRAM
	n := m.AddCheat("hp", "33001234 000000ff")
	test.Equate(t, n, 1)
	n = m.AddCheat("gold", "82004000 0000beef")
	test.Equate(t, n, 1)

	m.Apply()
	test.Equate(t, gba.Mem.Peek(0x03001234), 0xff)
	v, _ := gba.Mem.Read16(0x02004000)
	test.Equate(t, v, 0xbeef)
}

func TestCheats_twelveDigitFormat(t *testing.T) {
	gba, m := newManager(t)

	n := m.AddCheat("lives", "33001234 0063")
	test.Equate(t, n, 1)

	m.Apply()
	test.Equate(t, gba.Mem.Peek(0x03001234), 0x63)
}

func TestCheats_gameSharkAddressFixup(t *testing.T) {
	gba, m := newManager(t)

	// the elided EWRAM prefix is restored
	n := m.AddCheat("timer", "10004000 0000cafe")
	test.Equate(t, n, 1)

	m.Apply()
	v, _ := gba.Mem.Read16(0x02004000)
	test.Equate(t, v, 0xcafe)
}

func TestCheats_multiLine(t *testing.T) {
	gba, m := newManager(t)

	n := m.AddCheat("combo", "33001000 00000001\n33001001 00000002\nnot a code\n3300 1002 0000 0003")
	test.Equate(t, n, 3)

	m.Apply()
	test.Equate(t, gba.Mem.Peek(0x03001000), 0x01)
	test.Equate(t, gba.Mem.Peek(0x03001001), 0x02)
	test.Equate(t, gba.Mem.Peek(0x03001002), 0x03)
}

func TestCheats_unrecognisedIgnored(t *testing.T) {
	_, m := newManager(t)

	test.Equate(t, m.AddCheat("bad", "zzzzzzzz zzzzzzzz"), 0)
	test.Equate(t, m.AddCheat("short", "1234"), 0)
	test.Equate(t, m.AddCheat("wrong type", "93001234 00000001"), 0)
}

func TestCheats_toggleAndRemove(t *testing.T) {
	gba, m := newManager(t)

	m.AddCheat("hp", "33001234 000000ff")
	m.ToggleCheat(0, false)
	m.Apply()
	test.Equate(t, gba.Mem.Peek(0x03001234), 0x00)

	m.ToggleCheat(0, true)
	m.Apply()
	test.Equate(t, gba.Mem.Peek(0x03001234), 0xff)

	m.RemoveCheat(0)
	test.Equate(t, len(m.Cheats()), 0)
}

func TestCheats_appliedAtFrameBoundary(t *testing.T) {
	gba, m := newManager(t)

	m.AddCheat("hp", "33001234 000000ff")
	test.Equate(t, gba.Mem.Peek(0x03001234), 0x00)

	// run the machine to the start of vblank. no cartridge is attached so
	// the CPU spins on open bus, which is good enough here
	for gba.PPU.FrameNum() < 1 {
		gba.Step()
	}
	test.Equate(t, gba.Mem.Peek(0x03001234), 0xff)
}
