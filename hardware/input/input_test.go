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

package input_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/input"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestKeypad_activeLow(t *testing.T) {
	mem := memory.NewMemory()
	k := input.NewKeypad(mem)

	v, _ := mem.Read16(0x04000130)
	test.Equate(t, v, 0x03ff)

	k.Set(input.KeyA, true)
	v, _ = mem.Read16(0x04000130)
	test.Equate(t, v, 0x03fe)

	k.Set(input.KeyA, false)
	v, _ = mem.Read16(0x04000130)
	test.Equate(t, v, 0x03ff)
}

func TestKeypad_interrupt(t *testing.T) {
	mem := memory.NewMemory()
	k := input.NewKeypad(mem)

	// interrupt on start OR select
	mem.Write16(0x04000132, 0x4000|0x000c)

	k.Set(input.KeyA, true)
	v, _ := mem.Read16(0x04000202)
	test.Equate(t, v, 0x0000)

	k.Set(input.KeyStart, true)
	v, _ = mem.Read16(0x04000202)
	test.Equate(t, v, memory.IntKeypad)
}

func TestKeypad_interruptAndCondition(t *testing.T) {
	mem := memory.NewMemory()
	k := input.NewKeypad(mem)

	// interrupt on A AND B together
	mem.Write16(0x04000132, 0xc000|0x0003)

	k.Set(input.KeyA, true)
	v, _ := mem.Read16(0x04000202)
	test.Equate(t, v, 0x0000)

	k.Set(input.KeyB, true)
	v, _ = mem.Read16(0x04000202)
	test.Equate(t, v, memory.IntKeypad)
}
