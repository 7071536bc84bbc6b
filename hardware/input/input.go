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

// Package input implements the keypad. Keys are active low in the input
// register: a pressed key reads as 0.
package input

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// Key identifies one of the ten inputs.
type Key uint16

// The keys, as their bits appear in the keypad registers.
const (
	KeyA      Key = 0x0001
	KeyB      Key = 0x0002
	KeySelect Key = 0x0004
	KeyStart  Key = 0x0008
	KeyRight  Key = 0x0010
	KeyLeft   Key = 0x0020
	KeyUp     Key = 0x0040
	KeyDown   Key = 0x0080
	KeyR      Key = 0x0100
	KeyL      Key = 0x0200
)

const keyMask = 0x03ff

// fields of the keypad interrupt control register.
const (
	keyIRQEnable = 0x4000
	keyIRQAnd    = 0x8000
)

// Keypad holds the state of the ten keys and handles the keypad interrupt.
type Keypad struct {
	mem *memory.Memory

	// pressed keys, active high internally
	pressed uint16
}

// NewKeypad is the preferred method of initialisation for the Keypad type.
func NewKeypad(mem *memory.Memory) *Keypad {
	k := &Keypad{mem: mem}
	k.Reset()
	return k
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.pressed = 0
	k.publish()
}

// Set presses or releases a key.
func (k *Keypad) Set(key Key, down bool) {
	if down {
		k.pressed |= uint16(key)
	} else {
		k.pressed &^= uint16(key)
	}
	k.publish()
}

// SetAll replaces the state of every key at once. A set bit is a pressed
// key.
func (k *Keypad) SetAll(pressed uint16) {
	k.pressed = pressed & keyMask
	k.publish()
}

// publish writes the active-low register value and raises the keypad
// interrupt if the interrupt condition is met.
func (k *Keypad) publish() {
	k.mem.PokeIO(memory.RegKEYINPUT, ^k.pressed&keyMask)

	cnt := k.mem.PeekIO(memory.RegKEYCNT)
	if cnt&keyIRQEnable != keyIRQEnable {
		return
	}

	sel := cnt & keyMask
	if sel == 0 {
		return
	}

	if cnt&keyIRQAnd == keyIRQAnd {
		// logical AND: all selected keys must be down
		if k.pressed&sel == sel {
			k.mem.RequestInterrupt(memory.IntKeypad)
		}
	} else {
		// logical OR: any selected key
		if k.pressed&sel != 0 {
			k.mem.RequestInterrupt(memory.IntKeypad)
		}
	}
}
