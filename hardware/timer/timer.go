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

// Package timer implements the four hardware timers. Each counts up at a
// prescaled fraction of the system clock, or once per overflow of the
// previous timer when in count-up mode, and reloads a programmable value on
// overflow. Timers 0 and 1 additionally clock the audio FIFOs, which is what
// the OverflowListener interface exists for.
package timer

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// control register fields.
const (
	ctrlPrescalerMask = 0x0003
	ctrlCountUp       = 0x0004
	ctrlIRQ           = 0x0040
	ctrlEnable        = 0x0080
)

// prescaler divisors indexed by the prescaler field of the control register.
var prescalers = [4]int{1, 64, 256, 1024}

// OverflowListener is told how many times a timer overflowed during a Step.
// The audio hardware uses this to clock its sample output.
type OverflowListener interface {
	TimerOverflow(timer int, count int)
}

// each timer owns its registers. the counter value software reads is derived
// from internal state, not a stored byte, which is why the timer block is on
// the register forwarding path of the bus.
type timer struct {
	reload  uint16
	control uint16
	counter uint16

	// cycles not yet converted to counter ticks
	sub int
}

// Timers is the block of four hardware timers.
//
// Implements the memory.TimerBus interface.
type Timers struct {
	mem      *memory.Memory
	timers   [4]timer
	listener OverflowListener
}

// NewTimers is the preferred method of initialisation for the Timers type.
func NewTimers(mem *memory.Memory) *Timers {
	return &Timers{mem: mem}
}

// Reset all timers to their power-on state.
func (blk *Timers) Reset() {
	blk.timers = [4]timer{}
}

// SetOverflowListener attaches the listener informed of timer overflows.
func (blk *Timers) SetOverflowListener(l OverflowListener) {
	blk.listener = l
}

// ReadRegister implements the memory.TimerBus interface.
func (blk *Timers) ReadRegister(offset uint32) uint16 {
	n := int(offset-memory.RegTM0CNT_L) / 4
	if offset&0x02 == 0x02 {
		return blk.timers[n].control
	}
	return blk.timers[n].counter
}

// WriteRegister implements the memory.TimerBus interface.
func (blk *Timers) WriteRegister(offset uint32, data uint16) {
	n := int(offset-memory.RegTM0CNT_L) / 4
	t := &blk.timers[n]

	if offset&0x02 == 0x02 {
		// enabling a stopped timer latches the reload value into the counter
		if data&ctrlEnable == ctrlEnable && t.control&ctrlEnable == 0x0000 {
			t.counter = t.reload
			t.sub = 0
		}
		t.control = data
		return
	}

	// the counter register is the reload value on write
	t.reload = data
}

// Step advances the timers by the given number of system clock cycles.
func (blk *Timers) Step(cycles int) {
	for n := 0; n < 4; n++ {
		t := &blk.timers[n]
		if t.control&ctrlEnable == 0x0000 {
			continue
		}

		// a timer in count-up mode is clocked by the overflow of the
		// previous timer, not by the system clock. timer 0 ignores the
		// count-up bit
		if n > 0 && t.control&ctrlCountUp == ctrlCountUp {
			continue
		}

		t.sub += cycles
		pre := prescalers[t.control&ctrlPrescalerMask]
		ticks := t.sub / pre
		t.sub %= pre

		blk.advance(n, ticks)
	}
}

// advance a timer by a number of ticks, handling overflow, reload, interrupt
// generation and cascade to the next timer.
func (blk *Timers) advance(n int, ticks int) {
	t := &blk.timers[n]

	var overflows int

	for ticks > 0 {
		space := 0x10000 - int(t.counter)
		if ticks < space {
			t.counter += uint16(ticks)
			break
		}
		ticks -= space
		t.counter = t.reload
		overflows++

		// reload values close to the ceiling could overflow many times in
		// one step. the span from reload to overflow bounds the remaining
		// iterations
		span := 0x10000 - int(t.reload)
		if ticks >= span {
			overflows += ticks / span
			t.counter = t.reload + uint16(ticks%span)
			ticks = 0
		}
	}

	if overflows == 0 {
		return
	}

	if t.control&ctrlIRQ == ctrlIRQ {
		blk.mem.RequestInterrupt(memory.IntTimer0 << n)
	}

	if blk.listener != nil {
		blk.listener.TimerOverflow(n, overflows)
	}

	if n < 3 {
		next := &blk.timers[n+1]
		if next.control&ctrlEnable == ctrlEnable && next.control&ctrlCountUp == ctrlCountUp {
			blk.advance(n+1, overflows)
		}
	}
}

// Snapshot of the timer block state, for the rewind system.
type Snapshot struct {
	Timers [4]timer
}

// Snapshot the current timer state.
func (blk *Timers) Snapshot() *Snapshot {
	return &Snapshot{Timers: blk.timers}
}

// Plumb a previously taken snapshot back into the timer block.
func (blk *Timers) Plumb(s *Snapshot) {
	blk.timers = s.Timers
}
