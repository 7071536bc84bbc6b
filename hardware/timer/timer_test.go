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

package timer_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/timer"
	"github.com/jetsetilly/gopheradvance/test"
)

func newTimers() (*memory.Memory, *timer.Timers) {
	mem := memory.NewMemory()
	blk := timer.NewTimers(mem)
	mem.Timers = blk
	return mem, blk
}

func TestTimer_basicCounting(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000102, 0x0080) // enable, prescaler 1

	blk.Step(100)
	v, _ := mem.Read16(0x04000100)
	test.Equate(t, v, 100)

	blk.Step(3)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 103)
}

func TestTimer_prescaler(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000102, 0x0081) // enable, prescaler 64

	blk.Step(63)
	v, _ := mem.Read16(0x04000100)
	test.Equate(t, v, 0)

	blk.Step(1)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 1)

	// residue carries across steps
	blk.Step(640)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 11)
}

func TestTimer_reloadOnEnable(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000100, 0xff00) // reload
	mem.Write16(0x04000102, 0x0080)

	v, _ := mem.Read16(0x04000100)
	test.Equate(t, v, 0xff00)

	blk.Step(0x10)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 0xff10)

	// rewriting the reload register while running does not disturb the
	// counter
	mem.Write16(0x04000100, 0x1234)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 0xff10)
}

func TestTimer_overflowInterruptAndReload(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000100, 0xfffe)
	mem.Write16(0x04000102, 0x00c0) // enable, IRQ

	blk.Step(1)
	v, _ := mem.Read16(0x04000202)
	test.Equate(t, v, 0x0000)

	blk.Step(1)
	v, _ = mem.Read16(0x04000202)
	test.Equate(t, v, memory.IntTimer0)

	// counter restarted from the reload value
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 0xfffe)
}

func TestTimer_cascade(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000100, 0xff00)
	mem.Write16(0x04000102, 0x0080)
	mem.Write16(0x04000106, 0x0084) // timer 1: enable, count-up

	// timer 1 only advances when timer 0 overflows
	blk.Step(0xff)
	v, _ := mem.Read16(0x04000104)
	test.Equate(t, v, 0)

	blk.Step(1)
	v, _ = mem.Read16(0x04000104)
	test.Equate(t, v, 1)

	// the cascaded timer ignores the system clock entirely
	blk.Step(0x80)
	v, _ = mem.Read16(0x04000104)
	test.Equate(t, v, 1)
}

func TestTimer_multipleOverflowsInOneStep(t *testing.T) {
	mem, blk := newTimers()

	mem.Write16(0x04000100, 0xff80) // span of 0x80 ticks
	mem.Write16(0x04000102, 0x0080)
	mem.Write16(0x04000106, 0x0084)

	// first overflow after 0x80 ticks, then every 0x80. 0x200 ticks is 4
	// overflows exactly
	blk.Step(0x200)
	v, _ := mem.Read16(0x04000104)
	test.Equate(t, v, 4)
	v, _ = mem.Read16(0x04000100)
	test.Equate(t, v, 0xff80)
}
