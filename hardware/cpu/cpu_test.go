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

package cpu_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/cpu/registers"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestCPU_reset(t *testing.T) {
	_, mc := newTestCPU()

	test.Equate(t, mc.Reg.PC(), uint32(0x08000000))
	test.Equate(t, mc.Reg.Mode(), registers.ModeSystem)
	test.Equate(t, mc.Reg.Reg(13), registers.ResetSPUser)
	test.ExpectedSuccess(t, !mc.Reg.Thumb())
	test.ExpectedSuccess(t, !mc.Reg.IsSet(registers.FlagI))
}

func TestCPU_interruptDispatch(t *testing.T) {
	mem, mc := newTestCPU()

	// the handler acknowledges the vertical blank and returns
	handler := uint32(0x03000100)
	mem.Write32(0x03007ffc, handler)
	loadARM(mem, mc,
		0xe3a00001, // mov r0, #1
	)

	// handler: a token instruction, then return
	mem.Write32(handler+0, 0xe3a00403) // mov r0, #0x03000000
	mem.Write32(handler+4, 0xe12fff1e) // bx r14
	mem.Write16(0x04000200, memory.IntVBlank)
	mem.Write16(0x04000208, 0x0001)
	mem.RequestInterrupt(memory.IntVBlank)

	// first step takes the interrupt
	mc.Step()
	test.Equate(t, mc.Reg.PC(), handler)
	test.Equate(t, mc.Reg.Mode(), registers.ModeIRQ)
	test.ExpectedSuccess(t, mc.Reg.IsSet(registers.FlagI))

	// interrupts are masked while the handler runs even though the
	// request is still pending
	mc.Step()
	test.Equate(t, mc.Reg.PC(), handler+4)

	// acknowledge so the dispatch doesn't repeat on return
	mem.Write16(0x04000202, memory.IntVBlank)

	// return through the trampoline
	mc.Step()
	mc.Step()

	test.Equate(t, mc.Reg.PC(), codeOrigin)
	test.Equate(t, mc.Reg.Mode(), registers.ModeSystem)
	test.ExpectedSuccess(t, !mc.Reg.IsSet(registers.FlagI))

	// the interrupted program continues unharmed
	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 1)
}

func TestCPU_interruptPreservesScratchRegisters(t *testing.T) {
	mem, mc := newTestCPU()

	// a handler that trashes the scratch registers the trampoline
	// stacked
	handler := uint32(0x03000100)
	mem.Write32(0x03007ffc, handler)
	mem.Write32(handler+0, 0xe3a00063) // mov r0, #99
	mem.Write32(handler+4, 0xe3a0c063) // mov r12, #99
	mem.Write32(handler+8, 0xe12fff1e) // bx r14

	loadARM(mem, mc, 0xe3a01001) // mov r1, #1

	mc.Reg.SetReg(0, 0xdead)
	mc.Reg.SetReg(12, 0xbeef)

	mem.Write16(0x04000200, memory.IntTimer0)
	mem.Write16(0x04000208, 0x0001)
	mem.RequestInterrupt(memory.IntTimer0)

	mc.Step() // dispatch
	mc.Step() // mov r0
	mc.Step() // mov r12
	mem.Write16(0x04000202, memory.IntTimer0)
	mc.Step() // bx
	mc.Step() // trampoline return

	test.Equate(t, mc.Reg.Reg(0), 0xdead)
	test.Equate(t, mc.Reg.Reg(12), 0xbeef)
}

func TestCPU_interruptMasking(t *testing.T) {
	mem, mc := newTestCPU()

	loadARM(mem, mc, 0xe3a00001) // mov r0, #1

	// request with the master enable off. no dispatch
	mem.Write16(0x04000200, memory.IntVBlank)
	mem.RequestInterrupt(memory.IntVBlank)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 1)
	test.Equate(t, mc.Reg.Mode(), registers.ModeSystem)
}

func TestCPU_haltAndWake(t *testing.T) {
	mem, mc := newTestCPU()

	loadARM(mem, mc,
		0xef020000, // swi 0x02 (halt)
		0xe3a00001, // mov r0, #1
	)

	mc.Step()
	test.ExpectedSuccess(t, mc.Halted())

	// time passes but nothing happens
	test.Equate(t, mc.Step() > 0, true)
	test.ExpectedSuccess(t, mc.Halted())

	// a pending enabled interrupt wakes the processor even with the
	// master enable off
	mem.Write16(0x04000200, memory.IntTimer0)
	mem.RequestInterrupt(memory.IntTimer0)

	mc.Step()
	test.ExpectedSuccess(t, !mc.Halted())
	test.Equate(t, mc.Reg.Reg(0), 1)
}

func TestCPU_modeBanking(t *testing.T) {
	_, mc := newTestCPU()

	sp := mc.Reg.Reg(13)
	mc.Reg.SetMode(registers.ModeIRQ)
	test.Equate(t, mc.Reg.Reg(13), registers.ResetSPIRQ)

	mc.Reg.SetReg(13, 0x1234)
	mc.Reg.SetMode(registers.ModeSystem)
	test.Equate(t, mc.Reg.Reg(13), sp)

	mc.Reg.SetMode(registers.ModeIRQ)
	test.Equate(t, mc.Reg.Reg(13), uint32(0x1234))
}

func TestCPU_snapshot(t *testing.T) {
	mem, mc := newTestCPU()

	loadARM(mem, mc, 0xe3a00007) // mov r0, #7
	mc.Step()

	s := mc.Snapshot()

	loadARM(mem, mc, 0xe3a00009) // mov r0, #9
	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 9)

	mc.Plumb(s, mem)
	test.Equate(t, mc.Reg.Reg(0), 7)
}
