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

package cpu

import (
	"github.com/jetsetilly/gopheradvance/hardware/cpu/registers"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// interrupt performs the interrupt entry sequence and the firmware's
// dispatch trampoline in one step. The processor switches to interrupt
// mode with further interrupts masked, the scratch registers are stacked,
// and control passes to the handler the game installed in the last word
// of the fast work RAM. The link register is given a recognisable
// out-of-memory value so the fetch stage can catch the handler returning.
func (mc *CPU) interrupt() int {
	reg := &mc.Reg

	// address the handler returns to, via the usual subtract-four return
	ret := reg.PC() + 4

	spsr := reg.CPSR
	reg.SetMode(registers.ModeIRQ)
	reg.SetSPSR(spsr)
	reg.SetFlag(registers.FlagT, false)
	reg.SetFlag(registers.FlagI, true)

	// stack r0-r3, r12 and the return address, as the trampoline does
	sp := reg.Reg(13) - 24
	reg.SetReg(13, sp)

	var cycles int
	for i, r := range []int{0, 1, 2, 3, 12} {
		cycles += mc.mem.Write32(sp+uint32(i*4), reg.Reg(r))
	}
	cycles += mc.mem.Write32(sp+20, ret)

	handler, c := mc.mem.Read32(addrIRQHandler)
	cycles += c

	if handler == 0 {
		// no handler installed. acknowledge everything ourselves, post
		// the flags where the wait-for-interrupt services look for them,
		// and return straight away
		pending := mc.pendingInterrupts()
		mc.mem.Write16(0x04000000+memory.RegIF, pending)
		mc.setBIOSFlags(mc.biosFlags() | pending)
		reg.SetReg(14, irqReturnAddr)
		return cycles + mc.interruptReturn()
	}

	reg.SetReg(14, irqReturnAddr)
	reg.SetPC(handler &^ 3)

	return cycles + mc.refill()
}

// interruptReturn unwinds the dispatch trampoline: the stacked registers
// are restored and the processor drops back to the interrupted mode and
// instruction width.
func (mc *CPU) interruptReturn() int {
	reg := &mc.Reg

	sp := reg.Reg(13)

	var cycles int
	var v uint32
	var c int

	for i, r := range []int{0, 1, 2, 3, 12} {
		v, c = mc.mem.Read32(sp + uint32(i*4))
		cycles += c
		reg.SetReg(r, v)
	}
	ret, c := mc.mem.Read32(sp + 20)
	cycles += c

	reg.SetReg(13, sp+24)

	reg.SetCPSR(reg.SPSR())
	mc.branch(ret - 4)

	return cycles + mc.refill()
}

// pendingInterrupts returns the set of requested interrupts that are also
// enabled.
func (mc *CPU) pendingInterrupts() uint16 {
	ie := mc.mem.PeekIO(memory.RegIE)
	iflags := mc.mem.PeekIO(memory.RegIF)
	return ie & iflags
}
