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
	"fmt"

	"github.com/jetsetilly/gopheradvance/hardware/cpu/registers"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// address of the word the interrupt dispatch trampoline reads the game's
// handler from, and the word the wait-for-interrupt services poll
const (
	addrIRQHandler = uint32(0x03007ffc)
	addrBIOSFlags  = uint32(0x03007ff8)
)

// irqReturnAddr is the link register value given to the game's interrupt
// handler. It is outside any mapped region so the fetch stage can
// recognise the handler returning and unwind the dispatch.
const irqReturnAddr = uint32(0xfffffffc)

// number of cycles reported for a step in which the processor is halted
// and waiting for an interrupt
const haltQuantum = 8

// CPU implements the ARM7TDMI found in the console. Register and mode
// logic is implemented by the Registers type in the registers sub-package.
type CPU struct {
	Reg registers.Registers

	mem *memory.Memory

	// a taken branch (any write to r15) is noted here so the fetch stage
	// knows to charge the pipeline refill
	branched bool

	// entered by the halt service or the halt register. leaves when an
	// interrupt is pending, masked or not
	halted bool

	// entered by the wait-for-interrupt services. leaves when one of the
	// requested flags appears in the handler acknowledge word
	intrWait      bool
	intrWaitFlags uint16
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(mem *memory.Memory) *CPU {
	mc := &CPU{mem: mem}
	mc.Reset()
	return mc
}

// Reset the CPU to the documented post-boot state.
func (mc *CPU) Reset() {
	mc.Reg.Reset()
	mc.branched = false
	mc.halted = false
	mc.intrWait = false
	mc.intrWaitFlags = 0
}

// Snapshot creates a copy of the CPU in its current state.
func (mc *CPU) Snapshot() *CPU {
	n := *mc
	return &n
}

// Plumb a previously taken snapshot into the supplied memory.
func (mc *CPU) Plumb(s *CPU, mem *memory.Memory) {
	*mc = *s
	mc.mem = mem
}

func (mc *CPU) String() string {
	return fmt.Sprintf("%s\nhalted=%v", mc.Reg.String(), mc.halted)
}

// PC returns the address of the next instruction to be executed.
func (mc *CPU) PC() uint32 {
	return mc.Reg.PC()
}

// Halted returns whether the processor is waiting for an interrupt.
func (mc *CPU) Halted() bool {
	return mc.halted
}

// Step executes a single instruction and returns the number of cycles it
// consumed, including memory wait states and any pipeline refill. While
// the processor is waiting for an interrupt a fixed small quantum is
// returned instead, so the caller keeps advancing the other subsystems.
func (mc *CPU) Step() int {
	// an unmasked pending interrupt is taken before anything else, waking
	// the processor if necessary
	if !mc.Reg.IsSet(registers.FlagI) && mc.mem.IRQAsserted() {
		mc.halted = false
		return mc.interrupt()
	}

	if mc.mem.HaltRequested() {
		mc.halted = true
	}

	if mc.halted {
		// any pending interrupt releases the halt, masked or not
		if mc.mem.IRQPendingRegardless() {
			mc.halted = false
		} else {
			return haltQuantum
		}
	}

	// the wait-for-interrupt services block here until the game's handler
	// acknowledges one of the requested flags. the handler itself runs in
	// interrupt mode so is never blocked
	if mc.intrWait && mc.Reg.Mode() != registers.ModeIRQ {
		flags := mc.biosFlags()
		if flags&mc.intrWaitFlags != 0 {
			mc.setBIOSFlags(flags &^ mc.intrWaitFlags)
			mc.intrWait = false
		} else {
			return haltQuantum
		}
	}

	pc := mc.Reg.PC()
	if pc == irqReturnAddr {
		return mc.interruptReturn()
	}

	mc.branched = false

	var cycles int

	if mc.Reg.Thumb() {
		pc &= ^uint32(0x01)
		opcode, c := mc.mem.Read16(pc)
		cycles += c

		// operands read the program counter two instructions ahead
		mc.Reg.SetPC(pc + 4)
		cycles += mc.executeThumb(opcode)

		if mc.branched {
			cycles += mc.refill()
		} else {
			mc.Reg.SetPC(pc + 2)
		}
	} else {
		pc &= ^uint32(0x03)
		opcode, c := mc.mem.Read32(pc)
		cycles += c

		mc.Reg.SetPC(pc + 8)
		cycles += mc.executeARM(opcode)

		if mc.branched {
			cycles += mc.refill()
		} else {
			mc.Reg.SetPC(pc + 4)
		}
	}

	return cycles
}

// refill charges the two extra fetches caused by a taken branch emptying
// the pipeline.
func (mc *CPU) refill() int {
	area, _ := memorymap.MapAddress(mc.Reg.PC())
	width := memory.Width32
	if mc.Reg.Thumb() {
		width = memory.Width16
	}
	return 2 * memory.AccessCycles(area, width)
}

// regVal returns the current view of register idx as an operand.
func (mc *CPU) regVal(idx int) uint32 {
	return mc.Reg.Reg(idx)
}

// setReg writes a result register, treating a write to the program
// counter as a branch. The new program counter is aligned to the current
// instruction width.
func (mc *CPU) setReg(idx int, value uint32) {
	if idx == 15 {
		mc.branch(value)
		return
	}
	mc.Reg.SetReg(idx, value)
}

// branch sets the program counter, aligned to the current instruction
// width, and notes the pipeline flush.
func (mc *CPU) branch(addr uint32) {
	if mc.Reg.Thumb() {
		addr &= ^uint32(0x01)
	} else {
		addr &= ^uint32(0x03)
	}
	mc.Reg.SetPC(addr)
	mc.branched = true
}

func (mc *CPU) biosFlags() uint16 {
	v, _ := mc.mem.Read16(addrBIOSFlags)
	return v
}

func (mc *CPU) setBIOSFlags(v uint16) {
	_ = mc.mem.Write16(addrBIOSFlags, v)
}
