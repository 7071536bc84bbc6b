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

	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/cpu/registers"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

// loadThumb places a 16-bit program in the fast work RAM and puts the
// processor in the 16-bit state.
func loadThumb(mem *memory.Memory, mc *cpu.CPU, program ...uint16) {
	for i, opcode := range program {
		mem.Write16(codeOrigin+uint32(i*2), opcode)
	}
	mc.Reg.SetFlag(registers.FlagT, true)
	mc.Reg.SetPC(codeOrigin)
}

func TestThumb_immediate(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2007, // mov r0, #7
		0x3005, // add r0, #5
		0x3803, // sub r0, #3
		0x2809, // cmp r0, #9
	)
	for i := 0; i < 4; i++ {
		mc.Step()
	}

	test.Equate(t, mc.Reg.Reg(0), 9)
	test.ExpectedSuccess(t, mc.Reg.IsSet(registers.FlagZ))
}

func TestThumb_shifted(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2003, // mov r0, #3
		0x0101, // lsl r1, r0, #4
		0x0849, // lsr r1, r1, #1
	)
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Reg.Reg(1), 0x30)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(1), 0x18)
	test.ExpectedSuccess(t, !mc.Reg.IsSet(registers.FlagC))
}

func TestThumb_addSub(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2005, // mov r0, #5
		0x2102, // mov r1, #2
		0x1842, // add r2, r0, r1
		0x1a43, // sub r3, r0, r1
		0x1cc4, // add r4, r0, #3
	)
	for i := 0; i < 5; i++ {
		mc.Step()
	}

	test.Equate(t, mc.Reg.Reg(2), 7)
	test.Equate(t, mc.Reg.Reg(3), 3)
	test.Equate(t, mc.Reg.Reg(4), 8)
}

func TestThumb_alu(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x200f, // mov r0, #15
		0x2103, // mov r1, #3
		0x4048, // eor r0, r1
		0x4348, // mul r0, r1
		0x43c8, // mvn r0, r1
	)
	mc.Step()
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 12)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 36)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), uint32(0xfffffffc))
}

func TestThumb_hiRegAndBX(t *testing.T) {
	mem, mc := newTestCPU()

	// mov into a high register, add it to another, then bx back to the
	// 32-bit state
	loadThumb(mem, mc,
		0x2002, // mov r0, #2
		0x4684, // mov r12, r0
		0x4460, // add r0, r12
		0x4770, // bx r14
	)
	mc.Reg.SetReg(14, 0x03000100)

	mc.Step()
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Reg.Reg(12), 2)
	test.Equate(t, mc.Reg.Reg(0), 4)

	mc.Step()
	test.ExpectedSuccess(t, !mc.Reg.Thumb())
	test.Equate(t, mc.Reg.PC(), uint32(0x03000100))
}

func TestThumb_loadStore(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2055, // mov r0, #0x55
		0x4901, // ldr r1, [pc, #4]
		0x6008, // str r0, [r1]
		0x6808, // ldr r0, [r1]
	)
	mem.Write32(codeOrigin+8, 0x03000100)

	for i := 0; i < 4; i++ {
		mc.Step()
	}

	test.Equate(t, mc.Reg.Reg(1), uint32(0x03000100))
	test.Equate(t, mc.Reg.Reg(0), 0x55)

	v, _ := mem.Read32(0x03000100)
	test.Equate(t, v, 0x55)
}

func TestThumb_pushPop(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2001, // mov r0, #1
		0x2102, // mov r1, #2
		0xb403, // push {r0, r1}
		0x2000, // mov r0, #0
		0x2100, // mov r1, #0
		0xbc03, // pop {r0, r1}
	)
	sp := mc.Reg.Reg(13)

	for i := 0; i < 6; i++ {
		mc.Step()
	}

	test.Equate(t, mc.Reg.Reg(0), 1)
	test.Equate(t, mc.Reg.Reg(1), 2)
	test.Equate(t, mc.Reg.Reg(13), sp)
}

func TestThumb_popPC(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0xb500, // push {lr}
		0xbd00, // pop {pc}
	)
	mc.Reg.SetReg(14, 0x03000200)

	mc.Step()
	mc.Step()

	test.Equate(t, mc.Reg.PC(), uint32(0x03000200))
}

func TestThumb_condBranch(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2000, // mov r0, #0
		0x2800, // cmp r0, #0
		0xd000, // beq to codeOrigin+8
		0x2063, // mov r0, #99 (skipped)
		0x2042, // mov r0, #66
	)
	for i := 0; i < 4; i++ {
		mc.Step()
	}

	test.Equate(t, mc.Reg.Reg(0), 66)
}

func TestThumb_longBranchWithLink(t *testing.T) {
	mem, mc := newTestCPU()

	// bl +0x10: the two halves stage and complete the branch
	loadThumb(mem, mc,
		0xf000, // bl prefix, offset high 0
		0xf806, // bl suffix, offset low 6
	)
	mc.Step()
	mc.Step()

	// target = (origin + 4) + (6 << 1)
	test.Equate(t, mc.Reg.PC(), codeOrigin+4+12)

	// the link register holds the address after the pair, with the low
	// bit set for the 16-bit state
	test.Equate(t, mc.Reg.Reg(14), (codeOrigin+4)|1)
}

func TestThumb_multiple(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0x2011, // mov r0, #0x11
		0x2122, // mov r1, #0x22
		0x4a02, // ldr r2, [pc, #8]
		0xc203, // stmia r2!, {r0, r1}
	)
	mem.Write32(codeOrigin+16, 0x03000100)

	for i := 0; i < 4; i++ {
		mc.Step()
	}

	v, _ := mem.Read32(0x03000100)
	test.Equate(t, v, 0x11)
	v, _ = mem.Read32(0x03000104)
	test.Equate(t, v, 0x22)
	test.Equate(t, mc.Reg.Reg(2), uint32(0x03000108))
}

func TestThumb_adjustSP(t *testing.T) {
	mem, mc := newTestCPU()

	loadThumb(mem, mc,
		0xb082, // sub sp, #8
		0xb001, // add sp, #4
	)
	sp := mc.Reg.Reg(13)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(13), sp-8)
	mc.Step()
	test.Equate(t, mc.Reg.Reg(13), sp-4)
}
