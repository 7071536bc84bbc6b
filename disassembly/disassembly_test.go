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

package disassembly_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/disassembly"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

const origin = 0x03000000

// poke a sequence of 32bit words into IWRAM
func pokeProgram(mem *memory.Memory, words ...uint32) {
	for i, w := range words {
		mem.Write32(origin+uint32(i*4), w)
	}
}

func TestDisassembly_arm(t *testing.T) {
	mem := memory.NewMemory()

	pokeProgram(mem,
		0xe3a0002a, // mov r0, #42
		0xeafffffe, // b .
		0xe5901004, // ldr r1, [r0, #4]
		0xe92d4010, // stmdb sp!, {r4, lr}
		0xef060000, // swi 0x60000
	)

	e := disassembly.Disassemble(mem, origin, false)
	test.Equate(t, e.Operator, "MOV")
	test.Equate(t, e.Operand, "R0, #$2a")
	test.Equate(t, e.String(), "03000000  e3a0002a  mov r0, #$2a")

	e = disassembly.Disassemble(mem, origin+4, false)
	test.Equate(t, e.Operator, "B")
	test.Equate(t, e.Operand, "#$03000004")

	e = disassembly.Disassemble(mem, origin+8, false)
	test.Equate(t, e.Operator, "LDR")
	test.Equate(t, e.Operand, "R1, [R0, #$004]")

	e = disassembly.Disassemble(mem, origin+12, false)
	test.Equate(t, e.Operator, "STMDB")
	test.Equate(t, e.Operand, "SP!, {R4,LR}")

	e = disassembly.Disassemble(mem, origin+16, false)
	test.Equate(t, e.Operator, "SWI")
	test.Equate(t, e.Operand, "#$060000")
}

func TestDisassembly_armConditions(t *testing.T) {
	mem := memory.NewMemory()

	pokeProgram(mem,
		0x0b000001, // bleq
		0x13a00001, // movne r0, #1
	)

	e := disassembly.Disassemble(mem, origin, false)
	test.Equate(t, e.Operator, "BLEQ")

	e = disassembly.Disassemble(mem, origin+4, false)
	test.Equate(t, e.Operator, "MOVNE")
	test.Equate(t, e.Operand, "R0, #$01")
}

func TestDisassembly_thumb(t *testing.T) {
	mem := memory.NewMemory()

	// halfwords packed little-endian into words
	pokeProgram(mem,
		0xb510202a, // mov r0, #42 / push {r4, lr}
		0xd0fe1840, // add r0, r0, r1 / beq .
	)

	e := disassembly.Disassemble(mem, origin, true)
	test.Equate(t, e.Operator, "MOV")
	test.Equate(t, e.Operand, "R0, #$2a")

	e = disassembly.Disassemble(mem, origin+2, true)
	test.Equate(t, e.Operator, "PUSH")
	test.Equate(t, e.Operand, "{R4,LR}")

	e = disassembly.Disassemble(mem, origin+4, true)
	test.Equate(t, e.Operator, "ADD")
	test.Equate(t, e.Operand, "R0, R0, R1")

	e = disassembly.Disassemble(mem, origin+6, true)
	test.Equate(t, e.Operator, "BEQ")
	test.Equate(t, e.Operand, "#$03000006")
}

func TestDisassembly_thumbLongBranch(t *testing.T) {
	mem := memory.NewMemory()

	// bl to origin+6
	pokeProgram(mem, 0xf801f000)

	e := disassembly.Disassemble(mem, origin, true)
	test.Equate(t, e.Operator, "BL")
	test.Equate(t, e.Operand, "#$03000006")
}

func TestDisassembly_block(t *testing.T) {
	mem := memory.NewMemory()

	pokeProgram(mem,
		0xe3a0002a,
		0xe2800001,
		0xeafffffc,
	)

	block := disassembly.Block(mem, origin, false, 3)
	test.Equate(t, len(block), 3)
	test.Equate(t, block[0].Operator, "MOV")
	test.Equate(t, block[1].Operator, "ADD")
	test.Equate(t, block[2].Operator, "B")
}
