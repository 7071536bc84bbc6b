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

// Package disassembly disassembles ARM7TDMI machine code. Both
// instruction sets are supported, the processor's current mode deciding
// which decoder is used.
//
// The Disassemble() function works on memory that is already attached to
// an emulated machine. It peeks at memory rather than reading it so there
// is no danger of disturbing the emulated state.
package disassembly

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// Entry is a single disassembled instruction.
type Entry struct {
	// the address the instruction was read from
	Address uint32

	// the instruction. for Thumb instructions only the lower 16 bits are
	// significant, except for the long branch which occupies two slots
	Opcode uint32

	// which instruction set the entry was decoded with
	Thumb bool

	Operator string
	Operand  string
}

// String returns a single line representation of the entry.
func (e Entry) String() string {
	s := strings.Builder{}
	if e.Thumb {
		s.WriteString(fmt.Sprintf("%08x  %04x      ", e.Address, e.Opcode&0xffff))
	} else {
		s.WriteString(fmt.Sprintf("%08x  %08x  ", e.Address, e.Opcode))
	}
	s.WriteString(strings.ToLower(e.Operator))
	if e.Operand != "" {
		s.WriteString(" ")
		s.WriteString(strings.ToLower(strings.TrimSpace(e.Operand)))
	}
	return s.String()
}

// Mnemonic returns the operator and operand with no address decoration.
// Suitable for the debugger prompt.
func (e Entry) Mnemonic() string {
	if e.Operand == "" {
		return strings.ToLower(e.Operator)
	}
	return fmt.Sprintf("%s %s", strings.ToLower(e.Operator), strings.ToLower(strings.TrimSpace(e.Operand)))
}

// Disassemble the instruction at the specified address. The thumb flag
// selects the instruction set.
func Disassemble(mem *memory.Memory, address uint32, thumb bool) Entry {
	if thumb {
		address &= 0xfffffffe
		opcode := peek16(mem, address)

		// the two halves of the long branch instruction are decoded
		// together when they are adjacent in memory
		if opcode&0xf800 == 0xf000 {
			return disasmThumbLongBranch(address, opcode, peek16(mem, address+2))
		}

		return disassembleThumb(address, opcode)
	}

	address &= 0xfffffffc
	opcode := peek32(mem, address)
	return disassembleARM(address, opcode)
}

// Block disassembles a sequence of instructions starting at the specified
// address.
func Block(mem *memory.Memory, address uint32, thumb bool, num int) []Entry {
	block := make([]Entry, 0, num)
	for i := 0; i < num; i++ {
		e := Disassemble(mem, address, thumb)
		block = append(block, e)
		if thumb {
			address += 2
			if e.Opcode > 0xffff {
				// long branch occupies two slots
				address += 2
			}
		} else {
			address += 4
		}
	}
	return block
}

func peek16(mem *memory.Memory, address uint32) uint16 {
	return uint16(mem.Peek(address)) | uint16(mem.Peek(address+1))<<8
}

func peek32(mem *memory.Memory, address uint32) uint32 {
	return uint32(peek16(mem, address)) | uint32(peek16(mem, address+2))<<16
}

// register names used by both decoders. the ARM convention of naming the
// stack pointer, link register and program counter is followed.
func reg(idx uint32) string {
	switch idx {
	case 13:
		return "SP"
	case 14:
		return "LR"
	case 15:
		return "PC"
	}
	return fmt.Sprintf("R%d", idx)
}

// regList formats a register list bitmap in the convention used by the
// multiple load/store instructions. consecutive registers are collapsed
// into a range.
func regList(list uint16) string {
	s := strings.Builder{}
	s.WriteString("{")

	comma := false
	i := 0
	for i < 16 {
		if list&(1<<i) == 0 {
			i++
			continue
		}

		j := i
		for j < 15 && list&(1<<(j+1)) != 0 {
			j++
		}

		if comma {
			s.WriteString(",")
		}
		comma = true

		if j > i+1 {
			s.WriteString(fmt.Sprintf("%s-%s", reg(uint32(i)), reg(uint32(j))))
			i = j + 1
		} else {
			s.WriteString(reg(uint32(i)))
			i++
		}
	}

	s.WriteString("}")
	return s.String()
}
