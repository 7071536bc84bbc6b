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

package disassembly

import (
	"fmt"
)

var thumbALU = [16]string{
	"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
	"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
}

func disassembleThumb(address uint32, opcode uint16) Entry {
	entry := Entry{
		Address: address,
		Opcode:  uint32(opcode),
		Thumb:   true,
	}

	var f func(e *Entry, opcode uint16)

	if opcode&0xf800 == 0xe000 {
		// format 18 - Unconditional branch
		f = disasmThumbUnconditionalBranch
	} else if opcode&0xff00 == 0xdf00 {
		// format 17 - Software interrupt
		f = disasmThumbSoftwareInterrupt
	} else if opcode&0xf000 == 0xd000 {
		// format 16 - Conditional branch
		f = disasmThumbConditionalBranch
	} else if opcode&0xf000 == 0xc000 {
		// format 15 - Multiple load/store
		f = disasmThumbMultipleLoadStore
	} else if opcode&0xf600 == 0xb400 {
		// format 14 - Push/pop registers
		f = disasmThumbPushPopRegisters
	} else if opcode&0xff00 == 0xb000 {
		// format 13 - Add offset to stack pointer
		f = disasmThumbAddOffsetToSP
	} else if opcode&0xf000 == 0xa000 {
		// format 12 - Load address
		f = disasmThumbLoadAddress
	} else if opcode&0xf000 == 0x9000 {
		// format 11 - SP-relative load/store
		f = disasmThumbSPRelativeLoadStore
	} else if opcode&0xf000 == 0x8000 {
		// format 10 - Load/store halfword
		f = disasmThumbLoadStoreHalfword
	} else if opcode&0xe000 == 0x6000 {
		// format 9 - Load/store with immediate offset
		f = disasmThumbLoadStoreWithImmOffset
	} else if opcode&0xf200 == 0x5200 {
		// format 8 - Load/store sign-extended byte/halfword
		f = disasmThumbLoadStoreSignExtended
	} else if opcode&0xf200 == 0x5000 {
		// format 7 - Load/store with register offset
		f = disasmThumbLoadStoreWithRegisterOffset
	} else if opcode&0xf800 == 0x4800 {
		// format 6 - PC-relative load
		f = disasmThumbPCRelativeLoad
	} else if opcode&0xfc00 == 0x4400 {
		// format 5 - Hi register operations/branch exchange
		f = disasmThumbHiRegisterOps
	} else if opcode&0xfc00 == 0x4000 {
		// format 4 - ALU operations
		f = disasmThumbALUoperations
	} else if opcode&0xe000 == 0x2000 {
		// format 3 - Move/compare/add/subtract immediate
		f = disasmThumbMovCmpAddSubImm
	} else if opcode&0xf800 == 0x1800 {
		// format 2 - Add/subtract
		f = disasmThumbAddSubtract
	} else if opcode&0xe000 == 0x0000 {
		// format 1 - Move shifted register
		f = disasmThumbMoveShiftedRegister
	} else {
		entry.Operator = "DCW"
		entry.Operand = fmt.Sprintf("#$%04x", opcode)
		return entry
	}

	f(&entry, opcode)
	return entry
}

func disasmThumbMoveShiftedRegister(e *Entry, opcode uint16) {
	op := (opcode & 0x1800) >> 11
	shift := (opcode & 0x7c0) >> 6
	srcReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	switch op {
	case 0b00:
		e.Operator = "LSL"
	case 0b01:
		e.Operator = "LSR"
	case 0b10:
		e.Operator = "ASR"
	}
	e.Operand = fmt.Sprintf("%s, %s, #$%02x", reg(destReg), reg(srcReg), shift)
}

func disasmThumbAddSubtract(e *Entry, opcode uint16) {
	immediate := opcode&0x0400 == 0x0400
	subtract := opcode&0x0200 == 0x0200
	imm := uint32((opcode & 0x01c0) >> 6)
	srcReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	if subtract {
		e.Operator = "SUB"
	} else {
		e.Operator = "ADD"
	}

	if immediate {
		e.Operand = fmt.Sprintf("%s, %s, #$%02x", reg(destReg), reg(srcReg), imm)
	} else {
		e.Operand = fmt.Sprintf("%s, %s, %s", reg(destReg), reg(srcReg), reg(imm))
	}
}

func disasmThumbMovCmpAddSubImm(e *Entry, opcode uint16) {
	op := (opcode & 0x1800) >> 11
	destReg := uint32((opcode & 0x0700) >> 8)
	imm := uint32(opcode & 0x00ff)

	switch op {
	case 0b00:
		e.Operator = "MOV"
	case 0b01:
		e.Operator = "CMP"
	case 0b10:
		e.Operator = "ADD"
	case 0b11:
		e.Operator = "SUB"
	}
	e.Operand = fmt.Sprintf("%s, #$%02x", reg(destReg), imm)
}

func disasmThumbALUoperations(e *Entry, opcode uint16) {
	op := (opcode & 0x03c0) >> 6
	srcReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	e.Operator = thumbALU[op]
	e.Operand = fmt.Sprintf("%s, %s", reg(destReg), reg(srcReg))
}

func disasmThumbHiRegisterOps(e *Entry, opcode uint16) {
	op := (opcode & 0x300) >> 8
	srcReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	if opcode&0x80 == 0x80 {
		destReg += 8
	}
	if opcode&0x40 == 0x40 {
		srcReg += 8
	}

	switch op {
	case 0b00:
		e.Operator = "ADD"
		e.Operand = fmt.Sprintf("%s, %s", reg(destReg), reg(srcReg))
	case 0b01:
		e.Operator = "CMP"
		e.Operand = fmt.Sprintf("%s, %s", reg(destReg), reg(srcReg))
	case 0b10:
		e.Operator = "MOV"
		e.Operand = fmt.Sprintf("%s, %s", reg(destReg), reg(srcReg))
	case 0b11:
		e.Operator = "BX"
		e.Operand = reg(srcReg)
	}
}

func disasmThumbPCRelativeLoad(e *Entry, opcode uint16) {
	destReg := uint32((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0x00ff) << 2

	// the target address is relative to the word aligned PC value
	target := (e.Address+4)&0xfffffffc + imm

	e.Operator = "LDR"
	e.Operand = fmt.Sprintf("%s, [PC, #$%02x] ; $%08x", reg(destReg), imm, target)
}

func disasmThumbLoadStoreWithRegisterOffset(e *Entry, opcode uint16) {
	load := opcode&0x0800 == 0x0800
	byteWidth := opcode&0x0400 == 0x0400
	offsetReg := uint32((opcode & 0x01c0) >> 6)
	baseReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	b := ""
	if byteWidth {
		b = "B"
	}

	if load {
		e.Operator = fmt.Sprintf("LDR%s", b)
	} else {
		e.Operator = fmt.Sprintf("STR%s", b)
	}
	e.Operand = fmt.Sprintf("%s, [%s, %s]", reg(destReg), reg(baseReg), reg(offsetReg))
}

func disasmThumbLoadStoreSignExtended(e *Entry, opcode uint16) {
	hFlag := opcode&0x0800 == 0x0800
	signed := opcode&0x0400 == 0x0400
	offsetReg := uint32((opcode & 0x01c0) >> 6)
	baseReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	switch {
	case !signed && !hFlag:
		e.Operator = "STRH"
	case !signed && hFlag:
		e.Operator = "LDRH"
	case signed && !hFlag:
		e.Operator = "LDSB"
	case signed && hFlag:
		e.Operator = "LDSH"
	}
	e.Operand = fmt.Sprintf("%s, [%s, %s]", reg(destReg), reg(baseReg), reg(offsetReg))
}

func disasmThumbLoadStoreWithImmOffset(e *Entry, opcode uint16) {
	byteWidth := opcode&0x1000 == 0x1000
	load := opcode&0x0800 == 0x0800
	imm := uint32((opcode & 0x07c0) >> 6)
	baseReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	b := ""
	if byteWidth {
		b = "B"
	} else {
		imm <<= 2
	}

	if load {
		e.Operator = fmt.Sprintf("LDR%s", b)
	} else {
		e.Operator = fmt.Sprintf("STR%s", b)
	}
	e.Operand = fmt.Sprintf("%s, [%s, #$%02x]", reg(destReg), reg(baseReg), imm)
}

func disasmThumbLoadStoreHalfword(e *Entry, opcode uint16) {
	load := opcode&0x0800 == 0x0800
	imm := uint32((opcode&0x07c0)>>6) << 1
	baseReg := uint32((opcode & 0x38) >> 3)
	destReg := uint32(opcode & 0x07)

	if load {
		e.Operator = "LDRH"
	} else {
		e.Operator = "STRH"
	}
	e.Operand = fmt.Sprintf("%s, [%s, #$%02x]", reg(destReg), reg(baseReg), imm)
}

func disasmThumbSPRelativeLoadStore(e *Entry, opcode uint16) {
	load := opcode&0x0800 == 0x0800
	destReg := uint32((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0x00ff) << 2

	if load {
		e.Operator = "LDR"
	} else {
		e.Operator = "STR"
	}
	e.Operand = fmt.Sprintf("%s, [SP, #$%02x]", reg(destReg), imm)
}

func disasmThumbLoadAddress(e *Entry, opcode uint16) {
	sp := opcode&0x0800 == 0x0800
	destReg := uint32((opcode & 0x0700) >> 8)
	imm := uint32(opcode&0x00ff) << 2

	e.Operator = "ADD"
	if sp {
		e.Operand = fmt.Sprintf("%s, SP, #$%02x", reg(destReg), imm)
	} else {
		e.Operand = fmt.Sprintf("%s, PC, #$%02x", reg(destReg), imm)
	}
}

func disasmThumbAddOffsetToSP(e *Entry, opcode uint16) {
	imm := uint32(opcode&0x7f) << 2

	e.Operator = "ADD"
	if opcode&0x80 == 0x80 {
		e.Operand = fmt.Sprintf("SP, #-$%02x", imm)
	} else {
		e.Operand = fmt.Sprintf("SP, #$%02x", imm)
	}
}

func disasmThumbPushPopRegisters(e *Entry, opcode uint16) {
	load := opcode&0x0800 == 0x0800
	pclr := opcode&0x0100 == 0x0100
	list := opcode & 0x00ff

	if load {
		e.Operator = "POP"
		if pclr {
			list |= 0x8000
		}
	} else {
		e.Operator = "PUSH"
		if pclr {
			list |= 0x4000
		}
	}
	e.Operand = regList(list)
}

func disasmThumbMultipleLoadStore(e *Entry, opcode uint16) {
	load := opcode&0x0800 == 0x0800
	baseReg := uint32((opcode & 0x0700) >> 8)
	list := opcode & 0x00ff

	if load {
		e.Operator = "LDMIA"
	} else {
		e.Operator = "STMIA"
	}
	e.Operand = fmt.Sprintf("%s!, %s", reg(baseReg), regList(list))
}

func disasmThumbConditionalBranch(e *Entry, opcode uint16) {
	cond := (opcode & 0x0f00) >> 8
	offset := uint32(opcode & 0x00ff)
	if offset&0x80 == 0x80 {
		offset |= 0xffffff00
	}
	target := e.Address + 4 + offset<<1

	e.Operator = fmt.Sprintf("B%s", conditions[cond])
	e.Operand = fmt.Sprintf("#$%08x", target)
}

func disasmThumbSoftwareInterrupt(e *Entry, opcode uint16) {
	e.Operator = "SWI"
	e.Operand = fmt.Sprintf("#$%02x", opcode&0x00ff)
}

func disasmThumbUnconditionalBranch(e *Entry, opcode uint16) {
	offset := uint32(opcode & 0x07ff)
	if offset&0x0400 == 0x0400 {
		offset |= 0xfffff800
	}
	target := e.Address + 4 + offset<<1

	e.Operator = "B"
	e.Operand = fmt.Sprintf("#$%08x", target)
}

// disasmThumbLongBranch decodes both halves of the long branch with link
// instruction. the second half is expected to follow the first
// immediately, which is true of compiler output but not a requirement of
// the processor.
func disasmThumbLongBranch(address uint32, opcode uint16, opcode2 uint16) Entry {
	entry := Entry{
		Address: address,
		Opcode:  uint32(opcode)<<16 | uint32(opcode2),
		Thumb:   true,
	}

	if opcode2&0xf800 != 0xf800 {
		// the second half is not the low part of a long branch. decode
		// the first half on its own
		entry.Opcode = uint32(opcode)
		entry.Operator = "BL"
		entry.Operand = fmt.Sprintf("#$%03x", opcode&0x07ff)
		return entry
	}

	offset := uint32(opcode&0x07ff) << 12
	if offset&0x00400000 == 0x00400000 {
		offset |= 0xff800000
	}
	offset |= uint32(opcode2&0x07ff) << 1
	target := address + 4 + offset

	entry.Operator = "BL"
	entry.Operand = fmt.Sprintf("#$%08x", target)
	return entry
}
