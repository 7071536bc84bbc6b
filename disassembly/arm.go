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
	"strings"
)

// condition code mnemonic suffixes. the AL condition has no suffix.
var conditions = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}

var dataProcessing = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

var shiftTypes = [4]string{"LSL", "LSR", "ASR", "ROR"}

func disassembleARM(address uint32, opcode uint32) Entry {
	entry := Entry{
		Address: address,
		Opcode:  opcode,
	}

	cond := conditions[opcode>>28]

	var f func(e *Entry, cond string, opcode uint32)

	if opcode&0x0ffffff0 == 0x012fff10 {
		f = disasmARMBranchExchange
	} else if opcode&0x0e000000 == 0x0a000000 {
		f = disasmARMBranch
	} else if opcode&0x0fc000f0 == 0x00000090 {
		f = disasmARMMultiply
	} else if opcode&0x0f8000f0 == 0x00800090 {
		f = disasmARMMultiplyLong
	} else if opcode&0x0fb00ff0 == 0x01000090 {
		f = disasmARMSwap
	} else if opcode&0x0e000090 == 0x00000090 && opcode&0x60 != 0 {
		f = disasmARMHalfwordTransfer
	} else if opcode&0x0fbf0fff == 0x010f0000 {
		f = disasmARMMRS
	} else if opcode&0x0db0f000 == 0x0120f000 {
		f = disasmARMMSR
	} else if opcode&0x0c000000 == 0x00000000 {
		f = disasmARMDataProcessing
	} else if opcode&0x0c000000 == 0x04000000 {
		f = disasmARMSingleTransfer
	} else if opcode&0x0e000000 == 0x08000000 {
		f = disasmARMBlockTransfer
	} else if opcode&0x0f000000 == 0x0f000000 {
		f = disasmARMSoftwareInterrupt
	} else {
		entry.Operator = "DCD"
		entry.Operand = fmt.Sprintf("#$%08x", opcode)
		return entry
	}

	f(&entry, cond, opcode)
	return entry
}

func disasmARMBranchExchange(e *Entry, cond string, opcode uint32) {
	e.Operator = fmt.Sprintf("BX%s", cond)
	e.Operand = reg(opcode & 0x0f)
}

func disasmARMBranch(e *Entry, cond string, opcode uint32) {
	offset := opcode & 0x00ffffff
	if offset&0x00800000 == 0x00800000 {
		offset |= 0xff000000
	}
	target := e.Address + 8 + offset<<2

	if opcode&0x01000000 == 0x01000000 {
		e.Operator = fmt.Sprintf("BL%s", cond)
	} else {
		e.Operator = fmt.Sprintf("B%s", cond)
	}
	e.Operand = fmt.Sprintf("#$%08x", target)
}

func disasmARMMultiply(e *Entry, cond string, opcode uint32) {
	s := ""
	if opcode&0x00100000 == 0x00100000 {
		s = "S"
	}

	rd := (opcode >> 16) & 0x0f
	rn := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	if opcode&0x00200000 == 0x00200000 {
		e.Operator = fmt.Sprintf("MLA%s%s", cond, s)
		e.Operand = fmt.Sprintf("%s, %s, %s, %s", reg(rd), reg(rm), reg(rs), reg(rn))
	} else {
		e.Operator = fmt.Sprintf("MUL%s%s", cond, s)
		e.Operand = fmt.Sprintf("%s, %s, %s", reg(rd), reg(rm), reg(rs))
	}
}

func disasmARMMultiplyLong(e *Entry, cond string, opcode uint32) {
	s := ""
	if opcode&0x00100000 == 0x00100000 {
		s = "S"
	}

	signed := "U"
	if opcode&0x00400000 == 0x00400000 {
		signed = "S"
	}

	op := "MULL"
	if opcode&0x00200000 == 0x00200000 {
		op = "MLAL"
	}

	rdhi := (opcode >> 16) & 0x0f
	rdlo := (opcode >> 12) & 0x0f
	rs := (opcode >> 8) & 0x0f
	rm := opcode & 0x0f

	e.Operator = fmt.Sprintf("%s%s%s%s", signed, op, cond, s)
	e.Operand = fmt.Sprintf("%s, %s, %s, %s", reg(rdlo), reg(rdhi), reg(rm), reg(rs))
}

func disasmARMSwap(e *Entry, cond string, opcode uint32) {
	b := ""
	if opcode&0x00400000 == 0x00400000 {
		b = "B"
	}

	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f
	rm := opcode & 0x0f

	e.Operator = fmt.Sprintf("SWP%s%s", cond, b)
	e.Operand = fmt.Sprintf("%s, %s, [%s]", reg(rd), reg(rm), reg(rn))
}

func disasmARMHalfwordTransfer(e *Entry, cond string, opcode uint32) {
	load := opcode&0x00100000 == 0x00100000
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	immediate := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000

	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	var width string
	switch (opcode >> 5) & 0x03 {
	case 0b01:
		width = "H"
	case 0b10:
		width = "SB"
	case 0b11:
		width = "SH"
	}

	if load {
		e.Operator = fmt.Sprintf("LDR%s%s", cond, width)
	} else {
		e.Operator = fmt.Sprintf("STR%s%s", cond, width)
	}

	sign := ""
	if !up {
		sign = "-"
	}

	var offset string
	if immediate {
		imm := (opcode>>4)&0xf0 | opcode&0x0f
		if imm == 0 {
			e.Operand = fmt.Sprintf("%s, [%s]", reg(rd), reg(rn))
			return
		}
		offset = fmt.Sprintf("#%s$%02x", sign, imm)
	} else {
		offset = fmt.Sprintf("%s%s", sign, reg(opcode&0x0f))
	}

	e.Operand = transferOperand(reg(rd), reg(rn), offset, pre, writeback)
}

func disasmARMMRS(e *Entry, cond string, opcode uint32) {
	psr := "CPSR"
	if opcode&0x00400000 == 0x00400000 {
		psr = "SPSR"
	}
	e.Operator = fmt.Sprintf("MRS%s", cond)
	e.Operand = fmt.Sprintf("%s, %s", reg((opcode>>12)&0x0f), psr)
}

func disasmARMMSR(e *Entry, cond string, opcode uint32) {
	psr := "CPSR"
	if opcode&0x00400000 == 0x00400000 {
		psr = "SPSR"
	}

	// the field mask. the assembler shorthand of _all is never used, the
	// named fields are always listed
	fields := strings.Builder{}
	for i, c := range "cxsf" {
		if opcode&(1<<(16+i)) != 0 {
			fields.WriteRune(c)
		}
	}

	e.Operator = fmt.Sprintf("MSR%s", cond)

	if opcode&0x02000000 == 0x02000000 {
		imm := opcode & 0xff
		rotate := (opcode >> 8) & 0x0f
		value := imm>>(rotate*2) | imm<<(32-rotate*2)
		e.Operand = fmt.Sprintf("%s_%s, #$%08x", psr, fields.String(), value)
	} else {
		e.Operand = fmt.Sprintf("%s_%s, %s", psr, fields.String(), reg(opcode&0x0f))
	}
}

func disasmARMDataProcessing(e *Entry, cond string, opcode uint32) {
	op := (opcode >> 21) & 0x0f
	setFlags := opcode&0x00100000 == 0x00100000

	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	s := ""
	if setFlags {
		s = "S"
	}

	// the comparison instructions always set the flags and the S is
	// implied. MOV and MVN have no first operand
	var prefix string
	switch op {
	case 0b1000, 0b1001, 0b1010, 0b1011:
		s = ""
		prefix = reg(rn)
	case 0b1101, 0b1111:
		prefix = reg(rd)
	default:
		prefix = fmt.Sprintf("%s, %s", reg(rd), reg(rn))
	}

	e.Operator = fmt.Sprintf("%s%s%s", dataProcessing[op], cond, s)
	e.Operand = fmt.Sprintf("%s, %s", prefix, dataProcessingOperand(opcode))
}

// dataProcessingOperand formats the flexible second operand of the data
// processing group.
func dataProcessingOperand(opcode uint32) string {
	if opcode&0x02000000 == 0x02000000 {
		imm := opcode & 0xff
		rotate := (opcode >> 8) & 0x0f
		value := imm>>(rotate*2) | imm<<(32-rotate*2)
		return fmt.Sprintf("#$%02x", value)
	}

	rm := reg(opcode & 0x0f)
	typ := shiftTypes[(opcode>>5)&0x03]

	if opcode&0x10 == 0x10 {
		// shift amount in register
		return fmt.Sprintf("%s, %s %s", rm, typ, reg((opcode>>8)&0x0f))
	}

	amount := (opcode >> 7) & 0x1f
	if amount == 0 {
		// LSR/ASR/ROR by zero encode a shift of 32 or RRX. a zero length
		// LSL is not a shift at all
		switch typ {
		case "LSL":
			return rm
		case "ROR":
			return fmt.Sprintf("%s, RRX", rm)
		default:
			amount = 32
		}
	}

	return fmt.Sprintf("%s, %s #%d", rm, typ, amount)
}

func disasmARMSingleTransfer(e *Entry, cond string, opcode uint32) {
	load := opcode&0x00100000 == 0x00100000
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	byteWidth := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000

	rn := (opcode >> 16) & 0x0f
	rd := (opcode >> 12) & 0x0f

	b := ""
	if byteWidth {
		b = "B"
	}

	// post-indexed transfer with writeback forces non-privileged access
	t := ""
	if !pre && writeback {
		t = "T"
	}

	if load {
		e.Operator = fmt.Sprintf("LDR%s%s%s", cond, b, t)
	} else {
		e.Operator = fmt.Sprintf("STR%s%s%s", cond, b, t)
	}

	sign := ""
	if !up {
		sign = "-"
	}

	var offset string
	if opcode&0x02000000 == 0x02000000 {
		offset = fmt.Sprintf("%s%s", sign, dataProcessingOperand(opcode&^0x02000000))
	} else {
		imm := opcode & 0xfff
		if imm == 0 {
			e.Operand = fmt.Sprintf("%s, [%s]", reg(rd), reg(rn))
			return
		}
		offset = fmt.Sprintf("#%s$%03x", sign, imm)
	}

	e.Operand = transferOperand(reg(rd), reg(rn), offset, pre, writeback)
}

// transferOperand formats the addressing part of a load or store.
func transferOperand(rd string, rn string, offset string, pre bool, writeback bool) string {
	if pre {
		wb := ""
		if writeback {
			wb = "!"
		}
		return fmt.Sprintf("%s, [%s, %s]%s", rd, rn, offset, wb)
	}
	return fmt.Sprintf("%s, [%s], %s", rd, rn, offset)
}

func disasmARMBlockTransfer(e *Entry, cond string, opcode uint32) {
	load := opcode&0x00100000 == 0x00100000
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	psr := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000

	rn := (opcode >> 16) & 0x0f

	mode := "DA"
	switch {
	case pre && up:
		mode = "IB"
	case !pre && up:
		mode = "IA"
	case pre && !up:
		mode = "DB"
	}

	if load {
		e.Operator = fmt.Sprintf("LDM%s%s", cond, mode)
	} else {
		e.Operator = fmt.Sprintf("STM%s%s", cond, mode)
	}

	wb := ""
	if writeback {
		wb = "!"
	}

	hat := ""
	if psr {
		hat = "^"
	}

	e.Operand = fmt.Sprintf("%s%s, %s%s", reg(rn), wb, regList(uint16(opcode&0xffff)), hat)
}

func disasmARMSoftwareInterrupt(e *Entry, cond string, opcode uint32) {
	e.Operator = fmt.Sprintf("SWI%s", cond)
	e.Operand = fmt.Sprintf("#$%06x", opcode&0x00ffffff)
}
