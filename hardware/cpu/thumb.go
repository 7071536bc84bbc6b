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
	"github.com/jetsetilly/gopheradvance/logger"
)

// executeThumb decodes and executes a single 16-bit instruction,
// returning the cycles consumed beyond the fetch.
func (mc *CPU) executeThumb(opcode uint16) int {
	switch {
	case opcode&0xf800 == 0x1800:
		return mc.thumbAddSub(opcode)
	case opcode&0xe000 == 0x0000:
		return mc.thumbShifted(opcode)
	case opcode&0xe000 == 0x2000:
		return mc.thumbImmediate(opcode)
	case opcode&0xfc00 == 0x4000:
		return mc.thumbALU(opcode)
	case opcode&0xfc00 == 0x4400:
		return mc.thumbHiReg(opcode)
	case opcode&0xf800 == 0x4800:
		return mc.thumbPCLoad(opcode)
	case opcode&0xf200 == 0x5000:
		return mc.thumbRegTransfer(opcode)
	case opcode&0xf200 == 0x5200:
		return mc.thumbSignedTransfer(opcode)
	case opcode&0xe000 == 0x6000:
		return mc.thumbImmTransfer(opcode)
	case opcode&0xf000 == 0x8000:
		return mc.thumbHalfTransfer(opcode)
	case opcode&0xf000 == 0x9000:
		return mc.thumbSPTransfer(opcode)
	case opcode&0xf000 == 0xa000:
		return mc.thumbLoadAddress(opcode)
	case opcode&0xff00 == 0xb000:
		return mc.thumbAdjustSP(opcode)
	case opcode&0xf600 == 0xb400:
		return mc.thumbPushPop(opcode)
	case opcode&0xf000 == 0xc000:
		return mc.thumbMultiple(opcode)
	case opcode&0xff00 == 0xdf00:
		return mc.swi(uint32(opcode & 0xff))
	case opcode&0xf000 == 0xd000:
		return mc.thumbCondBranch(opcode)
	case opcode&0xf800 == 0xe000:
		return mc.thumbBranch(opcode)
	case opcode&0xf000 == 0xf000:
		return mc.thumbLongBranch(opcode)
	}

	logger.Logf("cpu", "unrecognised instruction %04x at %08x", opcode, mc.Reg.PC()-4)
	return 1
}

// move shifted register. LSL, LSR and ASR with an immediate amount
func (mc *CPU) thumbShifted(opcode uint16) int {
	typ := int((opcode >> 11) & 0x03)
	amount := uint32((opcode >> 6) & 0x1f)
	rs := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)

	r, carry := barrelShift(typ, mc.regVal(rs), amount, mc.Reg.IsSet(registers.FlagC), true)
	mc.setReg(rd, r)
	mc.setNZ(r)
	mc.Reg.SetFlag(registers.FlagC, carry)
	return 1
}

// three operand add and subtract, register or three bit immediate
func (mc *CPU) thumbAddSub(opcode uint16) int {
	rs := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)

	var b uint32
	if opcode&0x0400 == 0x0400 {
		b = uint32((opcode >> 6) & 0x07)
	} else {
		b = mc.regVal(int((opcode >> 6) & 0x07))
	}

	var r uint32
	if opcode&0x0200 == 0x0200 {
		r = mc.subFlags(mc.regVal(rs), b, 0)
	} else {
		r = mc.addFlags(mc.regVal(rs), b, 0)
	}
	mc.setReg(rd, r)
	return 1
}

// move, compare, add and subtract with an eight bit immediate
func (mc *CPU) thumbImmediate(opcode uint16) int {
	rd := int((opcode >> 8) & 0x07)
	imm := uint32(opcode & 0xff)

	switch (opcode >> 11) & 0x03 {
	case 0x00: // MOV
		mc.setReg(rd, imm)
		mc.setNZ(imm)
	case 0x01: // CMP
		mc.subFlags(mc.regVal(rd), imm, 0)
	case 0x02: // ADD
		mc.setReg(rd, mc.addFlags(mc.regVal(rd), imm, 0))
	case 0x03: // SUB
		mc.setReg(rd, mc.subFlags(mc.regVal(rd), imm, 0))
	}
	return 1
}

// the register to register ALU group
func (mc *CPU) thumbALU(opcode uint16) int {
	rs := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)

	a := mc.regVal(rd)
	b := mc.regVal(rs)
	carryIn := mc.Reg.IsSet(registers.FlagC)

	var carry uint32
	if carryIn {
		carry = 1
	}

	cycles := 1

	switch (opcode >> 6) & 0x0f {
	case 0x00: // AND
		r := a & b
		mc.setReg(rd, r)
		mc.setNZ(r)
	case 0x01: // EOR
		r := a ^ b
		mc.setReg(rd, r)
		mc.setNZ(r)
	case 0x02: // LSL
		r, c := barrelShift(shiftLSL, a, b&0xff, carryIn, false)
		mc.setReg(rd, r)
		mc.setNZ(r)
		mc.Reg.SetFlag(registers.FlagC, c)
		cycles++
	case 0x03: // LSR
		r, c := barrelShift(shiftLSR, a, b&0xff, carryIn, false)
		mc.setReg(rd, r)
		mc.setNZ(r)
		mc.Reg.SetFlag(registers.FlagC, c)
		cycles++
	case 0x04: // ASR
		r, c := barrelShift(shiftASR, a, b&0xff, carryIn, false)
		mc.setReg(rd, r)
		mc.setNZ(r)
		mc.Reg.SetFlag(registers.FlagC, c)
		cycles++
	case 0x05: // ADC
		mc.setReg(rd, mc.addFlags(a, b, carry))
	case 0x06: // SBC
		mc.setReg(rd, mc.subFlags(a, b, 1-carry))
	case 0x07: // ROR
		r, c := barrelShift(shiftROR, a, b&0xff, carryIn, false)
		mc.setReg(rd, r)
		mc.setNZ(r)
		mc.Reg.SetFlag(registers.FlagC, c)
		cycles++
	case 0x08: // TST
		mc.setNZ(a & b)
	case 0x09: // NEG
		mc.setReg(rd, mc.subFlags(0, b, 0))
	case 0x0a: // CMP
		mc.subFlags(a, b, 0)
	case 0x0b: // CMN
		mc.addFlags(a, b, 0)
	case 0x0c: // ORR
		r := a | b
		mc.setReg(rd, r)
		mc.setNZ(r)
	case 0x0d: // MUL
		r := a * b
		mc.setReg(rd, r)
		mc.setNZ(r)
		cycles += multiplierCycles(a)
	case 0x0e: // BIC
		r := a &^ b
		mc.setReg(rd, r)
		mc.setNZ(r)
	case 0x0f: // MVN
		r := ^b
		mc.setReg(rd, r)
		mc.setNZ(r)
	}
	return cycles
}

// operations on the full register range, and BX. the only 16-bit
// instructions that can touch the high registers
func (mc *CPU) thumbHiReg(opcode uint16) int {
	rs := int((opcode>>3)&0x07) | int((opcode>>3)&0x08)
	rd := int(opcode&0x07) | int((opcode>>4)&0x08)

	switch (opcode >> 8) & 0x03 {
	case 0x00: // ADD
		mc.setReg(rd, mc.regVal(rd)+mc.regVal(rs))
	case 0x01: // CMP
		mc.subFlags(mc.regVal(rd), mc.regVal(rs), 0)
	case 0x02: // MOV
		mc.setReg(rd, mc.regVal(rs))
	case 0x03: // BX
		addr := mc.regVal(rs)
		mc.Reg.SetFlag(registers.FlagT, addr&0x01 == 0x01)
		mc.branch(addr)
	}
	return 1
}

// program counter relative load. the pipeline value is rounded down to a
// word boundary
func (mc *CPU) thumbPCLoad(opcode uint16) int {
	rd := int((opcode >> 8) & 0x07)
	offset := uint32(opcode&0xff) * 4
	addr := mc.Reg.PC()&^uint32(0x02) + offset

	v, c := mc.loadWord(addr)
	mc.setReg(rd, v)
	return c + 1
}

// load and store with a register offset
func (mc *CPU) thumbRegTransfer(opcode uint16) int {
	ro := int((opcode >> 6) & 0x07)
	rb := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)
	addr := mc.regVal(rb) + mc.regVal(ro)

	switch (opcode >> 10) & 0x03 {
	case 0x00: // STR
		return mc.mem.Write32(addr, mc.regVal(rd))
	case 0x01: // STRB
		return mc.mem.Write8(addr, uint8(mc.regVal(rd)))
	case 0x02: // LDR
		v, c := mc.loadWord(addr)
		mc.setReg(rd, v)
		return c + 1
	case 0x03: // LDRB
		v, c := mc.mem.Read8(addr)
		mc.setReg(rd, uint32(v))
		return c + 1
	}
	return 1
}

// load and store sign-extended byte and halfword
func (mc *CPU) thumbSignedTransfer(opcode uint16) int {
	ro := int((opcode >> 6) & 0x07)
	rb := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)
	addr := mc.regVal(rb) + mc.regVal(ro)

	switch (opcode >> 10) & 0x03 {
	case 0x00: // STRH
		return mc.mem.Write16(addr, uint16(mc.regVal(rd)))
	case 0x01: // LDSB
		v, c := mc.mem.Read8(addr)
		mc.setReg(rd, uint32(int32(int8(v))))
		return c + 1
	case 0x02: // LDRH
		v, c := mc.loadHalf(addr)
		mc.setReg(rd, v)
		return c + 1
	case 0x03: // LDSH
		v, c := mc.loadSignedHalf(addr)
		mc.setReg(rd, v)
		return c + 1
	}
	return 1
}

// load and store with a five bit immediate offset
func (mc *CPU) thumbImmTransfer(opcode uint16) int {
	offset := uint32((opcode >> 6) & 0x1f)
	rb := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)

	switch (opcode >> 11) & 0x03 {
	case 0x00: // STR
		return mc.mem.Write32(mc.regVal(rb)+offset*4, mc.regVal(rd))
	case 0x01: // LDR
		v, c := mc.loadWord(mc.regVal(rb) + offset*4)
		mc.setReg(rd, v)
		return c + 1
	case 0x02: // STRB
		return mc.mem.Write8(mc.regVal(rb)+offset, uint8(mc.regVal(rd)))
	case 0x03: // LDRB
		v, c := mc.mem.Read8(mc.regVal(rb) + offset)
		mc.setReg(rd, uint32(v))
		return c + 1
	}
	return 1
}

// load and store halfword with an immediate offset
func (mc *CPU) thumbHalfTransfer(opcode uint16) int {
	offset := uint32((opcode>>6)&0x1f) * 2
	rb := int((opcode >> 3) & 0x07)
	rd := int(opcode & 0x07)
	addr := mc.regVal(rb) + offset

	if opcode&0x0800 == 0x0800 {
		v, c := mc.loadHalf(addr)
		mc.setReg(rd, v)
		return c + 1
	}
	return mc.mem.Write16(addr, uint16(mc.regVal(rd)))
}

// stack pointer relative load and store
func (mc *CPU) thumbSPTransfer(opcode uint16) int {
	rd := int((opcode >> 8) & 0x07)
	addr := mc.regVal(13) + uint32(opcode&0xff)*4

	if opcode&0x0800 == 0x0800 {
		v, c := mc.loadWord(addr)
		mc.setReg(rd, v)
		return c + 1
	}
	return mc.mem.Write32(addr, mc.regVal(rd))
}

// form an address from the stack pointer or the word-aligned pipeline
// value
func (mc *CPU) thumbLoadAddress(opcode uint16) int {
	rd := int((opcode >> 8) & 0x07)
	offset := uint32(opcode&0xff) * 4

	if opcode&0x0800 == 0x0800 {
		mc.setReg(rd, mc.regVal(13)+offset)
	} else {
		mc.setReg(rd, mc.Reg.PC()&^uint32(0x02)+offset)
	}
	return 1
}

// add a signed seven bit word offset to the stack pointer
func (mc *CPU) thumbAdjustSP(opcode uint16) int {
	offset := uint32(opcode&0x7f) * 4
	if opcode&0x80 == 0x80 {
		mc.setReg(13, mc.regVal(13)-offset)
	} else {
		mc.setReg(13, mc.regVal(13)+offset)
	}
	return 1
}

// push and pop, optionally including the link register or program
// counter
func (mc *CPU) thumbPushPop(opcode uint16) int {
	rlist := opcode & 0xff
	load := opcode&0x0800 == 0x0800

	if opcode&0x0100 == 0x0100 {
		if load {
			rlist |= 0x8000
		} else {
			rlist |= 0x4000
		}
	}

	// push is a pre-decrement store, pop a post-increment load
	return mc.blockTransfer(13, rlist, !load, load, true, load, false)
}

// load and store multiple, post-increment with writeback
func (mc *CPU) thumbMultiple(opcode uint16) int {
	rb := int((opcode >> 8) & 0x07)
	rlist := opcode & 0xff
	load := opcode&0x0800 == 0x0800
	return mc.blockTransfer(rb, rlist, false, true, true, load, false)
}

func (mc *CPU) thumbCondBranch(opcode uint16) int {
	if !mc.condition(uint32(opcode>>8) & 0x0f) {
		return 0
	}
	offset := uint32(int32(int8(opcode&0xff))) << 1
	mc.branch(mc.Reg.PC() + offset)
	return 1
}

func (mc *CPU) thumbBranch(opcode uint16) int {
	offset := uint32(int32(opcode&0x7ff) << 21 >> 20)
	mc.branch(mc.Reg.PC() + offset)
	return 1
}

// the two halves of the long branch with link. the first half stages the
// high part of the target in the link register
func (mc *CPU) thumbLongBranch(opcode uint16) int {
	offset := uint32(opcode & 0x7ff)

	if opcode&0x0800 == 0x0000 {
		mc.Reg.SetReg(14, mc.Reg.PC()+uint32(int32(offset<<21)>>9))
		return 1
	}

	target := mc.regVal(14) + offset<<1
	ret := mc.Reg.PC() - 2
	mc.Reg.SetReg(14, ret|0x01)
	mc.branch(target)
	return 1
}
