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
	"math/bits"

	"github.com/jetsetilly/gopheradvance/hardware/cpu/registers"
	"github.com/jetsetilly/gopheradvance/logger"
)

// executeARM decodes and executes a single 32-bit instruction, returning
// the cycles consumed beyond the fetch. The masks must be tested in this
// order. Several of the narrower encodings live inside the holes of the
// wider ones.
func (mc *CPU) executeARM(opcode uint32) int {
	if !mc.condition(opcode >> 28) {
		return 0
	}

	switch {
	case opcode&0x0ffffff0 == 0x012fff10:
		return mc.armBX(opcode)
	case opcode&0x0e000000 == 0x0a000000:
		return mc.armBranch(opcode)
	case opcode&0x0fc000f0 == 0x00000090:
		return mc.armMultiply(opcode)
	case opcode&0x0f8000f0 == 0x00800090:
		return mc.armMultiplyLong(opcode)
	case opcode&0x0fb00ff0 == 0x01000090:
		return mc.armSwap(opcode)
	case opcode&0x0e000090 == 0x00000090:
		return mc.armHalfwordTransfer(opcode)
	case opcode&0x0fbf0fff == 0x010f0000:
		return mc.armMRS(opcode)
	case opcode&0x0db0f000 == 0x0120f000:
		return mc.armMSR(opcode)
	case opcode&0x0c000000 == 0x00000000:
		return mc.armDataProcessing(opcode)
	case opcode&0x0c000000 == 0x04000000:
		return mc.armSingleTransfer(opcode)
	case opcode&0x0e000000 == 0x08000000:
		return mc.armBlockTransfer(opcode)
	case opcode&0x0f000000 == 0x0f000000:
		return mc.swi((opcode >> 16) & 0xff)
	}

	// games do wander into data. log it and move on
	logger.Logf("cpu", "unrecognised instruction %08x at %08x", opcode, mc.Reg.PC()-8)
	return 1
}

// condition evaluates a four bit condition code against the status flags.
func (mc *CPU) condition(cc uint32) bool {
	n := mc.Reg.IsSet(registers.FlagN)
	z := mc.Reg.IsSet(registers.FlagZ)
	c := mc.Reg.IsSet(registers.FlagC)
	v := mc.Reg.IsSet(registers.FlagV)

	switch cc & 0x0f {
	case 0x00:
		return z
	case 0x01:
		return !z
	case 0x02:
		return c
	case 0x03:
		return !c
	case 0x04:
		return n
	case 0x05:
		return !n
	case 0x06:
		return v
	case 0x07:
		return !v
	case 0x08:
		return c && !z
	case 0x09:
		return !c || z
	case 0x0a:
		return n == v
	case 0x0b:
		return n != v
	case 0x0c:
		return !z && n == v
	case 0x0d:
		return z || n != v
	case 0x0e:
		return true
	}

	// 0x0f is reserved and never executes
	return false
}

func (mc *CPU) setNZ(result uint32) {
	mc.Reg.SetFlag(registers.FlagN, result&0x80000000 != 0)
	mc.Reg.SetFlag(registers.FlagZ, result == 0)
}

// addFlags returns a+b+carry, setting all four condition flags.
func (mc *CPU) addFlags(a uint32, b uint32, carry uint32) uint32 {
	r := a + b + carry
	mc.setNZ(r)
	mc.Reg.SetFlag(registers.FlagC, uint64(a)+uint64(b)+uint64(carry) > 0xffffffff)
	mc.Reg.SetFlag(registers.FlagV, ^(a^b)&(a^r)&0x80000000 != 0)
	return r
}

// subFlags returns a-b-borrow, setting all four condition flags. The
// carry flag is set when no borrow occurred.
func (mc *CPU) subFlags(a uint32, b uint32, borrow uint32) uint32 {
	r := a - b - borrow
	mc.setNZ(r)
	mc.Reg.SetFlag(registers.FlagC, uint64(a) >= uint64(b)+uint64(borrow))
	mc.Reg.SetFlag(registers.FlagV, (a^b)&(a^r)&0x80000000 != 0)
	return r
}

func (mc *CPU) armBX(opcode uint32) int {
	addr := mc.regVal(int(opcode & 0x0f))
	mc.Reg.SetFlag(registers.FlagT, addr&0x01 == 0x01)
	mc.branch(addr)
	return 1
}

func (mc *CPU) armBranch(opcode uint32) int {
	// 24 bit signed word offset
	offset := int32(opcode<<8) >> 6

	if opcode&0x01000000 == 0x01000000 {
		mc.Reg.SetReg(14, mc.Reg.PC()-4)
	}
	mc.branch(mc.Reg.PC() + uint32(offset))
	return 1
}

func (mc *CPU) armMultiply(opcode uint32) int {
	rd := int((opcode >> 16) & 0x0f)
	rn := int((opcode >> 12) & 0x0f)
	rs := int((opcode >> 8) & 0x0f)
	rm := int(opcode & 0x0f)

	cycles := 1 + multiplierCycles(mc.regVal(rs))

	r := mc.regVal(rm) * mc.regVal(rs)
	if opcode&0x00200000 == 0x00200000 {
		r += mc.regVal(rn)
		cycles++
	}
	mc.setReg(rd, r)

	if opcode&0x00100000 == 0x00100000 {
		mc.setNZ(r)
	}
	return cycles
}

func (mc *CPU) armMultiplyLong(opcode uint32) int {
	rdhi := int((opcode >> 16) & 0x0f)
	rdlo := int((opcode >> 12) & 0x0f)
	rs := int((opcode >> 8) & 0x0f)
	rm := int(opcode & 0x0f)

	cycles := 2 + multiplierCycles(mc.regVal(rs))

	var r uint64
	if opcode&0x00400000 == 0x00400000 {
		r = uint64(int64(int32(mc.regVal(rm))) * int64(int32(mc.regVal(rs))))
	} else {
		r = uint64(mc.regVal(rm)) * uint64(mc.regVal(rs))
	}

	if opcode&0x00200000 == 0x00200000 {
		r += uint64(mc.regVal(rdhi))<<32 | uint64(mc.regVal(rdlo))
		cycles++
	}

	mc.setReg(rdlo, uint32(r))
	mc.setReg(rdhi, uint32(r>>32))

	if opcode&0x00100000 == 0x00100000 {
		mc.Reg.SetFlag(registers.FlagN, r&0x8000000000000000 != 0)
		mc.Reg.SetFlag(registers.FlagZ, r == 0)
	}
	return cycles
}

// multiplierCycles returns the number of internal cycles the multiplier
// takes for the given operand. The array multiplier finishes early when
// the remaining bits are all zeros or all ones.
func multiplierCycles(v uint32) int {
	switch {
	case v&0xffffff00 == 0 || v&0xffffff00 == 0xffffff00:
		return 1
	case v&0xffff0000 == 0 || v&0xffff0000 == 0xffff0000:
		return 2
	case v&0xff000000 == 0 || v&0xff000000 == 0xff000000:
		return 3
	}
	return 4
}

func (mc *CPU) armSwap(opcode uint32) int {
	rn := int((opcode >> 16) & 0x0f)
	rd := int((opcode >> 12) & 0x0f)
	rm := int(opcode & 0x0f)
	addr := mc.regVal(rn)

	var cycles int

	if opcode&0x00400000 == 0x00400000 {
		v, c := mc.mem.Read8(addr)
		cycles += c
		cycles += mc.mem.Write8(addr, uint8(mc.regVal(rm)))
		mc.setReg(rd, uint32(v))
	} else {
		v, c := mc.loadWord(addr)
		cycles += c
		cycles += mc.mem.Write32(addr, mc.regVal(rm))
		mc.setReg(rd, v)
	}
	return cycles + 1
}

func (mc *CPU) armHalfwordTransfer(opcode uint32) int {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int((opcode >> 16) & 0x0f)
	rd := int((opcode >> 12) & 0x0f)

	var offset uint32
	if opcode&0x00400000 == 0x00400000 {
		offset = (opcode>>4)&0xf0 | opcode&0x0f
	} else {
		offset = mc.regVal(int(opcode & 0x0f))
	}

	base := mc.regVal(rn)
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	var cycles int

	if load {
		var v uint32
		var c int
		switch (opcode >> 5) & 0x03 {
		case 0x01:
			v, c = mc.loadHalf(addr)
		case 0x02:
			var b uint8
			b, c = mc.mem.Read8(addr)
			v = uint32(int32(int8(b)))
		case 0x03:
			v, c = mc.loadSignedHalf(addr)
		}
		cycles += c + 1
		defer mc.setReg(rd, v)
	} else {
		// STRH. only the unsigned halfword form exists
		v := mc.regVal(rd)
		if rd == 15 {
			v += 4
		}
		cycles += mc.mem.Write16(addr, uint16(v))
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if (!pre || writeback) && !(load && rd == rn) {
		mc.setReg(rn, addr)
	}

	return cycles
}

func (mc *CPU) armMRS(opcode uint32) int {
	rd := int((opcode >> 12) & 0x0f)
	if opcode&0x00400000 == 0x00400000 {
		mc.setReg(rd, mc.Reg.SPSR())
	} else {
		mc.setReg(rd, mc.Reg.CPSR)
	}
	return 1
}

func (mc *CPU) armMSR(opcode uint32) int {
	var v uint32
	if opcode&0x02000000 == 0x02000000 {
		v, _ = rotateImmediate(opcode&0xff, ((opcode>>8)&0x0f)*2, false)
	} else {
		v = mc.regVal(int(opcode & 0x0f))
	}

	var mask uint32
	for i, m := range []uint32{0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000} {
		if opcode&(1<<(16+i)) != 0 {
			mask |= m
		}
	}

	if opcode&0x00400000 == 0x00400000 {
		mc.Reg.SetSPSR(mc.Reg.SPSR()&^mask | v&mask)
		return 1
	}

	// the control field is privileged. the instruction state bit cannot
	// be changed this way
	if mc.Reg.Mode() == registers.ModeUser {
		mask &= 0xf0000000
	}
	mask &^= registers.FlagT
	mc.Reg.SetCPSR(mc.Reg.CPSR&^mask | v&mask)
	return 1
}

func (mc *CPU) armDataProcessing(opcode uint32) int {
	opc := (opcode >> 21) & 0x0f
	setFlags := opcode&0x00100000 == 0x00100000
	rn := int((opcode >> 16) & 0x0f)
	rd := int((opcode >> 12) & 0x0f)

	carryIn := mc.Reg.IsSet(registers.FlagC)
	cycles := 1

	var op2 uint32
	var shiftCarry bool
	var regShift bool

	if opcode&0x02000000 == 0x02000000 {
		op2, shiftCarry = rotateImmediate(opcode&0xff, ((opcode>>8)&0x0f)*2, carryIn)
	} else {
		rm := int(opcode & 0x0f)
		val := mc.regVal(rm)
		typ := int((opcode >> 5) & 0x03)

		if opcode&0x10 == 0x10 {
			// register specified shift amount. the extra fetch stage
			// means a program counter operand reads four bytes further
			// ahead and an internal cycle is added
			regShift = true
			if rm == 15 {
				val += 4
			}
			amount := mc.regVal(int((opcode>>8)&0x0f)) & 0xff
			op2, shiftCarry = barrelShift(typ, val, amount, carryIn, false)
			cycles++
		} else {
			op2, shiftCarry = barrelShift(typ, val, (opcode>>7)&0x1f, carryIn, true)
		}
	}

	a := mc.regVal(rn)
	if rn == 15 && regShift {
		a += 4
	}

	var r uint32
	logical := false
	writeRd := true

	var carry uint32
	if carryIn {
		carry = 1
	}

	switch opc {
	case 0x0: // AND
		r = a & op2
		logical = true
	case 0x1: // EOR
		r = a ^ op2
		logical = true
	case 0x2: // SUB
		if setFlags {
			r = mc.subFlags(a, op2, 0)
		} else {
			r = a - op2
		}
	case 0x3: // RSB
		if setFlags {
			r = mc.subFlags(op2, a, 0)
		} else {
			r = op2 - a
		}
	case 0x4: // ADD
		if setFlags {
			r = mc.addFlags(a, op2, 0)
		} else {
			r = a + op2
		}
	case 0x5: // ADC
		if setFlags {
			r = mc.addFlags(a, op2, carry)
		} else {
			r = a + op2 + carry
		}
	case 0x6: // SBC
		if setFlags {
			r = mc.subFlags(a, op2, 1-carry)
		} else {
			r = a - op2 - (1 - carry)
		}
	case 0x7: // RSC
		if setFlags {
			r = mc.subFlags(op2, a, 1-carry)
		} else {
			r = op2 - a - (1 - carry)
		}
	case 0x8: // TST
		r = a & op2
		logical = true
		writeRd = false
	case 0x9: // TEQ
		r = a ^ op2
		logical = true
		writeRd = false
	case 0xa: // CMP
		r = mc.subFlags(a, op2, 0)
		writeRd = false
	case 0xb: // CMN
		r = mc.addFlags(a, op2, 0)
		writeRd = false
	case 0xc: // ORR
		r = a | op2
		logical = true
	case 0xd: // MOV
		r = op2
		logical = true
	case 0xe: // BIC
		r = a &^ op2
		logical = true
	case 0xf: // MVN
		r = ^op2
		logical = true
	}

	if setFlags {
		if rd == 15 && writeRd {
			// the S variant targeting the program counter restores the
			// saved status register. this is how guest interrupt
			// handlers return
			mc.Reg.SetCPSR(mc.Reg.SPSR())
		} else if logical {
			mc.setNZ(r)
			mc.Reg.SetFlag(registers.FlagC, shiftCarry)
		}
	}

	if writeRd {
		mc.setReg(rd, r)
	}
	return cycles
}

func (mc *CPU) armSingleTransfer(opcode uint32) int {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	byteWidth := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int((opcode >> 16) & 0x0f)
	rd := int((opcode >> 12) & 0x0f)

	var offset uint32
	if opcode&0x02000000 == 0x02000000 {
		// shifted register offset. the shift amount is always immediate
		val := mc.regVal(int(opcode & 0x0f))
		carry := mc.Reg.IsSet(registers.FlagC)
		offset, _ = barrelShift(int((opcode>>5)&0x03), val, (opcode>>7)&0x1f, carry, true)
	} else {
		offset = opcode & 0xfff
	}

	base := mc.regVal(rn)
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	var cycles int

	if load {
		var v uint32
		var c int
		if byteWidth {
			var b uint8
			b, c = mc.mem.Read8(addr)
			v = uint32(b)
		} else {
			v, c = mc.loadWord(addr)
		}
		cycles += c + 1
		defer mc.setReg(rd, v)
	} else {
		v := mc.regVal(rd)
		if rd == 15 {
			// a stored program counter reads one instruction further
			// ahead again
			v += 4
		}
		if byteWidth {
			cycles += mc.mem.Write8(addr, uint8(v))
		} else {
			cycles += mc.mem.Write32(addr, v)
		}
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if (!pre || writeback) && !(load && rd == rn) {
		mc.setReg(rn, addr)
	}

	return cycles
}

func (mc *CPU) armBlockTransfer(opcode uint32) int {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	psr := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int((opcode >> 16) & 0x0f)
	rlist := uint16(opcode & 0xffff)

	return mc.blockTransfer(rn, rlist, pre, up, writeback, load, psr)
}

// blockTransfer is the common implementation of the 32-bit block transfer
// and the 16-bit multiple/push/pop formats.
func (mc *CPU) blockTransfer(rn int, rlist uint16, pre bool, up bool, writeback bool, load bool, psr bool) int {
	base := mc.regVal(rn)

	// an empty register list transfers the program counter only and
	// moves the base a full bank of sixteen registers
	empty := rlist == 0
	if empty {
		rlist = 0x8000
	}

	n := uint32(bits.OnesCount16(rlist))
	total := n * 4
	if empty {
		total = 0x40
	}

	var addr, newBase uint32
	if up {
		addr = base
		if pre {
			addr += 4
		}
		newBase = base + total
	} else {
		newBase = base - total
		addr = newBase
		if !pre {
			addr += 4
		}
	}

	// the user bank variant transfers the unbanked registers regardless
	// of the current mode. the trick is to switch to system mode for the
	// duration. writeback here is unpredictable on hardware and skipped
	userBank := psr && !(load && rlist&0x8000 != 0)
	var savedMode uint32
	if userBank {
		savedMode = mc.Reg.Mode()
		mc.Reg.SetMode(registers.ModeSystem)
		writeback = false
	}

	var cycles int
	first := true

	for i := 0; i < 16; i++ {
		if rlist&(1<<i) == 0 {
			continue
		}

		if load {
			v, c := mc.mem.Read32(addr)
			cycles += c
			if i == rn {
				// the loaded value wins over writeback
				writeback = false
			}
			mc.setReg(i, v)
		} else {
			v := mc.regVal(i)
			if i == 15 {
				v += 4
			} else if i == rn && !first {
				// storing the base after the first slot stores the
				// written-back value
				v = newBase
			}
			cycles += mc.mem.Write32(addr, v)
		}

		addr += 4
		first = false
	}

	if userBank {
		mc.Reg.SetMode(savedMode)
	}

	if load {
		cycles++
		if psr && rlist&0x8000 != 0 {
			mc.Reg.SetCPSR(mc.Reg.SPSR())
		}
	}

	if writeback {
		mc.setReg(rn, newBase)
	}
	return cycles
}

// loadWord reads a word, rotating the result of a misaligned address the
// way the bus does.
func (mc *CPU) loadWord(addr uint32) (uint32, int) {
	v, c := mc.mem.Read32(addr)
	if rot := (addr & 0x03) * 8; rot != 0 {
		v = v>>rot | v<<(32-rot)
	}
	return v, c
}

// loadHalf reads a halfword. A misaligned address rotates the value by
// eight bits.
func (mc *CPU) loadHalf(addr uint32) (uint32, int) {
	v, c := mc.mem.Read16(addr)
	if addr&0x01 == 0x01 {
		return uint32(v)>>8 | uint32(v&0xff)<<24, c
	}
	return uint32(v), c
}

// loadSignedHalf reads a sign-extended halfword. A misaligned address
// degrades to a sign-extended byte read.
func (mc *CPU) loadSignedHalf(addr uint32) (uint32, int) {
	if addr&0x01 == 0x01 {
		b, c := mc.mem.Read8(addr)
		return uint32(int32(int8(b))), c
	}
	v, c := mc.mem.Read16(addr)
	return uint32(int32(int16(v))), c
}
