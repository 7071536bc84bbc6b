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

// Package registers implements the ARM7TDMI register file, including the
// banked registers for the privileged processor modes and the current and
// saved program status registers.
package registers

import (
	"fmt"
	"strings"
)

// Processor modes, as they appear in the low five bits of the status
// register.
const (
	ModeUser       = uint32(0x10)
	ModeFIQ        = uint32(0x11)
	ModeIRQ        = uint32(0x12)
	ModeSupervisor = uint32(0x13)
	ModeAbort      = uint32(0x17)
	ModeUndefined  = uint32(0x1b)
	ModeSystem     = uint32(0x1f)

	MaskMode = uint32(0x1f)
)

// Status register flags.
const (
	FlagN = uint32(0x80000000)
	FlagZ = uint32(0x40000000)
	FlagC = uint32(0x20000000)
	FlagV = uint32(0x10000000)
	FlagI = uint32(0x00000080)
	FlagF = uint32(0x00000040)
	FlagT = uint32(0x00000020)
)

// Post-reset stack pointers. These are the values the boot firmware leaves
// behind. We have no firmware so we set them directly.
const (
	ResetSPUser       = uint32(0x03007f00)
	ResetSPIRQ        = uint32(0x03007fa0)
	ResetSPSupervisor = uint32(0x03007fe0)
)

// Registers is the complete ARM7TDMI register file. The sixteen entries of
// the current view are swapped against the mode banks whenever the
// processor mode changes.
type Registers struct {
	r    [16]uint32
	CPSR uint32

	// r13 and r14 banks for each mode. user and system share a bank
	bankUsr [2]uint32
	bankSvc [2]uint32
	bankIRQ [2]uint32
	bankAbt [2]uint32
	bankUnd [2]uint32

	// fiq additionally banks r8 to r12
	bankFIQ   [7]uint32
	bankUsrHi [5]uint32

	spsrSvc uint32
	spsrIRQ uint32
	spsrAbt uint32
	spsrUnd uint32
	spsrFIQ uint32
}

// Reset the register file to the documented post-boot state. The program
// counter points at the cartridge and the mode is system, the state a real
// unit is in when it hands control to a game.
func (reg *Registers) Reset() {
	*reg = Registers{}
	reg.CPSR = ModeSystem
	reg.r[13] = ResetSPUser
	reg.r[15] = 0x08000000

	reg.bankUsr[0] = ResetSPUser
	reg.bankIRQ[0] = ResetSPIRQ
	reg.bankSvc[0] = ResetSPSupervisor
}

// Reg returns the current view of register idx.
func (reg *Registers) Reg(idx int) uint32 {
	return reg.r[idx]
}

// SetReg sets the current view of register idx.
func (reg *Registers) SetReg(idx int, value uint32) {
	reg.r[idx] = value
}

// PC returns the program counter.
func (reg *Registers) PC() uint32 {
	return reg.r[15]
}

// SetPC sets the program counter.
func (reg *Registers) SetPC(value uint32) {
	reg.r[15] = value
}

// Mode returns the current processor mode.
func (reg *Registers) Mode() uint32 {
	return reg.CPSR & MaskMode
}

// IsSet returns whether flag (one of the Flag constants) is set in the
// status register.
func (reg *Registers) IsSet(flag uint32) bool {
	return reg.CPSR&flag == flag
}

// SetFlag sets or clears flag in the status register.
func (reg *Registers) SetFlag(flag uint32, set bool) {
	if set {
		reg.CPSR |= flag
	} else {
		reg.CPSR &^= flag
	}
}

// Thumb returns whether the processor is in the 16-bit instruction state.
func (reg *Registers) Thumb() bool {
	return reg.CPSR&FlagT == FlagT
}

// SetMode switches the processor mode, swapping the current register view
// against the banks. Switching to the current mode is a no-op.
func (reg *Registers) SetMode(mode uint32) {
	old := reg.CPSR & MaskMode
	if old == mode {
		return
	}
	reg.saveBank(old)
	reg.loadBank(mode)
	reg.CPSR = (reg.CPSR &^ MaskMode) | mode
}

// SetCPSR replaces the whole status register, switching banks if the mode
// field has changed.
func (reg *Registers) SetCPSR(value uint32) {
	reg.SetMode(value & MaskMode)
	reg.CPSR = value
}

// SPSR returns the saved status register for the current mode. User and
// system mode have no saved register and read back the current one.
func (reg *Registers) SPSR() uint32 {
	switch reg.Mode() {
	case ModeFIQ:
		return reg.spsrFIQ
	case ModeIRQ:
		return reg.spsrIRQ
	case ModeSupervisor:
		return reg.spsrSvc
	case ModeAbort:
		return reg.spsrAbt
	case ModeUndefined:
		return reg.spsrUnd
	}
	return reg.CPSR
}

// SetSPSR sets the saved status register for the current mode. Does
// nothing in user or system mode.
func (reg *Registers) SetSPSR(value uint32) {
	switch reg.Mode() {
	case ModeFIQ:
		reg.spsrFIQ = value
	case ModeIRQ:
		reg.spsrIRQ = value
	case ModeSupervisor:
		reg.spsrSvc = value
	case ModeAbort:
		reg.spsrAbt = value
	case ModeUndefined:
		reg.spsrUnd = value
	}
}

func (reg *Registers) saveBank(mode uint32) {
	switch mode {
	case ModeUser, ModeSystem:
		reg.bankUsr[0] = reg.r[13]
		reg.bankUsr[1] = reg.r[14]
	case ModeFIQ:
		copy(reg.bankFIQ[:], reg.r[8:15])
		copy(reg.r[8:13], reg.bankUsrHi[:])
	case ModeIRQ:
		reg.bankIRQ[0] = reg.r[13]
		reg.bankIRQ[1] = reg.r[14]
	case ModeSupervisor:
		reg.bankSvc[0] = reg.r[13]
		reg.bankSvc[1] = reg.r[14]
	case ModeAbort:
		reg.bankAbt[0] = reg.r[13]
		reg.bankAbt[1] = reg.r[14]
	case ModeUndefined:
		reg.bankUnd[0] = reg.r[13]
		reg.bankUnd[1] = reg.r[14]
	}
}

func (reg *Registers) loadBank(mode uint32) {
	switch mode {
	case ModeUser, ModeSystem:
		reg.r[13] = reg.bankUsr[0]
		reg.r[14] = reg.bankUsr[1]
	case ModeFIQ:
		copy(reg.bankUsrHi[:], reg.r[8:13])
		copy(reg.r[8:15], reg.bankFIQ[:])
	case ModeIRQ:
		reg.r[13] = reg.bankIRQ[0]
		reg.r[14] = reg.bankIRQ[1]
	case ModeSupervisor:
		reg.r[13] = reg.bankSvc[0]
		reg.r[14] = reg.bankSvc[1]
	case ModeAbort:
		reg.r[13] = reg.bankAbt[0]
		reg.r[14] = reg.bankAbt[1]
	case ModeUndefined:
		reg.r[13] = reg.bankUnd[0]
		reg.r[14] = reg.bankUnd[1]
	}
}

func (reg *Registers) String() string {
	s := strings.Builder{}
	for i := 0; i < 16; i++ {
		s.WriteString(fmt.Sprintf("r%-2d %08x  ", i, reg.r[i]))
		if i%4 == 3 {
			s.WriteString("\n")
		}
	}
	s.WriteString(fmt.Sprintf("cpsr %08x [", reg.CPSR))
	for _, f := range []struct {
		flag uint32
		r    rune
	}{
		{FlagN, 'N'}, {FlagZ, 'Z'}, {FlagC, 'C'}, {FlagV, 'V'},
		{FlagI, 'I'}, {FlagF, 'F'}, {FlagT, 'T'},
	} {
		if reg.IsSet(f.flag) {
			s.WriteRune(f.r)
		} else {
			s.WriteRune('-')
		}
	}
	s.WriteString("]")
	return s.String()
}
