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

// Shift types as encoded in the instruction stream.
const (
	shiftLSL = 0
	shiftLSR = 1
	shiftASR = 2
	shiftROR = 3
)

// barrelShift applies one of the four shift operations to value and
// returns the result together with the shifter carry out.
//
// immForm distinguishes an immediate shift amount from a register
// specified amount. The encodings overload an amount of zero differently:
// an immediate LSR/ASR of zero means a shift of 32, an immediate ROR of
// zero is RRX, while a register amount of zero leaves both the value and
// the carry untouched.
func barrelShift(typ int, value uint32, amount uint32, carryIn bool, immForm bool) (uint32, bool) {
	if !immForm && amount == 0 {
		return value, carryIn
	}

	switch typ {
	case shiftLSL:
		switch {
		case amount == 0:
			return value, carryIn
		case amount < 32:
			return value << amount, value&(1<<(32-amount)) != 0
		case amount == 32:
			return 0, value&0x01 != 0
		}
		return 0, false

	case shiftLSR:
		if immForm && amount == 0 {
			amount = 32
		}
		switch {
		case amount < 32:
			return value >> amount, value&(1<<(amount-1)) != 0
		case amount == 32:
			return 0, value&0x80000000 != 0
		}
		return 0, false

	case shiftASR:
		if immForm && amount == 0 {
			amount = 32
		}
		if amount >= 32 {
			if value&0x80000000 != 0 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(value) >> amount), value&(1<<(amount-1)) != 0

	case shiftROR:
		if immForm && amount == 0 {
			// RRX. the carry rotates into the top bit
			r := value >> 1
			if carryIn {
				r |= 0x80000000
			}
			return r, value&0x01 != 0
		}
		amount &= 0x1f
		if amount == 0 {
			return value, value&0x80000000 != 0
		}
		r := value>>amount | value<<(32-amount)
		return r, r&0x80000000 != 0
	}

	return value, carryIn
}

// rotated immediates in the 32-bit data processing encoding set the carry
// from the top bit of the result when the rotation is non-zero
func rotateImmediate(value uint32, rotate uint32, carryIn bool) (uint32, bool) {
	if rotate == 0 {
		return value, carryIn
	}
	rotate &= 0x1f
	r := value>>rotate | value<<(32-rotate)
	return r, r&0x80000000 != 0
}
