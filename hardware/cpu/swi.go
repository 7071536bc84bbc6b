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
	"github.com/jetsetilly/gopheradvance/crunched"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/logger"
)

// swi provides the boot firmware's software interrupt services at a high
// level. No firmware code executes. Each service replicates the
// documented register and memory side effects directly.
//
// The function numbers are the ones games pass in the comment field of
// the software interrupt instruction.
func (mc *CPU) swi(num uint32) int {
	switch num & 0xff {
	case 0x00:
		return mc.swiSoftReset()
	case 0x01:
		return mc.swiRegisterRamReset()
	case 0x02, 0x03:
		// halt and stop. stop is treated as a halt
		mc.halted = true
		return 1
	case 0x04:
		return mc.swiIntrWait(mc.regVal(0) != 0, uint16(mc.regVal(1)))
	case 0x05:
		// wait for the next vertical blank. equivalent to IntrWait with
		// the discard flag and the vertical blank flag
		mc.Reg.SetReg(0, 1)
		mc.Reg.SetReg(1, 1)
		return mc.swiIntrWait(true, memory.IntVBlank)
	case 0x06:
		return mc.swiDiv(mc.regVal(0), mc.regVal(1))
	case 0x07:
		// as the divide service but with the operands exchanged
		return mc.swiDiv(mc.regVal(1), mc.regVal(0))
	case 0x08:
		return mc.swiSqrt()
	case 0x0b:
		return mc.swiCpuSet()
	case 0x0c:
		return mc.swiCpuFastSet()
	case 0x11:
		return mc.swiLZ77(memory.Width8)
	case 0x12:
		return mc.swiLZ77(memory.Width16)
	}

	logger.Logf("cpu", "unimplemented bios call %02x at %08x", num&0xff, mc.Reg.PC())
	return 1
}

// swiSoftReset clears the top of the fast work RAM and restarts the
// cartridge.
func (mc *CPU) swiSoftReset() int {
	for addr := uint32(0x03007e00); addr < 0x03008000; addr += 4 {
		mc.mem.Write32(addr, 0)
	}
	mc.Reg.Reset()
	mc.branched = true
	return 1
}

// swiRegisterRamReset clears memory blocks and register groups selected
// by the bits of r0.
func (mc *CPU) swiRegisterRamReset() int {
	flags := mc.regVal(0)

	clear := func(start uint32, length uint32) {
		for addr := start; addr < start+length; addr += 4 {
			mc.mem.Write32(addr, 0)
		}
	}

	if flags&0x01 == 0x01 {
		clear(0x02000000, 0x40000)
	}
	if flags&0x02 == 0x02 {
		// everything but the stack area
		clear(0x03000000, 0x7e00)
	}
	if flags&0x04 == 0x04 {
		clear(0x05000000, 0x400)
	}
	if flags&0x08 == 0x08 {
		clear(0x06000000, 0x18000)
	}
	if flags&0x10 == 0x10 {
		clear(0x07000000, 0x400)
	}
	if flags&0x80 == 0x80 {
		// a blanket zero of the io block is close enough to the
		// documented register group resets. the keypad registers are
		// left alone, zero would mean every key held down
		for offset := uint32(0); offset < 0x20c; offset += 2 {
			if offset == memory.RegKEYINPUT || offset == memory.RegKEYCNT {
				continue
			}
			mc.mem.PokeIO(offset, 0)
		}
	}
	return 1
}

// swiIntrWait suspends the processor until the game's interrupt handler
// acknowledges one of the requested flags. The actual waiting happens in
// Step(). Interrupts are force enabled, as the firmware does.
func (mc *CPU) swiIntrWait(discard bool, flags uint16) int {
	if discard {
		mc.setBIOSFlags(mc.biosFlags() &^ flags)
	}
	mc.mem.Write16(0x04000208, 0x0001)
	mc.intrWait = true
	mc.intrWaitFlags = flags
	return 1
}

// swiDiv performs a signed division, returning quotient in r0, remainder
// in r1 and the absolute quotient in r3.
func (mc *CPU) swiDiv(num uint32, den uint32) int {
	n := int32(num)
	d := int32(den)

	if d == 0 {
		// the firmware loops forever on hardware. return something
		// harmless instead
		logger.Logf("cpu", "division by zero in bios call at %08x", mc.Reg.PC())
		if n < 0 {
			mc.Reg.SetReg(0, 0xffffffff)
		} else {
			mc.Reg.SetReg(0, 1)
		}
		mc.Reg.SetReg(1, uint32(n))
		mc.Reg.SetReg(3, 1)
		return 1
	}

	q := n / d
	mc.Reg.SetReg(0, uint32(q))
	mc.Reg.SetReg(1, uint32(n%d))
	if q < 0 {
		q = -q
	}
	mc.Reg.SetReg(3, uint32(q))
	return 8
}

// swiSqrt returns the integer square root of r0.
func (mc *CPU) swiSqrt() int {
	v := mc.regVal(0)

	var root uint32
	bit := uint32(1 << 30)
	for bit > v {
		bit >>= 2
	}
	for bit != 0 {
		if v >= root+bit {
			v -= root + bit
			root = root>>1 + bit
		} else {
			root >>= 1
		}
		bit >>= 2
	}
	mc.Reg.SetReg(0, root)
	return 8
}

// swiCpuSet copies or fills words or halfwords. r0 source, r1
// destination, r2 a count with mode bits.
func (mc *CPU) swiCpuSet() int {
	src := mc.regVal(0)
	dst := mc.regVal(1)
	ctrl := mc.regVal(2)
	count := ctrl & 0x1fffff
	fill := ctrl&0x01000000 != 0

	var cycles int

	if ctrl&0x04000000 != 0 {
		src &= ^uint32(0x03)
		dst &= ^uint32(0x03)
		if fill {
			v, c := mc.mem.Read32(src)
			cycles += c
			for i := uint32(0); i < count; i++ {
				cycles += mc.mem.Write32(dst+i*4, v)
			}
		} else {
			for i := uint32(0); i < count; i++ {
				v, c := mc.mem.Read32(src + i*4)
				cycles += c
				cycles += mc.mem.Write32(dst+i*4, v)
			}
		}
	} else {
		src &= ^uint32(0x01)
		dst &= ^uint32(0x01)
		if fill {
			v, c := mc.mem.Read16(src)
			cycles += c
			for i := uint32(0); i < count; i++ {
				cycles += mc.mem.Write16(dst+i*2, v)
			}
		} else {
			for i := uint32(0); i < count; i++ {
				v, c := mc.mem.Read16(src + i*2)
				cycles += c
				cycles += mc.mem.Write16(dst+i*2, v)
			}
		}
	}
	return cycles + 1
}

// swiCpuFastSet is the word-only block copy or fill. The count is
// rounded up to a multiple of eight words, as the firmware does.
func (mc *CPU) swiCpuFastSet() int {
	src := mc.regVal(0) &^ uint32(0x03)
	dst := mc.regVal(1) &^ uint32(0x03)
	ctrl := mc.regVal(2)
	count := (ctrl&0x1fffff + 7) &^ uint32(0x07)

	var cycles int

	if ctrl&0x01000000 != 0 {
		v, c := mc.mem.Read32(src)
		cycles += c
		for i := uint32(0); i < count; i++ {
			cycles += mc.mem.Write32(dst+i*4, v)
		}
	} else {
		for i := uint32(0); i < count; i++ {
			v, c := mc.mem.Read32(src + i*4)
			cycles += c
			cycles += mc.mem.Write32(dst+i*4, v)
		}
	}
	return cycles + 1
}

// swiLZ77 decompresses an LZ77 stream from the address in r0 to the
// address in r1. The video memory variant writes in halfwords, which
// matters because byte writes to video memory are not honoured as such.
func (mc *CPU) swiLZ77(width int) int {
	src := mc.regVal(0)
	dst := mc.regVal(1)

	header, err := mc.readLZ77Header(src)
	if err != nil {
		logger.Logf("cpu", "%v", err)
		return 1
	}

	// gather the compressed stream into a buffer for the decompressor.
	// the size of the compressed data isn't in the header so we read the
	// worst case, a stream of all literals. decompression stops at the
	// decompressed size
	compressed := make([]uint8, 4+header.Size+header.Size/8+1)
	for i := range compressed {
		compressed[i] = mc.mem.Peek(src + uint32(i))
	}

	data, err := crunched.DecompressLZ77(compressed)
	if err != nil {
		logger.Logf("cpu", "%v", err)
		return 1
	}

	var cycles int

	if width == memory.Width16 {
		for i := 0; i+1 < len(data); i += 2 {
			cycles += mc.mem.Write16(dst+uint32(i), uint16(data[i])|uint16(data[i+1])<<8)
		}
	} else {
		for i := range data {
			cycles += mc.mem.Write8(dst+uint32(i), data[i])
		}
	}
	return cycles + 1
}

func (mc *CPU) readLZ77Header(src uint32) (crunched.LZ77Header, error) {
	var hdr [4]uint8
	for i := range hdr {
		hdr[i] = mc.mem.Peek(src + uint32(i))
	}
	return crunched.ReadLZ77Header(hdr[:])
}
