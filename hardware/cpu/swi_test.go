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

	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestSWI_div(t *testing.T) {
	mem, mc := newTestCPU()

	loadARM(mem, mc, 0xef060000) // swi 0x06 (div)
	mc.Reg.SetReg(0, 0xfffffff9) // -7
	mc.Reg.SetReg(1, 2)
	mc.Step()

	test.Equate(t, mc.Reg.Reg(0), uint32(0xfffffffd)) // -3
	test.Equate(t, mc.Reg.Reg(1), uint32(0xffffffff)) // -1
	test.Equate(t, mc.Reg.Reg(3), 3)
}

func TestSWI_divArm(t *testing.T) {
	mem, mc := newTestCPU()

	// the operands are exchanged relative to the div service
	loadARM(mem, mc, 0xef070000) // swi 0x07
	mc.Reg.SetReg(0, 3)
	mc.Reg.SetReg(1, 42)
	mc.Step()

	test.Equate(t, mc.Reg.Reg(0), 14)
	test.Equate(t, mc.Reg.Reg(1), 0)
}

func TestSWI_sqrt(t *testing.T) {
	mem, mc := newTestCPU()

	for _, tc := range []struct {
		v    uint32
		root uint32
	}{
		{0, 0}, {1, 1}, {16, 4}, {17, 4}, {99, 9}, {65536, 256}, {0xffffffff, 0xffff},
	} {
		loadARM(mem, mc, 0xef080000) // swi 0x08
		mc.Reg.SetReg(0, tc.v)
		mc.Step()
		test.Equate(t, mc.Reg.Reg(0), tc.root)
	}
}

func TestSWI_cpuSet(t *testing.T) {
	mem, mc := newTestCPU()

	for i := uint32(0); i < 4; i++ {
		mem.Write32(0x02000000+i*4, 0x1000+i)
	}

	// word copy of four words
	loadARM(mem, mc, 0xef0b0000) // swi 0x0b
	mc.Reg.SetReg(0, 0x02000000)
	mc.Reg.SetReg(1, 0x03000100)
	mc.Reg.SetReg(2, 4|0x04000000)
	mc.Step()

	for i := uint32(0); i < 4; i++ {
		v, _ := mem.Read32(0x03000100 + i*4)
		test.Equate(t, v, 0x1000+i)
	}

	// halfword fill
	loadARM(mem, mc, 0xef0b0000)
	mem.Write16(0x02000100, 0xabcd)
	mc.Reg.SetReg(0, 0x02000100)
	mc.Reg.SetReg(1, 0x03000200)
	mc.Reg.SetReg(2, 3|0x01000000)
	mc.Step()

	for i := uint32(0); i < 3; i++ {
		v, _ := mem.Read16(0x03000200 + i*2)
		test.Equate(t, v, 0xabcd)
	}
}

func TestSWI_cpuFastSet(t *testing.T) {
	mem, mc := newTestCPU()

	// the count is rounded up to a multiple of eight words
	mem.Write32(0x02000000, 0x55aa55aa)
	loadARM(mem, mc, 0xef0c0000) // swi 0x0c
	mc.Reg.SetReg(0, 0x02000000)
	mc.Reg.SetReg(1, 0x03000100)
	mc.Reg.SetReg(2, 1|0x01000000)
	mc.Step()

	for i := uint32(0); i < 8; i++ {
		v, _ := mem.Read32(0x03000100 + i*4)
		test.Equate(t, v, uint32(0x55aa55aa))
	}
}

func TestSWI_lz77(t *testing.T) {
	mem, mc := newTestCPU()

	// "abcabcabc": three literals then a back-reference of length six.
	// the header says lz77 with 9 bytes decompressed, the flag byte
	// marks the fourth block as the back-reference
	stream := []uint8{
		0x10, 9, 0, 0,
		0x10,
		'a', 'b', 'c',
		0x30, 0x02,
	}
	for i, b := range stream {
		mem.Write8(0x02000000+uint32(i), b)
	}

	loadARM(mem, mc, 0xef110000) // swi 0x11
	mc.Reg.SetReg(0, 0x02000000)
	mc.Reg.SetReg(1, 0x03000100)
	mc.Step()

	want := "abcabcabc"
	for i := 0; i < len(want); i++ {
		v, _ := mem.Read8(0x03000100 + uint32(i))
		test.Equate(t, v, uint8(want[i]))
	}
}

func TestSWI_vblankIntrWait(t *testing.T) {
	mem, mc := newTestCPU()

	loadARM(mem, mc,
		0xef050000, // swi 0x05 (vblank intr wait)
		0xe3a00001, // mov r0, #1
	)

	mc.Step()

	// the processor is now waiting. nothing moves
	mc.Step()
	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 1) // the service's flag argument, untouched
	test.Equate(t, mc.Reg.PC(), codeOrigin+4)

	// the handler's acknowledge word releases the wait
	v, _ := mem.Read16(0x03007ff8)
	mem.Write16(0x03007ff8, v|memory.IntVBlank)

	mc.Step()
	test.Equate(t, mc.Reg.Reg(0), 1)
	test.Equate(t, mc.Reg.PC(), codeOrigin+8)

	// the acknowledged flag has been consumed
	v, _ = mem.Read16(0x03007ff8)
	test.Equate(t, v&memory.IntVBlank, 0)
}
