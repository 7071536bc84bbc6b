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

package apu_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/apu"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

func newAPU() (*memory.Memory, *apu.APU) {
	mem := memory.NewMemory()
	a := apu.NewAPU(mem)
	mem.Audio = a
	return mem, a
}

func TestRing_writeAndRead(t *testing.T) {
	r := apu.NewRing(4)

	test.ExpectedSuccess(t, r.Write(1, -1))
	test.ExpectedSuccess(t, r.Write(2, -2))
	test.Equate(t, r.Pending(), 2)

	dst := make([]int16, 8)
	n := r.Read(dst)
	test.Equate(t, n, 4)
	test.Equate(t, int(dst[0]), 1)
	test.Equate(t, int(dst[1]), -1)
	test.Equate(t, int(dst[2]), 2)
	test.Equate(t, int(dst[3]), -2)
	test.Equate(t, r.Pending(), 0)
}

func TestRing_dropOnFull(t *testing.T) {
	r := apu.NewRing(2)

	test.ExpectedSuccess(t, r.Write(1, 1))
	test.ExpectedSuccess(t, r.Write(2, 2))
	test.ExpectedFailure(t, r.Write(3, 3))

	dst := make([]int16, 2)
	test.Equate(t, r.Read(dst), 2)
	test.ExpectedSuccess(t, r.Write(3, 3))
}

func TestAPU_fifoDMARefill(t *testing.T) {
	mem, a := newAPU()

	// place samples in work RAM and point DMA channel 1 at FIFO A in the
	// special timing mode
	for i := 0; i < 32; i++ {
		mem.Write8(0x02000000+uint32(i), uint8(0x10+i))
	}
	mem.Write32(0x040000bc, 0x02000000) // DMA1SAD
	mem.Write32(0x040000c0, 0x040000a0) // DMA1DAD: FIFO A
	mem.Write16(0x040000c6, 0xb600)     // enable, special, 32 bit, fixed dest, repeat

	// direct sound A on timer 0, routed both sides, master enable
	mem.Write16(0x04000082, 0x0304)
	mem.Write16(0x04000084, 0x0080)

	// the FIFO is empty so the first timer tick must trigger a refill of
	// four words
	a.TimerOverflow(0, 1)
	test.ExpectedSuccess(t, mem.DrainStall() > 0)

	// the first sample popped after the refill is the first byte written.
	// it appears in the mixer output scaled to the 16 bit range
	a.TimerOverflow(0, 1)
	a.Step(512)

	dst := make([]int16, 2)
	test.Equate(t, a.Samples.Read(dst), 2)
	test.Equate(t, int(dst[0]), 0x10<<8)
	test.Equate(t, int(dst[1]), 0x10<<8)
}

func TestAPU_fifoResetBits(t *testing.T) {
	mem, a := newAPU()

	mem.Write32(0x040000a0, 0x04030201)
	a.TimerOverflow(0, 1)

	// the reset bit empties FIFO A and never reads back as set
	mem.Write16(0x04000082, 0x0800)
	r := a.ReadRegister(0x082)
	test.Equate(t, r, 0x0000)
}

func TestAPU_sampleProduction(t *testing.T) {
	_, a := newAPU()

	// one frame's worth of cycles at 32768Hz is 268 sample pairs and change
	a.Step(280896)
	test.ExpectedSuccess(t, a.Samples.Pending() >= 268)
}
