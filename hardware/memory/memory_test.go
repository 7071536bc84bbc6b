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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/test"
)

func newBusWithROM(size int) *memory.Memory {
	mem := memory.NewMemory()
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i)
	}
	mem.AttachGamePak(memory.NewGamePak(rom, backup.NewDevice(backup.None)))
	return mem
}

func TestWorkRAM_mirroring(t *testing.T) {
	mem := memory.NewMemory()

	mem.Write8(0x02000010, 0x5a)
	v, _ := mem.Read8(0x02040010)
	test.Equate(t, v, 0x5a)

	mem.Write8(0x03000020, 0xa5)
	v, _ = mem.Read8(0x03008020)
	test.Equate(t, v, 0xa5)
}

// a cartridge smaller than the addressing range repeats throughout it, in
// every ROM segment
func TestGamePak_mirroring(t *testing.T) {
	mem := newBusWithROM(0x1000)

	v, _ := mem.Read8(0x08000123)
	test.Equate(t, v, 0x23)

	v, _ = mem.Read8(0x08001123)
	test.Equate(t, v, 0x23)

	v, _ = mem.Read8(0x0a000123)
	test.Equate(t, v, 0x23)

	v, _ = mem.Read8(0x0c001123)
	test.Equate(t, v, 0x23)
}

func TestOpenBus(t *testing.T) {
	mem := memory.NewMemory()

	// no cartridge and no save RAM device: address lines bleed through
	v, _ := mem.Read16(0x0e001234)
	test.Equate(t, v, 0x3434)

	w, _ := mem.Read32(0x01005678)
	test.Equate(t, w, uint32(0x56785678))
}

func TestInterruptFlags_writeToClear(t *testing.T) {
	mem := memory.NewMemory()

	mem.RequestInterrupt(memory.IntVBlank | memory.IntTimer0)
	v, _ := mem.Read16(0x04000202)
	test.Equate(t, v, 0x0009)

	// writing a 1 acknowledges that interrupt and leaves the others
	mem.Write16(0x04000202, 0x0001)
	v, _ = mem.Read16(0x04000202)
	test.Equate(t, v, 0x0008)
}

func TestIRQAsserted(t *testing.T) {
	mem := memory.NewMemory()

	mem.RequestInterrupt(memory.IntHBlank)
	test.ExpectedFailure(t, mem.IRQAsserted())

	mem.Write16(0x04000200, 0x0002) // IE
	test.ExpectedFailure(t, mem.IRQAsserted())
	test.ExpectedSuccess(t, mem.IRQPendingRegardless())

	mem.Write16(0x04000208, 0x0001) // IME
	test.ExpectedSuccess(t, mem.IRQAsserted())
}

func TestPalette_byteWriteDuplication(t *testing.T) {
	mem := memory.NewMemory()

	mem.Write8(0x05000003, 0x7f)
	v, _ := mem.Read16(0x05000002)
	test.Equate(t, v, 0x7f7f)
}

func TestVRAM_byteWrites(t *testing.T) {
	mem := memory.NewMemory()

	// background video memory duplicates byte writes
	mem.Write8(0x06000100, 0x12)
	v, _ := mem.Read16(0x06000100)
	test.Equate(t, v, 0x1212)

	// object tile memory discards them
	mem.Write8(0x06010100, 0x12)
	v, _ = mem.Read16(0x06010100)
	test.Equate(t, v, 0x0000)
}

func TestOAM_byteWritesDiscarded(t *testing.T) {
	mem := memory.NewMemory()

	mem.Write8(0x07000000, 0xff)
	v, _ := mem.Read16(0x07000000)
	test.Equate(t, v, 0x0000)
}

func TestDMA_immediateTransfer(t *testing.T) {
	mem := memory.NewMemory()

	for i := 0; i < 16; i++ {
		mem.Write8(0x02000000+uint32(i), uint8(0x40+i))
	}

	// channel 3: 8 words from EWRAM to IWRAM, immediate
	mem.Write32(0x040000d4, 0x02000000)
	mem.Write32(0x040000d8, 0x03000000)
	mem.Write16(0x040000dc, 4)
	mem.Write16(0x040000de, 0x8400) // enable, 32 bit

	for i := 0; i < 16; i++ {
		v, _ := mem.Read8(0x03000000 + uint32(i))
		test.Equate(t, v, 0x40+i)
	}

	// completion clears the enable bit
	v, _ := mem.Read16(0x040000de)
	test.Equate(t, v, 0x0400)

	// the transfer consumed bus time
	test.ExpectedSuccess(t, mem.DrainStall() > 0)
	test.Equate(t, mem.DrainStall(), 0)
}

// the cycle cost of a transfer depends only on the access widths and areas,
// not on how the source registers were programmed
func TestDMA_cycleAccounting(t *testing.T) {
	run := func(control uint16, count uint16) int {
		mem := memory.NewMemory()
		mem.Write32(0x040000d4, 0x02000000)
		mem.Write32(0x040000d8, 0x03000000)
		mem.Write16(0x040000dc, count)
		mem.Write16(0x040000de, control)
		return mem.DrainStall()
	}

	// one 32 bit unit costs the same bus time as the EWRAM read plus the
	// IWRAM write at that width
	word := run(0x8400, 1)
	test.Equate(t, word, 2+6+1)

	// n units scale linearly
	test.Equate(t, run(0x8400, 8), 2+8*(6+1))

	// halfword units are cheaper
	test.Equate(t, run(0x8000, 8), 2+8*(3+1))
}

func TestDMA_interruptOnCompletion(t *testing.T) {
	mem := memory.NewMemory()

	mem.Write32(0x040000d4, 0x02000000)
	mem.Write32(0x040000d8, 0x03000000)
	mem.Write16(0x040000dc, 1)
	mem.Write16(0x040000de, 0xc000) // enable, IRQ

	v, _ := mem.Read16(0x04000202)
	test.Equate(t, v, memory.IntDMA3)
}

func TestDMA_countOfZeroMeansMaximum(t *testing.T) {
	mem := memory.NewMemory()

	// channel 0 count is 14 bits
	mem.Write32(0x040000b0, 0x02000000)
	mem.Write32(0x040000b4, 0x02020000)
	mem.Write16(0x040000b8, 0)
	mem.Write16(0x040000ba, 0x8000)

	// 0x4000 halfword units
	test.Equate(t, mem.DrainStall(), 2+0x4000*(3+3))
}

func TestHaltRequest(t *testing.T) {
	mem := memory.NewMemory()

	test.ExpectedFailure(t, mem.HaltRequested())
	mem.Write8(0x04000301, 0x00)
	test.ExpectedSuccess(t, mem.HaltRequested())

	// the request is cleared by reading it
	test.ExpectedFailure(t, mem.HaltRequested())
}
