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

package backup_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestSRAM_roundTrip(t *testing.T) {
	d := backup.NewDevice(backup.SRAM)

	test.Equate(t, d.Read(0x0000), 0xff)

	d.Write(0x0123, 0x42)
	test.Equate(t, d.Read(0x0123), 0x42)

	// the 8 bit bus wraps at the 32KB boundary
	test.Equate(t, d.Read(0x8123), 0x42)
}

func TestLoad_zeroImageWipesToErased(t *testing.T) {
	d := backup.NewDevice(backup.SRAM)

	err := d.Load(make([]byte, 0x8000))
	test.ExpectedSuccess(t, err)
	test.Equate(t, d.Read(0x0000), 0xff)

	err = d.Load(make([]byte, 100))
	test.ExpectedFailure(t, err)
}

func TestFlash_identity(t *testing.T) {
	d := backup.NewDevice(backup.Flash512)

	// enter ID mode
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0x90)

	test.Equate(t, d.Read(0x0000), 0xc2)
	test.Equate(t, d.Read(0x0001), 0x1c)

	// exit ID mode
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xf0)

	test.Equate(t, d.Read(0x0000), 0xff)
}

// program a 16 byte block and read it back, the write path software actually
// uses (unlock, program command, one data byte, repeat)
func TestFlash_programReadBack(t *testing.T) {
	d := backup.NewDevice(backup.Flash512)

	src := []uint8{
		0xde, 0xad, 0xbe, 0xef, 0x00, 0x11, 0x22, 0x33,
		0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb,
	}

	for i, v := range src {
		d.Write(0x5555, 0xaa)
		d.Write(0x2aaa, 0x55)
		d.Write(0x5555, 0xa0)
		d.Write(uint32(0x0100+i), v)
	}

	for i, v := range src {
		test.Equate(t, d.Read(uint32(0x0100+i)), v)
	}
}

func TestFlash_sectorErase(t *testing.T) {
	d := backup.NewDevice(backup.Flash512)

	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xa0)
	d.Write(0x2000, 0x12)

	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0x80)
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x2000, 0x30)

	test.Equate(t, d.Read(0x2000), 0xff)
}

func TestFlash_banking(t *testing.T) {
	d := backup.NewDevice(backup.Flash1M)

	// program address 0 in bank 0
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xa0)
	d.Write(0x0000, 0x01)

	// switch to bank 1
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xb0)
	d.Write(0x0000, 0x01)

	test.Equate(t, d.Read(0x0000), 0xff)

	// program address 0 in bank 1
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xa0)
	d.Write(0x0000, 0x02)

	// back to bank 0
	d.Write(0x5555, 0xaa)
	d.Write(0x2aaa, 0x55)
	d.Write(0x5555, 0xb0)
	d.Write(0x0000, 0x00)

	test.Equate(t, d.Read(0x0000), 0x01)
}

// drive the eeprom serial protocol the way a DMA transfer would
func eepromSend(d backup.SerialDevice, bits []uint16) {
	for _, b := range bits {
		d.TransferBit(b)
	}
}

func eepromAddressBits(address uint16, n int) []uint16 {
	bits := make([]uint16, 0, n)
	for i := n - 1; i >= 0; i-- {
		bits = append(bits, (address>>i)&0x0001)
	}
	return bits
}

func TestEEPROM_writeThenRead(t *testing.T) {
	d := backup.NewDevice(backup.EEPROM4K)
	s, ok := d.(backup.SerialDevice)
	test.ExpectedSuccess(t, ok)

	// write request to block 3: "10", 6 address bits, 64 data bits, stop bit
	eepromSend(s, []uint16{1, 0})
	eepromSend(s, eepromAddressBits(3, 6))
	var value uint64 = 0x0123456789abcdef
	for i := 63; i >= 0; i-- {
		s.TransferBit(uint16(value>>i) & 0x0001)
	}
	s.TransferBit(0)

	// chip is busy until the write completes
	test.Equate(t, s.ReceiveBit(), 0)
	s.StepBusy(10000)
	test.Equate(t, s.ReceiveBit(), 1)

	// read request to block 3: "11", 6 address bits, stop bit
	eepromSend(s, []uint16{1, 1})
	eepromSend(s, eepromAddressBits(3, 6))
	s.TransferBit(0)

	// four dummy bits then the 64 data bits
	for i := 0; i < 4; i++ {
		test.Equate(t, s.ReceiveBit(), 0)
	}
	var readback uint64
	for i := 0; i < 64; i++ {
		readback = readback<<1 | uint64(s.ReceiveBit())
	}
	test.Equate(t, readback, uint64(0x0123456789abcdef))
}
