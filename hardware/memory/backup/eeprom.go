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

package backup

import (
	"github.com/jetsetilly/gopheradvance/logger"
)

// SerialDevice is the interface to backup devices that sit on the 16 bit
// cartridge bus rather than the 8 bit save RAM bus. One bit is transferred
// per bus access, in bit 0 of the data.
type SerialDevice interface {
	Device

	TransferBit(data uint16)
	ReceiveBit() uint16

	// StepBusy advances the post-write busy timer
	StepBusy(cycles int)

	// ObserveTransferLength gives the device the length of a DMA transfer
	// directed at it, from which an eeprom of unconfirmed size can deduce
	// its address width
	ObserveTransferLength(length int)

	// LockSize fixes the device size, preventing automatic resizing
	LockSize()
}

// phases of the eeprom protocol
type eepromPhase int

const (
	eepromCommand eepromPhase = iota
	eepromReadAddress
	eepromReadStop
	eepromReading
	eepromWriteAddress
	eepromWriteData
	eepromWriteStop
)

// a write leaves the chip busy for a while. software polls the chip until it
// reads a 1. the precise duration doesn't matter, only that it terminates
// quickly in wall-clock terms while still exercising the polling loop.
const eepromBusyCycles = 2000

// eeprom is a serial EEPROM addressed in 8 byte blocks. the 4kbit chip has
// 64 blocks behind a 6 bit block address, the 64kbit chip 1024 blocks behind
// a 14 bit address (of which only the low 10 bits are significant).
//
// a transaction starts with two command bits, 1-1 for read and 1-0 for
// write, followed by the block address and, for a write, 64 data bits. each
// is terminated by a single stop bit. replying to a read request the chip
// sends 4 dummy bits followed by the 64 data bits.
type eeprom struct {
	deviceType DeviceType
	data       []byte

	// number of bits in a block address. the distilled form of deviceType
	addressBits int

	// whether the device size has been fixed. an eeprom created with an
	// unconfirmed size will resize itself on the first transaction that
	// doesn't fit (see the commentary in TransferBit)
	sizeLocked bool

	phase   eepromPhase
	shift   uint64
	count   int
	address uint32
	busy    int
}

func newEEPROM(deviceType DeviceType) *eeprom {
	d := &eeprom{}
	d.resize(deviceType)
	erased(d.data)
	return d
}

func (d *eeprom) resize(deviceType DeviceType) {
	d.deviceType = deviceType
	if deviceType == EEPROM64K {
		d.addressBits = 14
	} else {
		d.addressBits = 6
	}

	data := make([]byte, deviceType.Size())
	erased(data)
	copy(data, d.data)
	d.data = data
}

// LockSize fixes the device size, preventing automatic resizing.
func (d *eeprom) LockSize() {
	d.sizeLocked = true
}

// ObserveTransferLength resizes the device based on the length of a DMA
// transfer to the eeprom region. a read request is 9 bus accesses for the
// 4kbit chip (2 command bits, 6 address bits, 1 stop bit) and 17 for the
// 64kbit chip (2 command bits, 14 address bits, 1 stop bit).
func (d *eeprom) ObserveTransferLength(length int) {
	if d.sizeLocked {
		return
	}

	switch length {
	case 9:
		if d.deviceType != EEPROM4K {
			logger.Log("eeprom", "resizing to 4kbit from observed transfer length")
			d.resize(EEPROM4K)
		}
	case 17:
		if d.deviceType != EEPROM64K {
			logger.Log("eeprom", "resizing to 64kbit from observed transfer length")
			d.resize(EEPROM64K)
		}
	}
	d.sizeLocked = true
}

func (d *eeprom) Type() DeviceType {
	return d.deviceType
}

// Read implements the Device interface. the eeprom is not on the save RAM
// bus so there is nothing to return except open bus.
func (d *eeprom) Read(_ uint32) uint8 {
	return 0xff
}

// Write implements the Device interface. the eeprom is not on the save RAM
// bus so the write is lost.
func (d *eeprom) Write(_ uint32, _ uint8) {
}

// TransferBit accepts one bit of the serial protocol, in bit 0 of data.
func (d *eeprom) TransferBit(data uint16) {
	bit := uint64(data & 0x0001)

	switch d.phase {
	case eepromCommand:
		d.shift = d.shift<<1 | bit
		d.count++
		if d.count == 2 {
			switch d.shift {
			case 0b11:
				d.phase = eepromReadAddress
			case 0b10:
				d.phase = eepromWriteAddress
			default:
				logger.Logf("eeprom", "unrecognised command %02b", d.shift)
			}
			d.shift = 0
			d.count = 0
		}

	case eepromReadAddress:
		d.shift = d.shift<<1 | bit
		d.count++
		if d.count == d.addressBits {
			d.address = d.blockAddress(d.shift)
			d.shift = 0
			d.count = 0
			d.phase = eepromReadStop
		}

	case eepromReadStop:
		// stop bit. load the 64 bit block ready for reading
		d.shift = 0
		for i := 0; i < 8; i++ {
			d.shift = d.shift<<8 | uint64(d.data[d.address+uint32(i)])
		}
		d.count = 0
		d.phase = eepromReading

	case eepromWriteAddress:
		d.shift = d.shift<<1 | bit
		d.count++
		if d.count == d.addressBits {
			d.address = d.blockAddress(d.shift)
			d.shift = 0
			d.count = 0
			d.phase = eepromWriteData
		}

	case eepromWriteData:
		d.shift = d.shift<<1 | bit
		d.count++
		if d.count == 64 {
			d.count = 0
			d.phase = eepromWriteStop
		}

	case eepromWriteStop:
		// stop bit. commit the 64 bit block and go busy
		for i := 7; i >= 0; i-- {
			d.data[d.address+uint32(i)] = uint8(d.shift)
			d.shift >>= 8
		}
		d.shift = 0
		d.busy = eepromBusyCycles
		d.phase = eepromCommand

	case eepromReading:
		// a write during the read phase abandons the read and starts a new
		// transaction
		d.phase = eepromCommand
		d.shift = 0
		d.count = 0
		d.TransferBit(data)
	}
}

// ReceiveBit returns one bit of the serial protocol, in bit 0.
func (d *eeprom) ReceiveBit() uint16 {
	if d.busy > 0 {
		return 0
	}

	if d.phase == eepromReading {
		d.count++

		// four dummy bits before the data
		if d.count <= 4 {
			return 0
		}

		bit := uint16(d.shift>>63) & 0x0001
		d.shift <<= 1

		if d.count == 68 {
			d.phase = eepromCommand
			d.shift = 0
			d.count = 0
		}
		return bit
	}

	// an idle chip reads as ready
	return 1
}

// StepBusy advances the post-write busy timer.
func (d *eeprom) StepBusy(cycles int) {
	if d.busy > 0 {
		d.busy -= cycles
		if d.busy < 0 {
			d.busy = 0
		}
	}
}

// blockAddress converts a block number from the serial stream to a byte
// offset into the data array.
func (d *eeprom) blockAddress(block uint64) uint32 {
	a := uint32(block) * 8
	return a & uint32(len(d.data)-1)
}

func (d *eeprom) Data() []byte {
	return d.data
}

func (d *eeprom) Load(data []byte) error {
	return load(d.data, data)
}

func (d *eeprom) Snapshot() Device {
	n := *d
	n.data = make([]byte, len(d.data))
	copy(n.data, d.data)
	return &n
}
