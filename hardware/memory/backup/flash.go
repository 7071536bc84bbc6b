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

// command phases for the flash state machine. every command is prefixed by
// the two byte unlock sequence 0xaa to 0x5555 and 0x55 to 0x2aaa.
type flashPhase int

const (
	flashReady flashPhase = iota
	flashUnlock1
	flashUnlock2
	flashErase
	flashEraseUnlock1
	flashEraseUnlock2
	flashProgram
	flashSetBank
)

// chip identities reported in ID mode. both sizes emulate Macronix parts.
const (
	flashMakerMacronix = 0xc2
	flashDevice512     = 0x1c
	flashDevice1M      = 0x09
)

// flash is a flash chip on the 8 bit save RAM bus. reads are plain memory
// reads (or chip identity in ID mode) but all writes go through a command
// state machine.
//
// the 1Mbit chip is twice the addressable space of the bus so it is split
// into two 64KB banks, selected with the bank command.
type flash struct {
	deviceType DeviceType
	data       []byte

	phase  flashPhase
	idMode bool
	bank   uint32
}

func newFlash(deviceType DeviceType) *flash {
	d := &flash{
		deviceType: deviceType,
		data:       make([]byte, deviceType.Size()),
	}
	erased(d.data)
	return d
}

func (d *flash) Type() DeviceType {
	return d.deviceType
}

func (d *flash) Read(address uint32) uint8 {
	address &= 0xffff

	if d.idMode {
		switch address {
		case 0x0000:
			return flashMakerMacronix
		case 0x0001:
			if d.deviceType == Flash1M {
				return flashDevice1M
			}
			return flashDevice512
		}
	}

	return d.data[d.bank|address]
}

func (d *flash) Write(address uint32, data uint8) {
	address &= 0xffff

	switch d.phase {
	case flashReady:
		if address == 0x5555 && data == 0xaa {
			d.phase = flashUnlock1
		}

	case flashUnlock1:
		if address == 0x2aaa && data == 0x55 {
			d.phase = flashUnlock2
		} else {
			d.phase = flashReady
		}

	case flashUnlock2:
		d.phase = flashReady
		if address == 0x5555 {
			switch data {
			case 0x90:
				d.idMode = true
			case 0xf0:
				d.idMode = false
			case 0x80:
				d.phase = flashErase
			case 0xa0:
				d.phase = flashProgram
			case 0xb0:
				if d.deviceType == Flash1M {
					d.phase = flashSetBank
				}
			default:
				logger.Logf("flash", "unrecognised command %#02x", data)
			}
		}

	case flashErase:
		if address == 0x5555 && data == 0xaa {
			d.phase = flashEraseUnlock1
		} else {
			d.phase = flashReady
		}

	case flashEraseUnlock1:
		if address == 0x2aaa && data == 0x55 {
			d.phase = flashEraseUnlock2
		} else {
			d.phase = flashReady
		}

	case flashEraseUnlock2:
		d.phase = flashReady
		switch {
		case address == 0x5555 && data == 0x10:
			// chip erase
			erased(d.data)
		case data == 0x30:
			// 4KB sector erase
			sector := d.bank | (address & 0xf000)
			erased(d.data[sector : sector+0x1000])
		}

	case flashProgram:
		// programming can only clear bits but treating it as a plain store
		// matches what software expects after an erase
		d.data[d.bank|address] = data
		d.phase = flashReady

	case flashSetBank:
		if address == 0x0000 {
			d.bank = uint32(data&0x01) << 16
		}
		d.phase = flashReady
	}
}

func (d *flash) Data() []byte {
	return d.data
}

func (d *flash) Load(data []byte) error {
	return load(d.data, data)
}

func (d *flash) Snapshot() Device {
	n := *d
	n.data = make([]byte, len(d.data))
	copy(n.data, d.data)
	return &n
}
