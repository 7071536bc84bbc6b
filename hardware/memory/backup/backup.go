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

// Package backup implements the non-volatile storage devices found in
// cartridges. Three families of device exist: plain battery backed SRAM,
// flash chips behind a command state machine, and serial EEPROMs addressed a
// bit at a time through the upper cartridge ROM segment.
//
// Which family a cartridge uses is not recorded anywhere in the ROM header.
// The Detect() function applies the heuristics described in that function's
// commentary to decide.
package backup

import (
	"bytes"

	"github.com/jetsetilly/gopheradvance/curated"
)

// DeviceType distinguishes the backup storage families and their sizes.
type DeviceType int

// The list of valid DeviceType values.
const (
	None DeviceType = iota
	SRAM
	EEPROM4K
	EEPROM64K
	Flash512
	Flash1M
)

func (t DeviceType) String() string {
	switch t {
	case SRAM:
		return "SRAM"
	case EEPROM4K:
		return "EEPROM 4kbit"
	case EEPROM64K:
		return "EEPROM 64kbit"
	case Flash512:
		return "Flash 512kbit"
	case Flash1M:
		return "Flash 1Mbit"
	}
	return "none"
}

// Size returns the size in bytes of the device's storage.
func (t DeviceType) Size() int {
	switch t {
	case SRAM:
		return 0x8000
	case EEPROM4K:
		return 0x200
	case EEPROM64K:
		return 0x2000
	case Flash512:
		return 0x10000
	case Flash1M:
		return 0x20000
	}
	return 0
}

// Device is the interface to all backup storage implementations.
//
// Read and Write operate on the 8 bit save RAM bus at 0x0e000000. EEPROM
// devices are not on that bus at all; they implement the extended
// SerialDevice interface and ignore Read/Write.
type Device interface {
	Type() DeviceType

	Read(address uint32) uint8
	Write(address uint32, data uint8)

	// Data exposes the underlying storage. The slice is the device's live
	// memory, not a copy
	Data() []byte

	// Load replaces the device contents with a previously saved image
	Load(data []byte) error

	// Snapshot returns a deep copy of the device for rewind purposes
	Snapshot() Device
}

// NewDevice creates a backup device of the given type. A device of type None
// is valid and ignores all access.
func NewDevice(deviceType DeviceType) Device {
	switch deviceType {
	case SRAM:
		return newSRAM()
	case EEPROM4K, EEPROM64K:
		return newEEPROM(deviceType)
	case Flash512, Flash1M:
		return newFlash(deviceType)
	}
	return &none{}
}

// load is the common implementation of Device.Load.
//
// an image consisting entirely of zero bytes is treated as an empty save and
// the device is wiped to the erased state of 0xff instead. some save tools
// emit zero filled files for new games and flash software in particular
// treats a zero byte as already-programmed, bricking the save.
func load(storage []byte, data []byte) error {
	if len(data) != len(storage) {
		return curated.Errorf("backup: save image is %d bytes, device is %d bytes", len(data), len(storage))
	}

	if len(bytes.Trim(data, "\x00")) == 0 {
		for i := range storage {
			storage[i] = 0xff
		}
		return nil
	}

	copy(storage, data)
	return nil
}

// erased fills storage with the erased state of 0xff.
func erased(storage []byte) {
	for i := range storage {
		storage[i] = 0xff
	}
}

// none is the backup device used when a cartridge has no backup hardware.
type none struct{}

func (d *none) Type() DeviceType        { return None }
func (d *none) Read(_ uint32) uint8     { return 0xff }
func (d *none) Write(_ uint32, _ uint8) {}
func (d *none) Data() []byte            { return nil }
func (d *none) Snapshot() Device        { return &none{} }

func (d *none) Load(_ []byte) error {
	return curated.Errorf("backup: cartridge has no backup device")
}
