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
	"bytes"

	"github.com/jetsetilly/gopheradvance/logger"
)

// library identity strings embedded in ROMs built with the official SDK. the
// linker places them at word aligned addresses.
var (
	markerEEPROM   = []byte("EEPROM_V")
	markerSRAM     = []byte("SRAM_V")
	markerFlash1M  = []byte("FLASH1M_V")
	markerFlash512 = []byte("FLASH512_V")
	markerFlash    = []byte("FLASH_V")
)

// Detect scans a ROM image for evidence of which backup device the cartridge
// carries. The returned bool indicates whether the detected type should be
// considered definite. An unconfirmed EEPROM type may later be resized from
// the length of an observed DMA transfer.
//
// Detection relies on the identity strings the official SDK save libraries
// embed in the ROM. A cartridge built without those libraries gives no
// signal, in which case SRAM is assumed (harmless if unused) and the result
// marked not definite.
func Detect(rom []byte) (DeviceType, bool) {
	if containsMarker(rom, markerEEPROM) {
		// the V111 library revision was only ever paired with the 4kbit
		// chip. for later revisions the chip size has to be inferred from
		// how the ROM drives the device
		if containsMarker(rom, []byte("EEPROM_V111")) {
			logger.Log("backup", "EEPROM_V111 marker found, assuming 4kbit chip")
			return EEPROM4K, true
		}

		t, definite := detectEEPROMSize(rom)
		logger.Logf("backup", "EEPROM marker found, %s (definite: %v)", t, definite)
		return t, definite
	}

	if containsMarker(rom, markerSRAM) {
		logger.Log("backup", "SRAM marker found")
		return SRAM, true
	}

	if containsMarker(rom, markerFlash1M) {
		logger.Log("backup", "FLASH1M marker found")
		return Flash1M, true
	}

	if containsMarker(rom, markerFlash512) || containsMarker(rom, markerFlash) {
		logger.Log("backup", "FLASH512 marker found")
		return Flash512, true
	}

	logger.Log("backup", "no backup marker found, assuming SRAM")
	return SRAM, false
}

// containsMarker looks for the marker at word aligned offsets.
func containsMarker(rom []byte, marker []byte) bool {
	for i := 0; i+len(marker) <= len(rom); i += 4 {
		if bytes.Equal(rom[i:i+len(marker)], marker) {
			return true
		}
	}
	return false
}

// detectEEPROMSize scans the ROM code for the DMA transfer lengths used to
// drive the eeprom. a read request is 9 bus accesses for the 4kbit chip and
// 17 for the 64kbit chip, and these appear in the ROM as immediate values
// loaded into the DMA count register. the heuristic looks for the 32 bit
// words 9 and 17 which is crude but effective in practice.
func detectEEPROMSize(rom []byte) (DeviceType, bool) {
	var count9, count17 int

	for i := 0; i+4 <= len(rom); i += 4 {
		v := uint32(rom[i]) | uint32(rom[i+1])<<8 | uint32(rom[i+2])<<16 | uint32(rom[i+3])<<24
		switch v {
		case 9:
			count9++
		case 17:
			count17++
		}
	}

	if count17 > count9 {
		return EEPROM64K, true
	}
	if count9 > count17 {
		return EEPROM4K, true
	}

	// no signal either way. default to the larger chip but leave it open to
	// revision when the ROM first drives the device
	return EEPROM64K, false
}
