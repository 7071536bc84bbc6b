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

package memory

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
)

// GamePak is the cartridge side of the bus: the ROM image and whatever
// backup device the cartridge carries.
type GamePak struct {
	ROM    []byte
	Backup backup.Device
}

// NewGamePak assembles a cartridge from a ROM image and a backup device.
func NewGamePak(rom []byte, dev backup.Device) *GamePak {
	return &GamePak{
		ROM:    rom,
		Backup: dev,
	}
}

// eepromMapped decides whether a cartridge bus offset addresses the eeprom
// rather than ROM. The eeprom answers at the very top of the 0x0d segment.
// For cartridges of 16MB or less the whole segment is free and the eeprom
// answers anywhere in it.
func (g *GamePak) eepromMapped(offset uint32) bool {
	if _, ok := g.Backup.(backup.SerialDevice); !ok {
		return false
	}
	if offset < 0x01000000 {
		return false
	}
	if len(g.ROM) <= 0x01000000 {
		return true
	}
	return offset >= 0x01ffff00
}

// ReadROM returns the byte at the cartridge bus offset. A cartridge smaller
// than the 32MB addressing range repeats throughout it.
func (g *GamePak) ReadROM(offset uint32) uint8 {
	if len(g.ROM) == 0 {
		return 0
	}
	if serial, ok := g.Backup.(backup.SerialDevice); ok && g.eepromMapped(offset) {
		return uint8(serial.ReceiveBit())
	}
	return g.ROM[int(offset)%len(g.ROM)]
}

// ReadROM16 returns the halfword at the (aligned) cartridge bus offset. The
// cartridge bus is 16 bits wide so this is the native access.
func (g *GamePak) ReadROM16(offset uint32) uint16 {
	if serial, ok := g.Backup.(backup.SerialDevice); ok && g.eepromMapped(offset) {
		return serial.ReceiveBit()
	}
	if len(g.ROM) == 0 {
		return 0
	}
	i := int(offset) % len(g.ROM)
	if i+1 >= len(g.ROM) {
		return uint16(g.ROM[i])
	}
	return uint16(g.ROM[i]) | uint16(g.ROM[i+1])<<8
}

// WriteROM16 handles a halfword write to the cartridge bus. ROM ignores
// writes so the only device that can answer is the eeprom.
func (g *GamePak) WriteROM16(offset uint32, data uint16) {
	if serial, ok := g.Backup.(backup.SerialDevice); ok && g.eepromMapped(offset) {
		serial.TransferBit(data)
	}
}

// ReadSaveRAM returns the byte at the save RAM bus offset.
func (g *GamePak) ReadSaveRAM(offset uint32) (uint8, bool) {
	switch g.Backup.Type() {
	case backup.SRAM, backup.Flash512, backup.Flash1M:
		return g.Backup.Read(offset), true
	}
	return 0, false
}

// WriteSaveRAM handles a byte write to the save RAM bus.
func (g *GamePak) WriteSaveRAM(offset uint32, data uint8) {
	switch g.Backup.Type() {
	case backup.SRAM, backup.Flash512, backup.Flash1M:
		g.Backup.Write(offset, data)
	}
}

// Snapshot returns a copy of the mutable cartridge state. The ROM image is
// shared, not copied.
func (g *GamePak) Snapshot() *GamePak {
	return &GamePak{
		ROM:    g.ROM,
		Backup: g.Backup.Snapshot(),
	}
}
