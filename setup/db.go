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

package setup

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
)

// Patch is a single word written over the ROM image before attachment.
type Patch struct {
	Address uint32
	Value   uint32
}

// Entry is the setup information for a single title.
type Entry struct {
	Name string

	// the save type to use in place of detection. ignored if HasSave is
	// false
	Save    backup.DeviceType
	HasSave bool

	Patches []Patch
}

// smA2Patches redirects the main loop's vblank watch address. The ISR
// writes a byte to 0x03002bd1 but the loop polls with LDRH, which needs
// the aligned address 0x03002bd0 to see the write in its lower half.
var smA2Patches = []Patch{
	{0x494, 0x03002bd0},
	{0x560, 0x03002bd0},
}

// entries is keyed by the four character game code at 0xac of the
// cartridge header.
var entries = map[string]Entry{
	"AMQE": {Name: "Super Mario Advance 2", Save: backup.EEPROM64K, HasSave: true, Patches: smA2Patches},
	"AMQP": {Name: "Super Mario Advance 2", Save: backup.EEPROM64K, HasSave: true, Patches: smA2Patches},
	"AMQJ": {Name: "Super Mario Advance 2", Save: backup.EEPROM64K, HasSave: true, Patches: smA2Patches},
	"AA2E": {Name: "Super Mario Advance 2 (alt)", Save: backup.EEPROM64K, HasSave: true, Patches: smA2Patches},

	"BDQE": {Name: "Donkey Kong Country", Save: backup.EEPROM64K, HasSave: true},
	"BDQP": {Name: "Donkey Kong Country", Save: backup.EEPROM64K, HasSave: true},
	"BDQJ": {Name: "Donkey Kong Country", Save: backup.EEPROM64K, HasSave: true},
	"A5NE": {Name: "Donkey Kong Country", Save: backup.EEPROM64K, HasSave: true},

	"AMAE": {Name: "Super Mario Advance", Save: backup.EEPROM64K, HasSave: true},
	"AMAP": {Name: "Super Mario Advance", Save: backup.EEPROM64K, HasSave: true},
	"AMAJ": {Name: "Super Mario Advance", Save: backup.EEPROM64K, HasSave: true},

	"BPRE": {Name: "Pokemon FireRed", Save: backup.Flash1M, HasSave: true},
	"BPGE": {Name: "Pokemon LeafGreen", Save: backup.Flash1M, HasSave: true},
	"AXVE": {Name: "Pokemon Ruby", Save: backup.Flash1M, HasSave: true},
	"AXPE": {Name: "Pokemon Sapphire", Save: backup.Flash1M, HasSave: true},
	"BPEE": {Name: "Pokemon Emerald", Save: backup.Flash1M, HasSave: true},
}

// Lookup the setup entry for a game code. The bool return is false if the
// database has nothing for the title.
func Lookup(gameCode string) (Entry, bool) {
	e, ok := entries[gameCode]
	return e, ok
}
