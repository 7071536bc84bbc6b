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

package setup_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/setup"
	"github.com/jetsetilly/gopheradvance/test"
)

func buildROM(gameCode string) []byte {
	rom := make([]byte, 0x1000)
	copy(rom[0xa0:], "SETUPTEST")
	copy(rom[0xac:], gameCode)
	return rom
}

func TestSetup_saveOverride(t *testing.T) {
	gba := hardware.NewGBA()

	// Pokemon Emerald. detection finds nothing in a blank ROM but the
	// database knows the title uses 1Mbit flash
	err := setup.AttachCartridge(gba, cartridgeloader.Loader{
		Filename: "emerald.gba",
		Data:     buildROM("BPEE"),
	})
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(gba.Mem.GamePak.Backup.Type()), int(backup.Flash1M))
}

func TestSetup_romPatches(t *testing.T) {
	gba := hardware.NewGBA()

	err := setup.AttachCartridge(gba, cartridgeloader.Loader{
		Filename: "sma2.gba",
		Data:     buildROM("AMQE"),
	})
	test.ExpectedSuccess(t, err)

	// the patched literal pool entries read back from the ROM bus
	v, _ := gba.Mem.Read32(0x08000494)
	test.Equate(t, v, uint32(0x03002bd0))
	v, _ = gba.Mem.Read32(0x08000560)
	test.Equate(t, v, uint32(0x03002bd0))
	test.Equate(t, int(gba.Mem.GamePak.Backup.Type()), int(backup.EEPROM64K))
}

func TestSetup_alternateHeaderOffset(t *testing.T) {
	gba := hardware.NewGBA()

	// game code blank at 0xac but present at the non-standard offset
	rom := buildROM("    ")
	copy(rom[0xb6:], "AMQE")

	err := setup.AttachCartridge(gba, cartridgeloader.Loader{
		Filename: "sma2-alt.gba",
		Data:     rom,
	})
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(gba.Mem.GamePak.Backup.Type()), int(backup.EEPROM64K))
}

func TestSetup_unknownTitleUntouched(t *testing.T) {
	gba := hardware.NewGBA()

	rom := buildROM("ZZZE")
	copy(rom[0x100:], "SRAM_V110")

	err := setup.AttachCartridge(gba, cartridgeloader.Loader{
		Filename: "unknown.gba",
		Data:     rom,
	})
	test.ExpectedSuccess(t, err)

	// normal detection applies
	test.Equate(t, int(gba.Mem.GamePak.Backup.Type()), int(backup.SRAM))
}
