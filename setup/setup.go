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
	"encoding/binary"
	"strings"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/logger"
)

// some reissues carry their game code at this non-standard offset while
// the usual field holds something else
const altGameCode = 0xb6

// AttachCartridge to the console, applying any setup information known for
// the title. Cartridges without a database entry are attached exactly as
// hardware.AttachCartridge would.
func AttachCartridge(gba *hardware.GBA, cartload cartridgeloader.Loader) error {
	err := cartload.Load()
	if err != nil {
		return curated.Errorf("setup: %v", err)
	}

	entry, ok := Lookup(cartload.GameCode)
	if !ok && len(cartload.Data) >= altGameCode+4 {
		alt := strings.TrimRight(string(cartload.Data[altGameCode:altGameCode+4]), "\x00 ")
		entry, ok = Lookup(alt)
	}

	if !ok {
		return gba.AttachCartridge(cartload)
	}

	logger.Logf("setup", "%s: applying overrides", entry.Name)

	for _, p := range entry.Patches {
		if int(p.Address)+4 > len(cartload.Data) {
			return curated.Errorf("setup: patch address %08x outside ROM", p.Address)
		}
		binary.LittleEndian.PutUint32(cartload.Data[p.Address:], p.Value)
	}

	if !entry.HasSave {
		return gba.AttachCartridge(cartload)
	}

	logger.Logf("setup", "%s: save type %s", entry.Name, entry.Save)

	device := backup.NewDevice(entry.Save)
	if e, ok := device.(backup.SerialDevice); ok {
		e.LockSize()
	}

	return gba.AttachCartridgeWithDevice(cartload, device)
}
