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

// Package savefile persists the contents of a cartridge backup device
// between emulation sessions. Save images are stored in the application's
// resource directory, named after the cartridge.
//
// Loading and saving is deliberately not part of cartridge attachment.
// Regression and performance runs attach cartridges too and those runs must
// not be affected by whatever save files happen to be on disk.
package savefile

import (
	"io/ioutil"
	"os"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/logger"
	"github.com/jetsetilly/gopheradvance/paths"
)

const savePath = "saves"

func savePathForCart(cartload cartridgeloader.Loader) (string, error) {
	return paths.ResourcePath(savePath, cartload.ShortName()+".sav")
}

// Load reads a previously saved backup image for the named cartridge into
// the attached backup device. A missing save file is not an error.
func Load(gba *hardware.GBA, cartload cartridgeloader.Loader) error {
	dev := gba.Mem.GamePak.Backup
	if dev.Type() == backup.None {
		return nil
	}

	pth, err := savePathForCart(cartload)
	if err != nil {
		return curated.Errorf("savefile: %v", err)
	}

	data, err := ioutil.ReadFile(pth)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return curated.Errorf("savefile: %v", err)
	}

	if err := dev.Load(data); err != nil {
		return curated.Errorf("savefile: %v", err)
	}

	logger.Logf("savefile", "loaded %s", pth)

	return nil
}

// Save writes the contents of the attached backup device to disk. Does
// nothing if the cartridge has no backup device.
func Save(gba *hardware.GBA, cartload cartridgeloader.Loader) error {
	dev := gba.Mem.GamePak.Backup
	if dev.Type() == backup.None {
		return nil
	}

	data := dev.Data()
	if data == nil {
		return nil
	}

	pth, err := savePathForCart(cartload)
	if err != nil {
		return curated.Errorf("savefile: %v", err)
	}

	if err := ioutil.WriteFile(pth, data, 0600); err != nil {
		return curated.Errorf("savefile: %v", err)
	}

	logger.Logf("savefile", "saved %s", pth)

	return nil
}
