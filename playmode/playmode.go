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

// Package playmode runs the emulation for playing games - without any
// debugging features.
package playmode

import (
	"os"
	"os/signal"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/cheats"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/gui/sdlplay"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/logger"
	"github.com/jetsetilly/gopheradvance/savefile"
	"github.com/jetsetilly/gopheradvance/setup"
	"github.com/jetsetilly/gopheradvance/wavwriter"
)

// Options for the Play() function.
type Options struct {
	// window scaling factor. a zero value selects the default
	Scale float32

	// run at full speed, useful for benchmarking
	NoFpsCap bool

	// record all audio to the named wav file
	Wav string

	// cheat codes to apply from the first frame
	Cheats []string
}

// Play sets the emulation running with an SDL window and keyboard input.
// The function returns when the user closes the window, presses escape,
// or interrupts the process.
func Play(cartload cartridgeloader.Loader, opts Options) error {
	gba := hardware.NewGBA()

	scr, err := sdlplay.NewSdlPlay(gba, opts.Scale)
	if err != nil {
		return curated.Errorf("playmode: %v", err)
	}
	defer scr.Destroy()
	scr.SetFpsCap(!opts.NoFpsCap)

	cht := cheats.NewManager(gba)
	for _, code := range opts.Cheats {
		if cht.AddCheat(code, code) == 0 {
			logger.Logf("playmode", "cheat code not recognised (%s)", code)
		}
	}

	if opts.Wav != "" {
		ww, err := wavwriter.New(opts.Wav)
		if err != nil {
			return curated.Errorf("playmode: %v", err)
		}
		defer func() {
			if err := ww.EndMixing(); err != nil {
				logger.Logf("playmode", "%v", err)
			}
		}()
		scr.AddAudioTap(ww.Write)
	}

	// attaching the cartridge after the renderers have been registered.
	// renderer registrations survive the reset that follows attachment
	err = setup.AttachCartridge(gba, cartload)
	if err != nil {
		return curated.Errorf("playmode: %v", err)
	}

	// restore any previous save for this cartridge and write the backup
	// device back to disk when the session ends
	if err := savefile.Load(gba, cartload); err != nil {
		logger.Logf("playmode", "%v", err)
	}
	defer func() {
		if err := savefile.Save(gba, cartload); err != nil {
			logger.Logf("playmode", "%v", err)
		}
	}()

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	done := false
	for !done {
		gba.Step()

		if scr.ServiceRequired() {
			scr.Service()
			done = scr.Quit()

			select {
			case <-intChan:
				done = true
			default:
			}
		}
	}

	return nil
}
