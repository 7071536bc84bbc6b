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

package sdlplay

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gopheradvance/hardware/input"
)

// the keyboard to keypad mapping. the shoulder buttons sit on A and S
// which is comfortable on most keyboards.
var keyMap = map[sdl.Keycode]input.Key{
	sdl.K_z:      input.KeyA,
	sdl.K_x:      input.KeyB,
	sdl.K_RETURN: input.KeyStart,
	sdl.K_RSHIFT: input.KeySelect,
	sdl.K_UP:     input.KeyUp,
	sdl.K_DOWN:   input.KeyDown,
	sdl.K_LEFT:   input.KeyLeft,
	sdl.K_RIGHT:  input.KeyRight,
	sdl.K_a:      input.KeyL,
	sdl.K_s:      input.KeyR,
}

func setupService() {
	// mouse motion events fill the queue quickly and we have no use for
	// them
	sdl.EventState(sdl.MOUSEMOTION, sdl.IGNORE)
}

// Service the SDL event queue. Called once per frame by the play loop.
//
// MUST ONLY be called from the same goroutine as NewSdlPlay().
func (scr *SdlPlay) Service() {
	empty := false
	for !empty {
		// timing out straight away if there is nothing in the queue
		ev := sdl.WaitEventTimeout(1)

		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			scr.quit = true

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				break // switch
			}

			if ev.Keysym.Sym == sdl.K_ESCAPE {
				if ev.Type == sdl.KEYDOWN {
					scr.quit = true
				}
				break // switch
			}

			if key, ok := keyMap[ev.Keysym.Sym]; ok {
				scr.gba.Keypad.Set(key, ev.Type == sdl.KEYDOWN)
			}

		case nil:
			// WaitEventTimeout has timed out so the queue is empty
			empty = true
		}
	}

	// queue this frame's audio
	n := scr.gba.AudioSamples(scr.snd.samples)
	_ = scr.snd.queue(n)
	if scr.audioTap != nil {
		_ = scr.audioTap(scr.snd.samples[:n])
	}

	if scr.fpsCap {
		<-scr.lmtr.C
	}
}
