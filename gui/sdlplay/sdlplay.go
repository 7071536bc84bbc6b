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

// Package sdlplay is a simple SDL screen for playing games. The emulated
// display is presented in a window, the keyboard is mapped onto the
// keypad and emulated audio is queued to the default audio device.
//
// All SDL activity must happen on the same goroutine, including the call
// to NewSdlPlay().
package sdlplay

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
)

const windowTitle = "GopherAdvance"

const pixelDepth = 4

// SdlPlay is the SDL implementation of the ppu.Renderer interface.
type SdlPlay struct {
	gba *hardware.GBA

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	snd *sound

	// limit presentation to the real console's frame rate
	lmtr   *time.Ticker
	fpsCap bool

	// set by NewFrame(), consumed by ServiceRequired()
	frameReady bool

	// receives a copy of every drained audio sample. used for wav
	// recording
	audioTap func(samples []int16) error

	quit bool
}

// NewSdlPlay is the preferred method of initialisation for the SdlPlay
// type. The returned value is registered with the machine's PPU as a
// renderer.
func NewSdlPlay(gba *hardware.GBA, scale float32) (*SdlPlay, error) {
	if scale <= 0 {
		scale = 2.0
	}

	scr := &SdlPlay{
		gba:    gba,
		fpsCap: true,
	}

	err := sdl.Init(uint32(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS))
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	w := int32(float32(ppu.HorizPixels) * scale)
	h := int32(float32(ppu.VertPixels) * scale)

	scr.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		w, h,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	scr.renderer, err = sdl.CreateRenderer(scr.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	err = scr.renderer.SetScale(scale, scale)
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	scr.texture, err = scr.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		ppu.HorizPixels, ppu.VertPixels)
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	scr.snd, err = newSound()
	if err != nil {
		return nil, curated.Errorf("sdlplay: %v", err)
	}

	frameDur := time.Duration(int64(time.Second) * ppu.ClksFrame / hardware.ClkFreq)
	scr.lmtr = time.NewTicker(frameDur)

	setupService()

	gba.PPU.AddRenderer(scr)

	return scr, nil
}

// NewFrame implements the ppu.Renderer interface.
func (scr *SdlPlay) NewFrame(pixels []uint8, frameNum int) error {
	err := scr.texture.Update(nil, pixels, ppu.HorizPixels*pixelDepth)
	if err != nil {
		return curated.Errorf("sdlplay: %v", err)
	}

	err = scr.renderer.Copy(scr.texture, nil, nil)
	if err != nil {
		return curated.Errorf("sdlplay: %v", err)
	}

	scr.renderer.Present()

	scr.frameReady = true

	return nil
}

// ServiceRequired returns true once per completed frame. The caller
// should respond with a call to Service().
func (scr *SdlPlay) ServiceRequired() bool {
	if !scr.frameReady {
		return false
	}
	scr.frameReady = false
	return true
}

// AddAudioTap registers a function that receives every audio sample
// drained from the emulation.
func (scr *SdlPlay) AddAudioTap(tap func(samples []int16) error) {
	scr.audioTap = tap
}

// SetFpsCap turns the frame limiter on or off.
func (scr *SdlPlay) SetFpsCap(cap bool) {
	scr.fpsCap = cap
}

// Quit returns true once the user has asked for the window to close.
func (scr *SdlPlay) Quit() bool {
	return scr.quit
}

// Destroy releases all SDL resources.
func (scr *SdlPlay) Destroy() {
	scr.snd.destroy()
	scr.texture.Destroy()
	scr.renderer.Destroy()
	scr.window.Destroy()
	sdl.Quit()
}
