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
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gopheradvance/hardware/apu"
)

// the audio device buffer in sample frames. small enough to keep latency
// down, large enough that the device does not starve between frames
const bufferLength = 512

// enough space for the samples of a single frame. the mixer produces a
// little over 548 stereo frames per video frame
const frameSamples = 1100

type sound struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// staging buffer for samples drained from the emulation
	samples []int16
}

func newSound() (*sound, error) {
	snd := &sound{
		samples: make([]int16, frameSamples),
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(apu.SampleFreq),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 2,
		Samples:  uint16(bufferLength),
	}

	var err error
	var actualSpec sdl.AudioSpec

	snd.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, err
	}
	snd.spec = actualSpec

	sdl.PauseAudioDevice(snd.id, false)

	return snd, nil
}

// queue sends the first n entries of the staging buffer to the audio
// device.
func (snd *sound) queue(n int) error {
	if n == 0 {
		return nil
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(&snd.samples[0])), n*2)
	return sdl.QueueAudio(snd.id, b)
}

func (snd *sound) destroy() {
	sdl.CloseAudioDevice(snd.id)
}
