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

package regression

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/database"
	"github.com/jetsetilly/gopheradvance/digest"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/setup"
)

const frameEntryID = "frame"

const (
	frameFieldCartName int = iota
	frameFieldNumFrames
	frameFieldMode
	frameFieldDigest
	numFrameFields
)

// FrameRegression runs a cartridge for a fixed number of frames and
// compares a digest of the emulator output against a previously recorded
// value.
type FrameRegression struct {
	CartridgeFile string
	NumFrames     int
	Mode          DigestMode
	digest        string
}

func deserialiseFrameEntry(fields []string) (database.Entry, error) {
	reg := &FrameRegression{}

	if len(fields) != numFrameFields {
		return nil, curated.Errorf("frame: wrong number of fields (%d)", len(fields))
	}

	reg.CartridgeFile = fields[frameFieldCartName]
	reg.digest = fields[frameFieldDigest]

	var err error

	reg.NumFrames, err = strconv.Atoi(fields[frameFieldNumFrames])
	if err != nil {
		return nil, curated.Errorf("frame: invalid numFrames field (%s)", fields[frameFieldNumFrames])
	}

	reg.Mode, err = ParseDigestMode(fields[frameFieldMode])
	if err != nil {
		return nil, curated.Errorf("frame: %v", err)
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg FrameRegression) ID() string {
	return frameEntryID
}

// String implements the database.Entry interface.
func (reg FrameRegression) String() string {
	return fmt.Sprintf("[%s] %s frames=%d [%s]", reg.ID(),
		cartridgeloader.NewLoader(reg.CartridgeFile).ShortName(),
		reg.NumFrames, reg.Mode)
}

// Serialise implements the database.Entry interface.
func (reg *FrameRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		reg.CartridgeFile,
		strconv.Itoa(reg.NumFrames),
		reg.Mode.String(),
		reg.digest,
	}, nil
}

// CleanUp implements the database.Entry interface.
func (reg FrameRegression) CleanUp() error {
	return nil
}

func (reg *FrameRegression) regress(newRegression bool, output io.Writer, msg string) (bool, error) {
	output.Write([]byte(msg))

	gba := hardware.NewGBA()

	var digVideo *digest.Video
	var digAudio *digest.Audio

	if reg.Mode == DigestVideoOnly || reg.Mode == DigestBoth {
		digVideo = digest.NewVideo()
		gba.PPU.AddRenderer(digVideo)
	}

	if reg.Mode == DigestAudioOnly || reg.Mode == DigestBoth {
		digAudio = digest.NewAudio()
	}

	cartload := cartridgeloader.NewLoader(reg.CartridgeFile)

	err := setup.AttachCartridge(gba, cartload)
	if err != nil {
		return false, curated.Errorf("frame: %v", err)
	}

	samples := make([]int16, 2048)

	startFrame := gba.PPU.FrameNum()
	for gba.PPU.FrameNum() < startFrame+reg.NumFrames {
		gba.Step()

		if digAudio != nil {
			n := gba.AudioSamples(samples)
			if err := digAudio.Write(samples[:n]); err != nil {
				return false, curated.Errorf("frame: %v", err)
			}
		}
	}

	hash := reg.hash(digVideo, digAudio)

	if newRegression {
		reg.digest = hash
		return true, nil
	}

	return hash == reg.digest, nil
}

func (reg FrameRegression) hash(v *digest.Video, a *digest.Audio) string {
	switch reg.Mode {
	case DigestVideoOnly:
		return v.Hash()
	case DigestAudioOnly:
		return a.Hash()
	case DigestBoth:
		return fmt.Sprintf("%s/%s", v.Hash(), a.Hash())
	}
	return ""
}
