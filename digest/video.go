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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
)

// RGBA, one byte per channel.
const pixelDepth = 4

// Video is an implementation of the ppu.Renderer interface. It generates a
// SHA-1 value from the image every frame. It does not display the image
// anywhere.
//
// Note that the use of SHA-1 is fine for this application because this is
// not a cryptographic task.
type Video struct {
	digest   [sha1.Size]byte
	buffer   []byte
	frameNum int
}

// NewVideo is the preferred method of initialisation for the Video type. The
// returned instance should be registered with the PPU with AddRenderer().
func NewVideo() *Video {
	dig := &Video{}

	// the head of the buffer contains the previous frame's digest value
	dig.buffer = make([]byte, sha1.Size+(ppu.HorizPixels*ppu.VertPixels*pixelDepth))

	return dig
}

// Hash implements the digest.Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the digest.Digest interface.
func (dig *Video) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	dig.frameNum = 0
}

// FrameNum returns the frame number of the most recently digested frame.
func (dig *Video) FrameNum() int {
	return dig.frameNum
}

// NewFrame implements the ppu.Renderer interface.
func (dig *Video) NewFrame(pixels []uint8, frameNum int) error {
	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the frame data
	copy(dig.buffer, dig.digest[:])

	n := copy(dig.buffer[sha1.Size:], pixels)
	if n != len(dig.buffer)-sha1.Size {
		return curated.Errorf("digest: video: unexpected frame size (%d)", len(pixels))
	}

	dig.digest = sha1.Sum(dig.buffer)
	dig.frameNum = frameNum

	return nil
}
