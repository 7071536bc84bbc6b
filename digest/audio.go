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
)

// to allow us to create digests on audio streams longer than the buffer, we
// stuff the previous digest value into the head of the buffer and make sure
// we include it when we create the next digest value
const audioBufferStart = sha1.Size

// the length of the buffer isn't really important but it must leave an even
// number of bytes after the chained digest, two bytes per sample
const audioBufferLength = audioBufferStart + 4096

// Audio computes a chained SHA-1 value from a stream of audio samples. The
// Write function is suitable for use as an audio tap.
type Audio struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	dig := &Audio{}
	dig.buffer = make([]uint8, audioBufferLength)
	dig.bufferCt = audioBufferStart
	return dig
}

// Hash implements the digest.Digest interface.
func (dig *Audio) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the digest.Digest interface.
func (dig *Audio) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	dig.bufferCt = audioBufferStart
}

// Write digests the supplied samples, flushing the buffer as necessary.
func (dig *Audio) Write(samples []int16) error {
	for _, s := range samples {
		dig.buffer[dig.bufferCt] = uint8(s)
		dig.buffer[dig.bufferCt+1] = uint8(s >> 8)
		dig.bufferCt += 2

		if dig.bufferCt >= audioBufferLength {
			dig.flush()
		}
	}
	return nil
}

func (dig *Audio) flush() {
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = audioBufferStart
}
