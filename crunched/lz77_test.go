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

package crunched_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/gopheradvance/crunched"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestLZ77_literals(t *testing.T) {
	// eight literal bytes under a zero flag byte
	src := []byte{
		0x10, 0x08, 0x00, 0x00,
		0x00,
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h',
	}

	dst, err := crunched.DecompressLZ77(src)
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(dst), "abcdefgh")
}

func TestLZ77_backReference(t *testing.T) {
	// three literals then a back-reference that repeats them three times.
	// disp of 2 with an overlapping copy of length 9
	src := []byte{
		0x10, 0x0c, 0x00, 0x00,
		0x10,
		'x', 'y', 'z',
		0x60, 0x02,
	}

	dst, err := crunched.DecompressLZ77(src)
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(dst), "xyzxyzxyzxyz")
}

func TestLZ77_repeatedByte(t *testing.T) {
	// the overlapping disp=0 reference is the classic run-length encoding of
	// a single repeated byte
	src := []byte{
		0x10, 0x10, 0x00, 0x00,
		0x40,
		0xaa,
		0xc0, 0x00,
	}

	dst, err := crunched.DecompressLZ77(src)
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, bytes.Equal(dst, bytes.Repeat([]byte{0xaa}, 16)))
}

func TestLZ77_badStreams(t *testing.T) {
	_, err := crunched.DecompressLZ77([]byte{0x10, 0x01})
	test.ExpectedFailure(t, err)

	// wrong compression type in the header
	_, err = crunched.DecompressLZ77([]byte{0x20, 0x01, 0x00, 0x00, 0x00, 'a'})
	test.ExpectedFailure(t, err)

	// displacement that reaches before the start of the stream
	_, err = crunched.DecompressLZ77([]byte{0x10, 0x08, 0x00, 0x00, 0x80, 0x30, 0x10})
	test.ExpectedFailure(t, err)
}
