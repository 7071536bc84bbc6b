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

package crunched

import (
	"github.com/jetsetilly/gopheradvance/curated"
)

// LZ77Type is the value of the type nibble in an LZ77 stream header.
const LZ77Type = 0x01

// LZ77Header describes the four byte header at the start of an LZ77 stream.
// The low nibble of the first byte is reserved, the high nibble is the
// compression type and the remaining three bytes are the uncompressed size in
// little-endian order.
type LZ77Header struct {
	Type int
	Size int
}

// ReadLZ77Header decodes the four byte header at the start of src.
func ReadLZ77Header(src []byte) (LZ77Header, error) {
	if len(src) < 4 {
		return LZ77Header{}, curated.Errorf("lz77: header is short")
	}
	return LZ77Header{
		Type: int(src[0] >> 4),
		Size: int(src[1]) | int(src[2])<<8 | int(src[3])<<16,
	}, nil
}

// DecompressLZ77 expands the LZ77 stream in src. The four byte header must be
// present at the start of src.
//
// The stream format is the one consumed by the system software decompression
// services: after the header, a flag byte describes the next eight blocks
// starting with the most significant bit. A clear flag bit is a single
// literal byte. A set flag bit is a two byte back-reference where the first
// byte holds the copy length minus three in its high nibble and the top four
// bits of the displacement in its low nibble, and the second byte holds the
// rest of the displacement. The copy source is dst[len(dst)-disp-1] onwards
// and may overlap the bytes being written.
func DecompressLZ77(src []byte) ([]byte, error) {
	hdr, err := ReadLZ77Header(src)
	if err != nil {
		return nil, err
	}
	if hdr.Type != LZ77Type {
		return nil, curated.Errorf("lz77: not an lz77 stream (type %d)", hdr.Type)
	}

	dst := make([]byte, 0, hdr.Size)
	pos := 4

	for len(dst) < hdr.Size {
		if pos >= len(src) {
			return nil, curated.Errorf("lz77: stream is short")
		}
		flags := src[pos]
		pos++

		for b := 0; b < 8 && len(dst) < hdr.Size; b++ {
			if flags&0x80 == 0x00 {
				// literal byte
				if pos >= len(src) {
					return nil, curated.Errorf("lz77: stream is short")
				}
				dst = append(dst, src[pos])
				pos++
			} else {
				// back-reference
				if pos+1 >= len(src) {
					return nil, curated.Errorf("lz77: stream is short")
				}
				length := int(src[pos]>>4) + 3
				disp := int(src[pos]&0x0f)<<8 | int(src[pos+1])
				pos += 2

				from := len(dst) - disp - 1
				if from < 0 {
					return nil, curated.Errorf("lz77: displacement reaches before start of stream")
				}

				// byte at a time because the reference may overlap the bytes
				// being written
				for i := 0; i < length && len(dst) < hdr.Size; i++ {
					dst = append(dst, dst[from+i])
				}
			}
			flags <<= 1
		}
	}

	return dst, nil
}
