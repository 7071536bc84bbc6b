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

package cheats

import (
	"strconv"
	"strings"
)

type width int

const (
	width8 width = iota
	width16
	width32
)

// entry is one decoded memory write.
type entry struct {
	address uint32
	value   uint32
	width   width
}

// parse decodes a multi-line code into its memory writes. Lines that
// don't match a known format are dropped.
func parse(code string) []entry {
	var entries []entry

	for _, line := range strings.Split(code, "\n") {
		// strip everything but the hex digits
		var clean strings.Builder
		for _, c := range line {
			switch {
			case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
				clean.WriteRune(c)
			}
		}

		switch clean.Len() {
		case 16:
			if e, ok := parseWide(clean.String()); ok {
				entries = append(entries, e)
			}
		case 12:
			if e, ok := parseNarrow(clean.String()); ok {
				entries = append(entries, e)
			}
		}
	}

	return entries
}

// parseWide handles the sixteen digit format shared by CodeBreaker and
// unencrypted GameShark v3 codes: eight digits of type+address, eight of
// value.
func parseWide(line string) (entry, bool) {
	part1, err := strconv.ParseUint(line[:8], 16, 32)
	if err != nil {
		return entry{}, false
	}
	part2, err := strconv.ParseUint(line[8:], 16, 32)
	if err != nil {
		return entry{}, false
	}

	codeType := uint8(part1 >> 28)
	address := uint32(part1) & 0x0fffffff
	value := uint32(part2)

	// GameShark codes elide the leading 0x02 of an EWRAM address
	gsAddress := address
	if gsAddress>>24 == 0 {
		gsAddress |= 0x02000000
	}

	switch codeType {
	case 0x3: // CodeBreaker 8 bit write
		return entry{address: address, value: value & 0xff, width: width8}, true
	case 0x8: // CodeBreaker 16 bit write
		return entry{address: address, value: value & 0xffff, width: width16}, true
	case 0x0: // GameShark 32 bit write
		return entry{address: gsAddress, value: value, width: width32}, true
	case 0x1: // GameShark 16 bit write
		return entry{address: gsAddress, value: value & 0xffff, width: width16}, true
	case 0x2: // GameShark 8 bit write
		return entry{address: gsAddress, value: value & 0xff, width: width8}, true
	}

	// a raw RAM address with no type nibble. width from the address
	// alignment
	raw := uint32(part1)
	if raw>>24 == 0x02 || raw>>24 == 0x03 {
		switch {
		case raw&3 == 0:
			return entry{address: raw, value: value, width: width32}, true
		case raw&1 == 0:
			return entry{address: raw, value: value & 0xffff, width: width16}, true
		default:
			return entry{address: raw, value: value & 0xff, width: width8}, true
		}
	}

	return entry{}, false
}

// parseNarrow handles the twelve digit CodeBreaker format: eight digits
// of type+address, four of value.
func parseNarrow(line string) (entry, bool) {
	part1, err := strconv.ParseUint(line[:8], 16, 32)
	if err != nil {
		return entry{}, false
	}
	part2, err := strconv.ParseUint(line[8:], 16, 32)
	if err != nil {
		return entry{}, false
	}

	codeType := uint8(part1 >> 28)
	address := uint32(part1) & 0x0fffffff
	value := uint32(part2)

	switch codeType {
	case 0x3:
		return entry{address: address, value: value & 0xff, width: width8}, true
	case 0x8:
		return entry{address: address, value: value & 0xffff, width: width16}, true
	}

	return entry{}, false
}
