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

package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

type tokens struct {
	tokens []string
	curr   int
}

func tokeniseInput(input string) *tokens {
	tk := new(tokens)

	input = strings.TrimSpace(input)
	tk.tokens = strings.Fields(input)

	// normalise hex notation
	for i := 0; i < len(tk.tokens); i++ {
		if tk.tokens[i][0] == '$' {
			tk.tokens[i] = fmt.Sprintf("0x%s", tk.tokens[i][1:])
		}
	}

	return tk
}

func (tk tokens) remainder() string {
	return strings.Join(tk.tokens[tk.curr:], " ")
}

func (tk tokens) remaining() int {
	return len(tk.tokens) - tk.curr
}

func (tk *tokens) get() (string, bool) {
	if tk.curr >= len(tk.tokens) {
		return "", false
	}
	tk.curr++
	return tk.tokens[tk.curr-1], true
}

func (tk *tokens) unget() {
	if tk.curr > 0 {
		tk.curr--
	}
}

// address parses the next token as a 32 bit address. addresses with no
// prefix are assumed to be hexadecimal.
func (tk *tokens) address() (uint32, error) {
	a, ok := tk.get()
	if !ok {
		return 0, fmt.Errorf("address required")
	}

	if !strings.HasPrefix(a, "0x") && !strings.HasPrefix(a, "0X") {
		a = fmt.Sprintf("0x%s", a)
	}

	v, err := strconv.ParseUint(a, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("cannot interpret address (%s)", a)
	}

	return uint32(v), nil
}

// value parses the next token as a number. unprefixed values are decimal.
func (tk *tokens) value() (uint32, error) {
	a, ok := tk.get()
	if !ok {
		return 0, fmt.Errorf("value required")
	}

	v, err := strconv.ParseUint(a, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("cannot interpret value (%s)", a)
	}

	return uint32(v), nil
}
