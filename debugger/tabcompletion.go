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
	"strings"
)

// tabCompletion implements the terminal.TabCompletion interface for the
// debugger's command set. repeated completion of the same input cycles
// through the possible commands.
type tabCompletion struct {
	options []string
	matches []string
	match   int
	guess   string
}

func newTabCompletion() *tabCompletion {
	return &tabCompletion{options: commandNames()}
}

// Complete implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Complete(input string) string {
	s := strings.TrimSpace(input)

	// only the command itself is completed
	if s == "" || strings.Contains(s, " ") {
		return input
	}

	if tc.matches == nil || !strings.EqualFold(tc.guess, s) {
		tc.matches = make([]string, 0, len(tc.options))
		for _, c := range tc.options {
			if strings.HasPrefix(c, strings.ToUpper(s)) {
				tc.matches = append(tc.matches, c)
			}
		}
		tc.match = 0
	} else {
		tc.match = (tc.match + 1) % len(tc.matches)
	}

	if len(tc.matches) == 0 {
		return input
	}

	tc.guess = tc.matches[tc.match]
	return tc.guess + " "
}

// Reset implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Reset() {
	tc.matches = nil
	tc.guess = ""
}
