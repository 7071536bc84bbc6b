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

package colorterm

import (
	"unicode"
	"unicode/utf8"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
	"github.com/jetsetilly/gopheradvance/debugger/terminal/colorterm/easyterm"
	"github.com/jetsetilly/gopheradvance/debugger/terminal/colorterm/easyterm/ansi"
)

// TermRead implements the terminal.Input interface.
func (ct *ColorTerminal) TermRead(input []byte, prompt terminal.Prompt, events *terminal.ReadEvents) (int, error) {
	if ct.silenced {
		return 0, nil
	}

	ct.RawMode()
	defer ct.CanonicalMode()

	// er is used to store encoded runes (length of 4 should be enough)
	er := make([]byte, 4)

	n := 0
	cursor := 0
	history := len(ct.commandHistory)

	// buffInput is used to store the latest input when we scroll through
	// history - we don't want to lose what we've typed in case the user
	// wants to resume where we left off
	buffInput := make([]byte, cap(input))
	buffN := 0

	// the prompt text is printed and the cursor placed at the end of it
	// on each pass of the loop
	promptText := prompt.String()
	ct.Print("\r%s", ansi.CursorMove(len(promptText)))

	for {
		ct.Print(ansi.CursorStore)
		ct.Print("%s%s%s%s", ansi.ClearLine, ansi.PenStyles["bold"], promptText, ansi.NormalPen)
		ct.Print(string(input[:n]))
		ct.Print(ansi.CursorRestore)

		r, _, err := ct.reader.ReadRune()
		if err != nil {
			return n, err
		}

		// a signal may have arrived while we were waiting for the rune
		select {
		case sig := <-events.Signal:
			ct.Print("\n")
			return 0, events.SignalHandler(sig)
		default:
		}

		switch r {
		case easyterm.KeyTab:
			if ct.tabCompletion != nil {
				s := ct.tabCompletion.Complete(string(input[:cursor]))

				// the difference in the length of the new input and the
				// old input
				d := len(s) - cursor

				// append everything after the cursor to the new string
				// and copy into input array
				s += string(input[cursor:])
				copy(input, []byte(s))

				// advance cursor to end of completed word
				ct.Print(ansi.CursorMove(d))
				cursor += d
				n += d
			}

		case easyterm.KeyInterrupt:
			ct.Print("\n")
			return 0, curated.Errorf(terminal.UserInterrupt)

		case easyterm.KeyCarriageReturn:
			// check to see if input is the same as the last history entry
			newEntry := n > 0
			if newEntry && len(ct.commandHistory) > 0 {
				last := ct.commandHistory[len(ct.commandHistory)-1].input
				if len(last) == n {
					newEntry = false
					for i := 0; i < n; i++ {
						if input[i] != last[i] {
							newEntry = true
							break
						}
					}
				}
			}

			if newEntry {
				nh := make([]byte, n)
				copy(nh, input[:n])
				ct.commandHistory = append(ct.commandHistory, command{input: nh})
			}

			ct.Print("\n")
			return n + 1, nil

		case easyterm.KeyEsc:
			r, _, err := ct.reader.ReadRune()
			if err != nil {
				return n, err
			}
			if r != easyterm.EscCursor {
				continue // for loop
			}

			r, _, err = ct.reader.ReadRune()
			if err != nil {
				return n, err
			}

			switch r {
			case easyterm.CursorUp:
				// move up through command history
				if len(ct.commandHistory) > 0 {
					// store the current input in buffInput for possible
					// later editing
					if history == len(ct.commandHistory) {
						copy(buffInput, input[:n])
						buffN = n
					}

					if history > 0 {
						history--
						copy(input, ct.commandHistory[history].input)
						n = len(ct.commandHistory[history].input)
						ct.Print(ansi.CursorMove(n - cursor))
						cursor = n
					}
				}
			case easyterm.CursorDown:
				// move down through command history
				if len(ct.commandHistory) > 0 {
					if history < len(ct.commandHistory)-1 {
						history++
						copy(input, ct.commandHistory[history].input)
						n = len(ct.commandHistory[history].input)
						ct.Print(ansi.CursorMove(n - cursor))
						cursor = n
					} else if history == len(ct.commandHistory)-1 {
						history++
						copy(input, buffInput)
						n = buffN
						ct.Print(ansi.CursorMove(n - cursor))
						cursor = n
					}
				}
			case easyterm.CursorForward:
				if cursor < n {
					ct.Print(ansi.CursorForwardOne)
					cursor++
				}
			case easyterm.CursorBackward:
				if cursor > 0 {
					ct.Print(ansi.CursorBackwardOne)
					cursor--
				}
			case easyterm.EscDelete:
				if cursor < n {
					copy(input[cursor:], input[cursor+1:])
					n--
					history = len(ct.commandHistory)
				}
				// consume the closing tilde of the escape sequence
				_, _, _ = ct.reader.ReadRune()
			}

		case easyterm.KeyBackspace:
			if cursor > 0 {
				copy(input[cursor-1:], input[cursor:])
				ct.Print(ansi.CursorBackwardOne)
				cursor--
				n--
				history = len(ct.commandHistory)
			}

		default:
			if unicode.IsPrint(r) {
				m := utf8.EncodeRune(er, r)
				if n+m > len(input) {
					continue // for loop
				}
				ct.Print("%c", r)
				copy(input[cursor+m:], input[cursor:])
				copy(input[cursor:], er[:m])
				cursor++
				n += m
				history = len(ct.commandHistory)
			}
		}
	}
}
