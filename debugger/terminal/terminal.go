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

// Package terminal defines the operations required by the command line
// interface of the debugger. Implementations are in the plainterm and
// colorterm sub-packages.
package terminal

import (
	"os"
)

// Input defines the operations required by an interface that allows
// input.
type Input interface {
	// TermRead returns the number of characters inserted into the
	// buffer, or an error, when completed.
	//
	// If possible the implementation should check the ReadEvents
	// channels for activity while waiting for input.
	TermRead(buffer []byte, prompt Prompt, events *ReadEvents) (int, error)

	// IsInteractive should return true for implementations that expect
	// user interaction.
	IsInteractive() bool
}

// Sentinal errors. Returned by TermRead() if caught whilst waiting for
// input.
const (
	UserInterrupt = "user interrupt"
	UserAbort     = "user abort"
)

// ReadEvents should be monitored during a TermRead().
type ReadEvents struct {
	// interrupt signals from the operating system
	Signal chan os.Signal

	// SignalHandler processes a caught signal and decides whether it
	// terminates the session
	SignalHandler func(sig os.Signal) error
}

// Output defines the operations required by an interface that allows
// output.
type Output interface {
	TermPrintLine(Style, string)
}

// Terminal defines the operations required by the debugger's command line
// interface.
type Terminal interface {
	Input
	Output

	// Initialise the terminal. not all implementations will need to do
	// anything.
	Initialise() error

	// Restore the terminal to its original state, if possible.
	CleanUp()

	// Register a tab completion implementation to use with the terminal.
	// Not all implementations need to respond meaningfully to this.
	RegisterTabCompletion(TabCompletion)

	// Silence all input and output except error messages.
	Silence(silenced bool)
}

// TabCompletion defines the operations required for tab completion.
type TabCompletion interface {
	Complete(input string) string
	Reset()
}
