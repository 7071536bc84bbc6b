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

package terminal

// Style is used to hint at what the output content is. Terminal
// implementations are free to interpret the hint however suits them,
// including not at all.
type Style int

// List of terminal styles.
const (
	// input that has been echoed back to the user. some terminals won't
	// need to do anything with this
	StyleEcho Style = iota

	// help information
	StyleHelp

	// information from the debugger about the last command
	StyleFeedback

	// the instruction echo after a step
	StyleInstructionStep

	// mchine state. registers, memory etc.
	StyleMachineInfo

	// a log line
	StyleLog

	// an error message
	StyleError
)
