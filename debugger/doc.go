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

// Package debugger implements a terminal based debugger for the emulated
// machine. The debugger is driven by a terminal implementation, for
// example the ones in the terminal/plainterm and terminal/colorterm
// packages.
//
// The HELP command is the best introduction to what the debugger can do.
// Briefly: the machine can be stepped one instruction at a time, run
// freely until a breakpoint matches, and stepped or wound backwards with
// the help of the rewind package. Memory can be peeked, poked and
// disassembled. Cheat codes can be added and removed while the machine is
// running.
package debugger
