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

// Package cpu implements the ARM7TDMI processor. The processor is driven
// through the Step() function, which executes exactly one instruction in
// either the 32-bit or the 16-bit instruction set, depending on the state
// of the T bit in the status register.
//
// There is no BIOS image. The services normally provided by the boot
// firmware, the software interrupt calls and the interrupt dispatch
// trampoline, are provided at a high level by the functions in swi.go and
// irq.go.
//
// Unrecognised instruction encodings are logged and executed as no-ops.
// Games do sometimes run into data and the real processor does not stop
// either.
package cpu
