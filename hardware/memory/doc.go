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

// Package memory implements the console's unified bus. Every read and write
// from the CPU or the DMA controller passes through the Memory type, which
// routes the access to the system ROM, the work RAM banks, the display
// memories, the IO register block or the cartridge, applying each area's
// mirroring and access width rules on the way. The number of bus cycles the
// access consumed is returned alongside the data.
//
// The DMA controller lives in this package too. It is a bus master in its
// own right and moving it anywhere else would mean exporting far more of the
// bus internals than is healthy.
//
// Registers belonging to the timers and to the audio hardware are forwarded
// over the TimerBus and AudioBus interfaces. The concrete implementations
// are plugged in by the hardware package when the console is assembled.
package memory
