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

// Package setup is used to preset the emulation depending on the attached
// cartridge. A small static database keyed by the cartridge game code
// carries two kinds of override:
//
//	A save type, for titles whose ROM gives detection the wrong answer
//	ROM patches, word values written over the image before it is attached
//
// Cartridges without an entry are attached untouched. Use
// setup.AttachCartridge in place of the hardware package's version to get
// this behaviour.
package setup
