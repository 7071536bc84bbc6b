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

// Package cheats applies CodeBreaker and unencrypted GameShark codes to
// the running machine. Codes are plain hex lines; each enabled cheat's
// writes are performed once per frame at the start of vblank. Lines that
// don't parse as a known code type are silently ignored, which matches
// how the original devices treated them.
package cheats

import (
	"github.com/jetsetilly/gopheradvance/hardware"
)

// Cheat is a single named code. A code can span several lines, each line
// producing one memory write.
type Cheat struct {
	Description string
	Code        string
	Enabled     bool

	entries []entry
}

// Manager holds the cheat list and performs the writes. It registers
// itself with the PPU so that application happens on the frame boundary.
type Manager struct {
	gba    *hardware.GBA
	cheats []*Cheat
}

// NewManager is the preferred method of initialisation for the Manager
// type.
func NewManager(gba *hardware.GBA) *Manager {
	m := &Manager{gba: gba}
	m.gba.PPU.AddRenderer(m)
	return m
}

// AddCheat parses the code and adds it to the list, enabled. Returns the
// number of memory writes the code produced, which is zero for a code in
// no recognised format.
func (m *Manager) AddCheat(description string, code string) int {
	c := &Cheat{
		Description: description,
		Code:        code,
		Enabled:     true,
		entries:     parse(code),
	}
	m.cheats = append(m.cheats, c)
	return len(c.entries)
}

// RemoveCheat deletes the cheat at the index. Out of range indexes are
// ignored.
func (m *Manager) RemoveCheat(index int) {
	if index < 0 || index >= len(m.cheats) {
		return
	}
	m.cheats = append(m.cheats[:index], m.cheats[index+1:]...)
}

// ToggleCheat enables or disables the cheat at the index.
func (m *Manager) ToggleCheat(index int, enabled bool) {
	if index < 0 || index >= len(m.cheats) {
		return
	}
	m.cheats[index].Enabled = enabled
}

// Clear removes all cheats.
func (m *Manager) Clear() {
	m.cheats = m.cheats[:0]
}

// Cheats returns the current cheat list.
func (m *Manager) Cheats() []*Cheat {
	return m.cheats
}

// Apply performs the writes for every enabled cheat.
func (m *Manager) Apply() {
	for _, c := range m.cheats {
		if !c.Enabled {
			continue
		}
		for _, e := range c.entries {
			switch e.width {
			case width8:
				m.gba.Mem.Write8(e.address, uint8(e.value))
			case width16:
				m.gba.Mem.Write16(e.address, uint16(e.value))
			case width32:
				m.gba.Mem.Write32(e.address, e.value)
			}
		}
	}
}

// NewFrame is an implementation of ppu.Renderer, used as a frame boundary
// trigger.
func (m *Manager) NewFrame(pixels []uint8, frameNum int) error {
	m.Apply()
	return nil
}
