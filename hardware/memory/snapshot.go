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

package memory

import (
	"github.com/jetsetilly/gopheradvance/crunched"
)

// Snapshot of the mutable bus state, for the rewind system. The work RAM
// banks are by far the largest part so they are stored crunched. The ROM
// image is shared with the live instance, never copied.
type Snapshot struct {
	EWRAM   crunched.Data
	IWRAM   crunched.Data
	IO      []byte
	Palette []byte
	VRAM    []byte
	OAM     []byte
	GamePak *GamePak
	DMA     [4]dmaChannel
	halt    bool
}

// Snapshot the current bus state.
func (mem *Memory) Snapshot() *Snapshot {
	s := &Snapshot{
		IO:      append([]byte(nil), mem.IO...),
		Palette: append([]byte(nil), mem.Palette...),
		VRAM:    append([]byte(nil), mem.VRAM...),
		OAM:     append([]byte(nil), mem.OAM...),
		GamePak: mem.GamePak.Snapshot(),
		DMA:     mem.DMA.ch,
		halt:    mem.haltRequested,
	}

	ewram := crunched.NewQuick(len(mem.EWRAM))
	copy(*ewram.Data(), mem.EWRAM)
	s.EWRAM = ewram.Snapshot()

	iwram := crunched.NewQuick(len(mem.IWRAM))
	copy(*iwram.Data(), mem.IWRAM)
	s.IWRAM = iwram.Snapshot()

	return s
}

// Plumb a previously taken snapshot back into the live bus.
func (mem *Memory) Plumb(s *Snapshot) {
	copy(mem.EWRAM, *s.EWRAM.Snapshot().Data())
	copy(mem.IWRAM, *s.IWRAM.Snapshot().Data())
	copy(mem.IO, s.IO)
	copy(mem.Palette, s.Palette)
	copy(mem.VRAM, s.VRAM)
	copy(mem.OAM, s.OAM)
	mem.GamePak = s.GamePak.Snapshot()
	mem.DMA.ch = s.DMA
	mem.haltRequested = s.halt
	mem.stallCycles = 0
}
