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

package hardware

import (
	"github.com/jetsetilly/gopheradvance/hardware/apu"
	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
	"github.com/jetsetilly/gopheradvance/hardware/timer"
)

// State of the console at a moment in time. Instances are treated as
// immutable once taken, the rewind system keeps many of them.
type State struct {
	CPU    *cpu.CPU
	Mem    *memory.Snapshot
	Timers *timer.Snapshot
	APU    *apu.Snapshot
	PPU    *ppu.Snapshot

	// the cycle count the state was taken at
	TotalCycles uint64
}

// Snapshot the entire console state.
func (gba *GBA) Snapshot() *State {
	return &State{
		CPU:         gba.CPU.Snapshot(),
		Mem:         gba.Mem.Snapshot(),
		Timers:      gba.Timers.Snapshot(),
		APU:         gba.APU.Snapshot(),
		PPU:         gba.PPU.Snapshot(),
		TotalCycles: gba.totalCycles,
	}
}

// Plumb a previously taken state back into the live console. The state
// itself is not consumed and can be plumbed again.
func (gba *GBA) Plumb(state *State) {
	gba.Mem.Plumb(state.Mem)
	gba.CPU.Plumb(state.CPU, gba.Mem)
	gba.Timers.Plumb(state.Timers)
	gba.APU.Plumb(state.APU)
	gba.PPU.Plumb(state.PPU)
	gba.totalCycles = state.TotalCycles
	gba.wdSample = gba.CPU.PC()
	gba.wdCycles = 0
	gba.wdReported = false
}
