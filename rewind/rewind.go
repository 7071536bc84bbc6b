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

package rewind

import (
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
)

// Runner provides the rewind package the opportunity to run the emulation.
type Runner interface {
	// CatchUpLoop implementations will run the emulation until the frame
	// counter reaches at least the specified value and then refresh the
	// display. Frame snapshots are taken at the start of vblank so the
	// plumbed machine may already be at the requested frame, in which
	// case only the refresh is required.
	CatchUpLoop(frame int) error
}

// State is a single stored snapshot of the console.
type State struct {
	level snapshotLevel
	frame int

	machine *hardware.State
}

// snapshotLevel indicates the level of snapshot.
type snapshotLevel int

// List of valid snapshotLevel values.
const (
	levelReset snapshotLevel = iota
	levelFrame
	levelExecution
)

func (s State) String() string {
	if s.level == levelExecution {
		return "c"
	}
	return fmt.Sprintf("%d", s.frame)
}

// Frame number the state was taken at.
func (s State) Frame() int {
	return s.frame
}

// the maximum number of entries to store before the earliest steps are
// forgotten. there is an overhead of two entries to facilitate appending
const overhead = 2
const maxEntries = 200 + overhead

// Rewind contains a history of machine states for the emulation.
type Rewind struct {
	gba    *hardware.GBA
	runner Runner

	// circular array of snapshotted entries
	entries [maxEntries]*State
	start   int
	end     int

	// the position of the current rewind entry
	curr int

	// pointer to the comparison point
	comparison *State

	// a new frame has been triggered. resolve as soon as possible.
	newFrame bool

	// the last call to append() came from a frame boundary. under normal
	// circumstances this field will be true for one instruction before
	// being reset
	justAddedFrame bool
}

// NewRewind is the preferred method of initialisation for the Rewind type.
func NewRewind(gba *hardware.GBA, runner Runner) *Rewind {
	r := &Rewind{
		gba:    gba,
		runner: runner,
	}
	r.gba.PPU.AddRenderer(r)

	return r
}

// Reset the rewind system, removing all entries and taking a snapshot of
// the freshly reset machine. This should be called whenever a new
// cartridge is attached to the emulation.
func (r *Rewind) Reset() {
	r.justAddedFrame = true
	r.newFrame = false

	s := r.snapshot(levelReset)

	r.curr = maxEntries
	r.append(s)

	// first comparison is to the snapshot of the reset machine
	r.comparison = r.entries[0]
}

func (r *Rewind) snapshot(level snapshotLevel) *State {
	return &State{
		level:   level,
		frame:   r.gba.PPU.FrameNum(),
		machine: r.gba.Snapshot(),
	}
}

// Check should be called after every instruction to check whether a new
// frame has been triggered since the last call. Delaying a call to this
// function may result in sub-optimal results.
func (r *Rewind) Check() {
	if !r.newFrame {
		r.justAddedFrame = false
		return
	}

	r.newFrame = false
	r.justAddedFrame = true

	r.append(r.snapshot(levelFrame))
}

// ExecutionState takes a snapshot of the emulation at the current
// instruction boundary. It is intended to be called once per instruction
// during a single-step session, giving StepBack() instruction-level
// granularity. It will do nothing if the last call to Check() resulted
// in a snapshot being taken.
func (r *Rewind) ExecutionState() {
	if r.justAddedFrame {
		return
	}

	r.append(r.snapshot(levelExecution))
}

func (r *Rewind) append(s *State) {
	// append at current position
	e := r.curr + 1
	if e >= maxEntries {
		e = 0
	}

	r.entries[e] = s
	r.curr = e

	// next update point is recent update point plus one
	r.end = r.curr + 1
	if r.end >= maxEntries {
		r.end = 0
	}

	// push start index along
	if r.end == r.start {
		r.start++
		if r.start >= maxEntries {
			r.start = 0
		}
	}
}

// Frames of the current state of the rewind system.
type Frames struct {
	Start   int
	End     int
	Current int
}

// GetFrames returns the span of frames stored by the rewind system and
// the frame that is currently plumbed into the emulation.
func (r Rewind) GetFrames() Frames {
	e := r.end - 1
	if e < 0 {
		e += maxEntries
	}

	return Frames{
		Start:   r.entries[r.start].frame,
		End:     r.entries[e].frame,
		Current: r.gba.PPU.FrameNum(),
	}
}

func (r *Rewind) plumb(idx int, frame int) error {
	r.curr = idx

	catchUp := r.entries[idx].level != levelReset

	r.gba.Plumb(r.entries[idx].machine)
	r.newFrame = false

	if !catchUp {
		return nil
	}

	err := r.runner.CatchUpLoop(frame)
	if err != nil {
		return curated.Errorf("rewind: %v", err)
	}

	return nil
}

// StepBack restores the snapshot before the current position. When a
// snapshot is being taken after every instruction the effect is to undo
// the last instruction. Stepping back from the oldest stored entry
// replumbs that entry.
func (r *Rewind) StepBack() error {
	if r.curr != r.start {
		idx := r.curr - 1
		if idx < 0 {
			idx += maxEntries
		}
		r.curr = idx
	}

	r.gba.Plumb(r.entries[r.curr].machine)
	r.newFrame = false

	return nil
}

// GotoLast sets the position to the last in the timeline.
func (r *Rewind) GotoLast() error {
	idx := r.end - 1
	if idx < 0 {
		idx += maxEntries
	}
	return r.plumb(idx, r.entries[idx].frame)
}

// GotoFrame searches the timeline for the frame number. If the precise
// frame number can not be found the nearest stored frame will be plumbed
// in. The plumbed frame number is returned.
func (r *Rewind) GotoFrame(frame int) (int, error) {
	// initialise binary search
	s := r.start
	e := r.end - 1
	if e < 0 {
		e += maxEntries
	}

	// check whether request is out of bounds and plumb in the nearest
	// entry if so
	fn := r.entries[r.start].frame
	if frame <= fn {
		return fn, r.plumb(r.start, fn)
	}
	fn = r.entries[e].frame
	if frame >= fn {
		return fn, r.plumb(e, fn)
	}

	// because r.entries is a circular array, there's an additional step
	// to the binary search. if start (lower) is greater than end (upper)
	// then check which half of the circular array to concentrate on.
	if r.start > e {
		fn := r.entries[maxEntries-1].frame
		if frame <= fn {
			e = maxEntries - 1
		} else {
			e = r.start - 1
			s = 0
		}
	}

	for s <= e {
		m := (s + e) / 2

		fn := r.entries[m].frame

		if frame == fn {
			return fn, r.plumb(m, frame)
		}
		if frame < fn {
			e = m - 1
		}
		if frame > fn {
			s = m + 1
		}
	}

	// no exact match. the search has converged on the nearest entry
	if s >= maxEntries {
		s = maxEntries - 1
	}
	fn = r.entries[s].frame
	return fn, r.plumb(s, fn)
}

// SetComparison points comparison to the current rewind entry.
func (r *Rewind) SetComparison() {
	r.comparison = r.entries[r.curr]
}

// GetComparison gets a reference to the current comparison point.
func (r *Rewind) GetComparison() *State {
	return r.comparison
}

// NewFrame is an implementation of ppu.Renderer. The rewind system uses
// it only as a frame boundary trigger, the pixels are not touched.
func (r *Rewind) NewFrame(pixels []uint8, frameNum int) error {
	r.newFrame = true
	return nil
}
