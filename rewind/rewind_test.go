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

package rewind_test

import (
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/rewind"
	"github.com/jetsetilly/gopheradvance/test"
)

type runner struct {
	gba *hardware.GBA
	rew *rewind.Rewind
}

func (run *runner) CatchUpLoop(frame int) error {
	for run.gba.PPU.FrameNum() < frame {
		run.gba.Step()
		run.rew.Check()
	}
	return nil
}

// run the emulation for the number of frames, checking the rewind system
// after every instruction as the debugger would.
func (run *runner) runFrames(frames int) {
	target := run.gba.PPU.FrameNum() + frames
	for run.gba.PPU.FrameNum() < target {
		run.gba.Step()
		run.rew.Check()
	}
}

func newRunner(t *testing.T) *runner {
	t.Helper()

	// a counting loop. r0 increments forever
	rom := make([]byte, 0x200)
	binary.LittleEndian.PutUint32(rom[0:], 0xe3a00000) // mov r0, #0
	binary.LittleEndian.PutUint32(rom[4:], 0xe2800001) // add r0, r0, #1
	binary.LittleEndian.PutUint32(rom[8:], 0xeafffffc) // b -2
	copy(rom[0xa0:], "REWIND")

	gba := hardware.NewGBA()
	err := gba.AttachCartridge(cartridgeloader.Loader{Filename: "rewind.gba", Data: rom})
	test.ExpectedSuccess(t, err)

	run := &runner{gba: gba}
	run.rew = rewind.NewRewind(gba, run)
	run.rew.Reset()

	return run
}

func TestRewind_frameSnapshots(t *testing.T) {
	run := newRunner(t)

	run.runFrames(5)

	f := run.rew.GetFrames()
	test.Equate(t, f.Start, 0)
	test.Equate(t, f.End, 5)
	test.Equate(t, f.Current, 5)
}

func TestRewind_gotoFrame(t *testing.T) {
	run := newRunner(t)

	run.runFrames(10)
	r0 := run.gba.CPU.Reg.Reg(0)

	fn, err := run.rew.GotoFrame(4)
	test.ExpectedSuccess(t, err)
	test.Equate(t, fn, 4)
	test.Equate(t, run.gba.PPU.FrameNum(), 4)

	// the machine has genuinely gone backwards
	test.ExpectedSuccess(t, run.gba.CPU.Reg.Reg(0) < r0)
}

func TestRewind_gotoFrameOutOfBounds(t *testing.T) {
	run := newRunner(t)

	run.runFrames(5)

	// beyond the end of the timeline clamps to the last entry
	fn, err := run.rew.GotoFrame(100)
	test.ExpectedSuccess(t, err)
	test.Equate(t, fn, 5)

	// before the start clamps to the first
	fn, err = run.rew.GotoFrame(-1)
	test.ExpectedSuccess(t, err)
	test.Equate(t, fn, 0)
}

func TestRewind_gotoLastResumes(t *testing.T) {
	run := newRunner(t)

	run.runFrames(8)
	r0 := run.gba.CPU.Reg.Reg(0)

	_, err := run.rew.GotoFrame(2)
	test.ExpectedSuccess(t, err)

	err = run.rew.GotoLast()
	test.ExpectedSuccess(t, err)
	test.Equate(t, run.gba.PPU.FrameNum(), 8)
	test.Equate(t, run.gba.CPU.Reg.Reg(0), r0)
}

func TestRewind_stepBack(t *testing.T) {
	run := newRunner(t)

	// per-instruction snapshots, as taken during a single-step session
	step := func() {
		run.gba.Step()
		run.rew.Check()
		run.rew.ExecutionState()
	}

	for i := 0; i < 9; i++ {
		step()
	}
	pc := run.gba.CPU.PC()
	r0 := run.gba.CPU.Reg.Reg(0)

	step()
	err := run.rew.StepBack()
	test.ExpectedSuccess(t, err)

	test.Equate(t, run.gba.CPU.PC(), pc)
	test.Equate(t, run.gba.CPU.Reg.Reg(0), r0)

	// stepping back again undoes another instruction
	err = run.rew.StepBack()
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, run.gba.CPU.Reg.Reg(0) <= r0)
}

func TestRewind_comparison(t *testing.T) {
	run := newRunner(t)

	run.runFrames(3)
	run.rew.SetComparison()
	cmp := run.rew.GetComparison()
	test.Equate(t, cmp.Frame(), 3)

	run.runFrames(2)
	test.Equate(t, run.rew.GetComparison().Frame(), 3)
}
