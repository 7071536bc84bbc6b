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

package debugger_test

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/debugger"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
	"github.com/jetsetilly/gopheradvance/test"
)

// mockTerm isn't a real terminal. it feeds a prepared script to the
// debugger and collects everything the debugger prints.
type mockTerm struct {
	t      *testing.T
	script []string
	output []string
}

func newMockTerm(t *testing.T, script ...string) *mockTerm {
	return &mockTerm{t: t, script: script}
}

func (trm *mockTerm) Initialise() error {
	return nil
}

func (trm *mockTerm) CleanUp() {
}

func (trm *mockTerm) RegisterTabCompletion(_ terminal.TabCompletion) {
}

func (trm *mockTerm) Silence(_ bool) {
}

func (trm *mockTerm) TermRead(buffer []byte, _ terminal.Prompt, _ *terminal.ReadEvents) (int, error) {
	if len(trm.script) == 0 {
		return 0, io.EOF
	}
	s := trm.script[0]
	trm.script = trm.script[1:]
	copy(buffer, s)
	return len(s) + 1, nil
}

func (trm *mockTerm) IsInteractive() bool {
	return false
}

func (trm *mockTerm) TermPrintLine(sty terminal.Style, s string) {
	if sty == terminal.StyleEcho {
		return
	}
	trm.output = append(trm.output, s)
}

// seenOutput returns true if any line of output contains the substring.
func (trm *mockTerm) seenOutput(sub string) bool {
	for _, l := range trm.output {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

// a looping test program. the machine never leaves these three
// instructions
//
//	mov r0, #0
//	add r0, r0, #1
//	b -2
func testROM() []byte {
	rom := make([]byte, 0x200)
	program := []uint32{0xe3a00000, 0xe2800001, 0xeafffffc}
	for i, p := range program {
		binary.LittleEndian.PutUint32(rom[i*4:], p)
	}
	copy(rom[0xa0:], "TEST")
	return rom
}

func startDebugger(t *testing.T, script ...string) *mockTerm {
	t.Helper()

	trm := newMockTerm(t, script...)
	dbg := debugger.New(trm)

	cartload := cartridgeloader.Loader{
		Filename: "debugger_test.gba",
		Data:     testROM(),
	}

	err := dbg.Start(cartload)
	if err != nil {
		t.Fatalf("debugger did not start: %v", err)
	}

	return trm
}

func TestDebugger_attachAndQuit(t *testing.T) {
	trm := startDebugger(t, "QUIT")
	test.ExpectedSuccess(t, trm.seenOutput("cartridge attached"))
}

func TestDebugger_machineInfo(t *testing.T) {
	trm := startDebugger(t, "STEP", "CPU", "QUIT")

	// the first instruction has completed so the PC is at the second
	test.ExpectedSuccess(t, trm.seenOutput("08000004"))
}

func TestDebugger_breakpoints(t *testing.T) {
	trm := startDebugger(t,
		"BREAK $08000008",
		"BREAK",
		"RUN",
		"CLEAR",
		"BREAK",
		"QUIT",
	)

	test.ExpectedSuccess(t, trm.seenOutput("breakpoint added (PC->$08000008)"))
	test.ExpectedSuccess(t, trm.seenOutput("0: PC->$08000008"))
	test.ExpectedSuccess(t, trm.seenOutput("break at $08000008"))
	test.ExpectedSuccess(t, trm.seenOutput("breakpoints cleared"))
	test.ExpectedSuccess(t, trm.seenOutput("no breakpoints"))
}

func TestDebugger_duplicateBreakpoint(t *testing.T) {
	trm := startDebugger(t,
		"BREAK $08000008",
		"BREAK $08000008",
		"QUIT",
	)

	test.ExpectedSuccess(t, trm.seenOutput("breakpoint already exists"))
}

func TestDebugger_pokeAndPeek(t *testing.T) {
	trm := startDebugger(t,
		"POKE $03000000 255 16",
		"PEEK $03000000 2",
		"QUIT",
	)

	test.ExpectedSuccess(t, trm.seenOutput("03000000  ff 10"))
}

func TestDebugger_list(t *testing.T) {
	trm := startDebugger(t, "LIST $08000000 2", "QUIT")

	test.ExpectedSuccess(t, trm.seenOutput("mov r0, #$00"))
	test.ExpectedSuccess(t, trm.seenOutput("add r0, r0, #$01"))
}

func TestDebugger_cheats(t *testing.T) {
	trm := startDebugger(t,
		"CHEAT ADD 33001234000000ff infinite-lives",
		"CHEAT LIST",
		"CHEAT ADD zz",
		"QUIT",
	)

	test.ExpectedSuccess(t, trm.seenOutput("cheat added (infinite-lives)"))
	test.ExpectedSuccess(t, trm.seenOutput("0: infinite-lives (on)"))
	test.ExpectedSuccess(t, trm.seenOutput("cheat code not recognised"))
}

func TestDebugger_ambiguousCommand(t *testing.T) {
	trm := startDebugger(t, "C", "QUIT")
	test.ExpectedSuccess(t, trm.seenOutput("ambiguous command"))
}

func TestDebugger_abbreviatedCommand(t *testing.T) {
	trm := startDebugger(t, "ST 2", "CP", "QUIT")

	// two instructions have completed so the PC is at the third
	test.ExpectedSuccess(t, trm.seenOutput("08000008"))
}
