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

package debugger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/cheats"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
	"github.com/jetsetilly/gopheradvance/disassembly"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/rewind"
	"github.com/jetsetilly/gopheradvance/savefile"
	"github.com/jetsetilly/gopheradvance/setup"
)

// Debugger is the basic debugging frontend for the emulation.
type Debugger struct {
	gba  *hardware.GBA
	term terminal.Terminal

	rwnd *rewind.Rewind
	cht  *cheats.Manager
	brk  *breakpoints

	// channel the terminal checks while waiting for input. also checked
	// during the RUN command so a ctrl-c can halt the machine
	intChan chan os.Signal
	events  *terminal.ReadEvents

	// the debugger stays in the input loop until this is true
	quit bool
}

// New is the preferred method of initialisation for the Debugger type.
func New(term terminal.Terminal) *Debugger {
	dbg := &Debugger{
		gba:  hardware.NewGBA(),
		term: term,
	}

	dbg.rwnd = rewind.NewRewind(dbg.gba, &catchUp{dbg: dbg})
	dbg.cht = cheats.NewManager(dbg.gba)
	dbg.brk = newBreakpoints(dbg)

	dbg.intChan = make(chan os.Signal, 1)
	dbg.events = &terminal.ReadEvents{
		Signal: dbg.intChan,
		SignalHandler: func(sig os.Signal) error {
			if sig == os.Interrupt {
				return curated.Errorf(terminal.UserInterrupt)
			}
			return curated.Errorf(terminal.UserAbort)
		},
	}

	return dbg
}

// catchUp implements the rewind.Runner interface.
type catchUp struct {
	dbg *Debugger
}

// CatchUpLoop implements the rewind.Runner interface.
func (c *catchUp) CatchUpLoop(frame int) error {
	for c.dbg.gba.PPU.FrameNum() < frame {
		c.dbg.gba.Step()
		c.dbg.rwnd.Check()
	}
	return nil
}

// Start the debugger with the cartridge in the specified loader.
func (dbg *Debugger) Start(cartload cartridgeloader.Loader) error {
	err := dbg.term.Initialise()
	if err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	defer dbg.term.CleanUp()

	dbg.term.RegisterTabCompletion(newTabCompletion())

	signal.Notify(dbg.intChan, os.Interrupt)
	defer signal.Stop(dbg.intChan)

	err = setup.AttachCartridge(dbg.gba, cartload)
	if err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	dbg.rwnd.Reset()

	// restore any previous save for this cartridge and write the backup
	// device back to disk when the session ends
	if err := savefile.Load(dbg.gba, cartload); err != nil {
		dbg.printLine(terminal.StyleError, "%v", err)
	}
	defer func() {
		if err := savefile.Save(dbg.gba, cartload); err != nil {
			dbg.printLine(terminal.StyleError, "%v", err)
		}
	}()

	dbg.printLine(terminal.StyleFeedback, "cartridge attached (%s)", cartload.ShortName())

	return dbg.inputLoop()
}

func (dbg *Debugger) inputLoop() error {
	input := make([]byte, 255)

	for !dbg.quit {
		n, err := dbg.term.TermRead(input, dbg.buildPrompt(), dbg.events)
		if err != nil {
			if curated.Is(err, terminal.UserInterrupt) {
				dbg.confirmQuit(input)
				continue // for loop
			}
			if curated.Is(err, terminal.UserAbort) || errors.Is(err, io.EOF) {
				dbg.quit = true
				continue // for loop
			}
			return err
		}

		// the terminal implementations count the newline that concluded
		// the read
		if n > 0 {
			n--
		}

		cmd := strings.TrimSpace(string(input[:n]))
		if cmd == "" {
			// an empty line steps the machine. it is what the user wants
			// most of the time
			dbg.step(1)
			continue // for loop
		}

		err = dbg.parseInput(cmd)
		if err != nil {
			dbg.printLine(terminal.StyleError, "%v", err)
		}
	}

	return nil
}

// confirmQuit is called when the user interrupts the input loop. a second
// interrupt during confirmation quits unconditionally.
func (dbg *Debugger) confirmQuit(input []byte) {
	prompt := terminal.Prompt{
		Type:    terminal.PromptTypeConfirm,
		Content: "really quit? (y/n) ",
	}

	n, err := dbg.term.TermRead(input, prompt, dbg.events)
	if err != nil {
		dbg.quit = true
		return
	}
	if n > 0 {
		n--
	}

	s := strings.TrimSpace(string(input[:n]))
	if strings.HasPrefix(strings.ToLower(s), "y") {
		dbg.quit = true
	}
}

// buildPrompt disassembles the next instruction to be executed.
func (dbg *Debugger) buildPrompt() terminal.Prompt {
	e := disassembly.Disassemble(dbg.gba.Mem, dbg.gba.CPU.PC(), dbg.gba.CPU.Reg.Thumb())
	return terminal.Prompt{
		Type:    terminal.PromptTypeStep,
		Content: fmt.Sprintf("%08x %s", e.Address, e.Mnemonic()),
	}
}

// step the machine by the specified number of instructions. instruction
// level rewind states are recorded so the BACK command can unwind every
// step.
func (dbg *Debugger) step(num int) {
	for i := 0; i < num; i++ {
		dbg.gba.Step()
		dbg.rwnd.Check()
		dbg.rwnd.ExecutionState()

		if dbg.brk.check() {
			dbg.printLine(terminal.StyleFeedback, "break at $%08x", dbg.gba.CPU.PC())
			return
		}
	}
}

// how often the run loop checks for a ctrl-c
const interruptPeriod = 1024

// run the machine until a breakpoint matches or the user interrupts. only
// frame level rewind states are recorded, anything finer would push
// useful history out of the rewind buffer almost immediately.
func (dbg *Debugger) run() {
	if dbg.term.IsInteractive() {
		dbg.printLine(terminal.StyleFeedback, "running. ctrl-c to halt")
	}

	ct := 0
	for {
		dbg.gba.Step()
		dbg.rwnd.Check()

		if dbg.brk.check() {
			dbg.printLine(terminal.StyleFeedback, "break at $%08x", dbg.gba.CPU.PC())
			return
		}

		ct++
		if ct >= interruptPeriod {
			ct = 0
			select {
			case <-dbg.intChan:
				dbg.printLine(terminal.StyleFeedback, "halted at $%08x", dbg.gba.CPU.PC())
				return
			default:
			}
		}
	}
}

// printLine forwards formatted output to the attached terminal. multiple
// lines are split so the terminal only ever sees one line at a time.
func (dbg *Debugger) printLine(style terminal.Style, s string, a ...interface{}) {
	if len(a) > 0 {
		s = fmt.Sprintf(s, a...)
	}
	for _, l := range strings.Split(s, "\n") {
		dbg.term.TermPrintLine(style, l)
	}
}
