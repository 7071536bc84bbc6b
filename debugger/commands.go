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
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
	"github.com/jetsetilly/gopheradvance/disassembly"
	"github.com/jetsetilly/gopheradvance/logger"
)

// debugger command names.
const (
	cmdBack   = "BACK"
	cmdBreak  = "BREAK"
	cmdCPU    = "CPU"
	cmdCheat  = "CHEAT"
	cmdClear  = "CLEAR"
	cmdDrop   = "DROP"
	cmdFrames = "FRAMES"
	cmdGoto   = "GOTO"
	cmdHelp   = "HELP"
	cmdList   = "LIST"
	cmdLog    = "LOG"
	cmdMemViz = "MEMVIZ"
	cmdPeek   = "PEEK"
	cmdPoke   = "POKE"
	cmdQuit   = "QUIT"
	cmdReset  = "RESET"
	cmdRun    = "RUN"
	cmdStep   = "STEP"
)

var commandsHelp = map[string]string{
	cmdBack:   "Step the machine backwards [number of instructions]",
	cmdBreak:  "List breakpoints or add a new one [address]",
	cmdCPU:    "Display the current state of the CPU",
	cmdCheat:  "Manage cheat codes (ADD, LIST, DROP, ON, OFF)",
	cmdClear:  "Clear all breakpoints",
	cmdDrop:   "Drop a specific breakpoint [number]",
	cmdFrames: "Display the span of frames available to the rewind system",
	cmdGoto:   "Rewind or advance the machine to the specified frame",
	cmdHelp:   "Lists commands and provides help for individual commands",
	cmdList:   "Disassemble instructions [address] [number of instructions]",
	cmdLog:    "Display the recent contents of the log (or CLEAR it)",
	cmdMemViz: "Write a graphviz visualisation of the machine state [filename]",
	cmdPeek:   "Display the contents of memory [address] [number of bytes]",
	cmdPoke:   "Modify an individual memory address [address] [value...]",
	cmdQuit:   "Quit the debugger",
	cmdReset:  "Reset the machine to its initial state",
	cmdRun:    "Run the machine until a breakpoint matches or ctrl-c",
	cmdStep:   "Step the machine forward [number of instructions]",
}

// commandNames returned in alphabetical order.
func commandNames() []string {
	names := make([]string, 0, len(commandsHelp))
	for n := range commandsHelp {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// matchCommand resolves a (possibly abbreviated) command name. an
// abbreviation must match exactly one command.
func matchCommand(c string) (string, error) {
	c = strings.ToUpper(c)

	if _, ok := commandsHelp[c]; ok {
		return c, nil
	}

	matches := make([]string, 0)
	for _, n := range commandNames() {
		if strings.HasPrefix(n, c) {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return "", curated.Errorf("unrecognised command (%s)", c)
	case 1:
		return matches[0], nil
	}
	return "", curated.Errorf("ambiguous command (%s could be %s)", c, strings.Join(matches, " or "))
}

func (dbg *Debugger) parseInput(input string) error {
	tk := tokeniseInput(input)

	c, ok := tk.get()
	if !ok {
		return nil
	}

	cmd, err := matchCommand(c)
	if err != nil {
		return err
	}

	switch cmd {
	case cmdHelp:
		dbg.cmdHelp(tk)

	case cmdQuit:
		dbg.quit = true

	case cmdReset:
		dbg.gba.Reset()
		dbg.rwnd.Reset()
		dbg.printLine(terminal.StyleFeedback, "machine reset")

	case cmdRun:
		dbg.run()

	case cmdStep:
		num := 1
		if v, err := tk.value(); err == nil {
			num = int(v)
		}
		dbg.step(num)

	case cmdBack:
		return dbg.cmdBack(tk)

	case cmdGoto:
		v, err := tk.value()
		if err != nil {
			return err
		}
		frame, err := dbg.rwnd.GotoFrame(int(v))
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "gone to frame %d", frame)

	case cmdFrames:
		fr := dbg.rwnd.GetFrames()
		dbg.printLine(terminal.StyleMachineInfo, "frames %d to %d (current %d)", fr.Start, fr.End, fr.Current)

	case cmdBreak:
		if tk.remaining() == 0 {
			dbg.brk.list(dbg.term)
			return nil
		}
		addr, err := tk.address()
		if err != nil {
			return err
		}
		if err := dbg.brk.add(addr); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "breakpoint added (PC->$%08x)", addr)

	case cmdDrop:
		v, err := tk.value()
		if err != nil {
			return err
		}
		if err := dbg.brk.drop(int(v)); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "breakpoint #%d dropped", v)

	case cmdClear:
		dbg.brk.clear()
		dbg.printLine(terminal.StyleFeedback, "breakpoints cleared")

	case cmdCPU:
		dbg.printLine(terminal.StyleMachineInfo, dbg.gba.CPU.String())

	case cmdPeek:
		return dbg.cmdPeek(tk)

	case cmdPoke:
		return dbg.cmdPoke(tk)

	case cmdList:
		return dbg.cmdList(tk)

	case cmdCheat:
		return dbg.cmdCheat(tk)

	case cmdMemViz:
		return dbg.cmdMemViz(tk)

	case cmdLog:
		if s, ok := tk.get(); ok && strings.ToUpper(s) == "CLEAR" {
			logger.Clear()
			dbg.printLine(terminal.StyleFeedback, "log cleared")
			return nil
		}
		s := &strings.Builder{}
		logger.Tail(s, 20)
		if s.Len() == 0 {
			dbg.printLine(terminal.StyleFeedback, "log is empty")
			return nil
		}
		dbg.printLine(terminal.StyleLog, strings.TrimRight(s.String(), "\n"))
	}

	return nil
}

func (dbg *Debugger) cmdHelp(tk *tokens) {
	if c, ok := tk.get(); ok {
		cmd, err := matchCommand(c)
		if err != nil {
			dbg.printLine(terminal.StyleError, "%v", err)
			return
		}
		dbg.printLine(terminal.StyleHelp, "%s: %s", cmd, commandsHelp[cmd])
		return
	}

	dbg.printLine(terminal.StyleHelp, strings.Join(commandNames(), " "))
}

func (dbg *Debugger) cmdBack(tk *tokens) error {
	num := 1
	if v, err := tk.value(); err == nil {
		num = int(v)
	}
	for i := 0; i < num; i++ {
		if err := dbg.rwnd.StepBack(); err != nil {
			return err
		}
	}
	return nil
}

func (dbg *Debugger) cmdPeek(tk *tokens) error {
	addr, err := tk.address()
	if err != nil {
		return err
	}

	num := 64
	if v, err := tk.value(); err == nil {
		num = int(v)
	}

	// a row of 16 bytes per line
	for num > 0 {
		s := strings.Builder{}
		s.WriteString(fmt.Sprintf("%08x ", addr))
		for i := 0; i < 16 && num > 0; i++ {
			s.WriteString(fmt.Sprintf(" %02x", dbg.gba.Mem.Peek(addr)))
			addr++
			num--
		}
		dbg.printLine(terminal.StyleMachineInfo, s.String())
	}

	return nil
}

func (dbg *Debugger) cmdPoke(tk *tokens) error {
	addr, err := tk.address()
	if err != nil {
		return err
	}

	if tk.remaining() == 0 {
		return curated.Errorf("poke value required")
	}

	for tk.remaining() > 0 {
		v, err := tk.value()
		if err != nil {
			return err
		}
		if v > 0xff {
			return curated.Errorf("poke value must be a byte ($%x is too large)", v)
		}
		dbg.gba.Mem.Write8(addr, uint8(v))
		addr++
	}

	return nil
}

func (dbg *Debugger) cmdList(tk *tokens) error {
	addr := dbg.gba.CPU.PC()
	if a, err := tk.address(); err == nil {
		addr = a
	}

	num := 8
	if v, err := tk.value(); err == nil {
		num = int(v)
	}

	for _, e := range disassembly.Block(dbg.gba.Mem, addr, dbg.gba.CPU.Reg.Thumb(), num) {
		style := terminal.StyleMachineInfo
		if e.Address == dbg.gba.CPU.PC() {
			style = terminal.StyleInstructionStep
		}
		dbg.printLine(style, e.String())
	}

	return nil
}

func (dbg *Debugger) cmdCheat(tk *tokens) error {
	sub, _ := tk.get()

	switch strings.ToUpper(sub) {
	case "ADD":
		code, ok := tk.get()
		if !ok {
			return curated.Errorf("cheat code required")
		}
		description := tk.remainder()
		if description == "" {
			description = code
		}
		if n := dbg.cht.AddCheat(description, code); n == 0 {
			dbg.cht.RemoveCheat(len(dbg.cht.Cheats()) - 1)
			return curated.Errorf("cheat code not recognised (%s)", code)
		}
		dbg.printLine(terminal.StyleFeedback, "cheat added (%s)", description)

	case "LIST", "":
		cheats := dbg.cht.Cheats()
		if len(cheats) == 0 {
			dbg.printLine(terminal.StyleFeedback, "no cheats")
			return nil
		}
		for i, c := range cheats {
			enabled := "on"
			if !c.Enabled {
				enabled = "off"
			}
			dbg.printLine(terminal.StyleFeedback, " %d: %s (%s)", i, c.Description, enabled)
		}

	case "DROP":
		v, err := tk.value()
		if err != nil {
			return err
		}
		dbg.cht.RemoveCheat(int(v))

	case "ON", "OFF":
		v, err := tk.value()
		if err != nil {
			return err
		}
		dbg.cht.ToggleCheat(int(v), strings.ToUpper(sub) == "ON")

	default:
		return curated.Errorf("unrecognised cheat command (%s)", sub)
	}

	return nil
}

// cmdMemViz writes a graphviz (dot) file describing the entire machine
// state. useful when studying how the emulation hangs together.
func (dbg *Debugger) cmdMemViz(tk *tokens) error {
	filename, ok := tk.get()
	if !ok {
		return curated.Errorf("memviz filename required")
	}

	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("memviz: %v", err)
	}
	defer f.Close()

	memviz.Map(f, dbg.gba.Snapshot())
	dbg.printLine(terminal.StyleFeedback, "machine state written to %s", filename)

	return nil
}
