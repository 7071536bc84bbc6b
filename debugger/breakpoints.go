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

// breakpoints halt execution when the program counter reaches a specific
// address. they are checked after every instruction so a breakpoint in
// IWRAM is just as effective as one in the cartridge.

package debugger

import (
	"fmt"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/debugger/terminal"
)

type breakpoints struct {
	dbg    *Debugger
	breaks []breaker
}

type breaker struct {
	addr uint32
}

func (bk breaker) String() string {
	return fmt.Sprintf("PC->$%08x", bk.addr)
}

func newBreakpoints(dbg *Debugger) *breakpoints {
	bp := &breakpoints{dbg: dbg}
	bp.clear()
	return bp
}

func (bp *breakpoints) clear() {
	bp.breaks = make([]breaker, 0, 10)
}

func (bp *breakpoints) add(addr uint32) error {
	for _, bk := range bp.breaks {
		if bk.addr == addr {
			return curated.Errorf("breakpoint already exists (%s)", bk)
		}
	}
	bp.breaks = append(bp.breaks, breaker{addr: addr})
	return nil
}

func (bp *breakpoints) drop(num int) error {
	if len(bp.breaks) == 0 {
		return curated.Errorf("no breakpoints to drop")
	}
	if num < 0 || num >= len(bp.breaks) {
		return curated.Errorf("breakpoint #%d is not defined", num)
	}
	bp.breaks = append(bp.breaks[:num], bp.breaks[num+1:]...)
	return nil
}

// check returns true if execution should halt.
func (bp *breakpoints) check() bool {
	pc := bp.dbg.gba.CPU.PC()
	for _, bk := range bp.breaks {
		if bk.addr == pc {
			return true
		}
	}
	return false
}

func (bp breakpoints) list(output terminal.Output) {
	if len(bp.breaks) == 0 {
		output.TermPrintLine(terminal.StyleFeedback, "no breakpoints")
		return
	}
	for i, bk := range bp.breaks {
		output.TermPrintLine(terminal.StyleFeedback, fmt.Sprintf(" %d: %s", i, bk))
	}
}
