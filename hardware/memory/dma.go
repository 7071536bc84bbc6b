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
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/hardware/memory/memorymap"
)

// fields of the DMA control register.
const (
	dmaDestCtrlMask  = 0x0060
	dmaDestCtrlShift = 5
	dmaSrcCtrlMask   = 0x0180
	dmaSrcCtrlShift  = 7
	dmaRepeat        = 0x0200
	dmaWidth32       = 0x0400
	dmaTimingMask    = 0x3000
	dmaTimingShift   = 12
	dmaIRQ           = 0x4000
	dmaEnable        = 0x8000
)

// address adjustment values for the source and destination control fields.
const (
	dmaAdjustIncrement = 0
	dmaAdjustDecrement = 1
	dmaAdjustFixed     = 2
	dmaAdjustReload    = 3
)

// transfer start timings.
const (
	dmaTimingImmediate = 0
	dmaTimingVBlank    = 1
	dmaTimingHBlank    = 2
	dmaTimingSpecial   = 3
)

// the per-channel overhead of starting a transfer.
const dmaSetupCycles = 2

// dmaChannel holds the internal state of one DMA channel. the source,
// destination and count registers are latched into internal copies at the
// moment the channel is enabled, and the internal copies are what a running
// transfer updates. software can rewrite the registers while the channel is
// enabled without affecting it.
type dmaChannel struct {
	src     uint32
	dst     uint32
	count   int
	control uint16
	enabled bool
}

// DMA is the four channel DMA controller. A transfer stops the CPU, so the
// cycles a transfer consumes are accumulated in the bus's stall counter for
// the hardware loop to account for.
type DMA struct {
	mem *Memory
	ch  [4]dmaChannel
}

func newDMA(mem *Memory) *DMA {
	return &DMA{mem: mem}
}

func (dma *DMA) reset() {
	dma.ch = [4]dmaChannel{}
}

// register offsets for channel n are at a stride of 12 from channel 0.
func dmaChannelBase(n int) uint32 {
	return RegDMA0SAD + uint32(n)*12
}

// countMask limits the word count register. the first three channels count
// 14 bits, the last 16 bits.
func dmaCountMask(n int) int {
	if n == 3 {
		return 0xffff
	}
	return 0x3fff
}

// registerWrite is called by the bus for every write into the DMA register
// range. only a write that sets the enable bit has an immediate effect.
func (dma *DMA) registerWrite(offset uint32) {
	for n := 0; n < 4; n++ {
		if offset != dmaChannelBase(n)+10 {
			continue
		}

		control := dma.mem.peek16(dmaChannelBase(n) + 10)
		ch := &dma.ch[n]

		enable := control&dmaEnable == dmaEnable
		if enable && !ch.enabled {
			dma.latch(n, control)
			if (control&dmaTimingMask)>>dmaTimingShift == dmaTimingImmediate {
				dma.run(n)
			}
		} else if !enable {
			ch.enabled = false
		}
		return
	}
}

// latch the channel registers into the internal copies.
func (dma *DMA) latch(n int, control uint16) {
	ch := &dma.ch[n]
	base := dmaChannelBase(n)

	ch.src = uint32(dma.mem.peek16(base)) | uint32(dma.mem.peek16(base+2))<<16
	ch.dst = uint32(dma.mem.peek16(base+4)) | uint32(dma.mem.peek16(base+6))<<16
	ch.count = dma.latchCount(n)
	ch.control = control
	ch.enabled = true
}

func (dma *DMA) latchCount(n int) int {
	count := int(dma.mem.peek16(dmaChannelBase(n)+8)) & dmaCountMask(n)
	if count == 0 {
		count = dmaCountMask(n) + 1
	}
	return count
}

// OnVBlank triggers channels waiting for the start of the vertical blank.
func (dma *DMA) OnVBlank() {
	dma.trigger(dmaTimingVBlank)
}

// OnHBlank triggers channels waiting for the start of the horizontal blank.
func (dma *DMA) OnHBlank() {
	dma.trigger(dmaTimingHBlank)
}

// OnFIFO triggers a sound DMA refill of the FIFO at the given IO offset.
// Channels 1 and 2 in the special timing mode serve the FIFOs; which FIFO a
// channel serves is decided by its (latched) destination address.
func (dma *DMA) OnFIFO(fifo uint32) {
	address := memorymap.OriginIO + fifo

	for n := 1; n <= 2; n++ {
		ch := &dma.ch[n]
		if !ch.enabled {
			continue
		}
		if (ch.control&dmaTimingMask)>>dmaTimingShift != dmaTimingSpecial {
			continue
		}
		if ch.dst != address {
			continue
		}

		// a sound DMA is always four words into a fixed destination
		cycles := dmaSetupCycles
		for i := 0; i < 4; i++ {
			v, c := dma.mem.Read32(ch.src)
			cycles += c
			cycles += dma.mem.Write32(ch.dst, v)
			ch.src += 4
		}
		dma.mem.stallCycles += cycles

		if ch.control&dmaIRQ == dmaIRQ {
			dma.mem.RequestInterrupt(IntDMA0 << n)
		}
	}
}

func (dma *DMA) trigger(timing uint16) {
	for n := 0; n < 4; n++ {
		ch := &dma.ch[n]
		if ch.enabled && (ch.control&dmaTimingMask)>>dmaTimingShift == timing {
			dma.run(n)
		}
	}
}

// run performs the whole transfer for a channel at once, accumulating the
// bus cycles it consumes into the stall counter.
func (dma *DMA) run(n int) {
	ch := &dma.ch[n]
	control := ch.control

	width := uint32(2)
	if control&dmaWidth32 == dmaWidth32 {
		width = 4
	}

	// an eeprom deduces its address width from the length of the transfer
	// that addresses it
	if area, _ := memorymap.MapAddress(ch.dst); area == memorymap.GamePak {
		if serial, ok := dma.mem.GamePak.Backup.(backup.SerialDevice); ok {
			serial.ObserveTransferLength(ch.count)
		}
	}

	cycles := dmaSetupCycles

	for i := 0; i < ch.count; i++ {
		if width == 4 {
			v, c := dma.mem.Read32(ch.src)
			cycles += c
			cycles += dma.mem.Write32(ch.dst, v)
		} else {
			v, c := dma.mem.Read16(ch.src)
			cycles += c
			cycles += dma.mem.Write16(ch.dst, v)
		}

		switch (control & dmaSrcCtrlMask) >> dmaSrcCtrlShift {
		case dmaAdjustIncrement:
			ch.src += width
		case dmaAdjustDecrement:
			ch.src -= width
		}

		switch (control & dmaDestCtrlMask) >> dmaDestCtrlShift {
		case dmaAdjustIncrement, dmaAdjustReload:
			ch.dst += width
		case dmaAdjustDecrement:
			ch.dst -= width
		}
	}

	dma.mem.stallCycles += cycles

	if control&dmaIRQ == dmaIRQ {
		dma.mem.RequestInterrupt(IntDMA0 << n)
	}

	timing := (control & dmaTimingMask) >> dmaTimingShift
	if control&dmaRepeat == dmaRepeat && timing != dmaTimingImmediate {
		// a repeating channel reloads its count, and its destination if the
		// destination control says so, and stays enabled
		ch.count = dma.latchCount(n)
		if (control&dmaDestCtrlMask)>>dmaDestCtrlShift == dmaAdjustReload {
			base := dmaChannelBase(n)
			ch.dst = uint32(dma.mem.peek16(base+4)) | uint32(dma.mem.peek16(base+6))<<16
		}
		return
	}

	// the transfer is over. clear the enable bit in the register as well as
	// the internal state
	ch.enabled = false
	dma.mem.poke16(dmaChannelBase(n)+10, control&^dmaEnable)
}
