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

// Package apu implements the direct sound half of the audio hardware: two
// byte FIFOs fed by software or by DMA, drained one sample at a time by
// timer overflows, mixed and resampled into a lock-free ring for whatever
// output device is attached.
//
// The four legacy wave/noise channels are not synthesised. Their registers
// are accepted and stored so software that programs them is unaffected, but
// they contribute silence to the mix.
package apu

import (
	"github.com/jetsetilly/gopheradvance/hardware/memory"
)

// SampleFreq is the rate at which the mixer produces sample pairs.
const SampleFreq = 32768

// system clock cycles per output sample.
const cyclesPerSample = 16777216 / SampleFreq

// fifoSize is the depth of each direct sound FIFO in bytes.
const fifoSize = 32

// fields of the direct sound control register.
const (
	dsAVolumeFull = 0x0004
	dsBVolumeFull = 0x0008
	dsARight      = 0x0100
	dsALeft       = 0x0200
	dsATimer1     = 0x0400
	dsAReset      = 0x0800
	dsBRight      = 0x1000
	dsBLeft       = 0x2000
	dsBTimer1     = 0x4000
	dsBReset      = 0x8000
)

// master enable bit in SOUNDCNT_X.
const masterEnable = 0x0080

// fifo is a simple byte queue. no locking is needed because all access
// happens on the emulation goroutine.
type fifo struct {
	data  [fifoSize]int8
	read  int
	write int
	count int

	// the sample currently on the output of the FIFO
	current int8
}

func (f *fifo) push(b int8) {
	if f.count == fifoSize {
		return
	}
	f.data[f.write] = b
	f.write = (f.write + 1) % fifoSize
	f.count++
}

func (f *fifo) pop() {
	if f.count == 0 {
		return
	}
	f.current = f.data[f.read]
	f.read = (f.read + 1) % fifoSize
	f.count--
}

func (f *fifo) reset() {
	*f = fifo{}
}

// APU is the audio hardware.
//
// Implements the memory.AudioBus and timer.OverflowListener interfaces.
type APU struct {
	mem *memory.Memory

	fifoA fifo
	fifoB fifo

	// control registers
	cntL uint16
	cntH uint16
	cntX uint16
	bias uint16

	// cycles not yet converted to output samples
	sub int

	// Samples is the ring the output device drains
	Samples *Ring
}

// NewAPU is the preferred method of initialisation for the APU type.
func NewAPU(mem *memory.Memory) *APU {
	apu := &APU{
		mem:     mem,
		Samples: NewRing(SampleFreq / 16),
	}
	apu.Reset()
	return apu
}

// Reset the audio hardware to its power-on state.
func (apu *APU) Reset() {
	apu.fifoA.reset()
	apu.fifoB.reset()
	apu.cntL = 0
	apu.cntH = 0
	apu.cntX = 0
	apu.bias = 0x0200
	apu.sub = 0
}

// ReadRegister implements the memory.AudioBus interface.
func (apu *APU) ReadRegister(offset uint32) uint16 {
	switch offset {
	case memory.RegSOUNDCNT_L:
		return apu.cntL
	case memory.RegSOUNDCNT_H:
		return apu.cntH
	case memory.RegSOUNDCNT_X:
		return apu.cntX
	case memory.RegSOUNDBIAS:
		return apu.bias
	}
	return 0
}

// WriteRegister implements the memory.AudioBus interface.
func (apu *APU) WriteRegister(offset uint32, data uint16) {
	switch offset {
	case memory.RegSOUNDCNT_L:
		apu.cntL = data
	case memory.RegSOUNDCNT_H:
		// the reset bits act on write and always read back as zero
		if data&dsAReset == dsAReset {
			apu.fifoA.reset()
		}
		if data&dsBReset == dsBReset {
			apu.fifoB.reset()
		}
		apu.cntH = data &^ (dsAReset | dsBReset)
	case memory.RegSOUNDCNT_X:
		// only the master enable is writable. the low bits are the legacy
		// channel status flags
		apu.cntX = (apu.cntX & 0x000f) | (data & masterEnable)
	case memory.RegSOUNDBIAS:
		apu.bias = data
	}
}

// WriteFIFO implements the memory.AudioBus interface.
func (apu *APU) WriteFIFO(offset uint32, data uint32, width int) {
	f := &apu.fifoA
	if offset >= memory.RegFIFO_B {
		f = &apu.fifoB
	}
	for i := 0; i < width; i++ {
		f.push(int8(data >> (i * 8)))
	}
}

// TimerOverflow implements the timer.OverflowListener interface. Each
// overflow of a FIFO's selected timer clocks one sample out of that FIFO. A
// FIFO running half empty asks the DMA controller for a refill.
func (apu *APU) TimerOverflow(timer int, count int) {
	if timer > 1 {
		return
	}

	if apu.fifoTimer(&apu.fifoA) == timer {
		for i := 0; i < count; i++ {
			apu.fifoA.pop()
		}
		if apu.fifoA.count <= fifoSize/2 {
			apu.mem.DMA.OnFIFO(memory.RegFIFO_A)
		}
	}

	if apu.fifoTimer(&apu.fifoB) == timer {
		for i := 0; i < count; i++ {
			apu.fifoB.pop()
		}
		if apu.fifoB.count <= fifoSize/2 {
			apu.mem.DMA.OnFIFO(memory.RegFIFO_B)
		}
	}
}

func (apu *APU) fifoTimer(f *fifo) int {
	var sel uint16
	if f == &apu.fifoA {
		sel = apu.cntH & dsATimer1
	} else {
		sel = apu.cntH & dsBTimer1
	}
	if sel == 0 {
		return 0
	}
	return 1
}

// Step advances the mixer by the given number of system clock cycles,
// producing output samples at SampleFreq.
func (apu *APU) Step(cycles int) {
	apu.sub += cycles
	for apu.sub >= cyclesPerSample {
		apu.sub -= cyclesPerSample
		left, right := apu.mix()
		apu.Samples.Write(left, right)
	}
}

// mix produces one stereo sample pair from the current FIFO outputs.
func (apu *APU) mix() (int16, int16) {
	if apu.cntX&masterEnable == 0x0000 {
		return 0, 0
	}

	var left, right int

	// FIFO samples are 8 bit signed. scaled up to 14 bit-ish range, halved
	// if the volume bit says so
	a := int(apu.fifoA.current) << 6
	if apu.cntH&dsAVolumeFull == 0x0000 {
		a >>= 1
	}
	b := int(apu.fifoB.current) << 6
	if apu.cntH&dsBVolumeFull == 0x0000 {
		b >>= 1
	}

	if apu.cntH&dsALeft == dsALeft {
		left += a
	}
	if apu.cntH&dsARight == dsARight {
		right += a
	}
	if apu.cntH&dsBLeft == dsBLeft {
		left += b
	}
	if apu.cntH&dsBRight == dsBRight {
		right += b
	}

	// scale to the full 16 bit output range with clamping
	return clamp(left << 2), clamp(right << 2)
}

func clamp(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// Snapshot of the audio hardware state, for the rewind system. The output
// ring is deliberately not part of the snapshot.
type Snapshot struct {
	FIFOA fifo
	FIFOB fifo
	CntL  uint16
	CntH  uint16
	CntX  uint16
	Bias  uint16
}

// Snapshot the current audio state.
func (apu *APU) Snapshot() *Snapshot {
	return &Snapshot{
		FIFOA: apu.fifoA,
		FIFOB: apu.fifoB,
		CntL:  apu.cntL,
		CntH:  apu.cntH,
		CntX:  apu.cntX,
		Bias:  apu.bias,
	}
}

// Plumb a previously taken snapshot back into the audio hardware.
func (apu *APU) Plumb(s *Snapshot) {
	apu.fifoA = s.FIFOA
	apu.fifoB = s.FIFOB
	apu.cntL = s.CntL
	apu.cntH = s.CntH
	apu.cntX = s.CntX
	apu.bias = s.Bias
	apu.sub = 0
}
