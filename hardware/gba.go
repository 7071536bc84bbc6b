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
	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/apu"
	"github.com/jetsetilly/gopheradvance/hardware/cpu"
	"github.com/jetsetilly/gopheradvance/hardware/input"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
	"github.com/jetsetilly/gopheradvance/hardware/timer"
	"github.com/jetsetilly/gopheradvance/logger"
)

// ClkFreq is the master clock frequency in cycles per second.
const ClkFreq = 16777216

// the watchdog reports a program counter that has not moved for this many
// cycles. ten seconds of guest time
const watchdogThreshold = ClkFreq * 10

// GBA represents the console and everything attached to it.
type GBA struct {
	CPU    *cpu.CPU
	Mem    *memory.Memory
	Timers *timer.Timers
	APU    *apu.APU
	PPU    *ppu.PPU
	Keypad *input.Keypad

	// total number of cycles performed since the last Reset()
	totalCycles uint64

	// stall watchdog. the program counter is sampled and compared some
	// cycles later. a stuck counter is reported, never terminated
	wdSample   uint32
	wdCycles   int
	wdReported bool

	// the attached backup device when it sits on the serial cartridge
	// bus. the post-write busy timer needs advancing with guest time
	serial backup.SerialDevice
}

// NewGBA creates a new console and everything associated with the
// hardware. It is used for all aspects of emulation: debugging sessions
// and regular play.
func NewGBA() *GBA {
	gba := &GBA{}

	gba.Mem = memory.NewMemory()
	gba.CPU = cpu.NewCPU(gba.Mem)
	gba.Timers = timer.NewTimers(gba.Mem)
	gba.APU = apu.NewAPU(gba.Mem)
	gba.PPU = ppu.NewPPU(gba.Mem)
	gba.Keypad = input.NewKeypad(gba.Mem)

	// register forwarding and the timer-driven audio stream
	gba.Mem.Timers = gba.Timers
	gba.Mem.Audio = gba.APU
	gba.Mem.Video = gba.PPU
	gba.Timers.SetOverflowListener(gba.APU)

	return gba
}

// AttachCartridge loads a cartridge into the emulator and resets the
// console. The backup device is detected from the ROM contents.
func (gba *GBA) AttachCartridge(cartload cartridgeloader.Loader) error {
	err := cartload.Load()
	if err != nil {
		return curated.Errorf("gba: %v", err)
	}

	deviceType, definite := backup.Detect(cartload.Data)
	logger.Logf("gba", "%s: save type %s", cartload.ShortName(), deviceType)

	device := backup.NewDevice(deviceType)
	if e, ok := device.(backup.SerialDevice); ok && definite {
		e.LockSize()
	}

	return gba.AttachCartridgeWithDevice(cartload, device)
}

// AttachCartridgeWithDevice is like AttachCartridge but uses the supplied
// backup device instead of detecting one from the ROM. The setup package
// uses it when the per-title database knows better than detection.
func (gba *GBA) AttachCartridgeWithDevice(cartload cartridgeloader.Loader, device backup.Device) error {
	err := cartload.Load()
	if err != nil {
		return curated.Errorf("gba: %v", err)
	}

	gamepak := memory.NewGamePak(cartload.Data, device)
	gba.Mem.AttachGamePak(gamepak)

	gba.serial = nil
	if e, ok := device.(backup.SerialDevice); ok {
		gba.serial = e
	}

	gba.Reset()
	return nil
}

// Reset emulates the effect of the reset line. The cartridge and the
// contents of its backup device are untouched.
func (gba *GBA) Reset() {
	gba.Mem.Reset()
	gba.CPU.Reset()
	gba.Timers.Reset()
	gba.APU.Reset()
	gba.PPU.Reset()
	gba.Keypad.Reset()
	gba.totalCycles = 0
	gba.wdSample = gba.CPU.PC()
	gba.wdCycles = 0
	gba.wdReported = false
}

// Step executes one instruction and advances every other subsystem by the
// cycles it consumed, including any DMA time billed against the bus. The
// total number of consumed cycles is returned.
//
// DMA transfers triggered by the blank intervals or the audio FIFOs
// during the advance are billed in the same call, so guest time stays
// consistent however a copy was performed.
func (gba *GBA) Step() int {
	consumed := gba.CPU.Step()
	consumed += gba.Mem.DrainStall()

	var total int
	for consumed > 0 {
		gba.Timers.Step(consumed)
		gba.PPU.Step(consumed)
		gba.APU.Step(consumed)
		if gba.serial != nil {
			gba.serial.StepBusy(consumed)
		}
		total += consumed
		consumed = gba.Mem.DrainStall()
	}

	gba.totalCycles += uint64(total)
	gba.watchdog(total)

	return total
}

// TotalCycles returns the number of cycles consumed since the last reset.
func (gba *GBA) TotalCycles() uint64 {
	return gba.totalCycles
}

// watchdog compares the program counter against the sample taken a
// threshold of cycles ago. A counter that has not moved is reported
// through the log, once. The emulation is never interfered with, host
// tooling decides whether to intervene.
func (gba *GBA) watchdog(cycles int) {
	gba.wdCycles += cycles
	if gba.wdCycles < watchdogThreshold {
		return
	}
	gba.wdCycles = 0

	pc := gba.CPU.PC()
	if pc != gba.wdSample {
		gba.wdSample = pc
		gba.wdReported = false
		return
	}

	if !gba.wdReported && !gba.CPU.Halted() {
		logger.Logf("gba", "stall: pc unmoved from %08x for %d cycles", pc, watchdogThreshold)
		gba.wdReported = true
	}
}

// UpdateInput replaces the state of the keypad. A set bit is a pressed
// key, in register order.
func (gba *GBA) UpdateInput(pressed uint16) {
	gba.Keypad.SetAll(pressed)
}

// Framebuffer returns the PPU's frame buffer in RGBA order. Read-only.
func (gba *GBA) Framebuffer() []uint8 {
	return gba.PPU.Pixels()
}

// AudioSamples drains up to len(buffer) samples from the audio ring
// buffer, returning the number of samples written. Interleaved stereo.
func (gba *GBA) AudioSamples(buffer []int16) int {
	return gba.APU.Samples.Read(buffer)
}
