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

package hardware_test

import (
	"encoding/binary"
	"testing"

	"github.com/jetsetilly/gopheradvance/cartridgeloader"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/input"
	"github.com/jetsetilly/gopheradvance/hardware/memory/backup"
	"github.com/jetsetilly/gopheradvance/hardware/ppu"
	"github.com/jetsetilly/gopheradvance/test"
)

// buildROM assembles a minimal cartridge image. The program words are
// placed at the entry point and the header fields are left blank, which
// is good enough for detection and attachment.
func buildROM(program ...uint32) []byte {
	rom := make([]byte, 0x200)
	for i, p := range program {
		binary.LittleEndian.PutUint32(rom[i*4:], p)
	}
	copy(rom[0xa0:], "TEST")
	return rom
}

func attach(t *testing.T, rom []byte) *hardware.GBA {
	t.Helper()
	gba := hardware.NewGBA()
	cartload := cartridgeloader.Loader{Filename: "test.gba", Data: rom}
	err := gba.AttachCartridge(cartload)
	test.ExpectedSuccess(t, err)
	return gba
}

func TestGBA_attachAndRun(t *testing.T) {
	gba := attach(t, buildROM(
		0xe3a0002a, // mov r0, #42
		0xeafffffe, // b .
	))

	test.Equate(t, gba.CPU.PC(), 0x08000000)

	for i := 0; i < 10; i++ {
		cycles := gba.Step()
		test.ExpectedSuccess(t, cycles > 0)
	}

	// the program has settled into the idle loop
	test.Equate(t, gba.CPU.Reg.Reg(0), 42)
	test.Equate(t, gba.CPU.PC(), 0x08000004)
	test.ExpectedSuccess(t, gba.TotalCycles() > 0)
}

func TestGBA_subsystemsShareTheClock(t *testing.T) {
	gba := attach(t, buildROM(
		0xeafffffe, // b .
	))

	// run for at least two scanlines of guest time
	for gba.TotalCycles() < 3000 {
		gba.Step()
	}

	line, lineCycles := gba.PPU.Coords()
	elapsed := int(gba.TotalCycles())
	test.Equate(t, line, elapsed/1232)
	test.Equate(t, lineCycles, elapsed%1232)
}

func TestGBA_inputReachesRegister(t *testing.T) {
	gba := attach(t, buildROM(
		0xeafffffe, // b .
	))

	// KEYINPUT is active low
	test.Equate(t, gba.Mem.Peek(0x04000130), 0xff)

	gba.UpdateInput(uint16(input.KeyA | input.KeyStart))
	v := uint16(gba.Mem.Peek(0x04000130)) | uint16(gba.Mem.Peek(0x04000131))<<8
	test.Equate(t, v&0x03ff, 0x03f6)

	gba.UpdateInput(0)
	v = uint16(gba.Mem.Peek(0x04000130)) | uint16(gba.Mem.Peek(0x04000131))<<8
	test.Equate(t, v&0x03ff, 0x03ff)
}

func TestGBA_framebuffer(t *testing.T) {
	gba := attach(t, buildROM(
		0xeafffffe, // b .
	))

	pixels := gba.Framebuffer()
	test.Equate(t, len(pixels), ppu.HorizPixels*ppu.VertPixels*4)
}

func TestGBA_snapshotPlumb(t *testing.T) {
	gba := attach(t, buildROM(
		0xe3a00000, // mov r0, #0
		0xe2800001, // add r0, r0, #1
		0xeafffffc, // b -2
	))

	for i := 0; i < 20; i++ {
		gba.Step()
	}
	state := gba.Snapshot()
	pc := gba.CPU.PC()
	r0 := gba.CPU.Reg.Reg(0)
	cycles := gba.TotalCycles()

	for i := 0; i < 20; i++ {
		gba.Step()
	}
	test.ExpectedSuccess(t, gba.CPU.Reg.Reg(0) != r0)

	gba.Plumb(state)
	test.Equate(t, gba.CPU.PC(), pc)
	test.Equate(t, gba.CPU.Reg.Reg(0), r0)
	test.Equate(t, gba.TotalCycles(), cycles)

	// the restored console continues correctly
	gba.Step()
	gba.Step()
	test.ExpectedSuccess(t, gba.TotalCycles() > cycles)
}

func TestGBA_eepromBusyClearsWithGuestTime(t *testing.T) {
	gba := hardware.NewGBA()
	device := backup.NewDevice(backup.EEPROM4K)
	if s, ok := device.(backup.SerialDevice); ok {
		s.LockSize()
	}
	cartload := cartridgeloader.Loader{Filename: "test.gba", Data: buildROM(
		0xeafffffe, // b .
	)}
	err := gba.AttachCartridgeWithDevice(cartload, device)
	test.ExpectedSuccess(t, err)

	// write request to block 0: "10", 6 address bits, 64 data bits and
	// the stop bit, one bit per bus access
	send := func(bit uint16) {
		gba.Mem.Write16(0x0d000000, bit)
	}
	send(1)
	send(0)
	for i := 0; i < 6; i++ {
		send(0)
	}
	var value uint64 = 0xfedcba9876543210
	for i := 63; i >= 0; i-- {
		send(uint16(value>>i) & 0x0001)
	}
	send(0)

	// the chip reports busy immediately after the commit
	data, _ := gba.Mem.Read16(0x0d000000)
	test.Equate(t, data, 0)

	// the busy period ends with the passage of guest time. poll the ready
	// bit the way a real program does
	ready := false
	for i := 0; i < 10000 && !ready; i++ {
		gba.Step()
		data, _ = gba.Mem.Read16(0x0d000000)
		ready = data&0x0001 == 0x0001
	}
	test.ExpectedSuccess(t, ready)
}
