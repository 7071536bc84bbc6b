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

// Memory is the unified bus. All access from the CPU and the DMA controller
// goes through the Read and Write functions, which return the number of bus
// cycles the access consumed alongside the data.
type Memory struct {
	BIOS    []byte
	EWRAM   []byte
	IWRAM   []byte
	IO      []byte
	Palette []byte
	VRAM    []byte
	OAM     []byte
	GamePak *GamePak

	DMA *DMA

	// register forwarding, plugged in by the hardware package
	Timers TimerBus
	Audio  AudioBus
	Video  VideoBus

	// a write to the halt register stops the CPU until the next interrupt.
	// the CPU collects the request through the HaltRequested function
	haltRequested bool

	// cycles consumed by DMA transfers since the last call to DrainStall.
	// DMA halts the CPU so the hardware loop bills these cycles to the
	// peripherals as if the CPU had spent them
	stallCycles int
}

// NewMemory is the preferred method of initialisation for the Memory type.
// The cartridge is attached separately with AttachGamePak.
func NewMemory() *Memory {
	mem := &Memory{
		BIOS:    make([]byte, memorymap.SizeBIOS),
		EWRAM:   make([]byte, memorymap.SizeEWRAM),
		IWRAM:   make([]byte, memorymap.SizeIWRAM),
		IO:      make([]byte, memorymap.SizeIO),
		Palette: make([]byte, memorymap.SizePalette),
		VRAM:    make([]byte, memorymap.SizeVRAM),
		OAM:     make([]byte, memorymap.SizeOAM),
		GamePak: NewGamePak(nil, backup.NewDevice(backup.None)),
	}
	mem.DMA = newDMA(mem)
	mem.Reset()
	return mem
}

// Reset the bus to its power-on state. The cartridge and its backup device
// are left alone.
func (mem *Memory) Reset() {
	clear8(mem.EWRAM)
	clear8(mem.IWRAM)
	clear8(mem.IO)
	clear8(mem.Palette)
	clear8(mem.VRAM)
	clear8(mem.OAM)

	// all keys released
	mem.poke16(RegKEYINPUT, 0x03ff)

	// sound bias resting point
	mem.poke16(RegSOUNDBIAS, 0x0200)

	mem.haltRequested = false
	mem.stallCycles = 0
	mem.DMA.reset()
}

func clear8(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// AttachGamePak connects a cartridge to the bus.
func (mem *Memory) AttachGamePak(gamepak *GamePak) {
	mem.GamePak = gamepak
}

// openBus returns the value seen on an unmapped read. The data lines carry
// the low halfword of the address, repeated.
func openBus(address uint32) uint32 {
	v := address & 0xffff
	return v | v<<16
}

// Read8 returns the byte at address and the bus cycles consumed.
func (mem *Memory) Read8(address uint32) (uint8, int) {
	area, offset := memorymap.MapAddress(address)
	cycles := AccessCycles(area, Width8)

	switch area {
	case memorymap.BIOS:
		return mem.BIOS[offset], cycles
	case memorymap.EWRAM:
		return mem.EWRAM[offset], cycles
	case memorymap.IWRAM:
		return mem.IWRAM[offset], cycles
	case memorymap.IO:
		return mem.readIO8(offset), cycles
	case memorymap.Palette:
		return mem.Palette[offset], cycles
	case memorymap.VRAM:
		return mem.VRAM[offset], cycles
	case memorymap.OAM:
		return mem.OAM[offset], cycles
	case memorymap.GamePak:
		return mem.GamePak.ReadROM(offset), cycles
	case memorymap.SaveRAM:
		if v, ok := mem.GamePak.ReadSaveRAM(offset); ok {
			return v, cycles
		}
		// no device on the save RAM bus. the address lines bleed through
		return uint8(openBus(address) >> ((address & 0x01) * 8)), cycles
	}

	return uint8(openBus(address) >> ((address & 0x03) * 8)), cycles
}

// Read16 returns the halfword at the (aligned) address and the bus cycles
// consumed.
func (mem *Memory) Read16(address uint32) (uint16, int) {
	address &^= 0x01
	area, offset := memorymap.MapAddress(address)
	cycles := AccessCycles(area, Width16)

	switch area {
	case memorymap.BIOS:
		return read16(mem.BIOS, offset), cycles
	case memorymap.EWRAM:
		return read16(mem.EWRAM, offset), cycles
	case memorymap.IWRAM:
		return read16(mem.IWRAM, offset), cycles
	case memorymap.IO:
		return mem.readIO16(offset), cycles
	case memorymap.Palette:
		return read16(mem.Palette, offset), cycles
	case memorymap.VRAM:
		return read16(mem.VRAM, offset), cycles
	case memorymap.OAM:
		return read16(mem.OAM, offset), cycles
	case memorymap.GamePak:
		return mem.GamePak.ReadROM16(offset), cycles
	case memorymap.SaveRAM:
		// the save RAM bus is 8 bits wide. the single byte is mirrored onto
		// both halves of the data bus
		v, _ := mem.Read8(address)
		return uint16(v) | uint16(v)<<8, cycles
	}

	return uint16(openBus(address)), cycles
}

// Read32 returns the word at the (aligned) address and the bus cycles
// consumed.
func (mem *Memory) Read32(address uint32) (uint32, int) {
	address &^= 0x03

	// bill the word access cost rather than two independent halfword reads
	area, _ := memorymap.MapAddress(address)
	cycles := AccessCycles(area, Width32)

	if area == memorymap.Undefined {
		return openBus(address), cycles
	}

	lo, _ := mem.Read16(address)
	hi, _ := mem.Read16(address + 2)

	return uint32(lo) | uint32(hi)<<16, cycles
}

// Write8 stores a byte at address and returns the bus cycles consumed.
func (mem *Memory) Write8(address uint32, data uint8) int {
	area, offset := memorymap.MapAddress(address)
	cycles := AccessCycles(area, Width8)

	switch area {
	case memorymap.EWRAM:
		mem.EWRAM[offset] = data
	case memorymap.IWRAM:
		mem.IWRAM[offset] = data
	case memorymap.IO:
		mem.writeIO8(offset, data)
	case memorymap.Palette:
		// byte writes to palette RAM store the byte in both halves of the
		// addressed halfword
		mem.Palette[offset&^0x01] = data
		mem.Palette[offset|0x01] = data
	case memorymap.VRAM:
		// as palette RAM, but only for background video memory. byte writes
		// to object tile memory are discarded
		if offset < 0x10000 {
			mem.VRAM[offset&^0x01] = data
			mem.VRAM[offset|0x01] = data
		}
	case memorymap.OAM:
		// byte writes to OAM are discarded
	case memorymap.SaveRAM:
		mem.GamePak.WriteSaveRAM(offset, data)
	}

	return cycles
}

// Write16 stores a halfword at the (aligned) address and returns the bus
// cycles consumed.
func (mem *Memory) Write16(address uint32, data uint16) int {
	address &^= 0x01
	area, offset := memorymap.MapAddress(address)
	cycles := AccessCycles(area, Width16)

	switch area {
	case memorymap.EWRAM:
		write16(mem.EWRAM, offset, data)
	case memorymap.IWRAM:
		write16(mem.IWRAM, offset, data)
	case memorymap.IO:
		mem.writeIO16(offset, data)
	case memorymap.Palette:
		write16(mem.Palette, offset, data)
	case memorymap.VRAM:
		write16(mem.VRAM, offset, data)
	case memorymap.OAM:
		write16(mem.OAM, offset, data)
	case memorymap.GamePak:
		mem.GamePak.WriteROM16(offset, data)
	case memorymap.SaveRAM:
		// 8 bit bus. the byte lane selected by the address is stored
		mem.GamePak.WriteSaveRAM(offset, uint8(data))
	}

	return cycles
}

// Write32 stores a word at the (aligned) address and returns the bus cycles
// consumed.
func (mem *Memory) Write32(address uint32, data uint32) int {
	address &^= 0x03
	area, offset := memorymap.MapAddress(address)

	// the audio FIFOs take word writes whole rather than as two halfwords
	if area == memorymap.IO && (offset&^0x04) == RegFIFO_A {
		if mem.Audio != nil {
			mem.Audio.WriteFIFO(offset, data, 4)
		}
		return AccessCycles(area, Width32)
	}

	mem.Write16(address, uint16(data))
	mem.Write16(address+2, uint16(data>>16))

	return AccessCycles(area, Width32)
}

// RequestInterrupt raises the given interrupt in the IF register. Whether it
// reaches the CPU depends on the IE and IME registers.
func (mem *Memory) RequestInterrupt(irq uint16) {
	v := read16(mem.IO, RegIF)
	mem.poke16(RegIF, v|irq)
}

// IRQAsserted returns true if an enabled interrupt is pending and the master
// enable is set.
func (mem *Memory) IRQAsserted() bool {
	if read16(mem.IO, RegIME)&0x0001 != 0x0001 {
		return false
	}
	return read16(mem.IO, RegIE)&read16(mem.IO, RegIF) != 0
}

// IRQPendingRegardless returns true if an enabled interrupt is pending, with
// no reference to the master enable. This is the condition that wakes a
// halted CPU.
func (mem *Memory) IRQPendingRegardless() bool {
	return read16(mem.IO, RegIE)&read16(mem.IO, RegIF) != 0
}

// HaltRequested returns (and clears) the flag raised by a write to the halt
// register.
func (mem *Memory) HaltRequested() bool {
	v := mem.haltRequested
	mem.haltRequested = false
	return v
}

// DrainStall returns (and clears) the bus cycles consumed by DMA transfers
// since the last call.
func (mem *Memory) DrainStall() int {
	v := mem.stallCycles
	mem.stallCycles = 0
	return v
}

// Peek returns the byte at address without cycle accounting or IO side
// effects. For use by the debugger.
func (mem *Memory) Peek(address uint32) uint8 {
	area, offset := memorymap.MapAddress(address)
	switch area {
	case memorymap.BIOS:
		return mem.BIOS[offset]
	case memorymap.EWRAM:
		return mem.EWRAM[offset]
	case memorymap.IWRAM:
		return mem.IWRAM[offset]
	case memorymap.IO:
		return mem.IO[offset]
	case memorymap.Palette:
		return mem.Palette[offset]
	case memorymap.VRAM:
		return mem.VRAM[offset]
	case memorymap.OAM:
		return mem.OAM[offset]
	case memorymap.GamePak:
		rom := mem.GamePak.ROM
		if len(rom) == 0 {
			return 0
		}
		return rom[int(offset)%len(rom)]
	case memorymap.SaveRAM:
		v, _ := mem.GamePak.ReadSaveRAM(offset)
		return v
	}
	return 0
}

// PokeIO stores a halfword directly into the IO block, with no side effects.
// Used by peripherals that own a register's value, and by the debugger.
func (mem *Memory) PokeIO(offset uint32, data uint16) {
	write16(mem.IO, offset, data)
}

// PeekIO reads a halfword directly from the IO block, with no side effects.
func (mem *Memory) PeekIO(offset uint32) uint16 {
	return read16(mem.IO, offset)
}

func (mem *Memory) poke16(offset uint32, data uint16) {
	write16(mem.IO, offset, data)
}

func (mem *Memory) peek16(offset uint32) uint16 {
	return read16(mem.IO, offset)
}

func read16(data []byte, offset uint32) uint16 {
	return uint16(data[offset]) | uint16(data[offset+1])<<8
}

func write16(data []byte, offset uint32, v uint16) {
	data[offset] = uint8(v)
	data[offset+1] = uint8(v >> 8)
}
