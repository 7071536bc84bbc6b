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

// readIO16 reads a halfword from the IO block, forwarding registers that are
// owned by a peripheral rather than by the stored bytes.
func (mem *Memory) readIO16(offset uint32) uint16 {
	switch {
	case offset >= RegTM0CNT_L && offset <= RegTM3CNT_H:
		if mem.Timers != nil {
			return mem.Timers.ReadRegister(offset)
		}
	case offset >= RegSOUNDCNT_L && offset < RegFIFO_A:
		if mem.Audio != nil {
			return mem.Audio.ReadRegister(offset)
		}
	}
	return read16(mem.IO, offset&^0x01)
}

func (mem *Memory) readIO8(offset uint32) uint8 {
	v := mem.readIO16(offset &^ 0x01)
	if offset&0x01 == 0x01 {
		return uint8(v >> 8)
	}
	return uint8(v)
}

// writeIO16 writes a halfword to the IO block, applying register side
// effects.
func (mem *Memory) writeIO16(offset uint32, data uint16) {
	offset &^= 0x01

	switch {
	case offset == RegDISPSTAT:
		// the blanking and coincidence flags in the low bits are owned by
		// the video hardware
		v := read16(mem.IO, offset)
		mem.poke16(offset, (data&^0x0007)|(v&0x0007))
		return

	case offset == RegVCOUNT:
		// read-only
		return

	case offset == RegIF:
		// acknowledging an interrupt means writing a 1 to its bit
		v := read16(mem.IO, offset)
		mem.poke16(offset, v&^data)
		return

	case offset == RegHALTCNT&^0x01:
		// the halt register is the high byte. bit 7 would select the deeper
		// stop mode which is treated the same way
		mem.IO[RegPOSTFLG] = uint8(data)
		mem.haltRequested = true
		return

	case offset >= RegTM0CNT_L && offset <= RegTM3CNT_H:
		if mem.Timers != nil {
			mem.Timers.WriteRegister(offset, data)
			return
		}

	case offset >= RegSOUNDCNT_L && offset < RegFIFO_A:
		if mem.Audio != nil {
			mem.Audio.WriteRegister(offset, data)
			return
		}

	case offset >= RegFIFO_A && offset < RegFIFO_B+4:
		if mem.Audio != nil {
			mem.Audio.WriteFIFO(offset, uint32(data), 2)
		}
		return

	case offset >= RegDMA0SAD && offset <= RegDMA3CNT_H:
		mem.poke16(offset, data)
		mem.DMA.registerWrite(offset)
		return

	case (offset >= RegBG2X && offset < RegBG3PA) || (offset >= RegBG3X && offset < RegWIN0H):
		mem.poke16(offset, data)
		if mem.Video != nil {
			mem.Video.NotifyRegisterWrite(offset)
		}
		return
	}

	mem.poke16(offset, data)
}

func (mem *Memory) writeIO8(offset uint32, data uint8) {
	switch offset {
	case RegIF, RegIF + 1:
		// byte-granular acknowledge
		mem.IO[offset] &^= data
		return

	case RegHALTCNT:
		mem.haltRequested = true
		return

	case RegPOSTFLG:
		mem.IO[offset] = data
		return
	}

	// read-modify-write through the halfword path so that side effects and
	// peripheral forwarding apply
	v := mem.readIO16(offset &^ 0x01)
	if offset&0x01 == 0x01 {
		v = (v & 0x00ff) | uint16(data)<<8
	} else {
		v = (v & 0xff00) | uint16(data)
	}
	mem.writeIO16(offset&^0x01, v)
}
