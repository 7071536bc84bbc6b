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

// register addresses as offsets into the IO block at 0x04000000.
const (
	RegDISPCNT  = 0x000
	RegDISPSTAT = 0x004
	RegVCOUNT   = 0x006
	RegBG0CNT   = 0x008
	RegBG0HOFS  = 0x010
	RegBG0VOFS  = 0x012
	RegBG2PA    = 0x020
	RegBG2X     = 0x028
	RegBG2Y     = 0x02c
	RegBG3PA    = 0x030
	RegBG3X     = 0x038
	RegBG3Y     = 0x03c
	RegWIN0H    = 0x040
	RegWIN0V    = 0x044
	RegWININ    = 0x048
	RegWINOUT   = 0x04a
	RegMOSAIC   = 0x04c
	RegBLDCNT   = 0x050
	RegBLDALPHA = 0x052
	RegBLDY     = 0x054

	RegSOUNDCNT_L = 0x080
	RegSOUNDCNT_H = 0x082
	RegSOUNDCNT_X = 0x084
	RegSOUNDBIAS  = 0x088
	RegFIFO_A     = 0x0a0
	RegFIFO_B     = 0x0a4

	RegDMA0SAD   = 0x0b0
	RegDMA0CNT_H = 0x0ba
	RegDMA3SAD   = 0x0d4
	RegDMA3CNT_H = 0x0de

	RegTM0CNT_L = 0x100
	RegTM3CNT_H = 0x10e

	RegKEYINPUT = 0x130
	RegKEYCNT   = 0x132

	RegIE      = 0x200
	RegIF      = 0x202
	RegWAITCNT = 0x204
	RegIME     = 0x208
	RegPOSTFLG = 0x300
	RegHALTCNT = 0x301
)

// interrupt request bits as they appear in the IE and IF registers.
const (
	IntVBlank  = uint16(0x0001)
	IntHBlank  = uint16(0x0002)
	IntVCount  = uint16(0x0004)
	IntTimer0  = uint16(0x0008)
	IntTimer1  = uint16(0x0010)
	IntTimer2  = uint16(0x0020)
	IntTimer3  = uint16(0x0040)
	IntSerial  = uint16(0x0080)
	IntDMA0    = uint16(0x0100)
	IntDMA1    = uint16(0x0200)
	IntDMA2    = uint16(0x0400)
	IntDMA3    = uint16(0x0800)
	IntKeypad  = uint16(0x1000)
	IntGamePak = uint16(0x2000)
)

// VideoBus is notified of writes to the handful of display registers whose
// effect depends on when in the frame the write lands, currently the affine
// background reference points.
type VideoBus interface {
	NotifyRegisterWrite(offset uint32)
}

// TimerBus is the interface through which timer registers are read and
// written. The timer implementation owns the registers because counter
// values are derived from internal state, not stored bytes.
type TimerBus interface {
	ReadRegister(offset uint32) uint16
	WriteRegister(offset uint32, data uint16)
}

// AudioBus is the interface through which the audio hardware is reached.
// Control registers are forwarded as halfwords and the two direct sound
// FIFOs accept data of any width.
type AudioBus interface {
	ReadRegister(offset uint32) uint16
	WriteRegister(offset uint32, data uint16)
	WriteFIFO(offset uint32, data uint32, width int)
}
