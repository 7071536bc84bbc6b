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

package backup

// sram is battery backed RAM with no command protocol. it sits directly on
// the 8 bit save RAM bus.
type sram struct {
	data []byte
}

func newSRAM() *sram {
	d := &sram{
		data: make([]byte, SRAM.Size()),
	}
	erased(d.data)
	return d
}

func (d *sram) Type() DeviceType {
	return SRAM
}

func (d *sram) Read(address uint32) uint8 {
	return d.data[address&uint32(len(d.data)-1)]
}

func (d *sram) Write(address uint32, data uint8) {
	d.data[address&uint32(len(d.data)-1)] = data
}

func (d *sram) Data() []byte {
	return d.data
}

func (d *sram) Load(data []byte) error {
	return load(d.data, data)
}

func (d *sram) Snapshot() Device {
	n := *d
	n.data = make([]byte, len(d.data))
	copy(n.data, d.data)
	return &n
}
