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

// Package crunched provides compressed storage of memory snapshots and
// decompression of the LZ77 streams found in GamePak data.
package crunched

// Data provides the interface to a crunched data type
type Data interface {
	// IsCrunched returns true if data is currently crunched
	IsCrunched() bool

	// Size returns the uncrunched size and the current size of the data. If
	// the data is not currently crunched then the two values will be the same
	Size() (int, int)

	// Data returns a pointer to the uncrunched data
	Data() *[]byte

	// Snapshot makes a copy of the data, crunching it if possible. The data
	// will be uncrunched automatically when the Data() function is called
	Snapshot() Data
}
