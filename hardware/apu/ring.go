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

package apu

import (
	"sync/atomic"
)

// Ring is a single-producer single-consumer queue of interleaved stereo
// samples. The emulation goroutine writes, the audio device callback reads,
// and neither ever blocks: when the queue is full new samples are dropped,
// which the listener hears as a glitch rather than the whole emulation
// stuttering.
type Ring struct {
	// interleaved stereo. len(buf) is a power of two
	buf  []int16
	mask uint32

	// cursors count frames (sample pairs), not slice indices. only the
	// producer writes head, only the consumer writes tail
	head uint32
	tail uint32
}

// NewRing creates a Ring with capacity for at least the given number of
// sample pairs.
func NewRing(frames int) *Ring {
	n := 1
	for n < frames {
		n <<= 1
	}
	return &Ring{
		buf:  make([]int16, n*2),
		mask: uint32(n) - 1,
	}
}

// Write appends one stereo sample pair. Returns false if the ring was full
// and the pair was dropped.
func (r *Ring) Write(left, right int16) bool {
	head := atomic.LoadUint32(&r.head)
	tail := atomic.LoadUint32(&r.tail)

	if head-tail > r.mask {
		return false
	}

	i := (head & r.mask) * 2
	r.buf[i] = left
	r.buf[i+1] = right

	// the store to head publishes the samples to the consumer
	atomic.StoreUint32(&r.head, head+1)
	return true
}

// Read fills dst with as many interleaved samples as are available, up to
// len(dst), and returns the number of int16 values written. len(dst) must be
// even.
func (r *Ring) Read(dst []int16) int {
	head := atomic.LoadUint32(&r.head)
	tail := atomic.LoadUint32(&r.tail)

	n := 0
	for tail != head && n+1 < len(dst) {
		i := (tail & r.mask) * 2
		dst[n] = r.buf[i]
		dst[n+1] = r.buf[i+1]
		n += 2
		tail++
	}

	atomic.StoreUint32(&r.tail, tail)
	return n
}

// Pending returns the number of sample pairs waiting in the ring.
func (r *Ring) Pending() int {
	return int(atomic.LoadUint32(&r.head) - atomic.LoadUint32(&r.tail))
}
