// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package boopickle

import (
	"encoding/binary"
	"math"

	"github.com/Wanderfalke/boopickle/ints"
)

const (
	// initial capacity of an Encoder buffer
	initialBufferSize = 4032
	// upper bound on a single doubling step; one huge write
	// still grows by its exact size
	maxIncrement = initialBufferSize * 16
)

// tag bytes for the untiered raw encodings
const (
	tagRawInt  = 0xe0
	tagRawLong = 0xe1
)

// Encoder accumulates pickled fields in a growable buffer.
//
// The zero value is ready to use. An Encoder belongs to exactly
// one writer for the duration of an encode session; buffer growth
// is not synchronized.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with the default initial capacity.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, initialBufferSize)}
}

// NewEncoderSize returns an Encoder whose buffer starts with room
// for at least size bytes.
func NewEncoderSize(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, ints.Max(size, initialBufferSize))}
}

// grow returns the next n bytes at the end of the buffer,
// reallocating if the current buffer cannot hold them.
func (e *Encoder) grow(n int) []byte {
	off := len(e.buf)
	if e.buf == nil {
		e.buf = make([]byte, n, ints.Max(n, initialBufferSize))
		return e.buf
	}
	if cap(e.buf)-off >= n {
		e.buf = e.buf[:off+n]
		return e.buf[off:]
	}
	inc := ints.Max(n, ints.Min(cap(e.buf), maxIncrement))
	nb := make([]byte, off+n, cap(e.buf)+inc)
	copy(nb, e.buf)
	e.buf = nb
	return nb[off:]
}

// Bytes returns the bytes written so far.
//
// The returned slice aliases the encoder's buffer: the encoder must
// not be written to again until the caller is done with it. Treat the
// result as immutable.
func (e *Encoder) Bytes() []byte { return e.buf }

// Size returns the number of bytes written so far.
func (e *Encoder) Size() int { return len(e.buf) }

// Reset discards all written bytes but keeps the buffer
// for the next encode session.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// WriteByte appends one raw byte.
// It always returns nil; the error satisfies io.ByteWriter.
func (e *Encoder) WriteByte(b byte) error {
	e.grow(1)[0] = b
	return nil
}

// WriteInt writes v in the fewest bytes that represent it (1 to 5).
func (e *Encoder) WriteInt(v int32) {
	if v >= 0 {
		switch {
		case v < 0x80:
			e.grow(1)[0] = byte(v)
		case v < 0x1000:
			dst := e.grow(2)
			dst[0] = 0x80 | byte(v>>8)
			dst[1] = byte(v)
		case v < 0x100000:
			dst := e.grow(3)
			dst[0] = 0xa0 | byte(v>>16)
			dst[1] = byte(v >> 8)
			dst[2] = byte(v)
		case v < 0x10000000:
			dst := e.grow(4)
			dst[0] = 0xc0 | byte(v>>24)
			dst[1] = byte(v >> 16)
			dst[2] = byte(v >> 8)
			dst[3] = byte(v)
		default:
			dst := e.grow(5)
			dst[0] = tagRawInt
			binary.BigEndian.PutUint32(dst[1:], uint32(v))
		}
		return
	}
	switch {
	case v >= -0x1000:
		dst := e.grow(2)
		dst[0] = 0x90 | (byte(v>>8) & 0x0f)
		dst[1] = byte(v)
	case v >= -0x100000:
		dst := e.grow(3)
		dst[0] = 0xb0 | (byte(v>>16) & 0x0f)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v)
	case v >= -0x10000000:
		dst := e.grow(4)
		dst[0] = 0xd0 | (byte(v>>24) & 0x0f)
		dst[1] = byte(v >> 16)
		dst[2] = byte(v >> 8)
		dst[3] = byte(v)
	default:
		dst := e.grow(5)
		dst[0] = tagRawInt
		binary.BigEndian.PutUint32(dst[1:], uint32(v))
	}
}

// WriteLong writes v in the fewest bytes that represent it (1 to 9).
// Values inside the 32-bit signed range produce exactly the bytes
// WriteInt would; anything else takes the 9-byte raw form.
func (e *Encoder) WriteLong(v int64) {
	if ints.InRange(v, math.MinInt32, math.MaxInt32) {
		e.WriteInt(int32(v))
		return
	}
	dst := e.grow(9)
	dst[0] = tagRawLong
	binary.BigEndian.PutUint64(dst[1:], uint64(v))
}

// WriteRawInt writes v as exactly 4 big-endian bytes.
func (e *Encoder) WriteRawInt(v int32) {
	binary.BigEndian.PutUint32(e.grow(4), uint32(v))
}

// WriteRawLong writes v as exactly 8 big-endian bytes.
func (e *Encoder) WriteRawLong(v int64) {
	binary.BigEndian.PutUint64(e.grow(8), uint64(v))
}

// WriteFloat writes the IEEE 754 bits of f as 4 big-endian bytes.
func (e *Encoder) WriteFloat(f float32) {
	binary.BigEndian.PutUint32(e.grow(4), math.Float32bits(f))
}

// WriteDouble writes the IEEE 754 bits of f as 8 big-endian bytes.
func (e *Encoder) WriteDouble(f float64) {
	binary.BigEndian.PutUint64(e.grow(8), math.Float64bits(f))
}
