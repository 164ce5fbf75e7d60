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
	"fmt"
	"math"
)

// Decoder reads pickled fields from a borrowed byte slice.
//
// The slice is never written to; any number of Decoders may wrap the
// same bytes concurrently, but a single Decoder belongs to one reader.
// After any read returns an error the Decoder should be discarded.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a Decoder reading from the start of buf.
// The Decoder borrows buf; the caller must not mutate it.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Len returns the total length of the underlying buffer.
func (d *Decoder) Len() int { return len(d.buf) }

// Remaining returns the number of bytes left to read.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// next returns the n bytes at the cursor and advances past them.
func (d *Decoder) next(fn string, n int) ([]byte, error) {
	if len(d.buf)-d.pos < n {
		return nil, fmt.Errorf("boopickle.%s: want %d more bytes but have %d: %w",
			fn, n, len(d.buf)-d.pos, ErrUnderflow)
	}
	p := d.buf[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

// ReadByte reads one raw byte. It satisfies io.ByteReader.
func (d *Decoder) ReadByte() (byte, error) {
	p, err := d.next("ReadByte", 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// readInt decodes one tiered integer. In tolerant mode a tag byte in
// the reserved 0xF0 nibble is returned as a marker instead of failing.
func (d *Decoder) readInt(fn string, tolerant bool) (int32, byte, error) {
	p, err := d.next(fn, 1)
	if err != nil {
		return 0, 0, err
	}
	b := p[0]
	if b < 0x80 {
		return int32(b), 0, nil
	}
	switch (b >> 4) & 0x7 {
	case 0, 1: // 1 extra byte
		p, err := d.next(fn, 1)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<8 | uint32(p[0])
		if b&0x10 != 0 {
			raw |= 0xFFFFF000
		}
		return int32(raw), 0, nil
	case 2, 3: // 2 extra bytes
		p, err := d.next(fn, 2)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<16 | uint32(p[0])<<8 | uint32(p[1])
		if b&0x10 != 0 {
			raw |= 0xFFF00000
		}
		return int32(raw), 0, nil
	case 4, 5: // 3 extra bytes
		p, err := d.next(fn, 3)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		if b&0x10 != 0 {
			raw |= 0xF0000000
		}
		return int32(raw), 0, nil
	case 6:
		if b != tagRawInt {
			return 0, 0, fmt.Errorf("boopickle.%s: tag byte 0x%02x: %w", fn, b, ErrIntEncoding)
		}
		p, err := d.next(fn, 4)
		if err != nil {
			return 0, 0, err
		}
		return int32(binary.BigEndian.Uint32(p)), 0, nil
	default:
		if tolerant {
			return 0, b, nil
		}
		return 0, 0, fmt.Errorf("boopickle.%s: reserved tag byte 0x%02x: %w", fn, b, ErrIntEncoding)
	}
}

// readLong mirrors readInt but additionally accepts the
// 8-extra-byte raw form.
func (d *Decoder) readLong(fn string, tolerant bool) (int64, byte, error) {
	p, err := d.next(fn, 1)
	if err != nil {
		return 0, 0, err
	}
	b := p[0]
	if b < 0x80 {
		return int64(b), 0, nil
	}
	switch (b >> 4) & 0x7 {
	case 0, 1:
		p, err := d.next(fn, 1)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<8 | uint32(p[0])
		if b&0x10 != 0 {
			raw |= 0xFFFFF000
		}
		return int64(int32(raw)), 0, nil
	case 2, 3:
		p, err := d.next(fn, 2)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<16 | uint32(p[0])<<8 | uint32(p[1])
		if b&0x10 != 0 {
			raw |= 0xFFF00000
		}
		return int64(int32(raw)), 0, nil
	case 4, 5:
		p, err := d.next(fn, 3)
		if err != nil {
			return 0, 0, err
		}
		raw := uint32(b&0x0f)<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		if b&0x10 != 0 {
			raw |= 0xF0000000
		}
		return int64(int32(raw)), 0, nil
	case 6:
		switch b {
		case tagRawInt:
			p, err := d.next(fn, 4)
			if err != nil {
				return 0, 0, err
			}
			return int64(int32(binary.BigEndian.Uint32(p))), 0, nil
		case tagRawLong:
			p, err := d.next(fn, 8)
			if err != nil {
				return 0, 0, err
			}
			return int64(binary.BigEndian.Uint64(p)), 0, nil
		}
		return 0, 0, fmt.Errorf("boopickle.%s: tag byte 0x%02x: %w", fn, b, ErrLongEncoding)
	default:
		if tolerant {
			return 0, b, nil
		}
		return 0, 0, fmt.Errorf("boopickle.%s: reserved tag byte 0x%02x: %w", fn, b, ErrLongEncoding)
	}
}

// ReadInt reads one variable-length 32-bit integer.
//
// Any syntactically valid tier is accepted, whether or not it is the
// shortest form for the value.
func (d *Decoder) ReadInt() (int32, error) {
	v, _, err := d.readInt("ReadInt", false)
	return v, err
}

// ReadIntCode reads either a variable-length 32-bit integer or a
// single reserved marker byte.
//
// A nonzero marker (always 0xF0..0xFF) means the stream held a marker
// at this position and exactly one byte was consumed; otherwise v
// holds an ordinary decoded integer.
func (d *Decoder) ReadIntCode() (v int32, marker byte, err error) {
	return d.readInt("ReadIntCode", true)
}

// ReadLong reads one variable-length 64-bit integer.
func (d *Decoder) ReadLong() (int64, error) {
	v, _, err := d.readLong("ReadLong", false)
	return v, err
}

// ReadLongCode is the 64-bit analogue of ReadIntCode.
func (d *Decoder) ReadLongCode() (v int64, marker byte, err error) {
	return d.readLong("ReadLongCode", true)
}

// ReadRawInt reads exactly 4 big-endian bytes as a 32-bit integer.
func (d *Decoder) ReadRawInt() (int32, error) {
	p, err := d.next("ReadRawInt", 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil
}

// ReadRawLong reads exactly 8 big-endian bytes as a 64-bit integer.
func (d *Decoder) ReadRawLong() (int64, error) {
	p, err := d.next("ReadRawLong", 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil
}

// ReadFloat reads a 4-byte big-endian IEEE 754 float.
func (d *Decoder) ReadFloat() (float32, error) {
	p, err := d.next("ReadFloat", 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// ReadDouble reads an 8-byte big-endian IEEE 754 double.
func (d *Decoder) ReadDouble() (float64, error) {
	p, err := d.next("ReadDouble", 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}
