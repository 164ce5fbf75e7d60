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
	"fmt"
	"unicode/utf8"
)

// The character codec covers single UTF-16 code units; code points
// above U+FFFF are out of scope and surrogates pass through as
// individual three-byte units.

// WriteChar writes c as 1-3 UTF-8 bytes.
func (e *Encoder) WriteChar(c uint16) {
	switch {
	case c < 0x80:
		e.grow(1)[0] = byte(c)
	case c < 0x800:
		dst := e.grow(2)
		dst[0] = 0xc0 | byte(c>>6)
		dst[1] = 0x80 | (byte(c) & 0x3f)
	default:
		dst := e.grow(3)
		dst[0] = 0xe0 | byte(c>>12)
		dst[1] = 0x80 | (byte(c>>6) & 0x3f)
		dst[2] = 0x80 | (byte(c) & 0x3f)
	}
}

// ReadChar reads one UTF-16 code unit written by WriteChar.
func (d *Decoder) ReadChar() (uint16, error) {
	p, err := d.next("ReadChar", 1)
	if err != nil {
		return 0, err
	}
	b := p[0]
	switch {
	case b&0x80 == 0:
		return uint16(b), nil
	case b&0xe0 == 0xc0:
		p, err := d.next("ReadChar", 1)
		if err != nil {
			return 0, err
		}
		return uint16(b&0x1f)<<6 | uint16(p[0]&0x3f), nil
	case b&0xf0 == 0xe0:
		p, err := d.next("ReadChar", 2)
		if err != nil {
			return 0, err
		}
		return uint16(b&0x0f)<<12 | uint16(p[0]&0x3f)<<6 | uint16(p[1]&0x3f), nil
	default:
		return 0, fmt.Errorf("boopickle.ReadChar: lead byte 0x%02x: %w", b, ErrCharEncoding)
	}
}

// WriteString writes the UTF-8 byte length of s in the
// variable-length integer encoding, then the raw bytes.
// Go strings are already UTF-8, so no transcoding happens.
func (e *Encoder) WriteString(s string) {
	e.WriteInt(int32(len(s)))
	copy(e.grow(len(s)), s)
}

// ReadString reads a length-prefixed string written by WriteString.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadInt()
	if err != nil {
		return "", err
	}
	return d.readStringBody("ReadString", int(n))
}

// ReadStringLen reads a string whose UTF-8 byte length is already
// known from an outer framing layer; no length prefix is consumed.
func (d *Decoder) ReadStringLen(n int) (string, error) {
	return d.readStringBody("ReadStringLen", n)
}

func (d *Decoder) readStringBody(fn string, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("boopickle.%s: invalid string length %d", fn, n)
	}
	p, err := d.next(fn, n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", fmt.Errorf("boopickle.%s: %w", fn, ErrCharEncoding)
	}
	return string(p), nil
}
