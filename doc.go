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

// Package boopickle implements a compact, self-describing binary
// encoding for primitive values.
//
// Integers are written in the fewest bytes that can represent them.
// The top bits of the first byte select the encoding:
//
//	0xxxxxxx            the value 0..127 itself
//	1000 nnnn b0        128..4095
//	1001 nnnn b0        -1..-4096
//	1010 nnnn b0 b1     4096..1048575
//	1011 nnnn b0 b1     -4097..-1048576
//	1100 nnnn b0 b1 b2  1048576..268435455
//	1101 nnnn b0 b1 b2  -1048577..-268435456
//	1110 0000 + 4 bytes any 32-bit value, big-endian
//	1110 0001 + 8 bytes any 64-bit value, big-endian (longs only)
//	1111 xxxx           reserved for marker bytes
//
// In the tiered forms the nibble nnnn holds the high-order bits of the
// payload and the remaining bytes follow big-endian. Negative values
// store their two's-complement low bits; the odd nibble families mark
// the value as negative, so the decoder fills every bit above the
// stored width with ones.
//
// The reserved 0xF0..0xFF bytes are never produced by the integer
// writers. Callers that want to interleave small numbers with
// single-byte discriminators in the same stream position read through
// Decoder.ReadIntCode or Decoder.ReadLongCode, which hand reserved
// bytes back as markers instead of failing.
//
// Characters are single UTF-16 code units written as 1-3 UTF-8 bytes.
// Strings are written as their UTF-8 byte length (in the integer
// encoding above) followed by the raw bytes.
//
// An Encoder owns its output buffer and must only be used by a single
// writer. A Decoder borrows an immutable byte slice; any number of
// Decoders may read the same slice concurrently, each with its own
// cursor.
package boopickle
