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
	"testing"
	"unicode/utf8"
)

func FuzzReadInt(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x7f})
	f.Add([]byte{0x8f, 0xff})
	f.Add([]byte{0x90, 0x00})
	f.Add([]byte{0xbf, 0xef, 0xff})
	f.Add([]byte{0xe0, 0x80, 0x00, 0x00, 0x00})
	f.Add([]byte{0xf0})
	f.Add([]byte{0xe1, 1, 2, 3, 4, 5, 6, 7, 8})
	f.Fuzz(func(t *testing.T, b []byte) {
		d := NewDecoder(b)
		v, err := d.ReadInt()
		if err != nil {
			// the strict reader may fail, but the tolerant reader may
			// only fail for the same inputs minus the 0xF0 nibble
			td := NewDecoder(b)
			_, marker, terr := td.ReadIntCode()
			if terr != nil && marker != 0 {
				t.Fatalf("marker and error at once: 0x%02x, %s", marker, terr)
			}
			if terr == nil && marker == 0 {
				t.Fatalf("strict reader failed (%s) but tolerant decoded a number", err)
			}
			return
		}
		used := len(b) - d.Remaining()
		if used < 1 || used > 5 {
			t.Fatalf("consumed %d bytes", used)
		}
		// re-encoding the decoded value and decoding it again
		// must be lossless even if the input was not minimal
		var e Encoder
		e.WriteInt(v)
		if e.Size() > used {
			t.Fatalf("re-encoded %d in %d bytes but input took %d", v, e.Size(), used)
		}
		got, err := NewDecoder(e.Bytes()).ReadInt()
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got %d, want %d", got, v)
		}
	})
}

func FuzzReadLong(f *testing.F) {
	f.Add([]byte{0x7f})
	f.Add([]byte{0xe1, 0x80, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0xe0, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0xdf, 0xef, 0xff, 0xff})
	f.Add([]byte{0xff})
	f.Fuzz(func(t *testing.T, b []byte) {
		d := NewDecoder(b)
		v, err := d.ReadLong()
		if err != nil {
			return
		}
		used := len(b) - d.Remaining()
		if used < 1 || used > 9 {
			t.Fatalf("consumed %d bytes", used)
		}
		var e Encoder
		e.WriteLong(v)
		got, err := NewDecoder(e.Bytes()).ReadLong()
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got %d, want %d", got, v)
		}
	})
}

func FuzzStringRoundTrip(f *testing.F) {
	f.Add("")
	f.Add("plain ascii")
	f.Add("żółw")
	f.Add("\xc3\x28") // invalid UTF-8
	f.Fuzz(func(t *testing.T, s string) {
		var e Encoder
		e.WriteString(s)
		got, err := NewDecoder(e.Bytes()).ReadString()
		if !utf8.ValidString(s) {
			if err == nil {
				t.Fatalf("decoded invalid UTF-8 %q without error", s)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Fatalf("got %q, want %q", got, s)
		}
	})
}

func FuzzReadChar(f *testing.F) {
	f.Add([]byte{0x41})
	f.Add([]byte{0xc5, 0xbc})
	f.Add([]byte{0xef, 0xbf, 0xbf})
	f.Add([]byte{0x80})
	f.Fuzz(func(t *testing.T, b []byte) {
		d := NewDecoder(b)
		c, err := d.ReadChar()
		if err != nil {
			return
		}
		used := len(b) - d.Remaining()
		if used < 1 || used > 3 {
			t.Fatalf("consumed %d bytes", used)
		}
		var e Encoder
		e.WriteChar(c)
		got, err := NewDecoder(e.Bytes()).ReadChar()
		if err != nil {
			t.Fatal(err)
		}
		if got != c {
			t.Fatalf("got U+%04X, want U+%04X", got, c)
		}
	})
}
