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

// Command bpdump decodes a pickled stream of primitive fields.
//
// The -f flag gives the field layout, one letter per field:
//
//	y  byte
//	c  character
//	i  variable-length 32-bit integer
//	I  raw 32-bit integer
//	l  variable-length 64-bit integer
//	L  raw 64-bit integer
//	f  float
//	d  double
//	s  string
//	k  integer-or-marker code
//
// The layout repeats until the input is exhausted. One value is
// printed per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Wanderfalke/boopickle"
)

var format = flag.String("f", "i", "field layout, repeated until the input ends")

func dump(o *bufio.Writer, buf []byte, layout string) error {
	if layout == "" {
		return fmt.Errorf("empty field layout")
	}
	d := boopickle.NewDecoder(buf)
	for d.Remaining() > 0 {
		for _, f := range layout {
			var v any
			var err error
			switch f {
			case 'y':
				v, err = d.ReadByte()
			case 'c':
				var c uint16
				c, err = d.ReadChar()
				v = string(rune(c))
			case 'i':
				v, err = d.ReadInt()
			case 'I':
				v, err = d.ReadRawInt()
			case 'l':
				v, err = d.ReadLong()
			case 'L':
				v, err = d.ReadRawLong()
			case 'f':
				v, err = d.ReadFloat()
			case 'd':
				v, err = d.ReadDouble()
			case 's':
				v, err = d.ReadString()
			case 'k':
				var n int32
				var marker byte
				n, marker, err = d.ReadIntCode()
				if marker != 0 {
					v = fmt.Sprintf("marker 0x%02x", marker)
				} else {
					v = n
				}
			default:
				return fmt.Errorf("unknown field letter %q", f)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(o, "%v\n", v)
			if d.Remaining() == 0 {
				break
			}
		}
	}
	return nil
}

func main() {
	flag.Parse()
	o := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		var err error
		var in *os.File
		if arg == "-" {
			in = os.Stdin
		} else {
			in, err = os.Open(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "can't open %q: %s\n", arg, err)
				os.Exit(1)
			}
		}
		buf, err := io.ReadAll(in)
		in.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading %s: %s\n", arg, err)
			os.Exit(1)
		}
		if err := dump(o, buf, *format); err != nil {
			fmt.Fprintf(os.Stderr, "input %s: %s\n", arg, err)
			os.Exit(1)
		}
	}
	if err := o.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
