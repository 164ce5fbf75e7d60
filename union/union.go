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

// Package union dispatches encoding and decoding of a closed set of
// variants over a boopickle stream.
//
// Each concrete variant is registered ahead of use under a small
// non-negative integer tag. The tag is written through the ordinary
// variable-length integer encoding, so common tags cost one byte.
// Variants may also be registered under single reserved marker bytes
// (0xF0..0xFF); tags and markers share the same stream position and
// are told apart by the tolerant integer reader.
package union

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/Wanderfalke/boopickle"
)

// EncodeFunc writes the body of one variant (the tag is written by
// the registry).
type EncodeFunc func(*boopickle.Encoder, any) error

// DecodeFunc reads the body of one variant (the tag has already been
// consumed).
type DecodeFunc func(*boopickle.Decoder) (any, error)

// Variant ties one member of a union to its codec.
type Variant struct {
	Name   string
	Encode EncodeFunc
	Decode DecodeFunc
}

// Registry maps tags and marker bytes to variants.
//
// Registration must happen before any Encode or Decode call;
// a Registry is read-only afterwards and safe for concurrent use.
type Registry struct {
	tags    map[int32]Variant
	markers map[byte]Variant
}

func checkVariant(v Variant) {
	if v.Encode == nil || v.Decode == nil {
		panic("union: variant " + v.Name + " missing Encode or Decode")
	}
}

// Register adds a variant under a non-negative integer tag.
// It panics if the tag is negative, already taken, or the variant
// is incomplete; registration errors are programmer errors.
func (r *Registry) Register(tag int32, v Variant) {
	checkVariant(v)
	if tag < 0 {
		panic(fmt.Sprintf("union: negative tag %d", tag))
	}
	if _, ok := r.tags[tag]; ok {
		panic(fmt.Sprintf("union: tag %d registered twice", tag))
	}
	if r.tags == nil {
		r.tags = make(map[int32]Variant)
	}
	r.tags[tag] = v
}

// RegisterMarker adds a variant under a reserved marker byte.
// It panics if m is outside 0xF0..0xFF or already taken.
func (r *Registry) RegisterMarker(m byte, v Variant) {
	checkVariant(v)
	if m < 0xf0 {
		panic(fmt.Sprintf("union: marker 0x%02x outside the reserved range", m))
	}
	if _, ok := r.markers[m]; ok {
		panic(fmt.Sprintf("union: marker 0x%02x registered twice", m))
	}
	if r.markers == nil {
		r.markers = make(map[byte]Variant)
	}
	r.markers[m] = v
}

// Encode writes the tag and then the variant body.
func (r *Registry) Encode(e *boopickle.Encoder, tag int32, v any) error {
	c, ok := r.tags[tag]
	if !ok {
		return fmt.Errorf("union: tag %d not registered", tag)
	}
	e.WriteInt(tag)
	if err := c.Encode(e, v); err != nil {
		return fmt.Errorf("union: encoding %s: %w", c.Name, err)
	}
	return nil
}

// EncodeMarker writes the marker byte and then the variant body.
func (r *Registry) EncodeMarker(e *boopickle.Encoder, m byte, v any) error {
	c, ok := r.markers[m]
	if !ok {
		return fmt.Errorf("union: marker 0x%02x not registered", m)
	}
	e.WriteByte(m)
	if err := c.Encode(e, v); err != nil {
		return fmt.Errorf("union: encoding %s: %w", c.Name, err)
	}
	return nil
}

// Decode reads one tag or marker byte and dispatches to the matching
// variant's decoder.
func (r *Registry) Decode(d *boopickle.Decoder) (any, error) {
	tag, marker, err := d.ReadIntCode()
	if err != nil {
		return nil, err
	}
	var c Variant
	var ok bool
	if marker != 0 {
		c, ok = r.markers[marker]
		if !ok {
			return nil, fmt.Errorf("union: marker 0x%02x not registered", marker)
		}
	} else {
		c, ok = r.tags[tag]
		if !ok {
			return nil, fmt.Errorf("union: tag %d not registered", tag)
		}
	}
	v, err := c.Decode(d)
	if err != nil {
		return nil, fmt.Errorf("union: decoding %s: %w", c.Name, err)
	}
	return v, nil
}

// Tags returns the registered integer tags in ascending order.
func (r *Registry) Tags() []int32 {
	t := make([]int32, 0, len(r.tags))
	for k := range r.tags {
		t = append(t, k)
	}
	slices.Sort(t)
	return t
}
