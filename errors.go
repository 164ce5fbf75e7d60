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

import "errors"

var (
	// ErrUnderflow is returned when a read needs more bytes
	// than remain in the decoder's buffer.
	ErrUnderflow = errors.New("buffer underflow")

	// ErrIntEncoding is returned by the strict integer readers
	// when the tag byte does not describe a defined encoding.
	ErrIntEncoding = errors.New("unknown integer encoding")

	// ErrLongEncoding is the long-integer analogue of ErrIntEncoding.
	ErrLongEncoding = errors.New("unknown long encoding")

	// ErrCharEncoding is returned when character or string bytes
	// are not one of the UTF-8 forms this format produces.
	ErrCharEncoding = errors.New("malformed character encoding")
)
