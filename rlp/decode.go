// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"fmt"

	"github.com/PigCharid/ethercore/log"
	"github.com/pkg/errors"
)

var (
	ErrExpectedString   = errors.New("rlp: expected String or Byte")
	ErrExpectedList     = errors.New("rlp: expected List")
	ErrCanonInt         = errors.New("rlp: non-canonical integer format")
	ErrCanonSize        = errors.New("rlp: non-canonical size information")
	ErrUnexpectedEOF    = errors.New("rlp: unexpected end of input")
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")
	ErrValueOverflow    = errors.New("rlp: value overflows declared type")
	ErrLength           = errors.New("rlp: wrong length for fixed-size value")
	ErrElemCount        = errors.New("rlp: wrong number of list elements")
	ErrInvalidBool      = errors.New("rlp: invalid boolean value")
)

// DecodeError is a decoding failure at a known position of the input.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause lets errors.Cause from github.com/pkg/errors reach the sentinel.
func (e *DecodeError) Cause() error { return e.Err }

func wrapErr(off int, err error) error {
	if _, ok := err.(*DecodeError); ok {
		return err
	}
	return &DecodeError{Offset: off, Err: err}
}

// Kind represents the kind of value contained in an RLP stream.
type Kind int8

const (
	Byte Kind = iota
	String
	List
)

func (k Kind) String() string {
	switch k {
	case Byte:
		return "Byte"
	case String:
		return "String"
	case List:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Decoder holds decoding options. The zero value decodes strictly.
type Decoder struct {
	// Lenient accepts non-minimal size prefixes, single bytes wrapped in a
	// string header and integers with leading zero bytes.
	Lenient bool
}

// DecodeItem decodes a single canonical item. Trailing input is an error.
func DecodeItem(b []byte) (Item, error) {
	return Decoder{}.DecodeItem(b)
}

// DecodeItem decodes a single item. Trailing input is an error in both modes.
func (d Decoder) DecodeItem(b []byte) (Item, error) {
	it, n, err := d.parseItem(b, 0)
	if err != nil {
		return Item{}, err
	}
	if n != len(b) {
		return Item{}, &DecodeError{Offset: n, Err: ErrMoreThanOneValue}
	}
	return it, nil
}

// parseItem decodes the item at buf[off:] and returns it together with the
// offset just past it.
func (d Decoder) parseItem(buf []byte, off int) (Item, int, error) {
	k, ts, cs, err := d.readKind(buf, off)
	if err != nil {
		return Item{}, 0, err
	}
	start, end := off+int(ts), off+int(ts)+int(cs)
	switch k {
	case Byte:
		return NewString([]byte{buf[off]}), off + 1, nil
	case String:
		str := make([]byte, cs)
		copy(str, buf[start:end])
		return NewString(str), end, nil
	default:
		items := []Item{}
		for p := start; p < end; {
			it, next, err := d.parseItem(buf[:end], p)
			if err != nil {
				return Item{}, 0, err
			}
			items = append(items, it)
			p = next
		}
		return NewList(items...), end, nil
	}
}

// readKind reads the header at buf[off:]. In lenient mode a non-canonical
// header is accepted after a debug message.
func (d Decoder) readKind(buf []byte, off int) (Kind, uint64, uint64, error) {
	k, ts, cs, err := readKind(buf[off:], true)
	if err == ErrCanonSize && d.Lenient {
		log.Debug("Accepting non-canonical RLP size", "offset", off)
		k, ts, cs, err = readKind(buf[off:], false)
	}
	if err != nil {
		return 0, 0, 0, &DecodeError{Offset: off, Err: err}
	}
	return k, ts, cs, nil
}

// Split returns the content of first RLP value and any
// bytes after the value as subslices of b.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	k, ts, cs, err := readKind(b, true)
	if err != nil {
		return 0, nil, b, err
	}
	return k, b[ts : ts+cs], b[ts+cs:], nil
}

// SplitString splits b into the content of an RLP string
// and any remaining bytes after the string.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k == List {
		return nil, b, ErrExpectedString
	}
	return content, rest, nil
}

// SplitUint64 decodes an integer at the beginning of b.
// It also returns the remaining data after the integer in 'rest'.
func SplitUint64(b []byte) (x uint64, rest []byte, err error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return 0, b, err
	}
	x, err = readUint64(content, true)
	if err != nil {
		return 0, b, err
	}
	return x, rest, nil
}

// SplitList splits b into the content of a list and any remaining
// bytes after the list.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != List {
		return nil, b, ErrExpectedList
	}
	return content, rest, nil
}

// CountValues counts the number of encoded values in b.
func CountValues(b []byte) (int, error) {
	i := 0
	for ; len(b) > 0; i++ {
		_, tagsize, size, err := readKind(b, true)
		if err != nil {
			return 0, err
		}
		b = b[tagsize+size:]
	}
	return i, nil
}

// readKind parses the header of the first value in buf. With canon set,
// non-minimal headers fail with ErrCanonSize.
func readKind(buf []byte, canon bool) (k Kind, tagsize, contentsize uint64, err error) {
	if len(buf) == 0 {
		return 0, 0, 0, ErrUnexpectedEOF
	}
	b := buf[0]
	switch {
	case b < 0x80:
		k = Byte
		tagsize = 0
		contentsize = 1
	case b < 0xB8:
		k = String
		tagsize = 1
		contentsize = uint64(b - 0x80)
		// Reject strings that should've been single bytes.
		if canon && contentsize == 1 && len(buf) > 1 && buf[1] < 128 {
			return 0, 0, 0, ErrCanonSize
		}
	case b < 0xC0:
		k = String
		tagsize = uint64(b-0xB7) + 1
		contentsize, err = readSize(buf[1:], b-0xB7, canon)
	case b < 0xF8:
		k = List
		tagsize = 1
		contentsize = uint64(b - 0xC0)
	default:
		k = List
		tagsize = uint64(b-0xF7) + 1
		contentsize, err = readSize(buf[1:], b-0xF7, canon)
	}
	if err != nil {
		return 0, 0, 0, err
	}
	// Reject values larger than the input slice.
	if contentsize > uint64(len(buf))-tagsize {
		return 0, 0, 0, ErrUnexpectedEOF
	}
	return k, tagsize, contentsize, err
}

func readSize(b []byte, slen byte, canon bool) (uint64, error) {
	if int(slen) > len(b) {
		return 0, ErrUnexpectedEOF
	}
	var s uint64
	for _, v := range b[:slen] {
		s = s<<8 | uint64(v)
	}
	// Reject sizes < 56 (shouldn't have separate size) and sizes with
	// leading zero bytes.
	if canon && (s < 56 || b[0] == 0) {
		return 0, ErrCanonSize
	}
	return s, nil
}

// readUint64 reads an integer from a big endian string of at most 8 bytes.
func readUint64(b []byte, canon bool) (uint64, error) {
	if canon && len(b) > 0 && b[0] == 0 {
		return 0, ErrCanonInt
	}
	b = trimZeroes(b)
	if len(b) > 8 {
		return 0, ErrValueOverflow
	}
	var x uint64
	for _, v := range b {
		x = x<<8 | uint64(v)
	}
	return x, nil
}
