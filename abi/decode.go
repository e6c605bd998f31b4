// Copyright 2022 The go-ethereum Authors
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

package abi

import (
	"fmt"
	"math/big"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/log"
	"github.com/PigCharid/ethercore/value"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrInvalidType      = errors.New("abi: invalid type")
	ErrUnsupportedType  = errors.New("abi: unsupported type")
	ErrTypeMismatch     = errors.New("abi: value does not match declared type")
	ErrBufferTooShort   = errors.New("abi: buffer too short")
	ErrOffsetOutOfRange = errors.New("abi: offset out of range")
	ErrLengthOverflow   = errors.New("abi: length exceeds buffer")
	ErrValueOverflow    = errors.New("abi: value overflows declared type")
	ErrNonCanonical     = errors.New("abi: non-canonical encoding")
	ErrArgumentCount    = errors.New("abi: wrong number of arguments")
	ErrSelectorMismatch = errors.New("abi: method selector mismatch")
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

// Decoder holds decoding options. The zero value decodes strictly.
type Decoder struct {
	// Lenient accepts dirty padding bytes, non-zero upper bytes of addresses,
	// booleans other than 0 or 1 and offsets that skip or share tail data.
	// Integers must still fit their type.
	Lenient bool
}

// Decode parses data as a sequence of values of the given types, laid out the
// way Encode produces them. Trailing bytes after the last tail entry are
// ignored, as the EVM does for call data.
func Decode(data []byte, types ...*value.Type) ([]value.Value, error) {
	return Decoder{}.Decode(data, types...)
}

// DecodeTuple decodes data as the fields of tuple type t.
func DecodeTuple(data []byte, t *value.Type) (*value.Tuple, error) {
	return Decoder{}.DecodeTuple(data, t)
}

// Decode parses data as a sequence of values of the given types.
func (d Decoder) Decode(data []byte, types ...*value.Type) ([]value.Value, error) {
	vals, _, err := d.newDecoding(data).sequence(0, types)
	return vals, err
}

// DecodeTuple decodes data as the fields of tuple type t.
func (d Decoder) DecodeTuple(data []byte, t *value.Type) (*value.Tuple, error) {
	if t.Kind != value.TupleKind {
		return nil, errors.Wrapf(ErrTypeMismatch, "%v is not a tuple", t)
	}
	v, _, err := d.newDecoding(data).value(0, t)
	if err != nil {
		return nil, err
	}
	return v.(*value.Tuple), nil
}

// maxAliasing bounds how often lenient decoding may materialize the same
// input word through shared offsets. Strict decoding reads every tail once.
const maxAliasing = 8

// decoding is the state of a single Decode call.
type decoding struct {
	Decoder
	buf []byte

	// budget is the number of array elements and content words that may
	// still be produced.
	budget uint64
}

func (d Decoder) newDecoding(buf []byte) *decoding {
	return &decoding{
		Decoder: d,
		buf:     buf,
		budget:  maxAliasing * (uint64(len(buf))/WordSize + 1),
	}
}

// charge takes n from the budget.
func (s *decoding) charge(off int, n uint64) error {
	if n > s.budget {
		return &DecodeError{Offset: off, Err: errors.Wrap(ErrLengthOverflow, "decoded size exceeds input")}
	}
	s.budget -= n
	return nil
}

// sequence decodes the head/tail sequence starting at base. Offsets read
// from the head are relative to base. It also returns the end of the last
// tail entry.
// 先按静态大小读取head，动态字段读出offset后到tail中解析
func (s *decoding) sequence(base int, types []*value.Type) ([]value.Value, int, error) {
	head := 0
	for _, t := range types {
		head += HeadSize(t)
	}
	var (
		vals = make([]value.Value, len(types))
		pos  = base
		tail = base + head // where the next dynamic value starts when canonical
	)
	for i, t := range types {
		if !IsDynamic(t) {
			v, _, err := s.value(pos, t)
			if err != nil {
				return nil, 0, err
			}
			vals[i] = v
			pos += HeadSize(t)
			continue
		}
		off, err := s.readOffset(pos)
		if err != nil {
			return nil, 0, err
		}
		if off >= uint64(len(s.buf)-base) {
			return nil, 0, &DecodeError{Offset: pos, Err: ErrOffsetOutOfRange}
		}
		if base+int(off) != tail {
			if err := s.nonCanonical(pos, fmt.Sprintf("offset %#x, want %#x", off, tail-base)); err != nil {
				return nil, 0, err
			}
		}
		v, end, err := s.value(base+int(off), t)
		if err != nil {
			return nil, 0, err
		}
		vals[i] = v
		if end > tail {
			tail = end
		}
		pos += WordSize
	}
	return vals, tail, nil
}

// value decodes the standalone encoding of a t at buf[off:] and returns the
// end of that encoding.
func (s *decoding) value(off int, t *value.Type) (value.Value, int, error) {
	switch t.Kind {
	case value.BoolKind:
		w, err := readWord(s.buf, off)
		if err != nil {
			return nil, 0, err
		}
		var x uint256.Int
		x.SetBytes(w)
		if x.IsUint64() && x.Uint64() <= 1 {
			return value.Bool(x.Uint64() == 1), off + WordSize, nil
		}
		if err := s.nonCanonical(off, "bool"); err != nil {
			return nil, 0, err
		}
		return value.Bool(true), off + WordSize, nil

	case value.UintKind:
		w, err := readWord(s.buf, off)
		if err != nil {
			return nil, 0, err
		}
		x := new(uint256.Int).SetBytes(w)
		if x.BitLen() > t.Size {
			return nil, 0, &DecodeError{Offset: off, Err: ErrValueOverflow}
		}
		v, err := value.NewUint(t, x)
		return v, off + WordSize, err

	case value.IntKind:
		w, err := readWord(s.buf, off)
		if err != nil {
			return nil, 0, err
		}
		x := new(big.Int).SetBytes(w)
		if w[0]&0x80 != 0 {
			x.Sub(x, tt256)
		}
		v, err := value.NewInt(t, x)
		if err != nil {
			return nil, 0, &DecodeError{Offset: off, Err: ErrValueOverflow}
		}
		return v, off + WordSize, nil

	case value.AddressKind:
		w, err := readWord(s.buf, off)
		if err != nil {
			return nil, 0, err
		}
		if !allZero(w[:WordSize-common.AddressLength]) {
			if err := s.nonCanonical(off, "address"); err != nil {
				return nil, 0, err
			}
		}
		return value.Address(common.BytesToAddress(w)), off + WordSize, nil

	case value.FixedBytesKind:
		w, err := readWord(s.buf, off)
		if err != nil {
			return nil, 0, err
		}
		if !allZero(w[t.Size:]) {
			if err := s.nonCanonical(off, t.String()); err != nil {
				return nil, 0, err
			}
		}
		v, err := value.Construct(t, w[:t.Size])
		return v, off + WordSize, err

	case value.BytesKind, value.StringKind:
		b, end, err := s.readDynamicBytes(off)
		if err != nil {
			return nil, 0, err
		}
		v, err := value.Construct(t, b)
		return v, end, err

	case value.FixedArrayKind:
		types := make([]*value.Type, t.Size)
		for i := range types {
			types[i] = t.Elem
		}
		elems, end, err := s.sequence(off, types)
		if err != nil {
			return nil, 0, err
		}
		v, err := value.NewArray(t, elems...)
		return v, end, err

	case value.ArrayKind:
		n, err := s.readLength(off)
		if err != nil {
			return nil, 0, err
		}
		// every element needs at least one head word
		if n > uint64(len(s.buf)-off-WordSize)/WordSize {
			return nil, 0, &DecodeError{Offset: off, Err: ErrLengthOverflow}
		}
		if err := s.charge(off, n); err != nil {
			return nil, 0, err
		}
		types := make([]*value.Type, n)
		for i := range types {
			types[i] = t.Elem
		}
		elems, end, err := s.sequence(off+WordSize, types)
		if err != nil {
			return nil, 0, err
		}
		v, err := value.NewArray(t, elems...)
		return v, end, err

	case value.TupleKind:
		types := make([]*value.Type, len(t.Fields))
		for i, f := range t.Fields {
			types[i] = f.Type
		}
		fields, end, err := s.sequence(off, types)
		if err != nil {
			return nil, 0, err
		}
		v, err := value.NewTuple(t, fields...)
		return v, end, err
	}
	return nil, 0, errors.Wrapf(ErrUnsupportedType, "%v", t)
}

// readDynamicBytes reads a length word followed by padded content. It
// returns the content and the end of the padding.
func (s *decoding) readDynamicBytes(off int) ([]byte, int, error) {
	n, err := s.readLength(off)
	if err != nil {
		return nil, 0, err
	}
	start := off + WordSize
	if n > uint64(len(s.buf)-start) {
		return nil, 0, &DecodeError{Offset: off, Err: ErrLengthOverflow}
	}
	if err := s.charge(off, (n+WordSize-1)/WordSize); err != nil {
		return nil, 0, err
	}
	end := start + int(n)
	padded := end
	if rem := int(n) % WordSize; rem != 0 {
		padded += WordSize - rem
	}
	if padded > len(s.buf) {
		if err := s.nonCanonical(end, "missing padding"); err != nil {
			return nil, 0, err
		}
		padded = len(s.buf)
	}
	if !allZero(s.buf[end:padded]) {
		if err := s.nonCanonical(end, "dirty padding"); err != nil {
			return nil, 0, err
		}
	}
	return s.buf[start:end], padded, nil
}

// readOffset reads a head word holding an offset.
func (s *decoding) readOffset(off int) (uint64, error) {
	w, err := readWord(s.buf, off)
	if err != nil {
		return 0, err
	}
	x := new(uint256.Int).SetBytes(w)
	if !x.IsUint64() {
		return 0, &DecodeError{Offset: off, Err: ErrOffsetOutOfRange}
	}
	return x.Uint64(), nil
}

// readLength reads the length word of a dynamic value.
func (s *decoding) readLength(off int) (uint64, error) {
	w, err := readWord(s.buf, off)
	if err != nil {
		return 0, err
	}
	x := new(uint256.Int).SetBytes(w)
	if !x.IsUint64() || x.Uint64() > uint64(len(s.buf)) {
		return 0, &DecodeError{Offset: off, Err: ErrLengthOverflow}
	}
	return x.Uint64(), nil
}

// nonCanonical fails in strict mode and logs in lenient mode.
func (d Decoder) nonCanonical(off int, what string) error {
	if !d.Lenient {
		return &DecodeError{Offset: off, Err: errors.Wrap(ErrNonCanonical, what)}
	}
	log.Debug("Accepted non-canonical ABI encoding", "offset", off, "what", what)
	return nil
}

func readWord(buf []byte, off int) ([]byte, error) {
	if off < 0 || off+WordSize > len(buf) {
		return nil, &DecodeError{Offset: off, Err: ErrBufferTooShort}
	}
	return buf[off : off+WordSize], nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
