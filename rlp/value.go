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

package rlp

import (
	"math/big"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// itemBuilder maps a value onto its RLP item.
type itemBuilder struct {
	out Item
}

func (b *itemBuilder) VisitBool(v bool) error {
	if v {
		b.out = NewString([]byte{0x01})
	} else {
		b.out = NewString([]byte{})
	}
	return nil
}

func (b *itemBuilder) VisitUint(_ *value.Type, x *uint256.Int) error {
	b.out = NewString(x.Bytes())
	return nil
}

func (b *itemBuilder) VisitInt(_ *value.Type, x *big.Int) error {
	b.out = NewString(signedBytes(x))
	return nil
}

func (b *itemBuilder) VisitFixedBytes(_ *value.Type, v []byte) error {
	b.out = NewString(v)
	return nil
}

func (b *itemBuilder) VisitBytes(v []byte) error {
	b.out = NewString(v)
	return nil
}

func (b *itemBuilder) VisitString(s string) error {
	b.out = NewString([]byte(s))
	return nil
}

func (b *itemBuilder) VisitAddress(a common.Address) error {
	b.out = NewString(a.Bytes())
	return nil
}

func (b *itemBuilder) VisitArray(_ *value.Type, elems []value.Value) error {
	return b.visitList(elems)
}

func (b *itemBuilder) VisitTuple(_ *value.Type, fields []value.Value) error {
	return b.visitList(fields)
}

func (b *itemBuilder) visitList(vals []value.Value) error {
	items := make([]Item, len(vals))
	for i, v := range vals {
		sub := new(itemBuilder)
		if err := v.Accept(sub); err != nil {
			return err
		}
		items[i] = sub.out
	}
	b.out = NewList(items...)
	return nil
}

// signedBytes returns the shortest two's complement form of x that keeps the
// sign bit. Zero is the empty string.
// 有符号整数使用最短补码，保证最高位为符号位
func signedBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{}
	}
	mag := x
	if x.Sign() < 0 {
		// -x-1 has the same bit length as the two's complement payload
		mag = new(big.Int).Neg(x)
		mag.Sub(mag, big.NewInt(1))
	}
	n := mag.BitLen()/8 + 1
	v := x
	if x.Sign() < 0 {
		v = new(big.Int).Lsh(big.NewInt(1), uint(8*n))
		v.Add(v, x)
	}
	return v.FillBytes(make([]byte, n))
}

// ToItem converts v into its RLP item.
func ToItem(v value.Value) (Item, error) {
	b := new(itemBuilder)
	if err := v.Accept(b); err != nil {
		return Item{}, err
	}
	return b.out, nil
}

// EncodeValue returns the RLP encoding of v.
func EncodeValue(v value.Value) ([]byte, error) {
	it, err := ToItem(v)
	if err != nil {
		return nil, err
	}
	return EncodeItem(it), nil
}

// EncodeToBytes returns the RLP encoding of x, which must be an Item, a
// value.Value or a value.Marshaler.
func EncodeToBytes(x interface{}) ([]byte, error) {
	if it, ok := x.(Item); ok {
		return EncodeItem(it), nil
	}
	v, err := value.Of(x)
	if err != nil {
		return nil, err
	}
	return EncodeValue(v)
}

// DecodeValue decodes b strictly as a value of type t.
func DecodeValue(b []byte, t *value.Type) (value.Value, error) {
	return Decoder{}.DecodeValue(b, t)
}

// DecodeBytes decodes b as a value of type t and hands it to into.
func DecodeBytes(b []byte, t *value.Type, into value.Unmarshaler) error {
	v, err := DecodeValue(b, t)
	if err != nil {
		return err
	}
	return into.UnmarshalValue(v)
}

// DecodeValue decodes b as a value of type t. Trailing input is an error.
func (d Decoder) DecodeValue(b []byte, t *value.Type) (value.Value, error) {
	v, n, err := d.decodeValue(b, 0, t)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, &DecodeError{Offset: n, Err: ErrMoreThanOneValue}
	}
	return v, nil
}

// decodeValue decodes the value at buf[off:] and returns the offset just past it.
func (d Decoder) decodeValue(buf []byte, off int, t *value.Type) (value.Value, int, error) {
	k, ts, cs, err := d.readKind(buf, off)
	if err != nil {
		return nil, 0, err
	}
	start, end := off+int(ts), off+int(ts)+int(cs)
	content := buf[start:end]

	switch t.Kind {
	case value.FixedArrayKind, value.ArrayKind, value.TupleKind:
		if k != List {
			return nil, 0, &DecodeError{Offset: off, Err: ErrExpectedList}
		}
		var elems []value.Value
		for p := start; p < end; {
			et := t.Elem
			if t.Kind == value.TupleKind {
				if len(elems) >= len(t.Fields) {
					return nil, 0, &DecodeError{Offset: p, Err: ErrElemCount}
				}
				et = t.Fields[len(elems)].Type
			}
			e, next, err := d.decodeValue(buf[:end], p, et)
			if err != nil {
				return nil, 0, err
			}
			elems = append(elems, e)
			p = next
		}
		if (t.Kind == value.FixedArrayKind && len(elems) != t.Size) ||
			(t.Kind == value.TupleKind && len(elems) != len(t.Fields)) {
			return nil, 0, &DecodeError{Offset: off, Err: ErrElemCount}
		}
		v, err := value.Construct(t, elems)
		if err != nil {
			return nil, 0, wrapErr(off, err)
		}
		return v, end, nil
	}

	if k == List {
		return nil, 0, &DecodeError{Offset: off, Err: ErrExpectedString}
	}
	v, err := d.decodeScalar(k, content, t)
	if err != nil {
		return nil, 0, wrapErr(off, err)
	}
	return v, end, nil
}

func (d Decoder) decodeScalar(k Kind, content []byte, t *value.Type) (value.Value, error) {
	switch t.Kind {
	case value.BoolKind:
		switch {
		case k == String && len(content) == 0:
			return value.Bool(false), nil
		case len(content) == 1 && content[0] == 0x01:
			return value.Bool(true), nil
		}
		return nil, ErrInvalidBool

	case value.UintKind:
		if len(content) > 0 && content[0] == 0 {
			if !d.Lenient {
				return nil, ErrCanonInt
			}
			content = trimZeroes(content)
		}
		if len(content)*8 > t.Size {
			return nil, ErrValueOverflow
		}
		return value.NewUint(t, new(uint256.Int).SetBytes(content))

	case value.IntKind:
		x, err := d.readSigned(content)
		if err != nil {
			return nil, err
		}
		v, err := value.NewInt(t, x)
		if err != nil {
			return nil, ErrValueOverflow
		}
		return v, nil

	case value.FixedBytesKind, value.AddressKind:
		if len(content) != fixedSize(t) {
			return nil, errors.Wrapf(ErrLength, "%d bytes for %v", len(content), t)
		}
		return value.Construct(t, content)

	case value.BytesKind, value.StringKind:
		return value.Construct(t, content)
	}
	return nil, errors.Wrapf(value.ErrTypeDefinition, "kind %v", t.Kind)
}

func fixedSize(t *value.Type) int {
	if t.Kind == value.AddressKind {
		return common.AddressLength
	}
	return t.Size
}

// readSigned sign-extends a two's complement payload. Strict mode requires
// the shortest form: no redundant 0x00 or 0xff sign byte, and zero as the
// empty string.
func (d Decoder) readSigned(b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return new(big.Int), nil
	}
	if !d.Lenient {
		if len(b) == 1 && b[0] == 0 {
			return nil, ErrCanonInt
		}
		if len(b) > 1 && ((b[0] == 0x00 && b[1] < 0x80) || (b[0] == 0xff && b[1] >= 0x80)) {
			return nil, ErrCanonInt
		}
	}
	x := new(big.Int).SetBytes(b)
	if b[0] >= 0x80 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x, nil
}
