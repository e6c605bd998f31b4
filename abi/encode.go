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
	"math/big"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// WordSize is the size of an ABI slot.
const WordSize = 32

// tt256 is 2^256, added to negative integers to get their two's complement word.
var tt256 = new(big.Int).Lsh(big.NewInt(1), 256)

// Encode lays out vals as the fields of a tuple, the way call arguments and
// return values are encoded. A single static value encodes to its inline
// slots; for example Encode of the uint256 value 1 is one 32 byte word.
func Encode(vals ...value.Value) ([]byte, error) {
	return encodeSequence(nil, vals)
}

// EncodeTuple encodes the fields of t in head/tail layout.
func EncodeTuple(t *value.Tuple) ([]byte, error) {
	vals := make([]value.Value, t.Len())
	for i := range vals {
		vals[i] = t.Field(i)
	}
	return Encode(vals...)
}

// EncodeValue returns the standalone encoding of v: its inline slots when v is
// static, or the tail entry that an offset would point at when v is dynamic.
func EncodeValue(v value.Value) ([]byte, error) {
	if v == nil {
		return nil, errors.Wrap(ErrTypeMismatch, "nil value")
	}
	e := new(encoder)
	if err := v.Accept(e); err != nil {
		return nil, err
	}
	return e.out, nil
}

// encoder appends the encoding of the visited value to out.
type encoder struct {
	out []byte
}

func (e *encoder) VisitBool(b bool) error {
	var w [WordSize]byte
	if b {
		w[WordSize-1] = 1
	}
	e.out = append(e.out, w[:]...)
	return nil
}

func (e *encoder) VisitUint(_ *value.Type, x *uint256.Int) error {
	w := x.Bytes32()
	e.out = append(e.out, w[:]...)
	return nil
}

func (e *encoder) VisitInt(_ *value.Type, x *big.Int) error {
	e.out = append(e.out, signedWord(x)...)
	return nil
}

func (e *encoder) VisitFixedBytes(_ *value.Type, b []byte) error {
	e.out = append(e.out, common.RightPadBytes(b, WordSize)...)
	return nil
}

func (e *encoder) VisitBytes(b []byte) error {
	e.out = appendDynamicBytes(e.out, b)
	return nil
}

func (e *encoder) VisitString(s string) error {
	e.out = appendDynamicBytes(e.out, []byte(s))
	return nil
}

func (e *encoder) VisitAddress(a common.Address) error {
	e.out = append(e.out, common.LeftPadBytes(a.Bytes(), WordSize)...)
	return nil
}

func (e *encoder) VisitArray(t *value.Type, elems []value.Value) error {
	if t.Kind == value.ArrayKind {
		e.out = append(e.out, uintWord(uint64(len(elems)))...)
	}
	out, err := encodeSequence(e.out, elems)
	if err != nil {
		return err
	}
	e.out = out
	return nil
}

func (e *encoder) VisitTuple(_ *value.Type, fields []value.Value) error {
	out, err := encodeSequence(e.out, fields)
	if err != nil {
		return err
	}
	e.out = out
	return nil
}

// encodeSequence appends the head/tail layout of vals to dst. Offsets in the
// head are relative to the start of the sequence.
// 静态值直接写在head里，动态值在head里写offset，数据追加到tail
func encodeSequence(dst []byte, vals []value.Value) ([]byte, error) {
	headSize := 0
	for i, v := range vals {
		if v == nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "value %d is nil", i)
		}
		headSize += HeadSize(v.Type())
	}
	var tail []byte
	for _, v := range vals {
		enc, err := EncodeValue(v)
		if err != nil {
			return nil, err
		}
		if IsDynamic(v.Type()) {
			dst = append(dst, uintWord(uint64(headSize+len(tail)))...)
			tail = append(tail, enc...)
		} else {
			dst = append(dst, enc...)
		}
	}
	return append(dst, tail...), nil
}

// appendDynamicBytes appends the length word and the zero padded content.
func appendDynamicBytes(dst, b []byte) []byte {
	dst = append(dst, uintWord(uint64(len(b)))...)
	dst = append(dst, b...)
	if rem := len(b) % WordSize; rem != 0 {
		dst = append(dst, make([]byte, WordSize-rem)...)
	}
	return dst
}

func uintWord(x uint64) []byte {
	w := uint256.NewInt(x).Bytes32()
	return w[:]
}

// signedWord returns the 32 byte two's complement form of x.
func signedWord(x *big.Int) []byte {
	v := x
	if x.Sign() < 0 {
		v = new(big.Int).Add(tt256, x)
	}
	return v.FillBytes(make([]byte, WordSize))
}
