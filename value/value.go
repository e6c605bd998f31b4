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

/*
Package value implements the typed value model shared by the RLP and ABI codecs
and the EIP-712 hasher.

A Value is one of a closed set of variants: Bool, Uint, Int, FixedBytes, Bytes,
String, Address, Array (fixed or dynamic) and Tuple. Each variant carries its
Type and pushes itself into a codec through Accept. Codecs implement Visitor
for encoding and call Construct to build values while decoding, so they never
need to know about application types.

Application types take part by implementing Marshaler and Unmarshaler, which
map them to and from a Value explicitly. No reflection is involved.

Widths and lengths are checked when a Type or Value is built. Values that do
not fit their type are rejected with ErrValueOverflow, never truncated.
*/
package value

import (
	"bytes"
	"math/big"

	"github.com/PigCharid/ethercore/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Value is a typed value.
type Value interface {
	Type() *Type
	Accept(v Visitor) error
}

// Visitor receives the variant and payload of a Value. Payloads are owned by
// the value and must not be modified.
type Visitor interface {
	VisitBool(b bool) error
	VisitUint(t *Type, x *uint256.Int) error
	VisitInt(t *Type, x *big.Int) error
	VisitFixedBytes(t *Type, b []byte) error
	VisitBytes(b []byte) error
	VisitString(s string) error
	VisitAddress(a common.Address) error
	VisitArray(t *Type, elems []Value) error
	VisitTuple(t *Type, fields []Value) error
}

// Marshaler is implemented by application types that can describe themselves
// as a Value.
type Marshaler interface {
	MarshalValue() (Value, error)
}

// Unmarshaler is implemented by application types that can be filled from a
// decoded Value.
type Unmarshaler interface {
	UnmarshalValue(v Value) error
}

// Bool is the bool variant.
type Bool bool

func (Bool) Type() *Type              { return BoolType }
func (b Bool) Accept(v Visitor) error { return v.VisitBool(bool(b)) }

// Bytes is the dynamic bytes variant.
type Bytes []byte

func (Bytes) Type() *Type              { return BytesType }
func (b Bytes) Accept(v Visitor) error { return v.VisitBytes(b) }

// String is the string variant. It shares the wire layout of Bytes.
type String string

func (String) Type() *Type              { return StringType }
func (s String) Accept(v Visitor) error { return v.VisitString(string(s)) }

// Address is the 20 byte address variant.
type Address common.Address

func (Address) Type() *Type              { return AddressType }
func (a Address) Accept(v Visitor) error { return v.VisitAddress(common.Address(a)) }

// Uint is an unsigned integer of a fixed bit width.
type Uint struct {
	t *Type
	x uint256.Int
}

// NewUint returns x as a value of type t, which must be an unsigned integer type.
func NewUint(t *Type, x *uint256.Int) (*Uint, error) {
	if t == nil || t.Kind != UintKind {
		return nil, errors.Wrapf(ErrTypeMismatch, "%v is not an unsigned integer type", t)
	}
	if x.BitLen() > t.Size {
		return nil, errors.Wrapf(ErrValueOverflow, "%d bit value for %v", x.BitLen(), t)
	}
	u := &Uint{t: t}
	u.x.Set(x)
	return u, nil
}

// NewUint64 is a shorthand for NewUint with a uint64 payload.
func NewUint64(t *Type, x uint64) (*Uint, error) {
	return NewUint(t, uint256.NewInt(x))
}

// Uint256 returns x as a uint256 value.
func Uint256(x *uint256.Int) *Uint {
	u := &Uint{t: Uint256Type}
	u.x.Set(x)
	return u
}

func (u *Uint) Type() *Type            { return u.t }
func (u *Uint) Accept(v Visitor) error { return v.VisitUint(u.t, &u.x) }

// Int returns a copy of the payload.
func (u *Uint) Int() *uint256.Int { return u.x.Clone() }

// Int is a two's complement signed integer of a fixed bit width.
type Int struct {
	t *Type
	x *big.Int
}

// NewInt returns x as a value of type t, which must be a signed integer type.
func NewInt(t *Type, x *big.Int) (*Int, error) {
	if t == nil || t.Kind != IntKind {
		return nil, errors.Wrapf(ErrTypeMismatch, "%v is not a signed integer type", t)
	}
	if !fitsSigned(x, t.Size) {
		return nil, errors.Wrapf(ErrValueOverflow, "%v for %v", x, t)
	}
	return &Int{t: t, x: new(big.Int).Set(x)}, nil
}

// fitsSigned reports whether -2^(bits-1) <= x < 2^(bits-1).
func fitsSigned(x *big.Int, bits int) bool {
	if x.Sign() >= 0 {
		return x.BitLen() < bits
	}
	// -2^(bits-1) has BitLen bits, anything more negative is longer
	y := new(big.Int).Add(x, big.NewInt(1))
	return y.BitLen() < bits
}

func (i *Int) Type() *Type            { return i.t }
func (i *Int) Accept(v Visitor) error { return v.VisitInt(i.t, i.x) }

// Int returns a copy of the payload.
func (i *Int) Int() *big.Int { return new(big.Int).Set(i.x) }

// FixedBytes is the bytesN variant.
type FixedBytes struct {
	t *Type
	b []byte
}

// NewFixedBytes returns b as a bytesN value with N = len(b).
func NewFixedBytes(b []byte) (*FixedBytes, error) {
	t, err := NewFixedBytesType(len(b))
	if err != nil {
		return nil, err
	}
	return &FixedBytes{t: t, b: common.CopyBytes(b)}, nil
}

func (f *FixedBytes) Type() *Type            { return f.t }
func (f *FixedBytes) Accept(v Visitor) error { return v.VisitFixedBytes(f.t, f.b) }

// Bytes returns a copy of the payload.
func (f *FixedBytes) Bytes() []byte { return common.CopyBytes(f.b) }

// Array is a fixed or dynamic array. All elements share the element type.
type Array struct {
	t     *Type
	elems []Value
}

// NewArray builds an array of type t, which must be a fixed or dynamic array type.
func NewArray(t *Type, elems ...Value) (*Array, error) {
	if t == nil || (t.Kind != ArrayKind && t.Kind != FixedArrayKind) {
		return nil, errors.Wrapf(ErrTypeMismatch, "%v is not an array type", t)
	}
	if t.Kind == FixedArrayKind && len(elems) != t.Size {
		return nil, errors.Wrapf(ErrTypeMismatch, "%d elements for %v", len(elems), t)
	}
	for i, e := range elems {
		if e == nil || !t.Elem.Equal(e.Type()) {
			return nil, errors.Wrapf(ErrTypeMismatch, "element %d of %v", i, t)
		}
	}
	cpy := make([]Value, len(elems))
	copy(cpy, elems)
	return &Array{t: t, elems: cpy}, nil
}

func (a *Array) Type() *Type            { return a.t }
func (a *Array) Accept(v Visitor) error { return v.VisitArray(a.t, a.elems) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the i'th element.
func (a *Array) Index(i int) Value { return a.elems[i] }

// Tuple is an ordered list of fields, optionally named and carrying a struct name.
type Tuple struct {
	t      *Type
	fields []Value
}

// NewTuple builds a tuple of type t from its field values in declaration order.
func NewTuple(t *Type, fields ...Value) (*Tuple, error) {
	if t == nil || t.Kind != TupleKind {
		return nil, errors.Wrapf(ErrTypeMismatch, "%v is not a tuple type", t)
	}
	if len(fields) != len(t.Fields) {
		return nil, errors.Wrapf(ErrTypeMismatch, "%d fields for %v", len(fields), t)
	}
	for i, f := range fields {
		if f == nil || !t.Fields[i].Type.Equal(f.Type()) {
			return nil, errors.Wrapf(ErrTypeMismatch, "field %d (%s) of %v", i, t.Fields[i].Name, t)
		}
	}
	cpy := make([]Value, len(fields))
	copy(cpy, fields)
	return &Tuple{t: t, fields: cpy}, nil
}

// MustTuple is like NewTuple but panics on error.
func MustTuple(t *Type, fields ...Value) *Tuple {
	tup, err := NewTuple(t, fields...)
	if err != nil {
		panic(err)
	}
	return tup
}

func (t *Tuple) Type() *Type            { return t.t }
func (t *Tuple) Accept(v Visitor) error { return v.VisitTuple(t.t, t.fields) }

// Len returns the number of fields.
func (t *Tuple) Len() int { return len(t.fields) }

// Field returns the i'th field value.
func (t *Tuple) Field(i int) Value { return t.fields[i] }

// FieldByName returns the value of the named field.
func (t *Tuple) FieldByName(name string) (Value, bool) {
	i := t.t.FieldIndex(name)
	if i < 0 {
		return nil, false
	}
	return t.fields[i], true
}

// Construct builds a value of type t from a payload parsed by a codec:
// bool, *uint256.Int, *big.Int, []byte, string, common.Address or []Value,
// depending on the kind of t.
func Construct(t *Type, payload interface{}) (Value, error) {
	switch t.Kind {
	case BoolKind:
		if b, ok := payload.(bool); ok {
			return Bool(b), nil
		}
	case UintKind:
		if x, ok := payload.(*uint256.Int); ok {
			return NewUint(t, x)
		}
	case IntKind:
		if x, ok := payload.(*big.Int); ok {
			return NewInt(t, x)
		}
	case FixedBytesKind:
		if b, ok := payload.([]byte); ok {
			if len(b) != t.Size {
				return nil, errors.Wrapf(ErrTypeMismatch, "%d bytes for %v", len(b), t)
			}
			return &FixedBytes{t: t, b: common.CopyBytes(b)}, nil
		}
	case BytesKind:
		if b, ok := payload.([]byte); ok {
			return Bytes(common.CopyBytes(b)), nil
		}
	case StringKind:
		switch s := payload.(type) {
		case string:
			return String(s), nil
		case []byte:
			return String(s), nil
		}
	case AddressKind:
		switch a := payload.(type) {
		case common.Address:
			return Address(a), nil
		case []byte:
			if len(a) == common.AddressLength {
				return Address(common.BytesToAddress(a)), nil
			}
		}
	case FixedArrayKind, ArrayKind:
		if elems, ok := payload.([]Value); ok {
			return NewArray(t, elems...)
		}
	case TupleKind:
		if fields, ok := payload.([]Value); ok {
			return NewTuple(t, fields...)
		}
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "cannot construct %v from %T", t, payload)
}

// Of returns x as a Value, calling MarshalValue when x is a Marshaler.
func Of(x interface{}) (Value, error) {
	switch x := x.(type) {
	case Value:
		return x, nil
	case Marshaler:
		return x.MarshalValue()
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "%T is neither a Value nor a Marshaler", x)
}

// Equal reports whether a and b have equal types and payloads.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.Type().Equal(b.Type()) {
		return false
	}
	switch a := a.(type) {
	case Bool:
		o, ok := b.(Bool)
		return ok && a == o
	case Bytes:
		o, ok := b.(Bytes)
		return ok && bytes.Equal(a, o)
	case String:
		o, ok := b.(String)
		return ok && a == o
	case Address:
		o, ok := b.(Address)
		return ok && a == o
	case *Uint:
		o, ok := b.(*Uint)
		return ok && a.x.Eq(&o.x)
	case *Int:
		o, ok := b.(*Int)
		return ok && a.x.Cmp(o.x) == 0
	case *FixedBytes:
		o, ok := b.(*FixedBytes)
		return ok && bytes.Equal(a.b, o.b)
	case *Array:
		o, ok := b.(*Array)
		if !ok || len(a.elems) != len(o.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], o.elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		o, ok := b.(*Tuple)
		if !ok || len(a.fields) != len(o.fields) {
			return false
		}
		for i := range a.fields {
			if !Equal(a.fields[i], o.fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}
