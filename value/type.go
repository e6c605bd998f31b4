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

package value

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrTypeDefinition is returned when a type is built from an unsupported
	// width, length or shape. It signals a programming error in the schema.
	ErrTypeDefinition = errors.New("value: invalid type definition")
	// ErrValueOverflow is returned when a value does not fit its declared type.
	ErrValueOverflow = errors.New("value: out of range for type")
	// ErrTypeMismatch is returned when a value's type differs from the one expected.
	ErrTypeMismatch = errors.New("value: type mismatch")
)

// Kind is the variant tag of a Type.
type Kind uint8

const (
	BoolKind Kind = iota
	UintKind
	IntKind
	FixedBytesKind
	BytesKind
	StringKind
	AddressKind
	FixedArrayKind
	ArrayKind
	TupleKind
)

var kindNames = [...]string{
	BoolKind:       "bool",
	UintKind:       "uint",
	IntKind:        "int",
	FixedBytesKind: "fixedbytes",
	BytesKind:      "bytes",
	StringKind:     "string",
	AddressKind:    "address",
	FixedArrayKind: "fixedarray",
	ArrayKind:      "array",
	TupleKind:      "tuple",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Field is a named member of a tuple type. Name may be empty for positional tuples.
type Field struct {
	Name string
	Type *Type
}

// Type describes the shape of a Value. Types are immutable once built and may
// be shared between goroutines.
//
// Size holds the bit width for integers, the byte length for fixed bytes and
// the element count for fixed arrays. Elem is set for both array kinds.
// Fields and Name are set for tuples; Name carries the struct name, if any.
type Type struct {
	Kind   Kind
	Size   int
	Elem   *Type
	Fields []Field
	Name   string
}

// Common types.
var (
	BoolType    = &Type{Kind: BoolKind}
	AddressType = &Type{Kind: AddressKind}
	BytesType   = &Type{Kind: BytesKind}
	StringType  = &Type{Kind: StringKind}
	Uint8Type   = MustType(NewUintType(8))
	Uint64Type  = MustType(NewUintType(64))
	Uint256Type = MustType(NewUintType(256))
	Int256Type  = MustType(NewIntType(256))
	Bytes32Type = MustType(NewFixedBytesType(32))
)

// MustType panics if err is not nil. It is meant for package-level type tables.
func MustType(t *Type, err error) *Type {
	if err != nil {
		panic(err)
	}
	return t
}

func checkBits(bits int) error {
	if bits <= 0 || bits > 256 || bits%8 != 0 {
		return errors.Wrapf(ErrTypeDefinition, "integer width %d", bits)
	}
	return nil
}

// NewUintType returns an unsigned integer type of the given bit width.
// The width must be a multiple of 8 in the range 8..256.
func NewUintType(bits int) (*Type, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return &Type{Kind: UintKind, Size: bits}, nil
}

// NewIntType returns a two's complement signed integer type of the given bit width.
func NewIntType(bits int) (*Type, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return &Type{Kind: IntKind, Size: bits}, nil
}

// NewFixedBytesType returns the bytesN type, 1 <= n <= 32.
func NewFixedBytesType(n int) (*Type, error) {
	if n <= 0 || n > 32 {
		return nil, errors.Wrapf(ErrTypeDefinition, "fixed bytes length %d", n)
	}
	return &Type{Kind: FixedBytesKind, Size: n}, nil
}

// NewFixedArrayType returns the elem[n] type.
func NewFixedArrayType(elem *Type, n int) (*Type, error) {
	if elem == nil {
		return nil, errors.Wrap(ErrTypeDefinition, "nil array element type")
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrTypeDefinition, "fixed array length %d", n)
	}
	if elem.empty() {
		return nil, errors.Wrapf(ErrTypeDefinition, "array of empty tuple %v", elem)
	}
	return &Type{Kind: FixedArrayKind, Size: n, Elem: elem}, nil
}

// NewArrayType returns the elem[] type.
func NewArrayType(elem *Type) (*Type, error) {
	if elem == nil {
		return nil, errors.Wrap(ErrTypeDefinition, "nil array element type")
	}
	if elem.empty() {
		return nil, errors.Wrapf(ErrTypeDefinition, "array of empty tuple %v", elem)
	}
	return &Type{Kind: ArrayKind, Elem: elem}, nil
}

// empty reports whether values of t carry no data: tuples without fields,
// or whose fields are all empty. Such values have no encoding that could
// tell array elements apart.
func (t *Type) empty() bool {
	if t.Kind != TupleKind {
		return false
	}
	for _, f := range t.Fields {
		if !f.Type.empty() {
			return false
		}
	}
	return true
}

// NewTupleType returns a tuple type. name is the struct name and may be empty.
// Field names, when given, must be unique.
func NewTupleType(name string, fields ...Field) (*Type, error) {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Type == nil {
			return nil, errors.Wrapf(ErrTypeDefinition, "tuple field %d has no type", i)
		}
		if f.Name == "" {
			continue
		}
		if seen[f.Name] {
			return nil, errors.Wrapf(ErrTypeDefinition, "duplicate tuple field %q", f.Name)
		}
		seen[f.Name] = true
	}
	cpy := make([]Field, len(fields))
	copy(cpy, fields)
	return &Type{Kind: TupleKind, Fields: cpy, Name: name}, nil
}

// String returns the canonical ABI name of the type, e.g. uint256, bytes32,
// uint8[3][] or (address,bytes).
func (t *Type) String() string {
	var sb strings.Builder
	t.writeName(&sb)
	return sb.String()
}

func (t *Type) writeName(sb *strings.Builder) {
	switch t.Kind {
	case UintKind:
		sb.WriteString("uint")
		sb.WriteString(strconv.Itoa(t.Size))
	case IntKind:
		sb.WriteString("int")
		sb.WriteString(strconv.Itoa(t.Size))
	case FixedBytesKind:
		sb.WriteString("bytes")
		sb.WriteString(strconv.Itoa(t.Size))
	case FixedArrayKind:
		t.Elem.writeName(sb)
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.Size))
		sb.WriteByte(']')
	case ArrayKind:
		t.Elem.writeName(sb)
		sb.WriteString("[]")
	case TupleKind:
		sb.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			f.Type.writeName(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(t.Kind.String())
	}
}

// Equal reports whether t and o describe the same layout. Field names are
// compared only when both sides carry them; struct names are ignored.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.Kind != o.Kind || t.Size != o.Size {
		return false
	}
	switch t.Kind {
	case FixedArrayKind, ArrayKind:
		return t.Elem.Equal(o.Elem)
	case TupleKind:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			a, b := t.Fields[i], o.Fields[i]
			if a.Name != "" && b.Name != "" && a.Name != b.Name {
				return false
			}
			if !a.Type.Equal(b.Type) {
				return false
			}
		}
	}
	return true
}

// FieldIndex returns the position of the named tuple field, or -1.
func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
