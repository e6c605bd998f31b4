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
	"math/big"
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTypeDefinition(t *testing.T) {
	for _, bits := range []int{0, 7, 12, 264, -8} {
		_, err := NewUintType(bits)
		require.True(t, errors.Is(err, ErrTypeDefinition), "uint%d", bits)
		_, err = NewIntType(bits)
		require.True(t, errors.Is(err, ErrTypeDefinition), "int%d", bits)
	}
	for _, n := range []int{0, 33} {
		_, err := NewFixedBytesType(n)
		require.True(t, errors.Is(err, ErrTypeDefinition), "bytes%d", n)
	}
	_, err := NewTupleType("", Field{Name: "a", Type: BoolType}, Field{Name: "a", Type: BoolType})
	require.True(t, errors.Is(err, ErrTypeDefinition))

	// zero length arrays and arrays of empty tuples have no decodable encoding
	_, err = NewFixedArrayType(BytesType, 0)
	require.True(t, errors.Is(err, ErrTypeDefinition), "bytes[0]")
	empty := MustType(NewTupleType(""))
	nested := MustType(NewTupleType("", Field{Type: empty}))
	for _, elem := range []*Type{empty, nested} {
		_, err = NewArrayType(elem)
		require.True(t, errors.Is(err, ErrTypeDefinition), "%v[]", elem)
		_, err = NewFixedArrayType(elem, 2)
		require.True(t, errors.Is(err, ErrTypeDefinition), "%v[2]", elem)
	}
	// other fields give the element data
	_, err = NewArrayType(MustType(NewTupleType("", Field{Type: empty}, Field{Type: BoolType})))
	require.NoError(t, err)
}

func TestTypeString(t *testing.T) {
	u8 := MustType(NewUintType(8))
	fixed := MustType(NewFixedArrayType(u8, 3))
	dyn := MustType(NewArrayType(fixed))
	tup := MustType(NewTupleType("", Field{Type: Uint256Type}, Field{Type: BytesType}, Field{Type: dyn}))

	require.Equal(t, "uint8[3][]", dyn.String())
	require.Equal(t, "(uint256,bytes,uint8[3][])", tup.String())
	require.Equal(t, "bytes32", Bytes32Type.String())
	require.Equal(t, "int256", Int256Type.String())
	require.Equal(t, "address", AddressType.String())
}

func TestTypeEqual(t *testing.T) {
	a := MustType(NewTupleType("Person", Field{Name: "name", Type: StringType}, Field{Name: "wallet", Type: AddressType}))
	b := MustType(NewTupleType("", Field{Type: StringType}, Field{Type: AddressType}))
	c := MustType(NewTupleType("Person", Field{Name: "nick", Type: StringType}, Field{Name: "wallet", Type: AddressType}))

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, Uint256Type.Equal(Int256Type))
	require.True(t, MustType(NewUintType(256)).Equal(Uint256Type))
}

func TestUintRange(t *testing.T) {
	u8 := MustType(NewUintType(8))
	_, err := NewUint64(u8, 255)
	require.NoError(t, err)
	_, err = NewUint64(u8, 256)
	require.True(t, errors.Is(err, ErrValueOverflow))

	max := new(uint256.Int).Not(new(uint256.Int))
	v := Uint256(max)
	require.Equal(t, 256, v.Int().BitLen())
}

func TestIntRange(t *testing.T) {
	i8 := MustType(NewIntType(8))
	for _, ok := range []int64{-128, -1, 0, 127} {
		_, err := NewInt(i8, big.NewInt(ok))
		require.NoError(t, err, "%d", ok)
	}
	for _, bad := range []int64{-129, 128, 1000} {
		_, err := NewInt(i8, big.NewInt(bad))
		require.True(t, errors.Is(err, ErrValueOverflow), "%d", bad)
	}
}

func TestCompositeConstruction(t *testing.T) {
	arr3 := MustType(NewFixedArrayType(BoolType, 3))
	_, err := NewArray(arr3, Bool(true), Bool(false))
	require.True(t, errors.Is(err, ErrTypeMismatch))

	_, err = NewArray(arr3, Bool(true), Bool(false), String("x"))
	require.True(t, errors.Is(err, ErrTypeMismatch))

	person := MustType(NewTupleType("Person", Field{Name: "name", Type: StringType}, Field{Name: "wallet", Type: AddressType}))
	p, err := NewTuple(person, String("Cow"), Address(common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")))
	require.NoError(t, err)
	name, ok := p.FieldByName("name")
	require.True(t, ok)
	require.Equal(t, String("Cow"), name)
	_, ok = p.FieldByName("age")
	require.False(t, ok)

	_, err = NewTuple(person, String("Cow"))
	require.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestConstruct(t *testing.T) {
	u16 := MustType(NewUintType(16))
	v, err := Construct(u16, uint256.NewInt(513))
	require.NoError(t, err)
	require.True(t, Equal(v, MustUint(u16, 513)))

	_, err = Construct(u16, []byte{1})
	require.True(t, errors.Is(err, ErrTypeMismatch))

	b4 := MustType(NewFixedBytesType(4))
	_, err = Construct(b4, []byte{1, 2, 3})
	require.True(t, errors.Is(err, ErrTypeMismatch))

	list := MustType(NewArrayType(u16))
	v, err = Construct(list, []Value{MustUint(u16, 1), MustUint(u16, 2)})
	require.NoError(t, err)
	require.Equal(t, 2, v.(*Array).Len())
}

func TestEqual(t *testing.T) {
	u8 := MustType(NewUintType(8))
	require.True(t, Equal(MustUint(u8, 1), MustUint(u8, 1)))
	require.False(t, Equal(MustUint(u8, 1), MustUint(Uint256Type, 1)))
	require.False(t, Equal(Bytes("a"), String("a")))
	require.True(t, Equal(Bytes{}, Bytes(nil)))
}

type wallet struct {
	owner   common.Address
	balance uint64
}

var walletType = MustType(NewTupleType("Wallet",
	Field{Name: "owner", Type: AddressType},
	Field{Name: "balance", Type: Uint64Type},
))

func (w *wallet) MarshalValue() (Value, error) {
	bal, err := NewUint64(Uint64Type, w.balance)
	if err != nil {
		return nil, err
	}
	return NewTuple(walletType, Address(w.owner), bal)
}

func (w *wallet) UnmarshalValue(v Value) error {
	tup, ok := v.(*Tuple)
	if !ok || !tup.Type().Equal(walletType) {
		return ErrTypeMismatch
	}
	w.owner = common.Address(tup.Field(0).(Address))
	w.balance = tup.Field(1).(*Uint).Int().Uint64()
	return nil
}

func TestMarshaler(t *testing.T) {
	in := &wallet{owner: common.HexToAddress("0x01"), balance: 42}
	v, err := Of(in)
	require.NoError(t, err)

	var out wallet
	require.NoError(t, out.UnmarshalValue(v))
	require.Equal(t, *in, out)

	_, err = Of(42)
	require.True(t, errors.Is(err, ErrTypeMismatch))
}

// MustUint builds a test integer, panicking on range errors.
func MustUint(t *Type, x uint64) *Uint {
	u, err := NewUint64(t, x)
	if err != nil {
		panic(err)
	}
	return u
}
