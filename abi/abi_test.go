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
	"strings"
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(x uint64) string {
	return common.Bytes2Hex(uintWord(x))
}

func u(t *value.Type, x uint64) value.Value {
	v, err := value.NewUint64(t, x)
	if err != nil {
		panic(err)
	}
	return v
}

func arr(t *value.Type, elems ...value.Value) value.Value {
	v, err := value.NewArray(t, elems...)
	if err != nil {
		panic(err)
	}
	return v
}

func TestParseType(t *testing.T) {
	for _, test := range []struct{ in, out string }{
		{"bool", "bool"},
		{"uint", "uint256"},
		{"int", "int256"},
		{"uint8", "uint8"},
		{"int24", "int24"},
		{"bytes", "bytes"},
		{"bytes1", "bytes1"},
		{"bytes32", "bytes32"},
		{"address", "address"},
		{"string", "string"},
		{"uint256[]", "uint256[]"},
		{"address[2][]", "address[2][]"},
		{"uint[][3]", "uint256[][3]"},
		{"(uint256, bytes)", "(uint256,bytes)"},
		{"(uint256,(bool,string)[])[2]", "(uint256,(bool,string)[])[2]"},
	} {
		typ, err := ParseType(test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.out, typ.String(), test.in)
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, test := range []struct {
		in  string
		err error
	}{
		{"fixed", ErrUnsupportedType},
		{"fixed128x18", ErrUnsupportedType},
		{"ufixed256x80", ErrUnsupportedType},
		{"uint7", value.ErrTypeDefinition},
		{"int264", value.ErrTypeDefinition},
		{"bytes0", value.ErrTypeDefinition},
		{"bytes33", value.ErrTypeDefinition},
		{"foo", ErrInvalidType},
		{"uint256[", ErrInvalidType},
		{"(uint256", ErrInvalidType},
		{"(uint256,foo)", ErrInvalidType},
		{"", ErrInvalidType},
		{"()", ErrInvalidType},
		{"()[]", ErrInvalidType},
		{"(bool,())", ErrInvalidType},
		{"bytes[0]", value.ErrTypeDefinition},
		{"uint256[2][0]", value.ErrTypeDefinition},
	} {
		_, err := ParseType(test.in)
		assert.True(t, errors.Is(err, test.err), "%q: got %v, want %v", test.in, err, test.err)
	}
}

func TestTypeCache(t *testing.T) {
	cached := func() int { return len(theTC.cur.Load().(map[string]*typeinfo)) }

	canon, err := ParseType("uint16[5]")
	require.NoError(t, err)
	again, err := ParseType("uint16[5]")
	require.NoError(t, err)
	require.True(t, canon == again, "canonical names are shared")

	before := cached()
	for i := 1; i <= 10; i++ {
		_, err := ParseType("Person" + strings.Repeat("s", i))
		require.Error(t, err)
		typ, err := ParseType("uint" + strings.Repeat("0", i) + "8")
		require.NoError(t, err)
		require.Equal(t, "uint8", typ.String())
	}
	require.Equal(t, before, cached())
}

func TestIsDynamic(t *testing.T) {
	for _, test := range []struct {
		typ      string
		dynamic  bool
		headSize int
	}{
		{"uint256", false, 32},
		{"bytes32", false, 32},
		{"bytes", true, 32},
		{"string", true, 32},
		{"uint8[]", true, 32},
		{"uint8[3]", false, 96},
		{"string[3]", true, 32},
		{"(uint256,address)", false, 64},
		{"(uint256,address)[2]", false, 128},
		{"(uint256,bytes)", true, 32},
	} {
		typ := MustParseType(test.typ)
		assert.Equal(t, test.dynamic, IsDynamic(typ), test.typ)
		assert.Equal(t, test.headSize, HeadSize(typ), test.typ)
	}
}

var (
	uint256T = MustParseType("uint256")
	uint32T  = MustParseType("uint32")
	uint8T   = MustParseType("uint8")
	int8T    = MustParseType("int8")
)

func TestEncodeVectors(t *testing.T) {
	uints := MustParseType("uint256[]")
	uint32s := MustParseType("uint32[]")
	nested := MustParseType("uint256[][]")
	strs := MustParseType("string[]")
	pair := MustParseType("(uint256,bytes)")
	two := MustParseType("uint256[2]")
	bytes10, _ := value.NewFixedBytes([]byte("1234567890"))
	minusOne, _ := value.NewInt(value.Int256Type, big.NewInt(-1))

	for i, test := range []struct {
		vals   []value.Value
		output string
	}{
		{
			[]value.Value{u(uint256T, 1)},
			word(1),
		},
		{
			[]value.Value{minusOne},
			strings.Repeat("ff", 32),
		},
		// sam("dave", true, [1,2,3])
		{
			[]value.Value{value.Bytes("dave"), value.Bool(true), arr(uints, u(uint256T, 1), u(uint256T, 2), u(uint256T, 3))},
			"0000000000000000000000000000000000000000000000000000000000000060" +
				"0000000000000000000000000000000000000000000000000000000000000001" +
				"00000000000000000000000000000000000000000000000000000000000000a0" +
				"0000000000000000000000000000000000000000000000000000000000000004" +
				"6461766500000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000000000000000000000000003" +
				"0000000000000000000000000000000000000000000000000000000000000001" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000003",
		},
		// f(0x123, [0x456, 0x789], "1234567890", "Hello, world!")
		{
			[]value.Value{u(uint256T, 0x123), arr(uint32s, u(uint32T, 0x456), u(uint32T, 0x789)), bytes10, value.Bytes("Hello, world!")},
			"0000000000000000000000000000000000000000000000000000000000000123" +
				"0000000000000000000000000000000000000000000000000000000000000080" +
				"3132333435363738393000000000000000000000000000000000000000000000" +
				"00000000000000000000000000000000000000000000000000000000000000e0" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000456" +
				"0000000000000000000000000000000000000000000000000000000000000789" +
				"000000000000000000000000000000000000000000000000000000000000000d" +
				"48656c6c6f2c20776f726c642100000000000000000000000000000000000000",
		},
		// g([[1, 2], [3]], ["one", "two", "three"])
		{
			[]value.Value{
				arr(nested, arr(uints, u(uint256T, 1), u(uint256T, 2)), arr(uints, u(uint256T, 3))),
				arr(strs, value.String("one"), value.String("two"), value.String("three")),
			},
			"0000000000000000000000000000000000000000000000000000000000000040" +
				"0000000000000000000000000000000000000000000000000000000000000140" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000040" +
				"00000000000000000000000000000000000000000000000000000000000000a0" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000001" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000001" +
				"0000000000000000000000000000000000000000000000000000000000000003" +
				"0000000000000000000000000000000000000000000000000000000000000003" +
				"0000000000000000000000000000000000000000000000000000000000000060" +
				"00000000000000000000000000000000000000000000000000000000000000a0" +
				"00000000000000000000000000000000000000000000000000000000000000e0" +
				"0000000000000000000000000000000000000000000000000000000000000003" +
				"6f6e650000000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000000000000000000000000003" +
				"74776f0000000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000000000000000000000000005" +
				"7468726565000000000000000000000000000000000000000000000000000000",
		},
		{
			[]value.Value{value.MustTuple(pair, u(uint256T, 5), value.Bytes{1, 2})},
			"0000000000000000000000000000000000000000000000000000000000000020" +
				"0000000000000000000000000000000000000000000000000000000000000005" +
				"0000000000000000000000000000000000000000000000000000000000000040" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0102000000000000000000000000000000000000000000000000000000000000",
		},
		{
			[]value.Value{arr(two, u(uint256T, 1), u(uint256T, 2)), value.String("")},
			"0000000000000000000000000000000000000000000000000000000000000001" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000060" +
				"0000000000000000000000000000000000000000000000000000000000000000",
		},
	} {
		out, err := Encode(test.vals...)
		require.NoError(t, err, "test %d", i)
		require.Equal(t, test.output, common.Bytes2Hex(out), "test %d", i)

		types := make([]*value.Type, len(test.vals))
		for j, v := range test.vals {
			types[j] = v.Type()
		}
		dec, err := Decode(out, types...)
		require.NoError(t, err, "test %d", i)
		for j := range dec {
			require.True(t, value.Equal(test.vals[j], dec[j]), "test %d: value %d decoded as %s", i, j, spew.Sdump(dec[j]))
		}
	}
}

// sharedChild is a uint256[][] of two elements whose offsets both point at
// the child [7].
var sharedChild = word(0x20) + word(2) + word(0x40) + word(0x40) + word(1) + word(7)

func TestDecodeErrors(t *testing.T) {
	bytesT := MustParseType("bytes")
	uints := MustParseType("uint256[]")
	nested := MustParseType("uint256[][]")

	for i, test := range []struct {
		input  string
		types  []*value.Type
		err    error
		offset int
	}{
		{strings.Repeat("00", 31), []*value.Type{uint256T}, ErrBufferTooShort, 0},
		{word(1), []*value.Type{uint256T, uint256T}, ErrBufferTooShort, 32},
		{word(0x40), []*value.Type{bytesT}, ErrOffsetOutOfRange, 0},
		{word(0x20), []*value.Type{bytesT}, ErrOffsetOutOfRange, 0},
		{strings.Repeat("ff", 32), []*value.Type{bytesT}, ErrOffsetOutOfRange, 0},
		{word(0x20) + word(0x40), []*value.Type{bytesT}, ErrLengthOverflow, 32},
		{word(0x20) + word(0x1000), []*value.Type{bytesT}, ErrLengthOverflow, 32},
		{word(0x20) + word(3) + word(1), []*value.Type{uints}, ErrLengthOverflow, 32},
		{word(0x100), []*value.Type{uint8T}, ErrValueOverflow, 0},
		{word(0x80), []*value.Type{int8T}, ErrValueOverflow, 0},
		{word(2), []*value.Type{value.BoolType}, ErrNonCanonical, 0},
		{"01" + strings.Repeat("00", 11) + strings.Repeat("11", 20), []*value.Type{value.AddressType}, ErrNonCanonical, 0},
		{"aabb" + strings.Repeat("00", 29) + "01", []*value.Type{MustParseType("bytes2")}, ErrNonCanonical, 0},
		{word(0x20) + word(1) + "61" + strings.Repeat("00", 30) + "01", []*value.Type{bytesT}, ErrNonCanonical, 65},
		// tail data must follow the head without gaps
		{word(0x40) + word(0) + word(0), []*value.Type{bytesT}, ErrNonCanonical, 0},
		// two elements sharing one child
		{sharedChild, []*value.Type{nested}, ErrNonCanonical, 0x60},
	} {
		_, err := Decode(common.FromHex(test.input), test.types...)
		require.True(t, errors.Is(err, test.err), "test %d: got %v, want %v", i, err, test.err)
		var derr *DecodeError
		require.True(t, errors.As(err, &derr), "test %d", i)
		require.Equal(t, test.offset, derr.Offset, "test %d", i)
	}
}

func TestDecodeLenient(t *testing.T) {
	d := Decoder{Lenient: true}

	vals, err := d.Decode(common.FromHex(word(2)), value.BoolType)
	require.NoError(t, err)
	require.Equal(t, value.Bool(true), vals[0])

	addr := "01" + strings.Repeat("00", 11) + strings.Repeat("11", 20)
	vals, err = d.Decode(common.FromHex(addr), value.AddressType)
	require.NoError(t, err)
	require.Equal(t, value.Address(common.HexToAddress("0x"+strings.Repeat("11", 20))), vals[0])

	vals, err = d.Decode(common.FromHex(word(0x20)+word(1)+"61"+strings.Repeat("00", 30)+"01"), value.StringType)
	require.NoError(t, err)
	require.Equal(t, value.String("a"), vals[0])

	// lenient does not relax range checks
	_, err = d.Decode(common.FromHex(word(0x100)), uint8T)
	require.True(t, errors.Is(err, ErrValueOverflow))

	vals, err = d.Decode(common.FromHex(word(0x40)+word(0)+word(0)), value.BytesType)
	require.NoError(t, err)
	require.Equal(t, value.Bytes{}, vals[0])

	nested := MustParseType("uint256[][]")
	uints := MustParseType("uint256[]")
	vals, err = d.Decode(common.FromHex(sharedChild), nested)
	require.NoError(t, err)
	seven := arr(uints, u(uint256T, 7))
	require.True(t, value.Equal(arr(nested, seven, seven), vals[0]), "got %s", spew.Sdump(vals[0]))

	// many elements sharing one large child must not blow up the result
	const n = 100
	blowup := word(0x20) + word(n) + strings.Repeat(word(n*WordSize), n) + word(n) + strings.Repeat(word(1), n)
	_, err = d.Decode(common.FromHex(blowup), nested)
	require.True(t, errors.Is(err, ErrLengthOverflow), "got %v", err)
	_, err = Decode(common.FromHex(blowup), nested)
	require.True(t, errors.Is(err, ErrNonCanonical), "got %v", err)
}

func TestSignedWords(t *testing.T) {
	for _, x := range []int64{0, 1, -1, 127, -128} {
		v, err := value.NewInt(int8T, big.NewInt(x))
		require.NoError(t, err)
		enc, err := Encode(v)
		require.NoError(t, err)
		if x < 0 {
			require.Equal(t, byte(0xff), enc[0], "%d is sign extended", x)
		}
		dec, err := Decode(enc, int8T)
		require.NoError(t, err)
		require.Equal(t, x, dec[0].(*value.Int).Int().Int64())
	}
}

func TestDecodeTuple(t *testing.T) {
	mail := value.MustType(value.NewTupleType("Mail",
		value.Field{Name: "to", Type: value.AddressType},
		value.Field{Name: "contents", Type: value.StringType},
	))
	in := value.MustTuple(mail, value.Address(common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")), value.String("Hello, Bob!"))
	enc, err := EncodeTuple(in)
	require.NoError(t, err)

	out, err := DecodeTuple(enc, mail)
	require.NoError(t, err)
	require.True(t, value.Equal(in, out))
	got, ok := out.FieldByName("contents")
	require.True(t, ok)
	require.Equal(t, value.String("Hello, Bob!"), got)

	_, err = DecodeTuple(enc, value.StringType)
	require.True(t, errors.Is(err, ErrTypeMismatch))
}

type fuzzRecord struct {
	A uint64
	B []byte
	C string
	D []uint8
	E bool
	F int8
}

var fuzzRecordType = MustParseType("(uint64,bytes,string,uint8[],bool,int8)")

func (r *fuzzRecord) MarshalValue() (value.Value, error) {
	small := make([]value.Value, len(r.D))
	for i, x := range r.D {
		small[i] = u(uint8T, uint64(x))
	}
	f, err := value.NewInt(int8T, big.NewInt(int64(r.F)))
	if err != nil {
		return nil, err
	}
	return value.NewTuple(fuzzRecordType,
		u(MustParseType("uint64"), r.A),
		value.Bytes(r.B),
		value.String(r.C),
		arr(fuzzRecordType.Fields[3].Type, small...),
		value.Bool(r.E),
		f,
	)
}

func TestFuzzRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 200; i++ {
		var rec fuzzRecord
		f.Fuzz(&rec)
		v, err := rec.MarshalValue()
		require.NoError(t, err)
		enc, err := Encode(v)
		require.NoError(t, err)
		require.Zero(t, len(enc)%WordSize)

		dec, err := Decode(enc, fuzzRecordType)
		require.NoError(t, err, spew.Sdump(rec))
		require.True(t, value.Equal(v, dec[0]), spew.Sdump(rec))
	}
}

func BenchmarkEncode(b *testing.B) {
	uints := MustParseType("uint256[]")
	vals := []value.Value{value.Bytes("dave"), value.Bool(true), arr(uints, u(uint256T, 1), u(uint256T, 2), u(uint256T, 3))}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(vals...); err != nil {
			b.Fatal(err)
		}
	}
}
