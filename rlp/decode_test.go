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
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDecodeItemRoundTrip(t *testing.T) {
	for i, test := range encTests {
		input := common.FromHex(test.output)
		it, err := DecodeItem(input)
		require.NoError(t, err, "test %d", i)
		if !bytes.Equal(EncodeItem(it), input) {
			t.Errorf("test %d: re-encoding mismatch for %v", i, it)
		}
	}
}

var decodeErrTests = []struct {
	input  string
	err    error
	offset int
	// lenient is set when Decoder{Lenient: true} accepts the input,
	// canonical holds the expected re-encoding.
	lenient   bool
	canonical string
}{
	{input: "", err: ErrUnexpectedEOF},
	{input: "83646F", err: ErrUnexpectedEOF},
	{input: "B8", err: ErrUnexpectedEOF},
	{input: "C3010203FF", err: ErrMoreThanOneValue, offset: 4},
	{input: "C20102C0", err: ErrMoreThanOneValue, offset: 3},
	{input: "C383646F67", err: ErrUnexpectedEOF, offset: 1},
	{input: "C2830102", err: ErrUnexpectedEOF, offset: 1},

	// single byte below 0x80 with a string header
	{input: "8105", err: ErrCanonSize, lenient: true, canonical: "05"},
	{input: "C28105", err: ErrCanonSize, offset: 1, lenient: true, canonical: "C105"},
	// long form for a short size
	{input: "B80161", err: ErrCanonSize, lenient: true, canonical: "61"},
	{input: "B8020102", err: ErrCanonSize, lenient: true, canonical: "820102"},
	{input: "F800", err: ErrCanonSize, lenient: true, canonical: "C0"},
	// size with leading zero bytes
	{input: "B90038" + strings.Repeat("61", 56), err: ErrCanonSize, lenient: true, canonical: "B838" + strings.Repeat("61", 56)},
}

func TestDecodeItemErrors(t *testing.T) {
	for i, test := range decodeErrTests {
		input := common.FromHex(test.input)
		_, err := DecodeItem(input)
		require.Error(t, err, "test %d", i)
		require.True(t, errors.Is(err, test.err), "test %d: got %v, want %v", i, err, test.err)

		var derr *DecodeError
		require.True(t, errors.As(err, &derr), "test %d: no position in %v", i, err)
		require.Equal(t, test.offset, derr.Offset, "test %d", i)

		it, err := Decoder{Lenient: true}.DecodeItem(input)
		if !test.lenient {
			require.Error(t, err, "test %d: lenient mode", i)
			continue
		}
		require.NoError(t, err, "test %d: lenient mode", i)
		require.Equal(t, common.FromHex(test.canonical), EncodeItem(it), "test %d", i)
	}
}

func TestSplit(t *testing.T) {
	k, content, rest, err := Split(common.FromHex("C3010203FF"))
	require.NoError(t, err)
	require.Equal(t, List, k)
	require.Equal(t, []byte{1, 2, 3}, content)
	require.Equal(t, []byte{0xFF}, rest)

	content, rest, err = SplitString(common.FromHex("83646F6701"))
	require.NoError(t, err)
	require.Equal(t, []byte("dog"), content)
	require.Equal(t, []byte{0x01}, rest)

	_, _, err = SplitList(common.FromHex("83646F67"))
	require.Equal(t, ErrExpectedList, err)
	_, _, err = SplitString(common.FromHex("C0"))
	require.Equal(t, ErrExpectedString, err)

	x, rest, err := SplitUint64(common.FromHex("820400C0"))
	require.NoError(t, err)
	require.Equal(t, uint64(1024), x)
	require.Equal(t, []byte{0xC0}, rest)

	_, _, err = SplitUint64(common.FromHex("820004"))
	require.Equal(t, ErrCanonInt, err)
}

func TestCountValues(t *testing.T) {
	for _, test := range []struct {
		input string
		count int
		err   error
	}{
		{"", 0, nil},
		{"00", 1, nil},
		{"80", 1, nil},
		{"C0", 1, nil},
		{"01 02 03", 3, nil},
		{"01 C406070809 02", 3, nil},
		{"820101 820202 8403030303 04", 4, nil},
		{"8105", 0, ErrCanonSize},
		{"C401020304", 1, nil},
		{"C40102", 0, ErrUnexpectedEOF},
	} {
		count, err := CountValues(common.FromHex(stripSpaces(test.input)))
		require.Equal(t, test.err, err, test.input)
		require.Equal(t, test.count, count, test.input)
	}
}

func TestItemUint64(t *testing.T) {
	x, err := NewUint(1024).Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1024), x)

	_, err = NewString([]byte{0, 1}).Uint64()
	require.Equal(t, ErrCanonInt, err)
	_, err = NewString(make([]byte, 9)).Uint64()
	require.Equal(t, ErrCanonInt, err)
	_, err = NewString(bytes.Repeat([]byte{1}, 9)).Uint64()
	require.Equal(t, ErrValueOverflow, err)
	_, err = NewList().Uint64()
	require.Equal(t, ErrExpectedString, err)
}

// randomItem builds a random item tree from fuzzed leaves.
func randomItem(r *rand.Rand, leaves [][]byte, depth int) Item {
	if depth == 0 || len(leaves) == 0 || r.Intn(3) == 0 {
		if len(leaves) == 0 {
			return NewString(nil)
		}
		return NewString(leaves[r.Intn(len(leaves))])
	}
	n := r.Intn(5)
	items := make([]Item, n)
	for i := range items {
		items[i] = randomItem(r, leaves, depth-1)
	}
	return NewList(items...)
}

func TestFuzzRoundTrip(t *testing.T) {
	f := fuzz.NewWithSeed(1).NilChance(0).NumElements(1, 16)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var leaves [][]byte
		f.Fuzz(&leaves)
		// a few long strings to exercise the long form
		leaves = append(leaves, bytes.Repeat([]byte{byte(i)}, 56+i%200))

		in := randomItem(r, leaves, 4)
		enc := EncodeItem(in)
		out, err := DecodeItem(enc)
		if err != nil {
			t.Fatalf("iteration %d: decode error %v\ninput: %s", i, err, spew.Sdump(in))
		}
		if !normalize(in).Equal(out) {
			t.Fatalf("iteration %d: mismatch\nin:  %v\nout: %v", i, in, out)
		}
		require.Equal(t, enc, EncodeItem(out))
	}
}

// normalize replaces nil byte strings, which decode as empty strings.
func normalize(it Item) Item {
	if !it.IsList {
		if it.Str == nil {
			return NewString([]byte{})
		}
		return it
	}
	items := make([]Item, len(it.Items))
	for i, c := range it.Items {
		items[i] = normalize(c)
	}
	return NewList(items...)
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func BenchmarkDecodeItem(b *testing.B) {
	items := make([]Item, 100)
	for i := range items {
		items[i] = NewList(NewUint(uint64(i)), str("benchmark"), NewString(bytes.Repeat([]byte{0xab}, 64)))
	}
	enc := EncodeItem(NewList(items...))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeItem(enc); err != nil {
			b.Fatal(err)
		}
	}
}
