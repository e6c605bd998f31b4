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
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMethodID(t *testing.T) {
	for _, test := range []struct {
		sig, canonical, id string
	}{
		{"transfer(address,uint256)", "transfer(address,uint256)", "a9059cbb"},
		{"transfer(address, uint)", "transfer(address,uint256)", "a9059cbb"},
		{"balanceOf(address)", "balanceOf(address)", "70a08231"},
		{"sam(bytes,bool,uint256[])", "sam(bytes,bool,uint256[])", "a5643bf2"},
		{"f(uint256,uint32[],bytes10,bytes)", "f(uint256,uint32[],bytes10,bytes)", "8be65246"},
		{"g(uint256[][],string[])", "g(uint256[][],string[])", "2289b18c"},
		{"totalSupply()", "totalSupply()", "18160ddd"},
	} {
		m, err := ParseMethod(test.sig)
		require.NoError(t, err, test.sig)
		require.Equal(t, test.canonical, m.Sig())
		require.Equal(t, test.id, common.Bytes2Hex(m.ID()), test.sig)
	}
}

func TestParseMethodErrors(t *testing.T) {
	for _, test := range []struct {
		sig string
		err error
	}{
		{"transfer", ErrInvalidType},
		{"(uint256)", ErrInvalidType},
		{"f(uint256", ErrInvalidType},
		{"f(uint256))", ErrInvalidType},
		{"f(fixed128x18)", ErrUnsupportedType},
	} {
		_, err := ParseMethod(test.sig)
		require.True(t, errors.Is(err, test.err), "%q: got %v", test.sig, err)
	}
}

func TestMethodPackUnpack(t *testing.T) {
	m, err := ParseMethod("sam(bytes,bool,uint256[])")
	require.NoError(t, err)
	uints := MustParseType("uint256[]")
	args := []value.Value{value.Bytes("dave"), value.Bool(true), arr(uints, u(uint256T, 1), u(uint256T, 2), u(uint256T, 3))}

	data, err := m.Pack(args...)
	require.NoError(t, err)
	enc, err := Encode(args...)
	require.NoError(t, err)
	require.Equal(t, append(common.FromHex("a5643bf2"), enc...), data)

	vals, err := m.UnpackInput(data)
	require.NoError(t, err)
	for i := range args {
		require.True(t, value.Equal(args[i], vals[i]), "argument %d", i)
	}

	data[0] ^= 0xff
	_, err = m.UnpackInput(data)
	require.True(t, errors.Is(err, ErrSelectorMismatch))

	_, err = m.UnpackInput(data[:3])
	require.True(t, errors.Is(err, ErrBufferTooShort))

	_, err = m.Pack(args[:2]...)
	require.True(t, errors.Is(err, ErrArgumentCount))

	_, err = m.Pack(value.String("dave"), args[1], args[2])
	require.True(t, errors.Is(err, ErrTypeMismatch))

	// missing values are reported, not dereferenced
	_, err = m.Pack(args[0], nil, args[2])
	require.True(t, errors.Is(err, ErrTypeMismatch), "got %v", err)
	_, err = Encode(args[0], nil)
	require.True(t, errors.Is(err, ErrTypeMismatch), "got %v", err)
	_, err = EncodeValue(nil)
	require.True(t, errors.Is(err, ErrTypeMismatch), "got %v", err)
}

type balance struct {
	amount uint64
}

func (b *balance) UnmarshalValue(v value.Value) error {
	x, ok := v.(*value.Uint)
	if !ok {
		return value.ErrTypeMismatch
	}
	b.amount = x.Int().Uint64()
	return nil
}

func TestMethodOutputs(t *testing.T) {
	outputs, err := NewArguments("uint256")
	require.NoError(t, err)
	m, err := ParseMethod("balanceOf(address)")
	require.NoError(t, err)
	m.Outputs = outputs
	require.Equal(t, "function balanceOf(address) returns(uint256)", m.String())

	ret := common.FromHex(word(1000))
	vals, err := m.Unpack(ret)
	require.NoError(t, err)
	require.True(t, value.Equal(u(uint256T, 1000), vals[0]))

	var b balance
	require.NoError(t, m.Outputs.UnpackInto(ret, &b))
	require.Equal(t, uint64(1000), b.amount)

	err = m.Outputs.UnpackInto(ret)
	require.True(t, errors.Is(err, ErrArgumentCount))
}

func TestEvent(t *testing.T) {
	ev, err := ParseEvent("Transfer(address,address,uint256)")
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"), ev.ID())

	ev.Inputs[0].Indexed = true
	ev.Inputs[1].Indexed = true
	require.Len(t, ev.Inputs.NonIndexed(), 1)
	// indexing does not change the signature
	require.Equal(t, "Transfer(address,address,uint256)", ev.Sig())

	vals, err := ev.UnpackData(common.FromHex(word(42)))
	require.NoError(t, err)
	require.Len(t, vals, 1)
	require.True(t, value.Equal(u(uint256T, 42), vals[0]))
}
