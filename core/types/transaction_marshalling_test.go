// Copyright 2021 The go-ethereum Authors
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

package types

import (
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMarshalTxJSON(t *testing.T) {
	enc, err := MarshalTxJSON(dynamicFeeTx)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type": "0x2",
		"chainId": "0x5",
		"nonce": "0x7",
		"maxPriorityFeePerGas": "0x77359400",
		"maxFeePerGas": "0x174876e800",
		"gas": "0x5208",
		"value": "0x0",
		"data": "0x6000",
		"accessList": []
	}`, string(enc))

	// round trip keeps the signing hash
	for _, tx := range []TxData{eip155Tx, accessListTx, dynamicFeeTx} {
		enc, err := MarshalTxJSON(tx)
		require.NoError(t, err)
		dec, err := ParseTxJSON(enc)
		require.NoError(t, err, "%s", enc)
		require.Equal(t, tx.TxType(), dec.TxType())
		require.Equal(t, SigningHash(tx), SigningHash(dec), "%s", enc)
	}
}

func TestParseTxJSON(t *testing.T) {
	tests := []struct {
		input string
		want  TxData
	}{
		{
			input: `{"nonce":"0x9","gasPrice":"0x4a817c800","gas":"0x5208","to":"0x3535353535353535353535353535353535353535","value":"0xde0b6b3a7640000","chainId":"0x1"}`,
			want:  eip155Tx,
		},
		{
			// type inferred from the access list, "input" for data
			input: `{"chainId":"0x1","gasPrice":"0x3b9aca00","gas":"0x186a0","to":"0x3535353535353535353535353535353535353535","value":"0x1","input":"0xa9059cbb",
				"accessList":[{"address":"0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae","storageKeys":["0x0000000000000000000000000000000000000000000000000000000000000000","0x0000000000000000000000000000000000000000000000000000000000000001"]}]}`,
			want: accessListTx,
		},
		{
			input: `{"type":"0x02","chainId":"0x5","nonce":"0x7","maxPriorityFeePerGas":"0x77359400","maxFeePerGas":"0x174876e800","gas":"0x5208","data":"0x6000"}`,
			want:  dynamicFeeTx,
		},
		{
			// type inferred from the fee caps
			input: `{"chainId":"0x5","nonce":"0x7","maxPriorityFeePerGas":"0x77359400","maxFeePerGas":"0x174876e800","gas":"0x5208","data":"0x6000"}`,
			want:  dynamicFeeTx,
		},
	}
	for i, test := range tests {
		tx, err := ParseTxJSON([]byte(test.input))
		require.NoError(t, err, "test %d", i)
		require.Equal(t, test.want.TxType(), tx.TxType(), "test %d", i)
		require.Equal(t, SigningHash(test.want), SigningHash(tx), "test %d", i)
	}
}

func TestParseTxJSONDefaults(t *testing.T) {
	tx, err := ParseTxJSON([]byte(`{"type":"2","chainId":"0x1"}`))
	require.NoError(t, err)
	dyn := tx.(*DynamicFeeTx)
	require.True(t, dyn.GasFeeCap.IsZero())
	require.True(t, dyn.Value.IsZero())
	require.Nil(t, dyn.To)
	require.Equal(t, uint64(0), dyn.Nonce)

	tx, err = ParseTxJSON([]byte(`{"to":"0x0000000000000000000000000000000000000001"}`))
	require.NoError(t, err)
	legacy := tx.(*LegacyTx)
	require.Nil(t, legacy.ChainID)
	require.Equal(t, common.BytesToAddress([]byte{1}), *legacy.To)
	require.Equal(t, uint256.NewInt(0), legacy.GasPrice)
}

func TestParseTxJSONErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`{"type":"0x3","chainId":"0x1"}`, ErrTxTypeNotSupported},
		{`{"type":"eip1559"}`, ErrTxTypeNotSupported},
	}
	for i, test := range tests {
		_, err := ParseTxJSON([]byte(test.input))
		require.True(t, errors.Is(err, test.want), "test %d: got %v", i, err)
	}
	for _, input := range []string{
		`{"type":"0x1","gasPrice":"0x1"}`,       // missing chainId
		`{"maxFeePerGas":"0x1"}`,                // missing chainId
		`{"nonce":"0x01"}`,                      // leading zero
		`{"value":"0x1"`,                        // truncated
		`{"to":"0x35353535353535353535353535"}`, // short address
	} {
		_, err := ParseTxJSON([]byte(input))
		require.Error(t, err, input)
	}
}
