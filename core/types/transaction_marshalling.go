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
	"strconv"
	"strings"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// txJSON is the JSON representation of transaction requests. Quantities are
// hex strings. "input" is accepted as an alias of "data".
type txJSON struct {
	Type                 string          `json:"type,omitempty"`
	ChainID              *hexutil.U256   `json:"chainId,omitempty"`
	Nonce                *hexutil.Uint64 `json:"nonce,omitempty"`
	GasPrice             *hexutil.U256   `json:"gasPrice,omitempty"`
	MaxPriorityFeePerGas *hexutil.U256   `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas         *hexutil.U256   `json:"maxFeePerGas,omitempty"`
	Gas                  *hexutil.Uint64 `json:"gas,omitempty"`
	To                   *common.Address `json:"to,omitempty"`
	Value                *hexutil.U256   `json:"value,omitempty"`
	Data                 *hexutil.Bytes  `json:"data,omitempty"`
	Input                *hexutil.Bytes  `json:"input,omitempty"`
	AccessList           *AccessList     `json:"accessList,omitempty"`
}

// ParseTxJSON decodes a transaction request. Without a "type" field the
// type is inferred: fee caps mean EIP-1559, an access list means EIP-2930,
// anything else is a legacy transaction. Absent quantities are zero.
func ParseTxJSON(input []byte) (TxData, error) {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return nil, errors.Wrap(err, "invalid transaction json")
	}
	typ, err := dec.txType()
	if err != nil {
		return nil, err
	}
	data := dec.Data
	if data == nil {
		data = dec.Input
	}
	var al AccessList
	if dec.AccessList != nil {
		al = *dec.AccessList
	}
	switch typ {
	case LegacyTxType:
		return &LegacyTx{
			Nonce:    u64(dec.Nonce),
			GasPrice: u256(dec.GasPrice),
			Gas:      u64(dec.Gas),
			To:       dec.To,
			Value:    u256(dec.Value),
			Data:     bytesOf(data),
			ChainID:  optU256(dec.ChainID),
		}, nil
	case AccessListTxType:
		if dec.ChainID == nil {
			return nil, errors.New("missing required field 'chainId' in transaction")
		}
		return &AccessListTx{
			ChainID:    u256(dec.ChainID),
			Nonce:      u64(dec.Nonce),
			GasPrice:   u256(dec.GasPrice),
			Gas:        u64(dec.Gas),
			To:         dec.To,
			Value:      u256(dec.Value),
			Data:       bytesOf(data),
			AccessList: al,
		}, nil
	case DynamicFeeTxType:
		if dec.ChainID == nil {
			return nil, errors.New("missing required field 'chainId' in transaction")
		}
		return &DynamicFeeTx{
			ChainID:    u256(dec.ChainID),
			Nonce:      u64(dec.Nonce),
			GasTipCap:  u256(dec.MaxPriorityFeePerGas),
			GasFeeCap:  u256(dec.MaxFeePerGas),
			Gas:        u64(dec.Gas),
			To:         dec.To,
			Value:      u256(dec.Value),
			Data:       bytesOf(data),
			AccessList: al,
		}, nil
	}
	return nil, errors.Wrapf(ErrTxTypeNotSupported, "type %#x", typ)
}

// MarshalTxJSON encodes a transaction request as JSON.
func MarshalTxJSON(tx TxData) ([]byte, error) {
	var enc txJSON
	enc.Type = hexutil.EncodeUint64(uint64(tx.TxType()))
	switch tx := tx.(type) {
	case *LegacyTx:
		enc.ChainID = (*hexutil.U256)(tx.ChainID)
		enc.Nonce = (*hexutil.Uint64)(&tx.Nonce)
		enc.GasPrice = hexU256(tx.GasPrice)
		enc.Gas = (*hexutil.Uint64)(&tx.Gas)
		enc.To = tx.To
		enc.Value = hexU256(tx.Value)
		enc.Data = (*hexutil.Bytes)(&tx.Data)
	case *AccessListTx:
		enc.ChainID = hexU256(tx.ChainID)
		enc.Nonce = (*hexutil.Uint64)(&tx.Nonce)
		enc.GasPrice = hexU256(tx.GasPrice)
		enc.Gas = (*hexutil.Uint64)(&tx.Gas)
		enc.To = tx.To
		enc.Value = hexU256(tx.Value)
		enc.Data = (*hexutil.Bytes)(&tx.Data)
		enc.AccessList = accessListOf(tx.AccessList)
	case *DynamicFeeTx:
		enc.ChainID = hexU256(tx.ChainID)
		enc.Nonce = (*hexutil.Uint64)(&tx.Nonce)
		enc.MaxPriorityFeePerGas = hexU256(tx.GasTipCap)
		enc.MaxFeePerGas = hexU256(tx.GasFeeCap)
		enc.Gas = (*hexutil.Uint64)(&tx.Gas)
		enc.To = tx.To
		enc.Value = hexU256(tx.Value)
		enc.Data = (*hexutil.Bytes)(&tx.Data)
		enc.AccessList = accessListOf(tx.AccessList)
	default:
		return nil, errors.Wrapf(ErrTxTypeNotSupported, "%T", tx)
	}
	return json.Marshal(&enc)
}

// txType parses the type field. "0x2", "0x02" and "2" are all accepted.
func (dec *txJSON) txType() (byte, error) {
	if dec.Type == "" {
		switch {
		case dec.MaxFeePerGas != nil || dec.MaxPriorityFeePerGas != nil:
			return DynamicFeeTxType, nil
		case dec.AccessList != nil:
			return AccessListTxType, nil
		}
		return LegacyTxType, nil
	}
	s := strings.TrimPrefix(strings.TrimPrefix(dec.Type, "0x"), "0X")
	typ, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, errors.Wrapf(ErrTxTypeNotSupported, "type %q", dec.Type)
	}
	return byte(typ), nil
}

func u64(x *hexutil.Uint64) uint64 {
	if x == nil {
		return 0
	}
	return uint64(*x)
}

func u256(x *hexutil.U256) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x.ToInt())
}

func optU256(x *hexutil.U256) *uint256.Int {
	if x == nil {
		return nil
	}
	return u256(x)
}

func hexU256(x *uint256.Int) *hexutil.U256 {
	if x == nil {
		x = new(uint256.Int)
	}
	return (*hexutil.U256)(x)
}

func bytesOf(b *hexutil.Bytes) []byte {
	if b == nil {
		return nil
	}
	return []byte(*b)
}

func accessListOf(al AccessList) *AccessList {
	if al == nil {
		al = AccessList{}
	}
	return &al
}
