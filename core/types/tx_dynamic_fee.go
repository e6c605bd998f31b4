// Copyright 2020 The go-ethereum Authors
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
	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/rlp"
	"github.com/holiman/uint256"
)

// DynamicFeeTx is the data of EIP-1559 transactions.
type DynamicFeeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int // a.k.a. maxPriorityFeePerGas
	GasFeeCap  *uint256.Int // a.k.a. maxFeePerGas
	Gas        uint64
	To         *common.Address // nil means contract creation
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
}

// TxType implements TxData.
func (tx *DynamicFeeTx) TxType() byte { return DynamicFeeTxType }

func (tx *DynamicFeeTx) chainID() *uint256.Int { return tx.ChainID }

func (tx *DynamicFeeTx) payload() []rlp.Item {
	return []rlp.Item{
		u256Item(tx.ChainID),
		rlp.NewUint(tx.Nonce),
		u256Item(tx.GasTipCap),
		u256Item(tx.GasFeeCap),
		rlp.NewUint(tx.Gas),
		toItem(tx.To),
		u256Item(tx.Value),
		rlp.NewString(tx.Data),
		tx.AccessList.item(),
	}
}

func (tx *DynamicFeeTx) signed(sig Signature) ([]rlp.Item, error) {
	return append(tx.payload(), sigItems(sig)...), nil
}

func decodeDynamicFee(fields []rlp.Item) (TxData, Signature, error) {
	r := newFieldReader(fields, 12)
	tx := &DynamicFeeTx{
		ChainID:    r.u256("chainId"),
		Nonce:      r.uint64("nonce"),
		GasTipCap:  r.u256("maxPriorityFeePerGas"),
		GasFeeCap:  r.u256("maxFeePerGas"),
		Gas:        r.uint64("gas"),
		To:         r.to(),
		Value:      r.u256("value"),
		Data:       r.data(),
		AccessList: r.accessList(),
	}
	sig := r.sig()
	if r.err != nil {
		return nil, Signature{}, r.err
	}
	return tx, sig, nil
}
