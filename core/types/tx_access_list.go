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

// AccessListTx is the data of EIP-2930 access list transactions.
type AccessListTx struct {
	ChainID    *uint256.Int    // destination chain ID
	Nonce      uint64          // nonce of sender account
	GasPrice   *uint256.Int    // wei per gas
	Gas        uint64          // gas limit
	To         *common.Address // nil means contract creation
	Value      *uint256.Int    // wei amount
	Data       []byte          // contract invocation input data
	AccessList AccessList      // EIP-2930 access list
}

// TxType implements TxData.
func (tx *AccessListTx) TxType() byte { return AccessListTxType }

func (tx *AccessListTx) chainID() *uint256.Int { return tx.ChainID }

func (tx *AccessListTx) payload() []rlp.Item {
	return []rlp.Item{
		u256Item(tx.ChainID),
		rlp.NewUint(tx.Nonce),
		u256Item(tx.GasPrice),
		rlp.NewUint(tx.Gas),
		toItem(tx.To),
		u256Item(tx.Value),
		rlp.NewString(tx.Data),
		tx.AccessList.item(),
	}
}

func (tx *AccessListTx) signed(sig Signature) ([]rlp.Item, error) {
	return append(tx.payload(), sigItems(sig)...), nil
}

func decodeAccessList(fields []rlp.Item) (TxData, Signature, error) {
	r := newFieldReader(fields, 11)
	tx := &AccessListTx{
		ChainID:    r.u256("chainId"),
		Nonce:      r.uint64("nonce"),
		GasPrice:   r.u256("gasPrice"),
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
