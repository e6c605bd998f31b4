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
	"github.com/pkg/errors"
)

// LegacyTx is the transaction data of regular Ethereum transactions. With
// ChainID set the signing hash commits to the chain as in EIP-155.
type LegacyTx struct {
	Nonce    uint64          // nonce of sender account
	GasPrice *uint256.Int    // wei per gas
	Gas      uint64          // gas limit
	To       *common.Address // nil means contract creation
	Value    *uint256.Int    // wei amount
	Data     []byte          // contract invocation input data
	ChainID  *uint256.Int    // nil means no replay protection
}

// TxType implements TxData.
func (tx *LegacyTx) TxType() byte { return LegacyTxType }

func (tx *LegacyTx) chainID() *uint256.Int { return tx.ChainID }

func (tx *LegacyTx) base() []rlp.Item {
	return []rlp.Item{
		rlp.NewUint(tx.Nonce),
		u256Item(tx.GasPrice),
		rlp.NewUint(tx.Gas),
		toItem(tx.To),
		u256Item(tx.Value),
		rlp.NewString(tx.Data),
	}
}

func (tx *LegacyTx) payload() []rlp.Item {
	fields := tx.base()
	if tx.ChainID != nil {
		// EIP-155: chainId, 0, 0
		fields = append(fields, u256Item(tx.ChainID), rlp.NewString(nil), rlp.NewString(nil))
	}
	return fields
}

func (tx *LegacyTx) signed(sig Signature) ([]rlp.Item, error) {
	v, err := legacyV(tx.ChainID, sig.V)
	if err != nil {
		return nil, err
	}
	return append(tx.base(), u256Item(v), u256Item(&sig.R), u256Item(&sig.S)), nil
}

// legacyV returns 27+recid without a chain id and chainId*2+35+recid with one.
// Chain ids whose v does not fit 256 bits are rejected.
func legacyV(chainID *uint256.Int, recid byte) (*uint256.Int, error) {
	if chainID == nil {
		return uint256.NewInt(27 + uint64(recid)), nil
	}
	if chainID.BitLen() > 255 {
		return nil, errors.Wrapf(ErrInvalidSig, "chain id %s too large", chainID.Hex())
	}
	v := new(uint256.Int).Lsh(chainID, 1)
	if _, overflow := v.AddOverflow(v, uint256.NewInt(35+uint64(recid))); overflow {
		return nil, errors.Wrapf(ErrInvalidSig, "chain id %s too large", chainID.Hex())
	}
	return v, nil
}

func decodeLegacy(fields []rlp.Item) (TxData, Signature, error) {
	r := newFieldReader(fields, 9)
	tx := &LegacyTx{
		Nonce:    r.uint64("nonce"),
		GasPrice: r.u256("gasPrice"),
		Gas:      r.uint64("gas"),
		To:       r.to(),
		Value:    r.u256("value"),
		Data:     r.data(),
	}
	v := r.u256("v")
	var sig Signature
	if rv := r.u256("r"); rv != nil {
		sig.R = *rv
	}
	if sv := r.u256("s"); sv != nil {
		sig.S = *sv
	}
	if r.err != nil {
		return nil, Signature{}, r.err
	}
	switch {
	case v.Eq(uint256.NewInt(27)) || v.Eq(uint256.NewInt(28)):
		sig.V = byte(v.Uint64() - 27)
	case v.Cmp(uint256.NewInt(35)) >= 0:
		// v = chainId*2 + 35 + recid
		x := new(uint256.Int).Sub(v, uint256.NewInt(35))
		sig.V = byte(x.Uint64() & 1)
		tx.ChainID = x.Rsh(x, 1)
	default:
		return nil, Signature{}, errors.Wrapf(ErrInvalidSig, "v %s", v.Hex())
	}
	return tx, sig, nil
}
