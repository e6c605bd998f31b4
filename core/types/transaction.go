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

// Package types contains transaction requests in their legacy and EIP-2718
// typed forms, together with their signing hashes and signed encodings.
package types

import (
	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/crypto"
	"github.com/PigCharid/ethercore/log"
	"github.com/PigCharid/ethercore/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrInvalidSig         = errors.New("invalid transaction v, r, s values")
	ErrTxTypeNotSupported = errors.New("transaction type not supported")
	ErrInvalidTxFields    = errors.New("invalid transaction fields")
	errShortTypedTx       = errors.New("typed transaction too short")
)

// Transaction types.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
)

// TxData is the underlying data of a transaction request.
//
// This is implemented by LegacyTx, AccessListTx and DynamicFeeTx.
type TxData interface {
	TxType() byte // returns the type ID

	// chainID returns the chain the transaction is replay protected for,
	// or nil for a legacy transaction without EIP-155 protection.
	chainID() *uint256.Int

	// payload returns the fields that are signed.
	payload() []rlp.Item

	// signed returns the fields of the signed encoding.
	signed(sig Signature) ([]rlp.Item, error)
}

// Signature is a secp256k1 signature in [R || S || V] form, V being the
// recovery id 0 or 1.
type Signature struct {
	R, S uint256.Int
	V    byte
}

// SignatureLength is the length of a signature in byte form.
const SignatureLength = 65

// NewSignature splits a 65 byte [R || S || V] signature. V may be given as
// 0/1 or as 27/28.
func NewSignature(sig []byte) (Signature, error) {
	if len(sig) != SignatureLength {
		return Signature{}, errors.Wrapf(ErrInvalidSig, "wrong size for signature: got %d, want %d", len(sig), SignatureLength)
	}
	var s Signature
	s.R.SetBytes(sig[:32])
	s.S.SetBytes(sig[32:64])
	s.V = sig[64]
	if s.V >= 27 {
		s.V -= 27
	}
	if s.V > 1 {
		return Signature{}, errors.Wrapf(ErrInvalidSig, "recovery id %d", sig[64])
	}
	return s, nil
}

// Bytes returns the signature in [R || S || V] form.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	r, sv := s.R.Bytes32(), s.S.Bytes32()
	copy(out, r[:])
	copy(out[32:], sv[:])
	out[64] = s.V
	return out
}

// SigningPayload returns the bytes whose keccak256 hash is signed: the RLP
// list of the unsigned fields, prefixed by the type byte for typed
// transactions.
func SigningPayload(tx TxData) []byte {
	return envelope(tx.TxType(), tx.payload())
}

// SigningHash returns the hash to be signed by the sender.
func SigningHash(tx TxData) common.Hash {
	return crypto.Keccak256Hash(SigningPayload(tx))
}

// EncodeSigned returns the consensus encoding of the signed transaction. For
// typed transactions this is the EIP-2718 envelope type || rlp(fields).
func EncodeSigned(tx TxData, sig Signature) ([]byte, error) {
	if sig.V > 1 {
		return nil, errors.Wrapf(ErrInvalidSig, "recovery id %d", sig.V)
	}
	fields, err := tx.signed(sig)
	if err != nil {
		return nil, err
	}
	return envelope(tx.TxType(), fields), nil
}

// TxHash returns the transaction hash, the keccak256 hash of the signed
// encoding.
func TxHash(tx TxData, sig Signature) (common.Hash, error) {
	enc, err := EncodeSigned(tx, sig)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// DecodeSigned decodes a signed transaction in consensus encoding.
// 首字节>=0xc0是RLP列表，即legacy交易；否则首字节是EIP-2718的交易类型
func DecodeSigned(b []byte) (TxData, Signature, error) {
	if len(b) == 0 {
		return nil, Signature{}, rlp.ErrUnexpectedEOF
	}
	if b[0] >= 0xc0 {
		fields, err := decodeFields(b)
		if err != nil {
			return nil, Signature{}, err
		}
		return decodeLegacy(fields)
	}
	if len(b) <= 1 {
		return nil, Signature{}, errShortTypedTx
	}
	var (
		tx  TxData
		sig Signature
	)
	fields, err := decodeFields(b[1:])
	if err != nil {
		return nil, Signature{}, err
	}
	switch b[0] {
	case AccessListTxType:
		tx, sig, err = decodeAccessList(fields)
	case DynamicFeeTxType:
		tx, sig, err = decodeDynamicFee(fields)
	default:
		return nil, Signature{}, errors.Wrapf(ErrTxTypeNotSupported, "type %#x", b[0])
	}
	if err != nil {
		return nil, Signature{}, err
	}
	log.Trace("Decoded typed transaction", "type", b[0], "chainid", tx.chainID())
	return tx, sig, nil
}

func envelope(typ byte, fields []rlp.Item) []byte {
	it := rlp.NewList(fields...)
	if typ == LegacyTxType {
		return rlp.EncodeItem(it)
	}
	return rlp.AppendItem([]byte{typ}, it)
}

func decodeFields(b []byte) ([]rlp.Item, error) {
	it, err := rlp.DecodeItem(b)
	if err != nil {
		return nil, err
	}
	if !it.IsList {
		return nil, rlp.ErrExpectedList
	}
	return it.Items, nil
}

// Transaction is a signed transaction.
type Transaction struct {
	inner TxData
	sig   Signature
	hash  common.Hash
}

// NewTransaction pairs transaction data with its signature.
func NewTransaction(inner TxData, sig Signature) (*Transaction, error) {
	hash, err := TxHash(inner, sig)
	if err != nil {
		return nil, err
	}
	return &Transaction{inner: inner, sig: sig, hash: hash}, nil
}

// Type returns the transaction type.
func (tx *Transaction) Type() byte { return tx.inner.TxType() }

// ChainID returns the EIP-155 chain id of the transaction, nil for an
// unprotected legacy transaction.
func (tx *Transaction) ChainID() *uint256.Int { return tx.inner.chainID() }

// Data returns the unsigned transaction data.
func (tx *Transaction) Data() TxData { return tx.inner }

// Signature returns the signature values.
func (tx *Transaction) Signature() Signature { return tx.sig }

// Hash returns the transaction hash.
func (tx *Transaction) Hash() common.Hash { return tx.hash }

// SigningHash returns the hash that was signed.
func (tx *Transaction) SigningHash() common.Hash { return SigningHash(tx.inner) }

// MarshalBinary returns the canonical encoding of the transaction.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return EncodeSigned(tx.inner, tx.sig)
}

// UnmarshalBinary decodes the canonical encoding of a transaction.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	inner, sig, err := DecodeSigned(b)
	if err != nil {
		return err
	}
	dec, err := NewTransaction(inner, sig)
	if err != nil {
		return err
	}
	*tx = *dec
	return nil
}

// Transactions implements DerivableList for transactions.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

// EncodeIndex returns the encoding of the i'th transaction. Signatures are
// checked when transactions are built, so encoding cannot fail.
func (s Transactions) EncodeIndex(i int) []byte {
	enc, _ := s[i].MarshalBinary()
	return enc
}
