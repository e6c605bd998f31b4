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
	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// u256Item encodes x as a minimal big endian string. nil encodes as zero.
func u256Item(x *uint256.Int) rlp.Item {
	if x == nil || x.IsZero() {
		return rlp.NewString(nil)
	}
	return rlp.NewString(x.Bytes())
}

// toItem encodes the recipient. Contract creation has an empty recipient.
func toItem(to *common.Address) rlp.Item {
	if to == nil {
		return rlp.NewString(nil)
	}
	return rlp.NewString(to.Bytes())
}

// fieldReader reads transaction fields in order. The first error sticks and
// later reads return zero values.
type fieldReader struct {
	items []rlp.Item
	pos   int
	err   error
}

func newFieldReader(items []rlp.Item, want int) *fieldReader {
	r := &fieldReader{items: items}
	if len(items) != want {
		r.err = errors.Wrapf(ErrInvalidTxFields, "got %d fields, want %d", len(items), want)
	}
	return r
}

func (r *fieldReader) next() (rlp.Item, bool) {
	if r.err != nil {
		return rlp.Item{}, false
	}
	it := r.items[r.pos]
	r.pos++
	return it, true
}

func (r *fieldReader) fail(err error, what string) {
	r.err = errors.Wrapf(err, "field %d (%s)", r.pos-1, what)
}

func (r *fieldReader) str(what string) []byte {
	it, ok := r.next()
	if !ok {
		return nil
	}
	if it.IsList {
		r.fail(rlp.ErrExpectedString, what)
		return nil
	}
	return it.Str
}

func (r *fieldReader) uint64(what string) uint64 {
	it, ok := r.next()
	if !ok {
		return 0
	}
	x, err := it.Uint64()
	if err != nil {
		r.fail(err, what)
	}
	return x
}

func (r *fieldReader) u256(what string) *uint256.Int {
	b := r.str(what)
	if r.err != nil {
		return nil
	}
	switch {
	case len(b) > 32:
		r.fail(rlp.ErrValueOverflow, what)
		return nil
	case len(b) > 0 && b[0] == 0:
		r.fail(rlp.ErrCanonInt, what)
		return nil
	}
	return new(uint256.Int).SetBytes(b)
}

func (r *fieldReader) to() *common.Address {
	b := r.str("to")
	if r.err != nil || len(b) == 0 {
		return nil
	}
	if len(b) != common.AddressLength {
		r.fail(rlp.ErrLength, "to")
		return nil
	}
	addr := common.BytesToAddress(b)
	return &addr
}

func (r *fieldReader) data() []byte {
	return common.CopyBytes(r.str("data"))
}

func (r *fieldReader) accessList() AccessList {
	it, ok := r.next()
	if !ok {
		return nil
	}
	al, err := accessListFromItem(it)
	if err != nil {
		r.fail(err, "accessList")
	}
	return al
}

// sig reads the trailing y-parity, r and s fields of a typed transaction.
func (r *fieldReader) sig() Signature {
	var s Signature
	v := r.uint64("v")
	if rv := r.u256("r"); rv != nil {
		s.R = *rv
	}
	if sv := r.u256("s"); sv != nil {
		s.S = *sv
	}
	if r.err == nil && v > 1 {
		r.err = errors.Wrapf(ErrInvalidSig, "y-parity %d", v)
	}
	s.V = byte(v)
	return s
}

func sigItems(sig Signature) []rlp.Item {
	return []rlp.Item{rlp.NewUint(uint64(sig.V)), u256Item(&sig.R), u256Item(&sig.S)}
}
