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
	"github.com/pkg/errors"
)

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

// item encodes the list as [[address, [key, ...]], ...].
func (al AccessList) item() rlp.Item {
	tuples := make([]rlp.Item, len(al))
	for i, tuple := range al {
		keys := make([]rlp.Item, len(tuple.StorageKeys))
		for j := range tuple.StorageKeys {
			keys[j] = rlp.NewString(tuple.StorageKeys[j].Bytes())
		}
		tuples[i] = rlp.NewList(rlp.NewString(tuple.Address.Bytes()), rlp.NewList(keys...))
	}
	return rlp.NewList(tuples...)
}

func accessListFromItem(it rlp.Item) (AccessList, error) {
	if !it.IsList {
		return nil, rlp.ErrExpectedList
	}
	al := make(AccessList, len(it.Items))
	for i, t := range it.Items {
		if !t.IsList || len(t.Items) != 2 {
			return nil, errors.Wrapf(rlp.ErrElemCount, "access tuple %d", i)
		}
		addr, keys := t.Items[0], t.Items[1]
		if addr.IsList || len(addr.Str) != common.AddressLength {
			return nil, errors.Wrapf(rlp.ErrLength, "access tuple %d address", i)
		}
		if !keys.IsList {
			return nil, errors.Wrapf(rlp.ErrExpectedList, "access tuple %d keys", i)
		}
		al[i].Address = common.BytesToAddress(addr.Str)
		al[i].StorageKeys = make([]common.Hash, len(keys.Items))
		for j, k := range keys.Items {
			if k.IsList || len(k.Str) != common.HashLength {
				return nil, errors.Wrapf(rlp.ErrLength, "access tuple %d key %d", i, j)
			}
			al[i].StorageKeys[j] = common.BytesToHash(k.Str)
		}
	}
	return al, nil
}
