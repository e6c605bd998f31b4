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
	"github.com/PigCharid/ethercore/trie"
)

// DerivableList is the input to DeriveSha.
// It is implemented by the 'Transactions' and 'RawList' types.
// This is internal, do not use these methods.
type DerivableList interface {
	Len() int
	EncodeIndex(int) []byte
}

// RawList is a list of already encoded items.
type RawList [][]byte

// Len returns the length of l.
func (l RawList) Len() int { return len(l) }

// EncodeIndex returns the i'th item.
func (l RawList) EncodeIndex(i int) []byte { return l[i] }

// DeriveSha creates the tree hashes of transactions and receipts in a block header.
// 交易根：key是rlp(index)，value是第index个元素的编码
func DeriveSha(list DerivableList) common.Hash {
	t := trie.New()
	var key []byte
	for i := 0; i < list.Len(); i++ {
		key = rlp.AppendUint64(key[:0], uint64(i))
		t.Update(common.CopyBytes(key), list.EncodeIndex(i))
	}
	return t.Hash()
}
