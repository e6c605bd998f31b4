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

package rlp

import (
	"encoding/binary"
	"strings"

	"github.com/PigCharid/ethercore/common/hexutil"
)

// Item is a decoded RLP item: a byte string, or a list of items when IsList is set.
type Item struct {
	Str    []byte
	Items  []Item
	IsList bool
}

// NewString returns a string item holding b.
func NewString(b []byte) Item {
	return Item{Str: b}
}

// NewList returns a list item holding items.
func NewList(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{Items: items, IsList: true}
}

// NewUint returns the canonical integer item for i. Zero is the empty string.
func NewUint(i uint64) Item {
	if i == 0 {
		return Item{Str: []byte{}}
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], i)
	return Item{Str: trimZeroes(buf[:])}
}

// Uint64 interprets a string item as a canonical integer.
func (it Item) Uint64() (uint64, error) {
	if it.IsList {
		return 0, ErrExpectedString
	}
	return readUint64(it.Str, true)
}

// Equal reports whether two items have the same structure and content.
func (it Item) Equal(o Item) bool {
	if it.IsList != o.IsList {
		return false
	}
	if !it.IsList {
		return string(it.Str) == string(o.Str)
	}
	if len(it.Items) != len(o.Items) {
		return false
	}
	for i := range it.Items {
		if !it.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// String renders the item as nested brackets of hex strings, e.g. [0x01, [], 0x].
func (it Item) String() string {
	var sb strings.Builder
	it.format(&sb)
	return sb.String()
}

func (it Item) format(sb *strings.Builder) {
	if !it.IsList {
		sb.WriteString(hexutil.Encode(it.Str))
		return
	}
	sb.WriteByte('[')
	for i, c := range it.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		c.format(sb)
	}
	sb.WriteByte(']')
}

func trimZeroes(b []byte) []byte {
	for i, v := range b {
		if v != 0 {
			return b[i:]
		}
	}
	return b[len(b):]
}
