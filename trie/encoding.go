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

package trie

// Keys appear in three forms:
//
//   - key bytes, as passed to Get/Update/Delete.
//   - hex: one nibble per byte, followed by the terminator 16 when the path
//     ends in a value. Nodes in memory use this form.
//   - compact (hex prefix): nibbles packed two per byte behind a flag nibble,
//     2 for a leaf plus 1 for an odd nibble count. When the count is odd the
//     first nibble shares the flag byte. Encoded nodes use this form.

// hexToCompact packs a hex path into compact form.
func hexToCompact(hex []byte) []byte {
	var flag byte
	if hasTerm(hex) {
		flag = 2
		hex = hex[:len(hex)-1]
	}
	out := make([]byte, 1, len(hex)/2+1)
	if len(hex)%2 == 1 {
		flag |= 1
		out[0] = hex[0]
		hex = hex[1:]
	}
	out[0] |= flag << 4
	for i := 0; i < len(hex); i += 2 {
		out = append(out, hex[i]<<4|hex[i+1])
	}
	return out
}

// compactToHex unpacks a compact path, restoring the terminator of leaves.
func compactToHex(compact []byte) []byte {
	if len(compact) == 0 {
		return compact
	}
	flag := compact[0] >> 4
	hex := make([]byte, 0, 2*len(compact)+1)
	if flag&1 == 1 {
		hex = append(hex, compact[0]&0x0f)
	}
	for _, b := range compact[1:] {
		hex = append(hex, b>>4, b&0x0f)
	}
	if flag&2 == 2 {
		hex = append(hex, 16)
	}
	return hex
}

// keybytesToHex splits key into nibbles and terminates the path.
func keybytesToHex(key []byte) []byte {
	hex := make([]byte, 0, 2*len(key)+1)
	for _, b := range key {
		hex = append(hex, b>>4, b&0x0f)
	}
	return append(hex, 16)
}

// hexToKeybytes joins the nibbles of a path back into key bytes. The path
// must hold an even number of nibbles.
func hexToKeybytes(hex []byte) []byte {
	if hasTerm(hex) {
		hex = hex[:len(hex)-1]
	}
	if len(hex)%2 != 0 {
		panic("can't convert hex key of odd length")
	}
	key := make([]byte, len(hex)/2)
	for i := range key {
		key[i] = hex[2*i]<<4 | hex[2*i+1]
	}
	return key
}

// prefixLen returns the length of the common prefix of a and b.
func prefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// hasTerm reports whether a hex path ends in a value.
func hasTerm(s []byte) bool {
	return len(s) > 0 && s[len(s)-1] == 16
}
