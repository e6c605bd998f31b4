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

package rlp

var (
	// Common encoded values.
	// These are useful when implementing EncodeRLP.
	EmptyString = []byte{0x80}
	EmptyList   = []byte{0xC0}
)

// EncodeItem returns the canonical encoding of it.
func EncodeItem(it Item) []byte {
	return AppendItem(make([]byte, 0, it.size()), it)
}

// AppendItem appends the canonical encoding of it to dst.
func AppendItem(dst []byte, it Item) []byte {
	if !it.IsList {
		return AppendString(dst, it.Str)
	}
	dst = appendHead(dst, 0xC0, 0xF7, uint64(it.contentSize()))
	for _, c := range it.Items {
		dst = AppendItem(dst, c)
	}
	return dst
}

// AppendString appends the encoding of the byte string b to dst.
func AppendString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		// fits single byte, no string header
		return append(dst, b[0])
	}
	dst = appendHead(dst, 0x80, 0xB7, uint64(len(b)))
	return append(dst, b...)
}

// AppendUint64 appends the RLP encoding of i to b, and returns the resulting slice.
func AppendUint64(b []byte, i uint64) []byte {
	if i == 0 {
		return append(b, 0x80)
	} else if i < 128 {
		return append(b, byte(i))
	}
	var buf [8]byte
	n := putint(buf[:], i)
	b = append(b, 0x80+byte(n))
	return append(b, buf[:n]...)
}

// AppendListHeader appends the header of a list with the given payload size.
// It lets callers that assemble encodings by hand reuse the header rules.
func AppendListHeader(dst []byte, size int) []byte {
	return appendHead(dst, 0xC0, 0xF7, uint64(size))
}

// size returns the length of the encoded item.
func (it Item) size() int {
	if !it.IsList {
		return stringSize(it.Str)
	}
	cs := it.contentSize()
	return headsize(uint64(cs)) + cs
}

// contentSize returns the total size of the encoded children of a list.
func (it Item) contentSize() int {
	size := 0
	for _, c := range it.Items {
		size += c.size()
	}
	return size
}

func stringSize(b []byte) int {
	if len(b) == 1 && b[0] < 0x80 {
		return 1
	}
	return headsize(uint64(len(b))) + len(b)
}

// headsize returns the size of a list or string header
// for a value of the given size.
func headsize(size uint64) int {
	if size < 56 {
		return 1
	}
	return 1 + intsize(size)
}

// appendHead writes a list or string header to dst. smalltag is used for
// sizes below 56, largetag is followed by the big endian size.
// 小于56字节时前缀为smalltag+size，否则为largetag+size的字节数，再跟上size本身
func appendHead(dst []byte, smalltag, largetag byte, size uint64) []byte {
	if size < 56 {
		return append(dst, smalltag+byte(size))
	}
	var buf [8]byte
	sizesize := putint(buf[:], size)
	dst = append(dst, largetag+byte(sizesize))
	return append(dst, buf[:sizesize]...)
}

// putint writes i to the beginning of b in big endian byte
// order, using the least number of bytes needed to represent i.
func putint(b []byte, i uint64) (size int) {
	switch {
	case i < (1 << 8):
		b[0] = byte(i)
		return 1
	case i < (1 << 16):
		b[0] = byte(i >> 8)
		b[1] = byte(i)
		return 2
	case i < (1 << 24):
		b[0] = byte(i >> 16)
		b[1] = byte(i >> 8)
		b[2] = byte(i)
		return 3
	case i < (1 << 32):
		b[0] = byte(i >> 24)
		b[1] = byte(i >> 16)
		b[2] = byte(i >> 8)
		b[3] = byte(i)
		return 4
	case i < (1 << 40):
		b[0] = byte(i >> 32)
		b[1] = byte(i >> 24)
		b[2] = byte(i >> 16)
		b[3] = byte(i >> 8)
		b[4] = byte(i)
		return 5
	case i < (1 << 48):
		b[0] = byte(i >> 40)
		b[1] = byte(i >> 32)
		b[2] = byte(i >> 24)
		b[3] = byte(i >> 16)
		b[4] = byte(i >> 8)
		b[5] = byte(i)
		return 6
	case i < (1 << 56):
		b[0] = byte(i >> 48)
		b[1] = byte(i >> 40)
		b[2] = byte(i >> 32)
		b[3] = byte(i >> 24)
		b[4] = byte(i >> 16)
		b[5] = byte(i >> 8)
		b[6] = byte(i)
		return 7
	default:
		b[0] = byte(i >> 56)
		b[1] = byte(i >> 48)
		b[2] = byte(i >> 40)
		b[3] = byte(i >> 32)
		b[4] = byte(i >> 24)
		b[5] = byte(i >> 16)
		b[6] = byte(i >> 8)
		b[7] = byte(i)
		return 8
	}
}

// intsize computes the minimum number of bytes required to store i.
func intsize(i uint64) (size int) {
	for size = 1; ; size++ {
		if i >>= 8; i == 0 {
			return size
		}
	}
}
