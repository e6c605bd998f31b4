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

/*
Package rlp implements the RLP serialization format.
    包rlp实现RLP序列化格式。

The purpose of RLP (Recursive Linear Prefix) is to encode arbitrarily nested arrays of
binary data, and RLP is the main encoding method used to serialize objects in Ethereum.
The only purpose of RLP is to encode structure; encoding specific atomic data types (eg.
strings, ints, floats) is left up to higher-order protocols. In Ethereum integers must be
represented in big endian binary form with no leading zeroes (thus making the integer
value zero equivalent to the empty string).
    RLP的目的是对任意嵌套的二进制数据数组进行编码，RLP是以太坊中序列化对象的主要编码方法。
    整数必须以没有前导零的大端二进制形式表示（因此整数零等价于空字符串）。

RLP values are distinguished by a type tag. The type tag precedes the value in the input
stream and defines the size and kind of the bytes that follow.
    RLP值由类型标记区分。类型标记位于值之前，并定义后面字节的大小和类型。

Items

An Item is either a byte string or a list of items. EncodeItem and DecodeItem convert
between items and their canonical encoding. Split, SplitString and SplitList walk an
encoding without building items.
    Item是字节串或者Item列表。

Values

Package rlp does not use reflection. Typed data is encoded through the value model:
EncodeValue accepts any value.Value and EncodeToBytes additionally accepts a
value.Marshaler. DecodeValue parses an encoding against the expected value.Type.
    本包不使用反射，类型化数据通过value包的值模型进行编解码。

Unsigned integers are encoded as big endian strings without leading zero bytes. Zero
encodes as the empty string. Signed integers use the shortest two's complement form
that preserves the sign, again with zero as the empty string.
    无符号整数编码为没有前导零的大端字节串，零编码为空字符串。有符号整数使用最短的补码形式。

Booleans encode as the empty string (false) and the single byte 0x01 (true).

Byte strings, strings, fixed-size byte arrays and addresses encode as RLP strings.
Arrays and tuples encode as RLP lists of their elements.

Canonical decoding

Decoding is strict by default. Sizes must use the shortest form, single bytes below
0x80 must not carry a string header, integers must not have leading zero bytes, and
no input may follow the top-level value. A Decoder with Lenient set accepts the
non-minimal forms; re-encoding the result always yields the canonical bytes.
    默认进行严格解码，非规范编码会被拒绝。设置Lenient后可以接受非最短编码。

Decode errors carry the byte offset of the offending item, see DecodeError.
*/
package rlp
