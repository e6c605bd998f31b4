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

package eip712

import (
	"strings"
	"testing"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func strPtr(s string) *string { return &s }

func mailDomain() Domain {
	contract := common.HexToAddress("0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC")
	return Domain{
		Name:              strPtr("Ether Mail"),
		Version:           strPtr("1"),
		ChainID:           uint256.NewInt(1),
		VerifyingContract: &contract,
	}
}

func mailRegistry(t *testing.T) *Registry {
	reg := NewRegistry()
	// registration order does not matter
	require.NoError(t, reg.Register("Mail",
		Field{Name: "from", Type: "Person"},
		Field{Name: "to", Type: "Person"},
		Field{Name: "contents", Type: "string"},
	))
	require.NoError(t, reg.Register("Person",
		Field{Name: "name", Type: "string"},
		Field{Name: "wallet", Type: "address"},
	))
	reg.Freeze()
	return reg
}

const mailJSON = `{
	"from": {"name": "Cow", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"},
	"to": {"name": "Bob", "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"},
	"contents": "Hello, Bob!"
}`

func mailValue(t *testing.T, reg *Registry) value.Value {
	typ, err := reg.Resolve("Mail")
	require.NoError(t, err)
	v, err := value.ParseJSON(typ, []byte(mailJSON))
	require.NoError(t, err)
	return v
}

func TestMail(t *testing.T) {
	reg := mailRegistry(t)
	h, err := NewHasher(reg)
	require.NoError(t, err)
	msg := mailValue(t, reg)

	typ, err := h.EncodeType("Mail")
	require.NoError(t, err)
	assert.Equal(t, "Mail(Person from,Person to,string contents)Person(string name,address wallet)", typ)

	th, err := h.TypeHash("Mail")
	require.NoError(t, err)
	assert.Equal(t, "0xa0cedeb2dc280ba39b857546d74f5549c3a1d7bdc2dd96bf881f76108e23dac2", th.Hex())

	from, _ := msg.(*value.Tuple).FieldByName("from")
	ph, err := h.HashStruct("Person", from)
	require.NoError(t, err)
	assert.Equal(t, "0xfc71e5fa27ff56c350aa531bc129ebdf613b772b6604664f5d8dbe21b85eb0c8", ph.Hex())

	mh, err := h.HashStruct("Mail", msg)
	require.NoError(t, err)
	assert.Equal(t, "0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e", mh.Hex())

	domain := mailDomain()
	sep, err := domain.Separator()
	require.NoError(t, err)
	assert.Equal(t, "0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f", sep.Hex())

	assert.Equal(t,
		"1901"+
			"f2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f"+
			"c52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e",
		common.Bytes2Hex(SigningPayload(sep, mh)))

	digest, err := h.Digest(&domain, "Mail", msg)
	require.NoError(t, err)
	assert.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", digest.Hex())
}

func TestEncodeData(t *testing.T) {
	reg := mailRegistry(t)
	h, err := NewHasher(reg)
	require.NoError(t, err)

	enc, err := h.EncodeData("Mail", mailValue(t, reg))
	require.NoError(t, err)
	require.Len(t, enc, 4*32)
	th, _ := h.TypeHash("Mail")
	require.Equal(t, th[:], enc[:32])
}

func TestArrays(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Group",
		Field{Name: "name", Type: "string"},
		Field{Name: "members", Type: "Person[]"},
		Field{Name: "ids", Type: "uint256[2]"},
		Field{Name: "tags", Type: "string[]"},
	))
	require.NoError(t, reg.Register("Person",
		Field{Name: "name", Type: "string"},
		Field{Name: "wallets", Type: "address[]"},
	))
	reg.Freeze()
	h, err := NewHasher(reg)
	require.NoError(t, err)

	typ, err := h.EncodeType("Group")
	require.NoError(t, err)
	require.Equal(t, "Group(string name,Person[] members,uint256[2] ids,string[] tags)Person(string name,address[] wallets)", typ)

	gt, err := reg.Resolve("Group")
	require.NoError(t, err)
	require.Equal(t, "(string,(string,address[])[],uint256[2],string[])", gt.String())

	group, err := value.ParseJSON(gt, []byte(`{
		"name": "g",
		"members": [
			{"name": "a", "wallets": ["0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222"]},
			{"name": "b", "wallets": []}
		],
		"ids": [1, "0x2"],
		"tags": ["x", "y"]
	}`))
	require.NoError(t, err)

	gh, err := h.HashStruct("Group", group)
	require.NoError(t, err)
	require.Equal(t, "0x232ca210044d623e9a1ccbf0135932ae54dd9ea3aa79e9a9c4acfa0d64081d3a", gh.Hex())
}

func TestDomainSeparator(t *testing.T) {
	salt := common.BytesToHash([]byte(strings.Repeat("\xab", 32)))
	d := Domain{ChainID: uint256.NewInt(5), Salt: &salt}
	require.Equal(t, []Field{{"chainId", "uint256"}, {"salt", "bytes32"}}, d.Fields())
	sep, err := d.Separator()
	require.NoError(t, err)
	require.Equal(t, "0x23e2c861f0a1aa3746874f1be2e4e94374b62db98420d2cd7d1bf9e66212ea2d", sep.Hex())

	sep, err = new(Domain).Separator()
	require.NoError(t, err)
	require.Equal(t, "0x6192106f129ce05c9075d319c1fa6ea9b3ae37cbd0c1ef92e2be7137bb07baa1", sep.Hex())
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("A", Field{Name: "b", Type: "B"}))
	require.True(t, errors.Is(reg.Register("A"), ErrDuplicateType))
	require.True(t, errors.Is(reg.Register("uint256"), ErrInvalidTypeName))
	require.True(t, errors.Is(reg.Register("bad name"), ErrInvalidTypeName))
	require.True(t, errors.Is(reg.Register("C", Field{Name: "x", Type: "uint256"}, Field{Name: "x", Type: "bool"}), ErrInvalidTypeName))
	require.True(t, errors.Is(reg.Register("D", Field{Name: "x", Type: "(uint256,bool)"}), ErrInvalidTypeName))

	// B is not registered yet
	_, err := reg.EncodeType("A")
	require.True(t, errors.Is(err, ErrMissingTypeDefinition), "got %v", err)
	require.True(t, errors.Is(reg.Validate(), ErrMissingTypeDefinition))

	// hashers only work on frozen registries and leave registration to the caller
	_, err = NewHasher(reg)
	require.True(t, errors.Is(err, ErrRegistryNotFrozen), "got %v", err)
	require.False(t, reg.Frozen())
	require.NoError(t, reg.Register("B"))
	reg.Freeze()
	_, err = NewHasher(reg)
	require.NoError(t, err)
	require.True(t, errors.Is(reg.Register("E"), ErrRegistryFrozen))

	incomplete := NewRegistry()
	require.NoError(t, incomplete.Register("A", Field{Name: "b", Type: "B"}))
	incomplete.Freeze()
	_, err = NewHasher(incomplete)
	require.True(t, errors.Is(err, ErrMissingTypeDefinition))

	_, err = NewRegistry().EncodeType("Nope")
	require.True(t, errors.Is(err, ErrMissingTypeDefinition))
}

func TestCycles(t *testing.T) {
	self := NewRegistry()
	require.NoError(t, self.Register("Node", Field{Name: "value", Type: "uint256"}, Field{Name: "next", Type: "Node"}))
	_, err := self.EncodeType("Node")
	require.True(t, errors.Is(err, ErrCyclicTypeReference), "got %v", err)
	_, err = self.Resolve("Node")
	require.True(t, errors.Is(err, ErrCyclicTypeReference))

	indirect := NewRegistry()
	require.NoError(t, indirect.Register("A", Field{Name: "b", Type: "B[]"}))
	require.NoError(t, indirect.Register("B", Field{Name: "a", Type: "A"}))
	indirect.Freeze()
	_, err = NewHasher(indirect)
	require.True(t, errors.Is(err, ErrCyclicTypeReference))

	// two paths to the same type are fine
	diamond := NewRegistry()
	require.NoError(t, diamond.Register("Top", Field{Name: "l", Type: "Left"}, Field{Name: "r", Type: "Right"}))
	require.NoError(t, diamond.Register("Left", Field{Name: "x", Type: "Leaf"}))
	require.NoError(t, diamond.Register("Right", Field{Name: "x", Type: "Leaf"}))
	require.NoError(t, diamond.Register("Leaf", Field{Name: "v", Type: "bool"}))
	diamond.Freeze()
	h, err := NewHasher(diamond)
	require.NoError(t, err)
	typ, err := h.EncodeType("Top")
	require.NoError(t, err)
	require.Equal(t, "Top(Left l,Right r)Leaf(bool v)Left(Leaf x)Right(Leaf x)", typ)
}

func TestFieldTypeMismatch(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Order",
		Field{Name: "amount", Type: "uint128"},
		Field{Name: "ids", Type: "uint8[2]"},
	))
	reg.Freeze()
	h, err := NewHasher(reg)
	require.NoError(t, err)
	typ, err := reg.Resolve("Order")
	require.NoError(t, err)

	ok, err := value.ParseJSON(typ, []byte(`{"amount": 5, "ids": [1, 2]}`))
	require.NoError(t, err)
	_, err = h.HashStruct("Order", ok)
	require.NoError(t, err)

	// amount declared as uint256 instead of uint128
	wrong := value.MustType(value.NewTupleType("Order",
		value.Field{Name: "amount", Type: value.Uint256Type},
		value.Field{Name: "ids", Type: typ.Fields[1].Type},
	))
	bad, err := value.ParseJSON(wrong, []byte(`{"amount": 5, "ids": [1, 2]}`))
	require.NoError(t, err)
	_, err = h.HashStruct("Order", bad)
	require.True(t, errors.Is(err, ErrFieldTypeMismatch), "got %v", err)

	// fixed array of the wrong length
	three := value.MustType(value.NewTupleType("Order",
		value.Field{Name: "amount", Type: typ.Fields[0].Type},
		value.Field{Name: "ids", Type: value.MustType(value.NewFixedArrayType(value.Uint8Type, 3))},
	))
	bad, err = value.ParseJSON(three, []byte(`{"amount": 5, "ids": [1, 2, 3]}`))
	require.NoError(t, err)
	_, err = h.HashStruct("Order", bad)
	require.True(t, errors.Is(err, ErrFieldTypeMismatch))

	_, err = h.HashStruct("Order", value.String("x"))
	require.True(t, errors.Is(err, ErrFieldTypeMismatch))
}

const mailTypedData = `{
	"types": {
		"EIP712Domain": [
			{"name": "name", "type": "string"},
			{"name": "version", "type": "string"},
			{"name": "chainId", "type": "uint256"},
			{"name": "verifyingContract", "type": "address"}
		],
		"Person": [
			{"name": "name", "type": "string"},
			{"name": "wallet", "type": "address"}
		],
		"Mail": [
			{"name": "from", "type": "Person"},
			{"name": "to", "type": "Person"},
			{"name": "contents", "type": "string"}
		]
	},
	"primaryType": "Mail",
	"domain": {
		"name": "Ether Mail",
		"version": "1",
		"chainId": 1,
		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
	},
	"message": ` + mailJSON + `
}`

func TestTypedData(t *testing.T) {
	td, err := ParseTypedData([]byte(mailTypedData))
	require.NoError(t, err)
	require.Equal(t, "Mail", td.PrimaryType)
	require.Equal(t, uint64(1), td.Domain.ChainID.Uint64())

	hs, err := td.Hashes()
	require.NoError(t, err)
	require.Equal(t, "0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f", hs.DomainSeparator.Hex())
	require.Equal(t, "0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e", hs.StructHash.Hex())
	require.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", hs.Digest.Hex())

	// a declared domain type must match the domain fields
	td.Types[DomainType] = td.Types[DomainType][:3]
	_, err = td.Hash()
	require.True(t, errors.Is(err, ErrFieldTypeMismatch))
}

func TestNewTypedData(t *testing.T) {
	reg := mailRegistry(t)
	msg := mailValue(t, reg).(*value.Tuple)
	td, err := NewTypedData(reg, mailDomain(), "Mail", msg)
	require.NoError(t, err)
	require.Len(t, td.Types, 3)

	enc, err := json.Marshal(td)
	require.NoError(t, err)
	back, err := ParseTypedData(enc)
	require.NoError(t, err)
	digest, err := back.Hash()
	require.NoError(t, err)
	require.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", digest.Hex())

	_, err = NewTypedData(reg, mailDomain(), "Letter", msg)
	require.True(t, errors.Is(err, ErrMissingTypeDefinition))
}

func TestConcurrentHashing(t *testing.T) {
	reg := mailRegistry(t)
	h, err := NewHasher(reg)
	require.NoError(t, err)
	msg := mailValue(t, reg)

	var g errgroup.Group
	results := make([]common.Hash, 16)
	for i := range results {
		i := i
		g.Go(func() (err error) {
			results[i], err = h.HashStruct("Mail", msg)
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, r := range results {
		require.Equal(t, "0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e", r.Hex())
	}
}
