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
	stdjson "encoding/json"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/value"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// DomainType is the reserved struct name of the domain.
const DomainType = "EIP712Domain"

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Domain is the EIP712Domain struct. Only the fields that are set take part
// in the separator, in the fixed order name, version, chainId,
// verifyingContract, salt.
type Domain struct {
	Name              *string
	Version           *string
	ChainID           *uint256.Int
	VerifyingContract *common.Address
	Salt              *common.Hash
}

// Fields returns the EIP712Domain field list for the fields that are set.
func (d *Domain) Fields() []Field {
	var fields []Field
	if d.Name != nil {
		fields = append(fields, Field{Name: "name", Type: "string"})
	}
	if d.Version != nil {
		fields = append(fields, Field{Name: "version", Type: "string"})
	}
	if d.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: "uint256"})
	}
	if d.VerifyingContract != nil {
		fields = append(fields, Field{Name: "verifyingContract", Type: "address"})
	}
	if d.Salt != nil {
		fields = append(fields, Field{Name: "salt", Type: "bytes32"})
	}
	return fields
}

// Value returns the domain as a tuple value of its registered type.
func (d *Domain) Value(reg *Registry) (*value.Tuple, error) {
	t, err := reg.Resolve(DomainType)
	if err != nil {
		return nil, err
	}
	var fields []value.Value
	if d.Name != nil {
		fields = append(fields, value.String(*d.Name))
	}
	if d.Version != nil {
		fields = append(fields, value.String(*d.Version))
	}
	if d.ChainID != nil {
		fields = append(fields, value.Uint256(d.ChainID))
	}
	if d.VerifyingContract != nil {
		fields = append(fields, value.Address(*d.VerifyingContract))
	}
	if d.Salt != nil {
		salt, err := value.NewFixedBytes(d.Salt[:])
		if err != nil {
			return nil, err
		}
		fields = append(fields, salt)
	}
	return value.NewTuple(t, fields...)
}

// Separator returns the domain separator, hashStruct(EIP712Domain).
func (d *Domain) Separator() (common.Hash, error) {
	reg := NewRegistry()
	if err := reg.Register(DomainType, d.Fields()...); err != nil {
		return common.Hash{}, err
	}
	reg.Freeze()
	h, err := NewHasher(reg)
	if err != nil {
		return common.Hash{}, err
	}
	v, err := d.Value(reg)
	if err != nil {
		return common.Hash{}, err
	}
	return h.HashStruct(DomainType, v)
}

type domainJSON struct {
	Name              *string         `json:"name,omitempty"`
	Version           *string         `json:"version,omitempty"`
	ChainID           interface{}     `json:"chainId,omitempty"`
	VerifyingContract *common.Address `json:"verifyingContract,omitempty"`
	Salt              *common.Hash    `json:"salt,omitempty"`
}

// MarshalJSON encodes the domain as in eth_signTypedData, chainId as a number.
func (d Domain) MarshalJSON() ([]byte, error) {
	enc := domainJSON{
		Name:              d.Name,
		Version:           d.Version,
		VerifyingContract: d.VerifyingContract,
		Salt:              d.Salt,
	}
	if d.ChainID != nil {
		enc.ChainID = stdjson.Number(d.ChainID.ToBig().String())
	}
	return json.Marshal(&enc)
}

// UnmarshalJSON decodes a domain. chainId may be a number, a decimal string
// or a hex string.
func (d *Domain) UnmarshalJSON(input []byte) error {
	var dec domainJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return errors.Wrap(err, "eip712: invalid domain")
	}
	*d = Domain{
		Name:              dec.Name,
		Version:           dec.Version,
		VerifyingContract: dec.VerifyingContract,
		Salt:              dec.Salt,
	}
	if dec.ChainID != nil {
		v, err := value.FromJSON(value.Uint256Type, dec.ChainID)
		if err != nil {
			return errors.Wrap(err, "eip712: domain chainId")
		}
		d.ChainID = v.(*value.Uint).Int()
	}
	return nil
}
