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
	"sort"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/crypto"
	"github.com/PigCharid/ethercore/log"
	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
)

// TypedData is the eth_signTypedData_v4 request payload.
type TypedData struct {
	Types       map[string][]Field     `json:"types"`
	PrimaryType string                 `json:"primaryType"`
	Domain      Domain                 `json:"domain"`
	Message     map[string]interface{} `json:"message"`
}

// Hashes are the intermediate and final hashes of a typed data payload.
type Hashes struct {
	DomainSeparator common.Hash `json:"domainSeparator"`
	StructHash      common.Hash `json:"structHash"`
	Digest          common.Hash `json:"digest"`
}

// ParseTypedData decodes a JSON request payload.
func ParseTypedData(input []byte) (*TypedData, error) {
	td := new(TypedData)
	if err := json.Unmarshal(input, td); err != nil {
		return nil, errors.Wrap(err, "eip712: invalid typed data")
	}
	return td, nil
}

// NewTypedData builds the request payload for message msg of the primary
// type. The "types" section lists the primary type, everything it references
// and the domain type.
func NewTypedData(reg *Registry, domain Domain, primary string, msg *value.Tuple) (*TypedData, error) {
	id, ok := reg.ids[primary]
	if !ok {
		return nil, errors.Wrapf(ErrMissingTypeDefinition, "%s", primary)
	}
	ids, err := reg.deps(id)
	if err != nil {
		return nil, err
	}
	types := map[string][]Field{DomainType: domain.Fields()}
	if types[DomainType] == nil {
		types[DomainType] = []Field{}
	}
	for _, id := range ids {
		types[reg.types[id].Name] = reg.types[id].Fields
	}
	m, ok := value.ToJSON(msg).(map[string]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrFieldTypeMismatch, "message %v has unnamed fields", msg.Type())
	}
	return &TypedData{Types: types, PrimaryType: primary, Domain: domain, Message: m}, nil
}

// Registry registers the payload's struct types, except the domain type,
// into a new frozen registry.
func (td *TypedData) Registry() (*Registry, error) {
	names := make([]string, 0, len(td.Types))
	for name := range td.Types {
		if name != DomainType {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	reg := NewRegistry()
	for _, name := range names {
		if err := reg.Register(name, td.Types[name]...); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

// Hashes computes the domain separator, the message hash and the digest.
func (td *TypedData) Hashes() (Hashes, error) {
	var out Hashes
	if err := td.checkDomain(); err != nil {
		return out, err
	}
	reg, err := td.Registry()
	if err != nil {
		return out, err
	}
	h, err := NewHasher(reg)
	if err != nil {
		return out, err
	}
	t, err := reg.Resolve(td.PrimaryType)
	if err != nil {
		return out, err
	}
	msg, err := value.FromJSON(t, td.Message)
	if err != nil {
		return out, errors.Wrap(err, "eip712: message")
	}
	if out.DomainSeparator, err = td.Domain.Separator(); err != nil {
		return out, err
	}
	if out.StructHash, err = h.HashStruct(td.PrimaryType, msg); err != nil {
		return out, err
	}
	out.Digest = crypto.Keccak256Hash(SigningPayload(out.DomainSeparator, out.StructHash))
	log.Debug("Hashed typed data", "primary", td.PrimaryType, "digest", out.Digest)
	return out, nil
}

// Hash returns the digest to sign.
func (td *TypedData) Hash() (common.Hash, error) {
	hs, err := td.Hashes()
	return hs.Digest, err
}

// checkDomain verifies that a declared EIP712Domain type lists exactly the
// domain fields that are set.
func (td *TypedData) checkDomain() error {
	declared, ok := td.Types[DomainType]
	if !ok {
		return nil
	}
	have := td.Domain.Fields()
	if len(declared) != len(have) {
		return errors.Wrapf(ErrFieldTypeMismatch, "%s declares %d fields, domain sets %d", DomainType, len(declared), len(have))
	}
	for i := range have {
		if declared[i] != have[i] {
			return errors.Wrapf(ErrFieldTypeMismatch, "%s field %d is %s %s, want %s %s",
				DomainType, i, declared[i].Type, declared[i].Name, have[i].Type, have[i].Name)
		}
	}
	return nil
}
