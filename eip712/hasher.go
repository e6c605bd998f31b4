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
	"github.com/PigCharid/ethercore/abi"
	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/crypto"
	"github.com/PigCharid/ethercore/value"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// typeCacheLimit bounds the number of encoded type strings kept per Hasher.
const typeCacheLimit = 256

// Hasher computes encodeType, typeHash, encodeData and hashStruct over a
// frozen registry. It is safe for concurrent use.
type Hasher struct {
	reg   *Registry
	types *lru.Cache // struct name -> encoded type string
}

// NewHasher validates reg and returns a hasher over it. The registry must
// already be frozen, see Registry.Freeze.
func NewHasher(reg *Registry) (*Hasher, error) {
	if !reg.Frozen() {
		return nil, ErrRegistryNotFrozen
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	cache, err := lru.New(typeCacheLimit)
	if err != nil {
		return nil, err
	}
	return &Hasher{reg: reg, types: cache}, nil
}

// Registry returns the registry the hasher reads from.
func (h *Hasher) Registry() *Registry { return h.reg }

// EncodeType returns the canonical type string of the named struct, e.g.
// "Mail(Person from,Person to,string contents)Person(string name,address wallet)".
func (h *Hasher) EncodeType(name string) (string, error) {
	if s, ok := h.types.Get(name); ok {
		return s.(string), nil
	}
	s, err := h.reg.EncodeType(name)
	if err != nil {
		return "", err
	}
	h.types.Add(name, s)
	return s, nil
}

// TypeHash returns keccak256(EncodeType(name)).
func (h *Hasher) TypeHash(name string) (common.Hash, error) {
	s, err := h.EncodeType(name)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte(s)), nil
}

// EncodeData returns typeHash followed by one 32 byte slot per field of the
// named struct, in declaration order.
func (h *Hasher) EncodeData(name string, v value.Value) ([]byte, error) {
	id, ok := h.reg.ids[name]
	if !ok {
		return nil, errors.Wrapf(ErrMissingTypeDefinition, "%s", name)
	}
	st := h.reg.types[id]
	tup, ok := v.(*value.Tuple)
	if !ok || tup.Len() != len(st.Fields) {
		return nil, errors.Wrapf(ErrFieldTypeMismatch, "%T for struct %s", v, name)
	}
	if tn := tup.Type().Name; tn != "" && tn != name {
		return nil, errors.Wrapf(ErrFieldTypeMismatch, "struct %s for %s", tn, name)
	}
	th, err := h.TypeHash(name)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, common.HashLength*(len(st.Fields)+1))
	out = append(out, th[:]...)
	for i, f := range st.Fields {
		if fn := tup.Type().Fields[i].Name; fn != "" && fn != f.Name {
			return nil, errors.Wrapf(ErrFieldTypeMismatch, "field %d of %s is %s, want %s", i, name, fn, f.Name)
		}
		slot, err := h.encodeField(f.Type, tup.Field(i))
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", name, f.Name)
		}
		out = append(out, slot...)
	}
	return out, nil
}

// HashStruct returns keccak256(EncodeData(name, v)).
func (h *Hasher) HashStruct(name string, v value.Value) (common.Hash, error) {
	enc, err := h.EncodeData(name, v)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// Digest returns the hash to sign for message v of the named primary type
// in the given domain.
func (h *Hasher) Digest(domain *Domain, primary string, v value.Value) (common.Hash, error) {
	sep, err := domain.Separator()
	if err != nil {
		return common.Hash{}, err
	}
	sh, err := h.HashStruct(primary, v)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(SigningPayload(sep, sh)), nil
}

// encodeField returns the 32 byte slot of a field value.
// 动态类型先求哈希，嵌套结构体用hashStruct，数组对各元素的编码拼接后求哈希
func (h *Hasher) encodeField(typ string, v value.Value) ([]byte, error) {
	ref, err := h.reg.parseField(typ)
	if err != nil {
		return nil, err
	}
	if n := len(ref.dims); n > 0 {
		arr, ok := v.(*value.Array)
		if !ok {
			return nil, errors.Wrapf(ErrFieldTypeMismatch, "%T for %s", v, typ)
		}
		size := ref.dims[n-1]
		if size >= 0 && (arr.Type().Kind != value.FixedArrayKind || arr.Len() != size) {
			return nil, errors.Wrapf(ErrFieldTypeMismatch, "%v for %s", v.Type(), typ)
		}
		if size < 0 && arr.Type().Kind != value.ArrayKind {
			return nil, errors.Wrapf(ErrFieldTypeMismatch, "%v for %s", v.Type(), typ)
		}
		elem := elemTypeName(typ)
		slots := make([][]byte, arr.Len())
		for i := range slots {
			if slots[i], err = h.encodeField(elem, arr.Index(i)); err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
		}
		return crypto.Keccak256(slots...), nil
	}
	if ref.structID >= 0 {
		sh, err := h.HashStruct(ref.base, v)
		if err != nil {
			return nil, err
		}
		return sh[:], nil
	}
	if v == nil || !ref.atomic.Equal(v.Type()) {
		return nil, errors.Wrapf(ErrFieldTypeMismatch, "%T for %s", v, typ)
	}
	switch v := v.(type) {
	case value.Bytes:
		return crypto.Keccak256(v), nil
	case value.String:
		return crypto.Keccak256([]byte(v)), nil
	}
	return abi.EncodeValue(v)
}

// SigningPayload returns the 66 byte preimage of the digest:
// 0x19 0x01 ‖ domainSeparator ‖ hashStruct(message).
func SigningPayload(domainSeparator, structHash common.Hash) []byte {
	out := make([]byte, 0, 2+2*common.HashLength)
	out = append(out, 0x19, 0x01)
	out = append(out, domainSeparator[:]...)
	return append(out, structHash[:]...)
}
