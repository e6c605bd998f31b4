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

package value

import (
	"math"
	"math/big"
	"strings"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// json keeps numbers as literals so that 256 bit quantities survive decoding.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// ParseJSON decodes a JSON document into a value of type t. See FromJSON for
// the accepted shapes.
func ParseJSON(t *Type, data []byte) (Value, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "value: invalid JSON")
	}
	return FromJSON(t, raw)
}

// FromJSON converts a decoded JSON value into a value of type t.
//
// Integers may be JSON numbers, decimal strings or 0x-prefixed hex strings.
// Byte strings and addresses are 0x-prefixed hex; mixed-case addresses must
// carry a valid checksum. Tuples are objects keyed by field name, or arrays
// when the tuple has unnamed fields.
func FromJSON(t *Type, raw interface{}) (Value, error) {
	switch t.Kind {
	case BoolKind:
		b, ok := raw.(bool)
		if !ok {
			return nil, jsonMismatch(t, raw)
		}
		return Bool(b), nil

	case UintKind:
		x, err := jsonInteger(t, raw)
		if err != nil {
			return nil, err
		}
		if x.Sign() < 0 {
			return nil, errors.Wrapf(ErrValueOverflow, "negative value %v for %v", x, t)
		}
		u, overflow := uint256.FromBig(x)
		if overflow {
			return nil, errors.Wrapf(ErrValueOverflow, "%v for %v", x, t)
		}
		return NewUint(t, u)

	case IntKind:
		x, err := jsonInteger(t, raw)
		if err != nil {
			return nil, err
		}
		return NewInt(t, x)

	case FixedBytesKind, BytesKind:
		s, ok := raw.(string)
		if !ok {
			return nil, jsonMismatch(t, raw)
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "value: %v", t)
		}
		if t.Kind == BytesKind {
			return Bytes(b), nil
		}
		return Construct(t, b)

	case StringKind:
		s, ok := raw.(string)
		if !ok {
			return nil, jsonMismatch(t, raw)
		}
		return String(s), nil

	case AddressKind:
		s, ok := raw.(string)
		if !ok {
			return nil, jsonMismatch(t, raw)
		}
		a, err := common.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		return Address(a), nil

	case FixedArrayKind, ArrayKind:
		list, ok := raw.([]interface{})
		if !ok {
			return nil, jsonMismatch(t, raw)
		}
		elems := make([]Value, len(list))
		for i, item := range list {
			e, err := FromJSON(t.Elem, item)
			if err != nil {
				return nil, errors.WithMessagef(err, "index %d", i)
			}
			elems[i] = e
		}
		return NewArray(t, elems...)

	case TupleKind:
		fields := make([]Value, len(t.Fields))
		switch obj := raw.(type) {
		case map[string]interface{}:
			for i, f := range t.Fields {
				item, ok := obj[f.Name]
				if !ok {
					return nil, errors.Wrapf(ErrTypeMismatch, "missing field %q of %v", f.Name, t)
				}
				v, err := FromJSON(f.Type, item)
				if err != nil {
					return nil, errors.WithMessagef(err, "field %q", f.Name)
				}
				fields[i] = v
			}
		case []interface{}:
			if len(obj) != len(t.Fields) {
				return nil, errors.Wrapf(ErrTypeMismatch, "%d items for %v", len(obj), t)
			}
			for i, f := range t.Fields {
				v, err := FromJSON(f.Type, obj[i])
				if err != nil {
					return nil, errors.WithMessagef(err, "field %d", i)
				}
				fields[i] = v
			}
		default:
			return nil, jsonMismatch(t, raw)
		}
		return NewTuple(t, fields...)
	}
	return nil, errors.Wrapf(ErrTypeDefinition, "kind %v", t.Kind)
}

func jsonMismatch(t *Type, raw interface{}) error {
	return errors.Wrapf(ErrTypeMismatch, "JSON %T for %v", raw, t)
}

// jsonInteger accepts numbers, decimal strings and 0x hex strings with an
// optional leading minus sign.
func jsonInteger(t *Type, raw interface{}) (*big.Int, error) {
	if s, ok := jsoniter.CastJsonNumber(raw); ok {
		x, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, errors.Wrapf(ErrTypeMismatch, "non-integer number %s for %v", s, t)
		}
		return x, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return nil, errors.Wrapf(ErrTypeMismatch, "imprecise number %v for %v", v, t)
		}
		return big.NewInt(int64(v)), nil
	case string:
		neg := strings.HasPrefix(v, "-")
		s := strings.TrimPrefix(v, "-")
		var (
			x  *big.Int
			ok bool
		)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			x, ok = new(big.Int).SetString(s[2:], 16)
		} else {
			x, ok = new(big.Int).SetString(s, 10)
		}
		if !ok || s == "" {
			return nil, errors.Wrapf(ErrTypeMismatch, "invalid integer %q for %v", v, t)
		}
		if neg {
			x.Neg(x)
		}
		return x, nil
	}
	return nil, jsonMismatch(t, raw)
}

// ToJSON converts v into plain JSON data: integers become decimal strings,
// byte strings become 0x hex, addresses use their checksum form, and named
// tuples become objects.
func ToJSON(v Value) interface{} {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case *Uint:
		return v.x.ToBig().String()
	case *Int:
		return v.x.String()
	case *FixedBytes:
		return hexutil.Encode(v.b)
	case Bytes:
		return hexutil.Encode(v)
	case String:
		return string(v)
	case Address:
		return common.Address(v).Hex()
	case *Array:
		out := make([]interface{}, len(v.elems))
		for i, e := range v.elems {
			out[i] = ToJSON(e)
		}
		return out
	case *Tuple:
		named := len(v.t.Fields) > 0
		for _, f := range v.t.Fields {
			if f.Name == "" {
				named = false
			}
		}
		if !named {
			out := make([]interface{}, len(v.fields))
			for i, f := range v.fields {
				out[i] = ToJSON(f)
			}
			return out
		}
		out := make(map[string]interface{}, len(v.fields))
		for i, f := range v.t.Fields {
			out[f.Name] = ToJSON(v.fields[i])
		}
		return out
	}
	return nil
}

// MarshalJSON renders v with ToJSON.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(ToJSON(v))
}
