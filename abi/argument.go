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

package abi

import (
	"strings"

	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
)

// Argument is a named, typed parameter of a method or event.
type Argument struct {
	Name    string
	Type    *value.Type
	Indexed bool // event topics only
}

// Arguments is the ordered parameter list of a method or event.
type Arguments []Argument

// NewArguments builds unnamed arguments from ABI type names.
func NewArguments(typeNames ...string) (Arguments, error) {
	args := make(Arguments, len(typeNames))
	for i, name := range typeNames {
		t, err := ParseType(name)
		if err != nil {
			return nil, err
		}
		args[i] = Argument{Type: t}
	}
	return args, nil
}

// Types returns the argument types in order.
func (args Arguments) Types() []*value.Type {
	types := make([]*value.Type, len(args))
	for i, a := range args {
		types[i] = a.Type
	}
	return types
}

// NonIndexed returns the arguments that are not stored in event topics.
func (args Arguments) NonIndexed() Arguments {
	var ret Arguments
	for _, a := range args {
		if !a.Indexed {
			ret = append(ret, a)
		}
	}
	return ret
}

// signature returns the comma separated canonical type names.
func (args Arguments) signature() string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Type.String()
	}
	return strings.Join(names, ",")
}

// Pack checks vals against the declared types and encodes them.
func (args Arguments) Pack(vals ...value.Value) ([]byte, error) {
	if len(vals) != len(args) {
		return nil, errors.Wrapf(ErrArgumentCount, "have %d, want %d", len(vals), len(args))
	}
	for i, a := range args {
		if vals[i] == nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "argument %d (%s) is nil", i, a.Name)
		}
		if !a.Type.Equal(vals[i].Type()) {
			return nil, errors.Wrapf(ErrTypeMismatch, "argument %d (%s): have %v, want %v", i, a.Name, vals[i].Type(), a.Type)
		}
	}
	return Encode(vals...)
}

// Unpack decodes data into values of the declared types.
func (args Arguments) Unpack(data []byte) ([]value.Value, error) {
	return Decoder{}.Decode(data, args.Types()...)
}

// UnpackInto decodes data and hands each value to the matching Unmarshaler.
func (args Arguments) UnpackInto(data []byte, outs ...value.Unmarshaler) error {
	if len(outs) != len(args) {
		return errors.Wrapf(ErrArgumentCount, "have %d outputs, want %d", len(outs), len(args))
	}
	vals, err := args.Unpack(data)
	if err != nil {
		return err
	}
	for i, v := range vals {
		if err := outs[i].UnmarshalValue(v); err != nil {
			return errors.Wrapf(err, "argument %d (%s)", i, args[i].Name)
		}
	}
	return nil
}
