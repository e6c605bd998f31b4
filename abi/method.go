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
	"bytes"
	"fmt"
	"strings"

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/crypto"
	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
)

// SelectorLength is the size of a method identifier.
const SelectorLength = 4

// Method is a contract function. Call data is the 4 byte selector followed by
// the encoded inputs; return data is the encoded outputs.
type Method struct {
	Name    string
	Inputs  Arguments
	Outputs Arguments
}

// ParseMethod parses a signature such as "transfer(address,uint256)". The
// parsed method has no outputs.
func ParseMethod(sig string) (Method, error) {
	name, inputs, err := parseSignature(sig)
	if err != nil {
		return Method{}, err
	}
	return Method{Name: name, Inputs: inputs}, nil
}

func parseSignature(sig string) (string, Arguments, error) {
	sig = strings.TrimSpace(sig)
	open := strings.IndexByte(sig, '(')
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, errors.Wrapf(ErrInvalidType, "signature %q", sig)
	}
	parts, err := splitTopLevel(sig[open+1 : len(sig)-1])
	if err != nil {
		return "", nil, errors.Wrapf(err, "signature %q", sig)
	}
	args, err := NewArguments(parts...)
	if err != nil {
		return "", nil, err
	}
	return sig[:open], args, nil
}

// Sig returns the canonical signature, e.g. "transfer(address,uint256)".
func (m Method) Sig() string {
	return fmt.Sprintf("%s(%s)", m.Name, m.Inputs.signature())
}

// ID returns the selector: the first four bytes of keccak256(Sig()).
func (m Method) ID() []byte {
	return crypto.Keccak256([]byte(m.Sig()))[:SelectorLength]
}

// Pack returns the call data for the given input values.
func (m Method) Pack(vals ...value.Value) ([]byte, error) {
	enc, err := m.Inputs.Pack(vals...)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", m.Name)
	}
	return append(m.ID(), enc...), nil
}

// UnpackInput decodes call data after checking its selector.
func (m Method) UnpackInput(data []byte) ([]value.Value, error) {
	if len(data) < SelectorLength {
		return nil, &DecodeError{Offset: 0, Err: ErrBufferTooShort}
	}
	if !bytes.Equal(data[:SelectorLength], m.ID()) {
		return nil, errors.Wrapf(ErrSelectorMismatch, "have %x, want %x for %s", data[:SelectorLength], m.ID(), m.Sig())
	}
	return m.Inputs.Unpack(data[SelectorLength:])
}

// Unpack decodes return data into the output values.
func (m Method) Unpack(data []byte) ([]value.Value, error) {
	return m.Outputs.Unpack(data)
}

func (m Method) String() string {
	if len(m.Outputs) == 0 {
		return "function " + m.Sig()
	}
	return fmt.Sprintf("function %s returns(%s)", m.Sig(), m.Outputs.signature())
}

// Event is a contract event. Indexed inputs go to topics, the others are
// encoded together as the log data.
type Event struct {
	Name      string
	Inputs    Arguments
	Anonymous bool
}

// ParseEvent parses a signature such as "Transfer(address,address,uint256)".
// All inputs of the parsed event are non-indexed.
func ParseEvent(sig string) (Event, error) {
	name, inputs, err := parseSignature(sig)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Inputs: inputs}, nil
}

// Sig returns the canonical event signature.
func (e Event) Sig() string {
	return fmt.Sprintf("%s(%s)", e.Name, e.Inputs.signature())
}

// ID returns the topic identifying the event, keccak256(Sig()).
func (e Event) ID() common.Hash {
	return crypto.Keccak256Hash([]byte(e.Sig()))
}

// UnpackData decodes the non-indexed inputs from log data.
func (e Event) UnpackData(data []byte) ([]value.Value, error) {
	return e.Inputs.NonIndexed().Unpack(data)
}
