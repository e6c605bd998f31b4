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
	"regexp"
	"strconv"
	"strings"

	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
)

var (
	intReg        = regexp.MustCompile(`^(u?)int(\d*)$`)
	fixedBytesReg = regexp.MustCompile(`^bytes(\d+)$`)
	fixedPointReg = regexp.MustCompile(`^u?fixed(\d+x\d+)?$`)
	arrayReg      = regexp.MustCompile(`^(.+)\[(\d*)\]$`)
)

// ParseType parses a canonical ABI type name such as "uint256", "bytes32",
// "address[2][]" or "(uint256,bytes)[]". The bare names "uint" and "int" are
// aliases for the 256 bit types. Fixed-point types are not supported.
//
// Parsed types are cached and shared, callers must not modify them.
func ParseType(s string) (*value.Type, error) {
	info := theTC.info(s)
	return info.typ, info.err
}

// MustParseType is like ParseType but panics on error. It simplifies
// package-level tables of known types.
func MustParseType(s string) *value.Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// parseType does the parsing for the type cache.
func parseType(s string) (*value.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "bool":
		return value.BoolType, nil
	case s == "address":
		return value.AddressType, nil
	case s == "string":
		return value.StringType, nil
	case s == "bytes":
		return value.BytesType, nil

	case arrayReg.MatchString(s):
		match := arrayReg.FindStringSubmatch(s)
		elem, err := parseType(match[1])
		if err != nil {
			return nil, err
		}
		if match[2] == "" {
			return value.NewArrayType(elem)
		}
		n, err := strconv.Atoi(match[2])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidType, "array length in %q", s)
		}
		return value.NewFixedArrayType(elem, n)

	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		parts, err := splitTopLevel(s[1 : len(s)-1])
		if err != nil {
			return nil, errors.Wrapf(err, "tuple %q", s)
		}
		if len(parts) == 0 {
			return nil, errors.Wrap(ErrInvalidType, "empty tuple")
		}
		fields := make([]value.Field, len(parts))
		for i, p := range parts {
			ft, err := parseType(p)
			if err != nil {
				return nil, err
			}
			fields[i] = value.Field{Type: ft}
		}
		return value.NewTupleType("", fields...)

	case fixedBytesReg.MatchString(s):
		n, err := strconv.Atoi(fixedBytesReg.FindStringSubmatch(s)[1])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidType, "%q", s)
		}
		return value.NewFixedBytesType(n)

	case intReg.MatchString(s):
		match := intReg.FindStringSubmatch(s)
		bits := 256
		if match[2] != "" {
			var err error
			if bits, err = strconv.Atoi(match[2]); err != nil {
				return nil, errors.Wrapf(ErrInvalidType, "%q", s)
			}
		}
		if match[1] == "u" {
			return value.NewUintType(bits)
		}
		return value.NewIntType(bits)

	case fixedPointReg.MatchString(s):
		return nil, errors.Wrapf(ErrUnsupportedType, "%q", s)
	}
	return nil, errors.Wrapf(ErrInvalidType, "%q", s)
}

// splitTopLevel splits a comma separated list, ignoring commas nested in
// parentheses. The empty string yields no parts.
func splitTopLevel(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, errors.Wrap(ErrInvalidType, "unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.Wrap(ErrInvalidType, "unbalanced parentheses")
	}
	return append(parts, s[start:]), nil
}

// IsDynamic reports whether values of type t are encoded in the tail with an
// offset in the head.
func IsDynamic(t *value.Type) bool {
	switch t.Kind {
	case value.BytesKind, value.StringKind, value.ArrayKind:
		return true
	case value.FixedArrayKind:
		return IsDynamic(t.Elem)
	case value.TupleKind:
		for _, f := range t.Fields {
			if IsDynamic(f.Type) {
				return true
			}
		}
	}
	return false
}

// HeadSize returns the number of bytes a value of type t occupies in the head
// of its enclosing sequence: 32 for an offset when t is dynamic, the full
// inline size otherwise.
func HeadSize(t *value.Type) int {
	if IsDynamic(t) {
		return 32
	}
	switch t.Kind {
	case value.FixedArrayKind:
		return t.Size * HeadSize(t.Elem)
	case value.TupleKind:
		size := 0
		for _, f := range t.Fields {
			size += HeadSize(f.Type)
		}
		return size
	}
	return 32
}
