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

// Package eip712 computes EIP-712 typed structured data hashes.
//
// Struct types are registered by name in a Registry. Field types are either
// atomic ABI types (uint256, address, bytes32, string, bytes, ...), names of
// other registered structs, or arrays of those ("Person[]", "uint8[3]").
// Once every type is registered the registry is frozen and shared by any
// number of Hashers.
//
// 注册表只在构建阶段写入，冻结后可以被多个goroutine并发读取
package eip712

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PigCharid/ethercore/abi"
	"github.com/PigCharid/ethercore/log"
	"github.com/PigCharid/ethercore/value"
	"github.com/pkg/errors"
)

var (
	ErrMissingTypeDefinition = errors.New("eip712: missing type definition")
	ErrCyclicTypeReference   = errors.New("eip712: cyclic type reference")
	ErrFieldTypeMismatch     = errors.New("eip712: field value does not match declared type")
	ErrDuplicateType         = errors.New("eip712: type already registered")
	ErrRegistryFrozen        = errors.New("eip712: registry is frozen")
	ErrRegistryNotFrozen     = errors.New("eip712: registry is not frozen")
	ErrInvalidTypeName       = errors.New("eip712: invalid type name")
)

var (
	identReg     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	fieldTypeReg = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)((?:\[\d*\])*)$`)
)

// Field is a named member of a struct type, as it appears in the "types"
// section of an eth_signTypedData request.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StructType is a registered struct definition.
type StructType struct {
	Name   string
	Fields []Field
}

// String returns the struct's own part of encodeType, e.g.
// "Person(string name,address wallet)".
func (s StructType) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.Type)
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Registry holds struct types in an arena indexed by id.
type Registry struct {
	ids    map[string]int
	types  []StructType
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]int)}
}

// Register adds a struct type. References to other structs are resolved
// lazily, so types may be registered in any order.
func (r *Registry) Register(name string, fields ...Field) error {
	if r.frozen {
		return errors.Wrapf(ErrRegistryFrozen, "registering %s", name)
	}
	if !identReg.MatchString(name) {
		return errors.Wrapf(ErrInvalidTypeName, "%q", name)
	}
	if _, err := abi.ParseType(name); err == nil {
		return errors.Wrapf(ErrInvalidTypeName, "%q is an atomic type", name)
	}
	if _, ok := r.ids[name]; ok {
		return errors.Wrapf(ErrDuplicateType, "%s", name)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" || seen[f.Name] {
			return errors.Wrapf(ErrInvalidTypeName, "field name %q in %s", f.Name, name)
		}
		seen[f.Name] = true
		if !fieldTypeReg.MatchString(f.Type) {
			return errors.Wrapf(ErrInvalidTypeName, "type %q of %s.%s", f.Type, name, f.Name)
		}
	}
	cpy := make([]Field, len(fields))
	copy(cpy, fields)
	r.ids[name] = len(r.types)
	r.types = append(r.types, StructType{Name: name, Fields: cpy})
	return nil
}

// Lookup returns the struct type registered under name.
func (r *Registry) Lookup(name string) (StructType, bool) {
	id, ok := r.ids[name]
	if !ok {
		return StructType{}, false
	}
	return r.types[id], true
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Freeze stops further registrations.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether the registry accepts registrations.
func (r *Registry) Frozen() bool { return r.frozen }

// Validate checks that every registered type only references known types
// and that no type references itself, directly or through other structs.
func (r *Registry) Validate() error {
	for id := range r.types {
		if _, err := r.deps(id); err != nil {
			return err
		}
	}
	return nil
}

// fieldRef is a parsed field type.
type fieldRef struct {
	base     string
	dims     []int // outermost last, -1 for dynamic
	structID int   // -1 for atomic types
	atomic   *value.Type
}

// elemTypeName strips the outermost array dimension from typ.
func elemTypeName(typ string) string {
	return typ[:strings.LastIndexByte(typ, '[')]
}

func (r *Registry) parseField(typ string) (fieldRef, error) {
	match := fieldTypeReg.FindStringSubmatch(typ)
	if match == nil {
		return fieldRef{}, errors.Wrapf(ErrInvalidTypeName, "%q", typ)
	}
	ref := fieldRef{base: match[1], structID: -1}
	if match[2] != "" {
		for _, d := range strings.Split(strings.TrimSuffix(match[2][1:], "]"), "][") {
			n := -1
			if d != "" {
				var err error
				if n, err = strconv.Atoi(d); err != nil {
					return fieldRef{}, errors.Wrapf(ErrInvalidTypeName, "%q", typ)
				}
			}
			ref.dims = append(ref.dims, n)
		}
	}
	if id, ok := r.ids[ref.base]; ok {
		ref.structID = id
		return ref, nil
	}
	t, err := abi.ParseType(ref.base)
	if err != nil {
		return fieldRef{}, errors.Wrapf(ErrMissingTypeDefinition, "%s", ref.base)
	}
	ref.atomic = t
	return ref, nil
}

// deps returns id followed by the ids of every struct it references
// transitively, each once. A type reached again while still on the current
// path is a cycle; reaching it again through another path is not.
// 三色DFS：灰色表示在当前路径上，黑色表示已经处理完
func (r *Registry) deps(id int) ([]int, error) {
	const (
		white = iota
		grey
		black
	)
	var (
		color = make([]uint8, len(r.types))
		out   []int
		visit func(id int, path []string) error
	)
	visit = func(id int, path []string) error {
		st := r.types[id]
		switch color[id] {
		case grey:
			return errors.Wrapf(ErrCyclicTypeReference, "%s", strings.Join(append(path, st.Name), " -> "))
		case black:
			return nil
		}
		color[id] = grey
		out = append(out, id)
		path = append(path, st.Name)
		for _, f := range st.Fields {
			ref, err := r.parseField(f.Type)
			if err != nil {
				return errors.Wrapf(err, "field %s.%s", st.Name, f.Name)
			}
			if ref.structID < 0 {
				continue
			}
			if err := visit(ref.structID, path); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	if err := visit(id, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeType returns the canonical type string of the named struct: its own
// definition followed by the definitions of all referenced structs sorted by
// name.
func (r *Registry) EncodeType(name string) (string, error) {
	id, ok := r.ids[name]
	if !ok {
		return "", errors.Wrapf(ErrMissingTypeDefinition, "%s", name)
	}
	ids, err := r.deps(id)
	if err != nil {
		return "", err
	}
	refs := ids[1:]
	sort.Slice(refs, func(i, j int) bool { return r.types[refs[i]].Name < r.types[refs[j]].Name })

	var sb strings.Builder
	sb.WriteString(r.types[id].String())
	for _, dep := range refs {
		sb.WriteString(r.types[dep].String())
	}
	log.Trace("Encoded EIP-712 type", "name", name, "deps", len(refs))
	return sb.String(), nil
}

// Resolve builds the value.Type tree of the named struct: a named tuple whose
// fields carry the declared field names.
func (r *Registry) Resolve(name string) (*value.Type, error) {
	id, ok := r.ids[name]
	if !ok {
		return nil, errors.Wrapf(ErrMissingTypeDefinition, "%s", name)
	}
	if _, err := r.deps(id); err != nil {
		return nil, err
	}
	return r.resolveStruct(id)
}

func (r *Registry) resolveStruct(id int) (*value.Type, error) {
	st := r.types[id]
	fields := make([]value.Field, len(st.Fields))
	for i, f := range st.Fields {
		t, err := r.resolveField(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", st.Name, f.Name)
		}
		fields[i] = value.Field{Name: f.Name, Type: t}
	}
	return value.NewTupleType(st.Name, fields...)
}

func (r *Registry) resolveField(typ string) (*value.Type, error) {
	ref, err := r.parseField(typ)
	if err != nil {
		return nil, err
	}
	if len(ref.dims) > 0 {
		elem, err := r.resolveField(elemTypeName(typ))
		if err != nil {
			return nil, err
		}
		if n := ref.dims[len(ref.dims)-1]; n >= 0 {
			return value.NewFixedArrayType(elem, n)
		}
		return value.NewArrayType(elem)
	}
	if ref.structID >= 0 {
		return r.resolveStruct(ref.structID)
	}
	return ref.atomic, nil
}
