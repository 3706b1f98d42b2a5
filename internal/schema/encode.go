// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"encoding/json"
	"fmt"
)

// Encode renders the named type fullname as a standalone JSON document.
// Every named type it depends on is defined inline at its first use and
// referred to by fullname afterwards.
func (r *Registry) Encode(fullname string) ([]byte, error) {
	s, ok := r.Lookup(fullname)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, fullname)
	}
	return Encode(s)
}

// Encode renders s as a standalone JSON document.
func Encode(s Schema) ([]byte, error) {
	e := &encoder{defined: make(map[string]bool)}
	v, err := e.encode(s, "")
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

type encoder struct {
	defined map[string]bool
}

// encode converts s to a JSON value. namespace is the namespace a reader of
// the output would infer at this position.
func (e *encoder) encode(s Schema, namespace string) (any, error) {
	switch s := s.(type) {
	case *PrimitiveSchema:
		if s.Logical == nil {
			return string(s.Kind), nil
		}
		m := map[string]any{"type": string(s.Kind)}
		encodeLogical(m, s.Logical)
		return m, nil
	case *RefSchema:
		if s.target == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, s.FullName)
		}
		return e.encode(s.target, namespace)
	case *ArraySchema:
		items, err := e.encode(s.Items, namespace)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil
	case *MapSchema:
		values, err := e.encode(s.Values, namespace)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "map", "values": values}, nil
	case *UnionSchema:
		branches := make([]any, len(s.Types))
		for i, t := range s.Types {
			b, err := e.encode(t, namespace)
			if err != nil {
				return nil, err
			}
			branches[i] = b
		}
		return branches, nil
	case *FixedSchema:
		if e.defined[s.FullName()] {
			return s.FullName(), nil
		}
		e.defined[s.FullName()] = true
		m := e.named("fixed", s.FullName(), s.Namespace, namespace, s.Aliases, s.Doc)
		m["size"] = s.Size
		encodeLogical(m, s.Logical)
		return m, nil
	case *EnumSchema:
		if e.defined[s.FullName()] {
			return s.FullName(), nil
		}
		e.defined[s.FullName()] = true
		m := e.named("enum", s.FullName(), s.Namespace, namespace, s.Aliases, s.Doc)
		symbols := s.Symbols
		if symbols == nil {
			symbols = []string{}
		}
		m["symbols"] = symbols
		if s.HasDefault {
			m["default"] = s.Default
		}
		return m, nil
	case *RecordSchema:
		if e.defined[s.FullName()] {
			return s.FullName(), nil
		}
		e.defined[s.FullName()] = true
		kind := "record"
		if s.IsError {
			kind = "error"
		}
		m := e.named(kind, s.FullName(), s.Namespace, namespace, s.Aliases, s.Doc)
		fields := make([]any, 0, len(s.Fields))
		for _, f := range s.Fields {
			ft, err := e.encode(f.Type, s.Namespace)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fm := map[string]any{"name": f.Name, "type": ft}
			if f.HasDefault {
				fm["default"] = f.Default
			}
			if f.Doc != "" {
				fm["doc"] = f.Doc
			}
			if f.Order != "" && f.Order != Ascending {
				fm["order"] = string(f.Order)
			}
			if len(f.Aliases) > 0 {
				fm["aliases"] = f.Aliases
			}
			fields = append(fields, fm)
		}
		m["fields"] = fields
		return m, nil
	default:
		return nil, fmt.Errorf("cannot encode %T", s)
	}
}

// named writes the attributes shared by named types. Names are written as
// fullnames; an empty namespace is spelled out when the enclosing namespace
// would otherwise be inherited.
func (e *encoder) named(kind, full, ns, enclosing string, aliases []string, doc string) map[string]any {
	m := map[string]any{"type": kind, "name": full}
	if ns == "" && enclosing != "" {
		m["namespace"] = ""
	}
	if len(aliases) > 0 {
		m["aliases"] = aliases
	}
	if doc != "" {
		m["doc"] = doc
	}
	return m
}

func encodeLogical(m map[string]any, lt *LogicalType) {
	if lt == nil {
		return
	}
	m["logicalType"] = lt.Name
	if lt.Precision != 0 {
		m["precision"] = lt.Precision
	}
	if lt.Scale != 0 {
		m["scale"] = lt.Scale
	}
}
