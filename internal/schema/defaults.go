// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// checkDefault reports whether v is an acceptable default for s. A union
// default must match the first branch of the union.
func checkDefault(s Schema, v any) error {
	switch s := Deref(s).(type) {
	case *PrimitiveSchema:
		return checkPrimitiveDefault(s.Kind, v)
	case *FixedSchema:
		str, ok := v.(string)
		if !ok {
			return mismatch(s, v)
		}
		if n := utf8.RuneCountInString(str); n != s.Size {
			return fmt.Errorf("default for %s must be %d bytes long, got %d", s.FullName(), s.Size, n)
		}
	case *EnumSchema:
		str, ok := v.(string)
		if !ok {
			return mismatch(s, v)
		}
		if !s.HasSymbol(str) {
			return fmt.Errorf("default %q is not a symbol of %s", str, s.FullName())
		}
	case *ArraySchema:
		list, ok := v.([]any)
		if !ok {
			return mismatch(s, v)
		}
		for i, item := range list {
			if err := checkDefault(s.Items, item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	case *MapSchema:
		obj, ok := v.(map[string]any)
		if !ok {
			return mismatch(s, v)
		}
		for k, item := range obj {
			if err := checkDefault(s.Values, item); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
	case *UnionSchema:
		if len(s.Types) == 0 {
			return errors.New("empty union cannot have a default")
		}
		if err := checkDefault(s.Types[0], v); err != nil {
			return fmt.Errorf("union default must match its first branch %s: %w", Describe(s.Types[0]), err)
		}
	case *RecordSchema:
		obj, ok := v.(map[string]any)
		if !ok {
			return mismatch(s, v)
		}
		for _, f := range s.Fields {
			fv, ok := obj[f.Name]
			if !ok {
				if f.HasDefault {
					continue
				}
				return fmt.Errorf("default for %s is missing field %q", s.FullName(), f.Name)
			}
			if err := checkDefault(f.Type, fv); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	case *RefSchema:
		return fmt.Errorf("reference %s is not linked", s.FullName)
	}
	return nil
}

func checkPrimitiveDefault(kind Type, v any) error {
	switch kind {
	case Null:
		if v != nil {
			return fmt.Errorf("expected null, got %s", jsonKind(v))
		}
	case Boolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %s", jsonKind(v))
		}
	case Int, Long:
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("expected %s, got %s", kind, jsonKind(v))
		}
		i, err := n.Int64()
		if err != nil {
			return fmt.Errorf("expected %s, got %s", kind, n)
		}
		if kind == Int && (i < math.MinInt32 || i > math.MaxInt32) {
			return fmt.Errorf("%s overflows int", n)
		}
	case Float, Double:
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("expected %s, got %s", kind, jsonKind(v))
		}
		if _, err := n.Float64(); err != nil {
			return fmt.Errorf("expected %s, got %s", kind, n)
		}
	case Bytes, String:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected %s, got %s", kind, jsonKind(v))
		}
	}
	return nil
}

func mismatch(s Schema, v any) error {
	return fmt.Errorf("expected %s, got %s", Describe(s), jsonKind(v))
}
