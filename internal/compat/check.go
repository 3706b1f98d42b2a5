// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package compat decides whether data written with one Avro schema can be
// read with another, following the Avro schema resolution rules.
package compat

import (
	"fmt"
	"strings"

	"github.com/dacolabs/avrodisiac/internal/schema"
)

// Reason classifies an incompatibility.
type Reason string

// Incompatibility reasons.
const (
	MissingField      Reason = "missing field"
	UnknownEnumSymbol Reason = "unknown enum symbol"
	TypeMismatch      Reason = "type mismatch"
	SchemaRemoved     Reason = "schema removed"
)

// Direction names which side of a comparison acted as the reader.
type Direction string

// Directions.
const (
	// Backward means the new schema reads data written with the old one.
	Backward Direction = "new reads old"
	// Forward means the old schema reads data written with the new one.
	Forward Direction = "old reads new"
)

// Incompatibility describes the first structural mismatch found between a
// reader and a writer schema.
type Incompatibility struct {
	// Name is the fullname of the compared named type; empty for anonymous
	// top-level schemas.
	Name      string
	Direction Direction
	// Path lists the field names, "items", "values" and union branches
	// leading from the compared schema to the mismatch.
	Path   []string
	Reason Reason
	Detail string
}

func (i *Incompatibility) Error() string {
	var b strings.Builder
	if i.Name != "" {
		b.WriteString(i.Name)
	}
	if len(i.Path) > 0 {
		b.WriteString(".")
		b.WriteString(strings.Join(i.Path, "."))
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(string(i.Reason))
	if i.Detail != "" {
		b.WriteString(": ")
		b.WriteString(i.Detail)
	}
	if i.Direction != "" {
		b.WriteString(" (")
		b.WriteString(string(i.Direction))
		b.WriteString(")")
	}
	return b.String()
}

// CanRead reports whether data written with writer can be read with reader.
// It returns nil when it can.
func CanRead(reader, writer schema.Schema) *Incompatibility {
	c := &checker{active: make(map[namedPair]struct{})}
	return c.check(reader, writer, nil)
}

// namedPair identifies a (reader, writer) record pair on the current descent.
type namedPair struct {
	reader string
	writer string
}

type checker struct {
	// active holds the record pairs being compared further up the stack. A
	// pair met again is a cycle and is provisionally compatible.
	active map[namedPair]struct{}
}

func (c *checker) check(reader, writer schema.Schema, path []string) *Incompatibility {
	reader = schema.Deref(reader)
	writer = schema.Deref(writer)

	if w, ok := writer.(*schema.UnionSchema); ok {
		for _, branch := range w.Types {
			if inc := c.check(reader, branch, appendPath(path, branchLabel(branch))); inc != nil {
				return inc
			}
		}
		return nil
	}

	switch r := reader.(type) {
	case *schema.UnionSchema:
		for _, branch := range r.Types {
			if c.check(branch, writer, path) == nil {
				return nil
			}
		}
		return fail(path, TypeMismatch, "no branch of reader %s matches writer %s", schema.Describe(r), schema.Describe(writer))

	case *schema.PrimitiveSchema:
		w, ok := writer.(*schema.PrimitiveSchema)
		if !ok || !promotable(w.Kind, r.Kind) {
			return expected(path, r, writer)
		}
		return nil

	case *schema.ArraySchema:
		w, ok := writer.(*schema.ArraySchema)
		if !ok {
			return expected(path, r, writer)
		}
		return c.check(r.Items, w.Items, appendPath(path, "items"))

	case *schema.MapSchema:
		w, ok := writer.(*schema.MapSchema)
		if !ok {
			return expected(path, r, writer)
		}
		return c.check(r.Values, w.Values, appendPath(path, "values"))

	case *schema.FixedSchema:
		w, ok := writer.(*schema.FixedSchema)
		if !ok {
			return expected(path, r, writer)
		}
		if r.FullName() != w.FullName() {
			return expected(path, r, writer)
		}
		if r.Size != w.Size {
			return fail(path, TypeMismatch, "fixed %s has size %d, writer has size %d", r.FullName(), r.Size, w.Size)
		}
		return nil

	case *schema.EnumSchema:
		w, ok := writer.(*schema.EnumSchema)
		if !ok {
			return expected(path, r, writer)
		}
		if r.HasDefault {
			return nil
		}
		for _, sym := range w.Symbols {
			if !r.HasSymbol(sym) {
				return fail(path, UnknownEnumSymbol, "writer symbol %q is not in reader enum %s, which has no default", sym, r.FullName())
			}
		}
		return nil

	case *schema.RecordSchema:
		w, ok := writer.(*schema.RecordSchema)
		if !ok {
			return expected(path, r, writer)
		}
		return c.checkRecord(r, w, path)

	default:
		return fail(path, TypeMismatch, "unresolved reader schema %s", schema.Describe(reader))
	}
}

func (c *checker) checkRecord(r, w *schema.RecordSchema, path []string) *Incompatibility {
	key := namedPair{reader: r.FullName(), writer: w.FullName()}
	if _, ok := c.active[key]; ok {
		return nil
	}
	c.active[key] = struct{}{}
	defer delete(c.active, key)

	for _, rf := range r.Fields {
		wf := writerField(w, rf)
		if wf == nil {
			if rf.HasDefault {
				continue
			}
			return fail(appendPath(path, rf.Name), MissingField,
				"reader field %q has no default and writer %s does not provide it", rf.Name, w.FullName())
		}
		if inc := c.check(rf.Type, wf.Type, appendPath(path, rf.Name)); inc != nil {
			return inc
		}
	}
	return nil
}

// writerField finds the writer field matching a reader field by name, then
// by the reader field's aliases.
func writerField(w *schema.RecordSchema, rf *schema.Field) *schema.Field {
	if f := w.Field(rf.Name); f != nil {
		return f
	}
	for _, alias := range rf.Aliases {
		if f := w.Field(alias); f != nil {
			return f
		}
	}
	return nil
}

// promotable reports whether a writer primitive can be read as the reader
// primitive: identical kinds, int to long, float or double, long to float or
// double, float to double, and string to or from bytes.
func promotable(writer, reader schema.Type) bool {
	if writer == reader {
		return true
	}
	switch writer {
	case schema.Int:
		return reader == schema.Long || reader == schema.Float || reader == schema.Double
	case schema.Long:
		return reader == schema.Float || reader == schema.Double
	case schema.Float:
		return reader == schema.Double
	case schema.String:
		return reader == schema.Bytes
	case schema.Bytes:
		return reader == schema.String
	}
	return false
}

func branchLabel(s schema.Schema) string {
	return "<" + schema.Describe(schema.Deref(s)) + ">"
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func expected(path []string, reader, writer schema.Schema) *Incompatibility {
	return fail(path, TypeMismatch, "expected %s, writer has %s", schema.Describe(reader), schema.Describe(writer))
}

func fail(path []string, reason Reason, format string, args ...any) *Incompatibility {
	return &Incompatibility{Path: path, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
