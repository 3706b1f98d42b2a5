// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema models Avro schemas, parses them from the Avro JSON grammar
// and resolves named types across a set of documents.
package schema

import "strings"

// Type is the kind of an Avro schema.
type Type string

// Schema kinds.
const (
	Null    Type = "null"
	Boolean Type = "boolean"
	Int     Type = "int"
	Long    Type = "long"
	Float   Type = "float"
	Double  Type = "double"
	Bytes   Type = "bytes"
	String  Type = "string"
	Fixed   Type = "fixed"
	Enum    Type = "enum"
	Array   Type = "array"
	Map     Type = "map"
	Union   Type = "union"
	Record  Type = "record"
	Ref     Type = "ref"
)

var primitives = map[string]Type{
	"null":    Null,
	"boolean": Boolean,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"bytes":   Bytes,
	"string":  String,
}

// IsPrimitive reports whether name is one of the Avro primitive type names.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// Schema is a node of a schema tree. The set of implementations is closed:
// *PrimitiveSchema, *FixedSchema, *EnumSchema, *ArraySchema, *MapSchema,
// *UnionSchema, *RecordSchema and *RefSchema.
type Schema interface {
	Type() Type
	sealed()
}

// NamedSchema is a schema identified by a fullname (record, enum or fixed).
type NamedSchema interface {
	Schema
	FullName() string
}

// LogicalType annotates a primitive or fixed schema.
type LogicalType struct {
	Name      string
	Precision int
	Scale     int
}

// PrimitiveSchema is one of the eight primitive types.
type PrimitiveSchema struct {
	Kind    Type
	Logical *LogicalType
}

// FixedSchema is a fixed-size byte sequence.
type FixedSchema struct {
	Name      string
	Namespace string
	Aliases   []string
	Doc       string
	Size      int
	Logical   *LogicalType
}

// EnumSchema is an ordered set of symbols.
type EnumSchema struct {
	Name       string
	Namespace  string
	Aliases    []string
	Doc        string
	Symbols    []string
	Default    string
	HasDefault bool
}

// ArraySchema is a sequence of Items.
type ArraySchema struct {
	Items Schema
}

// MapSchema maps string keys to Values.
type MapSchema struct {
	Values Schema
}

// UnionSchema is an ordered list of branches.
type UnionSchema struct {
	Types []Schema
}

// RecordSchema is an ordered list of fields.
type RecordSchema struct {
	Name      string
	Namespace string
	Aliases   []string
	Doc       string
	IsError   bool
	Fields    []*Field
}

// Order is the sort order of a record field.
type Order string

// Field sort orders.
const (
	Ascending  Order = "ascending"
	Descending Order = "descending"
	Ignore     Order = "ignore"
)

// Field is a single record field. Default holds the decoded JSON default
// (numbers as json.Number) and is only meaningful when HasDefault is set.
type Field struct {
	Name       string
	Doc        string
	Aliases    []string
	Type       Schema
	Default    any
	HasDefault bool
	Order      Order
}

// RefSchema points at a named type held by the registry. Name is the name as
// written in the document, FullName the name qualified by the enclosing
// namespace.
type RefSchema struct {
	Name     string
	FullName string
	target   NamedSchema
}

// Target returns the named type the reference was linked to, or nil before
// linking.
func (r *RefSchema) Target() NamedSchema { return r.target }

func (s *PrimitiveSchema) Type() Type { return s.Kind }
func (s *FixedSchema) Type() Type     { return Fixed }
func (s *EnumSchema) Type() Type      { return Enum }
func (s *ArraySchema) Type() Type     { return Array }
func (s *MapSchema) Type() Type       { return Map }
func (s *UnionSchema) Type() Type     { return Union }
func (s *RecordSchema) Type() Type    { return Record }
func (r *RefSchema) Type() Type       { return Ref }

func (*PrimitiveSchema) sealed() {}
func (*FixedSchema) sealed()     {}
func (*EnumSchema) sealed()      {}
func (*ArraySchema) sealed()     {}
func (*MapSchema) sealed()       {}
func (*UnionSchema) sealed()     {}
func (*RecordSchema) sealed()    {}
func (*RefSchema) sealed()       {}

// FullName returns the namespace-qualified name.
func (s *FixedSchema) FullName() string { return fullName(s.Namespace, s.Name) }

// FullName returns the namespace-qualified name.
func (s *EnumSchema) FullName() string { return fullName(s.Namespace, s.Name) }

// FullName returns the namespace-qualified name.
func (s *RecordSchema) FullName() string { return fullName(s.Namespace, s.Name) }

// Field returns the field called name, or nil.
func (s *RecordSchema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// HasSymbol reports whether sym is one of the enum symbols.
func (s *EnumSchema) HasSymbol(sym string) bool {
	for _, v := range s.Symbols {
		if v == sym {
			return true
		}
	}
	return false
}

// Deref follows a linked reference to its named type. Any other schema, and
// an unlinked reference, is returned unchanged.
func Deref(s Schema) Schema {
	if r, ok := s.(*RefSchema); ok && r.target != nil {
		return r.target
	}
	return s
}

// Describe returns a short human readable name for s: the fullname of named
// types, the kind otherwise.
func Describe(s Schema) string {
	switch s := s.(type) {
	case NamedSchema:
		return s.FullName()
	case *RefSchema:
		return s.FullName
	case *ArraySchema:
		return "array<" + Describe(s.Items) + ">"
	case *MapSchema:
		return "map<" + Describe(s.Values) + ">"
	case *UnionSchema:
		parts := make([]string, len(s.Types))
		for i, t := range s.Types {
			parts[i] = Describe(t)
		}
		return "union[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "<nil>"
	default:
		return string(s.Type())
	}
}

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
