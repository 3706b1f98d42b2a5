// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const rootPath = "$"

// declaration is a named type together with where it was declared.
type declaration struct {
	schema NamedSchema
	source string
	path   string
}

// reference is an unlinked RefSchema together with where it was written.
type reference struct {
	ref    *RefSchema
	source string
	path   string
}

// unionSite is a union holding at least one reference. Its branches are
// checked for duplicates again once the references are linked.
type unionSite struct {
	union  *UnionSchema
	source string
	path   string
}

// parser turns one document into a schema tree. Named types are declared in
// the order they are encountered; every use of a name becomes a RefSchema
// that is linked once all declarations of the set are known.
type parser struct {
	source string
	// strict makes a reference to a name not declared earlier in the same
	// document an ErrUnknownType, as single document parsing requires.
	strict bool

	names  map[string]NamedSchema
	decls  []declaration
	refs   []reference
	unions []unionSite
}

func newParser(source string, strict bool) *parser {
	return &parser{
		source: source,
		strict: strict,
		names:  make(map[string]NamedSchema),
	}
}

// Parse parses a single self-contained schema document. References must name
// a type declared earlier in the same document.
func Parse(document string) (Schema, error) {
	p := newParser("", true)
	root, err := p.parse([]byte(document))
	if err != nil {
		return nil, err
	}
	if _, err := build([]*parser{p}); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *parser) parse(data []byte) (Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, p.fail(ErrMalformedJSON, rootPath, "", err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, p.fail(ErrMalformedJSON, rootPath, "", "unexpected data after top-level value")
	}
	return p.parseType(v, "", rootPath)
}

func (p *parser) fail(kind error, path, name, detail string) error {
	return &ParseError{Kind: kind, Source: p.source, Path: path, Name: name, Detail: detail}
}

func (p *parser) parseType(v any, namespace, path string) (Schema, error) {
	switch t := v.(type) {
	case string:
		return p.parseName(t, namespace, path)
	case []any:
		return p.parseUnion(t, namespace, path)
	case map[string]any:
		return p.parseObject(t, namespace, path)
	default:
		return nil, p.fail(ErrInvalidSchema, path, "", fmt.Sprintf("type must be a string, object or array, got %s", jsonKind(v)))
	}
}

func (p *parser) parseName(name, namespace, path string) (Schema, error) {
	if t, ok := primitives[name]; ok {
		return &PrimitiveSchema{Kind: t}, nil
	}
	if err := validateFullName(name); err != nil {
		return nil, p.fail(ErrUnknownType, path, name, err.Error())
	}

	full := name
	if !strings.Contains(name, ".") {
		full = fullName(namespace, name)
	}
	if p.strict && p.names[full] == nil && p.names[name] == nil {
		return nil, p.fail(ErrUnknownType, path, name, "")
	}

	ref := &RefSchema{Name: name, FullName: full}
	p.refs = append(p.refs, reference{ref: ref, source: p.source, path: path})
	return ref, nil
}

func (p *parser) parseUnion(branches []any, namespace, path string) (Schema, error) {
	u := &UnionSchema{Types: make([]Schema, 0, len(branches))}
	seen := make(map[string]bool, len(branches))
	hasRef := false
	for i, b := range branches {
		bpath := fmt.Sprintf("%s[%d]", path, i)
		s, err := p.parseType(b, namespace, bpath)
		if err != nil {
			return nil, err
		}
		if s.Type() == Union {
			return nil, p.fail(ErrInvalidSchema, bpath, "", "unions may not immediately contain other unions")
		}
		key := unionKey(s)
		if seen[key] {
			return nil, p.fail(ErrInvalidSchema, bpath, "", fmt.Sprintf("duplicate %s in union", key))
		}
		seen[key] = true
		_, isRef := s.(*RefSchema)
		hasRef = hasRef || isRef
		u.Types = append(u.Types, s)
	}
	if hasRef {
		p.unions = append(p.unions, unionSite{union: u, source: p.source, path: path})
	}
	return u, nil
}

// checkLinkedUnion rejects a union whose references, once linked, name the
// same type as another branch.
func checkLinkedUnion(site unionSite) error {
	seen := make(map[string]bool, len(site.union.Types))
	for i, b := range site.union.Types {
		key := unionKey(Deref(b))
		if seen[key] {
			return &ParseError{
				Kind:   ErrInvalidSchema,
				Source: site.source,
				Path:   fmt.Sprintf("%s[%d]", site.path, i),
				Detail: fmt.Sprintf("duplicate %s in union", key),
			}
		}
		seen[key] = true
	}
	return nil
}

// unionKey identifies a union branch; a union may hold at most one branch of
// each unnamed kind and one branch per fullname.
func unionKey(s Schema) string {
	switch s := s.(type) {
	case NamedSchema:
		return s.FullName()
	case *RefSchema:
		return s.FullName
	default:
		return string(s.Type())
	}
}

func (p *parser) parseObject(m map[string]any, namespace, path string) (Schema, error) {
	raw, ok := m["type"]
	if !ok {
		return nil, p.fail(ErrInvalidSchema, path, "", "missing \"type\"")
	}
	typ, ok := raw.(string)
	if !ok {
		return p.parseType(raw, namespace, path+".type")
	}

	switch typ {
	case "record", "error":
		return p.parseRecord(m, typ == "error", namespace, path)
	case "enum":
		return p.parseEnum(m, namespace, path)
	case "fixed":
		return p.parseFixed(m, namespace, path)
	case "array":
		items, ok := m["items"]
		if !ok {
			return nil, p.fail(ErrInvalidSchema, path, "", "array is missing \"items\"")
		}
		s, err := p.parseType(items, namespace, path+".items")
		if err != nil {
			return nil, err
		}
		return &ArraySchema{Items: s}, nil
	case "map":
		values, ok := m["values"]
		if !ok {
			return nil, p.fail(ErrInvalidSchema, path, "", "map is missing \"values\"")
		}
		s, err := p.parseType(values, namespace, path+".values")
		if err != nil {
			return nil, err
		}
		return &MapSchema{Values: s}, nil
	}

	if t, ok := primitives[typ]; ok {
		logical, err := p.parseLogical(m, path)
		if err != nil {
			return nil, err
		}
		return &PrimitiveSchema{Kind: t, Logical: logical}, nil
	}
	return p.parseName(typ, namespace, path+".type")
}

// parseNames computes the name and namespace of a named type. A dotted name
// is a fullname; otherwise the "namespace" attribute applies, falling back to
// the namespace of the enclosing named type.
func (p *parser) parseNames(m map[string]any, enclosing, path string) (name, namespace string, aliases []string, err error) {
	rawName, ok := m["name"].(string)
	if !ok || rawName == "" {
		return "", "", nil, p.fail(ErrInvalidSchema, path, "", "named type is missing \"name\"")
	}

	namespace = enclosing
	if ns, ok := m["namespace"]; ok {
		switch ns := ns.(type) {
		case string:
			namespace = ns
		case nil:
			namespace = ""
		default:
			return "", "", nil, p.fail(ErrInvalidSchema, path, rawName, "\"namespace\" must be a string")
		}
	}
	name = rawName
	if i := strings.LastIndexByte(rawName, '.'); i >= 0 {
		namespace, name = rawName[:i], rawName[i+1:]
	}

	if err := validateName(name); err != nil {
		return "", "", nil, p.fail(ErrInvalidSchema, path, rawName, err.Error())
	}
	if namespace != "" {
		if err := validateFullName(namespace); err != nil {
			return "", "", nil, p.fail(ErrInvalidSchema, path, rawName, "namespace: "+err.Error())
		}
	}

	aliases, err = p.parseAliases(m, namespace, path)
	if err != nil {
		return "", "", nil, err
	}
	return name, namespace, aliases, nil
}

func (p *parser) parseAliases(m map[string]any, namespace, path string) ([]string, error) {
	raw, ok := m["aliases"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, p.fail(ErrInvalidSchema, path, "", "\"aliases\" must be an array of names")
	}
	aliases := make([]string, 0, len(list))
	for _, a := range list {
		s, ok := a.(string)
		if !ok {
			return nil, p.fail(ErrInvalidSchema, path, "", "\"aliases\" must be an array of names")
		}
		if err := validateFullName(s); err != nil {
			return nil, p.fail(ErrInvalidSchema, path, s, err.Error())
		}
		if !strings.Contains(s, ".") {
			s = fullName(namespace, s)
		}
		aliases = append(aliases, s)
	}
	return aliases, nil
}

func (p *parser) declare(s NamedSchema, path string) error {
	full := s.FullName()
	if IsPrimitive(full) {
		return p.fail(ErrInvalidSchema, path, full, "named type may not reuse a primitive type name")
	}
	if _, ok := p.names[full]; ok {
		return p.fail(ErrDuplicateName, path, full, "")
	}
	p.names[full] = s
	p.decls = append(p.decls, declaration{schema: s, source: p.source, path: path})
	return nil
}

func (p *parser) parseRecord(m map[string]any, isError bool, enclosing, path string) (Schema, error) {
	name, namespace, aliases, err := p.parseNames(m, enclosing, path)
	if err != nil {
		return nil, err
	}
	rec := &RecordSchema{
		Name:      name,
		Namespace: namespace,
		Aliases:   aliases,
		Doc:       stringAttr(m, "doc"),
		IsError:   isError,
	}
	// Declared before its fields so that fields may refer to the record itself.
	if err := p.declare(rec, path); err != nil {
		return nil, err
	}

	rawFields, ok := m["fields"].([]any)
	if !ok {
		return nil, p.fail(ErrInvalidSchema, path, rec.FullName(), "record \"fields\" must be an array")
	}
	rec.Fields = make([]*Field, 0, len(rawFields))
	seen := make(map[string]bool, len(rawFields))
	for i, raw := range rawFields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		f, err := p.parseField(raw, namespace, fpath)
		if err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, p.fail(ErrInvalidField, fpath, f.Name, "duplicate field name in "+rec.FullName())
		}
		seen[f.Name] = true
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

func (p *parser) parseField(raw any, namespace, path string) (*Field, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, p.fail(ErrInvalidField, path, "", "field must be an object")
	}
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return nil, p.fail(ErrInvalidField, path, "", "field is missing \"name\"")
	}
	if err := validateName(name); err != nil {
		return nil, p.fail(ErrInvalidField, path, name, err.Error())
	}
	rawType, ok := m["type"]
	if !ok {
		return nil, p.fail(ErrInvalidField, path, name, "field is missing \"type\"")
	}
	typ, err := p.parseType(rawType, namespace, path+".type")
	if err != nil {
		return nil, err
	}

	f := &Field{
		Name:  name,
		Doc:   stringAttr(m, "doc"),
		Type:  typ,
		Order: Ascending,
	}
	f.Default, f.HasDefault = m["default"]

	if rawOrder, ok := m["order"]; ok {
		order, _ := rawOrder.(string)
		switch Order(order) {
		case Ascending, Descending, Ignore:
			f.Order = Order(order)
		default:
			return nil, p.fail(ErrInvalidField, path, name, fmt.Sprintf("invalid order %v", rawOrder))
		}
	}

	if rawAliases, ok := m["aliases"]; ok {
		list, ok := rawAliases.([]any)
		if !ok {
			return nil, p.fail(ErrInvalidField, path, name, "\"aliases\" must be an array of names")
		}
		for _, a := range list {
			s, ok := a.(string)
			if !ok || validateName(s) != nil {
				return nil, p.fail(ErrInvalidField, path, name, fmt.Sprintf("invalid alias %v", a))
			}
			f.Aliases = append(f.Aliases, s)
		}
	}
	return f, nil
}

func (p *parser) parseEnum(m map[string]any, enclosing, path string) (Schema, error) {
	name, namespace, aliases, err := p.parseNames(m, enclosing, path)
	if err != nil {
		return nil, err
	}
	enum := &EnumSchema{
		Name:      name,
		Namespace: namespace,
		Aliases:   aliases,
		Doc:       stringAttr(m, "doc"),
	}

	rawSymbols, ok := m["symbols"].([]any)
	if !ok {
		return nil, p.fail(ErrInvalidSchema, path, enum.FullName(), "enum \"symbols\" must be an array")
	}
	seen := make(map[string]bool, len(rawSymbols))
	for _, raw := range rawSymbols {
		sym, ok := raw.(string)
		if !ok {
			return nil, p.fail(ErrInvalidSchema, path, enum.FullName(), fmt.Sprintf("symbol %v is not a string", raw))
		}
		if err := validateName(sym); err != nil {
			return nil, p.fail(ErrInvalidSchema, path, enum.FullName(), fmt.Sprintf("symbol %q: %v", sym, err))
		}
		if seen[sym] {
			return nil, p.fail(ErrInvalidSchema, path, enum.FullName(), fmt.Sprintf("duplicate symbol %q", sym))
		}
		seen[sym] = true
		enum.Symbols = append(enum.Symbols, sym)
	}

	if raw, ok := m["default"]; ok {
		def, ok := raw.(string)
		if !ok || !enum.HasSymbol(def) {
			return nil, p.fail(ErrInvalidSchema, path, enum.FullName(), fmt.Sprintf("default %v is not one of the symbols", raw))
		}
		enum.Default, enum.HasDefault = def, true
	}

	if err := p.declare(enum, path); err != nil {
		return nil, err
	}
	return enum, nil
}

func (p *parser) parseFixed(m map[string]any, enclosing, path string) (Schema, error) {
	name, namespace, aliases, err := p.parseNames(m, enclosing, path)
	if err != nil {
		return nil, err
	}
	fixed := &FixedSchema{
		Name:      name,
		Namespace: namespace,
		Aliases:   aliases,
		Doc:       stringAttr(m, "doc"),
	}

	size, ok := intAttr(m, "size")
	if !ok || size < 0 {
		return nil, p.fail(ErrInvalidSchema, path, fixed.FullName(), "fixed \"size\" must be a non-negative integer")
	}
	fixed.Size = size

	if fixed.Logical, err = p.parseLogical(m, path); err != nil {
		return nil, err
	}
	if err := p.declare(fixed, path); err != nil {
		return nil, err
	}
	return fixed, nil
}

func (p *parser) parseLogical(m map[string]any, path string) (*LogicalType, error) {
	raw, ok := m["logicalType"]
	if !ok {
		return nil, nil
	}
	name, ok := raw.(string)
	if !ok || name == "" {
		return nil, p.fail(ErrInvalidSchema, path, "", "\"logicalType\" must be a string")
	}
	lt := &LogicalType{Name: name}
	lt.Precision, _ = intAttr(m, "precision")
	lt.Scale, _ = intAttr(m, "scale")
	return lt, nil
}

func stringAttr(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intAttr(m map[string]any, key string) (int, bool) {
	n, ok := m[key].(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
