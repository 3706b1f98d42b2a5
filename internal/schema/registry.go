// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Document is one raw schema document of a set.
type Document struct {
	// Source identifies the document in diagnostics, usually its file path.
	Source string
	Data   []byte
}

// Registry holds the named types of a resolved document set, keyed by
// fullname. References inside the set are linked to the registry's schemas,
// so recursive types become pointer cycles rather than copies.
type Registry struct {
	types map[string]declaration
	decls []declaration
	roots []Schema
}

// ResolveStrings resolves documents given as plain strings. Sources are
// reported as "document N".
func ResolveStrings(documents ...string) (*Registry, error) {
	docs := make([]Document, len(documents))
	for i, d := range documents {
		docs[i] = Document{Source: fmt.Sprintf("document %d", i+1), Data: []byte(d)}
	}
	return Resolve(docs)
}

// Resolve parses documents as one logical namespace. Every document is
// parsed first, so a document may refer to types declared by any other
// document regardless of order; references are linked once all declarations
// are known. Any failure invalidates the whole set; failures of individual
// documents are combined with errors.Join.
func Resolve(documents []Document) (*Registry, error) {
	parsers := make([]*parser, len(documents))
	roots := make([]Schema, len(documents))
	errs := make([]error, len(documents))

	var wg sync.WaitGroup
	for i, doc := range documents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parsers[i] = newParser(doc.Source, false)
			roots[i], errs[i] = parsers[i].parse(doc.Data)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	reg, err := build(parsers)
	if err != nil {
		return nil, err
	}
	reg.roots = roots
	return reg, nil
}

// build merges the declarations of parsers, links every reference, rechecks
// unions over the linked types and validates field defaults.
func build(parsers []*parser) (*Registry, error) {
	reg := &Registry{types: make(map[string]declaration)}

	var errs []error
	for _, p := range parsers {
		for _, d := range p.decls {
			full := d.schema.FullName()
			if prev, ok := reg.types[full]; ok {
				errs = append(errs, &ParseError{
					Kind:   ErrDuplicateName,
					Source: d.source,
					Path:   d.path,
					Name:   full,
					Detail: "already declared in " + describeSource(prev.source),
				})
				continue
			}
			reg.types[full] = d
			reg.decls = append(reg.decls, d)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, p := range parsers {
		for _, r := range p.refs {
			d, ok := reg.lookup(r.ref)
			if !ok {
				errs = append(errs, &ParseError{
					Kind:   ErrUnresolvedReference,
					Source: r.source,
					Path:   r.path,
					Name:   r.ref.FullName,
				})
				continue
			}
			r.ref.target = d.schema
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, p := range parsers {
		for _, site := range p.unions {
			if err := checkLinkedUnion(site); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, d := range reg.decls {
		rec, ok := d.schema.(*RecordSchema)
		if !ok {
			continue
		}
		for i, f := range rec.Fields {
			if !f.HasDefault {
				continue
			}
			if err := checkDefault(f.Type, f.Default); err != nil {
				errs = append(errs, &ParseError{
					Kind:   ErrInvalidField,
					Source: d.source,
					Path:   fmt.Sprintf("%s.fields[%d].default", d.path, i),
					Name:   f.Name,
					Detail: err.Error(),
				})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

// lookup finds the declaration a reference names. An unqualified name that
// is not declared in the enclosing namespace falls back to the null namespace.
func (r *Registry) lookup(ref *RefSchema) (declaration, bool) {
	if d, ok := r.types[ref.FullName]; ok {
		return d, true
	}
	if !strings.Contains(ref.Name, ".") {
		d, ok := r.types[ref.Name]
		return d, ok
	}
	return declaration{}, false
}

// Lookup returns the named type with the given fullname.
func (r *Registry) Lookup(fullname string) (NamedSchema, bool) {
	d, ok := r.types[fullname]
	if !ok {
		return nil, false
	}
	return d.schema, true
}

// Source returns the document that declared fullname.
func (r *Registry) Source(fullname string) string {
	return r.types[fullname].source
}

// Names returns the fullnames of all declared types, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of named types.
func (r *Registry) Len() int { return len(r.types) }

// Roots returns the top-level schema of every document, in document order.
func (r *Registry) Roots() []Schema { return r.roots }

func describeSource(source string) string {
	if source == "" {
		return "the same document"
	}
	return source
}
