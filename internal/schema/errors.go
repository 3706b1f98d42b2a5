// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedJSON indicates a document is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrUnknownType indicates a type name that is neither primitive nor declared.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidField indicates a record field without a name or with a bad default.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidSchema indicates a structurally invalid type definition.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrDuplicateName indicates two declarations share a fullname.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnresolvedReference indicates a reference to a fullname no document declares.
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// ParseError locates a parse-time failure inside a document set.
type ParseError struct {
	// Kind is one of the Err* sentinels of this package.
	Kind error
	// Source identifies the document, usually its file path.
	Source string
	// Path is the JSON path of the offending node, e.g. $.fields[1].type.
	Path string
	// Name is the fullname or field name involved, when there is one.
	Name   string
	Detail string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Name != "" {
		b.WriteString(" \"")
		b.WriteString(e.Name)
		b.WriteString("\"")
	}
	if e.Path != "" && e.Path != rootPath {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Errors flattens err into its individual failures. Resolve reports every
// failing document of a set at once through errors.Join.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	return []error{err}
}
