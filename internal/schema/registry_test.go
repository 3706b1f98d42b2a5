// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRecordDoc = `{
		"type": "record", "name": "test", "namespace": "my.namespace",
		"fields": [
			{"name": "myField", "type": "int"},
			{"name": "nested", "type": "my.namespace.nested"}
		]
	}`
	nestedRecordDoc = `{
		"type": "record", "name": "nested", "namespace": "my.namespace",
		"fields": [{"name": "value", "type": "int"}]
	}`
)

func TestResolve_CrossDocumentReference(t *testing.T) {
	for _, order := range [][]string{
		{testRecordDoc, nestedRecordDoc},
		{nestedRecordDoc, testRecordDoc},
	} {
		reg, err := ResolveStrings(order...)
		require.NoError(t, err)

		assert.Equal(t, []string{"my.namespace.nested", "my.namespace.test"}, reg.Names())
		assert.Equal(t, 2, reg.Len())
		assert.Len(t, reg.Roots(), 2)

		test, ok := reg.Lookup("my.namespace.test")
		require.True(t, ok)
		nested, ok := reg.Lookup("my.namespace.nested")
		require.True(t, ok)

		ref := test.(*RecordSchema).Field("nested").Type.(*RefSchema)
		assert.Same(t, nested, ref.Target())
	}
}

func TestResolve_MutualRecursion(t *testing.T) {
	reg, err := ResolveStrings(
		`{"type": "record", "name": "A", "fields": [{"name": "b", "type": ["null", "B"], "default": null}]}`,
		`{"type": "record", "name": "B", "fields": [{"name": "a", "type": ["null", "A"], "default": null}]}`,
	)
	require.NoError(t, err)

	a, _ := reg.Lookup("A")
	b, _ := reg.Lookup("B")
	toB := a.(*RecordSchema).Fields[0].Type.(*UnionSchema).Types[1].(*RefSchema)
	toA := b.(*RecordSchema).Fields[0].Type.(*UnionSchema).Types[1].(*RefSchema)
	assert.Same(t, b, toB.Target())
	assert.Same(t, a, toA.Target())
}

func TestResolve_NullNamespaceFallback(t *testing.T) {
	reg, err := ResolveStrings(
		`{"type": "record", "name": "Outer", "namespace": "com.example", "fields": [{"name": "id", "type": "Id"}]}`,
		`{"type": "fixed", "name": "Id", "size": 16}`,
	)
	require.NoError(t, err)

	outer, _ := reg.Lookup("com.example.Outer")
	id, _ := reg.Lookup("Id")
	ref := outer.(*RecordSchema).Fields[0].Type.(*RefSchema)
	assert.Equal(t, "com.example.Id", ref.FullName)
	assert.Same(t, id, ref.Target())
}

func TestResolve_DefaultsCheckedAfterLinking(t *testing.T) {
	_, err := ResolveStrings(
		`{"type": "record", "name": "R", "fields": [{"name": "s", "type": "Suit", "default": "CLUBS"}]}`,
		`{"type": "enum", "name": "Suit", "symbols": ["SPADES", "CLUBS"]}`,
	)
	require.NoError(t, err)

	_, err = ResolveStrings(
		`{"type": "record", "name": "R", "fields": [{"name": "s", "type": "Suit", "default": "HEARTS"}]}`,
		`{"type": "enum", "name": "Suit", "symbols": ["SPADES", "CLUBS"]}`,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Contains(t, err.Error(), "document 1")
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name      string
		documents []string
		wantErr   error
		wantCount int
	}{
		{
			name:      "unresolved reference",
			documents: []string{`{"type": "record", "name": "R", "fields": [{"name": "x", "type": "Missing"}]}`},
			wantErr:   ErrUnresolvedReference,
			wantCount: 1,
		},
		{
			name:      "duplicate across documents",
			documents: []string{nestedRecordDoc, nestedRecordDoc},
			wantErr:   ErrDuplicateName,
			wantCount: 1,
		},
		{
			name:      "every malformed document reported",
			documents: []string{`{`, nestedRecordDoc, `[`},
			wantErr:   ErrMalformedJSON,
			wantCount: 2,
		},
		{
			name: "union branches naming the same type after linking",
			documents: []string{`{"type": "record", "name": "Outer", "namespace": "a", "fields": [
				{"name": "x", "type": ["Inner", {"type": "enum", "name": "Inner", "namespace": "", "symbols": ["A"]}]}
			]}`},
			wantErr:   ErrInvalidSchema,
			wantCount: 1,
		},
		{
			name:      "malformed document invalidates the set",
			documents: []string{testRecordDoc, `{"type": "record", "name": "nested", "namespace": "my.namespace", "fields": [`},
			wantErr:   ErrMalformedJSON,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := ResolveStrings(tt.documents...)
			require.Error(t, err)
			assert.Nil(t, reg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, Errors(err), tt.wantCount)
		})
	}
}

func TestResolve_DuplicateNamesSource(t *testing.T) {
	_, err := Resolve([]Document{
		{Source: "a.avsc", Data: []byte(nestedRecordDoc)},
		{Source: "b.avsc", Data: []byte(nestedRecordDoc)},
	})
	require.Error(t, err)

	errs := Errors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, `b.avsc: duplicate name "my.namespace.nested": already declared in a.avsc`, errs[0].Error())
}

func TestRegistry_Source(t *testing.T) {
	reg, err := Resolve([]Document{
		{Source: "test.avsc", Data: []byte(testRecordDoc)},
		{Source: "nested.avsc", Data: []byte(nestedRecordDoc)},
	})
	require.NoError(t, err)
	assert.Equal(t, "test.avsc", reg.Source("my.namespace.test"))
	assert.Equal(t, "nested.avsc", reg.Source("my.namespace.nested"))

	_, ok := reg.Lookup("absent")
	assert.False(t, ok)
}

func TestErrors(t *testing.T) {
	assert.Nil(t, Errors(nil))

	single := &ParseError{Kind: ErrUnknownType, Name: "x"}
	assert.Equal(t, []error{single}, Errors(single))
}
