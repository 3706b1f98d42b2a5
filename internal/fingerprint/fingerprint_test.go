// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package fingerprint

import (
	"testing"

	"github.com/dacolabs/avrodisiac/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	reg, err := schema.ResolveStrings(
		`{"type": "record", "name": "test", "namespace": "my.namespace", "doc": "ignored",
		  "fields": [{"name": "myField", "type": "int"}, {"name": "inner", "type": "nested"}]}`,
		`{"type": "record", "name": "nested", "namespace": "my.namespace", "fields": [{"name": "value", "type": "int"}]}`,
	)
	require.NoError(t, err)

	tests := []struct {
		alg     Algorithm
		sumSize int
	}{
		{CRC64, 8},
		{MD5, 16},
		{SHA256, 32},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			fps, err := Compute(reg, tt.alg)
			require.NoError(t, err)
			require.Len(t, fps, 2)

			assert.Equal(t, "my.namespace.nested", fps[0].Name)
			assert.Equal(t, "my.namespace.test", fps[1].Name)
			assert.Len(t, fps[0].Sum, tt.sumSize)
			assert.Len(t, fps[0].Hex(), tt.sumSize*2)
			assert.NotEqual(t, fps[0].Hex(), fps[1].Hex())
			assert.NotContains(t, fps[1].Canonical, "ignored")
			assert.Contains(t, fps[1].Canonical, "my.namespace.nested")
		})
	}
}

func TestCompute_DocDoesNotChangeFingerprint(t *testing.T) {
	plain, err := schema.ResolveStrings(`{"type": "enum", "name": "E", "symbols": ["A", "B"]}`)
	require.NoError(t, err)
	documented, err := schema.ResolveStrings(`{"type": "enum", "name": "E", "doc": "letters", "symbols": ["A", "B"]}`)
	require.NoError(t, err)
	reordered, err := schema.ResolveStrings(`{"type": "enum", "name": "E", "symbols": ["B", "A"]}`)
	require.NoError(t, err)

	a, err := Compute(plain, CRC64)
	require.NoError(t, err)
	b, err := Compute(documented, CRC64)
	require.NoError(t, err)
	c, err := Compute(reordered, CRC64)
	require.NoError(t, err)

	assert.Equal(t, a[0].Hex(), b[0].Hex())
	assert.NotEqual(t, a[0].Hex(), c[0].Hex())
}

func TestCompute_RecursiveType(t *testing.T) {
	reg, err := schema.ResolveStrings(`{"type": "record", "name": "List", "fields": [
		{"name": "value", "type": "int"},
		{"name": "next", "type": ["null", "List"], "default": null}
	]}`)
	require.NoError(t, err)

	fps, err := Compute(reg, SHA256)
	require.NoError(t, err)
	require.Len(t, fps, 1)
	assert.Equal(t, "List", fps[0].Name)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("SHA256")
	require.NoError(t, err)
	assert.Equal(t, SHA256, alg)

	_, err = ParseAlgorithm("sha1")
	assert.ErrorContains(t, err, "crc64, md5, sha256")
}
