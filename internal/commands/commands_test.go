// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dacolabs/avrodisiac/internal/config"
	"github.com/dacolabs/avrodisiac/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd := NewRootCmd("")
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func testRecord(fields string) string {
	return fmt.Sprintf(`{"type": "record", "name": "test", "namespace": "my.namespace", "fields": [%s]}`, fields)
}

const nestedRecord = `{"type": "record", "name": "nested", "namespace": "my.namespace", "fields": [{"name": "value", "type": "int"}]}`

func TestLint(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr bool
		want    []string
	}{
		{
			name: "valid set",
			files: map[string]string{
				"test.avsc":        testRecord(`{"name": "myField", "type": "int"}, {"name": "inner", "type": "nested"}`),
				"sub/nested.avsc":  nestedRecord,
				"notes/readme.txt": "not a schema {",
			},
			want: []string{"Documents:", "2", "Named types:", "All schemas are valid"},
		},
		{
			name: "malformed document",
			files: map[string]string{
				"good.avsc": nestedRecord,
				"bad.avsc":  `{"type": "record",`,
			},
			wantErr: true,
			want:    []string{"bad.avsc", "malformed JSON", "Found 1 errors."},
		},
		{
			name: "every failing document reported",
			files: map[string]string{
				"a.avsc": `{`,
				"b.avsc": `{"type": "fixed", "name": "F"}`,
				"c.avsc": `[`,
			},
			wantErr: true,
			want:    []string{"a.avsc", "b.avsc", "invalid schema \"F\"", "c.avsc", "Found 3 errors."},
		},
		{
			name: "git directory skipped",
			files: map[string]string{
				"nested.avsc":        nestedRecord,
				".git/broken.avsc":   `{`,
				"sub/.git/more.avsc": `{`,
			},
			want: []string{"All schemas are valid"},
		},
		{
			name: "unresolved reference",
			files: map[string]string{
				"test.avsc": testRecord(`{"name": "inner", "type": "missing"}`),
			},
			wantErr: true,
			want:    []string{"test.avsc", `unresolved reference "my.namespace.missing"`, "Found 1 errors."},
		},
		{
			name: "duplicate name across files",
			files: map[string]string{
				"a.avsc": nestedRecord,
				"b.avsc": nestedRecord,
			},
			wantErr: true,
			want:    []string{"duplicate name", "Found 1 errors."},
		},
		{
			name: "invalid default",
			files: map[string]string{
				"test.avsc": testRecord(`{"name": "myField", "type": "int", "default": null}`),
			},
			wantErr: true,
			want:    []string{"invalid field \"myField\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			out, err := execute(t, "lint", dir)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err, out)
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestLint_SingleFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"nested.avsc": nestedRecord, "other.avsc": `{`})
	out, err := execute(t, "lint", filepath.Join(dir, "nested.avsc"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "All schemas are valid")
}

func TestLint_MissingPath(t *testing.T) {
	_, err := execute(t, "lint", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestLint_RequiresPath(t *testing.T) {
	_, err := execute(t, "lint")
	require.Error(t, err)
}

func TestCompat(t *testing.T) {
	withNested := `{"name": "myField", "type": "int"}, {"name": "inner", "type": "my.namespace.nested"}`
	nestedString := strings.Replace(nestedRecord, `"type": "int"`, `"type": "string"`, 1)

	tests := []struct {
		name    string
		old     map[string]string
		new     map[string]string
		args    []string
		wantErr error
		want    []string
	}{
		{
			name:    "scenario A",
			old:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)},
			new:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}, {"name": "myOtherField", "type": "int", "default": 1}`)},
			args:    []string{"--mutual"},
			want:    []string{"Schemas are compatible", "mutual"},
			wantErr: nil,
		},
		{
			name:    "scenario B",
			old:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)},
			new:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "string"}, {"name": "myOtherField", "type": "int", "default": 1}`)},
			args:    []string{"--mutual"},
			wantErr: errIncompatible,
			want:    []string{"my.namespace.test.myField: type mismatch", "Found 1 incompatible schema(s)."},
		},
		{
			name:    "scenario C",
			old:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "long"}`)},
			new:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)},
			wantErr: errIncompatible,
			want:    []string{"expected int, writer has long", "(new reads old)"},
		},
		{
			name: "scenario D compatible",
			old:  map[string]string{"test.avsc": testRecord(withNested), "nested.avsc": nestedRecord},
			new: map[string]string{
				"nested.avsc": nestedRecord,
				"test.avsc":   testRecord(withNested + `, {"name": "extra", "type": "string", "default": ""}`),
			},
			args: []string{"--mutual"},
			want: []string{"Schemas are compatible", "Compared:"},
		},
		{
			name:    "scenario D nested type changed",
			old:     map[string]string{"test.avsc": testRecord(withNested), "nested.avsc": nestedRecord},
			new:     map[string]string{"test.avsc": testRecord(withNested), "nested.avsc": nestedString},
			args:    []string{"--mutual"},
			wantErr: errIncompatible,
			want:    []string{"my.namespace.nested.value: type mismatch", "my.namespace.test.inner.value: type mismatch"},
		},
		{
			name:    "removed schema",
			old:     map[string]string{"test.avsc": testRecord(withNested), "nested.avsc": nestedRecord},
			new:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)},
			wantErr: errIncompatible,
			want:    []string{"my.namespace.nested: schema removed"},
		},
		{
			name:    "forward mode",
			old:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)},
			new:     map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "long"}`)},
			args:    []string{"--mode", "forward"},
			wantErr: errIncompatible,
			want:    []string{"(old reads new)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldDir := writeFiles(t, tt.old)
			newDir := writeFiles(t, tt.new)
			out, err := execute(t, append([]string{"compat", oldDir, newDir}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err, out)
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestCompat_ParseFailure(t *testing.T) {
	oldDir := writeFiles(t, map[string]string{"test.avsc": nestedRecord})
	newDir := writeFiles(t, map[string]string{"test.avsc": `{"type": "record"`})

	out, err := execute(t, "compat", oldDir, newDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't parse schemas")
	assert.Contains(t, out, "new ")
	assert.Contains(t, out, "malformed JSON")
}

func TestCompat_ConflictingFlags(t *testing.T) {
	dir := writeFiles(t, map[string]string{"test.avsc": nestedRecord})
	_, err := execute(t, "compat", dir, dir, "--mutual", "--mode", "forward")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = execute(t, "compat", dir, dir, "--mode", "sideways")
	require.Error(t, err)
}

func TestCompat_ModeFromConfig(t *testing.T) {
	oldDir := writeFiles(t, map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "int"}`)})
	newDir := writeFiles(t, map[string]string{"test.avsc": testRecord(`{"name": "myField", "type": "long"}`)})

	out, err := execute(t, "compat", oldDir, newDir)
	require.NoError(t, err, out)

	cfg := config.Default()
	cfg.Compat.Mode = "mutual"
	cfgPath := filepath.Join(t.TempDir(), "avrodisiac.yaml")
	require.NoError(t, cfg.Save(cfgPath))

	out, err = execute(t, "--config", cfgPath, "compat", oldDir, newDir)
	assert.ErrorIs(t, err, errIncompatible)
	assert.Contains(t, out, "(old reads new)")

	out, err = execute(t, "--config", cfgPath, "compat", oldDir, newDir, "--mode", "backward")
	require.NoError(t, err, out)
}

func TestCompat_MissingConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{"test.avsc": nestedRecord})
	_, err := execute(t, "--config", filepath.Join(dir, "nope.yaml"), "compat", dir, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFingerprint(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"test.avsc":   testRecord(`{"name": "myField", "type": "int"}, {"name": "inner", "type": "nested"}`),
		"nested.avsc": nestedRecord,
	})

	out, err := execute(t, "fingerprint", dir)
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "  my.namespace.nested"))
	assert.True(t, strings.HasSuffix(lines[1], "  my.namespace.test"))
	assert.Len(t, strings.Fields(lines[0])[0], 16)

	out, err = execute(t, "fingerprint", dir, "--algorithm", "sha256", "--canonical")
	require.NoError(t, err, out)
	assert.Contains(t, out, `{"name":"my.namespace.nested"`)

	_, err = execute(t, "fingerprint", dir, "--algorithm", "sha1")
	require.Error(t, err)
}

func TestFingerprint_InvalidSet(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.avsc": `{`})
	out, err := execute(t, "fingerprint", dir)
	require.Error(t, err)
	assert.Contains(t, out, "bad.avsc")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "avrodisiac version")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	out, err := execute(t, "init", "--non-interactive", "--mode", "mutual", "--fail-fast")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialization completed")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "mutual", cfg.Compat.Mode)
	assert.True(t, cfg.Compat.FailFast)
	assert.Equal(t, "avsc", cfg.Extension)

	_, err = execute(t, "init", "--non-interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	_, err = execute(t, "init", "--non-interactive", "--mode", "sideways")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, config.FileName))
	assert.True(t, os.IsNotExist(statErr))
}
