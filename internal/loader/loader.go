// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package loader collects schema documents from a filesystem.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dacolabs/avrodisiac/internal/schema"
)

// DefaultExtension is the extension of Avro schema files.
const DefaultExtension = "avsc"

// DefaultSkip lists the directory names skipped while walking.
var DefaultSkip = []string{".git"}

// Options controls which files a Loader collects.
type Options struct {
	// Extension selects files by extension, without the leading dot.
	Extension string
	// Skip lists directory names that are not descended into.
	Skip []string
}

// Loader loads schema documents from a filesystem.
type Loader struct {
	fsys fs.FS
	// base prefixes document sources so diagnostics show the caller's path.
	base string
	ext  string
	skip map[string]bool
}

// NewLoader creates a Loader that reads from the given filesystem. base is
// prepended to every document source.
func NewLoader(fsys fs.FS, base string, opts Options) *Loader {
	ext := strings.TrimPrefix(opts.Extension, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	skip := opts.Skip
	if skip == nil {
		skip = DefaultSkip
	}
	l := &Loader{fsys: fsys, base: base, ext: "." + ext, skip: make(map[string]bool, len(skip))}
	for _, name := range skip {
		l.skip[name] = true
	}
	return l
}

// Open returns a Loader for a path on disk, which may be a directory or a
// single file, together with the root to pass to Collect.
func Open(p string, opts Options) (*Loader, string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return NewLoader(os.DirFS(p), p, opts), ".", nil
	}
	dir := filepath.Dir(p)
	return NewLoader(os.DirFS(dir), dir, opts), filepath.Base(p), nil
}

// Collect walks root and returns every matching file as a document, in
// lexical path order. Directories named in the skip list, root included, are
// not descended into.
func (l *Loader) Collect(root string) ([]schema.Document, error) {
	var docs []schema.Document
	err := fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if l.skip[d.Name()] || (p == "." && l.skip[filepath.Base(l.base)]) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) != l.ext {
			return nil
		}
		if !d.Type().IsRegular() {
			ok, err := l.linksToFile(d, p)
			if err != nil || !ok {
				return err
			}
		}
		doc, err := l.load(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// linksToFile reports whether a symlink entry points at a regular file.
// Dangling links are skipped; links to directories are not followed.
func (l *Loader) linksToFile(d fs.DirEntry, p string) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := fs.Stat(l.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (l *Loader) load(p string) (schema.Document, error) {
	f, err := l.fsys.Open(p)
	if err != nil {
		return schema.Document{}, err
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return schema.Document{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return schema.Document{Source: l.source(p), Data: data}, nil
}

func (l *Loader) source(p string) string {
	if l.base == "" {
		return p
	}
	return filepath.Join(l.base, filepath.FromSlash(p))
}
