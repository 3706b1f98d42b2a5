// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package fingerprint computes Parsing Canonical Form fingerprints of the
// named types of a resolved document set.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dacolabs/avrodisiac/internal/schema"
	"github.com/hamba/avro/v2"
)

// Algorithm is a fingerprinting algorithm.
type Algorithm string

// Supported algorithms.
const (
	CRC64  Algorithm = "crc64"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

// Algorithms returns the accepted algorithm names.
func Algorithms() []string {
	return []string{string(CRC64), string(MD5), string(SHA256)}
}

// ParseAlgorithm parses an algorithm name, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(s)); a {
	case CRC64, MD5, SHA256:
		return a, nil
	default:
		return "", fmt.Errorf("unknown fingerprint algorithm %q (available: %s)", s, strings.Join(Algorithms(), ", "))
	}
}

func (a Algorithm) avroType() avro.FingerprintType {
	switch a {
	case MD5:
		return avro.MD5
	case SHA256:
		return avro.SHA256
	default:
		return avro.CRC64Avro
	}
}

// Fingerprint is the fingerprint of one named type.
type Fingerprint struct {
	Name      string
	Canonical string
	Sum       []byte
}

// Hex returns the fingerprint as a lowercase hex string.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f.Sum)
}

// Compute fingerprints every named type of reg, sorted by fullname. Each type
// is encoded as a standalone document, so the fingerprint covers the types it
// depends on.
func Compute(reg *schema.Registry, alg Algorithm) ([]Fingerprint, error) {
	names := reg.Names()
	out := make([]Fingerprint, 0, len(names))
	for _, name := range names {
		data, err := reg.Encode(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		// A private cache keeps names from leaking between documents.
		parsed, err := avro.ParseWithCache(string(data), "", &avro.SchemaCache{})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sum, err := parsed.FingerprintUsing(alg.avroType())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, Fingerprint{Name: name, Canonical: parsed.String(), Sum: sum})
	}
	return out, nil
}
