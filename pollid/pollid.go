// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// EntropyBytes is how much randomness goes into one identifier (256 bits)
	EntropyBytes = 32

	// Length is the hex length of an identifier (SHA-256 digest)
	Length = sha256.Size * 2
)

// Generate creates a new poll identifier from crypto/rand
func Generate() (string, error) {
	return GenerateFrom(rand.Reader)
}

// GenerateFrom hashes EntropyBytes read from src and returns the hex digest.
// It never retries; a short read or reader error is returned as is.
func GenerateFrom(src io.Reader) (string, error) {
	b := make([]byte, EntropyBytes)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", fmt.Errorf("failed to generate poll ID: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Valid reports whether s has the shape of a generated identifier
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
