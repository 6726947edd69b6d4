// Package wadhash implements the 64-bit path hashing scheme used by WAD
// chunk tables: XXH64 with seed zero over the lowercased path. The game
// client hashes paths after lowercasing, so two renderings of the same
// path must produce the same chunk identity.
package wadhash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Hash returns the chunk-table hash for an asset path.
func Hash(path string) uint64 {
	return xxhash.Sum64String(strings.ToLower(path))
}

// HashHex is Hash formatted as a 16-digit lowercase hex string, the form
// chunk identities travel in throughout the extraction pipeline.
func HashHex(path string) string {
	return ToHex(Hash(path))
}

// ToHex formats h as exactly 16 lowercase hex digits.
func ToHex(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// FromHex parses a 16-digit hex hash. ToHex(FromHex(s)) round-trips
// exactly for any valid input after lowercasing.
func FromHex(s string) (uint64, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("wadhash: %q is not a 16-digit hex hash", s)
	}
	h, err := strconv.ParseUint(strings.ToLower(s), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("wadhash: %q is not a 16-digit hex hash", s)
	}
	return h, nil
}

// LooksLikeHash reports whether s is exactly 16 hex characters. Resolved
// chunk names fail this test, unresolved hex identities pass it.
func LooksLikeHash(s string) bool {
	if len(s) != 16 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
