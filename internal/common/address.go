package common

import (
	"fmt"
	"regexp"
	"strings"
)

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// NormalizeAddress lowercases a hex account identifier so comparisons are
// case-insensitive. Returns an error for anything that is not a 20-byte hex
// address.
func NormalizeAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if !addressRegex.MatchString(trimmed) {
		return "", fmt.Errorf("invalid address %q", address)
	}
	return strings.ToLower(trimmed), nil
}

// SameAddress reports whether two hex account identifiers refer to the same
// account regardless of checksum casing.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
