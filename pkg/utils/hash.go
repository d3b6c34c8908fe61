package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText creates a SHA256 hash of a string.
// This is useful for creating consistent, safe keys for Redis and file names.
func HashText(text string) string {
	h := sha256.New()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// HashShort returns the first size hex characters of the SHA256 of input.
func HashShort(input string, size int) string {
	sum := HashText(input)
	if size <= 0 || size > len(sum) {
		return sum
	}
	return sum[:size]
}

// SplitCSV splits a comma separated list, dropping blanks and duplicates while
// keeping the first-seen order.
func SplitCSV(value string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
