// Package ident allocates prefixed identifiers for new entities.
// Callers never supply their own ids.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

const suffixLen = 8

// New returns prefix + "-" + 8 hex characters of a fresh UUID,
// e.g. "prod-1a2b3c4d". Entropy of 4 random bytes is enough to make
// collisions a defensive concern rather than a practical one; the storage
// layer still rejects duplicates.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return prefix + "-" + suffix
}
