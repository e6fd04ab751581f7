package shellsync

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// TopicID derives a stable identifier from a subject and topic name, so
// repeated synchronization runs over the same list never mint duplicate
// shells. Fields are lowercased and trimmed before hashing so cosmetic
// edits don't change identity.
func TopicID(subject, name string) string {
	normalize := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	sum := sha256.Sum256([]byte(normalize(subject) + "\x00" + normalize(name)))
	return fmt.Sprintf("%x", sum[:16])
}
