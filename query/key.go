package query

import "strings"

// keySep joins key segments into the canonical map form. The unit separator
// never appears in resource names, ids, or encoded query strings.
const keySep = "\x1f"

// Key identifies a cached read as an ordered tuple of string segments,
// e.g. ["doctors", "page=2&take=10"] or ["doctors", "68f2..."].
// Equality is structural: two keys with equal segments address the same
// cache entry regardless of where they were built.
type Key []string

// NewKey builds a key from its segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

func (k Key) canonical() string {
	return strings.Join(k, keySep)
}

func keyFromCanonical(canonical string) Key {
	return Key(strings.Split(canonical, keySep))
}

// String renders the key for logs and errors.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// Equal reports structural equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading sub-tuple of k. Used by
// invalidation: invalidating ["doctors"] covers every doctors list page and
// detail entry.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}
