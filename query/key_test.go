package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyEqualityIsStructural(t *testing.T) {
	require.True(t, NewKey("doctors", "page=2").Equal(NewKey("doctors", "page=2")))
	require.False(t, NewKey("doctors", "page=2").Equal(NewKey("doctors", "page=3")))
	require.False(t, NewKey("doctors").Equal(NewKey("doctors", "")))
}

func TestKeySegmentsDoNotCollide(t *testing.T) {
	// ["doctors", "1"] and ["doctors1"] must address different entries.
	require.NotEqual(t, NewKey("doctors", "1").canonical(), NewKey("doctors1").canonical())
	require.NotEqual(t, NewKey("a", "b", "c").canonical(), NewKey("a", "b/c").canonical())
}

func TestKeyCanonicalRoundTrip(t *testing.T) {
	key := NewKey("blogs", "page=1&take=10", "draft")
	require.True(t, key.Equal(keyFromCanonical(key.canonical())))
}

func TestKeyHasPrefix(t *testing.T) {
	require.True(t, NewKey("doctors", "page=2").HasPrefix(NewKey("doctors")))
	require.True(t, NewKey("doctors").HasPrefix(NewKey("doctors")))
	require.False(t, NewKey("doctors").HasPrefix(NewKey("doctors", "page=2")))
	require.False(t, NewKey("blogs", "doctors").HasPrefix(NewKey("doctors")))
}
