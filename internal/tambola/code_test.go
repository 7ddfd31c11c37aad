package tambola

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewJoinCode()
		require.Len(t, code, joinCodeLength)
		for _, r := range code {
			require.True(t, strings.ContainsRune(joinCodeAlphabet, r), "unexpected character %q", r)
		}
		seen[code] = true
	}

	// 32^6 codes; a hundred draws colliding down to a handful would mean
	// a broken generator.
	require.Greater(t, len(seen), 90)
}
