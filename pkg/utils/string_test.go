package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := RandomCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			assert.Contains(t, codeCharset, string(ch))
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space colliding would indicate broken randomness.
	assert.Greater(t, len(seen), 95)
}

func TestRandomCodeZeroLength(t *testing.T) {
	code, err := RandomCode(0)
	require.NoError(t, err)
	assert.Empty(t, code)
}
