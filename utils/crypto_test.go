package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(10)
		require.NoError(t, err)
		assert.Len(t, code, 10)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeCharset, c), "unexpected character %q", c)
		}
		seen[code] = true
	}
	// 36^10 possibilities, collisions in 50 draws would mean broken randomness
	assert.Len(t, seen, 50)
}

func TestGenerateCodeLengths(t *testing.T) {
	for _, length := range []int{8, 10} {
		code, err := GenerateCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
	}
}
