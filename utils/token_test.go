package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAccessToken(t *testing.T) {
	token := NewAccessToken()

	assert.Len(t, token, 32)
	assert.NotContains(t, token, "-")
}

func TestNewAccessToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		token := NewAccessToken()
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}
