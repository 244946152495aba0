package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter42")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter42", hash)

	assert.True(t, CompareHashAndPassword(hash, "hunter42"))
	assert.False(t, CompareHashAndPassword(hash, "hunter43"))
	assert.False(t, CompareHashAndPassword("", "hunter42"))
}
