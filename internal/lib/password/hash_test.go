package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("om-shanti-108")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "om-shanti-108", hash)

	assert.NoError(t, CompareHash(hash, "om-shanti-108"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestCompareHash_InvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "anything"))
}
