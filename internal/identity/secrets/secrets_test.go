package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tasquest/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	t.Run("matching password verifies", func(t *testing.T) {
		assert.NoError(t, Verify("secret1", hash))
	})

	t.Run("wrong password is invalid_credentials", func(t *testing.T) {
		err := Verify("secret2", hash)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	})

	t.Run("empty password cannot be hashed", func(t *testing.T) {
		_, err := Hash("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("password over 72 bytes is rejected", func(t *testing.T) {
		_, err := Hash(strings.Repeat("a", 73))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	})
}

func TestBurnVerify(t *testing.T) {
	err := BurnVerify("anything")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
}
