package auth

import (
	"context"
	"testing"

	"farmrent/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAuthenticator(t *testing.T) {
	authenticator := NewStaticAuthenticator([]config.Credential{
		{Username: "farmer_mahesh", Password: "Mahesh@123", DisplayName: "Mahesh"},
		{Username: "farmer_anita", Password: "Anita@123"},
	})
	ctx := context.Background()

	t.Run("ValidCredentials", func(t *testing.T) {
		farmer, err := authenticator.Authenticate(ctx, "farmer_mahesh", "Mahesh@123")
		require.NoError(t, err)
		assert.Equal(t, "farmer_mahesh", farmer.Username)
		assert.Equal(t, "Mahesh", farmer.DisplayName)
	})

	t.Run("DisplayNameDefaultsToUsername", func(t *testing.T) {
		farmer, err := authenticator.Authenticate(ctx, "farmer_anita", "Anita@123")
		require.NoError(t, err)
		assert.Equal(t, "farmer_anita", farmer.DisplayName)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "farmer_mahesh", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "stranger", "Mahesh@123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
