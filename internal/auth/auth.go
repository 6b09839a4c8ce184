// Package auth verifies farmer credentials. The marketplace keeps a
// small roster of demo accounts in the config file; swapping in a real
// identity provider only needs another Authenticator implementation.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"farmrent/internal/config"
	"farmrent/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// StaticAuthenticator checks credentials against the configured roster.
type StaticAuthenticator struct {
	credentials map[string]config.Credential
}

func NewStaticAuthenticator(creds []config.Credential) *StaticAuthenticator {
	byUsername := make(map[string]config.Credential, len(creds))
	for _, cred := range creds {
		byUsername[cred.Username] = cred
	}
	return &StaticAuthenticator{credentials: byUsername}
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.Farmer, error) {
	cred, ok := a.credentials[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	displayName := cred.DisplayName
	if displayName == "" {
		displayName = cred.Username
	}
	return &models.Farmer{Username: cred.Username, DisplayName: displayName}, nil
}
