package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStreamToken(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", true)
	svc := NewChatService(&memUserRepo{store: store}, "stream-secret")

	signed, err := svc.GetStreamToken(alice.ID)
	require.NoError(t, err)

	// The provider verifies the token against the shared secret and reads
	// the user id claim.
	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("stream-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, alice.ID, claims["user_id"])
	assert.Contains(t, claims, "iat")
}

func TestGetStreamTokenUnknownUser(t *testing.T) {
	store := newMemStore()
	svc := NewChatService(&memUserRepo{store: store}, "stream-secret")

	_, err := svc.GetStreamToken("missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
