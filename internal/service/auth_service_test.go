package service

import (
	"strings"
	"testing"
	"time"

	"streamify-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*memStore, AuthService) {
	store := newMemStore()
	svc := NewAuthService(&memUserRepo{store: store}, "test-secret", time.Hour)
	return store, svc
}

func TestSignupCreatesAccount(t *testing.T) {
	_, svc := newAuthFixture()

	resp, err := svc.Signup(SignupRequest{
		FullName: "Alice Smith",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice Smith", resp.User.FullName)
	assert.False(t, resp.User.IsOnboarded)
	assert.True(t, strings.HasPrefix(resp.User.ProfilePic, "https://avatar.iran.liara.run/public/"))
	assert.NotEqual(t, "password123", resp.User.PasswordHash)

	claims, err := util.ValidateToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Signup(SignupRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Signup(SignupRequest{
		FullName: "Other Alice",
		Email:    "alice@example.com",
		Password: "different456",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Signup(SignupRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOnboard(t *testing.T) {
	_, svc := newAuthFixture()

	signup, err := svc.Signup(SignupRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	originalPic := signup.User.ProfilePic

	user, err := svc.Onboard(signup.User.ID, OnboardRequest{
		FullName:         "Alice Smith",
		Bio:              "Learning Spanish",
		NativeLanguage:   "english",
		LearningLanguage: "spanish",
		Location:         "London, UK",
	})
	require.NoError(t, err)

	assert.True(t, user.IsOnboarded)
	assert.Equal(t, "Alice Smith", user.FullName)
	assert.Equal(t, "spanish", user.LearningLanguage)
	// Empty profilePic in the request keeps the assigned avatar.
	assert.Equal(t, originalPic, user.ProfilePic)

	me, err := svc.GetMe(signup.User.ID)
	require.NoError(t, err)
	assert.True(t, me.IsOnboarded)
}

func TestOnboardUnknownUser(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Onboard("missing-id", OnboardRequest{
		FullName:         "A",
		Bio:              "b",
		NativeLanguage:   "c",
		LearningLanguage: "d",
		Location:         "e",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetProfilePic(t *testing.T) {
	_, svc := newAuthFixture()

	signup, err := svc.Signup(SignupRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := svc.SetProfilePic(signup.User.ID, "https://cdn.example.com/pic.webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pic.webp", user.ProfilePic)
}
