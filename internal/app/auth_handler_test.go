package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamify-backend/internal/model"
	"streamify-backend/internal/service"
	"streamify-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type stubAuthService struct {
	signupErr error
	loginErr  error
	resp      *service.AuthResponse
	user      *model.User
}

func (s *stubAuthService) Signup(req service.SignupRequest) (*service.AuthResponse, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return s.resp, nil
}

func (s *stubAuthService) Login(req service.LoginRequest) (*service.AuthResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.resp, nil
}

func (s *stubAuthService) Onboard(userID string, req service.OnboardRequest) (*model.User, error) {
	return s.user, nil
}

func (s *stubAuthService) SetProfilePic(userID, url string) (*model.User, error) {
	return s.user, nil
}

func (s *stubAuthService) GetMe(userID string) (*model.User, error) {
	if s.user == nil {
		return nil, fmt.Errorf("%w: user not found", service.ErrNotFound)
	}
	return s.user, nil
}

func newAuthTestRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(svc, nil, testJWTSecret, time.Hour)

	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", handler.AuthMiddleware(), handler.GetMe)
	}
	return r
}

func TestSignupSetsSessionCookie(t *testing.T) {
	user := &model.User{ID: "u1", FullName: "Alice", Email: "alice@example.com"}
	router := newAuthTestRouter(&stubAuthService{
		resp: &service.AuthResponse{Token: "issued-token", User: user},
	})

	payload, _ := json.Marshal(map[string]string{
		"fullName": "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "issued-token", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestSignupValidation(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{})

	// Password below the minimum length fails binding before the service
	// is reached.
	payload, _ := json.Marshal(map[string]string{
		"fullName": "Alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupConflict(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{
		signupErr: fmt.Errorf("%w: email already exists", service.ErrConflict),
	})

	payload, _ := json.Marshal(map[string]string{
		"fullName": "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginUnauthorized(t *testing.T) {
	router := newAuthTestRouter(&stubAuthService{
		loginErr: fmt.Errorf("%w: invalid email or password", service.ErrUnauthorized),
	})

	payload, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	user := &model.User{ID: "u1", FullName: "Alice", Email: "alice@example.com"}
	router := newAuthTestRouter(&stubAuthService{user: user})

	token, err := util.GenerateToken("u1", "alice@example.com", testJWTSecret, time.Hour)
	require.NoError(t, err)

	t.Run("no credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
