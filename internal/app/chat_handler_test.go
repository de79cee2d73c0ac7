package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"streamify-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	token string
	err   error
}

func (s *stubChatService) GetStreamToken(userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func newChatTestRouter(svc service.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewChatHandler(svc, "public-api-key")

	r := gin.New()
	r.GET("/api/chat/token", func(c *gin.Context) {
		c.Set("userID", "test-user")
		c.Next()
	}, handler.GetStreamToken)
	return r
}

func TestGetStreamTokenResponse(t *testing.T) {
	router := newChatTestRouter(&stubChatService{token: "signed-token"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/token", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "signed-token", data["token"])
	assert.Equal(t, "public-api-key", data["apiKey"])
}

func TestGetStreamTokenUnknownUserStatus(t *testing.T) {
	router := newChatTestRouter(&stubChatService{
		err: fmt.Errorf("%w: user not found", service.ErrNotFound),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
