package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"streamify-backend/internal/model"
	"streamify-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSocialService returns canned results so the handlers' status-code
// mapping can be tested without a database.
type stubSocialService struct {
	sendErr   error
	acceptErr error
	request   *model.FriendRequest
	view      *service.FriendRequestsView
}

func (s *stubSocialService) GetRecommendedUsers(userID string) ([]model.User, error) {
	return []model.User{}, nil
}

func (s *stubSocialService) GetFriends(userID string) ([]*model.User, error) {
	return []*model.User{}, nil
}

func (s *stubSocialService) SendFriendRequest(senderID, recipientID string) (*model.FriendRequest, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return s.request, nil
}

func (s *stubSocialService) AcceptFriendRequest(requestID, userID string) (*model.FriendRequest, error) {
	if s.acceptErr != nil {
		return nil, s.acceptErr
	}
	return s.request, nil
}

func (s *stubSocialService) GetFriendRequests(userID string) (*service.FriendRequestsView, error) {
	return s.view, nil
}

func (s *stubSocialService) GetOutgoingFriendRequests(userID string) ([]*model.FriendRequest, error) {
	return []*model.FriendRequest{}, nil
}

func newUserTestRouter(svc service.SocialService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(svc)

	r := gin.New()
	authed := r.Group("/api/users")
	authed.Use(func(c *gin.Context) {
		c.Set("userID", "test-user")
		c.Next()
	})
	{
		authed.GET("", handler.GetRecommendedUsers)
		authed.GET("/friends", handler.GetFriends)
		authed.GET("/friend-requests", handler.GetFriendRequests)
		authed.POST("/friend-request/:id", handler.SendFriendRequest)
		authed.PUT("/friend-request/:id/accept", handler.AcceptFriendRequest)
	}
	return r
}

func TestSendFriendRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"self request", fmt.Errorf("%w: you can't send a friend request to yourself", service.ErrInvalidOperation), http.StatusBadRequest},
		{"unknown recipient", fmt.Errorf("%w: recipient not found", service.ErrNotFound), http.StatusNotFound},
		{"duplicate request", fmt.Errorf("%w: a friend request already exists", service.ErrConflict), http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newUserTestRouter(&stubSocialService{sendErr: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/users/friend-request/other-user", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestSendFriendRequestCreated(t *testing.T) {
	router := newUserTestRouter(&stubSocialService{
		request: &model.FriendRequest{
			ID:          "req-1",
			SenderID:    "test-user",
			RecipientID: "other-user",
			Status:      model.FriendRequestStatusPending,
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/friend-request/other-user", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	fr := data["friendRequest"].(map[string]interface{})
	assert.Equal(t, "pending", fr["status"])
}

func TestAcceptFriendRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not recipient", fmt.Errorf("%w: you are not authorized to accept this request", service.ErrForbidden), http.StatusForbidden},
		{"already accepted", fmt.Errorf("%w: friend request has already been accepted", service.ErrInvalidOperation), http.StatusBadRequest},
		{"unknown request", fmt.Errorf("%w: friend request not found", service.ErrNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newUserTestRouter(&stubSocialService{acceptErr: tc.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/users/friend-request/req-1/accept", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestGetFriendRequestsResponseShape(t *testing.T) {
	router := newUserTestRouter(&stubSocialService{
		view: &service.FriendRequestsView{
			IncomingReqs: []*model.FriendRequest{},
			AcceptedReqs: []*model.FriendRequest{},
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/friend-requests", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	assert.Contains(t, data, "incomingReqs")
	assert.Contains(t, data, "acceptedReqs")
}

func TestGetFriendsEmptyList(t *testing.T) {
	router := newUserTestRouter(&stubSocialService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/friends", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]interface{})
	friends, ok := data["friends"].([]interface{})
	require.True(t, ok, "friends must be a JSON array, not null")
	assert.Empty(t, friends)
}
