package app

import (
	"net/http"

	"streamify-backend/internal/service"
	"streamify-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	socialService service.SocialService
}

func NewUserHandler(socialService service.SocialService) *UserHandler {
	return &UserHandler{
		socialService: socialService,
	}
}

// GetRecommendedUsers lists potential language partners: onboarded
// users who are neither the caller nor already friends with them
// GET /api/users
func (h *UserHandler) GetRecommendedUsers(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	users, err := h.socialService.GetRecommendedUsers(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Recommended users retrieved successfully", gin.H{"users": users})
}

// GetFriends lists the caller's friends
// GET /api/users/friends
func (h *UserHandler) GetFriends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	friends, err := h.socialService.GetFriends(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friends retrieved successfully", gin.H{"friends": friends})
}

// SendFriendRequest sends a request to the user in the path
// POST /api/users/friend-request/:id
func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	recipientID := c.Param("id")
	if recipientID == "" {
		util.BadRequest(c, "Recipient ID is required")
		return
	}

	request, err := h.socialService.SendFriendRequest(userID.(string), recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Friend request sent successfully", gin.H{"friendRequest": request})
}

// AcceptFriendRequest accepts the request in the path; only its
// recipient may do this
// PUT /api/users/friend-request/:id/accept
func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		util.BadRequest(c, "Request ID is required")
		return
	}

	request, err := h.socialService.AcceptFriendRequest(requestID, userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request accepted successfully", gin.H{"friendRequest": request})
}

// GetFriendRequests returns the caller's received requests partitioned
// into pending and accepted
// GET /api/users/friend-requests
func (h *UserHandler) GetFriendRequests(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.socialService.GetFriendRequests(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend requests retrieved successfully", view)
}

// GetOutgoingFriendRequests returns the caller's pending sent requests
// GET /api/users/outgoing-friend-requests
func (h *UserHandler) GetOutgoingFriendRequests(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	outgoing, err := h.socialService.GetOutgoingFriendRequests(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Outgoing friend requests retrieved successfully", gin.H{"outgoingRequests": outgoing})
}
