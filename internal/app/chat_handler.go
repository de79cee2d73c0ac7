package app

import (
	"net/http"

	"streamify-backend/internal/service"
	"streamify-backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
	apiKey      string
}

func NewChatHandler(chatService service.ChatService, apiKey string) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		apiKey:      apiKey,
	}
}

// GetStreamToken issues a chat/video provider token for the caller
// GET /api/chat/token
func (h *ChatHandler) GetStreamToken(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	token, err := h.chatService.GetStreamToken(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The client initializes the provider SDK with the public key and
	// authenticates with the per-user token.
	util.SuccessResponse(c, http.StatusOK, "Token issued successfully", gin.H{
		"token":  token,
		"apiKey": h.apiKey,
	})
}
