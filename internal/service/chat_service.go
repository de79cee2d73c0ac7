package service

import (
	"fmt"
	"time"

	"streamify-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// ChatService mints per-user tokens for the external chat/video
// provider. The token is an HS256 JWT over the provider secret carrying
// the user id, which is what the provider SDKs expect.
type ChatService interface {
	GetStreamToken(userID string) (string, error)
}

type chatService struct {
	userRepo  repository.UserRepository
	apiSecret string
}

func NewChatService(userRepo repository.UserRepository, apiSecret string) ChatService {
	return &chatService{
		userRepo:  userRepo,
		apiSecret: apiSecret,
	}
}

func (s *chatService) GetStreamToken(userID string) (string, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return "", fmt.Errorf("%w: user not found", ErrNotFound)
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign stream token: %w", err)
	}

	return signed, nil
}
