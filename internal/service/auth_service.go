package service

import (
	"fmt"
	"math/rand"
	"time"

	"streamify-backend/internal/model"
	"streamify-backend/internal/repository"
	"streamify-backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(req SignupRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	Onboard(userID string, req OnboardRequest) (*model.User, error)
	SetProfilePic(userID, url string) (*model.User, error)
	GetMe(userID string) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	expiresIn time.Duration
}

type SignupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OnboardRequest struct {
	FullName         string `json:"fullName" binding:"required"`
	Bio              string `json:"bio" binding:"required"`
	NativeLanguage   string `json:"nativeLanguage" binding:"required,language"`
	LearningLanguage string `json:"learningLanguage" binding:"required,language"`
	Location         string `json:"location" binding:"required"`
	ProfilePic       string `json:"profilePic"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, expiresIn time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		expiresIn: expiresIn,
	}
}

// Signup registers a new account. The profile starts not onboarded, with
// a randomly assigned avatar.
func (s *authService) Signup(req SignupRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already exists, please use a different one", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		ProfilePic:   randomAvatarURL(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := util.GenerateToken(user.ID, user.Email, s.jwtSecret, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	token, err := util.GenerateToken(user.ID, user.Email, s.jwtSecret, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// Onboard completes the one-time profile step and unlocks full access.
func (s *authService) Onboard(userID string, req OnboardRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	user.FullName = req.FullName
	user.Bio = req.Bio
	user.NativeLanguage = req.NativeLanguage
	user.LearningLanguage = req.LearningLanguage
	user.Location = req.Location
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}
	user.IsOnboarded = true

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// SetProfilePic replaces the user's profile picture URL.
func (s *authService) SetProfilePic(userID, url string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	user.ProfilePic = url
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// GetMe returns the caller's own record.
func (s *authService) GetMe(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}

// randomAvatarURL picks one of the 100 stock avatars, as the original
// signup flow does.
func randomAvatarURL() string {
	idx := rand.Intn(100) + 1
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", idx)
}
