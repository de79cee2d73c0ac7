package app

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"streamify-backend/internal/service"
	"streamify-backend/internal/util"
	"streamify-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionCookieName = "jwt"

type AuthHandler struct {
	authService      service.AuthService
	cloudinaryClient *util.CloudinaryClient
	jwtSecret        string
	cookieMaxAge     time.Duration
}

func NewAuthHandler(authService service.AuthService, cloudinaryClient *util.CloudinaryClient, jwtSecret string, cookieMaxAge time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		cloudinaryClient: cloudinaryClient,
		jwtSecret:        jwtSecret,
		cookieMaxAge:     cookieMaxAge,
	}
}

// Signup handles account registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Signup(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token)
	util.SuccessResponse(c, http.StatusCreated, "Account created successfully", resp)
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token)
	util.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}

// Logout clears the session cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	util.SuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

// Onboard completes the one-time profile step
// POST /api/auth/onboarding
func (h *AuthHandler) Onboard(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	var req service.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Onboard(userID.(string), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Onboarding complete", gin.H{"user": user})
}

// UploadProfilePic uploads a new avatar through Cloudinary
// POST /api/auth/profile-pic
func (h *AuthHandler) UploadProfilePic(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if h.cloudinaryClient == nil {
		util.ErrorResponse(c, http.StatusServiceUnavailable, "Image uploads are disabled", nil)
		return
	}

	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		util.BadRequest(c, "profilePic file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.BadRequest(c, "failed to read uploaded file")
		return
	}

	url, err := h.cloudinaryClient.UploadAvatar(c.Request.Context(), data)
	if err != nil {
		logger.Log.Error("avatar upload failed", zap.Error(err))
		util.InternalError(c, "Failed to upload image")
		return
	}

	user, err := h.authService.SetProfilePic(userID.(string), url)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile picture updated", gin.H{"user": user})
}

// GetMe returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetMe(userID.(string))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// AuthMiddleware resolves the caller's identity from the bearer header
// or the session cookie and stores it on the request context.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				util.Unauthorized(c, "Invalid authorization header format")
				c.Abort()
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie(sessionCookieName); err == nil {
			token = cookie
		}

		if token == "" {
			util.Unauthorized(c, "Authorization required")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, h.jwtSecret)
		if err != nil {
			util.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(h.cookieMaxAge.Seconds()), "/", "", false, true)
}

// respondServiceError maps the service failure classes onto HTTP status
// codes. Anything unclassified is an internal failure and never
// reported as success.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		util.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		util.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidOperation):
		util.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		util.Unauthorized(c, err.Error())
	default:
		logger.Log.Error("unexpected service error", zap.Error(err))
		util.InternalError(c, "Internal server error")
	}
}
