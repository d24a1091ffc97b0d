package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/config"
	"carpool/internal/middleware"
	"carpool/internal/repository"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	userRepo repository.UserRepository
	cfg      config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userRepo repository.UserRepository, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, cfg: cfg}
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Phone string `json:"phone"`
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Login handles POST /v1/auth/login
// Phone is the sole credential; registration is the trust boundary.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone is required"})
		return
	}

	user, err := h.userRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown phone number"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := middleware.IssueToken([]byte(h.cfg.JWTSecret), user.ID, h.cfg.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  UserResponse{ID: user.ID, Name: user.Name, Phone: user.Phone},
	})
}
