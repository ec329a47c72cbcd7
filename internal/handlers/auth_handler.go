package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "financebot/internal/errors"
	"financebot/internal/middleware"
	"financebot/internal/models"
	"financebot/internal/services"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	userService services.UserServicer
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, secret: secret, tokenTTL: tokenTTL}
}

// PhoneRequest carries the phone number used to log in.
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// UpdateProfileRequest represents the profile update payload
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID     uint    `json:"id"`
	Phone  string  `json:"phone"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	ChatID *string `json:"chatId,omitempty"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

// AuthorizationResponse reports whether a phone number may log in.
type AuthorizationResponse struct {
	Authorized bool `json:"authorized"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:     user.ID,
		Phone:  user.Phone,
		Name:   user.Name,
		Email:  user.Email,
		ChatID: user.ChatID,
	}
}

// Login handles phone login
// @Summary     Login with a phone number
// @Description Authenticate an authorized phone number, creating the user on first login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PhoneRequest true "Phone number"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Phone not authorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Login(req.Phone)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateAccessToken(user, h.secret, h.tokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		User:      newUserResponse(user),
		IsNewUser: user.ChatID == nil,
	})
}

// CheckAuthorization reports whether a phone number is allowed to log in
// @Summary     Check phone authorization
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body PhoneRequest true "Phone number"
// @Success     200 {object} AuthorizationResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/check-authorization [post]
func (h *AuthHandler) CheckAuthorization(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	authorized, err := h.userService.IsAuthorized(req.Phone)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthorizationResponse{Authorized: authorized})
}

// Verify returns the user the bearer token belongs to
// @Summary     Verify token
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	h.GetProfile(c)
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy.
// @Summary     Logout
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// UpdateProfile changes the user's name or e-mail
// @Summary     Update user profile
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
