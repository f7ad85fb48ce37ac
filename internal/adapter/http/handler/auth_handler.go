package handler

import (
	"donation-platform/internal/adapter/http/dto"
	"donation-platform/internal/adapter/http/middleware"
	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc  ports.AuthService
	accounts ports.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService, accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, accounts: accounts}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewUserResponse(user, nil))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      dto.NewUserResponse(result.User, nil),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Logged out")
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	user, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var acc *domain.DonorAccount
	if user.Role.CanDonate() {
		acc, err = h.accounts.Get(c.Request.Context(), user.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	response.OK(c, dto.NewUserResponse(user, acc))
}
