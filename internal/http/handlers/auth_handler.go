// Account endpoints.
//
//   - POST /api/register   (create account, coupon-based role elevation)
//   - POST /api/login      (issue bearer token, surface promotion notice)
//
// The login response is identical for unknown email and wrong password so
// the endpoint cannot be used to probe which addresses have accounts.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmcruz/go-helpdesk-backend/internal/auth"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
)

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	// Coupon optionally elevates the granted role; it is consumed here
	// and never stored.
	Coupon string `json:"coupon"`
}

// RegisterResponse echoes the created account.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginRequest is the JSON payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the one-shot promotion
// notice (true exactly once after a promotion).
type LoginResponse struct {
	Token           string `json:"token"`
	Role            string `json:"role"`
	PromotionNotice bool   `json:"promotion_notice"`
}

// Register creates an account.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, email, and password (6+ chars) are required")
		return
	}

	u, err := h.Users.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.Coupon)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "username already taken")
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username, email, and password are required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, RegisterResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	})
}

// Login verifies credentials and issues a bearer token.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}

	res, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	token, err := auth.IssueToken(h.Auth.JWTSecret, h.Auth.TokenTTL, res.User.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not issue token")
		return
	}

	ok(c, http.StatusOK, LoginResponse{
		Token:           token,
		Role:            string(res.User.Role),
		PromotionNotice: res.PromotionNotice,
	})
}
