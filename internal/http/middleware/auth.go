// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication and the role gates.
// The session token carries only the user ID; the account row (role,
// block state) is reloaded from the database on every request so that
// promotions, demotions, blocks, and deletions take effect immediately,
// without waiting for the token to expire.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/auth"
	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// currentUserKey is the Gin context key holding the loaded *domain.User.
const currentUserKey = "currentUser"

func abortAuth(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}

// Authenticate returns a middleware that validates the Authorization
// bearer token and loads the account it names. On success the user ID is
// stored under "userID" (also used by the rate limiter) and the full user
// under "currentUser". A token naming a deleted account is rejected.
func Authenticate(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(secret, strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		u, err := repo.GetUser(c.Request.Context(), db, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortAuth(c, http.StatusUnauthorized, "unauthorized", "account no longer exists")
				return
			}
			abortAuth(c, http.StatusInternalServerError, "internal_error", "could not load account")
			return
		}

		c.Set("userID", u.ID)
		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the account loaded by Authenticate, or nil when the
// route is not behind it.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// RequireRole returns a middleware rejecting users below min with 403.
// Must run after Authenticate.
func RequireRole(min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !u.Role.AtLeast(min) {
			abortAuth(c, http.StatusForbidden, "forbidden", "insufficient privileges")
			return
		}
		c.Next()
	}
}

// RequireAdmin gates a route to admins and total admins.
func RequireAdmin() gin.HandlerFunc { return RequireRole(domain.RoleAdmin) }

// RequireTotalAdmin gates a route to total admins only.
func RequireTotalAdmin() gin.HandlerFunc { return RequireRole(domain.RoleTotalAdmin) }
