// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate and bind input, call the
// application services, and translate service results (including sentinel
// errors) into HTTP responses. Authentication, role gates, rate limiting,
// and logging happen upstream in middleware.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dmcruz/go-helpdesk-backend/internal/config"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
	"github.com/dmcruz/go-helpdesk-backend/internal/utils"
)

// Handlers groups the HTTP endpoints and their service dependencies.
type Handlers struct {
	Users     *services.UserService
	Chat      *services.ChatService
	Convs     *services.ConversationService
	Knowledge *services.KnowledgeService
	Requests  *services.RequestService
	Status    *services.StatusService

	// Auth carries the token signing key and TTL used at login.
	Auth config.AuthConfig
}

// New constructs a Handlers bound to the given services.
func New(users *services.UserService, chat *services.ChatService, convs *services.ConversationService,
	knowledge *services.KnowledgeService, requests *services.RequestService, status *services.StatusService,
	authCfg config.AuthConfig) *Handlers {
	return &Handlers{
		Users:     users,
		Chat:      chat,
		Convs:     convs,
		Knowledge: knowledge,
		Requests:  requests,
		Status:    status,
		Auth:      authCfg,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (offset, limit int) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	size := utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if size < 1 {
		size = 1
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return (page - 1) * size, size
}
