// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging with redaction, panic recovery,
// metrics, rate limiting, CORS, and security headers.
//
// Middleware ordering is deliberate: observability first (OTel, request
// ID, logger), then recovery, then traffic shaping (body cap, metrics,
// rate limiter), then browser posture (CORS, security headers, gzip).
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/config"
	"github.com/dmcruz/go-helpdesk-backend/internal/http/handlers"
	"github.com/dmcruz/go-helpdesk-backend/internal/http/middleware"
	"github.com/dmcruz/go-helpdesk-backend/internal/match"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
)

// RegisterRoutes attaches all middleware and endpoints to the engine.
//
// Route tiers:
//   - public: register, login, site_status, health, metrics
//   - authenticated: chat, conversations, suggestions
//   - admin: teaching, request moderation, role toggles, listings
//   - total admin: destructive operations, status switch, takeover
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// Trace all HTTP requests.
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// Correlate requests and logs.
	r.Use(middleware.RequestID())

	// Structured logging with redaction. Chat payloads are user-written,
	// so bodies are never logged.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// Panic recovery to JSON 500 (with request id).
	r.Use(middleware.Recovery())

	// Global body size limit (1 MiB).
	r.Use(limitBody(1 << 20))

	// Prometheus metrics and /metrics endpoint.
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token-bucket rate limiter per user/IP.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// CORS posture: allow-all when no origins are configured.
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS).
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks.
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness.
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services over the shared DB handle.
	h := handlers.New(
		&services.UserService{DB: db, Auth: cfg.Auth},
		&services.ChatService{
			DB:        db,
			Matcher:   match.TokenSetMatcher{},
			Threshold: cfg.MatchThreshold,
			BlockFor:  cfg.BlockDuration,
		},
		&services.ConversationService{DB: db},
		&services.KnowledgeService{DB: db},
		&services.RequestService{DB: db},
		&services.StatusService{DB: db},
		cfg.Auth,
	)

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Public.
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/site_status", h.SiteStatus)

	// Authenticated.
	authed := api.Group("", middleware.Authenticate(db, cfg.Auth.JWTSecret))
	{
		authed.POST("/chat", h.HandleChat)
		authed.POST("/new_conversation", h.NewConversation)
		authed.GET("/get_conversations", h.ListConversations)
		authed.GET("/get_messages/:id", h.GetMessages)
		authed.POST("/suggest_question", h.SuggestQuestion)
	}

	// Admin tier.
	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.POST("/teach", h.Teach)
		admin.POST("/handle_request/:id", h.HandleRequest)
		admin.POST("/toggle_admin/:user_id", h.ToggleAdmin)
		admin.GET("/knowledge", h.ListKnowledge)
		admin.GET("/requests", h.ListRequests)
		admin.GET("/users", h.ListUsers)
	}

	// Total-admin tier.
	root := admin.Group("", middleware.RequireTotalAdmin())
	{
		root.DELETE("/knowledge/:id", h.DeleteKnowledge)
		root.DELETE("/users/:id", h.DeleteUser)
		root.DELETE("/conversations/:id", h.DeleteConversation)
		root.POST("/set_status/:status", h.SetStatus)
		root.GET("/get_all_conversations", h.ListAllConversations)
		root.GET("/get_messages/:id", h.AdminGetMessages)
		root.POST("/send_message", h.SendMessage)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
