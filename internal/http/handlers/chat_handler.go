// Chat endpoints.
//
//   - POST /api/chat              (resolve a message against the knowledge base)
//   - POST /api/new_conversation  (open a conversation)
//   - POST /api/suggest_question  (queue an unanswered question for teaching)
//   - GET  /api/site_status       (public status probe)
//
// Chat and new_conversation sit behind two gates checked in order: the
// site status gate (403 site_down for plain users unless active) and the
// asking-user suspension (429 blocked with the remaining time). Admins and
// total admins pass both.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/http/middleware"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
)

// ChatRequest is the JSON payload for resolving a message.
type ChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// ChatResponse reports the assistant reply and the block outcome.
type ChatResponse struct {
	Response  string `json:"response"`
	IsBlocked bool   `json:"is_blocked"`
	// BlockedUntil is set when this request applied a suspension.
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	// OriginalQuestion echoes the unanswered question so the client can
	// offer the suggest flow with the exact text.
	OriginalQuestion string `json:"original_question,omitempty"`
}

// NewConversationResponse carries the fresh conversation's ID.
type NewConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

// SuggestQuestionRequest is the JSON payload for a teaching suggestion.
type SuggestQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// formatRemaining renders a suspension's remaining time as H:MM:SS.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// gate rejects the request when the site status forbids chat for the
// caller. Returns false when the request was aborted.
func (h *Handlers) gate(c *gin.Context, u *domain.User) bool {
	status, err := h.Status.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return false
	}
	if !services.Allows(u.Role, status) {
		fail(c, http.StatusForbidden, ErrCodeSiteDown, services.GateMessage(status))
		return false
	}
	return true
}

// rejectBlocked rejects the request when the caller is currently
// suspended. Returns false when the request was aborted.
func (h *Handlers) rejectBlocked(c *gin.Context, u *domain.User) bool {
	now := time.Now().UTC()
	if !u.IsBlocked(now) {
		return true
	}
	remaining := formatRemaining(u.BlockedUntil.Sub(now))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ChatResponse{
		Response:  fmt.Sprintf("Your access is blocked. Try again in %s.", remaining),
		IsBlocked: true,
	})
	return false
}

// HandleChat resolves one message inside a conversation.
func (h *Handlers) HandleChat(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if !h.gate(c, u) || !h.rejectBlocked(c, u) {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message and conversation_id are required")
		return
	}

	res, err := h.Chat.Answer(c.Request.Context(), u, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
		case errors.Is(err, services.ErrConversationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	resp := ChatResponse{
		Response:  res.Reply,
		IsBlocked: res.Blocked,
	}
	if !res.Matched {
		resp.OriginalQuestion = req.Message
	}
	if res.Blocked {
		resp.BlockedUntil = res.BlockedUntil
	}
	ok(c, http.StatusOK, resp)
}

// NewConversation opens an empty conversation for the caller.
func (h *Handlers) NewConversation(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if !h.gate(c, u) || !h.rejectBlocked(c, u) {
		return
	}

	conv, err := h.Convs.Start(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, NewConversationResponse{ConversationID: conv.ID})
}

// SuggestQuestion queues an unanswered question for the teaching flow.
// Blocked users may still suggest; that is the way out of the dead end.
func (h *Handlers) SuggestQuestion(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var req SuggestQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question is required")
		return
	}

	r, err := h.Requests.Suggest(c.Request.Context(), u.ID, req.Question)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuestion) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question must not be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, gin.H{"id": r.ID, "status": r.Status})
}

// SiteStatus reports the current site status. Public: clients poll it to
// decide whether to render the chat surface.
func (h *Handlers) SiteStatus(c *gin.Context) {
	status, err := h.Status.Get(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"status": status})
}
