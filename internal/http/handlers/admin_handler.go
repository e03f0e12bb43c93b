// Administration endpoints.
//
// Admin tier (admin and total_admin):
//   - POST /api/admin/teach                    (add a knowledge entry)
//   - POST /api/admin/handle_request/:id       (discard / revert a request)
//   - POST /api/admin/toggle_admin/:user_id    (promote / demote)
//   - GET  /api/admin/knowledge                (list entries, paginated)
//   - GET  /api/admin/requests                 (list teaching requests)
//   - GET  /api/admin/users                    (list users, caller excluded)
//
// Total-admin tier:
//   - DELETE /api/admin/knowledge/:id
//   - DELETE /api/admin/users/:id
//   - DELETE /api/admin/conversations/:id
//   - POST   /api/admin/set_status/:status
//   - GET    /api/admin/get_all_conversations  (grouped by owner email)
//   - GET    /api/admin/get_messages/:id       (any conversation)
//   - POST   /api/admin/send_message           (inject an assistant message)
//
// Role gates run in middleware; handlers here only map service outcomes.
// The one exception is toggle_admin and handle_request, where the service
// re-checks the actor because the demote/revert halves need total_admin
// while the route itself is open to any admin.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/http/middleware"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
)

// TeachRequest is the JSON payload for adding a knowledge entry. Phrases
// is semicolon-delimited; RequestID optionally marks a teaching request
// as accepted in the same transaction.
type TeachRequest struct {
	Phrases   string `json:"phrases" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	RequestID string `json:"request_id"`
}

// HandleRequestBody selects the moderation action for a teaching request.
type HandleRequestBody struct {
	Action string `json:"action" binding:"required"`
}

// SendMessageRequest is the payload for the assistant-injection takeover.
type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

// UserView is the admin user listing row.
type UserView struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BlockedUntil any    `json:"blocked_until"`
}

// Teach adds a knowledge entry.
func (h *Handlers) Teach(c *gin.Context) {
	var req TeachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "phrases and answer are required")
		return
	}

	entry, err := h.Knowledge.Teach(c.Request.Context(), req.Phrases, req.Answer, req.RequestID)
	if err != nil {
		var dup *services.DuplicatePhraseError
		switch {
		case errors.As(err, &dup):
			fail(c, http.StatusConflict, ErrCodeConflict, dup.Error())
		case errors.Is(err, services.ErrNoPhrases), errors.Is(err, services.ErrEmptyAnswer):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, entry)
}

// HandleRequest applies discard or revert to a teaching request.
func (h *Handlers) HandleRequest(c *gin.Context) {
	var body HandleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action is required")
		return
	}

	err := h.Requests.Handle(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), body.Action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAction):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action must be discard or revert")
		case errors.Is(err, services.ErrTotalAdminOnly):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "revert requires total admin")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

// ToggleAdmin flips the target between the user and admin roles.
func (h *Handlers) ToggleAdmin(c *gin.Context) {
	role, err := h.Users.ToggleAdmin(c.Request.Context(), middleware.CurrentUser(c), c.Param("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		case errors.Is(err, services.ErrTargetTotalAdmin):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "total admin accounts cannot be modified")
		case errors.Is(err, services.ErrTotalAdminOnly):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "demoting an admin requires total admin")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"role": role})
}

// ListKnowledge returns knowledge entries with their phrases.
func (h *Handlers) ListKnowledge(c *gin.Context) {
	offset, limit := clampPagination(c)
	entries, err := h.Knowledge.List(c.Request.Context(), offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, entries)
}

// ListRequests returns teaching requests, optionally filtered by status.
func (h *Handlers) ListRequests(c *gin.Context) {
	offset, limit := clampPagination(c)
	items, err := h.Requests.List(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListUsers returns every account except the caller's.
func (h *Handlers) ListUsers(c *gin.Context) {
	offset, limit := clampPagination(c)
	users, err := h.Users.List(c.Request.Context(), middleware.CurrentUser(c).ID, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		v := UserView{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role)}
		if u.BlockedUntil != nil {
			v.BlockedUntil = u.BlockedUntil
		}
		out = append(out, v)
	}
	ok(c, http.StatusOK, out)
}

// DeleteKnowledge removes a knowledge entry and its phrases.
func (h *Handlers) DeleteKnowledge(c *gin.Context) {
	if err := h.Knowledge.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteUser removes an account and everything it owns.
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrTargetTotalAdmin) {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "total admin accounts cannot be deleted")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteConversation removes any conversation and its messages.
func (h *Handlers) DeleteConversation(c *gin.Context) {
	if err := h.Convs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// SetStatus switches the site status, effective immediately.
func (h *Handlers) SetStatus(c *gin.Context) {
	if err := h.Status.Set(c.Request.Context(), c.Param("status")); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be one of: "+
				domain.SiteActive+", "+domain.SiteDisabled+", "+domain.SiteMaintenance)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ListAllConversations returns every conversation grouped by owner email.
func (h *Handlers) ListAllConversations(c *gin.Context) {
	groups, err := h.Convs.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, groups)
}

// AdminGetMessages returns any conversation's transcript.
func (h *Handlers) AdminGetMessages(c *gin.Context) {
	msgs, err := h.Convs.MessagesAny(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageView{Role: m.Role, Content: m.Content})
	}
	ok(c, http.StatusOK, out)
}

// SendMessage injects an assistant-authored message into any conversation.
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation_id and content are required")
		return
	}

	msg, err := h.Convs.InjectAssistant(c.Request.Context(), req.ConversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content must not be empty")
		case errors.Is(err, services.ErrConversationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, msg)
}
