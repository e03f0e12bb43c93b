// Conversation ledger endpoints (caller-scoped).
//
//   - GET /api/get_conversations     (list, most recent first, titled)
//   - GET /api/get_messages/:id      (transcript, oldest first, weak ETag)
//
// Both endpoints only ever see conversations owned by the caller; a
// foreign conversation is indistinguishable from a missing one.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmcruz/go-helpdesk-backend/internal/http/middleware"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
	"github.com/dmcruz/go-helpdesk-backend/internal/services"
)

// MessageView is one transcript row.
type MessageView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ListConversations returns the caller's conversation listing.
func (h *Handlers) ListConversations(c *gin.Context) {
	u := middleware.CurrentUser(c)

	items, err := h.Convs.List(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// GetMessages returns one conversation's transcript with a weak ETag so
// polling clients can cheaply detect "nothing new".
func (h *Handlers) GetMessages(c *gin.Context) {
	ctx := c.Request.Context()
	u := middleware.CurrentUser(c)
	convID := c.Param("id")

	// Ownership first, so the ETag cannot leak another user's activity.
	if _, err := repo.GetConversation(ctx, h.Convs.DB, convID, u.ID); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		return
	}

	// ETag pre-check, best effort: skipped on stats errors.
	if count, maxTS, err := repo.MessagesStats(ctx, h.Convs.DB, convID); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"messages:%s:%d:%d"`, convID, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	msgs, err := h.Convs.Messages(ctx, u.ID, convID)
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
