// Package services: ConversationService
//
// This file implements the conversation ledger: starting conversations,
// listing them (most-recently-updated first, titled from the first
// user-authored message), reading transcripts scoped to their owner,
// and the total-admin take-over operations (cross-user reads and
// assistant-message injection).
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// titleRuneBudget caps listing titles derived from the first message.
const titleRuneBudget = 30

// ConversationSummary is one row of the conversation listing.
type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ConversationGroup is the total-admin listing: a user's email with all
// of their conversations.
type ConversationGroup struct {
	Email         string                `json:"email"`
	Conversations []ConversationSummary `json:"conversations"`
}

// ConversationService provides ledger operations. Gate and block checks
// happen before any of these are invoked; the service itself only
// enforces ownership.
type ConversationService struct {
	DB *gorm.DB
}

// Start creates a new conversation owned by userID.
func (s *ConversationService) Start(ctx context.Context, userID string) (*domain.Conversation, error) {
	return repo.CreateConversation(ctx, s.DB, userID)
}

// List returns the user's conversations ordered by most-recently-updated
// first. The display title is the first user-authored message truncated
// to a fixed rune budget; conversations without a user message yet are
// omitted.
func (s *ConversationService) List(ctx context.Context, userID string) ([]ConversationSummary, error) {
	convs, err := repo.ListConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		first, err := repo.FirstUserMessage(ctx, s.DB, c.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, ConversationSummary{ID: c.ID, Title: deriveTitle(first.Content)})
	}
	return out, nil
}

// Messages returns the transcript of a conversation owned by userID,
// ordered oldest first.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if _, err := repo.GetConversation(ctx, s.DB, conversationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return repo.ListMessages(s.DB.WithContext(ctx), conversationID, 0)
}

// MessagesAny returns any conversation's transcript regardless of owner.
// Reserved for total-admin callers.
func (s *ConversationService) MessagesAny(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if _, err := repo.GetConversationAny(ctx, s.DB, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return repo.ListMessages(s.DB.WithContext(ctx), conversationID, 0)
}

// ListAll groups every conversation by its owner's email, each group
// ordered by recency. Conversations without messages are included here
// (the operator sees everything).
func (s *ConversationService) ListAll(ctx context.Context) ([]ConversationGroup, error) {
	convs, emailByUser, err := repo.ListAllConversations(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int)
	groups := make([]ConversationGroup, 0)
	for _, c := range convs {
		email := emailByUser[c.UserID]
		title := "(empty)"
		if first, err := repo.FirstUserMessage(ctx, s.DB, c.ID); err == nil {
			title = deriveTitle(first.Content)
		}
		i, ok := idx[email]
		if !ok {
			i = len(groups)
			idx[email] = i
			groups = append(groups, ConversationGroup{Email: email})
		}
		groups[i].Conversations = append(groups[i].Conversations, ConversationSummary{ID: c.ID, Title: title})
	}
	return groups, nil
}

// InjectAssistant appends an assistant-authored message into any
// conversation and bumps its timestamp. This is the take-over path.
func (s *ConversationService) InjectAssistant(ctx context.Context, conversationID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	conv, err := repo.GetConversationAny(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateMessage(tx, conv.ID, domain.MessageRoleAssistant, content)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchConversation(tx, conv.ID, m.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete removes a conversation and its messages. Missing targets are a
// silent no-op.
func (s *ConversationService) Delete(ctx context.Context, conversationID string) error {
	return repo.DeleteConversation(ctx, s.DB, conversationID)
}

// deriveTitle truncates a first message to the title budget, appending
// an ellipsis marker when it was cut.
func deriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleRuneBudget {
		return content
	}
	return string([]rune(content)[:titleRuneBudget]) + "..."
}
