// Package services: ChatService
//
// This file implements the knowledge-resolution decision procedure: it
// turns an inbound free-text message into either a stored answer or a
// fallback reply plus a temporary block on the asking user. The user
// and assistant messages, the conversation timestamp bump, and any
// block mutation are persisted in a single transaction.
//
// Observability: Answer is OpenTelemetry-instrumented; spans include
// conversation/user identifiers and the match outcome.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/match"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FallbackReply is the fixed assistant reply when no knowledge entry
// matches above the threshold. It invites the user to suggest the
// question for teaching.
const FallbackReply = "I couldn't find an answer for that. You can suggest this question so the team can teach me."

// ChatService owns the knowledge-resolution path.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Matcher scores the normalized message against trigger phrases.
	Matcher match.Matcher
	// Threshold is the score a match must strictly exceed to be accepted.
	Threshold int
	// BlockFor is the suspension applied to a plain user whose question
	// went unanswered.
	BlockFor time.Duration

	// Now is the clock; overridable in tests. Nil means time.Now().UTC.
	Now func() time.Time
}

// AnswerResult is the outcome of one resolved chat message.
type AnswerResult struct {
	// Reply is the assistant's response text.
	Reply string
	// Matched reports whether a knowledge entry was selected.
	Matched bool
	// Score is the best similarity score observed (0 with an empty
	// knowledge base).
	Score int
	// Blocked reports whether this request caused a block to be applied.
	Blocked bool
	// BlockedUntil is the applied suspension expiry when Blocked.
	BlockedUntil *time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Answer resolves message for user inside conversationID.
//
// Decision procedure:
//  1. Reject an empty (post-trim) message before touching anything.
//  2. Verify the conversation exists and belongs to the user.
//  3. Normalize the message (trim + case fold) and score it against
//     every trigger phrase; phrases were normalized at write time, and
//     when trigger sets overlap across entries the later-registered
//     entry wins.
//  4. Accept the best match iff score > Threshold (strict). Otherwise
//     the reply is the fixed fallback and, only for plain users, a
//     block of BlockFor is applied.
//  5. Persist the user message (original, pre-normalization text), the
//     assistant reply, the conversation bump, and any block mutation
//     atomically.
//
// The passed user is updated in place when a block is applied.
func (s *ChatService) Answer(ctx context.Context, user *domain.User, conversationID, message string) (*AnswerResult, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", user.ID),
		),
	)
	defer span.End()

	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if conversationID == "" {
		return nil, ErrConversationNotFound
	}

	if _, err := repo.GetConversation(ctx, s.DB, conversationID, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	// Build the trigger-phrase lookup. Rows come back ordered by entry
	// registration time ascending, so folding into the map makes the
	// later-registered entry win on (write-time-prevented) overlaps.
	rows, err := repo.ListPhraseAnswers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	answerByPhrase := make(map[string]string, len(rows))
	candidates := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, seen := answerByPhrase[r.Phrase]; !seen {
			candidates = append(candidates, r.Phrase)
		}
		answerByPhrase[r.Phrase] = r.Answer
	}

	normalized := match.Normalize(message)

	res := &AnswerResult{Reply: FallbackReply}
	if len(candidates) > 0 {
		best, score := s.Matcher.BestMatch(normalized, candidates)
		res.Score = score
		if score > s.Threshold {
			res.Matched = true
			res.Reply = answerByPhrase[best]
		}
	}

	span.SetAttributes(
		attribute.Bool("match.found", res.Matched),
		attribute.Int("match.score", res.Score),
	)

	now := s.now()
	var blockedUntil *time.Time
	if !res.Matched && user.Role == domain.RoleUser {
		t := now.Add(s.BlockFor)
		blockedUntil = &t
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.CreateMessage(tx, conversationID, domain.MessageRoleUser, message); err != nil {
			return err
		}
		if _, err := repo.CreateMessage(tx, conversationID, domain.MessageRoleAssistant, res.Reply); err != nil {
			return err
		}
		if err := repo.TouchConversation(tx, conversationID, now); err != nil {
			return err
		}
		if blockedUntil != nil {
			if err := repo.SetBlockedUntil(tx, user.ID, blockedUntil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if blockedUntil != nil {
		user.BlockedUntil = blockedUntil
		res.Blocked = true
		res.BlockedUntil = blockedUntil
	}
	return res, nil
}
