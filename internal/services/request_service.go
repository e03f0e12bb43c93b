// Package services: RequestService
//
// This file implements the teaching-request queue: users suggest
// questions the bot could not answer, admins discard them, and a total
// admin may revert an accepted or discarded request back to pending.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// Request actions accepted by Handle.
const (
	ActionDiscard = "discard"
	ActionRevert  = "revert"
)

// RequestService manages the teaching-request moderation queue.
type RequestService struct {
	DB *gorm.DB
}

// Suggest records a pending teaching request for the given user.
func (s *RequestService) Suggest(ctx context.Context, userID, question string) (*domain.TeachingRequest, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	return repo.CreateTeachingRequest(ctx, s.DB, userID, question)
}

// List returns requests newest first, optionally filtered by status.
func (s *RequestService) List(ctx context.Context, status string, offset, limit int) ([]domain.TeachingRequest, error) {
	return repo.ListTeachingRequests(ctx, s.DB, status, offset, limit)
}

// Handle applies a moderation action to a request.
//
//   - discard: any admin; pending → discarded.
//   - revert: total admin only; accepted/discarded → pending. A plain
//     admin attempting a revert gets an explicit denial.
//
// A missing target is a silent no-op for both actions.
func (s *RequestService) Handle(ctx context.Context, actor *domain.User, requestID, action string) error {
	switch action {
	case ActionDiscard:
		_, err := repo.UpdateRequestStatus(s.DB.WithContext(ctx), requestID, domain.RequestDiscarded)
		return err
	case ActionRevert:
		if actor.Role != domain.RoleTotalAdmin {
			return ErrTotalAdminOnly
		}
		_, err := repo.UpdateRequestStatus(s.DB.WithContext(ctx), requestID, domain.RequestPending)
		return err
	default:
		return ErrInvalidAction
	}
}
