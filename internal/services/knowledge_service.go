// Package services: KnowledgeService
//
// This file implements the teach operation and knowledge maintenance.
// Teach is the single write path for trigger phrases: it normalizes the
// semicolon-delimited phrase set, rejects the whole submission when any
// phrase already exists anywhere in the knowledge base (surfacing the
// colliding phrases), and optionally marks a referenced teaching
// request as accepted, all inside one transaction.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/match"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// KnowledgeService provides teach, list, and delete operations over the
// knowledge base.
type KnowledgeService struct {
	DB *gorm.DB
}

// ParsePhrases splits a semicolon-delimited phrase list, normalizes
// each phrase (trim + case fold), and drops empties and duplicates
// within the submission while preserving order.
func ParsePhrases(raw string) []string {
	parts := strings.Split(raw, ";")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		n := match.Normalize(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Teach creates a knowledge entry from a semicolon-delimited phrase set
// and an answer. If requestID is non-empty, the referenced teaching
// request transitions to accepted in the same transaction (a missing
// request is a silent no-op). The submission is all-or-nothing: any
// collision with the existing trigger vocabulary rejects it with a
// DuplicatePhraseError naming the offenders.
func (s *KnowledgeService) Teach(ctx context.Context, phrasesRaw, answer, requestID string) (*domain.KnowledgeEntry, error) {
	phrases := ParsePhrases(phrasesRaw)
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	var entry *domain.KnowledgeEntry
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Duplicate check runs inside the transaction so the unique
		// index cannot race the read.
		existing, err := repo.ExistingPhrases(tx, phrases)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &DuplicatePhraseError{Phrases: existing}
		}

		entry, err = repo.CreateKnowledgeEntry(tx, answer, phrases)
		if err != nil {
			return err
		}

		if requestID != "" {
			if _, err := repo.UpdateRequestStatus(tx, requestID, domain.RequestAccepted); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns knowledge entries with their phrases, newest first.
func (s *KnowledgeService) List(ctx context.Context, offset, limit int) ([]domain.KnowledgeEntry, error) {
	return repo.ListKnowledgeEntries(ctx, s.DB, offset, limit)
}

// Delete removes an entry and its phrases. Missing targets are a silent
// no-op.
func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	return repo.DeleteKnowledgeEntry(ctx, s.DB, id)
}
