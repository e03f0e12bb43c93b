// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for knowledge
// entries and their trigger phrases.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// CreateKnowledgeEntry inserts an entry and its normalized phrases in
// the given handle (typically a transaction).
func CreateKnowledgeEntry(db *gorm.DB, answer string, phrases []string) (*domain.KnowledgeEntry, error) {
	now := time.Now().UTC()
	e := &domain.KnowledgeEntry{
		ID:        uuid.NewString(),
		Answer:    answer,
		CreatedAt: now,
	}
	if err := db.Create(e).Error; err != nil {
		return nil, err
	}
	for _, p := range phrases {
		kp := &domain.KnowledgePhrase{
			ID:        uuid.NewString(),
			EntryID:   e.ID,
			Phrase:    p,
			CreatedAt: now,
		}
		if err := db.Create(kp).Error; err != nil {
			return nil, err
		}
		e.Phrases = append(e.Phrases, *kp)
	}
	return e, nil
}

// ListKnowledgeEntries returns all entries with their phrases preloaded,
// newest first, paginated.
func ListKnowledgeEntries(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.KnowledgeEntry, error) {
	var out []domain.KnowledgeEntry
	q := db.WithContext(ctx).
		Preload("Phrases").
		Order("created_at DESC, id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// PhraseAnswer is a flattened (trigger phrase, answer) pair used by the
// knowledge-resolution path.
type PhraseAnswer struct {
	Phrase    string
	Answer    string
	EntryID   string
	CreatedAt time.Time
}

// ListPhraseAnswers returns every trigger phrase joined with its owning
// entry's answer, ordered by entry registration time ascending so a
// later-registered entry wins when callers fold the rows into a map.
func ListPhraseAnswers(ctx context.Context, db *gorm.DB) ([]PhraseAnswer, error) {
	var out []PhraseAnswer
	err := db.WithContext(ctx).
		Table("knowledge_phrases").
		Select("knowledge_phrases.phrase AS phrase, knowledge_entries.answer AS answer, knowledge_entries.id AS entry_id, knowledge_entries.created_at AS created_at").
		Joins("JOIN knowledge_entries ON knowledge_entries.id = knowledge_phrases.entry_id").
		Order("knowledge_entries.created_at ASC, knowledge_phrases.id ASC").
		Scan(&out).Error
	return out, err
}

// ExistingPhrases returns which of the given normalized phrases are
// already present anywhere in the knowledge base.
func ExistingPhrases(db *gorm.DB, phrases []string) ([]string, error) {
	if len(phrases) == 0 {
		return nil, nil
	}
	var out []string
	err := db.Model(&domain.KnowledgePhrase{}).
		Where("phrase IN ?", phrases).
		Order("phrase ASC").
		Pluck("phrase", &out).Error
	return out, err
}

// DeleteKnowledgeEntry removes an entry and its phrases. Deleting a
// missing entry is a no-op.
func DeleteKnowledgeEntry(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&domain.KnowledgePhrase{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.KnowledgeEntry{}).Error
	})
}
