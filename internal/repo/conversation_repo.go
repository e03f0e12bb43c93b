// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// CreateConversation inserts a new conversation row for the given user.
func CreateConversation(ctx context.Context, db *gorm.DB, userID string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConversation fetches a conversation by ID ensuring it belongs to the user.
func GetConversation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationAny fetches a conversation by ID regardless of owner.
// Reserved for total-admin operations.
func GetConversationAny(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConversations returns all conversations of a user ordered by
// most-recently-updated first.
func ListConversations(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAllConversations returns every conversation joined with its
// owner's email, ordered per owner by recency. Backs the total-admin
// take-over view.
func ListAllConversations(ctx context.Context, db *gorm.DB) ([]domain.Conversation, map[string]string, error) {
	var convs []domain.Conversation
	if err := db.WithContext(ctx).Order("updated_at DESC, id ASC").Find(&convs).Error; err != nil {
		return nil, nil, err
	}

	type ownerRow struct {
		ID    string
		Email string
	}
	var owners []ownerRow
	if err := db.WithContext(ctx).Model(&domain.User{}).Select("id", "email").Find(&owners).Error; err != nil {
		return nil, nil, err
	}
	emailByUser := make(map[string]string, len(owners))
	for _, o := range owners {
		emailByUser[o.ID] = o.Email
	}
	return convs, emailByUser, nil
}

// TouchConversation bumps the last-update timestamp.
func TouchConversation(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&domain.Conversation{}).Where("id = ?", id).Update("updated_at", at).Error
}

// DeleteConversation removes a conversation and its messages in one
// transaction. Deleting a missing conversation is a no-op.
func DeleteConversation(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Conversation{}).Error
	})
}
