// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// CreateUser inserts a new user row with the given identity and role.
func CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string, role domain.Role) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by ID.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsersByIdentity counts users matching the email or username.
// Used for pre-insert duplicate detection with a friendlier error than
// the driver's unique-constraint violation.
func CountUsersByIdentity(ctx context.Context, db *gorm.DB, email, username string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&n).Error
	return n, err
}

// ListUsers returns all users except excludeID (the caller), ordered by
// creation time ascending, paginated.
func ListUsers(ctx context.Context, db *gorm.DB, excludeID string, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	q := db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("created_at ASC, id ASC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpdateUserRole sets the role of a user.
func UpdateUserRole(db *gorm.DB, id string, role domain.Role) error {
	return db.Model(&domain.User{}).Where("id = ?", id).Update("role", role).Error
}

// SetPromotionNotice toggles the one-shot promotion notice flag.
func SetPromotionNotice(db *gorm.DB, id string, v bool) error {
	return db.Model(&domain.User{}).Where("id = ?", id).Update("promotion_notice", v).Error
}

// SetBlockedUntil updates the suspension expiry of a user. A nil value
// clears the suspension.
func SetBlockedUntil(db *gorm.DB, id string, until *time.Time) error {
	return db.Model(&domain.User{}).Where("id = ?", id).Update("blocked_until", until).Error
}

// DeleteUser removes a user and everything it owns: conversations (with
// their messages) and teaching requests. The deletes run in one
// transaction so the cascade is all-or-nothing even when the driver's
// foreign-key enforcement is off.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var convIDs []string
		if err := tx.Model(&domain.Conversation{}).Where("user_id = ?", id).Pluck("id", &convIDs).Error; err != nil {
			return err
		}
		if len(convIDs) > 0 {
			if err := tx.Where("conversation_id IN ?", convIDs).Delete(&domain.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", convIDs).Delete(&domain.Conversation{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.TeachingRequest{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
}
