// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// TeachingRequest model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// CreateTeachingRequest inserts a pending request for the given user.
func CreateTeachingRequest(ctx context.Context, db *gorm.DB, userID, question string) (*domain.TeachingRequest, error) {
	r := &domain.TeachingRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Question:  question,
		Status:    domain.RequestPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetTeachingRequest fetches a request by ID.
func GetTeachingRequest(ctx context.Context, db *gorm.DB, id string) (*domain.TeachingRequest, error) {
	var r domain.TeachingRequest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListTeachingRequests returns requests ordered newest first, optionally
// filtered by status, paginated.
func ListTeachingRequests(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.TeachingRequest, error) {
	var out []domain.TeachingRequest
	q := db.WithContext(ctx).Order("created_at DESC, id ASC").Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpdateRequestStatus sets the status of a request. Returns the number
// of affected rows so callers can distinguish a no-op on a missing target.
func UpdateRequestStatus(db *gorm.DB, id, status string) (int64, error) {
	res := db.Model(&domain.TeachingRequest{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}
