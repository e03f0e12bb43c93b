// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SiteStatus singleton.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// GetSiteStatus returns the singleton status row, creating it with the
// default "active" state when absent.
func GetSiteStatus(ctx context.Context, db *gorm.DB) (*domain.SiteStatus, error) {
	var s domain.SiteStatus
	err := db.WithContext(ctx).Where("id = ?", domain.SiteStatusID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = domain.SiteStatus{
			ID:        domain.SiteStatusID,
			Status:    domain.SiteActive,
			UpdatedAt: time.Now().UTC(),
		}
		if cerr := db.WithContext(ctx).Create(&s).Error; cerr != nil {
			return nil, cerr
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSiteStatus updates the singleton row, creating it first if needed.
// Takes effect for all subsequent gate checks immediately.
func SetSiteStatus(ctx context.Context, db *gorm.DB, status string) error {
	if _, err := GetSiteStatus(ctx, db); err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&domain.SiteStatus{}).
		Where("id = ?", domain.SiteStatusID).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}
