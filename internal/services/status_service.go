// Package services: StatusService
//
// This file implements the site status gate: a process-wide three-state
// switch (active / disabled / maintenance) consulted before chat and
// new-conversation requests. Admins and total admins bypass the gate so
// operators can verify behavior during an outage; only a total admin
// may change the state.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// Gate messages shown to plain users when the site is not active.
const (
	DisabledMessage    = "The service is currently unavailable. Please come back later."
	MaintenanceMessage = "The service is under maintenance. Please come back soon."
)

// StatusService reads and mutates the site status singleton.
type StatusService struct {
	DB *gorm.DB
}

// Get returns the current site status, lazily creating the singleton
// row as "active".
func (s *StatusService) Get(ctx context.Context) (string, error) {
	row, err := repo.GetSiteStatus(ctx, s.DB)
	if err != nil {
		return "", err
	}
	return row.Status, nil
}

// Set changes the site status, effective immediately for all subsequent
// gate checks. Callers must have verified the actor is a total admin.
func (s *StatusService) Set(ctx context.Context, status string) error {
	if !domain.ValidSiteStatus(status) {
		return ErrInvalidStatus
	}
	return repo.SetSiteStatus(ctx, s.DB, status)
}

// Allows reports whether a user with the given role may chat under the
// given status. Admins and total admins always pass.
func Allows(role domain.Role, status string) bool {
	if role.AtLeast(domain.RoleAdmin) {
		return true
	}
	return status == domain.SiteActive
}

// GateMessage returns the user-facing explanation for a closed gate.
func GateMessage(status string) string {
	switch status {
	case domain.SiteMaintenance:
		return MaintenanceMessage
	default:
		return DisabledMessage
	}
}
