// Package services: UserService
//
// This file implements account lifecycle and role administration:
// registration (with the one-time coupon elevation), login (which
// consumes the one-shot promotion notice), the toggle-admin operation
// with its asymmetric promote/demote rules, and user deletion with its
// ownership cascade.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dmcruz/go-helpdesk-backend/internal/auth"
	"github.com/dmcruz/go-helpdesk-backend/internal/config"
	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// UserService provides account and role operations.
type UserService struct {
	DB *gorm.DB
	// Auth carries the coupon mapping consulted at registration only.
	Auth config.AuthConfig
}

// Register creates an account. The coupon (if any) maps to a granted
// role through the configured mapping; it is checked here and never
// again. Email and username must be unique.
func (s *UserService) Register(ctx context.Context, username, email, password, coupon string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	n, err := repo.CountUsersByIdentity(ctx, s.DB, email, username)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		// Name the colliding half; email wins when both collide.
		if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	role := auth.RoleForCoupon(s.Auth, coupon)
	return repo.CreateUser(ctx, s.DB, username, email, hash, role)
}

// LoginResult is a successful authentication outcome.
type LoginResult struct {
	User *domain.User
	// PromotionNotice is true exactly once after a promotion; reading it
	// here clears the flag.
	PromotionNotice bool
}

// Login verifies credentials and consumes the one-shot promotion
// notice atomically.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	res := &LoginResult{User: u, PromotionNotice: u.PromotionNotice}
	if u.PromotionNotice {
		if err := repo.SetPromotionNotice(s.DB.WithContext(ctx), u.ID, false); err != nil {
			return nil, err
		}
		u.PromotionNotice = false
	}
	return res, nil
}

// Get loads a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns every user except the caller, paginated.
func (s *UserService) List(ctx context.Context, callerID string, offset, limit int) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB, callerID, offset, limit)
}

// ToggleAdmin flips the target between the user and admin roles.
//
// Rules:
//   - total_admin accounts are never a valid target (ErrTargetTotalAdmin).
//   - user → admin: allowed for any admin or total admin; records the
//     one-shot promotion notice in the same transaction.
//   - admin → user: allowed only for a total admin. An admin attempting
//     to demote another admin receives an explicit denial
//     (ErrTotalAdminOnly) and nothing changes.
//
// Returns the target's new role.
func (s *UserService) ToggleAdmin(ctx context.Context, actor *domain.User, targetID string) (domain.Role, error) {
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target.Role == domain.RoleTotalAdmin {
		return "", ErrTargetTotalAdmin
	}

	switch target.Role {
	case domain.RoleUser:
		// Promotion: any admin may do this.
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := repo.UpdateUserRole(tx, target.ID, domain.RoleAdmin); err != nil {
				return err
			}
			return repo.SetPromotionNotice(tx, target.ID, true)
		})
		if err != nil {
			return "", err
		}
		return domain.RoleAdmin, nil

	case domain.RoleAdmin:
		// Demotion: total admin only. Explicit denial, zero mutation.
		if actor.Role != domain.RoleTotalAdmin {
			return "", ErrTotalAdminOnly
		}
		if err := repo.UpdateUserRole(s.DB.WithContext(ctx), target.ID, domain.RoleUser); err != nil {
			return "", err
		}
		return domain.RoleUser, nil

	default:
		return "", ErrTargetTotalAdmin
	}
}

// Delete removes a user and cascades to owned conversations, messages,
// and teaching requests. total_admin accounts cannot be deleted; a
// missing target is a silent no-op.
func (s *UserService) Delete(ctx context.Context, targetID string) error {
	target, err := repo.GetUser(ctx, s.DB, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if target.Role == domain.RoleTotalAdmin {
		return ErrTargetTotalAdmin
	}
	return repo.DeleteUser(ctx, s.DB, targetID)
}
