package auth

import (
	"github.com/dmcruz/go-helpdesk-backend/internal/config"
	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// RoleForCoupon maps an invite coupon presented at registration to the
// role it grants. The mapping is configuration-driven, checked exactly
// once at account creation, and never re-evaluated afterwards. An empty
// or unrecognized coupon grants the plain user role; an unset coupon
// setting disables that elevation path.
func RoleForCoupon(cfg config.AuthConfig, coupon string) domain.Role {
	if coupon == "" {
		return domain.RoleUser
	}
	switch {
	case cfg.TotalAdminCoupon != "" && coupon == cfg.TotalAdminCoupon:
		return domain.RoleTotalAdmin
	case cfg.AdminCoupon != "" && coupon == cfg.AdminCoupon:
		return domain.RoleAdmin
	default:
		return domain.RoleUser
	}
}
