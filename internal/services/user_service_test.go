package services

import (
	"context"
	"testing"

	"github.com/dmcruz/go-helpdesk-backend/internal/config"
	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "test-secret",
		AdminCoupon:      "admin-code",
		TotalAdminCoupon: "root-code",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	u, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "s3cret", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email must be lowercased, got %q", u.Email)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("no coupon must yield the user role, got %q", u.Role)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	res, err := svc.Login(context.Background(), "ALICE@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != u.ID || res.PromotionNotice {
		t.Fatalf("unexpected login result: %+v", res)
	}

	if _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_CouponRoles(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	admin, err := svc.Register(context.Background(), "op", "op@example.com", "pw", "admin-code")
	if err != nil {
		t.Fatalf("Register admin: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("admin coupon role = %q", admin.Role)
	}

	root, err := svc.Register(context.Background(), "root", "root@example.com", "pw", "root-code")
	if err != nil {
		t.Fatalf("Register total admin: %v", err)
	}
	if root.Role != domain.RoleTotalAdmin {
		t.Fatalf("total admin coupon role = %q", root.Role)
	}

	// Unknown coupons fall through to the user role rather than failing.
	plain, err := svc.Register(context.Background(), "pl", "pl@example.com", "pw", "garbage")
	if err != nil {
		t.Fatalf("Register with unknown coupon: %v", err)
	}
	if plain.Role != domain.RoleUser {
		t.Fatalf("unknown coupon role = %q", plain.Role)
	}
}

func TestRegister_Duplicates(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice2", "ALICE@example.com", "pw", ""); err != ErrEmailTaken {
		t.Fatalf("dup email: err = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(context.Background(), "alice", "other@example.com", "pw", ""); err != ErrUsernameTaken {
		t.Fatalf("dup username: err = %v, want ErrUsernameTaken", err)
	}
	// When both halves collide the email error wins.
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", ""); err != ErrEmailTaken {
		t.Fatalf("dup both: err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin_ConsumesPromotionNotice(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}
	root := seedUser(t, db, "root", domain.RoleTotalAdmin)

	u, err := svc.Register(context.Background(), "bob", "bob@example.com", "pw", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.ToggleAdmin(context.Background(), root, u.ID); err != nil {
		t.Fatalf("ToggleAdmin: %v", err)
	}

	first, err := svc.Login(context.Background(), "bob@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !first.PromotionNotice {
		t.Fatalf("first login after promotion must surface the notice")
	}
	if first.User.Role != domain.RoleAdmin {
		t.Fatalf("promoted role = %q", first.User.Role)
	}

	second, err := svc.Login(context.Background(), "bob@example.com", "pw")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if second.PromotionNotice {
		t.Fatalf("the notice is one-shot and must be cleared by the first login")
	}
}

func TestToggleAdmin_Rules(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	root := seedUser(t, db, "root", domain.RoleTotalAdmin)
	admin := seedUser(t, db, "admin", domain.RoleAdmin)
	target := seedUser(t, db, "target", domain.RoleUser)

	// Any admin may promote.
	role, err := svc.ToggleAdmin(context.Background(), admin, target.ID)
	if err != nil || role != domain.RoleAdmin {
		t.Fatalf("promote by admin: role=%q err=%v", role, err)
	}

	// A plain admin may not demote another admin.
	if _, err := svc.ToggleAdmin(context.Background(), admin, target.ID); err != ErrTotalAdminOnly {
		t.Fatalf("demote by admin: err = %v, want ErrTotalAdminOnly", err)
	}
	got, _ := repo.GetUser(context.Background(), db, target.ID)
	if got.Role != domain.RoleAdmin {
		t.Fatalf("denied demotion must not mutate the role, got %q", got.Role)
	}

	// A total admin may demote.
	role, err = svc.ToggleAdmin(context.Background(), root, target.ID)
	if err != nil || role != domain.RoleUser {
		t.Fatalf("demote by total admin: role=%q err=%v", role, err)
	}

	// Total admin accounts are never a valid target.
	if _, err := svc.ToggleAdmin(context.Background(), root, root.ID); err != ErrTargetTotalAdmin {
		t.Fatalf("toggle total admin: err = %v, want ErrTargetTotalAdmin", err)
	}

	// Unknown target.
	if _, err := svc.ToggleAdmin(context.Background(), root, "no-such-user"); err != ErrUserNotFound {
		t.Fatalf("toggle missing: err = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser_CascadesOwnership(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	victim := seedUser(t, db, "victim", domain.RoleUser)
	conv := seedConversation(t, db, victim.ID)
	if _, err := repo.CreateMessage(db, conv.ID, domain.MessageRoleUser, "hello"); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if _, err := repo.CreateTeachingRequest(context.Background(), db, victim.ID, "q?"); err != nil {
		t.Fatalf("CreateTeachingRequest: %v", err)
	}

	if err := svc.Delete(context.Background(), victim.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetUser(context.Background(), db, victim.ID); err == nil {
		t.Fatalf("user row must be gone")
	}
	if _, err := repo.GetConversationAny(context.Background(), db, conv.ID); err == nil {
		t.Fatalf("owned conversations must be gone")
	}
	n, err := repo.CountMessages(db, conv.ID)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if n != 0 {
		t.Fatalf("owned messages must be gone, found %d", n)
	}
	reqs, err := repo.ListTeachingRequests(context.Background(), db, "", 0, 10)
	if err != nil {
		t.Fatalf("ListTeachingRequests: %v", err)
	}
	if len(reqs) != 0 {
		t.Fatalf("owned teaching requests must be gone, found %d", len(reqs))
	}
}

func TestDeleteUser_Protections(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}
	root := seedUser(t, db, "root", domain.RoleTotalAdmin)

	if err := svc.Delete(context.Background(), root.ID); err != ErrTargetTotalAdmin {
		t.Fatalf("delete total admin: err = %v, want ErrTargetTotalAdmin", err)
	}
	if err := svc.Delete(context.Background(), "no-such-user"); err != nil {
		t.Fatalf("delete missing user must be a no-op: %v", err)
	}
}

func TestListUsers_ExcludesCaller(t *testing.T) {
	db := newServiceDB(t)
	svc := &UserService{DB: db, Auth: testAuthCfg()}

	caller := seedUser(t, db, "caller", domain.RoleAdmin)
	seedUser(t, db, "other1", domain.RoleUser)
	seedUser(t, db, "other2", domain.RoleUser)

	users, err := svc.List(context.Background(), caller.ID, 0, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID == caller.ID {
			t.Fatalf("listing must exclude the caller")
		}
	}
}
