package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
)

// test DB helper
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestCreateUser_RoundTrip(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "alice", "alice@example.com", "hash", domain.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected a generated ID")
	}

	got, err := GetUser(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected user: %+v", got)
	}

	byEmail, err := GetUserByEmail(ctx, db, "alice@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("GetUserByEmail: got %+v, err %v", byEmail, err)
	}

	// Identity counting catches both halves of the unique pair.
	for _, pair := range [][2]string{
		{"alice@example.com", "someone-else"},
		{"other@example.com", "alice"},
	} {
		n, err := CountUsersByIdentity(ctx, db, pair[0], pair[1])
		if err != nil || n != 1 {
			t.Fatalf("CountUsersByIdentity(%q, %q) = %d, err %v", pair[0], pair[1], n, err)
		}
	}
}

func TestSetBlockedUntil_SetAndClear(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "bob", "bob@example.com", "hash", domain.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	until := time.Now().UTC().Add(4 * time.Hour)
	if err := SetBlockedUntil(db, u.ID, &until); err != nil {
		t.Fatalf("SetBlockedUntil: %v", err)
	}
	got, _ := GetUser(ctx, db, u.ID)
	if got.BlockedUntil == nil || !got.BlockedUntil.Equal(until) {
		t.Fatalf("BlockedUntil = %v, want %v", got.BlockedUntil, until)
	}

	if err := SetBlockedUntil(db, u.ID, nil); err != nil {
		t.Fatalf("SetBlockedUntil(nil): %v", err)
	}
	got, _ = GetUser(ctx, db, u.ID)
	if got.BlockedUntil != nil {
		t.Fatalf("BlockedUntil = %v, want nil", got.BlockedUntil)
	}
}

func TestUpdateUserRole_AndPromotionNotice(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "carol", "carol@example.com", "hash", domain.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := UpdateUserRole(db, u.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if err := SetPromotionNotice(db, u.ID, true); err != nil {
		t.Fatalf("SetPromotionNotice: %v", err)
	}

	got, _ := GetUser(ctx, db, u.ID)
	if got.Role != domain.RoleAdmin || !got.PromotionNotice {
		t.Fatalf("after promotion: %+v", got)
	}
}

func TestListUsers_ExcludesAndPaginates(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		u, err := CreateUser(ctx, db,
			fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i), "hash", domain.RoleUser)
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		ids = append(ids, u.ID)
	}

	out, err := ListUsers(ctx, db, ids[0], 0, 0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 (caller excluded)", len(out))
	}
	for _, u := range out {
		if u.ID == ids[0] {
			t.Fatalf("caller leaked into listing")
		}
	}

	page, err := ListUsers(ctx, db, ids[0], 1, 1)
	if err != nil || len(page) != 1 {
		t.Fatalf("paginated ListUsers: got %d, err %v", len(page), err)
	}
}

func TestDeleteUser_CascadesOwnedRows(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "dave", "dave@example.com", "hash", domain.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	conv, err := CreateConversation(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if _, err := CreateMessage(db, conv.ID, domain.MessageRoleUser, "hi"); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if _, err := CreateTeachingRequest(ctx, db, u.ID, "unanswered"); err != nil {
		t.Fatalf("CreateTeachingRequest: %v", err)
	}

	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	var users, convs, msgs, reqs int64
	db.Model(&domain.User{}).Count(&users)
	db.Model(&domain.Conversation{}).Count(&convs)
	db.Model(&domain.Message{}).Count(&msgs)
	db.Model(&domain.TeachingRequest{}).Count(&reqs)
	if users != 0 || convs != 0 || msgs != 0 || reqs != 0 {
		t.Fatalf("leftover rows after delete: users=%d convs=%d msgs=%d reqs=%d", users, convs, msgs, reqs)
	}
}
