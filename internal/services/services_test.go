package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

// newServiceDB opens a fresh temp SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
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
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedUser inserts a user with the given role.
func seedUser(t *testing.T, db *gorm.DB, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, username, username+"@example.com", "x", role)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// seedConversation inserts a conversation for the user.
func seedConversation(t *testing.T, db *gorm.DB, userID string) *domain.Conversation {
	t.Helper()
	c, err := repo.CreateConversation(context.Background(), db, userID)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	return c
}

// seedKnowledge inserts an entry with normalized phrases.
func seedKnowledge(t *testing.T, db *gorm.DB, answer string, phrases ...string) *domain.KnowledgeEntry {
	t.Helper()
	e, err := repo.CreateKnowledgeEntry(db, answer, phrases)
	if err != nil {
		t.Fatalf("seed knowledge: %v", err)
	}
	return e
}

// stubMatcher returns a fixed candidate and score regardless of input.
type stubMatcher struct {
	best  string
	score int
}

func (m stubMatcher) BestMatch(query string, candidates []string) (string, int) {
	if len(candidates) == 0 {
		return "", 0
	}
	return m.best, m.score
}
