// Package domain defines the persistence models for users, knowledge
// entries, conversations, messages, teaching requests, and the site
// status singleton. These types are mapped with GORM and form the core
// data layer of the helpdesk application. Role ordering and the block
// predicate live here as well, since every authorization decision in
// the system reduces to them.
package domain

import "time"

// Role is the privilege tier of a user. Roles form a total order
// (user < admin < total_admin), but several destructive operations are
// reserved to RoleTotalAdmin regardless of ordering; those gates are
// enforced at the service/handler layer.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleTotalAdmin Role = "total_admin"
)

// rank maps roles onto the total order. Unknown roles rank below user.
func (r Role) rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleTotalAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r grants at least the privileges of other.
func (r Role) AtLeast(other Role) bool { return r.rank() >= other.rank() }

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool { return r.rank() > 0 }

// User is an account identity. Email and username are unique. The role
// is assigned at registration (optionally elevated by a coupon code)
// and mutable afterwards only through the toggle-admin operation.
//
// BlockedUntil implements the temporary suspension applied when a plain
// user asks a question the knowledge base cannot answer. There is no
// background unblocking: the suspension lapses purely because a later
// IsBlocked check compares against a newer clock.
//
// PromotionNotice is a durable one-shot flag set when the user is
// promoted to admin and cleared the next time they log in.
type User struct {
	ID              string     `json:"id"       gorm:"type:char(36);primaryKey"`
	Username        string     `json:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Email           string     `json:"email"    gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash    string     `json:"-"        gorm:"type:varchar(256);not null"`
	Role            Role       `json:"role"     gorm:"type:varchar(16);not null;default:'user';check:role IN ('user','admin','total_admin')"`
	BlockedUntil    *time.Time `json:"blocked_until,omitempty"`
	PromotionNotice bool       `json:"-" gorm:"not null;default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IsBlocked reports whether the user is suspended at the given instant.
// Admins and total admins are never considered blocked, regardless of
// any stale BlockedUntil value. This is a pure predicate; applying a
// block is the chat service's job.
func (u *User) IsBlocked(now time.Time) bool {
	if u.Role != RoleUser {
		return false
	}
	return u.BlockedUntil != nil && u.BlockedUntil.After(now)
}

// KnowledgeEntry is a canned answer selected when an inbound message
// fuzzily matches one of the entry's trigger phrases.
type KnowledgeEntry struct {
	ID        string    `json:"id"     gorm:"type:char(36);primaryKey"`
	Answer    string    `json:"answer" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Phrases are the normalized trigger phrases owned by this entry.
	// They are cascade-deleted with the entry.
	Phrases []KnowledgePhrase `json:"phrases" gorm:"foreignKey:EntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for KnowledgeEntry.
func (KnowledgeEntry) TableName() string { return "knowledge_entries" }

// KnowledgePhrase is a single normalized (trimmed, case-folded) trigger
// phrase. The unique index backstops the teach operation's write-time
// duplicate rejection across all entries.
type KnowledgePhrase struct {
	ID        string    `json:"id"     gorm:"type:char(36);primaryKey"`
	EntryID   string    `json:"-"      gorm:"type:char(36);not null;index"`
	Phrase    string    `json:"phrase" gorm:"type:varchar(500);not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for KnowledgePhrase.
func (KnowledgePhrase) TableName() string { return "knowledge_phrases" }

// Conversation is a transcript owned by exactly one user. UpdatedAt is
// bumped on every appended message and drives the listing order.
type Conversation struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index:idx_user_convs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owner. Conversations are removed when the user is deleted.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Message roles.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Message is a single immutable utterance inside a conversation,
// ordered by creation time ascending.
type Message struct {
	ID             string    `json:"id"      gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index:idx_conv_msgs,priority:1"`
	Role           string    `json:"role"    gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_conv_msgs,priority:2"`

	// Conversation is the parent transcript. Messages are cascade-deleted
	// with their conversation.
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// TeachingRequest statuses.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestDiscarded = "discarded"
)

// TeachingRequest is a user-suggested question awaiting moderation.
// pending→accepted happens through teach, pending→discarded through the
// discard action, and a total admin may revert any request to pending.
type TeachingRequest struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"  gorm:"type:char(36);not null;index"`
	Question  string    `json:"question" gorm:"type:varchar(500);not null"`
	Status    string    `json:"status"   gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','discarded')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the requester. Requests are removed when the user is deleted.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TeachingRequest.
func (TeachingRequest) TableName() string { return "teaching_requests" }

// Site statuses.
const (
	SiteActive      = "active"
	SiteDisabled    = "disabled"
	SiteMaintenance = "maintenance"
)

// ValidSiteStatus reports whether s names one of the three site states.
func ValidSiteStatus(s string) bool {
	return s == SiteActive || s == SiteDisabled || s == SiteMaintenance
}

// SiteStatusID is the fixed primary key of the singleton row.
const SiteStatusID uint = 1

// SiteStatus is a process-wide three-state switch consulted before any
// chat or new-conversation request from a plain user. The row is
// created lazily with status "active".
type SiteStatus struct {
	ID        uint      `json:"-"      gorm:"primaryKey"`
	Status    string    `json:"status" gorm:"type:varchar(16);not null;default:'active';check:status IN ('active','disabled','maintenance')"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for SiteStatus.
func (SiteStatus) TableName() string { return "site_status" }
