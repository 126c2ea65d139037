// Package entities contains audience domain entities
package entities

import "time"

// Subscriber is a user the bot has talked to
type Subscriber struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username     string    `gorm:"type:text;not null" json:"username"`
	FirstName    string    `gorm:"type:text;not null" json:"first_name"`
	LastName     string    `gorm:"type:text;not null" json:"last_name"`
	IsBot        bool      `gorm:"not null" json:"is_bot"`
	LanguageCode string    `gorm:"type:varchar(16);not null" json:"language_code"`
	FirstSeenAt  time.Time `gorm:"not null" json:"first_seen_at"`
	LastSeenAt   time.Time `gorm:"not null" json:"last_seen_at"`
}

// TableName specifies the table name for GORM
func (Subscriber) TableName() string {
	return "subscribers"
}

// GroupKind is the kind of multi-user conversation
type GroupKind string

const (
	GroupKindGroup      GroupKind = "group"
	GroupKindSupergroup GroupKind = "supergroup"
)

// Group is a multi-user conversation the bot is a member of
type Group struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	Kind           GroupKind `gorm:"type:varchar(16);not null" json:"kind"`
	FirstSeenAt    time.Time `gorm:"not null" json:"first_seen_at"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "group_contexts"
}
