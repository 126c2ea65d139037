// Package entities contains gate domain entities
package entities

import (
	"strconv"
	"strings"
	"time"
)

// Channel is a channel users must join before using the bot.
// Channels are never deleted, only deactivated.
type Channel struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Ref        string    `gorm:"column:channel_ref;type:text;not null;uniqueIndex" json:"channel_ref"`
	ChatID     int64     `gorm:"not null" json:"chat_id"`
	Title      string    `gorm:"type:text;not null" json:"title"`
	Username   string    `gorm:"type:text;not null" json:"username"`
	InviteLink string    `gorm:"type:text;not null" json:"invite_link"`
	AddedAt    time.Time `gorm:"not null" json:"added_at"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
}

// TableName specifies the table name for GORM
func (Channel) TableName() string {
	return "gating_channels"
}

// Target is the chat reference handed to the transport
func (c *Channel) Target() string {
	if c.ChatID != 0 {
		return strconv.FormatInt(c.ChatID, 10)
	}
	return c.Ref
}

// PublicURL returns the t.me link of a channel with a public handle, or ""
func (c *Channel) PublicURL() string {
	if c.Username != "" {
		return "https://t.me/" + strings.TrimPrefix(c.Username, "@")
	}
	if strings.HasPrefix(c.Ref, "@") && len(c.Ref) > 1 {
		return "https://t.me/" + c.Ref[1:]
	}
	return ""
}

// DisplayName is the title, falling back to the reference
func (c *Channel) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Ref
}

// ChatInfo is what the transport reports about a chat
type ChatInfo struct {
	ID       int64
	Title    string
	Username string
	Type     string
}

// Member statuses as named by the Bot API. Only creator, administrator and member satisfy the gate.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

// Joined reports whether a membership status counts as subscribed
func Joined(status string) bool {
	switch status {
	case StatusCreator, StatusAdministrator, StatusMember:
		return true
	default:
		return false
	}
}
