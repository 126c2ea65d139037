// Package entities contains moderation domain entities
package entities

import "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"

// Post is a group message under inspection
type Post struct {
	ChatID    int64
	MessageID int
	UserID    int64
	UserName  string
	IsBot     bool
	// Text is the message text or the media caption
	Text     string
	Entities []chat.Entity
	// ForwardedFromChannel is set for posts forwarded out of a channel
	ForwardedFromChannel bool
}

// Reason names the rule that flagged a post
type Reason string

const (
	ReasonForward  Reason = "forward"
	ReasonEmoji    Reason = "emoji"
	ReasonLink     Reason = "link"
	ReasonEntity   Reason = "entity"
	ReasonMention  Reason = "mention"
	ReasonPhone    Reason = "phone"
	ReasonPercent  Reason = "percent"
	ReasonCurrency Reason = "currency"
	ReasonKeyword  Reason = "keyword"
	ReasonTopList  Reason = "top_list"
)

// Verdict is the outcome of classifying a post
type Verdict struct {
	Spam   bool
	Reason Reason
	// Deleted is set by the guard once the post was removed
	Deleted bool
}
