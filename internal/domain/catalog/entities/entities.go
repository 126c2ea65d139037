// Package entities contains catalog domain entities
package entities

import (
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

// PayloadKind is the kind of file an item or part carries
type PayloadKind string

const (
	KindDocument PayloadKind = "document"
	KindAudio    PayloadKind = "audio"
)

// Kinds lists payload kinds in display order
var Kinds = []PayloadKind{KindDocument, KindAudio}

// ChatKind maps the payload kind to the transport content kind
func (k PayloadKind) ChatKind() chat.Kind {
	if k == KindAudio {
		return chat.KindAudio
	}
	return chat.KindDocument
}

// Valid reports whether k is a known payload kind
func (k PayloadKind) Valid() bool {
	return k == KindDocument || k == KindAudio
}

// UnknownAuthor is stored when no author was given
const UnknownAuthor = "unknown"

var extensionKinds = map[string]PayloadKind{
	".pdf":  KindDocument,
	".docx": KindDocument,
	".xlsx": KindDocument,
	".pptx": KindDocument,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".ogg":  KindAudio,
	".m4a":  KindAudio,
	".flac": KindAudio,
}

// KindForFilename resolves the payload kind from a file extension
func KindForFilename(name string) (PayloadKind, bool) {
	kind, ok := extensionKinds[strings.ToLower(path.Ext(name))]
	return kind, ok
}

// Item is a catalog entry
type Item struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title            string      `gorm:"type:text;not null" json:"title"`
	Author           string      `gorm:"type:text;not null" json:"author"`
	FileID           string      `gorm:"type:text;not null" json:"file_id"`
	Kind             PayloadKind `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	FileSize         int64       `gorm:"not null" json:"file_size"`
	UploadedBy       int64       `gorm:"not null" json:"uploaded_by"`
	Description      string      `gorm:"type:text;not null" json:"description"`
	StorageChatID    int64       `gorm:"not null" json:"storage_chat_id"`
	StorageMessageID int         `gorm:"not null" json:"storage_message_id"`
	IsMultiPart      bool        `gorm:"not null" json:"is_multi_part"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// Origin returns the storage coordinates of the primary payload
func (i *Item) Origin() chat.Origin {
	return chat.Origin{ChatID: i.StorageChatID, MessageID: i.StorageMessageID}
}

// MirrorPart returns the part that mirrors the item's own payload
func (i *Item) MirrorPart() *Part {
	return &Part{
		ItemID:           i.ID,
		FileID:           i.FileID,
		Kind:             i.Kind,
		FileSize:         i.FileSize,
		StorageChatID:    i.StorageChatID,
		StorageMessageID: i.StorageMessageID,
	}
}

// Part is one payload of an item. Parts are retrieved in ID order.
type Part struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID           int64       `gorm:"not null;index" json:"item_id"`
	FileID           string      `gorm:"type:text;not null" json:"file_id"`
	Kind             PayloadKind `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	FileSize         int64       `gorm:"not null" json:"file_size"`
	StorageChatID    int64       `gorm:"not null" json:"storage_chat_id"`
	StorageMessageID int         `gorm:"not null" json:"storage_message_id"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Part) TableName() string {
	return "catalog_item_parts"
}

// Origin returns the storage coordinates of the part
func (p *Part) Origin() chat.Origin {
	return chat.Origin{ChatID: p.StorageChatID, MessageID: p.StorageMessageID}
}

// CountByKind partitions parts by payload kind
func CountByKind(parts []Part) map[PayloadKind]int {
	counts := make(map[PayloadKind]int, len(Kinds))
	for _, p := range parts {
		counts[p.Kind]++
	}
	return counts
}

// Stats is the aggregate catalog and audience summary
type Stats struct {
	Items       int64
	Parts       int64
	Subscribers int64
	Groups      int64
}

// Upload is a file accepted from an operator, already copied to the storage chat
type Upload struct {
	FileID           string
	FileName         string
	Kind             PayloadKind
	FileSize         int64
	StorageChatID    int64
	StorageMessageID int
}

// MinTitleLength is the shortest accepted multi-part title, in runes
const MinTitleLength = 2

// ValidTitle reports whether title is long enough once trimmed
func ValidTitle(title string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(title)) >= MinTitleLength
}
