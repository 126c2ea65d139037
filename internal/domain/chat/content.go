// Package chat holds the transport-neutral message model shared by the bot domains
package chat

// Kind is the message content variant
type Kind string

const (
	KindText      Kind = "text"
	KindPhoto     Kind = "photo"
	KindVideo     Kind = "video"
	KindDocument  Kind = "document"
	KindAudio     Kind = "audio"
	KindVoice     Kind = "voice"
	KindVideoNote Kind = "video_note"
	KindSticker   Kind = "sticker"
	KindAnimation Kind = "animation"
)

// Captioned reports whether the transport accepts a caption for this kind
func (k Kind) Captioned() bool {
	switch k {
	case KindPhoto, KindVideo, KindDocument, KindAudio, KindVoice, KindAnimation:
		return true
	default:
		return false
	}
}

// Entity is a formatting span inside a text or caption
type Entity struct {
	Type   string
	Offset int
	Length int
	URL    string
}

// Button is a single inline control. Exactly one of Data or URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is a grid of inline controls
type Keyboard struct {
	Rows [][]Button
}

// NewKeyboard builds a keyboard from rows, skipping empty ones
func NewKeyboard(rows ...[]Button) *Keyboard {
	kb := &Keyboard{}
	for _, row := range rows {
		if len(row) > 0 {
			kb.Rows = append(kb.Rows, row)
		}
	}
	return kb
}

// Content is a message to send. Text is used for KindText, FileID and Caption for the media kinds.
type Content struct {
	Kind     Kind
	Text     string
	FileID   string
	Caption  string
	Entities []Entity
	Keyboard *Keyboard
	// HTML switches the text or caption to HTML parse mode; Entities are ignored then
	HTML bool
}

// Text builds an HTML text message
func Text(text string, kb *Keyboard) Content {
	return Content{Kind: KindText, Text: text, Keyboard: kb, HTML: true}
}

// File builds an HTML-captioned media message of kind
func File(kind Kind, fileID, caption string) Content {
	return Content{Kind: kind, FileID: fileID, Caption: caption, HTML: true}
}

// Origin locates a message in a storage chat so it can be copied instead of re-uploaded
type Origin struct {
	ChatID    int64
	MessageID int
}

// Valid reports whether the origin points to a message
func (o Origin) Valid() bool {
	return o.ChatID != 0 && o.MessageID != 0
}
