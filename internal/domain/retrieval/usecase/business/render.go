package business

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	reterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/errors"
)

// Result list layout
const (
	PageSize      = 10
	ButtonsPerRow = 5
	TitleLimit    = 75
)

const multiPartMarker = " 🧩"

// Results is one rendered page of search results
type Results struct {
	Text     string
	Keyboard *chat.Keyboard
	Page     int
	Pages    int
}

// Pages returns how many result pages n items take
func Pages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// RenderResults renders page (0-based) of items. Entries are numbered across pages.
// A page outside the result set yields ErrStalePage.
func RenderResults(items []entities.Item, page int) (*Results, error) {
	pages := Pages(len(items))
	if page < 0 || page >= pages {
		return nil, reterrors.ErrStalePage
	}

	start := page * PageSize
	end := min(start+PageSize, len(items))

	var b strings.Builder
	b.WriteString("🔍 <b>Search results:</b>\n\n")

	var rows [][]chat.Button
	var row []chat.Button
	for i := start; i < end; i++ {
		item := &items[i]
		number := i + 1

		suffix := ""
		if item.IsMultiPart {
			suffix = multiPartMarker
		}
		fmt.Fprintf(&b, "%d. <b>%s</b>%s %s\n",
			number,
			html.EscapeString(shortTitle(item.Title)),
			suffix,
			html.EscapeString(authorOrUnknown(item.Author)),
		)

		row = append(row, chat.Button{Text: strconv.Itoa(number), Data: chat.SendBook(item.ID)})
		if len(row) == ButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, row)

	if pages > 1 {
		var nav []chat.Button
		if page > 0 {
			nav = append(nav, chat.Button{Text: "◀️", Data: chat.SearchPage(page - 1)})
		}
		nav = append(nav, chat.Button{Text: "❌", Data: chat.CallbackCloseSearch})
		if page < pages-1 {
			nav = append(nav, chat.Button{Text: "▶️", Data: chat.SearchPage(page + 1)})
		}
		rows = append(rows, nav)
	} else {
		rows = append(rows, []chat.Button{{Text: "❌ Close", Data: chat.CallbackCloseSearch}})
	}

	return &Results{
		Text:     b.String(),
		Keyboard: chat.NewKeyboard(rows...),
		Page:     page,
		Pages:    pages,
	}, nil
}

func shortTitle(title string) string {
	if len([]rune(title)) > TitleLimit {
		return chat.Truncate(title, TitleLimit-3) + "..."
	}
	return title
}

func authorOrUnknown(author string) string {
	if strings.TrimSpace(author) == "" {
		return entities.UnknownAuthor
	}
	return author
}

// FormatSize renders a byte count with one decimal in the largest fitting unit
func FormatSize(size int64) string {
	const unit = 1024
	switch {
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	case size < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(size)/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(unit*unit*unit))
	}
}

func kindIcon(kind entities.PayloadKind) string {
	if kind == entities.KindAudio {
		return "🎵"
	}
	return "📖"
}

func partsIcon(kind entities.PayloadKind) string {
	if kind == entities.KindAudio {
		return "🎧"
	}
	return "📄"
}

func kindLabel(kind entities.PayloadKind) string {
	if kind == entities.KindAudio {
		return "Audio"
	}
	return "E-book"
}

// Caption is attached to a delivered single-part item
func Caption(item *entities.Item) string {
	return fmt.Sprintf("%s <b>%s</b>\n\n👤 Author: %s\n📁 Type: %s\n💾 Size: %s\n📅 Uploaded: %s",
		kindIcon(item.Kind),
		html.EscapeString(item.Title),
		html.EscapeString(authorOrUnknown(item.Author)),
		item.Kind,
		FormatSize(item.FileSize),
		item.CreatedAt.Format("2006-01-02"),
	)
}

// PartCaption is attached to part index (1-based) of total
func PartCaption(item *entities.Item, part *entities.Part, index, total int) string {
	return fmt.Sprintf("%s <b>%s</b>\nPart %d/%d\n💾 Size: %s",
		partsIcon(part.Kind),
		html.EscapeString(item.Title),
		index, total,
		FormatSize(part.FileSize),
	)
}
