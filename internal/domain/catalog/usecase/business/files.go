package business

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

// ValidateUpload checks the file name against the extension whitelist and the size ceiling
func ValidateUpload(fileName string, size, maxSize int64) (entities.PayloadKind, error) {
	kind, ok := entities.KindForFilename(fileName)
	if !ok {
		return "", caterrors.ErrUnsupportedFile
	}
	if maxSize > 0 && size > maxSize {
		return "", caterrors.ErrFileTooLarge
	}
	return kind, nil
}

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\s\-_.()\[\]]`)
	spaces      = regexp.MustCompile(`\s+`)

	titlePatterns = []struct {
		re          *regexp.Regexp
		authorFirst bool
	}{
		{regexp.MustCompile(`^(.+?)\s+-\s+(.+)$`), true},
		{regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`), false},
		{regexp.MustCompile(`^(.+?)\s*\((.+?)\)$`), false},
		{regexp.MustCompile(`^(.+?)\s*\[(.+?)\]$`), false},
	}
)

// ExtractTitleAuthor guesses title and author from an uploaded file name.
// Recognised shapes: "Author - Title", "Title by Author", "Title (Author)", "Title [Author]".
func ExtractTitleAuthor(fileName string) (title, author string) {
	stem := strings.TrimSuffix(fileName, path.Ext(fileName))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = unsafeChars.ReplaceAllString(stem, "")
	stem = strings.TrimSpace(spaces.ReplaceAllString(stem, " "))

	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		first, second := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if p.authorFirst {
			author, title = first, second
		} else {
			title, author = first, second
		}
		if utf8.RuneCountInString(title) > 2 && utf8.RuneCountInString(author) > 2 {
			return title, author
		}
	}

	if utf8.RuneCountInString(stem) > 2 {
		return stem, entities.UnknownAuthor
	}
	return "untitled", entities.UnknownAuthor
}
