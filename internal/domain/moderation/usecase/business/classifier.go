// Package business contains the group spam filter
package business

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/entities"
)

// Emoji thresholds
const (
	MaxEmojiRatio = 0.3
	MaxEmojiCount = 10
)

var (
	linkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`https?://`),
		regexp.MustCompile(`\bt\.me/`),
		regexp.MustCompile(`joinchat/`),
		regexp.MustCompile(`\+[a-zA-Z0-9_-]{10,}`),
		regexp.MustCompile(`\b(bit\.ly|clck\.ru|tinyurl\.com|short\.link)/\w+`),
		regexp.MustCompile(`utm_(source|campaign|medium)=`),
		regexp.MustCompile(`[a-z0-9-]\.(com|uz|ru|org|net|info|io|me|co|tk|ml|ga|cf|site|online|store|shop|xyz|click|link)\b`),
	}

	mentionPattern  = regexp.MustCompile(`@[a-zA-Z0-9_]{5,}`)
	phonePattern    = regexp.MustCompile(`\b\d{2,3}[-\s]?\d{2,3}[-\s]?\d{2}[-\s]?\d{2}\b|\b\d{7,}\b`)
	percentPattern  = regexp.MustCompile(`\d+\s?%`)
	currencyPattern = regexp.MustCompile(`[₩¥$€£]`)
	topListPattern  = regexp.MustCompile(`\btop\s*-?\s*\d+`)

	linkEntities = map[string]bool{"url": true, "text_link": true, "mention": true}

	apostrophes = strings.NewReplacer("’", "'", "ʻ", "'", "ʼ", "'", "`", "'")
)

// keywords are matched as whole words or phrases
var keywords = []string{
	// uz
	"reklama", "aksiya", "chegirma", "chegirmalar", "arzon", "sotuv", "bonus", "promo",
	"obuna bo'ling", "qo'shiling", "tez kiring", "shoshiling", "bepul", "faqat bugun",
	"oxirgi imkoniyat", "pul ishlash", "investitsiya", "buyurtma", "maxsus taklif",
	"murojaat uchun", "bog'lanish uchun", "kanalimizda",
	// en
	"click here", "discount", "limited time", "limited offer", "special offer", "act now",
	"buy now", "order now", "sign up", "register now", "claim now", "join our channel",
	"subscribe", "sponsored", "advertisement", "guaranteed", "don't miss out",
	// ru
	"реклама", "рекламный", "скидка", "бесплатно", "спешите", "акция", "распродажа",
	"только сегодня", "последний шанс", "заработок", "инвестиции", "подпишись",
	"подпишитесь", "кликни", "нажми", "переходи", "заказать", "купить",
}

// Classifier flags advertisement in group messages with a fixed rule list
type Classifier struct {
	keywords []string
}

func NewClassifier() *Classifier {
	padded := make([]string, len(keywords))
	for i, k := range keywords {
		padded[i] = " " + k + " "
	}
	return &Classifier{keywords: padded}
}

// Classify applies the rules in order and reports the first that matches
func (c *Classifier) Classify(post entities.Post) entities.Verdict {
	if post.ForwardedFromChannel {
		return spam(entities.ReasonForward)
	}

	if reason, ok := c.classifyText(post.Text); ok {
		return spam(reason)
	}

	if hasLinkEntity(post.Entities) {
		return spam(entities.ReasonEntity)
	}

	return entities.Verdict{}
}

func (c *Classifier) classifyText(text string) (entities.Reason, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	if emojiSpam(text) {
		return entities.ReasonEmoji, true
	}

	lower := strings.ToLower(text)
	for _, p := range linkPatterns {
		if p.MatchString(lower) {
			return entities.ReasonLink, true
		}
	}

	switch {
	case mentionPattern.MatchString(text):
		return entities.ReasonMention, true
	case phonePattern.MatchString(lower):
		return entities.ReasonPhone, true
	case percentPattern.MatchString(lower):
		return entities.ReasonPercent, true
	case currencyPattern.MatchString(lower):
		return entities.ReasonCurrency, true
	case topListPattern.MatchString(lower):
		return entities.ReasonTopList, true
	}

	words := " " + normalizeWords(lower) + " "
	for _, k := range c.keywords {
		if strings.Contains(words, k) {
			return entities.ReasonKeyword, true
		}
	}

	return "", false
}

func spam(reason entities.Reason) entities.Verdict {
	return entities.Verdict{Spam: true, Reason: reason}
}

func hasLinkEntity(list []chat.Entity) bool {
	for _, e := range list {
		if linkEntities[e.Type] {
			return true
		}
	}
	return false
}

// emojiSpam triggers on many emojis or a high emoji share of non-space runes
func emojiSpam(text string) bool {
	emojis, visible := 0, 0
	for _, r := range text {
		if r == ' ' || r == '\n' {
			continue
		}
		visible++
		if isEmoji(r) {
			emojis++
		}
	}
	if visible == 0 {
		return false
	}
	return emojis >= MaxEmojiCount || float64(emojis)/float64(visible) > MaxEmojiRatio
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F300 && r <= 0x1F5FF, // pictographs
		r >= 0x1F680 && r <= 0x1F6FF, // transport
		r >= 0x1F1E0 && r <= 0x1F1FF, // flags
		r >= 0x1F900 && r <= 0x1F9FF,
		r >= 0x1FA00 && r <= 0x1FAFF,
		r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	default:
		return false
	}
}

// normalizeWords keeps letters, digits and apostrophes, collapsing everything else to single spaces
func normalizeWords(s string) string {
	s = apostrophes.Replace(s)
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
