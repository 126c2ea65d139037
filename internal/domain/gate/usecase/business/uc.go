// Package business contains the subscription gate logic
package business

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
)

// ButtonTitleLimit caps channel titles on join buttons, in runes
const ButtonTitleLimit = 50

const chatTypeChannel = "channel"

// UseCase manages gating channels and checks membership
type UseCase struct {
	repo     deps.Repository
	dir      deps.Directory
	isExempt func(userID int64) bool
	now      func() time.Time
	logger   zerolog.Logger
}

// NewUseCase creates a new UseCase. Users for which isExempt is true always pass the gate.
func NewUseCase(repo deps.Repository, dir deps.Directory, isExempt func(int64) bool, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:     repo,
		dir:      dir,
		isExempt: isExempt,
		now:      time.Now,
		logger:   logger,
	}
}

// ParseChannelInput turns operator input into a chat reference.
//
// Accepted forms: @name, t.me/name, t.me/c/<id>/<post> (becomes -100<id>) and numeric ids.
// Invite links (t.me/+hash, t.me/joinchat/hash) cannot be resolved and are rejected.
func ParseChannelInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", gateerrors.ErrInvalidChannelRef
	}

	if path, ok := cutLinkHost(input); ok {
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
		parts := strings.Split(strings.Trim(path, "/"), "/")
		switch {
		case len(parts) >= 2 && parts[0] == "c" && isDigits(parts[1]):
			return "-100" + parts[1], nil
		case strings.HasPrefix(parts[0], "+"), parts[0] == "joinchat":
			return "", gateerrors.ErrInviteOnlyLink
		case parts[0] != "":
			name := strings.TrimPrefix(parts[0], "@")
			if name == "" {
				return "", gateerrors.ErrInvalidChannelRef
			}
			return "@" + name, nil
		default:
			return "", gateerrors.ErrInvalidChannelRef
		}
	}

	if strings.HasPrefix(input, "@") {
		if len(input) == 1 || strings.ContainsAny(input, " /") {
			return "", gateerrors.ErrInvalidChannelRef
		}
		return input, nil
	}

	if isDigits(strings.TrimPrefix(input, "-")) {
		return input, nil
	}

	return "", gateerrors.ErrInvalidChannelRef
}

func cutLinkHost(input string) (string, bool) {
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/"} {
		if rest, ok := strings.CutPrefix(input, prefix); ok {
			return rest, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AddChannel resolves operator input through the transport and stores the channel
func (uc *UseCase) AddChannel(ctx context.Context, input string) (*entities.Channel, error) {
	ref, err := ParseChannelInput(input)
	if err != nil {
		return nil, err
	}

	info, err := uc.dir.GetChat(ctx, ref)
	if err != nil {
		uc.logger.Warn().Err(err).Str("channel_ref", ref).Msg("Failed to resolve channel")
		return nil, err
	}

	if !strings.HasPrefix(ref, "@") {
		ref = strconv.FormatInt(info.ID, 10)
	}
	return uc.store(ctx, ref, info)
}

// AddForwardedChannel stores the channel a forwarded post came from
func (uc *UseCase) AddForwardedChannel(ctx context.Context, info entities.ChatInfo) (*entities.Channel, error) {
	if info.Type != chatTypeChannel || info.ID == 0 {
		return nil, gateerrors.ErrNotAChannel
	}
	return uc.store(ctx, strconv.FormatInt(info.ID, 10), &info)
}

func (uc *UseCase) store(ctx context.Context, ref string, info *entities.ChatInfo) (*entities.Channel, error) {
	ch := &entities.Channel{
		Ref:      ref,
		ChatID:   info.ID,
		Title:    info.Title,
		Username: info.Username,
		AddedAt:  uc.now(),
	}

	if ch.Username == "" {
		link, err := uc.dir.InviteLink(ctx, ch.Target())
		if err != nil {
			uc.logger.Warn().Err(err).Str("channel_ref", ref).Msg("No invite link for private channel")
		} else {
			ch.InviteLink = link
		}
	}

	if err := uc.repo.Upsert(ctx, ch); err != nil {
		uc.logger.Error().Err(err).Str("channel_ref", ref).Msg("Failed to save channel")
		return nil, err
	}

	uc.logger.Info().
		Int64("channel_id", ch.ID).
		Str("channel_ref", ch.Ref).
		Str("title", ch.Title).
		Msg("Gating channel added")

	return ch, nil
}

// Channels lists the active gating channels
func (uc *UseCase) Channels(ctx context.Context) ([]entities.Channel, error) {
	return uc.repo.ListActive(ctx)
}

// Get returns a channel by id, active or not
func (uc *UseCase) Get(ctx context.Context, id int64) (*entities.Channel, error) {
	return uc.repo.Get(ctx, id)
}

// Deactivate removes a channel from the gate; the row is kept
func (uc *UseCase) Deactivate(ctx context.Context, id int64) error {
	if err := uc.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	uc.logger.Info().Int64("channel_id", id).Msg("Gating channel deactivated")
	return nil
}

// Check returns the active channels userID has not joined. An empty result means the user passes.
// A failed membership lookup counts as not joined.
func (uc *UseCase) Check(ctx context.Context, userID int64) ([]entities.Channel, error) {
	if uc.isExempt != nil && uc.isExempt(userID) {
		return nil, nil
	}

	channels, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var missing []entities.Channel
	for _, ch := range channels {
		status, err := uc.dir.MemberStatus(ctx, ch.Target(), userID)
		if err != nil {
			uc.logger.Debug().Err(err).
				Int64("user_id", userID).
				Str("channel_ref", ch.Ref).
				Msg("Membership lookup failed")
			missing = append(missing, ch)
			continue
		}
		if !entities.Joined(status) {
			missing = append(missing, ch)
		}
	}
	return missing, nil
}

// InviteLink returns a join URL for ch: the public handle, the cached invite,
// or a freshly exported one which is then cached. It returns "" when none can be had.
func (uc *UseCase) InviteLink(ctx context.Context, ch *entities.Channel) string {
	if link := ch.PublicURL(); link != "" {
		return link
	}
	if isHTTPLink(ch.InviteLink) {
		return ch.InviteLink
	}

	link, err := uc.dir.InviteLink(ctx, ch.Target())
	if err != nil || !isHTTPLink(link) {
		uc.logger.Warn().Err(err).Str("channel_ref", ch.Ref).Msg("Failed to get invite link")
		return ""
	}

	ch.InviteLink = link
	if err := uc.repo.SetInviteLink(ctx, ch.ID, link); err != nil {
		uc.logger.Warn().Err(err).Int64("channel_id", ch.ID).Msg("Failed to cache invite link")
	}
	return link
}

func isHTTPLink(link string) bool {
	u, err := url.Parse(link)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Prompt renders the join request for the missing channels
func (uc *UseCase) Prompt(ctx context.Context, missing []entities.Channel) (string, *chat.Keyboard) {
	var b strings.Builder
	b.WriteString("📢 <b>To use the bot, join these channels first:</b>\n\n")

	rows := make([][]chat.Button, 0, len(missing)+1)
	for i := range missing {
		ch := &missing[i]
		fmt.Fprintf(&b, "%d. %s\n", i+1, html.EscapeString(ch.DisplayName()))

		button := chat.Button{Text: chat.Truncate(ch.DisplayName(), ButtonTitleLimit) + " ▶️"}
		if link := uc.InviteLink(ctx, ch); link != "" {
			button.URL = link
		} else {
			button.Data = chat.ChannelInfo(ch.ID)
		}
		rows = append(rows, []chat.Button{button})
	}

	b.WriteString("\nThen press the button below.")
	rows = append(rows, []chat.Button{{Text: "✅ I've joined", Data: chat.CallbackCheckSubscription}})

	return b.String(), chat.NewKeyboard(rows...)
}
