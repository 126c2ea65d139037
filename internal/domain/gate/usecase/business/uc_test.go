package business

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/repository/memory"
)

type fakeDirectory struct {
	chats    map[string]entities.ChatInfo
	statuses map[string]string
	invites  map[string]string
	exported []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		chats:    make(map[string]entities.ChatInfo),
		statuses: make(map[string]string),
		invites:  make(map[string]string),
	}
}

func (d *fakeDirectory) GetChat(_ context.Context, ref string) (*entities.ChatInfo, error) {
	info, ok := d.chats[ref]
	if !ok {
		return nil, errors.New("Bad Request: chat not found")
	}
	return &info, nil
}

func (d *fakeDirectory) MemberStatus(_ context.Context, ref string, _ int64) (string, error) {
	status, ok := d.statuses[ref]
	if !ok {
		return "", errors.New("Bad Request: member list is inaccessible")
	}
	return status, nil
}

func (d *fakeDirectory) InviteLink(_ context.Context, ref string) (string, error) {
	d.exported = append(d.exported, ref)
	link, ok := d.invites[ref]
	if !ok {
		return "", errors.New("Bad Request: not enough rights to manage chat invite link")
	}
	return link, nil
}

func newTestUseCase(dir *fakeDirectory) *UseCase {
	return NewUseCase(memory.NewRepository(), dir, func(id int64) bool { return id == 1 }, zerolog.Nop())
}

func TestParseChannelInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   error
	}{
		{"@library", "@library", nil},
		{"https://t.me/library", "@library", nil},
		{"t.me/library?start=1", "@library", nil},
		{"https://t.me/c/123456/77", "-100123456", nil},
		{"-1001234567890", "-1001234567890", nil},
		{"1234567890", "1234567890", nil},
		{"https://t.me/+AbCdEf", "", gateerrors.ErrInviteOnlyLink},
		{"https://t.me/joinchat/AbCdEf", "", gateerrors.ErrInviteOnlyLink},
		{"library", "", gateerrors.ErrInvalidChannelRef},
		{"@", "", gateerrors.ErrInvalidChannelRef},
		{"  ", "", gateerrors.ErrInvalidChannelRef},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChannelInput(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUseCase_AddChannelNormalizesNumericRef(t *testing.T) {
	dir := newFakeDirectory()
	dir.chats["-100123456"] = entities.ChatInfo{ID: -100123456, Title: "Private shelf", Type: "channel"}
	dir.invites["-100123456"] = "https://t.me/+secret"
	uc := newTestUseCase(dir)

	ch, err := uc.AddChannel(context.Background(), "https://t.me/c/123456/9")
	require.NoError(t, err)
	assert.Equal(t, "-100123456", ch.Ref)
	assert.Equal(t, "https://t.me/+secret", ch.InviteLink)
	assert.True(t, ch.IsActive)
}

func TestUseCase_AddChannelUnknown(t *testing.T) {
	uc := newTestUseCase(newFakeDirectory())

	_, err := uc.AddChannel(context.Background(), "@missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestUseCase_AddForwardedChannelRequiresChannel(t *testing.T) {
	uc := newTestUseCase(newFakeDirectory())

	_, err := uc.AddForwardedChannel(context.Background(), entities.ChatInfo{ID: -5, Type: "supergroup"})
	assert.ErrorIs(t, err, gateerrors.ErrNotAChannel)
}

func TestUseCase_Check(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	dir.chats["@open"] = entities.ChatInfo{ID: -1001, Title: "Open", Username: "open", Type: "channel"}
	dir.chats["@closed"] = entities.ChatInfo{ID: -1002, Title: "Closed", Username: "closed", Type: "channel"}
	uc := newTestUseCase(dir)

	missing, err := uc.Check(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, missing, "no channels means everyone passes")

	_, err = uc.AddChannel(ctx, "@open")
	require.NoError(t, err)
	closed, err := uc.AddChannel(ctx, "@closed")
	require.NoError(t, err)

	dir.statuses["-1001"] = entities.StatusMember
	dir.statuses["-1002"] = "left"

	missing, err = uc.Check(ctx, 99)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "@closed", missing[0].Ref)

	missing, err = uc.Check(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, missing, "operators are exempt")

	// lookup errors count as not joined
	delete(dir.statuses, "-1001")
	missing, err = uc.Check(ctx, 99)
	require.NoError(t, err)
	assert.Len(t, missing, 2)

	require.NoError(t, uc.Deactivate(ctx, closed.ID))
	dir.statuses["-1001"] = entities.StatusAdministrator
	missing, err = uc.Check(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestUseCase_InviteLinkCachesExport(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	dir.chats["-1003"] = entities.ChatInfo{ID: -1003, Title: "Hidden", Type: "channel"}
	uc := newTestUseCase(dir)

	ch, err := uc.AddChannel(ctx, "-1003")
	require.NoError(t, err)
	assert.Empty(t, ch.InviteLink)

	dir.invites["-1003"] = "https://t.me/+fresh"
	assert.Equal(t, "https://t.me/+fresh", uc.InviteLink(ctx, ch))

	stored, err := uc.Get(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+fresh", stored.InviteLink)

	calls := len(dir.exported)
	assert.Equal(t, "https://t.me/+fresh", uc.InviteLink(ctx, stored))
	assert.Len(t, dir.exported, calls, "cached link is reused")
}

func TestUseCase_Prompt(t *testing.T) {
	ctx := context.Background()
	dir := newFakeDirectory()
	uc := newTestUseCase(dir)

	missing := []entities.Channel{
		{ID: 1, Ref: "@public", Title: "Public <books>"},
		{ID: 2, Ref: "-1009", ChatID: -1009, Title: strings.Repeat("x", 60)},
	}

	text, kb := uc.Prompt(ctx, missing)
	assert.Contains(t, text, "Public &lt;books&gt;")
	require.Len(t, kb.Rows, 3)

	assert.Equal(t, "https://t.me/public", kb.Rows[0][0].URL)
	assert.Equal(t, strings.Repeat("x", 50)+" ▶️", kb.Rows[1][0].Text)
	assert.Equal(t, chat.ChannelInfo(2), kb.Rows[1][0].Data)
	assert.Equal(t, chat.CallbackCheckSubscription, kb.Rows[2][0].Data)
}
