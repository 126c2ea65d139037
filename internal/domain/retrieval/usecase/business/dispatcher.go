// Package business delivers catalog items to chats
package business

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/deps"
	reterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Part streaming settings
const (
	MaxPartAttempts = 5
	ProgressEvery   = 5
	PartDelay       = 500 * time.Millisecond
)

// Delivery modes recorded in metrics
const (
	modeCopy   = "copy"
	modeFileID = "file_id"
)

// Report summarizes a DeliverParts run
type Report struct {
	Total   int
	Sent    int
	Failed  int
	Aborted bool
}

// Dispatcher sends catalog payloads to chats
type Dispatcher struct {
	catalog   deps.Catalog
	messenger chat.Messenger
	metrics   *metrics.Metrics
	sleep     chat.SleepFunc
	partDelay time.Duration
	logger    zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(catalog deps.Catalog, messenger chat.Messenger, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:   catalog,
		messenger: messenger,
		metrics:   m,
		sleep:     chat.Sleep,
		partDelay: PartDelay,
		logger:    logger,
	}
}

// Deliver sends a single-part item directly and offers the kind choice for a multi-part one
func (d *Dispatcher) Deliver(ctx context.Context, item *entities.Item, chatID int64) error {
	if item.IsMultiPart {
		return d.DeliverMultiPart(ctx, item, chatID)
	}
	return d.DeliverSingle(ctx, item, chatID)
}

// DeliverSingle sends a single-part item, copying from storage first and falling back to the file id.
// ErrInsufficientRights is returned when the chat does not let the bot send files.
func (d *Dispatcher) DeliverSingle(ctx context.Context, item *entities.Item, chatID int64) error {
	policy := d.policy(nil)
	caption := Caption(item)

	err := policy.Do(ctx, func() error {
		return d.sendPayload(ctx, chatID, item.Origin(), item.Kind, item.FileID, caption)
	})
	if err != nil {
		if pkgerrors.IsPermissionError(err) {
			return reterrors.ErrInsufficientRights
		}
		d.logger.Error().Err(err).
			Int64("item_id", item.ID).
			Int64("chat_id", chatID).
			Msg("Failed to deliver item")
		return err
	}

	d.logger.Info().Int64("item_id", item.ID).Int64("chat_id", chatID).Msg("Item delivered")
	return nil
}

// DeliverMultiPart asks which kind of parts to send, one button per kind present
func (d *Dispatcher) DeliverMultiPart(ctx context.Context, item *entities.Item, chatID int64) error {
	parts, err := d.catalog.ListParts(ctx, item.ID, "")
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return reterrors.ErrNoParts
	}

	counts := entities.CountByKind(parts)
	var rows [][]chat.Button
	for _, kind := range entities.Kinds {
		if counts[kind] == 0 {
			continue
		}
		rows = append(rows, []chat.Button{{
			Text: fmt.Sprintf("%s %s (%d)", partsIcon(kind), kindLabel(kind), counts[kind]),
			Data: chat.SendParts(string(kind), item.ID),
		}})
	}
	rows = append(rows, []chat.Button{{Text: "❌ Close", Data: chat.CallbackCloseSearch}})

	text := fmt.Sprintf("🧩 <b>%s</b>\nChoose the format:", html.EscapeString(item.Title))
	_, err = d.messenger.Send(ctx, chatID, chat.Text(text, chat.NewKeyboard(rows...)))
	if pkgerrors.IsPermissionError(err) {
		return reterrors.ErrInsufficientRights
	}
	return err
}

// DeliverParts streams every part of kind in upload order.
// Rate limits are waited out and the same part is retried; other failures skip the part.
// A permission failure aborts the run with ErrInsufficientRights.
func (d *Dispatcher) DeliverParts(ctx context.Context, item *entities.Item, kind entities.PayloadKind, chatID int64) (*Report, error) {
	parts, err := d.catalog.ListParts(ctx, item.ID, kind)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, reterrors.ErrNoParts
	}

	report := &Report{Total: len(parts)}
	title := html.EscapeString(item.Title)
	icon := partsIcon(kind)

	progress := func() string {
		return fmt.Sprintf("⏳ %s <b>%s</b>\nSending files: %d/%d", icon, title, report.Sent, report.Total)
	}

	statusID, err := d.messenger.Send(ctx, chatID, chat.Text(progress(), nil))
	if err != nil {
		if pkgerrors.IsPermissionError(err) {
			report.Aborted = true
			return report, reterrors.ErrInsufficientRights
		}
		d.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send progress message")
	}

	for i := range parts {
		part := &parts[i]
		index := i + 1
		caption := PartCaption(item, part, index, report.Total)

		policy := d.policy(func(attempt int, wait time.Duration) {
			if attempt == 1 {
				d.edit(ctx, chatID, statusID, fmt.Sprintf(
					"⏳ Telegram rate limit hit, waiting %d s...\nSending files: %d/%d",
					int(wait.Seconds()), report.Sent, report.Total,
				))
			}
		})

		err := policy.Do(ctx, func() error {
			return d.sendPayload(ctx, chatID, part.Origin(), part.Kind, part.FileID, caption)
		})

		switch {
		case err == nil:
			report.Sent++
			d.metrics.RecordPartSent()
			if report.Sent%ProgressEvery == 0 {
				d.edit(ctx, chatID, statusID, progress())
			}
			if serr := d.sleep(ctx, d.partDelay); serr != nil {
				return report, serr
			}
		case pkgerrors.IsPermissionError(err):
			report.Aborted = true
			d.notify(ctx, chatID, "❌ The bot has no rights to send files here. Make it an admin and try again.")
			d.logger.Warn().Int64("item_id", item.ID).Int64("chat_id", chatID).Msg("Part delivery aborted: no rights")
			return report, reterrors.ErrInsufficientRights
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return report, err
		default:
			report.Failed++
			d.notify(ctx, chatID, fmt.Sprintf("❌ Failed to send part %d: %s", index, html.EscapeString(err.Error())))
			d.logger.Error().Err(err).
				Int64("item_id", item.ID).
				Int64("part_id", part.ID).
				Int("part", index).
				Msg("Failed to deliver part")
		}
	}

	if statusID != 0 {
		if err := d.messenger.Delete(ctx, chatID, statusID); err != nil {
			d.logger.Debug().Err(err).Msg("Failed to delete progress message")
		}
	}

	summary := fmt.Sprintf("✅ <b>%s</b>\nAll files sent (%d/%d)!", title, report.Sent, report.Total)
	if report.Failed > 0 {
		summary = fmt.Sprintf("⚠️ <b>%s</b>\nSent %d/%d, failed %d.", title, report.Sent, report.Total, report.Failed)
	}
	d.notify(ctx, chatID, summary)

	d.logger.Info().
		Int64("item_id", item.ID).
		Int64("chat_id", chatID).
		Str("kind", string(kind)).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Msg("Parts delivered")

	return report, nil
}

func (d *Dispatcher) policy(onWait func(attempt int, wait time.Duration)) chat.RetryPolicy {
	return chat.RetryPolicy{
		MaxAttempts: MaxPartAttempts,
		Sleep:       d.sleep,
		OnWait: func(attempt int, wait time.Duration) {
			d.metrics.RecordRateLimit()
			d.logger.Warn().Int("attempt", attempt).Dur("wait", wait).Msg("Rate limited, backing off")
			if onWait != nil {
				onWait(attempt, wait)
			}
		},
	}
}

// sendPayload copies the stored message and falls back to sending by file id.
// Rate limit and permission errors from the copy are returned as is so the caller can react.
func (d *Dispatcher) sendPayload(ctx context.Context, chatID int64, origin chat.Origin, kind entities.PayloadKind, fileID, caption string) error {
	if origin.Valid() {
		_, err := d.messenger.Copy(ctx, chatID, origin, caption)
		if err == nil {
			d.metrics.RecordDelivery(modeCopy, "ok")
			return nil
		}
		d.metrics.RecordDelivery(modeCopy, outcome(err))
		if pkgerrors.IsRateLimitError(err) || pkgerrors.IsPermissionError(err) {
			return err
		}
		d.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Copy failed, sending by file id")
	}

	_, err := d.messenger.Send(ctx, chatID, chat.File(kind.ChatKind(), fileID, caption))
	d.metrics.RecordDelivery(modeFileID, outcome(err))
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case pkgerrors.IsRateLimitError(err):
		return "rate_limited"
	case pkgerrors.IsPermissionError(err):
		return "forbidden"
	default:
		return "failed"
	}
}

func (d *Dispatcher) edit(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		return
	}
	if err := d.messenger.EditText(ctx, chatID, messageID, text, nil); err != nil {
		d.logger.Debug().Err(err).Msg("Failed to update progress message")
	}
}

func (d *Dispatcher) notify(ctx context.Context, chatID int64, text string) {
	if _, err := d.messenger.Send(ctx, chatID, chat.Text(text, nil)); err != nil {
		d.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send notice")
	}
}
