package business

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

// Stage is the position of an upload session
type Stage int

const (
	StageIdle Stage = iota
	// multi-part flow
	StageCollectingTitle
	StageCollectingParts
	// single item flow
	StageAwaitingFile
	StageAwaitingTitle
	StageAwaitingAuthor
	StageAwaitingDescription
	// every upload becomes an item named after its file
	StageAutoUpload
)

func (s Stage) String() string {
	switch s {
	case StageCollectingTitle:
		return "collecting_title"
	case StageCollectingParts:
		return "collecting_parts"
	case StageAwaitingFile:
		return "awaiting_file"
	case StageAwaitingTitle:
		return "awaiting_title"
	case StageAwaitingAuthor:
		return "awaiting_author"
	case StageAwaitingDescription:
		return "awaiting_description"
	case StageAutoUpload:
		return "auto_upload"
	default:
		return "idle"
	}
}

// SessionKey identifies a session by operator and conversation
type SessionKey struct {
	Operator int64
	Chat     int64
}

// Session is a snapshot of an upload session
type Session struct {
	Key    SessionKey
	Stage  Stage
	Title  string
	Author string
	ItemID int64
	Counts map[entities.PayloadKind]int
}

type session struct {
	mu      sync.Mutex
	Session
	pending *entities.Upload
}

func (s *session) snapshot() Session {
	out := s.Session
	out.Counts = make(map[entities.PayloadKind]int, len(s.Counts))
	for k, v := range s.Counts {
		out.Counts[k] = v
	}
	return out
}

// UploadResult reports what an accepted upload did
type UploadResult struct {
	Session Session
	// Item is set when the upload created or completed an item
	Item *entities.Item
}

// TextResult reports what an accepted text input did
type TextResult struct {
	Session Session
	// Item is set when the input completed a single item
	Item *entities.Item
}

// Assembly drives operator upload sessions. At most one session per operator exists.
type Assembly struct {
	catalog  *UseCase
	mu       sync.Mutex
	sessions map[SessionKey]*session
	logger   zerolog.Logger
}

// NewAssembly creates the upload session registry
func NewAssembly(catalog *UseCase, logger zerolog.Logger) *Assembly {
	return &Assembly{
		catalog:  catalog,
		sessions: make(map[SessionKey]*session),
		logger:   logger,
	}
}

// BeginMultiPart starts the multi-part flow: a title, then any number of uploads
func (a *Assembly) BeginMultiPart(operator, chat int64) Session {
	return a.begin(SessionKey{operator, chat}, StageCollectingTitle)
}

// BeginSingle starts the single item flow: an upload, then title, author and description
func (a *Assembly) BeginSingle(operator, chat int64) Session {
	return a.begin(SessionKey{operator, chat}, StageAwaitingFile)
}

// BeginAuto starts auto-upload mode
func (a *Assembly) BeginAuto(operator, chat int64) Session {
	return a.begin(SessionKey{operator, chat}, StageAutoUpload)
}

func (a *Assembly) begin(key SessionKey, stage Stage) Session {
	s := &session{Session: Session{
		Key:    key,
		Stage:  stage,
		Counts: make(map[entities.PayloadKind]int),
	}}

	a.mu.Lock()
	for k := range a.sessions {
		if k.Operator == key.Operator {
			delete(a.sessions, k)
		}
	}
	a.sessions[key] = s
	a.mu.Unlock()

	a.logger.Info().
		Int64("operator_id", key.Operator).
		Int64("chat_id", key.Chat).
		Str("stage", stage.String()).
		Msg("Upload session started")

	return s.snapshot()
}

// Session returns the current session for the pair
func (a *Assembly) Session(operator, chat int64) (Session, bool) {
	s, ok := a.lookup(SessionKey{operator, chat})
	if !ok {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), true
}

// Cancel drops the session; already committed items and parts stay
func (a *Assembly) Cancel(operator, chat int64) bool {
	key := SessionKey{operator, chat}

	a.mu.Lock()
	_, ok := a.sessions[key]
	delete(a.sessions, key)
	a.mu.Unlock()

	if ok {
		a.logger.Info().Int64("operator_id", operator).Int64("chat_id", chat).Msg("Upload session cancelled")
	}
	return ok
}

// SubmitText feeds a text message to the session
func (a *Assembly) SubmitText(ctx context.Context, operator, chat int64, text string) (*TextResult, error) {
	key := SessionKey{operator, chat}
	s, ok := a.lookup(key)
	if !ok {
		return nil, caterrors.ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)

	switch s.Stage {
	case StageCollectingTitle:
		if !entities.ValidTitle(text) {
			return nil, caterrors.ErrTitleTooShort
		}
		s.Title = text
		s.Stage = StageCollectingParts

	case StageAwaitingTitle:
		if text == "" {
			return nil, caterrors.ErrTitleTooShort
		}
		s.Title = text
		s.Stage = StageAwaitingAuthor

	case StageAwaitingAuthor:
		s.Author = normalizeAuthor(text)
		s.Stage = StageAwaitingDescription

	case StageAwaitingDescription:
		if text == "-" {
			text = ""
		}
		item, err := a.catalog.AddSingle(ctx, NewItem{
			Title:       s.Title,
			Author:      s.Author,
			Description: text,
			UploadedBy:  operator,
			Upload:      *s.pending,
		})
		if err != nil {
			return nil, err
		}
		s.Counts[item.Kind]++
		s.Stage = StageIdle
		a.remove(key, s)
		return &TextResult{Session: s.snapshot(), Item: item}, nil

	default:
		return nil, caterrors.ErrUnexpectedInput
	}

	return &TextResult{Session: s.snapshot()}, nil
}

// Accept feeds an upload to the session
func (a *Assembly) Accept(ctx context.Context, operator, chat int64, upload entities.Upload) (*UploadResult, error) {
	s, ok := a.lookup(SessionKey{operator, chat})
	if !ok {
		return nil, caterrors.ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Stage {
	case StageCollectingParts:
		if s.ItemID == 0 {
			item, _, err := a.catalog.startMultiPart(ctx, s.Title, operator, upload)
			if err != nil {
				return nil, err
			}
			s.ItemID = item.ID
			s.Counts[upload.Kind]++
			return &UploadResult{Session: s.snapshot(), Item: item}, nil
		}
		if _, err := a.catalog.AddPart(ctx, s.ItemID, upload); err != nil {
			return nil, err
		}
		s.Counts[upload.Kind]++

	case StageAwaitingFile:
		pending := upload
		s.pending = &pending
		s.Stage = StageAwaitingTitle

	case StageAutoUpload:
		title, author := ExtractTitleAuthor(upload.FileName)
		item, err := a.catalog.AddSingle(ctx, NewItem{
			Title:      title,
			Author:     author,
			UploadedBy: operator,
			Upload:     upload,
		})
		if err != nil {
			return nil, err
		}
		s.Counts[upload.Kind]++
		return &UploadResult{Session: s.snapshot(), Item: item}, nil

	default:
		return nil, caterrors.ErrUnexpectedInput
	}

	return &UploadResult{Session: s.snapshot()}, nil
}

// Finish closes a multi-part session. With no parts yet it fails and the session stays.
func (a *Assembly) Finish(operator, chat int64) (Session, error) {
	key := SessionKey{operator, chat}
	s, ok := a.lookup(key)
	if !ok {
		return Session{}, caterrors.ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Stage != StageCollectingParts && s.Stage != StageCollectingTitle {
		return Session{}, caterrors.ErrNoSession
	}
	if s.ItemID == 0 {
		return Session{}, caterrors.ErrNoParts
	}

	s.Stage = StageIdle
	a.remove(key, s)

	a.logger.Info().
		Int64("operator_id", operator).
		Int64("item_id", s.ItemID).
		Int("documents", s.Counts[entities.KindDocument]).
		Int("audio", s.Counts[entities.KindAudio]).
		Msg("Multi-part item finished")

	return s.snapshot(), nil
}

func (a *Assembly) lookup(key SessionKey) (*session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[key]
	return s, ok
}

// remove drops s only if it is still the registered session for key
func (a *Assembly) remove(key SessionKey, s *session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions[key] == s {
		delete(a.sessions, key)
	}
}
