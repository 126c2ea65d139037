package chat

import "context"

// Messenger is the outbound side of the transport.
// Errors are classified with pkg/errors: RateLimitError, PermissionError, NotFoundError.
type Messenger interface {
	Send(ctx context.Context, chatID int64, content Content) (int, error)
	Copy(ctx context.Context, chatID int64, from Origin, caption string) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb *Keyboard) error
	Delete(ctx context.Context, chatID int64, messageID int) error
}
