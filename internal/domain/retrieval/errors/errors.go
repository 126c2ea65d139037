// Package errors contains domain-specific errors for the retrieval domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Domain errors for retrieval operations
var (
	ErrInsufficientRights = pkgerrors.NewPermissionError("bot is not allowed to send files to this chat")
	ErrStalePage          = pkgerrors.NewNotFoundError("search results page no longer exists")
	ErrNoParts            = pkgerrors.NewNotFoundError("no files of this kind")
)
