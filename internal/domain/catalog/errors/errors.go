// Package errors contains domain-specific errors for the catalog domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Domain errors for catalog operations
var (
	ErrItemNotFound    = pkgerrors.NewNotFoundError("item not found")
	ErrQueryTooShort   = pkgerrors.NewValidationError("search query is too short")
	ErrTitleTooShort   = pkgerrors.NewValidationError("title must be at least 2 characters")
	ErrUnsupportedFile = pkgerrors.NewValidationError("unsupported file type")
	ErrFileTooLarge    = pkgerrors.NewValidationError("file is too large")
	ErrNoParts         = pkgerrors.NewValidationError("no parts uploaded yet")
	ErrNoSession       = pkgerrors.NewValidationError("no upload in progress")
	ErrUnexpectedInput = pkgerrors.NewValidationError("unexpected input for the current step")
	ErrInvalidKind     = pkgerrors.NewValidationError("invalid payload kind")
	ErrDatabase        = pkgerrors.NewInternalError("catalog database operation failed")
)
