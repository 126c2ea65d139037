// Package errors contains domain-specific errors for the broadcast domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Domain errors for broadcast operations
var (
	ErrAlreadyRunning = pkgerrors.NewConflictError("a broadcast is already running")
	ErrNotRunning     = pkgerrors.NewNotFoundError("no active broadcast")
	ErrNoRecipients   = pkgerrors.NewValidationError("no recipients to broadcast to")
)
