// Package errors contains domain-specific errors for the gate domain
package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Domain errors for gate operations
var (
	ErrChannelNotFound   = pkgerrors.NewNotFoundError("channel not found")
	ErrInvalidChannelRef = pkgerrors.NewValidationError("expected @username, channel id or t.me link")
	ErrInviteOnlyLink    = pkgerrors.NewValidationError("invite links do not identify a channel")
	ErrNotAChannel       = pkgerrors.NewValidationError("forwarded message is not from a channel")
	ErrDatabase          = pkgerrors.NewInternalError("gate database operation failed")
)
