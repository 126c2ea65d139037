package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsChecksSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load item: %w", NewNotFoundError("item not found"))

	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsValidationError(err))
	assert.Equal(t, ErrorTypeNotFound, Type(err))
}

func TestRetryAfter(t *testing.T) {
	err := fmt.Errorf("send part: %w", NewRateLimitError(3*time.Second))

	wait, ok := RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, wait)
	assert.True(t, IsRateLimitError(err))
	assert.Equal(t, ErrorTypeRateLimit, Type(err))

	_, ok = RetryAfter(NewPermissionError("no rights"))
	assert.False(t, ok)
}

func TestTypeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, Type(fmt.Errorf("boom")))
	assert.Equal(t, ErrorTypePermission, Type(NewPermissionError("blocked")))
}
