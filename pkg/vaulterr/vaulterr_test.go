package vaulterr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(Conflict, "create_category", "already exists")
	assert.True(t, errors.Is(err, IsConflict))
	assert.False(t, errors.Is(err, IsInvalidPath))
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Io, "save_prompt", "write failed", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "disk full")
}
