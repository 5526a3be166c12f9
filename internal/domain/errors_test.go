package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("not enough tickets")
	err := fmt.Errorf("submit: %w", NewConflictError(cause, "Only %d remaining.", 2))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrValidation))

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Only 2 remaining.", msg)
}

func TestUserMessage_PlainError(t *testing.T) {
	_, ok := UserMessage(errors.New("boom"))
	assert.False(t, ok)
}
