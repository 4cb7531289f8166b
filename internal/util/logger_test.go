package util

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestIsErrorWrapped(t *testing.T) {
	err := fmt.Errorf("withdraw: %w", fmt.Errorf("lock: %w", ErrInsufficientFunds))
	assert.True(t, IsError(err, ErrInsufficientFunds))
	assert.False(t, IsError(err, ErrInvalidState))
	assert.False(t, IsError(errors.New("insufficient funds"), ErrInsufficientFunds))
}
