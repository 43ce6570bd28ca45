package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailError_Is(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewExternalCommandError("npm install", cause, "check your network")

	assert.True(t, Is(err, ErrExternalCommand))
	assert.True(t, Is(err, cause))
	assert.False(t, Is(err, ErrConfiguration))

	wrapped := fmt.Errorf("installing: %w", err)
	var detail *DetailError
	assert.True(t, As(wrapped, &detail))
	assert.Equal(t, "npm install", detail.Location)
}

func TestDetailError_Error(t *testing.T) {
	err := NewConfigurationError("duplicate prompt name", "prompt unit", nil)
	assert.Equal(t, "invalid configuration (prompt unit): duplicate prompt name", err.Error())

	err = NewNetworkError("fetching metadata", "react", errors.New("timeout"))
	assert.Equal(t, "registry request failed (react): fetching metadata: timeout", err.Error())

	err = NewExternalCommandError("git init", errors.New("boom"), "install git")
	assert.Contains(t, err.Error(), "\nHint: install git")
}
