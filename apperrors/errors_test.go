package apperrors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NotFound("find snapshot", "snapshot 'api'")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrIOFailure))

	wrapped := fmt.Errorf("validate: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	err := IOFailure("write snapshot", "/tmp/x.json", os.ErrPermission)

	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.True(t, errors.Is(err, ErrIOFailure))
	assert.Equal(t, "write snapshot /tmp/x.json: permission denied", err.Error())
}

func TestHintOf(t *testing.T) {
	err := NotFound("find snapshot", "snapshot 'x'").WithHint("Run 'scaff list' to see available snapshots.")
	wrapped := fmt.Errorf("generate: %w", err)

	assert.Equal(t, "Run 'scaff list' to see available snapshots.", HintOf(wrapped))
	assert.Equal(t, "", HintOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestUnsupportedLanguageMessage(t *testing.T) {
	err := UnsupportedLanguage("generate", "Haskell")

	assert.Contains(t, err.Error(), "Haskell")
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}
