package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	err := FromError(fmt.Errorf("dial tcp: connection refused"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, ErrInternal.Status, err.Status)
}

func TestIsMatchesClonesAndWraps(t *testing.T) {
	clone := Clone(ErrNotAnEditor, "")
	assert.True(t, errors.Is(clone, ErrNotAnEditor))

	wrapped := fmt.Errorf("authorize: %w", clone)
	assert.True(t, errors.Is(wrapped, ErrNotAnEditor))
	assert.False(t, errors.Is(wrapped, ErrEditorRevoked))
}

func TestUserMessageHidesInternalDetail(t *testing.T) {
	internal := Wrap(errors.New("pq: relation \"announcements\" does not exist"), ErrInternal.Code, ErrInternal.Status, "failed to create announcement")
	assert.Equal(t, "Something went wrong. Please try again later!", UserMessage(internal))
	assert.Equal(t, "Something went wrong. Please try again later!", UserMessage(errors.New("boom")))
	assert.Equal(t, "publish date cannot be in the past", UserMessage(ErrPublishInPast))
	assert.Equal(t, "", UserMessage(nil))
}
