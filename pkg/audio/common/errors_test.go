package common

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisErrorMessage(t *testing.T) {
	err := NewAnalysisError(ErrCodeIO, "pcm", "failed to open input.wav", io.ErrUnexpectedEOF)
	assert.Equal(t, "pcm: failed to open input.wav: unexpected EOF", err.Error())

	bare := &AnalysisError{Code: ErrCodeDecoding, Message: "bad header"}
	assert.Equal(t, "bad header", bare.Error())
}

func TestAnalysisErrorIs(t *testing.T) {
	err := NewConfigurationError("mfcc", "filter count must be positive")

	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrInvalidInput))

	wrapped := fmt.Errorf("building pipeline: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConfiguration))

	var ae *AnalysisError
	require.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, "mfcc", ae.Source)
}

func TestAnalysisErrorUnwrap(t *testing.T) {
	err := NewAnalysisError(ErrCodeDecoding, "wav", "decode failed", io.ErrUnexpectedEOF)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(err, ErrDecoding))
}

func TestEmptyCodeNeverMatches(t *testing.T) {
	a := &AnalysisError{Message: "a"}
	b := &AnalysisError{Message: "b"}
	assert.False(t, errors.Is(a, b))
}
