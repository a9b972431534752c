package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrPull,
		ErrMalformed,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .mcpdash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "pull error",
			code:       ErrPull,
			message:    "Metrics endpoint returned 503",
			suggestion: "Check that the dashboard backend is running",
		},
		{
			name:       "malformed error",
			code:       ErrMalformed,
			message:    "Push payload is not an event",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name:          "basic error formatting",
			err:           New(ErrConfig, "Invalid configuration", "Check .mcpdash.yaml syntax"),
			expectedParts: []string{"✗", "Invalid configuration", "Check .mcpdash.yaml syntax"},
		},
		{
			name:          "error with cause",
			err:           WrapWithCode(errors.New("connection refused"), ErrTransport, "Push connection failed", ""),
			expectedParts: []string{"Push connection failed", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.Contains(t, output, part)
			}
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
		ErrPull,
		"Metrics request failed",
		"Is the backend running?",
	)

	lines := strings.Split(err.Error(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "✗"))
	assert.Contains(t, lines[0], "Metrics request failed")
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	wrapped := Wrap(cause, "Push connection lost")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTransport, wrapped.Code, "Wrap should default to ErrTransport code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "", Short(nil))
	assert.Equal(t, "plain", Short(errors.New("plain")))
	assert.Equal(t, "Bad body", Short(New(ErrPull, "Bad body", "ignored")))
	assert.Equal(t, "Bad body: EOF", Short(WrapWithCode(errors.New("EOF"), ErrPull, "Bad body", "")))

	wrapped := fmt.Errorf("refresh: %w", New(ErrPull, "Metrics returned 500", ""))
	assert.Equal(t, "Metrics returned 500", Short(wrapped))
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrPull))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrConfig))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
}
