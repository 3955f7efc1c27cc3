package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/crytic/sollink/logging/colors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestLoggerStructuredOutput ensures messages reach the structured writers without console coloring and with
// errors and structured info chained as fields.
func TestLoggerStructuredOutput(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buffer)

	logger.Info("linked ", colors.Bold, 3, colors.Reset, " contracts")
	assert.Contains(t, buffer.String(), `"message":"linked 3 contracts"`)

	// Color functions must not leak ANSI sequences into structured output.
	assert.NotContains(t, buffer.String(), "\x1b[")

	buffer.Reset()
	logger.Error("linking failed", errors.New("dangling dependency"))
	assert.Contains(t, buffer.String(), `"error":"dangling dependency"`)

	buffer.Reset()
	logger.Info("done", StructuredLogInfo{"contracts": 2})
	assert.Contains(t, buffer.String(), `"contracts":2`)
}

// TestLoggerLevelFiltering ensures events below the logger's level are dropped.
func TestLoggerLevelFiltering(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buffer)

	logger.Info("too quiet")
	assert.Empty(t, buffer.String())

	logger.Warn("loud enough")
	assert.Contains(t, buffer.String(), "loud enough")

	logger.SetLevel(zerolog.InfoLevel)
	logger.Info("now audible")
	assert.Contains(t, buffer.String(), "now audible")
}

// TestLoggerSubLogger ensures sub-loggers tag every event with their key-value context.
func TestLoggerSubLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buffer)
	subLogger := logger.NewSubLogger("module", "linker")

	subLogger.Info("resolving dependencies")
	assert.Contains(t, buffer.String(), `"module":"linker"`)
	assert.Contains(t, buffer.String(), "resolving dependencies")
}

// TestLoggerWriters ensures writers can be added and removed at runtime, and duplicates are ignored.
func TestLoggerWriters(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &first)

	logger.AddWriter(&second, STRUCTURED)
	logger.AddWriter(&second, STRUCTURED)
	logger.Info("both channels")
	assert.Contains(t, first.String(), "both channels")
	assert.Contains(t, second.String(), "both channels")

	// The duplicate registration was ignored, so the message appears once.
	assert.Equal(t, 1, bytes.Count(second.Bytes(), []byte("both channels")))

	logger.RemoveWriter(&second)
	logger.Info("one channel")
	assert.Contains(t, first.String(), "one channel")
	assert.NotContains(t, second.String(), "one channel")
}
