package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.base)
	assert.NotNil(t, logger.sugar)
}

func TestLogger_MultipleCalls(t *testing.T) {
	logger := New()

	assert.NotPanics(t, func() {
		logger.Info("Info %d", 1)
		logger.Warn("Warn %d", 1)
		logger.Error("Error %d", 1)
	})
}

func TestLogger_Formatting(t *testing.T) {
	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Info("User %s logged in with ID %s", "neko", "abc")
		logger.Error("Failed to process request %d: %s", 404, "not found")
	})
}

func TestLogger_With(t *testing.T) {
	logger := NewNop().With("component", "gate")
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Warn("denied %s", "post")
	})
}
