package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	// None of the levels should panic with printf arguments
	logger.Info("listing notifications for user %d", 1)
	logger.Warn("cache invalidation failed for user %d: %v", 1, assert.AnError)
	logger.Error("store query failed: %v", assert.AnError)
}

func TestLogger_NoFormatArgs(t *testing.T) {
	logger := New()

	logger.Info("plain message")
	logger.Warn("plain message")
	logger.Error("plain message")
}
