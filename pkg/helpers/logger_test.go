package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_StampsAppAndUsesJSONOutsideDevelopment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger := NewLogger("tasks-api", "production")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	LogError(logger, "request failed", errors.New("boom"), logrus.Fields{"path": "/api/tasks"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tasks-api", line["app"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "/api/tasks", line["path"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLogger_LevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, logrus.WarnLevel, NewLogger("x", "development").GetLevel())
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogError(nil, "x", errors.New("y"), nil)
		LogInfo(nil, "x", nil)
	})
}
