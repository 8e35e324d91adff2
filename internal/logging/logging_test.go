package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pantopia.log")

	logger, err := New(Options{File: path})
	require.NoError(t, err)
	logger.Info("status polled", zap.String("datasource", "7"))
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"status polled"`)
	assert.Contains(t, out, `"datasource":"7"`)
	assert.Contains(t, out, `"ts":`)
	assert.NotContains(t, out, "hidden at info level")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantopia.log")

	logger, err := New(Options{File: path, Verbose: true})
	require.NoError(t, err)
	logger.Debug("resolver lookup")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"level":"debug"`))
}

func TestNew_NoSinksIsNop(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}
