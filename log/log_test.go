package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWritesToLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sync.log")

	closer, err := Init(file, false)
	require.NoError(t, err)

	Infof("Updated %d products", 4)
	Debugf("not written at info level")
	closer()

	b, err := os.ReadFile(file)
	require.NoError(t, err)

	text := string(b)
	assert.Contains(t, text, "INFO")
	assert.Contains(t, text, "Updated 4 products")
	assert.False(t, strings.Contains(text, "not written at info level"))
}

func TestInitWithDebug(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sync.log")

	closer, err := Init(file, true)
	require.NoError(t, err)

	Debugf("spreadsheet %s", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms")
	closer()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "DEBUG")
}

func TestInitWithUnwritableLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "sync.log")

	_, err := Init(file, false)
	assert.Error(t, err)
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))

	for _, run := range []string{"first", "second"} {
		restore := With("run", run)
		Infof("sync")
		restore()
	}

	Infof("done")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, []zapcore.Field{zap.String("run", "first")}, entries[0].Context)
	assert.Equal(t, []zapcore.Field{zap.String("run", "second")}, entries[1].Context)
	assert.Empty(t, entries[2].Context)
}
