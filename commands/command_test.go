package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozon-tools/ozon-app-sheets/settings"
)

func run(t *testing.T, args ...string) (*Options, error) {
	t.Helper()

	options := Options{}
	app := NewApp(&options)
	app.Writer = io.Discard
	app.ErrWriter = io.Discard

	return &options, app.RunContext(context.Background(), append([]string{APP}, args...))
}

func TestAppRunsSyncByDefault(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, settings.Save(file, map[string]string{settings.OzonClientID: "222453"}))

	options, err := run(t, "--settings", file, "--debug")

	assert.ErrorIs(t, err, settings.ErrMissing)
	assert.Equal(t, file, options.Settings)
	assert.Equal(t, DEFAULT_LOGFILE, options.LogFile)
	assert.True(t, options.Debug)
}

func TestAppSync(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, settings.Save(file, map[string]string{settings.OzonClientID: "222453"}))

	_, err := run(t, "--settings", file, "sync", "--mock", "--timeout", "5m")

	assert.ErrorIs(t, err, settings.ErrMissing)
}

func TestAppSetup(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	tsv := filepath.Join(dir, "prices.tsv")

	_, err := run(t, "--settings", file, "setup", "--url", "https://docs.google.com/spreadsheets/d/"+SPREADSHEET+"/edit", "--prices", tsv)
	require.NoError(t, err)

	conf, err := settings.Load(file)
	require.NoError(t, err)
	assert.Equal(t, SPREADSHEET, conf.Get(settings.SpreadsheetID))
	assert.Equal(t, tsv, conf.Get(settings.PricesPath))
	assert.Equal(t, settings.DEFAULT_CREDENTIALS, conf.Get(settings.CredentialsPath))
}

func TestAppWithInvalidCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")

	_, err := run(t, "--settings", file, "upload")
	assert.Error(t, err)

	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestAppWithUnknownFlag(t *testing.T) {
	_, err := run(t, "sync", "--dry-run")

	assert.Error(t, err)
}

func TestSpreadsheetID(t *testing.T) {
	tests := map[string]string{
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms":            "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0": "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		" 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms ":                                                 "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	}

	for v, expected := range tests {
		id, err := spreadsheetID(v)
		if err != nil {
			t.Errorf("Unexpected error returned from spreadsheetID (%v)", err)
		} else if id != expected {
			t.Errorf("Incorrect spreadsheet ID for '%v'\n   expected:%v\n   got:     %v", v, expected, id)
		}
	}
}

func TestSpreadsheetIDWithInvalidValue(t *testing.T) {
	for _, v := range []string{"", "   ", "https://example.com/spreadsheets/1Bxi", "not a spreadsheet"} {
		if _, err := spreadsheetID(v); err == nil {
			t.Errorf("Expected error for invalid spreadsheet '%v'", v)
		}
	}
}
