package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozon-tools/ozon-app-sheets/catalog"
	"github.com/ozon-tools/ozon-app-sheets/prices"
	"github.com/ozon-tools/ozon-app-sheets/report"
	"github.com/ozon-tools/ozon-app-sheets/sheet"
	"github.com/ozon-tools/ozon-app-sheets/sheet/sheettest"
)

func TestDownload(t *testing.T) {
	fake := sheettest.New(SPREADSHEET)
	defer fake.Close()

	h := open(t, fake)

	products := []catalog.Product{
		{ID: "12345", Name: "Xiaomi Redmi Note 12 smartphone", Price: decimal.NewFromInt(19999), Stock: 15},
		{ID: "22222", Name: "Power Bank 20000 mAh", Price: decimal.NewFromInt(4499), Stock: 25},
	}

	require.NoError(t, sheet.Publish(context.Background(), report.Build(products, prices.Table{"22222": "5000"}, NOW), h))

	file := filepath.Join(t.TempDir(), "reports", "report.tsv")
	require.NoError(t, download(context.Background(), h, file))

	expected := "seller id\tproduct name\tcurrent price\trecommended price\tstatus\n" +
		"12345\tXiaomi Redmi Note 12 smartphone\t19999\tnot specified\tin stock\n" +
		"22222\tPower Bank 20000 mAh\t4499\t5000\tin stock\n"

	bytes, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, expected, string(bytes))

	files, err := os.ReadDir(filepath.Dir(file))
	require.NoError(t, err)
	assert.Len(t, files, 1, "temporary file not removed")
}

func TestDownloadWithEmptyWorksheet(t *testing.T) {
	fake := sheettest.New(SPREADSHEET)
	defer fake.Close()

	file := filepath.Join(t.TempDir(), "report.tsv")

	assert.Error(t, download(context.Background(), open(t, fake), file))

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}
