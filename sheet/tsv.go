package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/ozon-tools/ozon-app-sheets/report"
)

// ToTSV writes a downloaded report worksheet as a TSV file. Rows without a seller ID are skipped and short
// rows are padded to the header width.
func ToTSV(f io.Writer, data *sheets.ValueRange) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	// ... header
	row := data.Values[0]
	header := make([]string, len(row))
	for i, v := range row {
		header[i] = clean(fmt.Sprintf("%v", v))
	}

	if len(header) == 0 {
		return fmt.Errorf("Missing/invalid header row")
	}

	for i, h := range report.Header {
		if len(header) <= i || normalise(header[i]) != normalise(h) {
			return fmt.Errorf("Missing '%v' column", h)
		}
	}

	// ... records
	records := [][]string{}
	for _, row := range data.Values[1:] {
		if len(row) == 0 {
			continue
		} else if id := clean(fmt.Sprintf("%v", row[0])); id == "" {
			continue
		}

		record := make([]string, len(header))
		for i := range record {
			if i < len(row) {
				record[i] = clean(fmt.Sprintf("%v", row[i]))
			}
		}

		records = append(records, record)
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(header)
	for _, record := range records {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
