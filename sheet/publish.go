package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/ozon-tools/ozon-app-sheets/log"
	"github.com/ozon-tools/ozon-app-sheets/report"
)

const TimestampLabel = "Last updated:"

type Step int

const (
	StepClear Step = iota + 1
	StepHeader
	StepRows
	StepTimestamp
)

func (s Step) String() string {
	switch s {
	case StepClear:
		return "clear"
	case StepHeader:
		return "header"
	case StepRows:
		return "rows"
	case StepTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// PublishError reports the step at which publishing stopped. Steps before it have already been applied
// to the worksheet.
type PublishError struct {
	Step Step
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("error publishing report (%v: %v)", e.Step, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publish replaces the worksheet contents with the report: clears the worksheet, writes and formats the header, writes the rows and finally the timestamp. Publish stops at the first
// failed step and does not undo the steps already applied.
func Publish(ctx context.Context, rpt report.Report, h *Handle) error {
	steps := []struct {
		step Step
		f    func(context.Context, report.Report) error
	}{
		{StepClear, h.clear},
		{StepHeader, h.header},
		{StepRows, h.rows},
		{StepTimestamp, h.timestamp},
	}

	for _, s := range steps {
		if err := s.f(ctx, rpt); err != nil {
			return &PublishError{Step: s.step, Err: err}
		}
	}

	log.Infof("Updated %v products in worksheet '%v'", len(rpt.Rows), h.title)

	return nil
}

func (h *Handle) clear(ctx context.Context, rpt report.Report) error {
	log.Infof("Clearing worksheet '%v'", h.title)

	rq := sheets.BatchClearValuesRequest{
		Ranges: []string{h.Sheet()},
	}

	if _, err := h.google.Spreadsheets.Values.BatchClear(h.spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func (h *Handle) header(ctx context.Context, rpt report.Report) error {
	row := make([]any, len(report.Header))
	for i, v := range report.Header {
		row[i] = v
	}

	header := sheets.ValueRange{
		Range:  h.Range("A1:E1"),
		Values: [][]any{row},
	}

	if _, err := h.google.Spreadsheets.Values.Update(h.spreadsheetID, header.Range, &header).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return err
	}

	format := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          h.sheetID,
						StartRowIndex:    0,
						EndRowIndex:      1,
						StartColumnIndex: 0,
						EndColumnIndex:   int64(len(report.Header)),
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{
								Bold: true,
							},
							BackgroundColor: &sheets.Color{
								Red:   0.9,
								Green: 0.9,
								Blue:  0.9,
							},
						},
					},
					Fields: "userEnteredFormat(textFormat,backgroundColor)",
				},
			},
		},
	}

	if _, err := h.google.Spreadsheets.BatchUpdate(h.spreadsheetID, &format).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error formatting header (%w)", err)
	}

	return nil
}

func (h *Handle) rows(ctx context.Context, rpt report.Report) error {
	if len(rpt.Rows) == 0 {
		return nil
	}

	values := sheets.ValueRange{
		Range:  h.Range(fmt.Sprintf("A2:E%v", len(rpt.Rows)+1)),
		Values: rpt.Values(),
	}

	if _, err := h.google.Spreadsheets.Values.Update(h.spreadsheetID, values.Range, &values).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return err
	}

	return nil
}

func (h *Handle) timestamp(ctx context.Context, rpt report.Report) error {
	label := sheets.ValueRange{
		Range:  h.Range("G1"),
		Values: [][]any{{TimestampLabel}},
	}

	timestamp := sheets.ValueRange{
		Range:  h.Range("H1"),
		Values: [][]any{{rpt.Timestamp()}},
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             []*sheets.ValueRange{&label, &timestamp},
	}

	if _, err := h.google.Spreadsheets.Values.BatchUpdate(h.spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}
