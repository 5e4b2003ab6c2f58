package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Handle identifies the worksheet a report is published to. It is created once per run by Open and
// passed explicitly to Publish and Download.
type Handle struct {
	google        *sheets.Service
	spreadsheetID string
	sheetID       int64
	title         string
}

// Open connects to the spreadsheet and resolves the worksheet by title. A blank title selects the first
// worksheet.
func Open(ctx context.Context, spreadsheetID, title string, opts ...option.ClientOption) (*Handle, error) {
	google, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	spreadsheet, err := getSpreadsheet(ctx, google, spreadsheetID)
	if err != nil {
		return nil, err
	}

	sheet, err := getSheet(spreadsheet, title)
	if err != nil {
		return nil, err
	}

	return &Handle{
		google:        google,
		spreadsheetID: spreadsheet.SpreadsheetId,
		sheetID:       sheet.Properties.SheetId,
		title:         sheet.Properties.Title,
	}, nil
}

func (h *Handle) SpreadsheetID() string {
	return h.spreadsheetID
}

func (h *Handle) Title() string {
	return h.title
}

// Sheet returns the quoted worksheet title, which as a range covers the whole worksheet.
func (h *Handle) Sheet() string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(h.title, "'", "''"))
}

// Range returns an A1 range on the handle's worksheet e.g. 'Prices'!A1:E1.
func (h *Handle) Range(cells string) string {
	return fmt.Sprintf("%s!%s", h.Sheet(), cells)
}

// Download retrieves the report table (columns A to E) from the worksheet.
func (h *Handle) Download(ctx context.Context) (*sheets.ValueRange, error) {
	response, err := h.google.Spreadsheets.Values.Get(h.spreadsheetID, h.Range("A:E")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	return response, nil
}

func getSpreadsheet(ctx context.Context, google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	return spreadsheet, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, name string) (*sheets.Sheet, error) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}

		if strings.TrimSpace(name) == "" {
			return sheet, nil
		}

		if strings.ToLower(strings.TrimSpace(sheet.Properties.Title)) == strings.ToLower(strings.TrimSpace(name)) {
			return sheet, nil
		}
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("spreadsheet %v has no worksheets", spreadsheet.SpreadsheetId)
	}

	return nil, fmt.Errorf("unable to identify worksheet '%s'", name)
}
