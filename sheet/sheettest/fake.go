// Package sheettest provides an in-memory Google Sheets API server for tests.
package sheettest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Fake implements the subset of the Sheets v4 API used to publish and download a report. Every call is
// recorded by name:
//
//	get                  spreadsheets.get
//	clear                spreadsheets.values.batchClear
//	update:<range>       spreadsheets.values.update
//	format               spreadsheets.batchUpdate
//	batch:<range>,...    spreadsheets.values.batchUpdate
//	values:<range>       spreadsheets.values.get
type Fake struct {
	SpreadsheetID string
	Sheets        []string

	server *httptest.Server
	mu     sync.Mutex
	calls  []string
	fail   []string
	values map[string][][]any
	inputs map[string]string
}

func New(spreadsheetID string, sheets ...string) *Fake {
	if len(sheets) == 0 {
		sheets = []string{"Sheet1"}
	}

	f := &Fake{
		SpreadsheetID: spreadsheetID,
		Sheets:        sheets,
		values:        map[string][][]any{},
		inputs:        map[string]string{},
	}

	f.server = httptest.NewServer(http.HandlerFunc(f.serve))

	return f
}

// Options returns the client options that direct a Sheets client to the fake server.
func (f *Fake) Options() []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(f.server.URL + "/"),
		option.WithHTTPClient(f.server.Client()),
	}
}

func (f *Fake) Close() {
	f.server.Close()
}

// Fail makes every call whose name starts with prefix return an error.
func (f *Fake) Fail(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail = append(f.fail, prefix)
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string{}, f.calls...)
}

// Values returns the values last written to a range.
func (f *Fake) Values(area string) ([][]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[area]

	return v, ok
}

// InputOption returns the valueInputOption of the last write to a range.
func (f *Fake) InputOption(area string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.inputs[area]
}

// Ranges returns the ranges that currently hold values.
func (f *Fake) Ranges() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ranges := []string{}
	for k := range f.values {
		ranges = append(ranges, k)
	}

	sort.Strings(ranges)

	return ranges
}

// Set preloads the values of a range.
func (f *Fake) Set(area string, values [][]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[area] = values
}

func (f *Fake) serve(w http.ResponseWriter, r *http.Request) {
	prefix := "/v4/spreadsheets/" + f.SpreadsheetID
	if !strings.HasPrefix(r.URL.Path, prefix) {
		f.error(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case r.Method == http.MethodGet && rest == "":
		if f.call(w, "get") {
			f.spreadsheet(w)
		}

	case r.Method == http.MethodPost && rest == "/values:batchClear":
		var rq sheets.BatchClearValuesRequest
		if f.decode(w, r, &rq) && f.call(w, "clear") {
			f.mu.Lock()
			for _, area := range rq.Ranges {
				f.clear(area)
			}
			f.mu.Unlock()
			f.reply(w, sheets.BatchClearValuesResponse{SpreadsheetId: f.SpreadsheetID, ClearedRanges: rq.Ranges})
		}

	case r.Method == http.MethodPost && rest == "/values:batchUpdate":
		var rq sheets.BatchUpdateValuesRequest
		if f.decode(w, r, &rq) {
			ranges := []string{}
			for _, v := range rq.Data {
				ranges = append(ranges, v.Range)
			}

			if f.call(w, "batch:"+strings.Join(ranges, ",")) {
				f.mu.Lock()
				for _, v := range rq.Data {
					f.values[v.Range] = v.Values
					f.inputs[v.Range] = rq.ValueInputOption
				}
				f.mu.Unlock()
				f.reply(w, sheets.BatchUpdateValuesResponse{SpreadsheetId: f.SpreadsheetID})
			}
		}

	case r.Method == http.MethodPost && rest == ":batchUpdate":
		var rq sheets.BatchUpdateSpreadsheetRequest
		if f.decode(w, r, &rq) && f.call(w, "format") {
			f.reply(w, sheets.BatchUpdateSpreadsheetResponse{SpreadsheetId: f.SpreadsheetID})
		}

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "/values/"):
		area := strings.TrimPrefix(rest, "/values/")

		var rq sheets.ValueRange
		if f.decode(w, r, &rq) && f.call(w, "update:"+area) {
			f.mu.Lock()
			f.values[area] = rq.Values
			f.inputs[area] = r.URL.Query().Get("valueInputOption")
			f.mu.Unlock()
			f.reply(w, sheets.UpdateValuesResponse{SpreadsheetId: f.SpreadsheetID, UpdatedRange: area})
		}

	case r.Method == http.MethodGet && strings.HasPrefix(rest, "/values/"):
		area := strings.TrimPrefix(rest, "/values/")
		if f.call(w, "values:"+area) {
			f.reply(w, sheets.ValueRange{Range: area, Values: f.table()})
		}

	default:
		f.error(w, http.StatusNotFound, fmt.Sprintf("unsupported request %v %v", r.Method, r.URL.Path))
	}
}

// clear removes the values stored under a range. A bare sheet title clears every range on that sheet, any
// other range only clears values stored under exactly that range.
func (f *Fake) clear(area string) {
	for k := range f.values {
		if k == area || (!strings.Contains(area, "!") && strings.HasPrefix(k, area+"!")) {
			delete(f.values, k)
			delete(f.inputs, k)
		}
	}
}

func (f *Fake) call(w http.ResponseWriter, name string) bool {
	f.mu.Lock()
	f.calls = append(f.calls, name)

	failed := false
	for _, prefix := range f.fail {
		if strings.HasPrefix(name, prefix) {
			failed = true
		}
	}
	f.mu.Unlock()

	if failed {
		f.error(w, http.StatusBadRequest, fmt.Sprintf("%v failed", name))
		return false
	}

	return true
}

// table reassembles the report table from the header and data ranges written by the publisher.
func (f *Fake) table() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := [][]any{}
	keys := []string{}
	for k := range f.values {
		if strings.Contains(k, "!A") {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	for _, k := range keys {
		table = append(table, f.values[k]...)
	}

	return table
}

func (f *Fake) spreadsheet(w http.ResponseWriter) {
	spreadsheet := sheets.Spreadsheet{
		SpreadsheetId: f.SpreadsheetID,
	}

	for i, title := range f.Sheets {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{
				SheetId: int64(i * 1000),
				Title:   title,
				Index:   int64(i),
			},
		})
	}

	f.reply(w, spreadsheet)
}

func (f *Fake) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		f.error(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (f *Fake) reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *Fake) error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": msg,
		},
	})
}
