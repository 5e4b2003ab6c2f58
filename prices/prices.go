package prices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ozon-tools/ozon-app-sheets/log"
)

// Price is a recommended price exactly as it appears in the override file.
type Price string

// Table maps offer ID to recommended price. Offers without a recommended price are absent.
type Table map[string]Price

// Result is the outcome of loading the override file. Prices is never nil. Missing is set if the file
// does not exist and Err is set if it exists but could not be read.
type Result struct {
	Prices  Table
	Missing bool
	Err     error
}

type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading recommended prices from %v (%v)", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the recommended prices from an .xlsx, .tsv or .csv file. The file is optional enrichment, so
// a missing or unreadable file yields an empty table rather than an error.
func Load(path string) Result {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Recommended prices file %v not found - recommended prices will be listed as not specified", path)

		return Result{Prices: Table{}, Missing: true}
	}

	table, err := read(path)
	if err != nil {
		err = &LoadError{Path: path, Err: err}
		log.Errorf("%v", err)

		return Result{Prices: Table{}, Err: err}
	}

	log.Infof("Loaded %v recommended prices from %v", len(table), path)

	return Result{Prices: table}
}

func read(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)

	case ".tsv", ".txt":
		return readDelimited(path, '\t')

	case ".csv":
		return readDelimited(path, ',')

	default:
		return nil, fmt.Errorf("unsupported file type '%v'", filepath.Ext(path))
	}
}

func readXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	return makeTable(rows), nil
}

func readDelimited(path string, delimiter rune) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return parse(f, delimiter)
}

func parse(f io.Reader, delimiter rune) (Table, error) {
	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	return makeTable(records), nil
}

// makeTable skips the header row and reads columns by position: offer ID then recommended price.
func makeTable(rows [][]string) Table {
	table := Table{}

	if len(rows) < 2 {
		return table
	}

	for _, row := range rows[1:] {
		if len(row) < 1 {
			continue
		}

		id := clean(row[0])
		if id == "" {
			continue
		}

		if len(row) < 2 || clean(row[1]) == "" {
			continue
		}

		table[id] = Price(clean(row[1]))
	}

	return table
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
