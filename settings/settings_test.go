package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithoutSettingsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")

	s, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	if v := s.Get(CredentialsPath); v != DEFAULT_CREDENTIALS {
		t.Errorf("Incorrect credentials path - expected:%v, got:%v", DEFAULT_CREDENTIALS, v)
	}

	if v := s.Get(PricesPath); v != DEFAULT_PRICES {
		t.Errorf("Incorrect prices path - expected:%v, got:%v", DEFAULT_PRICES, v)
	}

	if v := s.Get(SpreadsheetID, "xyz"); v != "" {
		t.Errorf("Expected blank default spreadsheet ID, got %v", v)
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	contents := `# ozon-app-sheets
SPREADSHEET_ID=1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms
GOOGLE_CREDS_PATH=/etc/ozon/credentials.json
OZON_API_URL=https://api-seller.ozon.ru/?a=b
`

	if err := os.WriteFile(file, []byte(contents), 0600); err != nil {
		t.Fatalf("%v", err)
	}

	s, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	expected := map[string]string{
		SpreadsheetID:   "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		CredentialsPath: "/etc/ozon/credentials.json",
		OzonURL:         "https://api-seller.ozon.ru/?a=b",
	}

	for k, v := range expected {
		if got := s.Get(k); got != v {
			t.Errorf("Incorrect value for %v - expected:%v, got:%v", k, v, got)
		}
	}

	// ... no fallback to the built-in defaults once a settings file exists
	if v := s.Get(PricesPath); v != "" {
		t.Errorf("Expected blank value for %v, got %v", PricesPath, v)
	}

	if v := s.Get(PricesPath, "prices.tsv"); v != "prices.tsv" {
		t.Errorf("Expected default value for %v, got %v", PricesPath, v)
	}

	if _, ok := s.Lookup("#"); ok {
		t.Errorf("Comment line parsed as a setting")
	}
}

func TestSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")

	if err := os.WriteFile(file, []byte("STALE=1\n"), 0600); err != nil {
		t.Fatalf("%v", err)
	}

	values := map[string]string{
		SpreadsheetID:   "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		CredentialsPath: "google-credentials.json",
		OzonClientID:    "222453",
	}

	if err := Save(file, values); err != nil {
		t.Fatalf("Unexpected error returned from Save (%v)", err)
	}

	s, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	for k, v := range values {
		if got := s.Get(k); got != v {
			t.Errorf("Incorrect value for %v - expected:%v, got:%v", k, v, got)
		}
	}

	if _, ok := s.Lookup("STALE"); ok {
		t.Errorf("Save did not overwrite the existing settings file")
	}
}

func TestRequire(t *testing.T) {
	s := Settings{
		file: ".env",
		values: map[string]string{
			SpreadsheetID: "   ",
			SheetName:     " Prices ",
		},
	}

	if _, err := s.Require(SpreadsheetID); !errors.Is(err, ErrMissing) {
		t.Errorf("Expected ErrMissing for blank %v, got %v", SpreadsheetID, err)
	}

	if _, err := s.Require(OzonAPIKey); !errors.Is(err, ErrMissing) {
		t.Errorf("Expected ErrMissing for absent %v, got %v", OzonAPIKey, err)
	}

	if v, err := s.Require(SheetName); err != nil || v != "Prices" {
		t.Errorf("Incorrect value for %v - expected:%v, got:%v (%v)", SheetName, "Prices", v, err)
	}
}

func TestLoadTakesValuesLiterally(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	contents := "# settings\r\n" +
		"OZON_API_KEY=k$HOME_X\r\n" +
		"EXCEL_FILE_PATH=prices #1.xlsx\n" +
		"this line has no separator\n" +
		"SHEET_NAME = Ozon's prices \n" +
		"GOOGLE_CREDS_PATH=C:\\ozon\\\n" +
		"OZON_CLIENT_ID=\"222453\"\n" +
		"OZON_API_URL=https://api-seller.ozon.ru/?a=b=c\n" +
		"  # indented comment=1\n" +
		"INVALID KEY=1\n" +
		"SPREADSHEET_ID=old\n" +
		"SPREADSHEET_ID=1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms\n"

	if err := os.WriteFile(file, []byte(contents), 0600); err != nil {
		t.Fatalf("%v", err)
	}

	s, err := Load(file)
	if err != nil {
		t.Fatalf("Unexpected error returned from Load (%v)", err)
	}

	expected := map[string]string{
		OzonAPIKey:      "k$HOME_X",
		PricesPath:      "prices #1.xlsx",
		SheetName:       "Ozon's prices",
		CredentialsPath: `C:\ozon\`,
		OzonClientID:    `"222453"`,
		OzonURL:         "https://api-seller.ozon.ru/?a=b=c",
		SpreadsheetID:   "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	}

	for k, v := range expected {
		if got := s.Get(k); got != v {
			t.Errorf("Incorrect value for %v - expected:%q, got:%q", k, v, got)
		}
	}

	if len(s.values) != len(expected) {
		t.Errorf("Incorrect number of settings - expected:%v, got:%v (%v)", len(expected), len(s.values), s.values)
	}
}

func TestSaveWritesKeyValueLines(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")

	values := map[string]string{
		SpreadsheetID: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		PricesPath:    "prices #1.xlsx",
		OzonAPIKey:    "k$HOME",
	}

	if err := Save(file, values); err != nil {
		t.Fatalf("Unexpected error returned from Save (%v)", err)
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("%v", err)
	}

	expected := "EXCEL_FILE_PATH=prices #1.xlsx\nOZON_API_KEY=k$HOME\nSPREADSHEET_ID=1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms\n"
	if string(bytes) != expected {
		t.Errorf("Incorrect settings file\n   expected:%q\n   got:     %q", expected, string(bytes))
	}

	if err := Save(file, map[string]string{SheetName: "a\nb"}); err == nil {
		t.Errorf("Expected error saving multi-line value")
	}
}
