package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SpreadsheetID   = "SPREADSHEET_ID"
	SheetName       = "SHEET_NAME"
	CredentialsPath = "GOOGLE_CREDS_PATH"
	PricesPath      = "EXCEL_FILE_PATH"
	OzonAPIKey      = "OZON_API_KEY"
	OzonClientID    = "OZON_CLIENT_ID"
	OzonURL         = "OZON_API_URL"
)

const (
	DEFAULT_CREDENTIALS = "google-credentials.json"
	DEFAULT_PRICES      = "recommended_prices.xlsx"
	DEFAULT_OZON_URL    = "https://api-seller.ozon.ru"

	PLACEHOLDER_API_KEY   = "your_ozon_api_key_here"
	PLACEHOLDER_CLIENT_ID = "your_ozon_client_id_here"
)

var key = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// ErrMissing is returned (wrapped with the key) by Require for a setting that is absent or blank.
var ErrMissing = errors.New("missing setting")

type Settings struct {
	file   string
	values map[string]string
}

// Defaults returns the settings used when there is no settings file.
func Defaults() map[string]string {
	return map[string]string{
		SpreadsheetID:   "",
		CredentialsPath: DEFAULT_CREDENTIALS,
		PricesPath:      DEFAULT_PRICES,
		OzonAPIKey:      PLACEHOLDER_API_KEY,
		OzonClientID:    PLACEHOLDER_CLIENT_ID,
	}
}

// Load reads the KEY=VALUE settings file. A settings file that does not exist is not an error: the
// built-in defaults are used instead.
func Load(file string) (*Settings, error) {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return &Settings{file: file, values: Defaults()}, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to read settings file %v (%w)", file, err)
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read settings file %v (%w)", file, err)
	}

	values, err := parse(string(bytes))
	if err != nil {
		return nil, fmt.Errorf("invalid settings file %v (%w)", file, err)
	}

	return &Settings{file: file, values: values}, nil
}

// Save overwrites the settings file with the full mapping, one KEY=VALUE line per key in key order.
func Save(file string, values map[string]string) error {
	var b strings.Builder

	for _, k := range slices.Sorted(maps.Keys(values)) {
		v := values[k]
		if !key.MatchString(k) || strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("invalid setting %q=%q", k, v)
		}

		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}

	if err := os.WriteFile(file, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("unable to write settings file %v (%w)", file, err)
	}

	return nil
}

// parse reads KEY=VALUE lines. The first '=' separates the key from the value, lines starting with '#' and
// lines without an '=' are ignored, and values are taken literally (no quoting, variable expansion or
// trailing comments). Each value is handed to godotenv single-quoted, which godotenv leaves as is; the few
// values that cannot be single-quoted are kept directly.
func parse(text string) (map[string]string, error) {
	values := map[string]string{}
	literal := map[string]bool{}
	lines := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)

		if !key.MatchString(k) {
			continue
		}

		if strings.Contains(v, "'") || strings.HasSuffix(v, "\\") {
			values[k] = v
			literal[k] = true
		} else {
			lines = append(lines, fmt.Sprintf("%s='%s'", k, v))
			literal[k] = false
		}
	}

	parsed, err := godotenv.Unmarshal(strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}

	for k, v := range parsed {
		if !literal[k] {
			values[k] = v
		}
	}

	return values, nil
}

// Exists returns true if the settings file is present.
func Exists(file string) bool {
	_, err := os.Stat(file)

	return err == nil
}

func (s *Settings) File() string {
	return s.file
}

// Get returns the value for key, falling back to the first default (or "" if none was given).
func (s *Settings) Get(key string, defaults ...string) string {
	if v, ok := s.values[key]; ok {
		return v
	}

	if len(defaults) > 0 {
		return defaults[0]
	}

	return ""
}

func (s *Settings) Lookup(key string) (string, bool) {
	v, ok := s.values[key]

	return v, ok
}

// Require returns the trimmed value for key or an ErrMissing error if the value is absent or blank.
func (s *Settings) Require(key string) (string, error) {
	if v := strings.TrimSpace(s.values[key]); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("%w: %v is not set in %v", ErrMissing, key, s.file)
}
