package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"

	"github.com/ozon-tools/ozon-app-sheets/catalog"
	"github.com/ozon-tools/ozon-app-sheets/log"
	"github.com/ozon-tools/ozon-app-sheets/prices"
	"github.com/ozon-tools/ozon-app-sheets/report"
	"github.com/ozon-tools/ozon-app-sheets/settings"
	"github.com/ozon-tools/ozon-app-sheets/sheet"
)

// ErrNoProducts is returned when the catalog was retrieved but has no available products.
var ErrNoProducts = errors.New("no available products")

type Sync struct {
	timeout time.Duration
	mock    bool
	debug   bool
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Publishes the Ozon catalog and recommended prices to a Google Sheets worksheet"
}

func (cmd *Sync) Usage() string {
	return ""
}

func (cmd *Sync) Help() string {
	var b strings.Builder

	fmt.Fprintln(&b, "Retrieves the available products from the Ozon catalog, merges the recommended prices and replaces")
	fmt.Fprintln(&b, "the contents of the report worksheet.")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Settings:")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.SpreadsheetID, "Spreadsheet ID or URL (required)")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.SheetName, "Worksheet name. Defaults to the first worksheet")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.CredentialsPath, "Google service account or OAuth2 client credentials file")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.PricesPath, "Recommended prices file (.xlsx, .tsv or .csv)")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.OzonClientID, "Ozon Seller API client ID")
	fmt.Fprintf(&b, "   %-18s %s\n", settings.OzonAPIKey, "Ozon Seller API key")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Examples:")
	fmt.Fprintln(&b, "   ozon-app-sheets sync")
	fmt.Fprint(&b, "   ozon-app-sheets --debug --settings /usr/local/etc/ozon/.env sync --timeout 5m")

	return b.String()
}

func (cmd *Sync) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       cmd.timeout,
			Usage:       "Maximum time allowed for a sync",
			Destination: &cmd.timeout,
		},
		&cli.BoolFlag{
			Name:        "mock",
			Value:       cmd.mock,
			Usage:       "Uses the built-in sample catalog instead of the Ozon Seller API",
			Destination: &cmd.mock,
		},
	}
}

func (cmd *Sync) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	restore := log.With("run", uuid.NewString())
	defer restore()

	log.Infof("Starting Ozon to Google Sheets sync")

	// ... check settings
	conf, err := settings.Load(options.Settings)
	if err != nil {
		return err
	}

	v, err := conf.Require(settings.SpreadsheetID)
	if err != nil {
		return err
	}

	spreadsheet, err := spreadsheetID(v)
	if err != nil {
		return fmt.Errorf("%w: %v", settings.ErrMissing, err)
	}

	worksheet := conf.Get(settings.SheetName)
	credentials := conf.Get(settings.CredentialsPath, settings.DEFAULT_CREDENTIALS)
	file := conf.Get(settings.PricesPath, settings.DEFAULT_PRICES)

	if cmd.debug {
		log.Debugf("Spreadsheet - ID:%s  worksheet:%s  credentials:%s  prices:%s", spreadsheet, worksheet, credentials, file)
	}

	if cmd.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}

	// ... authorise
	client, err := authorize(ctx, credentials, SHEETS)
	if err != nil {
		return err
	}

	h, err := sheet.Open(ctx, spreadsheet, worksheet, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to connect to Google Sheets (%w)", err)
	}

	log.Infof("Connected to Google Sheets worksheet '%v'", h.Title())

	// ... sync
	rpt, err := synchronise(ctx, cmd.source(conf), file, h, time.Now())
	if err != nil {
		return err
	}

	log.Infof("Sync completed: %v products published", len(rpt.Rows))

	fmt.Println()
	fmt.Println("   Done! Check your Google Sheets worksheet")
	fmt.Println()

	return nil
}

func (cmd *Sync) source(conf *settings.Settings) catalog.Source {
	if cmd.mock {
		log.Infof("Using sample catalog")
		return catalog.NewMock()
	}

	clientID := strings.TrimSpace(conf.Get(settings.OzonClientID))
	key := strings.TrimSpace(conf.Get(settings.OzonAPIKey))

	if clientID == "" || clientID == settings.PLACEHOLDER_CLIENT_ID || key == "" || key == settings.PLACEHOLDER_API_KEY {
		log.Warnf("Ozon API credentials not configured - using sample catalog")
		return catalog.NewMock()
	}

	return catalog.NewOzon(conf.Get(settings.OzonURL, settings.DEFAULT_OZON_URL), clientID, key)
}

// synchronise fetches the catalog, merges the recommended prices and publishes the report. The worksheet is
// left unchanged if the catalog could not be retrieved or has no available products.
func synchronise(ctx context.Context, source catalog.Source, file string, h *sheet.Handle, now time.Time) (*report.Report, error) {
	products, err := source.ListAvailableProducts(ctx)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		log.Warnf("No available products found - worksheet not updated")
		return nil, ErrNoProducts
	}

	overrides := prices.Load(file)
	rpt := report.Build(products, overrides.Prices, now)

	log.Infof("Updating worksheet '%v'", h.Title())

	if err := sheet.Publish(ctx, rpt, h); err != nil {
		return nil, err
	}

	return &rpt, nil
}
