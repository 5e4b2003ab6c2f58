package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ozon-tools/ozon-app-sheets/log"
	"github.com/ozon-tools/ozon-app-sheets/prices"
	"github.com/ozon-tools/ozon-app-sheets/settings"
)

type Setup struct {
	url         string
	worksheet   string
	credentials string
	prices      string
	clientID    string
	apiKey      string
	force       bool
}

func (cmd *Setup) Name() string {
	return "setup"
}

func (cmd *Setup) Description() string {
	return "Creates the settings file and a sample recommended prices workbook"
}

func (cmd *Setup) Usage() string {
	return "--url <url> [options]"
}

func (cmd *Setup) Help() string {
	var b strings.Builder

	fmt.Fprintln(&b, "Creates the settings file used by 'sync' and, if it does not already exist, a sample recommended")
	fmt.Fprintln(&b, "prices workbook.")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Examples:")
	fmt.Fprintln(&b, `   ozon-app-sheets setup --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Fprint(&b, `                         --ozon-client-id 222453 --ozon-api-key "54d139cd-..."`)

	return b.String()
}

func (cmd *Setup) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "url", Value: cmd.url, Usage: "Spreadsheet URL or ID", Destination: &cmd.url},
		&cli.StringFlag{Name: "sheet", Value: cmd.worksheet, Usage: "Worksheet name. Defaults to the first worksheet", Destination: &cmd.worksheet},
		&cli.StringFlag{Name: "credentials", Value: cmd.credentials, Usage: "Path for the Google 'credentials.json' file", Destination: &cmd.credentials},
		&cli.StringFlag{Name: "prices", Value: cmd.prices, Usage: "Path for the recommended prices file", Destination: &cmd.prices},
		&cli.StringFlag{Name: "ozon-client-id", Value: cmd.clientID, Usage: "Ozon Seller API client ID", Destination: &cmd.clientID},
		&cli.StringFlag{Name: "ozon-api-key", Value: cmd.apiKey, Usage: "Ozon Seller API key", Destination: &cmd.apiKey},
		&cli.BoolFlag{Name: "force", Value: cmd.force, Usage: "Overwrites an existing settings file", Destination: &cmd.force},
	}
}

func (cmd *Setup) Execute(ctx context.Context, options *Options) error {
	// ... check parameters
	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	spreadsheet, err := spreadsheetID(cmd.url)
	if err != nil {
		return err
	}

	if settings.Exists(options.Settings) && !cmd.force {
		return fmt.Errorf("settings file %v already exists - use --force to replace it", options.Settings)
	}

	values := map[string]string{
		settings.SpreadsheetID:   spreadsheet,
		settings.CredentialsPath: cmd.credentials,
		settings.PricesPath:      cmd.prices,
		settings.OzonClientID:    orDefault(cmd.clientID, settings.PLACEHOLDER_CLIENT_ID),
		settings.OzonAPIKey:      orDefault(cmd.apiKey, settings.PLACEHOLDER_API_KEY),
	}

	if strings.TrimSpace(cmd.worksheet) != "" {
		values[settings.SheetName] = strings.TrimSpace(cmd.worksheet)
	}

	if err := settings.Save(options.Settings, values); err != nil {
		return err
	}

	log.Infof("Created settings file %v", options.Settings)

	if _, err := os.Stat(cmd.prices); err == nil {
		log.Infof("Using existing recommended prices file %v", cmd.prices)
	} else if ext := strings.ToLower(filepath.Ext(cmd.prices)); ext == ".xlsx" || ext == ".xlsm" {
		if err := prices.CreateSample(cmd.prices); err != nil {
			return err
		}

		log.Infof("Created sample recommended prices file %v", cmd.prices)
	}

	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Printf("    1. Copy your Google credentials to %v\n", cmd.credentials)
	fmt.Printf("    2. Fill in %v with your recommended prices\n", cmd.prices)
	fmt.Printf("    3. Run '%v sync'\n", APP)
	fmt.Println()

	return nil
}

func orDefault(v, defval string) string {
	if strings.TrimSpace(v) == "" {
		return defval
	}

	return strings.TrimSpace(v)
}
