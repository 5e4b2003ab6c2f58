package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"

	"github.com/ozon-tools/ozon-app-sheets/log"
	"github.com/ozon-tools/ozon-app-sheets/settings"
	"github.com/ozon-tools/ozon-app-sheets/sheet"
)

type Get struct {
	file  string
	debug bool
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the report from the Google Sheets worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "[--file <file>]"
}

func (cmd *Get) Help() string {
	return "Downloads the report worksheet to a TSV file.\n\nExamples:\n   ozon-app-sheets --debug get --file \"prices.tsv\""
}

func (cmd *Get) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Value:       cmd.file,
			Usage:       "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'",
			Destination: &cmd.file,
		},
	}
}

func (cmd *Get) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

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
		return err
	}

	if cmd.debug {
		log.Debugf("Spreadsheet - ID:%s  worksheet:%s", spreadsheet, conf.Get(settings.SheetName))
	}

	// ... authorise
	client, err := authorize(ctx, conf.Get(settings.CredentialsPath, settings.DEFAULT_CREDENTIALS), SHEETS)
	if err != nil {
		return err
	}

	h, err := sheet.Open(ctx, spreadsheet, conf.Get(settings.SheetName), option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to connect to Google Sheets (%w)", err)
	}

	if err := download(ctx, h, cmd.file); err != nil {
		return err
	}

	log.Infof("Retrieved report to file %s", cmd.file)

	return nil
}

// download writes the worksheet to a temporary file which replaces 'file' only once it is complete.
func download(ctx context.Context, h *sheet.Handle, file string) error {
	response, err := h.Download(ctx)
	if err != nil {
		return err
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in worksheet '%v'", h.Title())
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "report-*.tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := sheet.ToTSV(tmp, response); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	tmp.Close()

	return os.Rename(tmp.Name(), file)
}
