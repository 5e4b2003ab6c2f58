package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ozon-tools/ozon-app-sheets/settings"
)

const APP = "ozon-app-sheets"

// Command is a CLI command implementation. Each command owns its flags and help text.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help() string
	Flags() []cli.Flag
	Execute(ctx context.Context, options *Options) error
}

// Options holds the global command line options.
type Options struct {
	Settings string
	LogFile  string
	Debug    bool
}

// NewApp returns the command line application. The global flags are parsed into 'options' and 'sync' is
// run if no command is given.
func NewApp(options *Options) *cli.App {
	sync := &Sync{
		timeout: 2 * time.Minute,
	}

	cmds := []Command{
		sync,
		&Setup{
			credentials: settings.DEFAULT_CREDENTIALS,
			prices:      settings.DEFAULT_PRICES,
		},
		&Get{
			file: time.Now().Format("2006-01-02T150405.tsv"),
		},
		&Version{},
	}

	app := &cli.App{
		Name:        APP,
		Usage:       "Publishes the Ozon catalog and recommended prices to a Google Sheets worksheet",
		UsageText:   fmt.Sprintf("%s [--debug] [--settings <file>] [--log <file>] [command] [options]", APP),
		Description: fmt.Sprintf("Runs '%s' if no command is given.", sync.Name()),
		Version:     VERSION,
		HideVersion: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "settings",
				Value:       DEFAULT_SETTINGS,
				Usage:       "Settings file",
				Destination: &options.Settings,
			},
			&cli.StringFlag{
				Name:        "log",
				Value:       DEFAULT_LOGFILE,
				Usage:       "Log file",
				Destination: &options.LogFile,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "Enable debugging information",
				Destination: &options.Debug,
			},
		},

		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fmt.Errorf("invalid command: %v", c.Args().First())
			}

			return sync.Execute(c.Context, options)
		},
	}

	for _, cmd := range cmds {
		app.Commands = append(app.Commands, command(cmd, options))
	}

	return app
}

func command(cmd Command, options *Options) *cli.Command {
	return &cli.Command{
		Name:        cmd.Name(),
		Usage:       cmd.Description(),
		ArgsUsage:   cmd.Usage(),
		Description: cmd.Help(),
		Flags:       cmd.Flags(),
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return fmt.Errorf("unexpected argument '%v' for '%v'", c.Args().First(), cmd.Name())
			}

			return cmd.Execute(c.Context, options)
		},
	}
}

// spreadsheetID accepts either a spreadsheet ID or a Google Sheets URL and returns the spreadsheet ID.
func spreadsheetID(v string) (string, error) {
	v = strings.TrimSpace(v)

	if match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(v); len(match) > 1 {
		return match[1], nil
	}

	if v == "" || strings.ContainsAny(v, "/:? ") {
		return "", fmt.Errorf("invalid spreadsheet '%v' - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'", v)
	}

	return v, nil
}
