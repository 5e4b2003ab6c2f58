package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ozon-tools/ozon-app-sheets/commands"
	"github.com/ozon-tools/ozon-app-sheets/log"
)

var options = commands.Options{
	Settings: commands.DEFAULT_SETTINGS,
	LogFile:  commands.DEFAULT_LOGFILE,
	Debug:    false,
}

func main() {
	closelog := func() {}

	app := commands.NewApp(&options)
	app.Before = func(c *cli.Context) error {
		f, err := log.Init(options.LogFile, options.Debug)
		if err != nil {
			fmt.Printf("WARN: %v - logging to console only\n", err)
			f, _ = log.Init("", options.Debug)
		}

		closelog = f

		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := app.RunContext(ctx, os.Args)

	cancel()

	if err != nil {
		log.Errorf("%v", err)
		closelog()

		fmt.Println()
		fmt.Printf("   ERROR: %v\n", err)
		fmt.Printf("   See %v for details\n", options.LogFile)
		fmt.Println()
		os.Exit(1)
	}

	closelog()
}
