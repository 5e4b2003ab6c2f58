package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

const VERSION = "v0.1.0"

// Version is a CLI command implementation that displays the CLI version information.
type Version struct {
}

func (c *Version) Flags() []cli.Flag {
	return nil
}

// Execute prints the current version
func (c *Version) Execute(ctx context.Context, options *Options) error {
	fmt.Printf("%s\n", VERSION)

	return nil
}

// Returns 'version'
func (c *Version) Name() string {
	return "version"
}

// Description returns the 'version' command short form help
func (c *Version) Description() string {
	return "Displays the current version"
}

// Usage returns the string describing the additional options for the 'version' command
func (c *Version) Usage() string {
	return ""
}

// Help returns the 'version' command long form help
func (c *Version) Help() string {
	return fmt.Sprintf("Displays the %s version in the format v<major>.<minor>.<build> e.g. v1.00.10", APP)
}
