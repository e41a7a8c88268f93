package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// InitCmd implements the docket init command.
type InitCmd struct {
	flags *Flags
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize the issue tracker",
		UsageText: "docket init",
		Description: `Creates the open/ and closed/ issue collections under the data
directory. Running init on an initialized tracker is a no-op.

Examples:
  docket init
  docket --dir ./issues init`,
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.App.Store.Init(ctx); err != nil {
		return fmt.Errorf("initialize tracker: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Initialized issue tracker in %s\n", cmd.flags.Config.DataDir)
	return nil
}
