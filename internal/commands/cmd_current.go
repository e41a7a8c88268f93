package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/styles"
)

// CurrentCmd implements the docket current command.
type CurrentCmd struct {
	flags *Flags

	// flags
	clear bool
}

// NewCurrentCmd creates a new current command.
func NewCurrentCmd(flags *Flags) *CurrentCmd {
	return &CurrentCmd{flags: flags}
}

// Register adds the current command to the application.
func (cmd *CurrentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "current",
		Usage:     "Show or change the current issue",
		UsageText: "docket current [number] [--clear]",
		Description: `Without arguments, prints the issue the tracker resolves as
current. With a number, points the tracker at that issue. With --clear
the pointer is removed and the lowest-numbered open issue becomes
current again.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "remove the pointer",
				Destination: &cmd.clear,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CurrentCmd) run(ctx context.Context, c *cli.Command) error {
	tracker := cmd.flags.App.Tracker
	out := c.Root().Writer

	if cmd.clear {
		if err := tracker.ClearCurrent(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "current issue cleared")
		return nil
	}

	if number := c.Args().First(); number != "" {
		if err := tracker.SetCurrent(ctx, number); err != nil {
			return err
		}
		fmt.Fprintf(out, "current issue set to %s\n", number)
		return nil
	}

	iss, err := tracker.CurrentIssue(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", iss.Number, styles.Title.Render(iss.Title))
	return nil
}
