package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/styles"
	"github.com/colonyops/docket/pkg/iojson"
)

// NextCmd implements the docket next command.
type NextCmd struct {
	flags *Flags

	// flags
	json bool
}

// NewNextCmd creates a new next command.
func NewNextCmd(flags *Flags) *NextCmd {
	return &NextCmd{flags: flags}
}

// Register adds the next command to the application.
func (cmd *NextCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "next",
		Usage:     "Preview the current task and its steps",
		UsageText: "docket next [--json]",
		Description: `Prints the first incomplete task of the current issue together
with the steps its tags expand to. Nothing is modified; running next
twice prints the same task.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the preview as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NextCmd) run(ctx context.Context, c *cli.Command) error {
	preview, err := cmd.flags.App.Tracker.NextTask(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.json {
		return iojson.WriteLine(out, preview)
	}

	fmt.Fprintf(out, "%s %s\n", preview.Issue.Number, styles.Title.Render(preview.Issue.Title))
	fmt.Fprintf(out, "  %s %s\n", styles.Checkbox(false), preview.Task.Text)
	for _, step := range preview.Task.Steps {
		fmt.Fprintf(out, "      %s\n", styles.Muted.Render(step))
	}
	return nil
}
