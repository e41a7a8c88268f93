package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/styles"
	"github.com/colonyops/docket/pkg/iojson"
)

// DoneCmd implements the docket done command.
type DoneCmd struct {
	flags *Flags

	// flags
	json bool
}

// NewDoneCmd creates a new done command.
func NewDoneCmd(flags *Flags) *DoneCmd {
	return &DoneCmd{flags: flags}
}

// Register adds the done command to the application.
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "done",
		Usage:     "Complete the current task",
		UsageText: "docket done [--json]",
		Description: `Marks the first incomplete task of the current issue as done.
When tasks remain, the next one is printed with its steps; when the
last task completes, the issue moves to the closed collection.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the result as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	result, err := cmd.flags.App.Tracker.CompleteCurrentTask(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.json {
		return iojson.WriteLine(out, result)
	}

	fmt.Fprintf(out, "%s %s\n", styles.Checkbox(true), result.CompletedTask)

	if result.Closed {
		fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("issue %s closed", result.Issue)))
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", styles.Checkbox(false), result.Next.Text)
	for _, step := range result.Next.Steps {
		fmt.Fprintf(out, "      %s\n", styles.Muted.Render(step))
	}
	return nil
}
