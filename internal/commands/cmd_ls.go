package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/styles"
	"github.com/colonyops/docket/pkg/iojson"
)

// LsCmd implements the docket ls command.
type LsCmd struct {
	flags *Flags

	// flags
	json bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List open issues",
		UsageText: "docket ls [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit one JSON object per issue",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	summaries, err := cmd.flags.App.Tracker.ListIssues(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.json {
		for _, s := range summaries {
			if err := iojson.WriteLine(out, s); err != nil {
				return err
			}
		}
		return nil
	}

	if len(summaries) == 0 {
		fmt.Fprintln(out, "no open issues")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range summaries {
		marker := " "
		if s.Current {
			marker = styles.Marker.Render("*")
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", marker, s.Number, s.Done, s.Total, s.Title)
	}
	return w.Flush()
}
