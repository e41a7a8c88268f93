package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ShowCmd implements the docket show command.
type ShowCmd struct {
	flags *Flags

	// flags
	raw bool
}

// NewShowCmd creates a new show command.
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print an issue document",
		UsageText: "docket show [number] [--raw]",
		Description: `Prints the issue document. Without a number the current issue is
shown. Output is rendered markdown on a terminal and the raw document
otherwise, so it pipes cleanly.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the document text without rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	tracker := cmd.flags.App.Tracker

	var content string
	if number := c.Args().First(); number != "" {
		iss, err := tracker.GetIssue(ctx, number)
		if err != nil {
			return err
		}
		content = iss.Content
	} else {
		iss, err := tracker.CurrentIssue(ctx)
		if err != nil {
			return err
		}
		content = iss.Content
	}

	out := c.Root().Writer

	if cmd.raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprint(out, content)
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width, 100)),
	)
	if err != nil {
		fmt.Fprint(out, content)
		return nil
	}

	rendered, err := r.Render(content)
	if err != nil {
		fmt.Fprint(out, content)
		return nil
	}

	fmt.Fprint(out, rendered)
	return nil
}
