package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/docket"
)

// NewCmd implements the docket new command.
type NewCmd struct {
	flags *Flags

	// flags
	title string
	body  string
	tasks []string
}

// NewNewCmd creates a new new command.
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application.
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create a new issue",
		UsageText: "docket new [--title <title>] [--body <text>] [--task <text>]...",
		Description: `Authors a new issue document in the open collection. The issue
number is assigned sequentially and never reused.

Without --title an interactive form prompts for the details.

Examples:
  docket new --title "Fix the importer"
  docket new --title "Release 1.4" --task "tag the release" --task "+docs update changelog"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "issue title (becomes the document heading)",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "optional description placed under the heading",
				Destination: &cmd.body,
			},
			&cli.StringSliceFlag{
				Name:        "task",
				Usage:       "checklist task text (repeatable)",
				Destination: &cmd.tasks,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.title == "" {
		if err := cmd.promptForm(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cmd.title) == "" {
		return fmt.Errorf("a title is required")
	}

	tasks := make([]string, 0, len(cmd.tasks))
	for _, t := range cmd.tasks {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "- [") {
			t = "- [ ] " + t
		}
		tasks = append(tasks, t)
	}

	doc, err := docket.RenderDocument(cmd.flags.Config.Templates.Issue, docket.DocumentData{
		Title: strings.TrimSpace(cmd.title),
		Body:  strings.TrimSpace(cmd.body),
		Tasks: tasks,
	})
	if err != nil {
		return fmt.Errorf("render issue document: %w", err)
	}

	iss, err := cmd.flags.App.Tracker.CreateIssue(ctx, doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Created issue %s: %s\n", iss.Number, iss.Title)
	return nil
}

// promptForm collects the issue details interactively.
func (cmd *NewCmd) promptForm() error {
	var taskLines string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Description("Becomes the document heading").
			Value(&cmd.title),
		huh.NewText().
			Title("Description").
			Description("Optional prose placed under the heading").
			Value(&cmd.body),
		huh.NewText().
			Title("Tasks").
			Description("One task per line; tags like +unit-test are expanded later").
			Value(&taskLines),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("collect issue details: %w", err)
	}

	for _, line := range strings.Split(taskLines, "\n") {
		if strings.TrimSpace(line) != "" {
			cmd.tasks = append(cmd.tasks, line)
		}
	}

	return nil
}
