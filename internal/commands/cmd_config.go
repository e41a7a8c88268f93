package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/styles"
	"github.com/colonyops/docket/pkg/iojson"
)

// ConfigValidateCmd implements the docket config validate command.
type ConfigValidateCmd struct {
	flags *Flags

	// flags
	json bool
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "docket config validate [--json]",
				Description: `Checks the loaded configuration beyond structural validation:
the git binary is resolvable when staging is enabled, the data
directory is usable, and user template files exist and parse.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "emit the result as JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)

	if cmd.json {
		return cmd.outputJSON(c, err)
	}
	return cmd.outputText(c, err)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, err error) error {
	if err == nil {
		out := struct {
			Valid bool `json:"valid"`
		}{Valid: true}
		return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		_ = iojson.WriteError(err.Error(), nil)
		return cli.Exit("", 1)
	}

	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field] = fe.Err.Error()
	}
	_ = iojson.WriteError("configuration is invalid", fields)
	return cli.Exit("", 1)
}

func (cmd *ConfigValidateCmd) outputText(c *cli.Command, err error) error {
	out := c.Root().Writer

	if err == nil {
		fmt.Fprintln(out, styles.Success.Render("configuration is valid"))
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		fmt.Fprintf(out, "%s %s: %s\n", styles.Warning.Render("✗"), fe.Field, fe.Err.Error())
	}
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d error(s) found", len(fieldErrs))))
	return cli.Exit("", 1)
}
