package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docket/internal/core/issue"
	"github.com/colonyops/docket/internal/server"
	"github.com/colonyops/docket/internal/store/markdown"
)

// ServeCmd implements the docket serve command.
type ServeCmd struct {
	flags *Flags

	// flags
	addr  string
	token string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the tracker over HTTP",
		UsageText: "docket serve [--addr <host:port>] [--token <token>]",
		Description: `Serves the tracker dispatch endpoints until interrupted. A
bearer token is required; set it with --token or server.token in the
config file. Documents edited outside the process are picked up
through a filesystem watcher.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "bearer token (overrides server.token)",
				Destination: &cmd.token,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	app := cmd.flags.App

	if !app.Store.Initialized() {
		return issue.ErrUninitialized
	}

	addr := cmd.flags.Config.Server.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}
	token := cmd.flags.Config.Server.Token
	if cmd.token != "" {
		token = cmd.token
	}
	if token == "" {
		return &issue.UsageError{
			Msg:  "no server token configured",
			Hint: "set server.token in the config file or pass --token",
		}
	}

	srv, err := server.New(app.Tracker, addr, token, cmd.flags.Logger)
	if err != nil {
		return err
	}

	watcher, err := markdown.NewWatcher(app.Store)
	if err != nil {
		return fmt.Errorf("watch open collection: %w", err)
	}
	defer watcher.Close()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-watcher.Events():
				srv.InvalidateListing()
			}
		}
	}()

	fmt.Fprintf(c.Root().Writer, "serving on %s\n", addr)
	return srv.Start(ctx)
}
