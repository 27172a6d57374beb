package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/toumakido/my-claude/todoapi/internal/handler"
	"github.com/toumakido/my-claude/todoapi/internal/server"
	"github.com/toumakido/my-claude/todoapi/internal/store"
)

// ServeCmd implements the todoapi serve command.
type ServeCmd struct {
	flags *Flags

	addr    string
	origins []string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the todo API server",
		UsageText: "todoapi serve [--addr <host:port>] [--cors-origin <origin>...]",
		Description: `Serves the todo API on /api/todos backed by an in-memory store.

Items live only for the lifetime of the process.

Examples:
  todoapi serve
  todoapi serve --addr 127.0.0.1:5000 --cors-origin http://localhost:3000`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Usage:       "listen address (overrides config addr)",
				Sources:     cli.EnvVars("TODOAPI_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringSliceFlag{
				Name:        "cors-origin",
				Usage:       "allowed CORS origin, repeatable (overrides config cors.allowed_origins)",
				Sources:     cli.EnvVars("TODOAPI_CORS_ORIGINS"),
				Destination: &cmd.origins,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	addr := cfg.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}
	origins := cfg.CORS.AllowedOrigins
	if len(cmd.origins) > 0 {
		origins = cmd.origins
	}

	logger := log.With().Str("component", "todoapi").Logger()

	h := handler.NewTodoHandler(
		store.NewMemoryStore(),
		handler.WithLogger(logger),
		handler.WithAllowedOrigins(origins...),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(h, addr, logger)
	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
