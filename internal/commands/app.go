package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/toumakido/my-claude/todoapi/internal/config"
	"github.com/toumakido/my-claude/todoapi/pkg/logutils"
)

// NewApp builds the root todoapi command with every subcommand registered.
// Output of client commands goes to w.
func NewApp(version string, w io.Writer) *cli.Command {
	var logCloser func()

	flags := &Flags{}

	app := &cli.Command{
		Name:      "todoapi",
		Usage:     "In-memory todo list HTTP API",
		UsageText: "todoapi [global options] command [command options]",
		Description: `todoapi serves a small todo list API on /api/todos and ships
client commands for talking to a running server.

Run 'todoapi serve' to start the server.`,
		Version: version,
		Writer:  w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic); overrides config",
				Sources:     cli.EnvVars("TODOAPI_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to a JSON log file (logs to stderr when empty); overrides config",
				Sources:     cli.EnvVars("TODOAPI_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TODOAPI_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "url",
				Usage:       "base URL of the server used by todo commands",
				Sources:     cli.EnvVars("TODOAPI_URL"),
				Value:       "http://localhost:8080",
				Destination: &flags.URL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			level := cfg.LogLevel
			if flags.LogLevel != "" {
				level = flags.LogLevel
			}
			logFile := cfg.LogFile
			if flags.LogFile != "" {
				logFile = flags.LogFile
			}

			logger, closer, err := logutils.New(level, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = NewServeCmd(flags).Register(app)
	app = NewTodoCmd(flags).Register(app)

	return app
}
