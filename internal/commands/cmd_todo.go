package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/toumakido/my-claude/todoapi/internal/client"
	"github.com/toumakido/my-claude/todoapi/pkg/iojson"
)

// TodoCmd implements the todoapi todo command group.
type TodoCmd struct {
	flags *Flags

	// list flags
	listPretty bool

	// complete flags
	completeUndo bool
}

// NewTodoCmd creates a new todo command.
func NewTodoCmd(flags *Flags) *TodoCmd {
	return &TodoCmd{flags: flags}
}

func (cmd *TodoCmd) client() *client.Client {
	return client.New(cmd.flags.URL)
}

// Register adds the todo command to the application.
func (cmd *TodoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "todo",
		Usage: "Manage todo items on a running server",
		Description: `Client commands for a running todo API server.

The server is selected with the global --url flag.

Examples:
  todoapi todo list
  todoapi todo add "Buy milk"
  todoapi todo complete 1
  todoapi todo complete 1 --undo
  todoapi todo delete 1`,
		Commands: []*cli.Command{
			cmd.listCmd(),
			cmd.getCmd(),
			cmd.addCmd(),
			cmd.completeCmd(),
			cmd.deleteCmd(),
		},
	})

	return app
}

func (cmd *TodoCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List todo items",
		UsageText: "todoapi todo list [--pretty]",
		Description: `Lists todo items as JSON lines, ordered by id.

Use --pretty to print a single indented JSON array instead.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "pretty",
				Usage:       "print an indented JSON array",
				Destination: &cmd.listPretty,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TodoCmd) getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a single todo item",
		UsageText: "todoapi todo get <id>",
		Action:    cmd.runGet,
	}
}

func (cmd *TodoCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a todo item",
		UsageText: "todoapi todo add <name>",
		Action:    cmd.runAdd,
	}
}

func (cmd *TodoCmd) completeCmd() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a todo item as complete",
		UsageText: "todoapi todo complete <id> [--undo]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "undo",
				Usage:       "mark the item as not complete",
				Destination: &cmd.completeUndo,
			},
		},
		Action: cmd.runComplete,
	}
}

func (cmd *TodoCmd) deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a todo item",
		UsageText: "todoapi todo delete <id>",
		Action:    cmd.runDelete,
	}
}

func (cmd *TodoCmd) runList(ctx context.Context, c *cli.Command) error {
	todos, err := cmd.client().List(ctx)
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}

	if cmd.listPretty {
		return iojson.WriteIndent(c.Root().Writer, todos)
	}

	for _, todo := range todos {
		if err := iojson.WriteLine(c.Root().Writer, todo); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *TodoCmd) runGet(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c, "todoapi todo get <id>")
	if err != nil {
		return err
	}

	todo, err := cmd.client().Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get todo: %w", err)
	}

	return iojson.WriteLine(c.Root().Writer, todo)
}

func (cmd *TodoCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: todoapi todo add <name>")
	}

	name := c.Args().Get(0)
	if err := cmd.client().Create(ctx, name); err != nil {
		return fmt.Errorf("add todo: %w", err)
	}

	log.Debug().Str("name", name).Msg("todo added")
	_, _ = fmt.Fprintln(c.Root().Writer, "created")
	return nil
}

func (cmd *TodoCmd) runComplete(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c, "todoapi todo complete <id> [--undo]")
	if err != nil {
		return err
	}

	if err := cmd.client().SetCompleted(ctx, id, !cmd.completeUndo); err != nil {
		return fmt.Errorf("complete todo: %w", err)
	}

	if cmd.completeUndo {
		_, _ = fmt.Fprintln(c.Root().Writer, "reopened")
		return nil
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "completed")
	return nil
}

func (cmd *TodoCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id, err := idArg(c, "todoapi todo delete <id>")
	if err != nil {
		return err
	}

	if err := cmd.client().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, "deleted")
	return nil
}

func idArg(c *cli.Command, usage string) (int, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}

	raw := c.Args().Get(0)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", raw)
	}
	return id, nil
}
