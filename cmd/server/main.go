package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/toumakido/my-claude/todoapi/internal/commands"
	"github.com/toumakido/my-claude/todoapi/pkg/iojson"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}

	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	app := commands.NewApp(build(), os.Stdout)

	if err := app.Run(context.Background(), os.Args); err != nil {
		_ = iojson.WriteError(os.Stderr, err.Error(), nil)
		os.Exit(1)
	}
}
