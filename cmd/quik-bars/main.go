package main

import (
	"errors"
	"log/slog"
	"os"

	"quik-bars/internal/app"
	"quik-bars/internal/prompt"
	"quik-bars/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	cmd, err := parseArgs(os.Args[1:])
	if errors.Is(err, errHelp) {
		return
	}
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	if cmd.interactive() {
		a.Runner.Confirm = prompt.Terminal{}.Confirm
	}

	if err := cmd.run(a.Runner); err != nil {
		if errors.Is(err, app.ErrAborted) {
			return
		}
		a.Log.Error(cmd.name(), "error", err)
		os.Exit(1)
	}
}
