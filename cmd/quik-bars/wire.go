//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"quik-bars/internal/app"

	"github.com/google/wire"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	Log    *slog.Logger
	Runner *app.Runner
}

// InitializeApp builds App (Config + Logger + Runner) via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideSeriesSaver,
		app.ProvideLoader,
		app.ProvideRunner,
		wire.Struct(new(App), "Config", "Log", "Runner"),
	)
	return nil, nil
}
