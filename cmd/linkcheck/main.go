package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/sanzoku-labs/linkcheck/cmd/linkcheck/commands"
	"github.com/sanzoku-labs/linkcheck/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("linkcheck"),
		kong.Description("Cross-reference validator for markdown documentation trees."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()})
	ctx.FatalIfErrorf(err)
}
