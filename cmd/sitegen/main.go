package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/voyahchat/sitegen/cmd/sitegen/commands"
	"github.com/voyahchat/sitegen/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitegen"),
		kong.Description("Render a markdown content tree into a static site with resolved cross-document links."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()})
	ctx.FatalIfErrorf(err)
}
