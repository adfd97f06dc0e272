package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Catalog string           `kong:"env='PICKEMS_CATALOG_PATH',help='League catalog YAML (defaults to the built-in season)'"`

	Play   PlayCmd   `cmd:"" default:"1" help:"Rank teams in the terminal"`
	Export ExportCmd `cmd:"" help:"Render a ranking board to PNG without a UI"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pickems"),
		kong.Description("Pick'Ems ranking board for the league finals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
