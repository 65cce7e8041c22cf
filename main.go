package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Serve   ServeCmd         `cmd:"" help:"Run the REST and WebSocket game servers"`
	Play    PlayCmd          `cmd:"" help:"Play a hot-seat game in the terminal"`
}

// main - is the entry point of the application.
func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tictactoe"),
		kong.Description("Tic-tac-toe with move history and time travel"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
