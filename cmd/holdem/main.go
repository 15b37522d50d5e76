package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"holdem.hcl" help:"Path to the HCL configuration file" type:"path"`
	Env    string `default:".env" help:"Dotenv file to load the API key from" type:"path"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play against bots with the odds tutor"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only games and report results"`
	Odds     OddsCmd          `cmd:"" help:"Evaluate a hand and list its outs"`
	Store    StoreCmd         `cmd:"" help:"Collect free chips for your profile"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Texas Hold'em trainer with bots, pot odds and outs quizzes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
