package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/birddeck/birddeck/cmd/birddeck/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Log in to the dashboard"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Log out and discard the stored session"`
		Signup    commands.SignupCmd    `cmd:"" help:"Create a dashboard user"`
		Open      commands.OpenCmd      `cmd:"" help:"Open a screen by path"`
		Accounts  commands.AccountsCmd  `cmd:"" help:"Manage connected posting accounts"`
		Generate  commands.GenerateCmd  `cmd:"" help:"Generate tweets with AI"`
		Schedule  commands.ScheduleCmd  `cmd:"" help:"Schedule a tweet for the active account"`
		Analytics commands.AnalyticsCmd `cmd:"" help:"Show engagement analytics"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
