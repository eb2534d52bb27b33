package commands

import (
	"context"
	"fmt"

	"github.com/birddeck/birddeck/internal/api"
	"github.com/birddeck/birddeck/internal/session"
)

type LoginCmd struct {
	Username string `arg:"" help:"Dashboard username"`
	Password string `help:"Password (prompted when omitted)" env:"BIRDDECK_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if app.sessions.Initialize(ctx) == session.StatusAuthenticated {
		fmt.Println("Already logged in. Run 'birddeck logout' to switch users.")
		return nil
	}

	password := l.Password
	if password == "" {
		fmt.Print("Password: ")
		_, _ = fmt.Scanln(&password)
	}

	if err := app.sessions.Login(ctx, l.Username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s.\n", l.Username)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	app.sessions.Initialize(ctx)
	app.sessions.Logout()

	fmt.Println("Logged out.")
	return nil
}

type SignupCmd struct {
	Username string `arg:"" help:"Desired username (3 characters minimum)"`
	Email    string `help:"Email address" required:""`
	Password string `help:"Password (8 characters minimum)" required:"" env:"BIRDDECK_PASSWORD"`
}

func (s *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	message, err := app.clients.Auth.Register(ctx, api.Registration{
		Username: s.Username,
		Email:    s.Email,
		Password: s.Password,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if message != "" {
		fmt.Println(message)
	}
	fmt.Printf("User %q created. Log in with:\n  birddeck login %s\n", s.Username, s.Username)
	return nil
}
