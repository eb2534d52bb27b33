package commands

import (
	"context"
	"fmt"

	"github.com/birddeck/birddeck/internal/shell"
)

type OpenCmd struct {
	Path string `arg:"" optional:"" help:"Screen path, e.g. /dashboard" default:"/"`
}

func (o *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	app.sessions.Initialize(ctx)

	nav, err := app.navigator()
	if err != nil {
		return err
	}
	defer nav.Close()

	return printFrame(ctx, nav.Navigate(ctx, o.Path))
}

func printFrame(ctx context.Context, frame shell.Frame) error {
	switch frame.Kind {
	case shell.FrameNotFound:
		return fmt.Errorf("no screen at %s", frame.Path)
	case shell.FrameError:
		return fmt.Errorf("failed to load %s: %w", frame.Path, frame.Err)
	case shell.FrameLoading:
		fmt.Printf("%s is loading...\n", frame.Path)
		return nil
	default:
		out, err := frame.Screen.Render(ctx)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", frame.Path, err)
		}

		fmt.Printf("%s  (%s)\n\n%s", frame.Screen.Title(), frame.Path, out)
		return nil
	}
}
