package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/birddeck/birddeck/internal/api"
)

type ScheduleCmd struct {
	Text string `arg:"" help:"Tweet text"`
	At   string `help:"Publish time, RFC 3339 (e.g. 2026-09-01T09:00:00Z)" required:""`
}

func (s *ScheduleCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.requireSession(ctx); err != nil {
		return err
	}

	at, err := time.Parse(time.RFC3339, s.At)
	if err != nil {
		return fmt.Errorf("invalid publish time %q: %w", s.At, err)
	}

	account, ok := app.store.SelectedAccount()
	if !ok {
		return fmt.Errorf("no active account\n\nRun 'birddeck accounts select <id>' first")
	}

	err = app.clients.Scheduler.ScheduleTweet(ctx, api.ScheduleRequest{
		AccountID:   account.ID,
		Text:        s.Text,
		ScheduledAt: at,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Scheduled for @%s at %s.\n", account.Username, at.Format("2006-01-02 15:04:05 MST"))
	return nil
}
