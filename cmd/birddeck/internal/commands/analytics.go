package commands

import (
	"context"
	"fmt"
)

type AnalyticsCmd struct {
	Username string `arg:"" optional:"" help:"Account username (defaults to the active account)"`
}

func (a *AnalyticsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.requireSession(ctx); err != nil {
		return err
	}

	username := a.Username
	if username == "" {
		account, ok := app.store.SelectedAccount()
		if !ok {
			return fmt.Errorf("no active account\n\nRun 'birddeck accounts select <id>' or pass a username")
		}
		username = account.Username
	}

	metrics, err := app.clients.Analytics.Summary(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to fetch analytics for @%s: %w", username, err)
	}

	fmt.Printf("@%s\n", username)
	fmt.Printf("  Followers:          %d\n", metrics.FollowersCount)
	fmt.Printf("  Following:          %d\n", metrics.FriendsCount)
	fmt.Printf("  Posts:              %d\n", metrics.StatusesCount)
	fmt.Printf("  Total engagement:   %d\n", metrics.TotalEngagement)
	fmt.Printf("  Average engagement: %.1f\n", metrics.AverageEngagement)

	return nil
}
