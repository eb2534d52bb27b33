package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/birddeck/birddeck/internal/api"
	"github.com/birddeck/birddeck/internal/store"
)

// Dashboard summarizes connected accounts and the active selection.
type Dashboard struct {
	Store *store.Store
}

func (Dashboard) Title() string { return "Dashboard" }

func (d Dashboard) Render(ctx context.Context) (string, error) {
	var b strings.Builder

	accounts := d.Store.Accounts()
	fmt.Fprintf(&b, "Connected accounts: %d\n", len(accounts))

	if selected, ok := d.Store.SelectedAccount(); ok {
		fmt.Fprintf(&b, "Active account: @%s\n", selected.Username)
	} else {
		b.WriteString("Active account: none selected\n")
	}

	return b.String(), nil
}

// Accounts lists connected accounts with their selection state.
type Accounts struct {
	Store *store.Store
}

func (Accounts) Title() string { return "Account Manager" }

func (a Accounts) Render(ctx context.Context) (string, error) {
	accounts := a.Store.Accounts()
	if len(accounts) == 0 {
		return "No accounts connected.\n\n  birddeck accounts add <username>\n", nil
	}

	selected, _ := a.Store.SelectedAccountID()

	var b strings.Builder
	for _, account := range accounts {
		marker := " "
		if account.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s @%-20s %s\n", marker, account.Username, account.ID)
	}

	return b.String(), nil
}

// Composer shows the compose form state for the active account.
type Composer struct {
	Store *store.Store
}

func (Composer) Title() string { return "Tweet Composer" }

func (c Composer) Render(ctx context.Context) (string, error) {
	account, ok := c.Store.SelectedAccount()
	if !ok {
		return "Select an account before composing.\n", nil
	}

	return fmt.Sprintf("Composing as @%s (limit %d characters per tweet).\n", account.Username, api.MaxTweetLength), nil
}

// Generator describes the AI generation surface.
type Generator struct{}

func (Generator) Title() string { return "AI Tweet Generator" }

func (Generator) Render(ctx context.Context) (string, error) {
	return "Generate tweets with AI.\n\n  birddeck generate <topic> --tone witty --type single\n", nil
}

// Schedule shows pending scheduling context for the active account.
type Schedule struct {
	Store *store.Store
}

func (Schedule) Title() string { return "Schedule Manager" }

func (s Schedule) Render(ctx context.Context) (string, error) {
	account, ok := s.Store.SelectedAccount()
	if !ok {
		return "Select an account before scheduling.\n", nil
	}

	return fmt.Sprintf("Scheduling for @%s.\n\n  birddeck schedule <text> --at <time>\n", account.Username), nil
}

// Analytics fetches and renders the engagement summary for the active
// account. The fetch happens at construction so the screen is lazy end
// to end.
type Analytics struct {
	Username string
	Metrics  api.AccountMetrics
}

// NewAnalytics builds the analytics screen for the active account.
func NewAnalytics(st *store.Store, client *api.AnalyticsClient) Factory {
	return func(ctx context.Context) (Screen, error) {
		account, ok := st.SelectedAccount()
		if !ok {
			return Analytics{}, nil
		}

		metrics, err := client.Summary(ctx, account.Username)
		if err != nil {
			return nil, err
		}

		return Analytics{Username: account.Username, Metrics: metrics}, nil
	}
}

func (Analytics) Title() string { return "Analytics" }

func (a Analytics) Render(ctx context.Context) (string, error) {
	if a.Username == "" {
		return "Select an account to see analytics.\n", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s\n", a.Username)
	fmt.Fprintf(&b, "  followers:          %d\n", a.Metrics.FollowersCount)
	fmt.Fprintf(&b, "  posts:              %d\n", a.Metrics.StatusesCount)
	fmt.Fprintf(&b, "  total engagement:   %d\n", a.Metrics.TotalEngagement)
	fmt.Fprintf(&b, "  average engagement: %.1f\n", a.Metrics.AverageEngagement)

	return b.String(), nil
}

// Settings shows the client configuration surface.
type Settings struct {
	APIBaseURL string
	StateDir   string
}

func (Settings) Title() string { return "Settings" }

func (s Settings) Render(ctx context.Context) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "API base URL: %s\n", s.APIBaseURL)
	fmt.Fprintf(&b, "State dir:    %s\n", s.StateDir)

	return b.String(), nil
}
