package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/birddeck/birddeck/internal/accountlink"
	"github.com/birddeck/birddeck/internal/store"
)

// AccountsCmd manages the locally connected posting accounts.
type AccountsCmd struct {
	List    AccountsListCmd    `cmd:"" help:"List connected accounts"`
	Add     AccountsAddCmd     `cmd:"" help:"Connect an account"`
	Remove  AccountsRemoveCmd  `cmd:"" help:"Remove a connected account"`
	Select  AccountsSelectCmd  `cmd:"" help:"Set the active account"`
	Connect AccountsConnectCmd `cmd:"" help:"Print the OAuth authorization URL for account linking"`
}

// AccountsListCmd lists connected accounts.
type AccountsListCmd struct{}

func (c *AccountsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	accounts := app.store.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts connected.")
		fmt.Println()
		fmt.Println("To connect an account:")
		fmt.Println("  birddeck accounts add <username>")
		return nil
	}

	selected, _ := app.store.SelectedAccountID()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tSTATUS\tACTIVE")

	for _, account := range accounts {
		status := "inactive"
		if account.IsActive {
			status = "active"
		}

		isSelected := ""
		if account.ID == selected {
			isSelected = "*"
		}

		fmt.Fprintf(w, "%s\t@%s\t%s\t%s\n", account.ID, account.Username, status, isSelected)
	}

	w.Flush()
	return nil
}

// AccountsAddCmd connects a new account.
type AccountsAddCmd struct {
	Username string `arg:"" help:"Posting account username"`
	Select   bool   `help:"Make this the active account" default:"true"`
}

func (c *AccountsAddCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	account := store.Account{
		ID:       uuid.New().String(),
		Username: c.Username,
		IsActive: true,
	}

	if err := app.store.AddAccount(account); err != nil {
		return fmt.Errorf("failed to add account: %w", err)
	}

	if c.Select {
		if err := app.store.SelectAccount(account.ID); err != nil {
			return fmt.Errorf("failed to select account: %w", err)
		}
	}

	fmt.Printf("Connected @%s with ID %s.\n", account.Username, account.ID)
	return nil
}

// AccountsRemoveCmd removes a connected account.
type AccountsRemoveCmd struct {
	ID string `arg:"" help:"Account ID"`
}

func (c *AccountsRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.store.RemoveAccount(c.ID); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}

	fmt.Printf("Removed account %s.\n", c.ID)
	return nil
}

// AccountsSelectCmd sets the active account.
type AccountsSelectCmd struct {
	ID string `arg:"" help:"Account ID"`
}

func (c *AccountsSelectCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.store.SelectAccount(c.ID); err != nil {
		return fmt.Errorf("failed to select account: %w\n\nRun 'birddeck accounts list' to see connected accounts", err)
	}

	fmt.Printf("Active account set to %s.\n", c.ID)
	return nil
}

// AccountsConnectCmd starts the OAuth linking flow by printing the
// authorization URL for the user to open in a browser.
type AccountsConnectCmd struct{}

func (c *AccountsConnectCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	auth, err := accountlink.New(app.cfg.OAuthClientID, app.cfg.OAuthCallbackURL)
	if err != nil {
		return fmt.Errorf("failed to build authorization request: %w", err)
	}

	fmt.Println("Open this URL in a browser to authorize birddeck:")
	fmt.Println()
	fmt.Printf("  %s\n", auth.URL)
	fmt.Println()
	fmt.Printf("State: %s\n", auth.State)
	return nil
}
