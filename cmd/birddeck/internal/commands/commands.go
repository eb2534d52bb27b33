package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/birddeck/birddeck/internal/api"
	"github.com/birddeck/birddeck/internal/config"
	"github.com/birddeck/birddeck/internal/logger"
	"github.com/birddeck/birddeck/internal/screens"
	"github.com/birddeck/birddeck/internal/session"
	"github.com/birddeck/birddeck/internal/shell"
	"github.com/birddeck/birddeck/internal/store"
)

type Globals struct {
	Debug   bool
	Version string
}

type tokenSourceFunc func() (string, bool)

func (f tokenSourceFunc) Token() (string, bool) { return f() }

// app wires configuration, persisted state, the session provider and
// the backend clients together for a single command invocation.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	store    *store.Store
	sessions *session.Provider
	clients  *api.Clients
}

func newApp(globals *Globals) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(globals.Debug)

	tokens, err := session.NewTokenStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	st, err := store.NewStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %w", err)
	}

	// The clients read the token from the provider and report invalid
	// credentials back to it. The provider authenticates through the
	// auth client. Both sides close over the provider variable so the
	// cycle resolves at first use.
	var provider *session.Provider
	clients := api.NewClients(api.Config{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.APITimeout,
		CacheDir: cfg.CacheDir,
		Debug:    globals.Debug,
	}, tokenSourceFunc(func() (string, bool) {
		return provider.Token()
	}), log, func() {
		provider.Invalidate()
	})
	provider = session.NewProvider(tokens, clients.Auth)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		sessions: provider,
		clients:  clients,
	}, nil
}

// requireSession restores the persisted session and fails when no
// valid credential is held.
func (a *app) requireSession(ctx context.Context) error {
	if a.sessions.Initialize(ctx) != session.StatusAuthenticated {
		return fmt.Errorf("not logged in\n\nRun 'birddeck login <username>' first")
	}
	return nil
}

func (a *app) routes() (*shell.Table, error) {
	return shell.NewTable(
		shell.Route{Path: shell.PathRoot, RedirectTo: shell.PathDashboard},
		shell.Route{Path: shell.PathLogin, Access: shell.AccessPublic, Screen: screens.Static(screens.Login{})},
		shell.Route{Path: shell.PathSignup, Access: shell.AccessPublic, Screen: screens.Static(screens.SignUp{})},
		shell.Route{Path: shell.PathDashboard, Access: shell.AccessProtected, Screen: screens.Static(screens.Dashboard{Store: a.store})},
		shell.Route{Path: shell.PathAccounts, Access: shell.AccessProtected, Screen: screens.Static(screens.Accounts{Store: a.store})},
		shell.Route{Path: shell.PathComposer, Access: shell.AccessProtected, Screen: screens.Static(screens.Composer{Store: a.store})},
		shell.Route{Path: shell.PathGenerator, Access: shell.AccessProtected, Screen: screens.Static(screens.Generator{})},
		shell.Route{Path: shell.PathSchedule, Access: shell.AccessProtected, Screen: screens.Static(screens.Schedule{Store: a.store})},
		shell.Route{Path: shell.PathAnalytics, Access: shell.AccessProtected, Screen: screens.NewAnalytics(a.store, a.clients.Analytics)},
		shell.Route{Path: shell.PathSettings, Access: shell.AccessProtected, Screen: screens.Static(screens.Settings{APIBaseURL: a.cfg.APIBaseURL, StateDir: a.cfg.StateDir})},
	)
}

func (a *app) navigator() (*shell.Navigator, error) {
	table, err := a.routes()
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}

	return shell.NewNavigator(table, a.sessions, shell.NewLoader()), nil
}
