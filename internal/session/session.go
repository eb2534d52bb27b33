// Package session owns the client's authentication state. The Provider
// is the only writer; everything else observes it through Status,
// Token, and Subscribe.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Status is the client's authentication status.
type Status int

const (
	// StatusUnknown means the initial credential check has not completed.
	// Protected screens must treat this as "not yet decidable".
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Provider holds the session state machine. It starts at StatusUnknown
// and transitions exactly once via Initialize, then via Login and
// Logout. The token is persisted in the TokenStore on every transition
// into or out of StatusAuthenticated.
type Provider struct {
	mu      sync.Mutex
	status  Status
	token   string
	tokens  *TokenStore
	auth    Authenticator
	subs    map[int]func(Status)
	nextSub int

	initOnce sync.Once
}

// NewProvider creates a session provider in the StatusUnknown state.
func NewProvider(tokens *TokenStore, auth Authenticator) *Provider {
	return &Provider{
		status: StatusUnknown,
		tokens: tokens,
		auth:   auth,
		subs:   make(map[int]func(Status)),
	}
}

// Status returns the current session status.
func (p *Provider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Token returns the current bearer token. The second return is false
// unless the session is authenticated.
func (p *Provider) Token() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token, p.status == StatusAuthenticated
}

// Initialize performs the one-time check of the stored credential and
// resolves StatusUnknown. Any storage failure is treated as "no
// credential found", never surfaced to the caller. Subsequent calls are
// no-ops returning the current status.
func (p *Provider) Initialize(ctx context.Context) Status {
	p.initOnce.Do(func() {
		token, err := p.tokens.Load()
		if err != nil {
			if !errors.Is(err, ErrNoToken) {
				log.Warn().Err(err).Msg("failed to read stored session token")
			}
			p.transition(StatusUnauthenticated, "")
			return
		}

		if tokenExpired(token) {
			log.Debug().Msg("stored session token expired")
			p.tokens.Clear()
			p.transition(StatusUnauthenticated, "")
			return
		}

		p.transition(StatusAuthenticated, token)
	})

	return p.Status()
}

// Login exchanges credentials for a token and authenticates the
// session. On failure the status is left unauthenticated and the reason
// is returned to the caller.
func (p *Provider) Login(ctx context.Context, username, password string) error {
	token, err := p.auth.Login(ctx, username, password)
	if err != nil {
		p.transition(StatusUnauthenticated, "")
		return err
	}

	if err := p.tokens.Save(token); err != nil {
		// The session is still valid for this process, it just won't
		// survive a restart.
		log.Warn().Err(err).Msg("failed to persist session token")
	}

	p.transition(StatusAuthenticated, token)

	log.Info().Str("username", username).Msg("logged in")

	return nil
}

// Logout clears the session. It is idempotent and always succeeds.
func (p *Provider) Logout() {
	p.tokens.Clear()
	p.transition(StatusUnauthenticated, "")
}

// Invalidate drops the session after a remote call reported the
// credential invalid.
func (p *Provider) Invalidate() {
	log.Warn().Msg("session credential rejected by server, logging out")
	p.Logout()
}

// Subscribe registers fn to run synchronously after every status
// change. The returned function cancels the subscription.
func (p *Provider) Subscribe(fn func(Status)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// transition updates status and token together, maintaining the
// invariant that a token is held iff the session is authenticated.
// Subscribers run only when the status actually changed.
func (p *Provider) transition(status Status, token string) {
	p.mu.Lock()

	if status != StatusAuthenticated {
		token = ""
	}

	changed := p.status != status
	p.status = status
	p.token = token

	var fns []func(Status)
	if changed {
		fns = make([]func(Status), 0, len(p.subs))
		for _, fn := range p.subs {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}
