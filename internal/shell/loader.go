package shell

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/birddeck/birddeck/internal/screens"
)

// LoadState tracks a route's screen in the lazy-load cache.
type LoadState int

const (
	LoadNotLoaded LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

type loadEntry struct {
	state  LoadState
	screen screens.Screen
	err    error
	done   chan struct{}
}

// Loader caches screen construction per route. A screen is built on
// first navigation only; once Loaded it is reused for the process
// lifetime, and once Failed it stays failed until the process restarts.
// Abandoned loads (context cancelled) are reset so a later navigation
// tries again.
type Loader struct {
	mu      sync.Mutex
	entries map[string]*loadEntry
}

func NewLoader() *Loader {
	return &Loader{entries: make(map[string]*loadEntry)}
}

// State reports the cache state for a path.
func (l *Loader) State(path string) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[path]
	if !ok {
		return LoadNotLoaded
	}
	return entry.state
}

// Load returns the screen for a route, constructing it on first use.
// Concurrent callers for the same path share one construction; waiters
// whose context is cancelled detach without affecting the load.
func (l *Loader) Load(ctx context.Context, route Route) (screens.Screen, error) {
	l.mu.Lock()

	entry, ok := l.entries[route.Path]
	if ok {
		switch entry.state {
		case LoadLoaded:
			l.mu.Unlock()
			return entry.screen, nil
		case LoadFailed:
			l.mu.Unlock()
			return nil, entry.err
		case LoadLoading:
			done := entry.done
			l.mu.Unlock()
			return l.wait(ctx, route.Path, done)
		}
	}

	entry = &loadEntry{state: LoadLoading, done: make(chan struct{})}
	l.entries[route.Path] = entry
	l.mu.Unlock()

	log.Debug().Str("path", route.Path).Msg("loading screen")

	screen, err := route.Screen(ctx)

	l.mu.Lock()
	switch {
	case err == nil:
		entry.state = LoadLoaded
		entry.screen = screen
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// An abandoned load is no failure; forget it so the next
		// navigation starts fresh.
		delete(l.entries, route.Path)
	default:
		log.Warn().Err(err).Str("path", route.Path).Msg("screen load failed")
		entry.state = LoadFailed
		entry.err = err
	}
	l.mu.Unlock()

	close(entry.done)

	return screen, err
}

// wait blocks until an in-flight load for path settles, or the waiter's
// context is cancelled.
func (l *Loader) wait(ctx context.Context, path string, done <-chan struct{}) (screens.Screen, error) {
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[path]
	if !ok || entry.state == LoadLoading {
		// The original load was abandoned.
		return nil, context.Canceled
	}
	if entry.state == LoadFailed {
		return nil, entry.err
	}
	return entry.screen, nil
}
