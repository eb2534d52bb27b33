package shell

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/birddeck/birddeck/internal/screens"
	"github.com/birddeck/birddeck/internal/session"
)

// maxRedirectHops bounds redirect chains. The table is static, so
// anything deeper is a misconfigured cycle.
const maxRedirectHops = 8

// FrameKind classifies what the shell is currently showing.
type FrameKind int

const (
	// FrameLoading is the shared neutral placeholder, shown while the
	// session status is unknown or a screen is being loaded.
	FrameLoading FrameKind = iota

	// FrameScreen shows a resolved screen.
	FrameScreen

	// FrameNotFound is the visible state for an undefined path.
	FrameNotFound

	// FrameError is the visible state for a failed screen load.
	FrameError
)

// Frame is the currently rendered navigation state.
type Frame struct {
	Kind   FrameKind
	Path   string
	Screen screens.Screen
	Err    error
}

// Navigator composes redirect resolution, the route guard, and the
// lazy loader. It re-evaluates the current path whenever the session
// status changes, and drops results of navigations that have been
// superseded.
type Navigator struct {
	table    *Table
	sessions *session.Provider
	loader   *Loader

	mu      sync.Mutex
	gen     uint64
	path    string
	current Frame
	subs    map[int]func(Frame)
	nextSub int

	unsubscribe func()
}

// NewNavigator creates a navigator over the route table. It subscribes
// to session changes until Close is called.
func NewNavigator(table *Table, sessions *session.Provider, loader *Loader) *Navigator {
	n := &Navigator{
		table:    table,
		sessions: sessions,
		loader:   loader,
		subs:     make(map[int]func(Frame)),
	}

	n.unsubscribe = sessions.Subscribe(func(status session.Status) {
		n.mu.Lock()
		path := n.path
		n.mu.Unlock()

		if path == "" {
			return
		}

		log.Debug().Stringer("status", status).Str("path", path).Msg("session changed, re-evaluating route")
		n.Navigate(context.Background(), path)
	})

	return n
}

// Close detaches the navigator from session updates.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// Current returns the current frame.
func (n *Navigator) Current() Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Subscribe registers fn to run synchronously after every frame change.
// The returned function cancels the subscription.
func (n *Navigator) Subscribe(fn func(Frame)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Navigate resolves a path through redirects, the guard, and the
// loader, publishing intermediate loading frames. The returned frame is
// the final state of this navigation, or the current frame when a newer
// navigation superseded it.
func (n *Navigator) Navigate(ctx context.Context, path string) Frame {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.mu.Unlock()

	for hops := 0; hops <= maxRedirectHops; hops++ {
		route, err := n.table.Resolve(path)
		if err != nil {
			return n.publish(gen, Frame{Kind: FrameNotFound, Path: path, Err: err})
		}

		// Navigation-level redirects (the root path) are substituted
		// before the guard sees anything.
		if route.RedirectTo != "" {
			path = route.RedirectTo
			continue
		}

		decision, target := Evaluate(n.sessions.Status(), route)
		switch decision {
		case DecisionLoading:
			return n.publish(gen, Frame{Kind: FrameLoading, Path: path})

		case DecisionRedirect:
			path = target
			continue
		}

		// Render: show the placeholder while the screen loads.
		n.publish(gen, Frame{Kind: FrameLoading, Path: path})

		screen, err := n.loader.Load(ctx, route)

		if superseded := !n.isCurrent(gen); superseded {
			// Abandoned navigation: nothing from this load may leak
			// into the newer frame.
			return n.Current()
		}

		if err != nil {
			return n.publish(gen, Frame{Kind: FrameError, Path: path, Err: err})
		}
		return n.publish(gen, Frame{Kind: FrameScreen, Path: path, Screen: screen})
	}

	err := fmt.Errorf("redirect chain exceeded %d hops at %s", maxRedirectHops, path)
	return n.publish(gen, Frame{Kind: FrameError, Path: path, Err: err})
}

func (n *Navigator) isCurrent(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen == gen
}

// publish installs a frame unless the navigation has been superseded,
// then notifies subscribers. Returns the installed (or surviving)
// frame.
func (n *Navigator) publish(gen uint64, frame Frame) Frame {
	n.mu.Lock()

	if n.gen != gen {
		current := n.current
		n.mu.Unlock()
		return current
	}

	n.current = frame
	n.path = frame.Path

	fns := make([]func(Frame), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(frame)
	}

	return frame
}
