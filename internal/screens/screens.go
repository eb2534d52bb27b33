// Package screens holds the page views the navigation shell renders.
// Screens are thin: they render current state and delegate every action
// to the store, session, or API clients.
package screens

import "context"

// Screen is a renderable page.
type Screen interface {
	Title() string
	Render(ctx context.Context) (string, error)
}

// Factory constructs a screen. Factories run lazily, on first
// navigation to the screen's path, and may fetch initial data.
type Factory func(ctx context.Context) (Screen, error)

// Static wraps a ready screen in a Factory.
func Static(s Screen) Factory {
	return func(ctx context.Context) (Screen, error) {
		return s, nil
	}
}
