// Package accountlink builds the OAuth2 authorization request for
// linking an X/Twitter posting account. The token exchange itself is
// handled by the backend at the callback URL.
package accountlink

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Endpoint is the X/Twitter OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// Scopes requested when linking a posting account.
var Scopes = []string{"tweet.read", "users.read", "offline.access"}

// Authorization is a prepared authorization request. The verifier must
// be kept until the backend completes the code exchange.
type Authorization struct {
	URL      string
	State    string
	Verifier string
}

// New builds the PKCE authorization request for the configured OAuth
// client.
func New(clientID, callbackURL string) (Authorization, error) {
	if clientID == "" {
		return Authorization{}, fmt.Errorf("OAuth client ID is required")
	}
	if callbackURL == "" {
		return Authorization{}, fmt.Errorf("OAuth callback URL is required")
	}

	cfg := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: callbackURL,
		Scopes:      Scopes,
		Endpoint:    Endpoint,
	}

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()

	return Authorization{
		URL:      cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)),
		State:    state,
		Verifier: verifier,
	}, nil
}
