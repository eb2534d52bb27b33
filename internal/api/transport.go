package api

import (
	"net/http"
)

var _ http.RoundTripper = (*authTransport)(nil)

// authTransport adds the session's bearer token to outbound requests.
// Requests go out unauthenticated when no token is held, the server is
// the authority on which endpoints require one.
type authTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func newAuthTransport(next http.RoundTripper, tokens TokenSource) *authTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{next: next, tokens: tokens}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			// Clone before mutating, RoundTrippers must not modify the
			// caller's request.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.next.RoundTrip(req)
}
