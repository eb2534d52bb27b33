package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	token string
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func newTestProvider(t *testing.T, auth Authenticator) (*Provider, *TokenStore) {
	t.Helper()
	tokens, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)
	return NewProvider(tokens, auth), tokens
}

func signedJWT(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestProvider_Initialize(t *testing.T) {
	t.Run("starts unknown", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{})
		assert.Equal(t, StatusUnknown, p.Status())
	})

	t.Run("no stored token resolves unauthenticated", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{})

		status := p.Initialize(context.Background())
		assert.Equal(t, StatusUnauthenticated, status)

		_, ok := p.Token()
		assert.False(t, ok)
	})

	t.Run("stored token resolves authenticated", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{})
		require.NoError(t, tokens.Save("opaque-token"))

		status := p.Initialize(context.Background())
		assert.Equal(t, StatusAuthenticated, status)

		token, ok := p.Token()
		require.True(t, ok)
		assert.Equal(t, "opaque-token", token)
	})

	t.Run("expired jwt is treated as no credential", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{})
		require.NoError(t, tokens.Save(signedJWT(t, time.Now().Add(-time.Hour))))

		status := p.Initialize(context.Background())
		assert.Equal(t, StatusUnauthenticated, status)

		// The expired token is also removed from durable storage.
		_, err := tokens.Load()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("unexpired jwt resolves authenticated", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{})
		require.NoError(t, tokens.Save(signedJWT(t, time.Now().Add(time.Hour))))

		assert.Equal(t, StatusAuthenticated, p.Initialize(context.Background()))
	})

	t.Run("runs the credential check once", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{})

		assert.Equal(t, StatusUnauthenticated, p.Initialize(context.Background()))

		// A token appearing later must not flip an initialized session.
		require.NoError(t, tokens.Save("late-token"))
		assert.Equal(t, StatusUnauthenticated, p.Initialize(context.Background()))
	})

	t.Run("storage read failure fails safe to unauthenticated", func(t *testing.T) {
		dir := t.TempDir()
		tokens, err := NewTokenStore(dir)
		require.NoError(t, err)

		// A directory where the token file should be forces a read error.
		require.NoError(t, os.Mkdir(filepath.Join(dir, tokenFile), 0700))

		p := NewProvider(tokens, &fakeAuth{})
		assert.Equal(t, StatusUnauthenticated, p.Initialize(context.Background()))
	})
}

func TestProvider_Login(t *testing.T) {
	t.Run("success authenticates and persists the token", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{token: "fresh-token"})
		p.Initialize(context.Background())

		require.NoError(t, p.Login(context.Background(), "alice", "hunter22"))
		assert.Equal(t, StatusAuthenticated, p.Status())

		stored, err := tokens.Load()
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", stored)
	})

	t.Run("failure surfaces the reason and stays unauthenticated", func(t *testing.T) {
		authErr := errors.New("invalid credentials")
		p, _ := newTestProvider(t, &fakeAuth{err: authErr})
		p.Initialize(context.Background())

		err := p.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, authErr)
		assert.Equal(t, StatusUnauthenticated, p.Status())

		_, ok := p.Token()
		assert.False(t, ok)
	})
}

func TestProvider_Logout(t *testing.T) {
	t.Run("clears token and durable storage", func(t *testing.T) {
		p, tokens := newTestProvider(t, &fakeAuth{token: "tok"})
		p.Initialize(context.Background())
		require.NoError(t, p.Login(context.Background(), "alice", "hunter22"))

		p.Logout()

		assert.Equal(t, StatusUnauthenticated, p.Status())
		_, ok := p.Token()
		assert.False(t, ok)
		_, err := tokens.Load()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("is idempotent", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{})
		p.Initialize(context.Background())

		p.Logout()
		p.Logout()
		assert.Equal(t, StatusUnauthenticated, p.Status())
	})
}

func TestProvider_Subscribe(t *testing.T) {
	t.Run("notifies on every status change", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{token: "tok"})

		var seen []Status
		cancel := p.Subscribe(func(s Status) { seen = append(seen, s) })
		defer cancel()

		p.Initialize(context.Background())
		require.NoError(t, p.Login(context.Background(), "alice", "hunter22"))
		p.Logout()

		assert.Equal(t, []Status{StatusUnauthenticated, StatusAuthenticated, StatusUnauthenticated}, seen)
	})

	t.Run("repeated logout does not renotify", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{})
		p.Initialize(context.Background())

		calls := 0
		cancel := p.Subscribe(func(Status) { calls++ })
		defer cancel()

		p.Logout()
		p.Logout()
		assert.Equal(t, 0, calls)
	})

	t.Run("cancelled subscription stops receiving", func(t *testing.T) {
		p, _ := newTestProvider(t, &fakeAuth{token: "tok"})

		calls := 0
		cancel := p.Subscribe(func(Status) { calls++ })

		p.Initialize(context.Background())
		cancel()
		require.NoError(t, p.Login(context.Background(), "alice", "hunter22"))

		assert.Equal(t, 1, calls)
	})
}

func TestProvider_Invalidate(t *testing.T) {
	p, tokens := newTestProvider(t, &fakeAuth{token: "tok"})
	p.Initialize(context.Background())
	require.NoError(t, p.Login(context.Background(), "alice", "hunter22"))

	p.Invalidate()

	assert.Equal(t, StatusUnauthenticated, p.Status())
	_, err := tokens.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenStore(t *testing.T) {
	t.Run("load without a token returns ErrNoToken", func(t *testing.T) {
		tokens, err := NewTokenStore(t.TempDir())
		require.NoError(t, err)

		_, err = tokens.Load()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("round-trips the token", func(t *testing.T) {
		tokens, err := NewTokenStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, tokens.Save("round-trip"))
		got, err := tokens.Load()
		require.NoError(t, err)
		assert.Equal(t, "round-trip", got)
	})

	t.Run("token file is owner-only", func(t *testing.T) {
		dir := t.TempDir()
		tokens, err := NewTokenStore(dir)
		require.NoError(t, err)
		require.NoError(t, tokens.Save("secret"))

		info, err := os.Stat(filepath.Join(dir, tokenFile))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		tokens, err := NewTokenStore(t.TempDir())
		require.NoError(t, err)

		tokens.Clear()
		require.NoError(t, tokens.Save("secret"))
		tokens.Clear()
		tokens.Clear()

		_, err = tokens.Load()
		assert.ErrorIs(t, err, ErrNoToken)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "unknown", StatusUnknown.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
}

func TestProvider_TokenInvariant(t *testing.T) {
	// A token is held iff the session is authenticated.
	p, _ := newTestProvider(t, &fakeAuth{err: errors.New("nope")})

	_, ok := p.Token()
	assert.False(t, ok)

	p.Initialize(context.Background())
	_, ok = p.Token()
	assert.False(t, ok)

	_ = p.Login(context.Background(), "alice", "wrong")
	_, ok = p.Token()
	assert.False(t, ok)
}
