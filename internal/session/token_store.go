package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
)

// ErrNoToken is returned when no session token is stored.
var ErrNoToken = errors.New("no session token stored")

const tokenFile = "session.token"

// TokenStore persists the session token on the local filesystem. The
// token file is absent whenever the session is unauthenticated.
type TokenStore struct {
	baseDir string
}

// NewTokenStore creates a token store rooted at baseDir.
func NewTokenStore(baseDir string) (*TokenStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &TokenStore{baseDir: baseDir}, nil
}

// Load reads the stored token. Returns ErrNoToken when absent.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, tokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read session token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}

	log.Debug().Str("fingerprint", tokenFingerprint(token)).Msg("session token loaded")

	return token, nil
}

// Save writes the token atomically with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	path := filepath.Join(s.baseDir, tokenFile)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write session token: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session token: %w", err)
	}

	log.Debug().Str("fingerprint", tokenFingerprint(token)).Msg("session token saved")

	return nil
}

// Clear removes the stored token. Removing an absent token is not an
// error.
func (s *TokenStore) Clear() {
	if err := os.Remove(filepath.Join(s.baseDir, tokenFile)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to remove session token")
	}
}

// tokenFingerprint returns a short identifier safe to log.
func tokenFingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:8])
}

// tokenExpired reports whether a stored JWT is past its expiry. Opaque
// tokens that don't parse as JWTs are left for the server to judge.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}

	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
