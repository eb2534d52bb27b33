// Package store persists the client's connected posting accounts and the
// active account selection across restarts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// SchemaVersion tags the on-disk snapshot. A snapshot written with a
// different version is discarded on load, no migration is attempted.
const SchemaVersion = 1

const stateFile = "accounts.json"

// Sentinel errors
var (
	// ErrDuplicateID is returned when adding an account whose ID already exists.
	ErrDuplicateID = errors.New("account id already exists")

	// ErrUnknownAccount is returned when selecting an account that doesn't exist.
	ErrUnknownAccount = errors.New("unknown account")
)

// Account is a connected posting identity.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// snapshot is the full on-disk state. Every mutation rewrites it whole.
type snapshot struct {
	Version           int       `json:"version"`
	Accounts          []Account `json:"accounts"`
	SelectedAccountID string    `json:"selected_account_id,omitempty"`
}

// Store manages account state on the local filesystem. All mutations are
// serialized and written through to disk before returning. Subscribers
// are notified synchronously after each successful mutation.
type Store struct {
	mu       sync.Mutex
	baseDir  string
	accounts []Account
	selected string
	subs     map[int]func()
	nextSub  int
}

// NewStore creates an account store rooted at baseDir, loading any
// existing snapshot. A snapshot with a mismatched schema version is
// discarded and the store starts empty.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &Store{
		baseDir: baseDir,
		subs:    make(map[int]func()),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Int("accounts", len(s.accounts)).Msg("account store initialized")

	return s, nil
}

// Accounts returns a copy of the current accounts collection.
func (s *Store) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// SelectedAccountID returns the active account ID, if one is selected.
func (s *Store) SelectedAccountID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected, s.selected != ""
}

// SelectedAccount returns the active account, if one is selected.
func (s *Store) SelectedAccount() (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.ID == s.selected {
			return a, true
		}
	}
	return Account{}, false
}

// AddAccount appends an account. Returns ErrDuplicateID if an account
// with the same ID is already present.
func (s *Store) AddAccount(account Account) error {
	s.mu.Lock()

	if account.ID == "" {
		s.mu.Unlock()
		return errors.New("account id is required")
	}

	for _, a := range s.accounts {
		if a.ID == account.ID {
			s.mu.Unlock()
			return ErrDuplicateID
		}
	}

	s.accounts = append(s.accounts, account)

	if err := s.save(); err != nil {
		// Roll back the in-memory change so state matches disk.
		s.accounts = s.accounts[:len(s.accounts)-1]
		s.mu.Unlock()
		return err
	}

	log.Info().Str("id", account.ID).Str("username", account.Username).Msg("account added")

	s.mu.Unlock()
	s.notify()
	return nil
}

// RemoveAccount removes the account with the given ID. Removing an
// absent ID is a no-op. Clears the selection when it pointed at the
// removed account so it never dangles.
func (s *Store) RemoveAccount(id string) error {
	s.mu.Lock()

	idx := -1
	for i, a := range s.accounts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	removed := s.accounts[idx]
	prevSelected := s.selected

	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)
	if s.selected == id {
		s.selected = ""
	}

	if err := s.save(); err != nil {
		s.accounts = append(s.accounts[:idx], append([]Account{removed}, s.accounts[idx:]...)...)
		s.selected = prevSelected
		s.mu.Unlock()
		return err
	}

	log.Info().Str("id", id).Str("username", removed.Username).Msg("account removed")

	s.mu.Unlock()
	s.notify()
	return nil
}

// SelectAccount marks the account with the given ID as active. Returns
// ErrUnknownAccount when no account with that ID exists.
func (s *Store) SelectAccount(id string) error {
	s.mu.Lock()

	found := false
	for _, a := range s.accounts {
		if a.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}

	prev := s.selected
	s.selected = id

	if err := s.save(); err != nil {
		s.selected = prev
		s.mu.Unlock()
		return err
	}

	log.Debug().Str("id", id).Msg("account selected")

	s.mu.Unlock()
	s.notify()
	return nil
}

// Subscribe registers fn to run after every successful mutation. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// load reads the snapshot file. Missing files and version mismatches
// both leave the store at the empty default.
func (s *Store) load() error {
	path := filepath.Join(s.baseDir, stateFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read account state: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding unreadable account state")
		return nil
	}

	if snap.Version != SchemaVersion {
		log.Warn().
			Int("found", snap.Version).
			Int("want", SchemaVersion).
			Msg("discarding account state with mismatched schema version")
		return nil
	}

	s.accounts = snap.Accounts
	s.selected = snap.SelectedAccountID

	// A selection that doesn't reference a stored account is dropped.
	if s.selected != "" {
		found := false
		for _, a := range s.accounts {
			if a.ID == s.selected {
				found = true
				break
			}
		}
		if !found {
			log.Warn().Str("id", s.selected).Msg("dropping dangling account selection")
			s.selected = ""
		}
	}

	return nil
}

// save writes the full snapshot atomically. Callers must hold s.mu.
func (s *Store) save() error {
	snap := snapshot{
		Version:           SchemaVersion,
		Accounts:          s.accounts,
		SelectedAccountID: s.selected,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account state: %w", err)
	}

	path := filepath.Join(s.baseDir, stateFile)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write account state: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save account state: %w", err)
	}

	return nil
}
