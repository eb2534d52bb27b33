package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates state directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		stateDir := filepath.Join(tmpDir, "state")

		s, err := NewStore(stateDir)
		require.NoError(t, err)
		assert.NotNil(t, s)

		info, err := os.Stat(stateDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("starts empty without a snapshot", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, s.Accounts())
		_, ok := s.SelectedAccountID()
		assert.False(t, ok)
	})

	t.Run("discards snapshot with mismatched version", func(t *testing.T) {
		tmpDir := t.TempDir()
		stale := snapshot{
			Version:           SchemaVersion + 1,
			Accounts:          []Account{{ID: "a1", Username: "old"}},
			SelectedAccountID: "a1",
		}
		data, err := json.Marshal(stale)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, stateFile), data, 0600))

		s, err := NewStore(tmpDir)
		require.NoError(t, err)

		assert.Empty(t, s.Accounts())
		_, ok := s.SelectedAccountID()
		assert.False(t, ok)
	})

	t.Run("discards corrupt snapshot", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, stateFile), []byte("{not json"), 0600))

		s, err := NewStore(tmpDir)
		require.NoError(t, err)
		assert.Empty(t, s.Accounts())
	})

	t.Run("drops dangling selection on load", func(t *testing.T) {
		tmpDir := t.TempDir()
		stale := snapshot{
			Version:           SchemaVersion,
			Accounts:          []Account{{ID: "a1", Username: "kept"}},
			SelectedAccountID: "gone",
		}
		data, err := json.Marshal(stale)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, stateFile), data, 0600))

		s, err := NewStore(tmpDir)
		require.NoError(t, err)

		assert.Len(t, s.Accounts(), 1)
		_, ok := s.SelectedAccountID()
		assert.False(t, ok)
	})
}

func TestStore_AddAccount(t *testing.T) {
	t.Run("appends accounts", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.AddAccount(Account{ID: "a2", Username: "second", IsActive: true}))

		accounts := s.Accounts()
		require.Len(t, accounts, 2)
		assert.Equal(t, "first", accounts[0].Username)
		assert.Equal(t, "second", accounts[1].Username)
		assert.True(t, accounts[1].IsActive)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		err = s.AddAccount(Account{ID: "a1", Username: "impostor"})
		require.ErrorIs(t, err, ErrDuplicateID)

		accounts := s.Accounts()
		require.Len(t, accounts, 1)
		assert.Equal(t, "first", accounts[0].Username)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.Error(t, s.AddAccount(Account{Username: "noid"}))
		assert.Empty(t, s.Accounts())
	})
}

func TestStore_RemoveAccount(t *testing.T) {
	t.Run("removes matching account", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.AddAccount(Account{ID: "a2", Username: "second"}))

		require.NoError(t, s.RemoveAccount("a1"))

		accounts := s.Accounts()
		require.Len(t, accounts, 1)
		assert.Equal(t, "a2", accounts[0].ID)
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.RemoveAccount("missing"))
		assert.Len(t, s.Accounts(), 1)
	})

	t.Run("clears selection pointing at removed account", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.SelectAccount("a1"))

		require.NoError(t, s.RemoveAccount("a1"))

		_, ok := s.SelectedAccountID()
		assert.False(t, ok)
	})

	t.Run("keeps selection for other accounts", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.AddAccount(Account{ID: "a2", Username: "second"}))
		require.NoError(t, s.SelectAccount("a2"))

		require.NoError(t, s.RemoveAccount("a1"))

		id, ok := s.SelectedAccountID()
		require.True(t, ok)
		assert.Equal(t, "a2", id)
	})
}

func TestStore_SelectAccount(t *testing.T) {
	t.Run("selects an existing account", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.SelectAccount("a1"))

		account, ok := s.SelectedAccount()
		require.True(t, ok)
		assert.Equal(t, "first", account.Username)
	})

	t.Run("unknown id leaves state unchanged", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.SelectAccount("a1"))

		err = s.SelectAccount("missing")
		require.ErrorIs(t, err, ErrUnknownAccount)

		id, ok := s.SelectedAccountID()
		require.True(t, ok)
		assert.Equal(t, "a1", id)
	})
}

func TestStore_Persistence(t *testing.T) {
	t.Run("round-trips state across restarts", func(t *testing.T) {
		tmpDir := t.TempDir()

		s, err := NewStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.AddAccount(Account{ID: "a2", Username: "second", IsActive: true}))
		require.NoError(t, s.SelectAccount("a2"))

		reloaded, err := NewStore(tmpDir)
		require.NoError(t, err)

		assert.Equal(t, s.Accounts(), reloaded.Accounts())
		id, ok := reloaded.SelectedAccountID()
		require.True(t, ok)
		assert.Equal(t, "a2", id)
	})

	t.Run("snapshot carries the schema version", func(t *testing.T) {
		tmpDir := t.TempDir()

		s, err := NewStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))

		data, err := os.ReadFile(filepath.Join(tmpDir, stateFile))
		require.NoError(t, err)

		var snap snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		assert.Equal(t, SchemaVersion, snap.Version)
	})

	t.Run("adds minus removes is exactly the final collection", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		ids := []string{"a1", "a2", "a3", "a4"}
		for _, id := range ids {
			require.NoError(t, s.AddAccount(Account{ID: id, Username: "user-" + id}))
		}
		require.NoError(t, s.RemoveAccount("a2"))
		require.NoError(t, s.RemoveAccount("a4"))

		var got []string
		for _, a := range s.Accounts() {
			got = append(got, a.ID)
		}
		assert.Equal(t, []string{"a1", "a3"}, got)
	})
}

func TestStore_Subscribe(t *testing.T) {
	t.Run("notifies after each mutation", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		calls := 0
		cancel := s.Subscribe(func() { calls++ })
		defer cancel()

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		require.NoError(t, s.SelectAccount("a1"))
		require.NoError(t, s.RemoveAccount("a1"))

		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled subscription stops receiving", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		calls := 0
		cancel := s.Subscribe(func() { calls++ })

		require.NoError(t, s.AddAccount(Account{ID: "a1", Username: "first"}))
		cancel()
		require.NoError(t, s.RemoveAccount("a1"))

		assert.Equal(t, 1, calls)
	})

	t.Run("failed mutation does not notify", func(t *testing.T) {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)

		calls := 0
		cancel := s.Subscribe(func() { calls++ })
		defer cancel()

		require.ErrorIs(t, s.SelectAccount("missing"), ErrUnknownAccount)
		assert.Equal(t, 0, calls)
	})
}
