package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/acctbook/internal/account"
)

// DefaultPath is the storage file used when nothing else is configured.
const DefaultPath = "accounts.json"

var (
	// ErrDuplicate is returned by Add when the (service, account_id) pair already exists.
	ErrDuplicate = errors.New("account already exists")

	// ErrExportToStorage is returned when an export destination is the storage file itself.
	ErrExportToStorage = errors.New("export destination is the storage file")
)

// Store holds the accounts of one storage file in memory.
// It is not safe for concurrent use.
type Store struct {
	path     string
	accounts []account.Account
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore returns an empty store backed by path. A nil logger discards logs.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the storage file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of accounts in memory.
func (s *Store) Len() int {
	return len(s.accounts)
}

// Load replaces the in-memory accounts with the contents of the storage file.
// A missing file leaves the store empty.
func (s *Store) Load() error {
	accounts, err := ReadAccounts(s.path, s.now())
	if err != nil {
		return err
	}
	s.accounts = accounts
	s.logger.Debug("accounts loaded", "path", s.path, "count", len(accounts))
	return nil
}

// Save overwrites the storage file with the in-memory accounts.
func (s *Store) Save() error {
	if err := WriteAccounts(s.path, s.accounts); err != nil {
		return err
	}
	s.logger.Debug("accounts saved", "path", s.path, "count", len(s.accounts))
	return nil
}

// Add appends an account. It fails with ErrDuplicate if the key is taken.
func (s *Store) Add(a account.Account) error {
	if _, found := FindByKey(s.accounts, a.Service, a.AccountID); found {
		return fmt.Errorf("%w: %s", ErrDuplicate, a.Key())
	}
	s.accounts = append(s.accounts, a)
	return nil
}

// Remove deletes the account with the given key and reports whether one was removed.
func (s *Store) Remove(service account.Service, accountID string) bool {
	idx, found := FindByKey(s.accounts, service, accountID)
	if !found {
		return false
	}
	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)
	return true
}

// Find returns the account with the given key.
func (s *Store) Find(service account.Service, accountID string) (account.Account, bool) {
	idx, found := FindByKey(s.accounts, service, accountID)
	if !found {
		return account.Account{}, false
	}
	return s.accounts[idx], true
}

// List returns accounts in insertion order, restricted to service unless it is empty.
// The returned slice is a copy.
func (s *Store) List(service account.Service) []account.Account {
	result := make([]account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if service == "" || acc.Service == service {
			result = append(result, acc)
		}
	}
	return result
}

// CountByService returns the number of accounts per service.
func (s *Store) CountByService() map[account.Service]int {
	counts := make(map[account.Service]int, len(account.Services))
	for _, svc := range account.Services {
		counts[svc] = 0
	}
	for _, acc := range s.accounts {
		counts[acc.Service]++
	}
	return counts
}

// Export writes every in-memory account to path in the storage file format
// and returns how many were written. The storage file itself is never touched.
func (s *Store) Export(path string) (int, error) {
	same, err := samePath(path, s.path)
	if err != nil {
		return 0, err
	}
	if same {
		return 0, fmt.Errorf("%w: %s", ErrExportToStorage, path)
	}

	if err := WriteAccounts(path, s.accounts); err != nil {
		return 0, err
	}
	s.logger.Debug("accounts exported", "path", path, "count", len(s.accounts))
	return len(s.accounts), nil
}

// Search returns accounts whose username, account ID or notes contain query,
// ignoring case, optionally restricted to one service.
func (s *Store) Search(ctx context.Context, query string, service account.Service) ([]account.Account, error) {
	idx, err := OpenIndex(ctx)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	if err := idx.Rebuild(ctx, s.accounts); err != nil {
		return nil, err
	}
	indexed, err := idx.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting indexed accounts: %w", err)
	}
	s.logger.Debug("search index built", "count", indexed)

	return idx.Search(ctx, query, service)
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolving path: %w", err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolving path: %w", err)
	}
	return absA == absB, nil
}

// StoreInfo summarizes a store and its backing file.
type StoreInfo struct {
	Path      string                  `json:"path"`
	Exists    bool                    `json:"exists"`
	Size      int64                   `json:"size"`
	ModTime   time.Time               `json:"mod_time,omitzero"`
	Records   int                     `json:"records"`
	ByService map[account.Service]int `json:"by_service"`
	Oldest    time.Time               `json:"oldest,omitzero"`
	Newest    time.Time               `json:"newest,omitzero"`
}

// Info returns counts for the in-memory accounts and stats for the storage file.
// Accounts whose created_at does not parse are left out of Oldest/Newest.
func (s *Store) Info() (*StoreInfo, error) {
	info := &StoreInfo{
		Path:      s.path,
		Records:   len(s.accounts),
		ByService: s.CountByService(),
	}

	stat, err := os.Stat(s.path)
	switch {
	case err == nil:
		info.Exists = true
		info.Size = stat.Size()
		info.ModTime = stat.ModTime()
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("checking storage file: %w", err)
	}

	for _, acc := range s.accounts {
		created := acc.Created()
		if created.IsZero() {
			continue
		}
		if info.Oldest.IsZero() || created.Before(info.Oldest) {
			info.Oldest = created
		}
		if created.After(info.Newest) {
			info.Newest = created
		}
	}

	return info, nil
}
