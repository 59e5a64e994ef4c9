// Package storage persists account records to a JSON file and answers queries over them.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/matsen/acctbook/internal/account"
	"github.com/natefinch/atomic"
)

// ParseError reports a storage file that could not be decoded.
// Index is the position of the offending record, or -1 for file-level errors.
type ParseError struct {
	Path  string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing %s: record %d: %v", e.Path, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// fileRecord mirrors account.Account with pointer fields so missing keys can be told apart from empty ones.
type fileRecord struct {
	Service   *string `json:"service"`
	AccountID *string `json:"account_id"`
	Username  *string `json:"username"`
	Notes     *string `json:"notes"`
	CreatedAt *string `json:"created_at"`
}

// ReadAccounts reads all accounts from a JSON array file.
// A missing file yields no accounts. Records without a created_at
// are stamped with now.
func ReadAccounts(path string, now time.Time) ([]account.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}
	return DecodeAccounts(path, data, now)
}

// ErrNotArray is returned when an accounts file holds something other than a JSON array.
var ErrNotArray = errors.New("accounts file must contain a JSON array")

// DecodeAccounts decodes the contents of an accounts file. path is only used in errors.
// Each (service, account_id) pair may appear only once.
func DecodeAccounts(path string, data []byte, now time.Time) ([]account.Account, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Index: -1, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Index: -1, Err: ErrNotArray}
	}

	accounts := make([]account.Account, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, msg := range raw {
		acc, err := decodeRecord(msg, now)
		if err != nil {
			return nil, &ParseError{Path: path, Index: i, Err: err}
		}
		if first, dup := seen[acc.Key()]; dup {
			return nil, &ParseError{Path: path, Index: i,
				Err: fmt.Errorf("%w: %s (first at record %d)", ErrDuplicate, acc.Key(), first)}
		}
		seen[acc.Key()] = i
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func decodeRecord(msg json.RawMessage, now time.Time) (account.Account, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()

	var rec fileRecord
	if err := dec.Decode(&rec); err != nil {
		return account.Account{}, err
	}

	switch {
	case rec.Service == nil:
		return account.Account{}, fmt.Errorf("missing required field %q", "service")
	case rec.AccountID == nil:
		return account.Account{}, fmt.Errorf("missing required field %q", "account_id")
	case rec.Username == nil:
		return account.Account{}, fmt.Errorf("missing required field %q", "username")
	}

	svc, err := account.ParseService(*rec.Service)
	if err != nil {
		return account.Account{}, err
	}

	acc := account.Account{
		Service:   svc,
		AccountID: *rec.AccountID,
		Username:  *rec.Username,
		CreatedAt: account.FormatTime(now),
	}
	if rec.Notes != nil {
		acc.Notes = *rec.Notes
	}
	if rec.CreatedAt != nil {
		acc.CreatedAt = *rec.CreatedAt
	}
	return acc, nil
}

// EncodeAccounts renders accounts as an indented JSON array with no trailing newline.
// Non-ASCII text is written as-is.
func EncodeAccounts(accounts []account.Account) ([]byte, error) {
	if accounts == nil {
		accounts = []account.Account{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(accounts); err != nil {
		return nil, fmt.Errorf("encoding accounts: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteAccounts writes all accounts to path, replacing existing content atomically.
func WriteAccounts(path string, accounts []account.Account) error {
	data, err := EncodeAccounts(accounts)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing accounts file: %w", err)
	}
	return nil
}

// FindByKey searches for an account by service and account ID.
func FindByKey(accounts []account.Account, service account.Service, accountID string) (int, bool) {
	for i, acc := range accounts {
		if acc.Matches(service, accountID) {
			return i, true
		}
	}
	return -1, false
}
