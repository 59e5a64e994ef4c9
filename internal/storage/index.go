package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/acctbook/internal/account"
	_ "modernc.org/sqlite"
)

// Index is an ephemeral in-memory SQLite database built from loaded accounts.
// The storage file stays the source of truth; an Index is rebuilt on every use.
type Index struct {
	db *sql.DB
}

const selectAccountFields = `service, account_id, username, notes, created_at`

// OpenIndex creates an empty in-memory index.
func OpenIndex(ctx context.Context) (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := createIndexSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the index.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func createIndexSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			pos INTEGER PRIMARY KEY,
			service TEXT NOT NULL,
			account_id TEXT NOT NULL,
			username TEXT NOT NULL,
			notes TEXT NOT NULL,
			created_at TEXT NOT NULL,
			-- case-folded copies for substring search
			username_fold TEXT NOT NULL,
			account_id_fold TEXT NOT NULL,
			notes_fold TEXT NOT NULL,
			UNIQUE (service, account_id)
		);

		CREATE INDEX IF NOT EXISTS idx_accounts_service ON accounts(service);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Rebuild clears the index and inserts accounts in order.
func (ix *Index) Rebuild(ctx context.Context, accounts []account.Account) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return fmt.Errorf("clearing accounts table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (
			pos, service, account_id, username, notes, created_at,
			username_fold, account_id_fold, notes_fold
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing accounts insert: %w", err)
	}
	defer stmt.Close()

	for i, acc := range accounts {
		_, err := stmt.ExecContext(ctx,
			i, string(acc.Service), acc.AccountID, acc.Username, acc.Notes, acc.CreatedAt,
			strings.ToLower(acc.Username), strings.ToLower(acc.AccountID), strings.ToLower(acc.Notes),
		)
		if err != nil {
			return fmt.Errorf("indexing account %s: %w", acc.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Search returns indexed accounts whose username, account ID or notes contain
// query (case-insensitive), in insertion order. An empty service matches all.
// An empty query matches every account.
func (ix *Index) Search(ctx context.Context, query string, service account.Service) ([]account.Account, error) {
	q := strings.ToLower(query)
	rows, err := ix.db.QueryContext(ctx, `
		SELECT `+selectAccountFields+`
		FROM accounts
		WHERE (?1 = ''
			OR instr(username_fold, ?1) > 0
			OR instr(account_id_fold, ?1) > 0
			OR instr(notes_fold, ?1) > 0)
		  AND (?2 = '' OR service = ?2)
		ORDER BY pos
	`, q, string(service))
	if err != nil {
		return nil, fmt.Errorf("searching accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Count returns the number of indexed accounts.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var count int
	err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count)
	return count, err
}

func scanAccounts(rows *sql.Rows) ([]account.Account, error) {
	var accounts []account.Account
	for rows.Next() {
		var acc account.Account
		var svc string
		if err := rows.Scan(&svc, &acc.AccountID, &acc.Username, &acc.Notes, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		acc.Service = account.Service(svc)
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}
