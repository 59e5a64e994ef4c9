package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/matsen/acctbook/internal/account"
)

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable line.
func outputHuman(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

// printAccounts prints one account per line, or "No accounts found".
func printAccounts(w io.Writer, accounts []account.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(w, "No accounts found")
		return
	}
	for _, a := range accounts {
		fmt.Fprintln(w, account.Format(a))
	}
}

// newLogger builds the stderr logger. Warnings and errors only unless
// verbose is set or level names a lower level.
func newLogger(w io.Writer, verbose bool, level string) *slog.Logger {
	lvl := parseLogLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// parseLogLevel maps ACCT_LOG_LEVEL values to a slog level, defaulting to warn.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// serviceFlag is a pflag.Value that only accepts vk or tg, in any case.
type serviceFlag struct {
	value account.Service
}

func (f *serviceFlag) String() string {
	return string(f.value)
}

func (f *serviceFlag) Set(s string) error {
	svc, err := account.ParseService(s)
	if err != nil {
		return err
	}
	f.value = svc
	return nil
}

func (f *serviceFlag) Type() string {
	return "vk|tg"
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// AddResult is the JSON response for add.
type AddResult struct {
	Status  string          `json:"status"`
	Account account.Account `json:"account"`
}

// RemoveResult is the JSON response for remove.
type RemoveResult struct {
	Removed   bool            `json:"removed"`
	Service   account.Service `json:"service"`
	AccountID string          `json:"account_id"`
}

// ShowResult is the JSON response for show.
type ShowResult struct {
	Found   bool             `json:"found"`
	Account *account.Account `json:"account,omitempty"`
}

// ExportResult is the JSON response for export.
type ExportResult struct {
	Exported   int    `json:"exported"`
	OutputPath string `json:"output_path"`
}
