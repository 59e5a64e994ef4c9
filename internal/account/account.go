// Package account defines the account record stored by acct.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service identifies the platform an account belongs to.
type Service string

const (
	VK Service = "vk"
	TG Service = "tg"
)

// Services lists every supported service in display order.
var Services = []Service{VK, TG}

// TimeLayout is the created_at format: second precision, no zone offset.
const TimeLayout = "2006-01-02T15:04:05"

// ErrInvalidService is returned when a service value is not vk or tg.
var ErrInvalidService = errors.New("service must be 'vk' or 'tg'")

// Account is a single stored account record.
// Field order here is the field order written to disk.
type Account struct {
	Service   Service `json:"service"`
	AccountID string  `json:"account_id"`
	Username  string  `json:"username"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

// ParseService normalizes s to lowercase and checks it against the known services.
func ParseService(s string) (Service, error) {
	svc := Service(strings.ToLower(s))
	if !svc.Valid() {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidService, s)
	}
	return svc, nil
}

// Valid reports whether s is one of the known services.
func (s Service) Valid() bool {
	for _, known := range Services {
		if s == known {
			return true
		}
	}
	return false
}

// New builds an account stamped with the creation time now.
func New(service Service, accountID, username, notes string, now time.Time) Account {
	return Account{
		Service:   service,
		AccountID: accountID,
		Username:  username,
		Notes:     notes,
		CreatedAt: FormatTime(now),
	}
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Key returns the composite key "service:account_id".
func (a Account) Key() string {
	return Key(a.Service, a.AccountID)
}

// Key returns the composite key for a service and account ID.
func Key(service Service, accountID string) string {
	return string(service) + ":" + accountID
}

// Matches reports whether a has the given composite key.
func (a Account) Matches(service Service, accountID string) bool {
	return a.Service == service && a.AccountID == accountID
}

// Created parses CreatedAt. Returns the zero time if it doesn't parse.
func (a Account) Created() time.Time {
	t, err := time.Parse(TimeLayout, a.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Format renders an account as a single human-readable line.
func Format(a Account) string {
	notes := a.Notes
	if notes == "" {
		notes = "-"
	}
	return fmt.Sprintf("[%s] id=%s user=%s created=%s notes=%s",
		a.Service, a.AccountID, a.Username, a.CreatedAt, notes)
}
