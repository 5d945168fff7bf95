// Package storage provides the durable key/value surface the admin session is persisted to.
//
// Every backend stores each key independently so that removal of a single key (for example
// the access token being cleared by another process) is observable through Watch.
package storage

import (
	"context"
	"errors"
)

// Session keys. They are written and cleared as a group by the session package.
const (
	KeyAccessToken  = "admin_access_token"
	KeyRefreshToken = "admin_refresh_token"
	KeyAdminData    = "admin_data"

	// KeyThemeOverride holds the manual theme override written by the theme command
	KeyThemeOverride = "swiftstay-theme-override"
)

// SessionKeys lists the three session keys
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyAdminData}

// ErrNotFound is returned by Get when the key is absent
var ErrNotFound = errors.New("storage: key not found")

// Event describes a change to a single key
type Event struct {
	Key      string `json:"key"`
	NewValue string `json:"newValue"`
	Origin   string `json:"origin,omitempty"`
}

// Removed reports whether the event represents the key being deleted
func (e Event) Removed() bool {
	return e.NewValue == ""
}

// Store defines the durable storage operations
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Watch streams changes made to the store by any writer until ctx is done
	Watch(ctx context.Context) (<-chan Event, error)

	// Close releases resources held by the store
	Close() error
}

// Lookup returns the value stored under key, treating a missing key as empty
func Lookup(ctx context.Context, s Store, key string) (string, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
