package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

// KeyringService is the service name entries are filed under in the OS credential manager
const KeyringService = "swiftstay-admin"

// keyringMu guards go-keyring, whose providers are process-wide and not safe for
// concurrent use. The poller reads while session writes are in flight.
var keyringMu sync.Mutex

// KeyringStore persists keys securely in the OS keychain/credential manager.
// The credential manager has no change notifications, so Watch polls the session keys.
type KeyringStore struct {
	service string
	poll    *poller
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a keyring-backed store
func NewKeyringStore(interval time.Duration, logger zerolog.Logger) *KeyringStore {
	s := &KeyringStore{service: KeyringService}
	s.poll = &poller{
		get:      s.Get,
		keys:     SessionKeys,
		interval: interval,
		logger:   logger,
	}
	return s
}

// Get retrieves a value from the OS keychain/credential manager
func (s *KeyringStore) Get(_ context.Context, key string) (string, error) {
	keyringMu.Lock()
	value, err := keyring.Get(s.service, key)
	keyringMu.Unlock()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

// Set saves a value in the OS keychain/credential manager
func (s *KeyringStore) Set(_ context.Context, key, value string) error {
	keyringMu.Lock()
	defer keyringMu.Unlock()

	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes a value from the OS keychain/credential manager
func (s *KeyringStore) Delete(_ context.Context, key string) error {
	keyringMu.Lock()
	defer keyringMu.Unlock()

	if err := keyring.Delete(s.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Watch polls the session keys for changes
func (s *KeyringStore) Watch(ctx context.Context) (<-chan Event, error) {
	return s.poll.watch(ctx)
}

// Close is a no-op for the keyring
func (s *KeyringStore) Close() error {
	return nil
}
