package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/rs/zerolog"
)

type entry struct {
	Key   string
	Value string
}

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"entries": {
			Name: "entries",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

// MemoryStore is an in-process store built using hashicorp/go-memdb.
// Sessions sharing one MemoryStore behave like browser tabs sharing local storage.
type MemoryStore struct {
	db     *memdb.MemDB
	origin string
	logger zerolog.Logger

	mu sync.Mutex
	// subs maps each watcher channel to its context's Done channel
	subs   map[chan Event]<-chan struct{}
	closed bool
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithMemoryLogger sets the logger used to report events dropped for slow watchers
func WithMemoryLogger(logger zerolog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty in-memory store
func NewMemoryStore(opts ...MemoryOption) (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		return nil, err
	}
	s := &MemoryStore{
		db:     db,
		origin: uuid.NewString(),
		logger: zerolog.Nop(),
		subs:   make(map[chan Event]<-chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get retrieves the value for key
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	txn := s.db.Txn(false)
	obj, err := txn.First("entries", "id", key)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", ErrNotFound
	}
	return obj.(*entry).Value, nil
}

// Set stores value under key
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("entries", &entry{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	txn.Commit()

	s.publish(Event{Key: key, NewValue: value, Origin: s.origin})
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	n, err := txn.DeleteAll("entries", "id", key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	txn.Commit()

	if n > 0 {
		s.publish(Event{Key: key, Origin: s.origin})
	}
	return nil
}

// Watch subscribes to changes until ctx is done
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("storage closed")
	}

	ch := make(chan Event, 64)
	s.subs[ch] = ctx.Done()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}()

	return ch, nil
}

func (s *MemoryStore) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch, done := range s.subs {
		select {
		case ch <- ev:
			continue
		default:
		}

		// Access token removal drives cross-context logout and is never dropped
		if ev.Key == KeyAccessToken && ev.Removed() {
			select {
			case ch <- ev:
			case <-done:
			}
			continue
		}
		s.logger.Warn().Str("key", ev.Key).Msg("Dropping storage event for slow watcher")
	}
}

// Close ends all watches
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	return nil
}
