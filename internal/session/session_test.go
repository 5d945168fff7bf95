package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftstay/admin/internal/storage"
)

var testAdmin = Admin{ID: "1", Email: "a@x.com", FullName: "A", Role: "admin"}

func newStore(t *testing.T) *storage.MemoryStore {
	t.Helper()

	store, err := storage.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func assertKeysAbsent(t *testing.T, store storage.Store) {
	t.Helper()

	for _, key := range storage.SessionKeys {
		_, err := store.Get(context.Background(), key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
}

// failingStore fails Set for one key
type failingStore struct {
	storage.Store
	failKey string
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

// lateFailingStore stores the value for one key and then reports an error, like a backend
// whose change notification fails after the write
type lateFailingStore struct {
	storage.Store
	failKey string
}

func (f *lateFailingStore) Set(ctx context.Context, key, value string) error {
	if err := f.Store.Set(ctx, key, value); err != nil {
		return err
	}
	if key == f.failKey {
		return errors.New("failed to publish change")
	}
	return nil
}

const markerKey = "test-marker"

// watchedStore hands events to the session one at a time, so once a marker has been
// handed over every earlier event has been fully handled
type watchedStore struct {
	storage.Store
	ready  chan struct{}
	marker chan struct{}
}

func newWatchedStore(inner storage.Store) *watchedStore {
	return &watchedStore{Store: inner, ready: make(chan struct{}), marker: make(chan struct{}, 1)}
}

func (w *watchedStore) Watch(ctx context.Context) (<-chan storage.Event, error) {
	in, err := w.Store.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan storage.Event)
	go func() {
		defer close(out)
		for ev := range in {
			out <- ev
			if ev.Key == markerKey {
				w.marker <- struct{}{}
			}
		}
	}()
	close(w.ready)
	return out, nil
}

// settle waits until the watcher has handled every event written so far
func (w *watchedStore) settle(t *testing.T) {
	t.Helper()

	require.NoError(t, w.Store.Set(context.Background(), markerKey, time.Now().String()))
	select {
	case <-w.marker:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not catch up")
	}
}

// startWatch runs s.Watch until the test ends
func startWatch(t *testing.T, s *Session, w *watchedStore) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, s.Watch(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-w.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not subscribe")
	}
}

func TestSession_LoginPersistsAllKeys(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(store)

	require.NoError(t, s.Login(ctx, testAdmin, "tok1", "tok2"))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "a@x.com", s.Admin().Email)
	assert.Equal(t, "tok1", s.AccessToken())
	assert.Equal(t, "tok2", s.RefreshToken())

	access, err := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok1", access)

	refresh, err := store.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "tok2", refresh)

	adminData, err := store.Get(ctx, storage.KeyAdminData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","email":"a@x.com","fullName":"A","role":"admin"}`, adminData)
}

func TestSession_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, New(store).Login(ctx, testAdmin, "tok1", "tok2"))

	// A fresh process reading the same storage
	fresh := New(store)
	require.False(t, fresh.IsAuthenticated())
	require.NoError(t, fresh.Restore(ctx))

	assert.True(t, fresh.IsAuthenticated())
	assert.Equal(t, testAdmin, *fresh.Admin())
	assert.Equal(t, "tok1", fresh.AccessToken())
	assert.Equal(t, "tok2", fresh.RefreshToken())
}

func TestSession_RestoreCorruptAdminData(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "tok1"))
	require.NoError(t, store.Set(ctx, storage.KeyRefreshToken, "tok2"))
	require.NoError(t, store.Set(ctx, storage.KeyAdminData, "{not json"))

	s := New(store)
	require.NoError(t, s.Restore(ctx))

	assert.False(t, s.IsAuthenticated())
	assertKeysAbsent(t, store)
}

func TestSession_RestoreIncomplete(t *testing.T) {
	t.Run("access token without siblings is discarded", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "tok1"))

		s := New(store)
		require.NoError(t, s.Restore(ctx))

		assert.False(t, s.IsAuthenticated())
		assertKeysAbsent(t, store)
	})

	t.Run("missing access token leaves storage alone", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Set(ctx, storage.KeyRefreshToken, "tok2"))

		s := New(store)
		require.NoError(t, s.Restore(ctx))

		assert.False(t, s.IsAuthenticated())
		val, err := store.Get(ctx, storage.KeyRefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "tok2", val)
	})

	t.Run("empty storage", func(t *testing.T) {
		s := New(newStore(t))
		require.NoError(t, s.Restore(context.Background()))
		assert.False(t, s.IsAuthenticated())
	})
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(store)

	require.NoError(t, s.Login(ctx, testAdmin, "tok1", "tok2"))
	require.NoError(t, s.Logout(ctx))

	state := s.Snapshot()
	assert.False(t, state.IsAuthenticated())
	assert.Nil(t, state.Admin)
	assert.Empty(t, state.AccessToken)
	assert.Empty(t, state.RefreshToken)
	assertKeysAbsent(t, store)

	// Idempotent
	assert.NoError(t, s.Logout(ctx))
	assert.NoError(t, s.Expire(ctx))
}

func TestSession_LoginRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	mem := newStore(t)
	s := New(&failingStore{Store: mem, failKey: storage.KeyAccessToken})

	err := s.Login(ctx, testAdmin, "tok1", "tok2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.False(t, s.IsAuthenticated())
	assertKeysAbsent(t, mem)
}

func TestSession_LoginRollsBackKeyThatFailedLate(t *testing.T) {
	ctx := context.Background()
	mem := newStore(t)
	s := New(&lateFailingStore{Store: mem, failKey: storage.KeyAccessToken})

	err := s.Login(ctx, testAdmin, "tok1", "tok2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish change")

	assert.False(t, s.IsAuthenticated())
	assertKeysAbsent(t, mem)
}

func TestSession_LoginRequiresCompleteCredentials(t *testing.T) {
	s := New(newStore(t))

	assert.ErrorIs(t, s.Login(context.Background(), testAdmin, "", "tok2"), ErrIncompleteCredentials)
	assert.ErrorIs(t, s.Login(context.Background(), testAdmin, "tok1", ""), ErrIncompleteCredentials)
	assert.False(t, s.IsAuthenticated())
}

func TestSession_SubscribersSeeTransitions(t *testing.T) {
	ctx := context.Background()
	s := New(newStore(t))

	var reasons []Reason
	s.Subscribe(func(c Change) {
		reasons = append(reasons, c.Reason)
	})

	require.NoError(t, s.Login(ctx, testAdmin, "tok1", "tok2"))
	require.NoError(t, s.Expire(ctx))
	require.NoError(t, s.Logout(ctx)) // already logged out, no transition

	assert.Equal(t, []Reason{ReasonLogin, ReasonExpired}, reasons)
}

func TestSession_WatchObservesExternalLogout(t *testing.T) {
	ctx := context.Background()
	shared := newWatchedStore(newStore(t))
	tabA := New(shared)
	tabB := New(shared)

	require.NoError(t, tabA.Login(ctx, testAdmin, "tok1", "tok2"))
	require.NoError(t, tabB.Restore(ctx))
	require.True(t, tabB.IsAuthenticated())

	var mu sync.Mutex
	var reasons []Reason
	tabB.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		reasons = append(reasons, c.Reason)
	})

	startWatch(t, tabB, shared)

	// Another tab removes only the access token
	require.NoError(t, shared.Delete(ctx, storage.KeyAccessToken))
	shared.settle(t)

	assert.False(t, tabB.IsAuthenticated())
	mu.Lock()
	assert.Equal(t, []Reason{ReasonExternal}, reasons)
	mu.Unlock()

	// Watch leaves the siblings for the context that removed the token
	refresh, err := storage.Lookup(ctx, shared, storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "tok2", refresh)
}

func TestSession_WatchIgnoresOwnEarlierLogout(t *testing.T) {
	ctx := context.Background()
	store := newWatchedStore(newStore(t))
	s := New(store)
	startWatch(t, s, store)

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Login(ctx, testAdmin, "tok1", "tok2"))
		require.NoError(t, s.Logout(ctx))
		require.NoError(t, s.Login(ctx, testAdmin, "tok3", "tok4"))
		store.settle(t)

		require.True(t, s.IsAuthenticated(), "iteration %d", i)
		assert.Equal(t, "tok3", s.AccessToken())

		// Memory and storage agree
		fresh := New(store)
		require.NoError(t, fresh.Restore(ctx))
		assert.Equal(t, s.Snapshot(), fresh.Snapshot())

		require.NoError(t, s.Logout(ctx))
	}
}

func TestSession_WatchAdoptsExternalLogin(t *testing.T) {
	ctx := context.Background()
	shared := newWatchedStore(newStore(t))
	tabA := New(shared)
	tabB := New(shared)

	changes := make(chan Change, 4)
	tabB.Subscribe(func(c Change) { changes <- c })
	startWatch(t, tabB, shared)

	require.NoError(t, tabA.Login(ctx, testAdmin, "tok1", "tok2"))
	shared.settle(t)

	require.True(t, tabB.IsAuthenticated())
	assert.Equal(t, "a@x.com", tabB.Admin().Email)
	assert.Equal(t, "tok2", tabB.RefreshToken())

	select {
	case c := <-changes:
		assert.Equal(t, ReasonExternal, c.Reason)
		assert.True(t, c.State.IsAuthenticated())
	default:
		t.Fatal("no change reported")
	}
}

func TestSession_RequireAdmin(t *testing.T) {
	s := New(newStore(t))

	_, err := s.RequireAdmin()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, s.Login(context.Background(), testAdmin, "tok1", "tok2"))
	admin, err := s.RequireAdmin()
	require.NoError(t, err)
	assert.Equal(t, testAdmin, *admin)
}

func TestSession_Context(t *testing.T) {
	s := New(newStore(t))
	ctx := NewContext(context.Background(), s)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
