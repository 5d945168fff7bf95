// Package session holds the signed-in admin and their tokens, persisted to durable storage
// under three independent keys that are always written and cleared as a group.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/swiftstay/admin/internal/storage"
)

var (
	ErrNotAuthenticated      = errors.New("not logged in")
	ErrIncompleteCredentials = errors.New("admin, access token and refresh token are all required")
)

// Admin is the identity of the signed-in operator
type Admin struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// State is an immutable snapshot of the session
type State struct {
	Admin        *Admin
	AccessToken  string
	RefreshToken string
}

// IsAuthenticated is true iff the admin and both tokens are present
func (s State) IsAuthenticated() bool {
	return s.Admin != nil && s.AccessToken != "" && s.RefreshToken != ""
}

// Reason explains a state transition
type Reason string

const (
	ReasonRestored Reason = "restored"
	ReasonLogin    Reason = "login"
	ReasonLogout   Reason = "logout"
	ReasonExpired  Reason = "expired"
	ReasonExternal Reason = "external"
)

// Change is delivered to subscribers on every LoggedOut/LoggedIn transition
type Change struct {
	State  State
	Reason Reason
}

// Session is the single source of truth for who is logged in.
// It is safe for concurrent use.
type Session struct {
	store  storage.Store
	logger zerolog.Logger

	// writeMu serializes storage writes with the memory update that follows them
	writeMu sync.Mutex

	mu    sync.RWMutex
	state State

	subMu       sync.Mutex
	subscribers []func(Change)
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for session diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a logged-out session backed by store. Call Restore to rehydrate it.
func New(store storage.Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the durable store backing the session
func (s *Session) Store() storage.Store {
	return s.store
}

// Subscribe registers fn to be called after every transition
func (s *Session) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) notify(change Change) {
	s.subMu.Lock()
	subs := make([]func(Change), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	if state.Admin != nil {
		admin := *state.Admin
		state.Admin = &admin
	}
	return state
}

// IsAuthenticated reports whether an admin is signed in
func (s *Session) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

// Admin returns the signed-in admin, or nil
func (s *Session) Admin() *Admin {
	return s.Snapshot().Admin
}

// AccessToken returns the current access token, or ""
func (s *Session) AccessToken() string {
	return s.Snapshot().AccessToken
}

// RefreshToken returns the current refresh token, or ""
func (s *Session) RefreshToken() string {
	return s.Snapshot().RefreshToken
}

// Restore rehydrates the session from durable storage.
//
// A complete triple that parses yields LoggedIn. A missing access token yields LoggedOut and
// leaves storage alone. An access token without its siblings, or admin data that is not valid
// JSON, is corrupt: the session stays LoggedOut and all three keys are removed. Only storage
// failures are returned as errors.
func (s *Session) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	stored, err := s.load(ctx)
	if err != nil {
		s.writeMu.Unlock()
		return err
	}

	if stored.AccessToken == "" {
		was := s.swap(State{})
		s.writeMu.Unlock()
		s.cleared(was, ReasonRestored)
		return nil
	}

	if !stored.IsAuthenticated() {
		s.logger.Warn().Msg("Discarding incomplete or unreadable stored session")
		was := s.swap(State{})
		err := s.removeKeys(ctx)
		s.writeMu.Unlock()
		s.cleared(was, ReasonRestored)
		return err
	}

	s.swap(stored)
	s.writeMu.Unlock()

	s.logger.Debug().Str("admin_id", stored.Admin.ID).Msg("Restored session")
	s.notify(Change{State: s.Snapshot(), Reason: ReasonRestored})
	return nil
}

// load reads the stored triple. A missing sibling or unreadable admin data leaves Admin nil.
func (s *Session) load(ctx context.Context) (State, error) {
	accessToken, err := storage.Lookup(ctx, s.store, storage.KeyAccessToken)
	if err != nil {
		return State{}, fmt.Errorf("failed to read access token: %w", err)
	}
	if accessToken == "" {
		return State{}, nil
	}
	refreshToken, err := storage.Lookup(ctx, s.store, storage.KeyRefreshToken)
	if err != nil {
		return State{}, fmt.Errorf("failed to read refresh token: %w", err)
	}
	adminData, err := storage.Lookup(ctx, s.store, storage.KeyAdminData)
	if err != nil {
		return State{}, fmt.Errorf("failed to read admin data: %w", err)
	}

	state := State{AccessToken: accessToken, RefreshToken: refreshToken}
	if refreshToken == "" || adminData == "" {
		return state, nil
	}

	var admin Admin
	if err := json.Unmarshal([]byte(adminData), &admin); err != nil {
		s.logger.Debug().Err(err).Msg("Stored admin data is not valid JSON")
		return state, nil
	}
	state.Admin = &admin
	return state, nil
}

// Login records a successful authentication and persists it.
// The refresh token and admin data are written before the access token, so other
// readers never see an access token without its siblings. If any write fails the
// keys already written, and the one that failed, are rolled back and the session
// stays LoggedOut.
func (s *Session) Login(ctx context.Context, admin Admin, accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return ErrIncompleteCredentials
	}

	adminData, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("failed to marshal admin data: %w", err)
	}

	writes := []struct{ key, value string }{
		{storage.KeyRefreshToken, refreshToken},
		{storage.KeyAdminData, string(adminData)},
		{storage.KeyAccessToken, accessToken},
	}

	s.writeMu.Lock()
	for i, w := range writes {
		if err := s.store.Set(ctx, w.key, w.value); err != nil {
			// A backend may store the value and still fail afterwards
			for _, done := range writes[:i+1] {
				if rbErr := s.store.Delete(context.WithoutCancel(ctx), done.key); rbErr != nil {
					s.logger.Error().Err(rbErr).Str("key", done.key).Msg("Failed to roll back session key")
				}
			}
			s.writeMu.Unlock()
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}
	s.swap(State{Admin: &admin, AccessToken: accessToken, RefreshToken: refreshToken})
	s.writeMu.Unlock()

	s.logger.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("Admin logged in")
	s.notify(Change{State: s.Snapshot(), Reason: ReasonLogin})
	return nil
}

// Logout clears the session and removes all three keys. Logging out twice is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	return s.clear(ctx, ReasonLogout)
}

// Expire clears the session after the backend rejected its credentials
func (s *Session) Expire(ctx context.Context) error {
	return s.clear(ctx, ReasonExpired)
}

func (s *Session) clear(ctx context.Context, reason Reason) error {
	s.writeMu.Lock()
	was := s.swap(State{})
	err := s.removeKeys(ctx)
	s.writeMu.Unlock()

	s.cleared(was, reason)
	return err
}

// removeKeys deletes the access token first so other readers see LoggedOut immediately
func (s *Session) removeKeys(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for _, key := range storage.SessionKeys {
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// swap replaces the in-memory state and returns the previous one
func (s *Session) swap(state State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = state
	return prev
}

// cleared tells subscribers about a move to LoggedOut from prev
func (s *Session) cleared(prev State, reason Reason) {
	if !prev.IsAuthenticated() {
		return
	}
	s.logger.Info().Str("reason", string(reason)).Msg("Session cleared")
	s.notify(Change{Reason: reason})
}

// Watch follows changes made to storage by other processes sharing it. When the access
// token is removed elsewhere the session moves to LoggedOut, and when another process
// signs in the session adopts the stored credentials. Events only trigger a re-read of
// storage, so stale events for this session's own writes change nothing. Watch never
// writes storage. It blocks until ctx is done or the store stops delivering events.
func (s *Session) Watch(ctx context.Context) error {
	events, err := s.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch storage: %w", err)
	}

	for ev := range events {
		if ev.Key != storage.KeyAccessToken {
			continue
		}
		if err := s.sync(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to re-read session after storage change")
		}
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// sync reconciles memory with storage after the access token changed
func (s *Session) sync(ctx context.Context) error {
	s.writeMu.Lock()
	stored, err := s.load(ctx)
	if err != nil {
		s.writeMu.Unlock()
		return err
	}

	current := s.Snapshot()
	switch {
	case stored.AccessToken == "":
		was := s.swap(State{})
		s.writeMu.Unlock()
		s.cleared(was, ReasonExternal)

	case stored.AccessToken == current.AccessToken || !stored.IsAuthenticated():
		// Unchanged, or not a complete triple; the writer owns cleanup
		s.writeMu.Unlock()

	default:
		s.swap(stored)
		s.writeMu.Unlock()
		s.logger.Info().Str("admin_id", stored.Admin.ID).Msg("Adopted session written by another process")
		s.notify(Change{State: s.Snapshot(), Reason: ReasonExternal})
	}
	return nil
}

// RequireAdmin returns the signed-in admin or ErrNotAuthenticated
func (s *Session) RequireAdmin() (*Admin, error) {
	admin := s.Admin()
	if admin == nil {
		return nil, ErrNotAuthenticated
	}
	return admin, nil
}
