package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/swiftstay/admin/internal/api"
	"github.com/swiftstay/admin/internal/cli/commands"
	"github.com/swiftstay/admin/internal/config"
	"github.com/swiftstay/admin/internal/server"
	"github.com/swiftstay/admin/internal/session"
	"github.com/swiftstay/admin/internal/storage"
)

const (
	devEmail    = "admin@test.dev"
	devPassword = "secret123"
)

// syncBuffer is a bytes.Buffer safe to read while a command writes to it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// harness runs commands against the development backend with a shared session
type harness struct {
	t       *testing.T
	store   *storage.MemoryStore
	sess    *session.Session
	client  *api.Client
	now     time.Time
	confirm bool
	prompts int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "Swift Stay Admin", Version: "1.0.0", Env: "test"},
		Server: config.ServerConfig{
			JWTSecret:       "cli-secret",
			AdminEmail:      devEmail,
			AdminPassword:   devPassword,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			Seed:            true,
		},
	}
	backend, err := server.New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	store, err := storage.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sess := session.New(store)
	return &harness{
		t:      t,
		store:  store,
		sess:   sess,
		client: api.New(ts.URL+"/api", store, api.WithSession(sess)),
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (h *harness) env(out *syncBuffer) *commands.Env {
	return &commands.Env{
		Logger:  zerolog.Nop(),
		Version: "test",
		Store:   h.store,
		Session: h.sess,
		Client:  h.client,
		Out:     out,
		Err:     &syncBuffer{},
		Now:     func() time.Time { return h.now },
		Confirm: func(string) (bool, error) {
			h.prompts++
			return h.confirm, nil
		},
		ReadPassword: func(string) (string, error) { return devPassword, nil },
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	out := &syncBuffer{}
	root := NewRootCmd(h.env(out))
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(&syncBuffer{})

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, err := h.run("login", "--email", devEmail, "--password", devPassword)
	require.NoError(h.t, err)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("version")
	require.NoError(t, err)
	assert.Equal(t, "swiftstay-admin version test\n", out)
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("-o", "xml", "users", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format 'xml'")
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", devEmail, "--password", devPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.True(t, h.sess.IsAuthenticated())

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, devEmail)
	assert.Contains(t, out, "Token expires")

	out, err = h.run("whoami", "-o", "json")
	require.NoError(t, err)
	var id struct {
		Admin struct {
			Email string `json:"email"`
		} `json:"admin"`
		TokenExpires string `json:"tokenExpires"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &id))
	assert.Equal(t, devEmail, id.Admin.Email)
	assert.NotEmpty(t, id.TokenExpires)

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.False(t, h.sess.IsAuthenticated())

	_, err = h.run("whoami")
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "swiftstay-admin login")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	t.Setenv("SWIFTSTAY_PASSWORD", "")
	h := newHarness(t)

	out, err := h.run("login", "--email", devEmail)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", devEmail, "--password", "not-the-password")
	require.Error(t, err)
	assert.Equal(t, "login failed: invalid credentials", err.Error())
	assert.False(t, h.sess.IsAuthenticated())
}

func TestSessionExpiredMessage(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("users", "ls")
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Equal(t, "Session expired. Please run 'swiftstay-admin login'.", commands.FormatError(err))
}

func TestValidationErrorsAreListed(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, err := h.run("categories", "create", "--name", "Guest houses")
	require.Error(t, err)

	msg := commands.FormatError(err)
	assert.Contains(t, msg, "Error: Validation failed")
	assert.Contains(t, msg, "  - icon: Icon is required")
	assert.Contains(t, msg, "  - color: Color is required")
}

func TestProperties_OutputFormats(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("properties", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Legon Heights Hostel")

	out, err = h.run("properties", "ls", "-o", "json")
	require.NoError(t, err)
	var asJSON []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &asJSON))
	require.Len(t, asJSON, 1)
	assert.Equal(t, "Legon Heights Hostel", asJSON[0]["name"])

	out, err = h.run("properties", "ls", "-o", "yaml")
	require.NoError(t, err)
	var asYAML []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &asYAML))
	require.Len(t, asYAML, 1)
	assert.Equal(t, "Legon Heights Hostel", asYAML[0]["name"])
}

func TestProperties_CreateFromFileUpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	categories, err := h.client.ListCategories(ctx)
	require.NoError(t, err)
	categoryID := (*categories.Data)[0].ID

	file := filepath.Join(t.TempDir(), "property.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: Airport Residency
description: Quiet rooms five minutes from the airport
mainImageUrl: https://example.com/airport.jpg
location: Airport Residential
city: Accra
region: Greater Accra
price: 3200
categoryId: `+categoryID+"\n"), 0600))

	out, err := h.run("properties", "create", "-f", file, "-o", "json")
	require.NoError(t, err)
	var created api.Property
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Airport Residency", created.Name)
	assert.EqualValues(t, 3200, created.Price)

	out, err = h.run("properties", "update", created.ID, "--price", "4000", "-o", "json")
	require.NoError(t, err)
	var updated api.Property
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.EqualValues(t, 4000, updated.Price)
	assert.Equal(t, "Airport Residency", updated.Name)

	// Declined confirmation leaves the property alone
	h.confirm = false
	out, err = h.run("properties", "delete", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Equal(t, 1, h.prompts)
	_, err = h.client.GetProperty(ctx, created.ID)
	require.NoError(t, err)

	// --yes skips the prompt
	out, err = h.run("properties", "delete", created.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Equal(t, 1, h.prompts)

	_, err = h.client.GetProperty(ctx, created.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestUsersAndBookings(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	out, err := h.run("users", "ls", "--search", "kofi")
	require.NoError(t, err)
	assert.Contains(t, out, "Kofi")
	assert.NotContains(t, out, "Esi")

	pending, err := h.client.ListBookings(ctx, api.BookingFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Data.Bookings, 1)

	_, err = h.run("bookings", "set-status", pending.Data.Bookings[0].ID, "confirmed")
	require.NoError(t, err)

	out, err = h.run("bookings", "stats", "-o", "json")
	require.NoError(t, err)
	var stats struct {
		TotalRevenue float64 `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 7875.0, stats.TotalRevenue)

	_, err = h.run("bookings", "set-status", pending.Data.Bookings[0].ID, "lost")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestTransfers(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, err := h.run("transfers", "create", "--amount", "500", "--type", "bank_account",
		"--recipient-type", "external", "--name", "Yaw", "--email", "yaw@example.com")
	require.Error(t, err)
	assert.Contains(t, commands.FormatError(err), "  - bankCode:")

	out, err := h.run("transfers", "create", "--amount", "500", "--type", "bank_account",
		"--recipient-type", "external", "--name", "Yaw", "--email", "yaw@example.com",
		"--bank-code", "040100", "--account-number", "0123456789", "-o", "json")
	require.NoError(t, err)
	var transfer api.Transfer
	require.NoError(t, json.Unmarshal([]byte(out), &transfer))
	assert.EqualValues(t, 5, transfer.TransferFee)
	assert.EqualValues(t, 505, transfer.TotalAmount)
	assert.Equal(t, "pending", transfer.Status)

	_, err = h.run("transfers", "cancel", transfer.ID)
	require.NoError(t, err)

	_, err = h.run("transfers", "cancel", transfer.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	out, err = h.run("transfers", "verify-bank", "0123456789", "040100")
	require.NoError(t, err)
	assert.Contains(t, out, "SWIFT STAY TEST ACCOUNT")
}

func TestCommissionAndReports(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("commission", "calc", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "GHS 105.00")

	_, err = h.run("commission", "set", "150")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)

	out, err = h.run("commission", "set", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "10%")

	_, err = h.run("reports", "earnings", "--period", "hourly")
	require.ErrorAs(t, err, &apiErr)

	out, err = h.run("reports", "earnings", "--period", "yearly")
	require.NoError(t, err)
	assert.Contains(t, out, "Legon Heights Hostel")
	assert.Contains(t, out, "TOTAL")
}

func TestApplicationsAndNotifications(t *testing.T) {
	h := newHarness(t)
	h.login()
	ctx := context.Background()

	apps, err := h.client.ListOwnerApplications(ctx, api.OwnerApplicationFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotEmpty(t, apps.Data.Items)

	out, err := h.run("applications", "approve", apps.Data.Items[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "approved")

	out, err = h.run("notifications", "send", "--title", "New rooms", "--message", "Fresh listings in Kumasi")
	require.NoError(t, err)
	assert.Contains(t, out, "Notification sent successfully")

	_, err = h.run("notifications", "send", "--title", "Bad", "--message", "Target", "--target", "nobody")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	show := func() map[string]any {
		out, err := h.run("theme", "show", "-o", "json")
		require.NoError(t, err)
		var status map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		return status
	}

	status := show()
	assert.Equal(t, "light", status["theme"])
	assert.Equal(t, false, status["overrideActive"])
	assert.Equal(t, "2024-05-01T18:00:00Z", status["nextSwitch"])

	_, err := h.run("theme", "toggle")
	require.NoError(t, err)

	status = show()
	assert.Equal(t, "dark", status["theme"])
	assert.Equal(t, true, status["overrideActive"])

	h.now = h.now.Add(11 * time.Minute)
	status = show()
	assert.Equal(t, "light", status["theme"])
	assert.Equal(t, false, status["overrideActive"])
}

func TestWatch_ReportsExternalLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	root := NewRootCmd(h.env(out))
	root.SetArgs([]string{"watch"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	// Another process signs out by removing the access token. Re-add it each time until the
	// watcher has subscribed and reported the removal.
	require.Eventually(t, func() bool {
		bg := context.Background()
		if err := h.store.Set(bg, storage.KeyAccessToken, "token"); err != nil {
			return false
		}
		if err := h.store.Delete(bg, storage.KeyAccessToken); err != nil {
			return false
		}
		return strings.Contains(out.String(), "Logged out (external)")
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, out.String(), "Logged in as "+devEmail)
	assert.False(t, h.sess.IsAuthenticated())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
