package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftstay/admin/internal/config"
	"github.com/swiftstay/admin/internal/server"
	"github.com/swiftstay/admin/internal/session"
	"github.com/swiftstay/admin/internal/storage"
)

const (
	devEmail    = "admin@test.dev"
	devPassword = "secret123"
)

// signedInClient starts the development backend and signs in against it
func signedInClient(t *testing.T) (*Client, *session.Session) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "Swift Stay Admin", Version: "1.0.0", Env: "test"},
		Server: config.ServerConfig{
			JWTSecret:       "integration-secret",
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

	store := newStore(t)
	sess := session.New(store)
	client := New(ts.URL+"/api", store, WithSession(sess))

	_, err = client.SignIn(context.Background(), sess, devEmail, devPassword)
	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated())
	return client, sess
}

func TestIntegration_WrongPasswordIsUnauthorized(t *testing.T) {
	client, sess := signedInClient(t)

	// The login endpoint answers 401 like every other endpoint, which clears the session
	_, err := client.SignIn(context.Background(), sess, devEmail, "wrong-password")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, sess.IsAuthenticated())
}

func TestIntegration_Dashboard(t *testing.T) {
	client, _ := signedInClient(t)

	env, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
	require.NoError(t, env.Err())
	require.NotNil(t, env.Data)

	stats := env.Data
	assert.EqualValues(t, 3, stats.Summary.TotalUsers)
	assert.EqualValues(t, 12, stats.Summary.TotalLikes)
	assert.EqualValues(t, 1, stats.RecentActivity.NewUsers)
	assert.Len(t, stats.Charts.PropertiesByCategory, 2)
	assert.Len(t, stats.Charts.UserRegistrationTrend, 2)
	assert.Equal(t, "Online", stats.System.Status)
}

func TestIntegration_Catalog(t *testing.T) {
	ctx := context.Background()
	client, _ := signedInClient(t)

	categories, err := client.ListCategories(ctx)
	require.NoError(t, err)
	require.NotNil(t, categories.Data)
	require.NotEmpty(t, *categories.Data)
	categoryID := (*categories.Data)[0].ID

	_, err = client.CreateProperty(ctx, PropertyInput{Name: "Too short", Description: "short"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)

	created, err := client.CreateProperty(ctx, PropertyInput{
		Name:         "Airport Residency",
		Description:  "Quiet rooms five minutes from the airport",
		MainImageURL: "https://example.com/airport.jpg",
		Location:     "Airport Residential",
		City:         "Accra",
		Region:       "Greater Accra",
		Price:        3200,
		CategoryID:   categoryID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Data)
	assert.Equal(t, "Property created successfully", created.Message)
	assert.EqualValues(t, 3200, created.Data.Price)

	list, err := client.ListProperties(ctx)
	require.NoError(t, err)
	require.NotNil(t, list.Data)
	assert.Len(t, *list.Data, 2)

	_, err = client.GetProperty(ctx, "does-not-exist")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Property not found", apiErr.Message)
}

func TestIntegration_CommissionAndReport(t *testing.T) {
	ctx := context.Background()
	client, _ := signedInClient(t)

	current, err := client.CommissionSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.0, current.Data.CommissionPercentage)

	_, err = client.UpdateCommissionSettings(ctx, CommissionSettings{CommissionPercentage: 120})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)

	updated, err := client.UpdateCommissionSettings(ctx, CommissionSettings{CommissionPercentage: 7.5})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.Data.CommissionPercentage)

	report, err := client.PropertyEarningsReport(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, report.Data.Period)
	assert.EqualValues(t, 1, report.Data.Totals.TotalBookings)
	assert.EqualValues(t, 2625, report.Data.Totals.TotalRevenue)

	_, err = client.PropertyEarningsReport(ctx, "hourly")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestIntegration_BookingsAndTransfers(t *testing.T) {
	ctx := context.Background()
	client, _ := signedInClient(t)

	bookings, err := client.ListBookings(ctx, BookingFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, bookings.Data.Bookings, 1)
	assert.Equal(t, 1, bookings.Data.Pagination.PageCount())

	booking := bookings.Data.Bookings[0]
	require.NotNil(t, booking.Property)
	assert.Equal(t, "Legon Heights Hostel", booking.Property.Name)

	confirmed, err := client.UpdateBookingStatus(ctx, booking.ID, "confirmed", "")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Data.Status)

	stats, err := client.BookingStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7875, stats.Data.TotalRevenue)

	_, err = client.CreateTransfer(ctx, TransferInput{
		Amount:         100,
		TransferType:   TransferMobileMoney,
		RecipientType:  "external",
		RecipientName:  "Akosua",
		RecipientEmail: "akosua@example.com",
	})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	_, ok := apiErr.Field("mobileMoneyProvider")
	assert.True(t, ok)

	transfer, err := client.CreateTransfer(ctx, TransferInput{
		Amount:              100,
		TransferType:        TransferMobileMoney,
		RecipientType:       "external",
		RecipientName:       "Akosua",
		RecipientEmail:      "akosua@example.com",
		MobileMoneyProvider: "MTN",
		MobileMoneyNumber:   "0241234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", transfer.Data.Status)
	assert.EqualValues(t, 101, transfer.Data.TotalAmount)

	cancelled, err := client.CancelTransfer(ctx, transfer.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Data.Status)

	_, err = client.CancelTransfer(ctx, transfer.Data.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestIntegration_RejectedTokenExpiresSession(t *testing.T) {
	ctx := context.Background()
	client, sess := signedInClient(t)

	var expired int
	client.OnSessionExpired(func() { expired++ })

	// Replace the stored access token with one the backend did not sign
	require.NoError(t, sess.Store().Set(ctx, storage.KeyAccessToken, "forged"))

	_, err := client.UserStats(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, expired)
	assert.False(t, sess.IsAuthenticated())

	_, err = sess.Store().Get(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
