package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftstay/admin/internal/config"
)

const (
	testEmail    = "admin@test.dev"
	testPassword = "secret123"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "Swift Stay Admin", Version: "1.0.0", Env: "test"},
		Server: config.ServerConfig{
			JWTSecret:       "test-secret",
			AdminEmail:      testEmail,
			AdminPassword:   testPassword,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			Seed:            true,
		},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

type response struct {
	Status int
	Body   map[string]any
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func do(t *testing.T, srv *Server, method, path, token string, body any) response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return response{Status: w.Code, Body: decoded}
}

func login(t *testing.T, srv *Server) (access, refresh string) {
	t.Helper()

	resp := do(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Status)

	tokens := resp.data()["tokens"].(map[string]any)
	return tokens["accessToken"].(string), tokens["refreshToken"].(string)
}

func TestServer_HealthIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, true, resp.Body["success"])
	assert.Equal(t, "healthy", resp.data()["status"])
}

func TestServer_Login(t *testing.T) {
	srv := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
			"email":    testEmail,
			"password": "nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		assert.Equal(t, false, resp.Body["success"])
		assert.Equal(t, "Invalid email or password", resp.Body["message"])
	})

	t.Run("invalid email is a validation failure", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
			"email":    "not-an-email",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		assert.Equal(t, "Validation failed", resp.Body["message"])

		details := resp.Body["error"].(map[string]any)["details"].([]any)
		require.Len(t, details, 1)
		assert.Equal(t, "email", details[0].(map[string]any)["field"])
	})

	t.Run("success returns admin and tokens", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
			"email":    testEmail,
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "Login successful", resp.Body["message"])

		admin := resp.data()["admin"].(map[string]any)
		assert.Equal(t, testEmail, admin["email"])
		assert.NotEmpty(t, admin["lastLoginAt"])
	})
}

func TestServer_AuthMiddleware(t *testing.T) {
	srv := newTestServer(t)
	access, refresh := login(t, srv)

	resp := do(t, srv, http.MethodGet, "/api/admin/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Access token required", resp.Body["message"])

	resp = do(t, srv, http.MethodGet, "/api/admin/profile", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = do(t, srv, http.MethodGet, "/api/admin/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = do(t, srv, http.MethodGet, "/api/admin/profile", access, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, testEmail, resp.data()["email"])
}

func TestServer_UpdateProfilePassword(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodPut, "/api/admin/profile", access, map[string]string{
		"newPassword": "brand-new-pass",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodPut, "/api/admin/profile", access, map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = do(t, srv, http.MethodPut, "/api/admin/profile", access, map[string]string{
		"currentPassword": testPassword,
		"newPassword":     "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.Status)

	resp = do(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    testEmail,
		"password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestServer_Catalog(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodPost, "/api/admin/categories", access, map[string]any{
		"name":  "Guest houses",
		"icon":  "bed",
		"color": "#F59E0B",
	})
	require.Equal(t, http.StatusCreated, resp.Status)
	categoryID := resp.data()["id"].(string)
	assert.Equal(t, true, resp.data()["isActive"])

	property := map[string]any{
		"name":         "Cantonments Suites",
		"description":  "Serviced apartments near the embassy district",
		"mainImageUrl": "https://example.com/a.jpg",
		"location":     "Cantonments",
		"city":         "Accra",
		"region":       "Greater Accra",
		"price":        4000,
		"categoryId":   "missing",
	}

	resp = do(t, srv, http.MethodPost, "/api/admin/properties", access, property)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "Category not found", resp.Body["message"])

	property["categoryId"] = categoryID
	resp = do(t, srv, http.MethodPost, "/api/admin/properties", access, property)
	require.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "Property created successfully", resp.Body["message"])
	assert.Equal(t, "GHS", resp.data()["currency"])
	propertyID := resp.data()["id"].(string)

	resp = do(t, srv, http.MethodGet, "/api/admin/properties", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.data()["properties"], 2)

	delete(property, "price")
	resp = do(t, srv, http.MethodPut, "/api/admin/properties/"+propertyID, access, property)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodPost, "/api/admin/regional-sections", access, map[string]any{"name": "Ashanti"})
	require.Equal(t, http.StatusCreated, resp.Status)
	sectionID := resp.data()["id"].(string)

	assign := map[string]string{"propertyId": propertyID, "regionalSectionId": sectionID}
	resp = do(t, srv, http.MethodPost, "/api/admin/assign-property-to-regional-section", access, assign)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []any{propertyID}, resp.data()["propertyIds"])

	resp = do(t, srv, http.MethodPost, "/api/admin/assign-property-to-regional-section", access, assign)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.data()["propertyIds"], 1)

	resp = do(t, srv, http.MethodDelete, "/api/admin/properties/"+propertyID, access, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	resp = do(t, srv, http.MethodGet, "/api/admin/properties/"+propertyID, access, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "Property not found", resp.Body["message"])
}

func TestServer_Users(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodGet, "/api/admin/users?page=1&limit=2", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.data()["users"], 2)
	pagination := resp.data()["pagination"].(map[string]any)
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["pages"])

	resp = do(t, srv, http.MethodGet, "/api/admin/users?search=KOFI", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	users := resp.data()["users"].([]any)
	require.Len(t, users, 1)
	userID := users[0].(map[string]any)["id"].(string)

	resp = do(t, srv, http.MethodPatch, "/api/admin/users/"+userID+"/status", access, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodPatch, "/api/admin/users/"+userID+"/status", access, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "User deactivated successfully", resp.Body["message"])

	resp = do(t, srv, http.MethodGet, "/api/admin/users/stats", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 3, resp.data()["totalUsers"])
	assert.EqualValues(t, 1, resp.data()["activeUsers"])
	assert.EqualValues(t, 1, resp.data()["newUsersThisWeek"])
}

func TestServer_Notifications(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodPost, "/api/admin/notifications", access, map[string]any{
		"title":       "Maintenance",
		"message":     "The app will be down tonight",
		"type":        "system",
		"targetUsers": "everyone",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodPost, "/api/admin/notifications", access, map[string]any{
		"title":       "Maintenance",
		"message":     "The app will be down tonight",
		"type":        "system",
		"targetUsers": "verified",
	})
	require.Equal(t, http.StatusCreated, resp.Status)
	id := resp.data()["id"].(string)

	resp = do(t, srv, http.MethodPatch, "/api/admin/notifications/"+id+"/read", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	resp = do(t, srv, http.MethodGet, "/api/admin/notifications?isRead=false", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.data()["notifications"], 1)

	resp = do(t, srv, http.MethodGet, "/api/admin/notifications-stats", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 2, resp.data()["totalNotifications"])
	assert.EqualValues(t, 1, resp.data()["unreadNotifications"])
	assert.Len(t, resp.data()["notificationsByType"], 2)
}

func TestServer_Bookings(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodGet, "/api/bookings/admin/all?sortBy=createdAt&sortOrder=ASC", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	bookings := resp.data()["bookings"].([]any)
	require.Len(t, bookings, 3)
	oldest := bookings[0].(map[string]any)
	assert.Equal(t, "completed", oldest["status"])
	assert.Equal(t, "Legon Heights Hostel", oldest["property"].(map[string]any)["name"])
	assert.EqualValues(t, 1, resp.data()["pagination"].(map[string]any)["totalPages"])

	resp = do(t, srv, http.MethodGet, "/api/bookings/admin/all?status=pending", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	pending := resp.data()["bookings"].([]any)
	require.Len(t, pending, 1)
	id := pending[0].(map[string]any)["id"].(string)

	resp = do(t, srv, http.MethodPatch, "/api/bookings/admin/"+id+"/status", access, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodPatch, "/api/bookings/admin/"+id+"/status", access, map[string]string{
		"status": "confirmed",
		"notes":  "Paid at the front desk",
	})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, true, resp.data()["isPaid"])

	resp = do(t, srv, http.MethodGet, "/api/bookings/admin/stats", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 2, resp.data()["confirmedBookings"])
	assert.Equal(t, "7875.00", resp.data()["totalRevenue"])
}

func TestServer_Transfers(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	transfer := map[string]any{
		"amount":         500,
		"transferType":   "bank_account",
		"recipientType":  "external",
		"recipientName":  "Kwame Owner",
		"recipientEmail": "kwame@example.com",
	}
	resp := do(t, srv, http.MethodPost, "/api/admin/transfers", access, transfer)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	transfer["bankCode"] = "040100"
	transfer["accountNumber"] = "1234567890"
	resp = do(t, srv, http.MethodPost, "/api/admin/transfers", access, transfer)
	require.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "pending", resp.data()["status"])
	assert.EqualValues(t, 5, resp.data()["transferFee"])
	assert.EqualValues(t, 505, resp.data()["totalAmount"])
	id := resp.data()["id"].(string)

	resp = do(t, srv, http.MethodPatch, "/api/admin/transfers/"+id+"/cancel", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "cancelled", resp.data()["status"])

	resp = do(t, srv, http.MethodPatch, "/api/admin/transfers/"+id+"/cancel", access, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = do(t, srv, http.MethodGet, "/api/admin/transfers/stats", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 1, resp.data()["totalTransfers"])

	resp = do(t, srv, http.MethodPost, "/api/admin/transfers/verify-bank", access, map[string]string{
		"accountNumber": "1234567890",
		"bankCode":      "040100",
	})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "GCB Bank", resp.data()["bankName"])
}

func TestTransferFee(t *testing.T) {
	assert.Equal(t, 1.0, transferFee(100))
	assert.Equal(t, 10.0, transferFee(5000))
}

func TestServer_CommissionAndReport(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodGet, "/api/admin/commission-settings", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 5, resp.data()["commission_percentage"])

	resp = do(t, srv, http.MethodPut, "/api/admin/commission-settings", access, map[string]any{"commission_percentage": 150})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = do(t, srv, http.MethodGet, "/api/admin/reports/property-earnings", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "monthly", resp.data()["period"])
	totals := resp.data()["totals"].(map[string]any)
	assert.EqualValues(t, 1, totals["totalBookings"])
	assert.EqualValues(t, 2625, totals["totalRevenue"])
	assert.EqualValues(t, 125, totals["totalCommission"])
	assert.EqualValues(t, 2500, totals["totalEarnings"])

	resp = do(t, srv, http.MethodGet, "/api/admin/reports/property-earnings?period=yearly", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 2, resp.data()["totals"].(map[string]any)["totalBookings"])

	resp = do(t, srv, http.MethodGet, "/api/admin/reports/property-earnings?period=hourly", access, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestServer_Dashboard(t *testing.T) {
	srv := newTestServer(t)
	access, _ := login(t, srv)

	resp := do(t, srv, http.MethodGet, "/api/admin/dashboard", access, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	summary := resp.data()["summary"].(map[string]any)
	assert.EqualValues(t, 3, summary["totalUsers"])
	assert.Equal(t, "12", summary["totalLikes"])

	recent := resp.data()["recentActivity"].(map[string]any)
	assert.EqualValues(t, 1, recent["recentUsers"])

	analytics := resp.data()["analytics"].(map[string]any)
	assert.Len(t, analytics["propertiesByCategory"], 2)
	assert.Len(t, analytics["dailyUserRegistrations"], 2)
	assert.Len(t, analytics["topPropertiesByLikes"], 1)

	assert.Equal(t, "Online", resp.data()["system"].(map[string]any)["status"])
}

func TestPaginate(t *testing.T) {
	items := []doc{{"id": "1"}, {"id": "2"}, {"id": "3"}}

	page, pages := paginate(items, 2, 2)
	assert.Equal(t, 2, pages)
	assert.Equal(t, []doc{{"id": "3"}}, page)

	page, _ = paginate(items, 5, 2)
	assert.Empty(t, page)
}
