package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// DefaultCommissionPercentage applies when the backend has no commission configured
const DefaultCommissionPercentage = 5.0

// AdminProfile is the signed-in admin's account
type AdminProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// ProfileInput changes the admin's account. Changing the password requires the current one.
type ProfileInput struct {
	FullName        string `json:"fullName,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// AppSettings are the global switches of the Swift Stay app
type AppSettings struct {
	AppName                  string `json:"appName"`
	AppVersion               string `json:"appVersion"`
	Environment              string `json:"environment"`
	MaintenanceMode          bool   `json:"maintenanceMode"`
	AllowRegistrations       bool   `json:"allowRegistrations"`
	RequireEmailVerification bool   `json:"requireEmailVerification"`
	RequirePhoneVerification bool   `json:"requirePhoneVerification"`
}

// AppSettingsInput changes app settings. Nil fields are left unchanged.
type AppSettingsInput struct {
	MaintenanceMode          *bool `json:"maintenanceMode,omitempty"`
	AllowRegistrations       *bool `json:"allowRegistrations,omitempty"`
	RequireEmailVerification *bool `json:"requireEmailVerification,omitempty"`
	RequirePhoneVerification *bool `json:"requirePhoneVerification,omitempty"`
}

// CommissionSettings is the platform commission added on top of room prices
type CommissionSettings struct {
	CommissionPercentage float64 `json:"commission_percentage" validate:"gte=0,lte=100"`
}

// UnmarshalJSON falls back to the default percentage when the backend omits it
func (s *CommissionSettings) UnmarshalJSON(b []byte) error {
	var wire struct {
		CommissionPercentage *Amount `json:"commission_percentage"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	s.CommissionPercentage = DefaultCommissionPercentage
	if wire.CommissionPercentage != nil {
		s.CommissionPercentage = float64(*wire.CommissionPercentage)
	}
	return nil
}

// Apply returns the commission charged on price and the price a guest pays
func (s CommissionSettings) Apply(price float64) (commission, total float64) {
	commission = price * s.CommissionPercentage / 100
	return commission, price + commission
}

// AdminProfile returns the signed-in admin's account
func (c *Client) AdminProfile(ctx context.Context) (*Envelope[AdminProfile], error) {
	return call[AdminProfile](ctx, c, "/admin/profile", RequestOptions{})
}

// UpdateAdminProfile changes the signed-in admin's account
func (c *Client) UpdateAdminProfile(ctx context.Context, in ProfileInput) (*Envelope[AdminProfile], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[AdminProfile](ctx, c, "/admin/profile", RequestOptions{Method: http.MethodPut, Body: in})
}

// AppSettings returns the app settings
func (c *Client) AppSettings(ctx context.Context) (*Envelope[AppSettings], error) {
	return call[AppSettings](ctx, c, "/admin/settings", RequestOptions{})
}

// UpdateAppSettings changes the app settings
func (c *Client) UpdateAppSettings(ctx context.Context, in AppSettingsInput) (*Envelope[AppSettings], error) {
	return call[AppSettings](ctx, c, "/admin/settings", RequestOptions{Method: http.MethodPut, Body: in})
}

// CommissionSettings returns the commission configuration
func (c *Client) CommissionSettings(ctx context.Context) (*Envelope[CommissionSettings], error) {
	return call[CommissionSettings](ctx, c, "/admin/commission-settings", RequestOptions{})
}

// UpdateCommissionSettings changes the commission percentage
func (c *Client) UpdateCommissionSettings(ctx context.Context, in CommissionSettings) (*Envelope[CommissionSettings], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[CommissionSettings](ctx, c, "/admin/commission-settings", RequestOptions{Method: http.MethodPut, Body: in})
}
