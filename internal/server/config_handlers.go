package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// appSettings are the global switches of the Swift Stay app
type appSettings struct {
	AppName                  string `json:"appName"`
	AppVersion               string `json:"appVersion"`
	Environment              string `json:"environment"`
	MaintenanceMode          bool   `json:"maintenanceMode"`
	AllowRegistrations       bool   `json:"allowRegistrations"`
	RequireEmailVerification bool   `json:"requireEmailVerification"`
	RequirePhoneVerification bool   `json:"requirePhoneVerification"`
}

// UpdateSettingsRequest changes app settings. Omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	MaintenanceMode          *bool `json:"maintenanceMode,omitempty"`
	AllowRegistrations       *bool `json:"allowRegistrations,omitempty"`
	RequireEmailVerification *bool `json:"requireEmailVerification,omitempty"`
	RequirePhoneVerification *bool `json:"requirePhoneVerification,omitempty"`
}

// CommissionRequest sets the platform commission
type CommissionRequest struct {
	CommissionPercentage *float64 `json:"commission_percentage" validate:"required,gte=0,lte=100"`
}

// @Summary Get app settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} appSettings
// @Router /api/admin/settings [get]
func (s *Server) getSettings(c *gin.Context) {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	respondOK(c, http.StatusOK, "", settings)
}

// @Summary Update app settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings changes"
// @Success 200 {object} appSettings
// @Router /api/admin/settings [put]
func (s *Server) updateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	if req.MaintenanceMode != nil {
		s.settings.MaintenanceMode = *req.MaintenanceMode
	}
	if req.AllowRegistrations != nil {
		s.settings.AllowRegistrations = *req.AllowRegistrations
	}
	if req.RequireEmailVerification != nil {
		s.settings.RequireEmailVerification = *req.RequireEmailVerification
	}
	if req.RequirePhoneVerification != nil {
		s.settings.RequirePhoneVerification = *req.RequirePhoneVerification
	}
	settings := s.settings
	s.mu.Unlock()

	s.logger.Info().Bool("maintenance_mode", settings.MaintenanceMode).Msg("App settings updated")
	respondOK(c, http.StatusOK, "Settings updated successfully", settings)
}

// @Summary Get commission settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/commission-settings [get]
func (s *Server) getCommission(c *gin.Context) {
	respondOK(c, http.StatusOK, "", gin.H{"commission_percentage": s.commissionPercentage()})
}

// @Summary Update commission settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CommissionRequest true "Commission percentage"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/commission-settings [put]
func (s *Server) updateCommission(c *gin.Context) {
	var req CommissionRequest
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	s.commission = *req.CommissionPercentage
	s.mu.Unlock()

	s.logger.Info().Float64("commission_percentage", *req.CommissionPercentage).Msg("Commission updated")
	respondOK(c, http.StatusOK, "Commission settings updated successfully", gin.H{
		"commission_percentage": *req.CommissionPercentage,
	})
}

func (s *Server) commissionPercentage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commission
}
