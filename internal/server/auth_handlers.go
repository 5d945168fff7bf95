package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swiftstay/admin/internal/auth"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminDetail represents admin information returned in responses
type AdminDetail struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// TokensDetail is the token pair returned on login
type TokensDetail struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Admin  AdminDetail  `json:"admin"`
	Tokens TokensDetail `json:"tokens"`
}

// UpdateProfileRequest changes the admin account
type UpdateProfileRequest struct {
	FullName        string `json:"fullName,omitempty"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword string `json:"currentPassword,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

func (a adminAccount) detail() AdminDetail {
	return AdminDetail{
		ID:          a.ID,
		Email:       a.Email,
		FullName:    a.FullName,
		Role:        a.Role,
		IsActive:    true,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// @Summary Admin login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if !s.bind(c, &req) {
		return
	}

	admin := s.currentAdmin()
	if !strings.EqualFold(req.Email, admin.Email) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := auth.VerifyPassword(req.Password, admin.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokens, err := s.issuer.Issue(admin.ID, admin.Email, admin.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate tokens")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.mu.Lock()
	s.admin.LastLoginAt = time.Now().UTC().Format(time.RFC3339)
	admin = s.admin
	s.mu.Unlock()

	s.logger.Info().Str("admin_id", admin.ID).Str("email", admin.Email).Msg("Admin logged in")

	respondOK(c, http.StatusOK, "Login successful", LoginResponse{
		Admin: admin.detail(),
		Tokens: TokensDetail{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		},
	})
}

// @Summary Get admin profile
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdminDetail
// @Router /api/admin/profile [get]
func (s *Server) getProfile(c *gin.Context) {
	respondOK(c, http.StatusOK, "", s.currentAdmin().detail())
}

// @Summary Update admin profile
// @Description Change name, email or password. A new password requires the current one.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} AdminDetail
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !s.bind(c, &req) {
		return
	}

	var newHash string
	if req.NewPassword != "" {
		if err := auth.VerifyPassword(req.CurrentPassword, s.currentAdmin().PasswordHash); err != nil {
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			respondError(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		newHash = hash
	}

	s.mu.Lock()
	if req.FullName != "" {
		s.admin.FullName = req.FullName
	}
	if req.Email != "" {
		s.admin.Email = req.Email
	}
	if newHash != "" {
		s.admin.PasswordHash = newHash
	}
	admin := s.admin
	s.mu.Unlock()

	s.logger.Info().Str("admin_id", admin.ID).Msg("Admin profile updated")
	respondOK(c, http.StatusOK, "Profile updated successfully", admin.detail())
}
