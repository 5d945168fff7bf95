package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/swiftstay/admin/internal/auth"
)

const (
	bearerPrefix = "Bearer "
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrAdminNotFound     = errors.New("admin not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func abortWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	respondError(c, statusCode, message)
	c.Abort()
}

// JWTAuthMiddleware validates access tokens issued by the login endpoint
func (s *Server) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			var message string
			switch err {
			case ErrMissingAuthHeader:
				message = "Access token required"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			abortWithError(c, s.logger, http.StatusUnauthorized, err, message)
			return
		}

		claims, err := s.issuer.Validate(token, auth.TokenAccess)
		if err != nil {
			abortWithError(c, s.logger, http.StatusUnauthorized, ErrInvalidToken, "Invalid or expired token")
			return
		}

		admin := s.currentAdmin()
		if claims.AdminID != admin.ID {
			abortWithError(c, s.logger, http.StatusUnauthorized, ErrAdminNotFound, "Admin not found")
			return
		}

		setSession(c, &auth.SessionData{
			AdminID: admin.ID,
			Email:   admin.Email,
			Role:    admin.Role,
		})

		c.Next()
	}
}

// AdminOnlyMiddleware ensures the authenticated account has an admin role
func (s *Server) AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		if !exists {
			abortWithError(c, s.logger, http.StatusUnauthorized, errors.New("no session"), "Unauthorized")
			return
		}

		if sessionData.Role != "admin" && sessionData.Role != "super_admin" {
			abortWithError(c, s.logger, http.StatusForbidden, errors.New("not admin"), "Admin access required")
			return
		}

		c.Next()
	}
}
