package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndValidate(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	pair, err := issuer.Issue("1", "a@x.com", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := issuer.Validate(pair.AccessToken, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.AdminID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	_, err = issuer.Validate(pair.RefreshToken, TokenRefresh)
	require.NoError(t, err)

	// Tokens are not interchangeable
	_, err = issuer.Validate(pair.RefreshToken, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestIssuer_RejectsForeignSignature(t *testing.T) {
	ours, err := NewIssuer("ours", time.Hour, time.Hour)
	require.NoError(t, err)
	theirs, err := NewIssuer("theirs", time.Hour, time.Hour)
	require.NoError(t, err)

	pair, err := theirs.Issue("1", "a@x.com", "admin")
	require.NoError(t, err)

	_, err = ours.Validate(pair.AccessToken, TokenAccess)
	assert.Error(t, err)
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Nanosecond, time.Hour)
	require.NoError(t, err)

	pair, err := issuer.Issue("1", "a@x.com", "admin")
	require.NoError(t, err)
	time.Sleep(time.Second)

	_, err = issuer.Validate(pair.AccessToken, TokenAccess)
	assert.Error(t, err)
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	pair, err := issuer.Issue("7", "ops@x.com", "admin")
	require.NoError(t, err)

	claims, err := Inspect(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops@x.com", claims.Email)
	assert.Equal(t, TokenAccess, claims.Type)

	remaining := claims.ExpiresIn(time.Now())
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	assert.Zero(t, claims.ExpiresIn(time.Now().Add(2*time.Hour)))

	_, err = Inspect("not-a-jwt")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, VerifyPassword("secret123", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}
