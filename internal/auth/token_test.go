package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/asset-tracker/internal/config"
)

func testIssuer() *Issuer {
	return NewIssuer(config.JWTConfig{
		Secret:           "test-secret",
		Issuer:           "asset-tracker-test",
		AccessTTL:        2 * time.Hour,
		RefreshTTL:       24 * time.Hour,
		PasswordResetTTL: time.Hour,
	})
}

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.IssuePair(7, "admin", time.Now())
	require.NoError(t, err)

	access, err := issuer.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), access.UserID)
	assert.Equal(t, "admin", access.Role)
	assert.NotEmpty(t, access.ID)

	refresh, err := issuer.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestParseRejectsWrongType(t *testing.T) {
	issuer := testIssuer()
	pair, err := issuer.IssuePair(1, "user", time.Now())
	require.NoError(t, err)

	_, err = issuer.Parse(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := testIssuer()

	pair, err := issuer.IssuePair(1, "user", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = issuer.Parse(pair.Refresh, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewIssuer(config.JWTConfig{Secret: "other", Issuer: "asset-tracker-test", AccessTTL: time.Hour, RefreshTTL: 2 * time.Hour})
	foreign, err := other.IssueAccess(1, "admin", time.Now())
	require.NoError(t, err)
	_, err = issuer.Parse(foreign, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetTokenCarriesFingerprint(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.IssuePasswordReset(3, "$2a$10$hash", time.Now())
	require.NoError(t, err)

	claims, err := issuer.Parse(token, TokenTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, Fingerprint("$2a$10$hash"), claims.PasswordFingerprint)
	assert.NotEqual(t, Fingerprint("$2a$10$other"), claims.PasswordFingerprint)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}
