package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenTTL:    time.Hour,
		TokenIssuer: "ais-test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateToken(42, "jdoe", "TEACHER")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "TEACHER", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.GenerateToken(1, "admin", "ADMINISTRATOR")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(JWTConfig{SecretKey: "other", TokenTTL: time.Hour, TokenIssuer: "ais-test"})
	foreign, _, err := other.GenerateToken(1, "admin", "ADMINISTRATOR")
	require.NoError(t, err)

	wrongIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenTTL: time.Hour, TokenIssuer: "elsewhere"})
	misissued, _, err := wrongIssuer.GenerateToken(1, "admin", "ADMINISTRATOR")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "a.b.c",
		"wrong secret": foreign,
		"wrong issuer": misissued,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "abc.def.ghi", want: "abc.def.ghi"},
		{header: "Bearer ", wantErr: true},
		{header: "", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { BcryptCost = 12 })

	hash, err := HashPassword("abc")
	require.NoError(t, err)
	assert.NotEqual(t, "abc", hash)
	assert.True(t, CheckPassword(hash, "abc"))
	assert.False(t, CheckPassword(hash, "abd"))
}
