package authtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key"

func signToken(t *testing.T, key string, claims IdentityClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestVerifyRoundTrip(t *testing.T) {
	v := NewVerifier(testKey)
	raw := signToken(t, testKey, IdentityClaims{
		Email: "jo@example.com",
		Name:  "Jo",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	identity, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.Subject)
	assert.Equal(t, "jo@example.com", identity.Email)
	assert.Equal(t, "Jo", identity.Name)
}

func TestVerifyDefaultsDisplayName(t *testing.T) {
	v := NewVerifier(testKey)
	raw := signToken(t, testKey, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})

	identity, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "User", identity.Name)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	v := NewVerifier(testKey)
	raw := signToken(t, "some-other-key", IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})

	_, err := v.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifier(testKey)
	raw := signToken(t, testKey, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := v.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v := NewVerifier(testKey)
	raw := signToken(t, testKey, IdentityClaims{Email: "jo@example.com"})

	_, err := v.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewVerifier(testKey)
	_, err := v.Verify("not-a-token")
	assert.Error(t, err)
}
