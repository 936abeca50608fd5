package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/mentorship-api/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.GenerateJWT("65f0c0ffee", models.RoleMentor)
	require.NoError(t, err)

	claims, err := tm.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee", claims.ID)
	assert.Equal(t, models.RoleMentor, claims.Role)
	assert.WithinDuration(t, claims.IssuedAt.Add(TokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestTokenManager_Expiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret").WithClock(func() time.Time { return issued })

	token, err := tm.GenerateJWT("abc", models.RoleStudent)
	require.NoError(t, err)

	justBefore := tm.WithClock(func() time.Time { return issued.Add(TokenTTL - time.Minute) })
	_, err = justBefore.ValidateJWT(token)
	assert.NoError(t, err)

	after := tm.WithClock(func() time.Time { return issued.Add(TokenTTL + time.Minute) })
	_, err = after.ValidateJWT(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Invalid(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.GenerateJWT("abc", models.RoleStudent)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	other, err := NewTokenManager("other-secret").GenerateJWT("abc", models.RoleAdmin)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{ID: "abc", Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: "abc", Role: models.RoleAdmin}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: "abc", Role: "ROOT",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"tampered signature": tampered,
		"wrong secret":       other,
		"alg none":           unsigned,
		"no expiry":          noExpiry,
		"unknown role":       badRole,
		"garbage":            "not.a.token",
		"empty":              "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.ValidateJWT(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenManager_RequiresSecret(t *testing.T) {
	tm := NewTokenManager("")
	_, err := tm.GenerateJWT("abc", models.RoleStudent)
	assert.Error(t, err)
	_, err = tm.ValidateJWT("x.y.z")
	assert.Error(t, err)
}
