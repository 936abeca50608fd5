package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/mentorship-api/internal/models"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	s := models.NewStudent("Ravi", "ravi@example.com", "correct horse")

	require.NoError(t, h.Seal(s))
	_, pending := s.PendingPassword()
	assert.False(t, pending)
	assert.NotEqual(t, "correct horse", s.PasswordHash())

	assert.True(t, h.Verify(s, "correct horse"))
	for _, wrong := range []string{"", "correct horse ", "Correct horse", "battery staple"} {
		assert.False(t, h.Verify(s, wrong), wrong)
	}
}

func TestPasswordHasher_SealIsIdempotentWithoutChanges(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	s := models.NewStudent("Ravi", "ravi@example.com", "correct horse")
	require.NoError(t, h.Seal(s))
	first := s.PasswordHash()

	require.NoError(t, h.Seal(s))
	require.NoError(t, h.Seal(s))
	assert.Equal(t, first, s.PasswordHash())
	assert.True(t, h.Verify(s, "correct horse"))

	s.SetPassword("new password")
	require.NoError(t, h.Seal(s))
	assert.NotEqual(t, first, s.PasswordHash())
	assert.True(t, h.Verify(s, "new password"))
}

func TestCheckPasswordHash_FailsClosed(t *testing.T) {
	assert.False(t, CheckPasswordHash("anything", ""))
	assert.False(t, CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
