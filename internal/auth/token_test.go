package auth

import (
	"testing"
	"time"

	"Inkwell/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 0)
	assert.Equal(t, DefaultTokenTTL, m.TTL())

	tok, err := m.Issue("user-1", model.RoleVisitor)
	require.NoError(t, err)

	p, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.SubjectID)
	assert.Equal(t, model.RoleVisitor, p.Role)
	assert.False(t, p.IsOwner())
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	// выпускаем токен "в прошлом"
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue("user-1", model.RoleOwner)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Invalid(t *testing.T) {
	m := NewTokenManager("secret-A", time.Hour)
	other := NewTokenManager("secret-B", time.Hour)

	tok, err := other.Issue("user-1", model.RoleOwner)
	require.NoError(t, err)

	cases := map[string]string{
		"wrong signature": tok,
		"garbage":         "not.a.token",
		"empty":           "",
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(s)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenManager_RejectsUnknownRoleAndAlgNone(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "ADMIN",
	})
	s, err := bad.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: model.RoleOwner,
	})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
