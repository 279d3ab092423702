package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/domain"
)

func TestGenerateAndValidate(t *testing.T) {
	r := require.New(t)
	m := NewManager("test-secret", time.Hour, "samvaad")

	token, err := m.Generate("user-1", "Asha", domain.RoleBroken)
	r.NoError(err)
	r.NotEmpty(token)

	claims, err := m.Validate(token)
	r.NoError(err)
	r.Equal("user-1", claims.UserID)
	r.Equal("Asha", claims.Name)
	r.Equal(domain.RoleBroken, claims.Role)
	r.Equal("samvaad", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	r := require.New(t)
	m := NewManager("test-secret", time.Hour, "samvaad")
	other := NewManager("other-secret", time.Hour, "samvaad")

	token, err := m.Generate("user-1", "Asha", domain.RoleBroken)
	r.NoError(err)

	_, err = other.Validate(token)
	r.ErrorIs(err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	r := require.New(t)
	m := NewManager("test-secret", -time.Minute, "samvaad")

	token, err := m.Generate("user-1", "Asha", domain.RoleBroken)
	r.NoError(err)

	_, err = m.Validate(token)
	r.ErrorIs(err, ErrExpiredToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	r := require.New(t)
	m := NewManager("test-secret", time.Hour, "samvaad")

	_, err := m.Validate("not-a-token")
	r.ErrorIs(err, ErrInvalidToken)

	_, err = m.Validate("")
	r.ErrorIs(err, ErrInvalidToken)
}
