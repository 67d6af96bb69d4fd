package admin

import (
	"testing"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	svc := NewService(config.AdminConfig{Email: "Owner@Example.com", Password: "s3cret", Name: "Owner"})

	u, err := svc.Authenticate(" owner@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", u.Email)
	require.Equal(t, "Owner", u.Name)
	require.Equal(t, Role, u.Role)

	_, err = svc.Authenticate("owner@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("someone@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_EmptyPasswordNeverMatches(t *testing.T) {
	svc := NewService(config.AdminConfig{Email: "a@b.c"})
	_, err := svc.Authenticate("a@b.c", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, "Admin", svc.Identity().Name)
}
