package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
)

func newUserFixture(t *testing.T) (*chatFixture, UserService) {
	t.Helper()

	f := newChatFixture(t)
	return f, NewUserService(f.users, f.tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleBroken,
	})
	r.NoError(err)
	r.NotEmpty(result.Token)
	r.Equal("Asha", result.User.Name)

	login, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	r.NoError(err)
	r.Equal(result.User.ID, login.User.ID)
}

func TestRegisterRejectsAdminAndUnknownRoles(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	})
	r.ErrorIs(err, ErrInvalidRole)

	_, err = svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     "superuser",
	})
	r.ErrorIs(err, ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	req := &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleBroken,
	}
	_, err := svc.Register(ctx, req)
	r.NoError(err)

	_, err = svc.Register(ctx, req)
	r.ErrorIs(err, repository.ErrEmailExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleBroken,
	})
	r.NoError(err)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	r.ErrorIs(err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	r.ErrorIs(err, ErrInvalidCredentials)
}

func TestLoginRejectsBannedUser(t *testing.T) {
	r := require.New(t)
	f, svc := newUserFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleBroken,
	})
	r.NoError(err)

	_, err = f.users.SetBanned(ctx, result.User.ID, true)
	r.NoError(err)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret123",
	})
	r.ErrorIs(err, ErrBanned)
}

func TestUpdateProfile(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     domain.RoleBroken,
	})
	r.NoError(err)

	updated, err := svc.UpdateProfile(ctx, result.User.ID, &domain.UpdateProfileRequest{
		Name:     "Asha K",
		Password: "newsecret",
	})
	r.NoError(err)
	r.Equal("Asha K", updated.Name)

	// Old password no longer works, new one does.
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "asha@example.com", Password: "secret123"})
	r.ErrorIs(err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "asha@example.com", Password: "newsecret"})
	r.NoError(err)
}

func TestListPeersExcludesCaller(t *testing.T) {
	r := require.New(t)
	_, svc := newUserFixture(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, &domain.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Password: "secret123", Role: domain.RoleBroken,
	})
	r.NoError(err)
	_, err = svc.Register(ctx, &domain.RegisterRequest{
		Name: "Binh", Email: "binh@example.com", Password: "secret123", Role: domain.RoleCounselor,
	})
	r.NoError(err)

	peers, err := svc.ListPeers(ctx, a.User.ID)
	r.NoError(err)
	r.Len(peers, 1)
	r.Equal("Binh", peers[0].Name)
	r.Empty(peers[0].Email)
}
