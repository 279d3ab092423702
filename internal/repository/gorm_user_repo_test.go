package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dayavats/samvaad/internal/domain"
)

func TestUserRepositoryCreateAndGet(t *testing.T) {
	r := require.New(t)
	repo := NewGormUserRepository(openTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "Asha", "asha@example.com")
	r.NotEmpty(user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	r.NoError(err)
	r.Equal("Asha", got.Name)
	r.Equal(domain.RoleBroken, got.Role)
	r.False(got.Banned)

	byEmail, err := repo.GetByEmail(ctx, "asha@example.com")
	r.NoError(err)
	r.Equal(user.ID, byEmail.ID)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	r := require.New(t)
	repo := NewGormUserRepository(openTestDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "Asha", "asha@example.com")

	dup := &domain.User{
		Name:         "Other",
		Email:        "asha@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleCounselor,
	}
	err := repo.Create(ctx, dup)
	r.ErrorIs(err, ErrEmailExists)
}

func TestUserRepositoryGetUnknown(t *testing.T) {
	r := require.New(t)
	repo := NewGormUserRepository(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "no-such-id")
	r.ErrorIs(err, ErrUserNotFound)
}

func TestUserRepositoryListExcept(t *testing.T) {
	r := require.New(t)
	repo := NewGormUserRepository(openTestDB(t))
	ctx := context.Background()

	a := createTestUser(t, repo, "Asha", "asha@example.com")
	b := createTestUser(t, repo, "Binh", "binh@example.com")
	createTestUser(t, repo, "Chitra", "chitra@example.com")

	others, err := repo.ListExcept(ctx, a.ID)
	r.NoError(err)
	r.Len(others, 2)
	for _, u := range others {
		r.NotEqual(a.ID, u.ID)
	}

	_ = b
}

func TestUserRepositorySetRoleAndBan(t *testing.T) {
	r := require.New(t)
	repo := NewGormUserRepository(openTestDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "Asha", "asha@example.com")

	updated, err := repo.SetRole(ctx, user.ID, domain.RoleCounselor)
	r.NoError(err)
	r.Equal(domain.RoleCounselor, updated.Role)

	banned, err := repo.SetBanned(ctx, user.ID, true)
	r.NoError(err)
	r.True(banned.Banned)

	unbanned, err := repo.SetBanned(ctx, user.ID, false)
	r.NoError(err)
	r.False(unbanned.Banned)

	_, err = repo.SetRole(ctx, "missing", domain.RoleAdmin)
	r.ErrorIs(err, ErrUserNotFound)
}
