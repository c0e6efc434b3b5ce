package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
)

func newUser(email, cf string, created time.Time) *entity.User {
	return &entity.User{
		ID:            uuid.NewString(),
		Username:      "user",
		Email:         email,
		CodiceFiscale: cf,
		Nome:          "Nome",
		Cognome:       "Cognome",
		Roles:         []entity.Role{entity.RoleReporter},
		Status:        entity.StatusActive,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestUniqueConstraints(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newUser("a@example.com", "AAA00A00A000A", now)))

	err := repo.Create(ctx, newUser("a@example.com", "BBB00B00B000B", now))
	require.ErrorIs(t, err, repository.ErrEmailTaken)

	err = repo.Create(ctx, newUser("b@example.com", "AAA00A00A000A", now))
	require.ErrorIs(t, err, repository.ErrCodiceFiscaleTaken)
}

func TestUpdateExcludesSelfFromUniqueness(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	u := newUser("a@example.com", "AAA00A00A000A", now)
	require.NoError(t, repo.Create(ctx, u))

	u.Username = "renamed"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)
}

func TestFindReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u := newUser("a@example.com", "AAA00A00A000A", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mutated"

	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "user", again.Username)
}

func TestListPagination(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	emails := []string{"a@x.com", "b@x.com", "c@x.com"}
	for i, email := range emails {
		u := newUser(email, "CF000000000"+string(rune('A'+i)), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Create(ctx, u))
	}

	users, total, err := repo.ListExcludingStatus(ctx, entity.StatusDeleted, repository.Page{Number: 0, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	require.Equal(t, "a@x.com", users[0].Email)
	require.Equal(t, "b@x.com", users[1].Email)

	users, total, err = repo.ListExcludingStatus(ctx, entity.StatusDeleted, repository.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	require.Equal(t, "c@x.com", users[0].Email)

	users, _, err = repo.ListExcludingStatus(ctx, entity.StatusDeleted, repository.Page{Number: 5, Size: 2})
	require.NoError(t, err)
	require.Empty(t, users)
}
