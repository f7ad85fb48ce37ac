package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"donation-platform/internal/core/domain"
	"donation-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name string, role domain.Role) *domain.User {
	return &domain.User{ID: uuid.New(), Username: name, PasswordHash: "h", Role: role}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()
	u := newUser("Alice", domain.RoleDonor)

	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got, err = repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Username, "original casing is kept")

	// Returned values are copies.
	got.Role = domain.RoleAdmin
	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDonor, again.Role)
}

func TestUserRepo_Missing(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	got, err := repo.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByUsername(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_UsernameUniqueIgnoringCase(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("bob", domain.RoleRecipient)))

	err := repo.Create(ctx, newUser("BOB", domain.RoleDonor))
	assert.True(t, apperror.HasCode(err, apperror.CodeUsernameExists))
}

func TestUserRepo_ConcurrentCreateSameName(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "carol"
			if i%2 == 0 {
				name = "Carol"
			}
			if err := repo.Create(ctx, newUser(name, domain.RoleDonor)); err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestUserRepo_CountByRole(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	roles := []domain.Role{domain.RoleDonor, domain.RoleDonor, domain.RoleRecipient, domain.RoleStaff, domain.RoleAdmin}
	for i, role := range roles {
		require.NoError(t, repo.Create(ctx, newUser(fmt.Sprintf("user%d", i), role)))
	}

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Role]int64{
		domain.RoleDonor:     2,
		domain.RoleRecipient: 1,
		domain.RoleStaff:     1,
		domain.RoleAdmin:     1,
	}, counts)
}
