package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/shared"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("priya", "priya@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("find by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "priya", found.Username)
		assert.True(t, found.VerifyPassword("s3cret-pass"))
	})

	t.Run("find by username", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "priya")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("exists by username", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "priya")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save updates in place", func(t *testing.T) {
		user.RecordLogin()
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "priya", found.Username)
	})
}
