package persistence

import (
	"context"
	"testing"

	"github.com/billbook/backend/internal/domain/settings"
	"github.com/billbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSettingRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	t.Run("missing setting", func(t *testing.T) {
		_, err := repo.FindByUser(ctx, owner)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, []string{}, first.HSNCodes)

		second, err := repo.GetOrCreate(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("save with lock", func(t *testing.T) {
		s, err := repo.FindByUser(ctx, owner)
		require.NoError(t, err)

		require.NoError(t, s.Update(settings.Profile{
			CompanyName: "Billbook Consulting",
			SellerGSTIN: "24abcde1234f1z5",
			HSNCodes:    []string{"998311", "998312", "998311"},
		}))
		require.NoError(t, repo.SaveWithLock(ctx, s))

		got, err := repo.FindByUser(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "Billbook Consulting", got.CompanyName)
		assert.Equal(t, "24ABCDE1234F1Z5", got.SellerGSTIN)
		assert.Equal(t, []string{"998311", "998312"}, got.HSNCodes)
		assert.Equal(t, s.Version, got.Version)
	})

	t.Run("stale copy conflicts", func(t *testing.T) {
		stale, err := repo.FindByUser(ctx, owner)
		require.NoError(t, err)
		fresh, err := repo.FindByUser(ctx, owner)
		require.NoError(t, err)

		require.NoError(t, fresh.Update(settings.Profile{CompanyName: "Fresh"}))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Update(settings.Profile{CompanyName: "Stale"}))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUser(ctx, owner))
		assert.ErrorIs(t, repo.DeleteByUser(ctx, owner), shared.ErrNotFound)
	})
}
