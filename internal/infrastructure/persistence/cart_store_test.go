package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/shared"
)

func TestGormCartStore_AddAndItems(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCartStore(db)
	ctx := context.Background()
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()

	item, err := store.Add(ctx, owner, productID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Quantity)

	t.Run("adding again increments the line", func(t *testing.T) {
		item, err := store.Add(ctx, owner, productID, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), item.Quantity)

		items, err := store.Items(ctx, owner)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(5), items[0].Quantity)
	})

	t.Run("carts are isolated per user", func(t *testing.T) {
		items, err := store.Items(ctx, cart.UserOwner(uuid.New()))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("items come back oldest first", func(t *testing.T) {
		second := uuid.New()
		_, err := store.Add(ctx, owner, second, 1)
		require.NoError(t, err)

		items, err := store.Items(ctx, owner)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, productID, items[0].ProductID)
		assert.Equal(t, second, items[1].ProductID)
	})
}

func TestGormCartStore_UpdateQuantity(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCartStore(db)
	ctx := context.Background()
	owner := cart.UserOwner(uuid.New())
	productID := uuid.New()

	_, err := store.Add(ctx, owner, productID, 2)
	require.NoError(t, err)

	require.NoError(t, store.UpdateQuantity(ctx, owner, productID, 7))

	items, err := store.Items(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].Quantity)

	t.Run("missing line", func(t *testing.T) {
		err := store.UpdateQuantity(ctx, owner, uuid.New(), 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		err := store.UpdateQuantity(ctx, owner, productID, 0)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestGormCartStore_RemoveAndClear(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCartStore(db)
	ctx := context.Background()
	owner := cart.UserOwner(uuid.New())
	first, second := uuid.New(), uuid.New()

	_, err := store.Add(ctx, owner, first, 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, owner, second, 1)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, owner, first))
	assert.ErrorIs(t, store.Remove(ctx, owner, first), shared.ErrNotFound)

	removed, err := store.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = store.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestGormCartStore_RejectsGuestOwner(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormCartStore(db)
	ctx := context.Background()

	_, err := store.Items(ctx, cart.GuestOwner("sess-1"))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CART_OWNER", domainErr.Code)
}

// fakeStore records which calls reached it, for routing assertions.
type fakeStore struct {
	calls int
}

func (f *fakeStore) Items(ctx context.Context, owner cart.Owner) ([]cart.Item, error) {
	f.calls++
	return nil, nil
}

func (f *fakeStore) Add(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) (*cart.Item, error) {
	f.calls++
	return &cart.Item{ProductID: productID, Quantity: quantity}, nil
}

func (f *fakeStore) UpdateQuantity(ctx context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) error {
	f.calls++
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, owner cart.Owner, productID uuid.UUID) error {
	f.calls++
	return nil
}

func (f *fakeStore) Clear(ctx context.Context, owner cart.Owner) (int64, error) {
	f.calls++
	return 0, nil
}

func TestCompositeCartStore_Routing(t *testing.T) {
	ctx := context.Background()
	users := &fakeStore{}
	guests := &fakeStore{}
	store := NewCompositeCartStore(users, guests)

	_, err := store.Items(ctx, cart.UserOwner(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 1, users.calls)
	assert.Equal(t, 0, guests.calls)

	_, err = store.Add(ctx, cart.GuestOwner("sess-1"), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, users.calls)
	assert.Equal(t, 1, guests.calls)

	t.Run("invalid owner never reaches a backend", func(t *testing.T) {
		_, err := store.Items(ctx, cart.Owner{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CART_OWNER", domainErr.Code)
	})
}
