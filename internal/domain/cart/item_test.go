package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	productID := uuid.New()

	t.Run("valid item", func(t *testing.T) {
		item, err := NewItem(productID, 2)
		require.NoError(t, err)
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, int64(2), item.Quantity)
	})

	t.Run("nil product", func(t *testing.T) {
		_, err := NewItem(uuid.Nil, 1)
		assert.Error(t, err)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewItem(productID, 0)
		assert.Error(t, err)
	})
}

func TestItemQuantity(t *testing.T) {
	item, err := NewItem(uuid.New(), 1)
	require.NoError(t, err)

	require.NoError(t, item.IncreaseQuantity(3))
	assert.Equal(t, int64(4), item.Quantity)

	require.NoError(t, item.SetQuantity(2))
	assert.Equal(t, int64(2), item.Quantity)

	assert.Error(t, item.SetQuantity(0))
	assert.Error(t, item.IncreaseQuantity(-1))
}

func TestOwner(t *testing.T) {
	userID := uuid.New()

	user := UserOwner(userID)
	assert.False(t, user.IsGuest())
	assert.Equal(t, userID.String(), user.Key())
	assert.NoError(t, user.Validate())

	guest := GuestOwner("sess-abc123")
	assert.True(t, guest.IsGuest())
	assert.Equal(t, "sess-abc123", guest.Key())
	assert.NoError(t, guest.Validate())

	assert.Error(t, Owner{}.Validate())
}
