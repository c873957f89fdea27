package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/identity"
	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&catalog.Category{},
		&order.Order{},
		&order.Item{},
		&identity.User{},
		&cart.Item{},
	))

	return db
}

func mustProduct(t *testing.T, name, slug, price string, stock int64) *catalog.Product {
	t.Helper()

	money, err := valueobject.NewMoneyINRFromString(price)
	require.NoError(t, err)

	p, err := catalog.NewProduct(name, slug, money)
	require.NoError(t, err)
	require.NoError(t, p.SetStock(stock))
	return p
}

func mustOrderItem(t *testing.T, p *catalog.Product, quantity int64) order.Item {
	t.Helper()

	item, err := order.NewItem(p.ID, p.Name, p.Slug, quantity, p.GetPriceMoney())
	require.NoError(t, err)
	return *item
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
