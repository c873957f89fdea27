package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/shop/backend/internal/application/cart"
	"github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

type fakeCartStore struct {
	lines map[string][]cart.Item
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: make(map[string][]cart.Item)}
}

func (s *fakeCartStore) Items(_ context.Context, owner cart.Owner) ([]cart.Item, error) {
	return s.lines[owner.Key()], nil
}

func (s *fakeCartStore) Add(_ context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) (*cart.Item, error) {
	key := owner.Key()
	for i := range s.lines[key] {
		if s.lines[key][i].ProductID == productID {
			s.lines[key][i].Quantity += quantity
			return &s.lines[key][i], nil
		}
	}
	item, err := cart.NewItem(productID, quantity)
	if err != nil {
		return nil, err
	}
	s.lines[key] = append(s.lines[key], *item)
	return item, nil
}

func (s *fakeCartStore) UpdateQuantity(_ context.Context, owner cart.Owner, productID uuid.UUID, quantity int64) error {
	key := owner.Key()
	for i := range s.lines[key] {
		if s.lines[key][i].ProductID == productID {
			s.lines[key][i].Quantity = quantity
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *fakeCartStore) Remove(_ context.Context, owner cart.Owner, productID uuid.UUID) error {
	key := owner.Key()
	for i := range s.lines[key] {
		if s.lines[key][i].ProductID == productID {
			s.lines[key] = append(s.lines[key][:i], s.lines[key][i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *fakeCartStore) Clear(_ context.Context, owner cart.Owner) (int64, error) {
	key := owner.Key()
	n := int64(len(s.lines[key]))
	delete(s.lines, key)
	return n, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByCategory(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) AdjustStock(_ context.Context, id uuid.UUID, quantity int64, clamp bool) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if p.Stock < quantity {
		if !clamp {
			return shared.ErrInsufficientStock
		}
		p.Stock = 0
		return nil
	}
	p.Stock -= quantity
	return nil
}

func mustCatalogProduct(t *testing.T, name, slug, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, slug, valueobject.NewMoneyINR(decimal.RequireFromString(price)))
	require.NoError(t, err)
	p.Stock = 100
	return p
}

func newCartTestRouter(store cart.Store, products catalog.ProductRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if key := c.GetHeader(middleware.SessionKeyHeader); key != "" {
			c.Set(middleware.SessionKeyContextKey, key)
		}
		if userID := c.GetHeader("X-Test-User"); userID != "" {
			c.Set(middleware.JWTUserIDKey, userID)
		}
	})
	h := NewCartHandler(cartapp.NewService(store, products, nil))
	h.RegisterRoutes(r.Group("/"))
	return r
}

func cartRequest(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandlerFlow(t *testing.T) {
	store := newFakeCartStore()
	products := newFakeProductRepo()
	p := mustCatalogProduct(t, "Espresso Cups", "espresso-cups", "125.00")
	require.NoError(t, products.Save(context.Background(), p))

	r := newCartTestRouter(store, products)
	userID := uuid.New().String()
	asUser := map[string]string{"X-Test-User": userID}

	t.Run("add and view", func(t *testing.T) {
		w := cartRequest(r, http.MethodPost, "/cart/items",
			`{"product_id": "`+p.ID.String()+`", "quantity": 2}`, asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":"250"`)

		w = cartRequest(r, http.MethodGet, "/cart", "", asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "espresso-cups")
	})

	t.Run("update quantity", func(t *testing.T) {
		w := cartRequest(r, http.MethodPut, "/cart/items/"+p.ID.String(),
			`{"quantity": 5}`, asUser)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"quantity":5`)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		w := cartRequest(r, http.MethodPut, "/cart/items/"+p.ID.String(),
			`{"quantity": 0}`, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("remove then clear", func(t *testing.T) {
		w := cartRequest(r, http.MethodDelete, "/cart/items/"+p.ID.String(), "", asUser)
		require.Equal(t, http.StatusOK, w.Code)

		w = cartRequest(r, http.MethodDelete, "/cart", "", asUser)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCartHandlerGuest(t *testing.T) {
	store := newFakeCartStore()
	products := newFakeProductRepo()
	p := mustCatalogProduct(t, "Espresso Cups", "espresso-cups", "125.00")
	require.NoError(t, products.Save(context.Background(), p))

	r := newCartTestRouter(store, products)
	asGuest := map[string]string{middleware.SessionKeyHeader: "sess-guest-1"}

	t.Run("guest cart keyed by session", func(t *testing.T) {
		w := cartRequest(r, http.MethodPost, "/cart/items",
			`{"product_id": "`+p.ID.String()+`", "quantity": 1}`, asGuest)
		require.Equal(t, http.StatusOK, w.Code)

		w = cartRequest(r, http.MethodGet, "/cart", "", asGuest)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "espresso-cups")
	})

	t.Run("no identity at all is 400", func(t *testing.T) {
		w := cartRequest(r, http.MethodGet, "/cart", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		w := cartRequest(r, http.MethodPost, "/cart/items",
			`{"product_id": "`+uuid.New().String()+`", "quantity": 1}`, asGuest)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
