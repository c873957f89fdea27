package invoice

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/domain/shared/valueobject"
	"github.com/shop/backend/internal/infrastructure/config"
)

// stubRenderer captures the HTML it was asked to render
type stubRenderer struct {
	lastHTML string
	fail     *RenderError
}

func (s *stubRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.lastHTML = req.HTML
	return &RenderResult{PDFData: []byte("%PDF-1.4 stub"), PageCount: 1}, nil
}

func (s *stubRenderer) Close() error { return nil }

func testInvoiceConfig(taxRate string) config.InvoiceConfig {
	return config.InvoiceConfig{
		Renderer:   "chromedp",
		TaxRate:    taxRate,
		SellerName: "Acme Stores",
	}
}

func makeOrder(t *testing.T, prices ...float64) *order.Order {
	t.Helper()
	userID := uuid.New()
	items := make([]order.Item, len(prices))
	for i, price := range prices {
		item, err := order.NewItem(uuid.New(), "Product", "product", 1,
			valueobject.NewMoneyINR(decimal.NewFromFloat(price)))
		require.NoError(t, err)
		items[i] = *item
	}
	o, err := order.New(&userID, items)
	require.NoError(t, err)
	return o
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("renders lines and totals", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0"), nil)
		require.NoError(t, err)

		o := makeOrder(t, 200.00, 50.00)
		pdf, err := gen.Generate(ctx, o, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)

		assert.Contains(t, renderer.lastHTML, "Acme Stores")
		// buyer names are title-cased in the rendered invoice
		assert.Contains(t, renderer.lastHTML, "Billed to: Alice")
		assert.Contains(t, renderer.lastHTML, "₹250.00")
		// No tax row when the rate is zero
		assert.NotContains(t, renderer.lastHTML, "Tax (")
	})

	t.Run("applies the configured tax rate", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0.18"), nil)
		require.NoError(t, err)

		o := makeOrder(t, 250.00)
		_, err = gen.Generate(ctx, o, "alice")
		require.NoError(t, err)

		assert.Contains(t, renderer.lastHTML, "Tax (18%)")
		assert.Contains(t, renderer.lastHTML, "₹45.00")
		assert.Contains(t, renderer.lastHTML, "₹295.00")
	})

	t.Run("tax rounds half away from zero to two places", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0.18"), nil)
		require.NoError(t, err)

		// 99.99 * 0.18 = 17.9982 -> 18.00
		o := makeOrder(t, 99.99)
		_, err = gen.Generate(ctx, o, "")
		require.NoError(t, err)

		assert.Contains(t, renderer.lastHTML, "₹18.00")
		assert.Contains(t, renderer.lastHTML, "₹117.99")
	})

	t.Run("does not mutate the order", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0.18"), nil)
		require.NoError(t, err)

		o := makeOrder(t, 250.00)
		before := o.Total
		_, err = gen.Generate(ctx, o, "alice")
		require.NoError(t, err)
		assert.True(t, before.Equal(o.Total))
	})

	t.Run("empty product name fails the invoice", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0"), nil)
		require.NoError(t, err)

		o := makeOrder(t, 100.00)
		o.Items[0].ProductName = ""

		_, err = gen.Generate(ctx, o, "alice")
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeInvalidOrder, rerr.Code)
		assert.Empty(t, renderer.lastHTML)
	})

	t.Run("missing product reference fails the invoice", func(t *testing.T) {
		renderer := &stubRenderer{}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0"), nil)
		require.NoError(t, err)

		o := makeOrder(t, 100.00)
		o.Items[0].ProductID = uuid.Nil

		_, err = gen.Generate(ctx, o, "alice")
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeInvalidOrder, rerr.Code)
	})

	t.Run("nil order fails", func(t *testing.T) {
		gen, err := NewGeneratorWithRenderer(&stubRenderer{}, testInvoiceConfig("0"), nil)
		require.NoError(t, err)

		_, err = gen.Generate(ctx, nil, "")
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeInvalidOrder, rerr.Code)
	})

	t.Run("renderer failure propagates", func(t *testing.T) {
		renderer := &stubRenderer{fail: NewRenderError(ErrCodeRenderTimeout, "timed out", nil)}
		gen, err := NewGeneratorWithRenderer(renderer, testInvoiceConfig("0"), nil)
		require.NoError(t, err)

		_, err = gen.Generate(ctx, makeOrder(t, 100.00), "alice")
		var rerr *RenderError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrCodeRenderTimeout, rerr.Code)
	})
}

func TestInvoiceNumber(t *testing.T) {
	o := makeOrder(t, 10.00)
	num := invoiceNumber(o)
	assert.True(t, strings.HasPrefix(num, "INV-"))
	assert.Contains(t, num, o.CreatedAt.Format("20060102"))
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("full documents pass through unchanged", func(t *testing.T) {
		html := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, html, buildCompleteHTML(&RenderRequest{HTML: html}))
	})

	t.Run("fragments get wrapped", func(t *testing.T) {
		out := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "Invoice"})
		assert.Contains(t, out, "<!DOCTYPE html>")
		assert.Contains(t, out, "<title>Invoice</title>")
		assert.Contains(t, out, "<p>x</p>")
	})
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("/Type /Pages /Type /Page /Type /Page")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("no markers")))
}
