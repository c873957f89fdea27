package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/order"
	"github.com/shop/backend/internal/infrastructure/config"
)

// Generator produces invoice PDFs for orders
type Generator interface {
	// Generate renders the invoice for an order. The order is read only;
	// buyerName may be empty for guest orders.
	Generate(ctx context.Context, o *order.Order, buyerName string) ([]byte, error)
	// Close releases the underlying renderer
	Close() error
}

// invoiceData is the template input
type invoiceData struct {
	InvoiceNumber string
	OrderID       string
	PurchasedAt   time.Time
	BuyerName     string
	SellerName    string
	SellerAddress string
	SellerEmail   string
	Lines         []invoiceLine
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	ShowTax       bool
}

type invoiceLine struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// PDFGenerator renders invoices through a PDFRenderer
type PDFGenerator struct {
	renderer PDFRenderer
	cfg      config.InvoiceConfig
	taxRate  decimal.Decimal
	logger   *zap.Logger
}

// NewGenerator builds a Generator with the renderer selected by config
func NewGenerator(cfg config.InvoiceConfig, logger *zap.Logger) (*PDFGenerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		renderer PDFRenderer
		err      error
	)
	switch cfg.Renderer {
	case "wkhtmltopdf":
		renderer, err = NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     cfg.WkhtmltopdfPath,
			DefaultTimeout: cfg.RenderTimeout,
			Logger:         logger,
		})
	default:
		renderer, err = NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.RenderTimeout,
			NoSandbox:      true,
			Logger:         logger,
		})
	}
	if err != nil {
		return nil, err
	}

	return NewGeneratorWithRenderer(renderer, cfg, logger)
}

// NewGeneratorWithRenderer builds a Generator on an existing renderer
func NewGeneratorWithRenderer(renderer PDFRenderer, cfg config.InvoiceConfig, logger *zap.Logger) (*PDFGenerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	taxRate, err := cfg.TaxRateDecimal()
	if err != nil {
		return nil, err
	}
	return &PDFGenerator{
		renderer: renderer,
		cfg:      cfg,
		taxRate:  taxRate,
		logger:   logger,
	}, nil
}

// Generate renders the invoice PDF for an order
func (g *PDFGenerator) Generate(ctx context.Context, o *order.Order, buyerName string) ([]byte, error) {
	data, err := g.buildData(o, buyerName)
	if err != nil {
		return nil, err
	}

	html, err := renderHTML(data)
	if err != nil {
		return nil, err
	}

	result, err := g.renderer.Render(ctx, &RenderRequest{
		HTML:  html,
		Title: "Invoice " + data.InvoiceNumber,
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("invoice generated",
		zap.String("order_id", o.ID.String()),
		zap.Int("bytes", len(result.PDFData)))

	return result.PDFData, nil
}

// buildData converts an order into template input. The order is never
// mutated. A line with a missing product reference or an empty name
// snapshot fails the whole invoice rather than printing a blank row.
func (g *PDFGenerator) buildData(o *order.Order, buyerName string) (*invoiceData, error) {
	if o == nil {
		return nil, NewRenderError(ErrCodeInvalidOrder, "order is nil", nil)
	}
	if len(o.Items) == 0 {
		return nil, NewRenderError(ErrCodeInvalidOrder, "order has no items", nil)
	}

	lines := make([]invoiceLine, len(o.Items))
	for i, item := range o.Items {
		if item.ProductID == uuid.Nil {
			return nil, NewRenderError(ErrCodeInvalidOrder,
				fmt.Sprintf("order line %d has no product reference", i+1), nil)
		}
		if item.ProductName == "" {
			return nil, NewRenderError(ErrCodeInvalidOrder,
				fmt.Sprintf("order line %d has an empty product name", i+1), nil)
		}
		lines[i] = invoiceLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}

	subtotal := o.Total
	// Round half away from zero to two decimal places
	tax := subtotal.Mul(g.taxRate).Round(2)

	return &invoiceData{
		InvoiceNumber: invoiceNumber(o),
		OrderID:       o.ID.String(),
		PurchasedAt:   o.CreatedAt,
		BuyerName:     buyerName,
		SellerName:    g.cfg.SellerName,
		SellerAddress: g.cfg.SellerAddress,
		SellerEmail:   g.cfg.SellerEmail,
		Lines:         lines,
		Subtotal:      subtotal,
		TaxRate:       g.taxRate,
		Tax:           tax,
		GrandTotal:    subtotal.Add(tax),
		ShowTax:       g.taxRate.IsPositive(),
	}, nil
}

// invoiceNumber derives a short human-readable number from the order id
// and purchase date
func invoiceNumber(o *order.Order) string {
	id := o.ID.String()
	return fmt.Sprintf("INV-%s-%s", o.CreatedAt.Format("20060102"), id[:8])
}

// Close releases the underlying renderer
func (g *PDFGenerator) Close() error {
	return g.renderer.Close()
}

var _ Generator = (*PDFGenerator)(nil)
