package invoice

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// A4 in inches, the only paper size invoices use
	a4WidthInches  = 210.0 / 25.4
	a4HeightInches = 297.0 / 25.4
	marginInches   = 15.0 / 25.4
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional).
	// If empty, chromedp launches a new browser instance.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer, nil
}

func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	html := buildCompleteHTML(req)

	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(marginInches).
				WithMarginRight(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithScale(1.0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("invoice PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: renderDuration,
	}, nil
}

// buildCompleteHTML wraps a fragment in a full document if needed
func buildCompleteHTML(req *RenderRequest) string {
	if strings.Contains(strings.ToLower(req.HTML), "<!doctype") ||
		strings.Contains(strings.ToLower(req.HTML), "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString("<meta charset=\"UTF-8\">")
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(req.Title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")

	return buf.String()
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
