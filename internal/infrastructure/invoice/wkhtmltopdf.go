package invoice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinaryPath = "wkhtmltopdf"
	defaultTimeout    = 30 * time.Second
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is the path to the wkhtmltopdf binary.
	// If empty, will search in PATH.
	BinaryPath string
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// TempDir for temporary files during rendering
	TempDir string
	// Logger for debug output
	Logger *zap.Logger
}

// WkhtmltopdfRenderer renders HTML to PDF using the wkhtmltopdf binary
type WkhtmltopdfRenderer struct {
	config *WkhtmltopdfConfig
	logger *zap.Logger
}

// NewWkhtmltopdfRenderer creates a new wkhtmltopdf-based PDF renderer
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}
	if config.BinaryPath == "" {
		config.BinaryPath = defaultBinaryPath
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultTimeout
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}

	binaryPath, err := resolveBinaryPath(config.BinaryPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", config.BinaryPath), err)
	}
	config.BinaryPath = binaryPath

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WkhtmltopdfRenderer{
		config: config,
		logger: logger,
	}, nil
}

func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Render converts HTML content to PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
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

	htmlFile, err := os.CreateTemp(r.config.TempDir, "invoice-*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to create temp HTML file", err)
	}
	htmlPath := htmlFile.Name()
	defer os.Remove(htmlPath)

	if _, err := htmlFile.WriteString(buildCompleteHTML(req)); err != nil {
		htmlFile.Close()
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write HTML to temp file", err)
	}
	htmlFile.Close()

	pdfFile, err := os.CreateTemp(r.config.TempDir, "invoice-*.pdf")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to create temp PDF file", err)
	}
	pdfPath := pdfFile.Name()
	pdfFile.Close()
	defer os.Remove(pdfPath)

	args := r.buildArgs(req, htmlPath, pdfPath)

	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.config.BinaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("wkhtmltopdf failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()))

		return nil, NewRenderError(ErrCodeRenderFailed,
			"wkhtmltopdf execution failed: "+stderr.String(), err)
	}

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to read generated PDF", err)
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

// buildArgs constructs the command-line arguments for wkhtmltopdf
func (r *WkhtmltopdfRenderer) buildArgs(req *RenderRequest, htmlPath, pdfPath string) []string {
	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--page-size", "A4",
		"--orientation", "Portrait",
		"--margin-top", "15mm",
		"--margin-right", "15mm",
		"--margin-bottom", "15mm",
		"--margin-left", "15mm",
		"--disable-javascript",
		"--disable-local-file-access",
	}

	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	return append(args, htmlPath, pdfPath)
}

// Close releases resources (no-op for wkhtmltopdf)
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// estimatePageCount estimates the page count from PDF data by counting
// "/Type /Page" objects, minus the parent "/Type /Pages" objects
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count-parentCount, 1)
}

var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
