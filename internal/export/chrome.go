package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// PreviewSelector is the node captured by the rasterizer.
const PreviewSelector = "#resume-preview"

// ChromeOptions configures headless Chrome captures
type ChromeOptions struct {
	// ExecPath overrides browser discovery when set.
	ExecPath string
	// Timeout bounds a single capture, browser startup included.
	Timeout time.Duration
	// ViewportWidth and ViewportHeight are in CSS pixels.
	ViewportWidth  int64
	ViewportHeight int64
	// MaxConcurrent bounds the number of browsers running at once.
	MaxConcurrent int64
	Verbose       bool
}

// DefaultChromeOptions returns the capture settings used by the server.
func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		Timeout:        30 * time.Second,
		ViewportWidth:  800,
		ViewportHeight: 1100,
		MaxConcurrent:  2,
	}
}

// ChromeRasterizer captures the preview region of a rendered document with a headless browser.
type ChromeRasterizer struct {
	opts ChromeOptions
	sem  *semaphore.Weighted
}

// NewChromeRasterizer creates a rasterizer. Zero option fields fall back to DefaultChromeOptions.
func NewChromeRasterizer(opts ChromeOptions) *ChromeRasterizer {
	defaults := DefaultChromeOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = defaults.ViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = defaults.ViewportHeight
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaults.MaxConcurrent
	}
	return &ChromeRasterizer{opts: opts, sem: semaphore.NewWeighted(opts.MaxConcurrent)}
}

// Capture loads the document into a fresh tab and screenshots the preview node
// at the given device scale factor.
func (c *ChromeRasterizer) Capture(ctx context.Context, doc *rendering.Document, scale float64) (*Bitmap, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	if c.opts.Verbose {
		log.Printf("[BROWSER] Capturing %s/%s preview at %.1fx", doc.Template, doc.Theme, scale)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancel()

	var shot []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.EmulateViewport(c.opts.ViewportWidth, c.opts.ViewportHeight, chromedp.EmulateScale(scale)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(doc.HTML)).Do(ctx)
		}),
		chromedp.WaitReady(PreviewSelector, chromedp.ByQuery),
		chromedp.Screenshot(PreviewSelector, &shot, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser capture failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	if c.opts.Verbose {
		log.Printf("[BROWSER] Captured %dx%d pixels", img.Bounds().Dx(), img.Bounds().Dy())
	}
	return &Bitmap{Image: img}, nil
}

// FindChrome returns the first Chrome or Chromium binary on PATH, or "" if none is installed.
func FindChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
