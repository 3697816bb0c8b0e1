package export

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Capturer turns a standalone HTML document into image or PDF bytes.
type Capturer interface {
	Screenshot(ctx context.Context, html, selector string, format Format) ([]byte, error)
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

const (
	jpegQuality = 95
	// Chrome refuses to navigate to data URLs above 2MB.
	maxDataURL = 2 << 20
)

var browserNames = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// Chrome captures through a headless Chrome started per call.
type Chrome struct {
	ExecPath string
	Timeout  time.Duration
}

// percentEncodeForDataURL encodes a string for use in a data URL
// Unlike url.QueryEscape, this properly encodes spaces as %20 for data URLs
func percentEncodeForDataURL(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			result.WriteRune(r)
		case r == ' ':
			result.WriteString("%20")
		default:
			for _, b := range []byte(string(r)) {
				fmt.Fprintf(&result, "%%%02X", b)
			}
		}
	}
	return result.String()
}

func (c Chrome) execPath() (string, error) {
	if c.ExecPath != "" {
		if _, err := exec.LookPath(c.ExecPath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrBrowserMissing, c.ExecPath)
		}
		return c.ExecPath, nil
	}
	for _, name := range browserNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: chromium not installed", ErrBrowserMissing)
}

// run starts a browser, loads html and runs actions against it.
func (c Chrome) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	path, err := c.execPath()
	if err != nil {
		return err
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1000, 1300),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tasks := chromedp.Tasks{load(html), chromedp.WaitReady("body"), waitFonts()}
	tasks = append(tasks, actions...)
	return chromedp.Run(taskCtx, tasks)
}

// load navigates to html as a data URL, or writes it into a blank page when
// the URL would be too long.
func load(html string) chromedp.Action {
	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(html)
	if len(dataURL) <= maxDataURL {
		return chromedp.Navigate(dataURL)
	}
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	}
}

func waitFonts() chromedp.Action {
	var ready bool
	return chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &ready,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		})
}

type rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (c Chrome) Screenshot(ctx context.Context, html, selector string, format Format) ([]byte, error) {
	shotFormat := page.CaptureScreenshotFormatPng
	if format == FormatJPG {
		shotFormat = page.CaptureScreenshotFormatJpeg
	}

	var box rect
	var data []byte
	script := fmt.Sprintf(`(() => {
		const r = document.querySelector(%q).getBoundingClientRect();
		return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
	})()`, selector)

	err := c.run(ctx, html,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Evaluate(script, &box),
		chromedp.ActionFunc(func(ctx context.Context) error {
			shot := page.CaptureScreenshot().
				WithFormat(shotFormat).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{
					X:      box.X,
					Y:      box.Y,
					Width:  math.Ceil(box.Width),
					Height: math.Ceil(box.Height),
					Scale:  1,
				})
			if shotFormat == page.CaptureScreenshotFormatJpeg {
				shot = shot.WithQuality(jpegQuality)
			}
			var err error
			data, err = shot.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome screenshot failed: %w", err)
	}
	return data, nil
}

func (c Chrome) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfData []byte
	err := c.run(ctx, html,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome pdf generation failed: %w", err)
	}
	return pdfData, nil
}
