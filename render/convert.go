package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Converter rasterizes an SVG document.
type Converter interface {
	Convert(ctx context.Context, svg []byte, width, height float64) ([]byte, error)
}

// ChromeConverter rasterizes SVG to PNG in a headless Chrome.
type ChromeConverter struct {
	// Options are appended to the default exec allocator options.
	Options []chromedp.ExecAllocatorOption
}

// Convert implements Converter.
func (c *ChromeConverter) Convert(ctx context.Context, svg []byte, width, height float64) ([]byte, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, append(chromedp.DefaultExecAllocatorOptions[:], c.Options...)...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	page := `<!DOCTYPE html><html><body style="margin:0">` + string(svg) + `</body></html>`
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURL),
		chromedp.Screenshot("svg", &png, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterizing svg: %w", err)
	}
	return png, nil
}

// FormConverter posts the SVG as the "data" field of a urlencoded form to
// a conversion endpoint and returns the response body.
type FormConverter struct {
	Endpoint string
	Client   *http.Client
}

// Convert implements Converter.
func (c *FormConverter) Convert(ctx context.Context, svg []byte, width, height float64) ([]byte, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	form := url.Values{"data": {string(svg)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", c.Endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading conversion response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("conversion endpoint returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return body, nil
}

// PNGRenderer renders the main canvas as SVG and hands it to a Converter
type PNGRenderer struct {
	Converter Converter
}

// Name returns the name of the renderer
func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

// Description returns a description of the renderer
func (r *PNGRenderer) Description() string {
	return "Renders the concept graph canvas as a PNG image"
}

// Render creates a PNG representation of the frame
func (r *PNGRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	return r.RenderContext(context.Background(), frame, options)
}

// RenderContext draws the frame as SVG on the calling goroutine and hands
// the document to the converter under ctx and the options timeout. The
// frame is not read once conversion starts.
func (r *PNGRenderer) RenderContext(ctx context.Context, frame *Frame, options *OutputOptions) ([]byte, error) {
	svgRenderer := &SVGRenderer{}
	svg, err := svgRenderer.Render(frame, options)
	if err != nil {
		return nil, err
	}
	if r.Converter == nil {
		return nil, fmt.Errorf("png: no converter configured")
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}
	return r.Converter.Convert(ctx, svg, options.Width, options.Height)
}
