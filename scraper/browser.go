package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	accordionHeaderSelector = ".MuiAccordionSummary-root"
	// settleTime is how long the DOM must stay unchanged after the
	// accordions are expanded.
	settleTime = 500 * time.Millisecond
)

// BrowserFetcher renders check-in pages in headless Chrome. The live pages
// are client-rendered, so a plain GET returns no categories.
type BrowserFetcher struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewBrowserFetcher uses the Chrome binary at bin, or the one found on the
// system when bin is empty.
func NewBrowserFetcher(bin string, timeout time.Duration, logger *slog.Logger) *BrowserFetcher {
	if bin == "" {
		if path, ok := launcher.LookPath(); ok {
			bin = path
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserFetcher{bin: bin, timeout: timeout, logger: logger}
}

// Fetch opens url, waits for the category accordions, expands every one of
// them and parses the resulting DOM.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(true)
	if f.bin != "" {
		l = l.Bin(f.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	if _, err := page.Element(accordionSelector); err != nil {
		return nil, fmt.Errorf("wait for categories on %s: %w", url, err)
	}

	headers, err := page.Elements(accordionHeaderSelector)
	if err != nil {
		return nil, fmt.Errorf("find category headers on %s: %w", url, err)
	}
	for _, header := range headers {
		// Клик через JS: заголовок может быть перекрыт липкой шапкой.
		if _, err := header.Eval(`() => this.click()`); err != nil {
			return nil, fmt.Errorf("expand category on %s: %w", url, err)
		}
	}
	if err := page.WaitStable(settleTime); err != nil {
		return nil, fmt.Errorf("wait for %s to settle: %w", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read rendered %s: %w", url, err)
	}
	reg, err := Parse(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	f.logger.Info("registration page rendered",
		"url", url,
		"title", reg.Title,
		"categories", len(headers),
		"competitors", len(reg.Competitors),
	)
	return reg, nil
}
