// Package fetch obtains rendered markup from the JS-heavy scheduling
// site using headless Chrome. The page builds its result list client
// side, so a plain HTTP GET returns an empty shell; the fetcher waits
// for a caller-supplied readiness selector, applies one settle delay,
// and reads the document.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/internal/ratelimit"
)

// Options describes one fetch. ReadySelector is an opaque token
// meaningful to the document layer; the fetcher never interprets it.
type Options struct {
	URL           string
	ReadySelector string
	Timeout       time.Duration // readiness budget
	SettleDelay   time.Duration // fixed wait after readiness is met
}

// Fetcher retrieves rendered markup for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, opts Options) (string, error)
}

// Chrome implements Fetcher with a headless browser. Every call starts
// exactly one browser session and releases it before returning, on
// success, timeout, and error paths alike.
type Chrome struct {
	headless   bool
	userAgent  string
	chromePath string
	proxy      string
	limiter    ratelimit.Limiter
}

// NewChrome creates a Chrome fetcher. An empty chromePath triggers
// automatic discovery; a nil limiter disables throttling.
func NewChrome(headless bool, userAgent, chromePath, proxy string, limiter ratelimit.Limiter) *Chrome {
	if chromePath == "" {
		chromePath = FindChrome()
	}
	return &Chrome{
		headless:   headless,
		userAgent:  userAgent,
		chromePath: chromePath,
		proxy:      proxy,
		limiter:    limiter,
	}
}

// Fetch navigates to opts.URL, waits up to opts.Timeout for the
// readiness selector, sleeps opts.SettleDelay, and returns the outer
// HTML. If the selector never appears, the partial markup is returned
// together with an error wrapping ErrReadyTimeout so callers can
// attempt extraction anyway.
func (c *Chrome) Fetch(ctx context.Context, opts Options) (string, error) {
	start := time.Now()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	log.Debug().
		Str("url", opts.URL).
		Str("ready_selector", opts.ReadySelector).
		Dur("timeout", timeout).
		Bool("headless", c.headless).
		Msg("Starting fetch")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, opts.URL); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	// Overall session budget: readiness wait plus settle delay plus
	// room for navigation and content read.
	ctx, cancel := context.WithTimeout(ctx, timeout+opts.SettleDelay+30*time.Second)
	defer cancel()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(c.userAgent),
	}
	if c.chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(c.chromePath)}, allocOpts...)
	}
	if c.proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(c.proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// Capture the main document's response status for diagnostics.
	var statusCode int64
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Response.URL == opts.URL {
				statusCode = resp.Response.Status
			}
		}
	})

	if err := chromedp.Run(browserCtx, network.Enable(), chromedp.Navigate(opts.URL)); err != nil {
		return "", fmt.Errorf("navigate %s: %v: %w", opts.URL, err, ErrSession)
	}

	log.Debug().Dur("elapsed", time.Since(start)).Msg("Navigation complete")

	// Bounded readiness wait. The browser context stays alive when the
	// sub-context expires, so content can still be read afterwards.
	selector := opts.ReadySelector
	if selector == "" {
		selector = "body"
	}
	waitCtx, waitCancel := context.WithTimeout(browserCtx, timeout)
	waitErr := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	waitCancel()

	if waitErr != nil {
		log.Warn().
			Str("ready_selector", selector).
			Dur("timeout", timeout).
			Msg("Readiness selector not observed, reading partial content")
	}

	if opts.SettleDelay > 0 {
		select {
		case <-time.After(opts.SettleDelay):
		case <-browserCtx.Done():
			return "", fmt.Errorf("settle delay interrupted: %v: %w", browserCtx.Err(), ErrSession)
		}
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		if waitErr != nil {
			return "", fmt.Errorf("selector %q: %w", selector, ErrReadyTimeout)
		}
		return "", fmt.Errorf("read content: %v: %w", err, ErrSession)
	}

	log.Info().
		Str("url", opts.URL).
		Int64("status", statusCode).
		Int("bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Bool("ready", waitErr == nil).
		Msg("Fetch completed")

	if waitErr != nil {
		return html, fmt.Errorf("selector %q: %w", selector, ErrReadyTimeout)
	}
	return html, nil
}
