// Package browser implements the primary, browser-backed extraction
// engine on top of chromedp. A scrape acquires its own browser instance,
// drives it against the profile URL and releases it on every exit path;
// instances are never shared between scrapes.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"linkedin-importer/internal/extract"
	"linkedin-importer/internal/models"
)

// userAgents is rotated per acquisition so repeated scrapes do not carry
// an identical fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// Engine drives a headless browser session against a profile URL.
type Engine struct {
	cfg       models.Config
	log       *logrus.Logger
	extractor *extract.Extractor

	// probe verifies an acquired browser context actually works. It is a
	// field so acquisition strategies can be exercised without Chrome.
	probe func(ctx context.Context) error
}

// New creates a browser-backed engine.
func New(cfg models.Config, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		cfg:       cfg,
		log:       log,
		extractor: extract.New(log),
		probe:     defaultProbe,
	}
}

func defaultProbe(ctx context.Context) error {
	return chromedp.Run(ctx,
		network.Enable(),
		chromedp.Navigate("about:blank"),
	)
}

// Scrape extracts a profile through a live browser session. Any failure,
// including a panic from the automation layer, is returned as an error;
// the browser is released regardless.
func (e *Engine) Scrape(ctx context.Context, profileURL string) (res *models.ExtractionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser engine panic: %v", r)
		}
	}()

	browserCtx, cancel, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	e.log.WithField("url", profileURL).Info("extracting profile via browser")

	if err := chromedp.Run(browserCtx, chromedp.Navigate(profileURL)); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	// Inter-request delay before touching the page.
	if err := chromedp.Run(browserCtx, chromedp.Sleep(e.delay())); err != nil {
		return nil, err
	}

	// Bounded wait for the main content landmark. Expiry is non-fatal:
	// extraction proceeds against whatever partial DOM is present.
	waitCtx, waitCancel := context.WithTimeout(browserCtx, e.cfg.ContentWaitTimeout)
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible("main", chromedp.ByQuery)); err != nil {
		e.log.WithField("url", profileURL).Warn("main content not found, continuing anyway")
	}
	waitCancel()

	res = e.extractor.Extract(NewDOMDocument(browserCtx))

	// Symmetric delay so an immediate follow-up call stays rate-limited.
	_ = chromedp.Run(browserCtx, chromedp.Sleep(e.delay()))

	return res, nil
}

func (e *Engine) delay() time.Duration {
	if e.cfg.ScrapeDelay < 2*time.Second {
		return 2 * time.Second
	}
	return e.cfg.ScrapeDelay
}

// acquire obtains a working browser context, trying in order: the
// configured browser binary, chromedp's default discovery, and a final
// attempt with a fresh user data directory. The returned cancel releases
// both the browser and its allocator.
func (e *Engine) acquire(ctx context.Context) (context.Context, context.CancelFunc, error) {
	type strategy struct {
		name string
		opts []chromedp.ExecAllocatorOption
	}

	var strategies []strategy
	if e.cfg.ChromePath != "" {
		strategies = append(strategies, strategy{
			name: "configured binary",
			opts: append(e.allocatorOptions(), chromedp.ExecPath(e.cfg.ChromePath)),
		})
	}
	strategies = append(strategies, strategy{
		name: "default discovery",
		opts: e.allocatorOptions(),
	})
	if dir, err := os.MkdirTemp("", "importer-chrome-*"); err == nil {
		strategies = append(strategies, strategy{
			name: "fresh profile retry",
			opts: append(e.allocatorOptions(), chromedp.UserDataDir(dir)),
		})
	}

	var lastErr error
	for _, s := range strategies {
		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, s.opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)

		if err := e.probe(browserCtx); err != nil {
			browserCancel()
			allocCancel()
			lastErr = err
			e.log.WithFields(logrus.Fields{
				"strategy": s.name,
				"error":    err,
			}).Warn("browser acquisition attempt failed")
			continue
		}

		// Hide the automation marker the way a regular session looks.
		_ = chromedp.Run(browserCtx, chromedp.Evaluate(
			`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`, nil))

		cancel := func() {
			browserCancel()
			allocCancel()
		}
		return browserCtx, cancel, nil
	}

	return nil, nil, fmt.Errorf("%w: %v", models.ErrDriverSetup, lastErr)
}

func (e *Engine) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins-discovery", true),
		chromedp.Flag("incognito", true),
		chromedp.UserAgent(userAgents[rand.Intn(len(userAgents))]),
	)
}
