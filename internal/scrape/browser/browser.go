// Package browser wraps a headless Chromium session behind the scrape
// Fetcher contract: lazy launch, rendered-document fetches bounded by a
// readiness selector, and a teardown that is safe to call on every path.
package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"jobscout-engine/internal/logging"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/util"
)

// Real-browser user agents, rotated per session. Headless Chromium's own UA
// string is an instant tell.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

type Config struct {
	Headless          bool
	RequestsPerSecond float64
}

// Session is one exclusive browser session. Not safe for concurrent use;
// each orchestrated run owns its own.
type Session struct {
	cfg     Config
	log     *logging.Logger
	limiter *util.HostLimiter

	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
}

func New(cfg Config, log *logging.Logger) *Session {
	return &Session{
		cfg:     cfg,
		log:     log,
		limiter: util.NewHostLimiter(cfg.RequestsPerSecond, 1),
	}
}

// EnsureSession launches the browser if none is live. Idempotent.
func (s *Session) EnsureSession(ctx context.Context) error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return fmt.Errorf("open page: %w", err)
	}

	ua := userAgents[rand.Intn(len(userAgents))]
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
		s.log.Warn("set user agent failed", "error", err)
	}

	// Scrub the automation flag before any site script runs.
	script := `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`
	if _, err := (proto.PageAddScriptToEvaluateOnNewDocument{Source: script}).Call(page); err != nil {
		s.log.Warn("webdriver scrub failed", "error", err)
	}

	s.launch = l
	s.browser = b
	s.page = page
	s.log.Info("browser session started", "headless", s.cfg.Headless)
	return nil
}

// FetchRendered loads url and waits (bounded by timeout) for readySelector
// before handing the rendered HTML back as a goquery document.
func (s *Session) FetchRendered(ctx context.Context, url, readySelector string, timeout time.Duration) (*goquery.Document, error) {
	if err := s.EnsureSession(ctx); err != nil {
		return nil, err
	}

	if err := s.limiter.WaitURL(ctx, url); err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %v", url, scrape.ErrNavigation, err)
	}

	page := s.page.Context(ctx).Timeout(timeout)

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, classify(err))
	}

	// Element blocks until the readiness marker exists or the timeout hits.
	if _, err := page.Element(readySelector); err != nil {
		return nil, fmt.Errorf("fetch %s: wait %q: %w", url, readySelector, classify(err))
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read html: %w", url, classify(err))
	}

	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Close releases the browser session. Safe when the session never started,
// and safe to call once per run regardless of how the run ended.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	if s.launch != nil {
		s.launch.Kill()
	}
	s.browser = nil
	s.page = nil
	s.launch = nil
	s.log.Info("browser session closed")
	return err
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", scrape.ErrLoadTimeout, err)
	}
	return fmt.Errorf("%w: %v", scrape.ErrNavigation, err)
}
