package adapters

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"order-sweeper/internal/core/httpclient"
	"order-sweeper/internal/core/proxy"
	"order-sweeper/internal/features/lookup/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Form selectors for the shop.du.ae order-tracking page. Selector
// brittleness is an accepted external risk.
const (
	orderInputSelector  = "#command > div.form__inner > div:nth-child(1) > input[type=text]"
	mobileInputSelector = "#command > div.form__inner > div:nth-child(2) > input"
	submitSelector      = "#command > div.form-section > button"
	submitFallback      = "button[type='submit']"
	submitXPath         = "//button[contains(text(), 'Track')]"
)

// resultSelectors are probed in order; every matching element's text is harvested.
var resultSelectors = []string{
	".order-status, .status, [class*='status']",
	".tracking-info, .order-details, [class*='tracking']",
}

// mismatchKeywords are the phrases the storefront shows for an invalid pair.
var mismatchKeywords = []string{
	"Errors were found",
	"Please check the errors",
	"Invalid",
	"not found",
}

const (
	// submitSettle is the fixed pause after clicking submit, before the
	// mismatch check. harvestSettle is the additional pause before reading
	// the results area. No backoff, no retry within a single attempt.
	submitSettle     = 3 * time.Second
	harvestSettle    = 2 * time.Second
	preflightTimeout = 15 * time.Second
)

// Options configures the browser session held by the submitter.
type Options struct {
	// TrackingURL is the order-tracking page to drive.
	TrackingURL string
	// Headless runs the browser without a visible window.
	Headless bool
	// WindowWidth and WindowHeight size the browser window.
	WindowWidth  int
	WindowHeight int
	// WaitTimeout bounds the wait for form elements to appear.
	WaitTimeout time.Duration
	// Proxy optionally routes browser traffic through an upstream proxy.
	Proxy proxy.Settings
	// ScreenshotDir receives per-attempt screenshots when Screenshots is set.
	ScreenshotDir string
	// Screenshots captures a PNG of the page on every attempt.
	Screenshots bool
	// SaveHTML includes the full page source in each capture.
	SaveHTML bool
}

// DuShopSubmitter drives the du storefront tracking form. One browser
// session is held for the submitter's lifetime and reused across attempts.
type DuShopSubmitter struct {
	opts   Options
	logger *zap.Logger

	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	forwarder *proxy.ForwardingProxy
}

// NewDuShopSubmitter creates a submitter. Start must be called before Submit.
func NewDuShopSubmitter(opts Options, log *zap.Logger) *DuShopSubmitter {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Second
	}
	return &DuShopSubmitter{
		opts:   opts,
		logger: log,
	}
}

// Start checks the storefront is reachable, then launches the browser and
// opens the page reused by every attempt. A failure here aborts the whole
// run; it is the only fatal path.
func (s *DuShopSubmitter) Start(ctx context.Context) error {
	if err := s.preflight(ctx); err != nil {
		return err
	}

	var localProxyAddr string
	if s.opts.Proxy.HasProxy() && s.opts.Proxy.HasCredentials() {
		forwarder, err := proxy.NewForwardingProxy(s.opts.Proxy.FullURL(), s.logger)
		if err != nil {
			return fmt.Errorf("failed to create proxy forwarder: %w", err)
		}
		localProxyAddr, err = forwarder.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start proxy forwarder: %w", err)
		}
		s.forwarder = forwarder
		s.logger.Debug("Local proxy forwarder started", zap.String("local_addr", localProxyAddr))
	} else if s.opts.Proxy.HasProxy() {
		localProxyAddr = s.opts.Proxy.HostPort()
	}

	s.logger.Debug("Launching browser...",
		zap.Bool("headless", s.opts.Headless),
		zap.Bool("proxy_enabled", s.opts.Proxy.HasProxy()),
	)

	l := launcher.New().
		Context(ctx).
		Headless(s.opts.Headless).
		NoSandbox(true)

	if s.opts.WindowWidth > 0 && s.opts.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", s.opts.WindowWidth, s.opts.WindowHeight))
	}

	if localProxyAddr != "" {
		l = l.Proxy(localProxyAddr)
		s.logger.Debug("Browser configured with proxy", zap.String("proxy", localProxyAddr))
	}

	u, err := l.Launch()
	if err != nil {
		s.stopForwarder()
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	s.launcher = l

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		s.cleanupLauncher()
		s.stopForwarder()
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	s.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		browser.Close()
		s.cleanupLauncher()
		s.stopForwarder()
		return fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page

	s.logger.Info("Browser session established", zap.String("tracking_url", s.opts.TrackingURL))
	return nil
}

// Close tears down the page, browser, launcher and proxy forwarder.
func (s *DuShopSubmitter) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.Debug("Failed to close page", zap.Error(err))
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("Failed to close browser", zap.Error(err))
		}
		s.browser = nil
	}
	s.cleanupLauncher()
	s.stopForwarder()
}

// Submit drives one (order, customer) attempt against the tracking form.
func (s *DuShopSubmitter) Submit(ctx context.Context, orderNumber, customerNumber string) (*domain.Capture, error) {
	if s.page == nil {
		return nil, fmt.Errorf("browser session not started")
	}

	page := s.page.Context(ctx)

	if err := page.Navigate(s.opts.TrackingURL); err != nil {
		return nil, fmt.Errorf("navigate to tracking page: %w", err)
	}

	if err := s.fillField(page, orderInputSelector, orderNumber, "order number field"); err != nil {
		return nil, err
	}
	if err := s.fillField(page, mobileInputSelector, customerNumber, "customer number field"); err != nil {
		return nil, err
	}

	submitEl, err := findSubmitControl(page)
	if err != nil {
		return nil, err
	}
	if err := submitEl.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("click submit control: %w", err)
	}

	if err := sleepCtx(ctx, submitSettle); err != nil {
		return nil, err
	}

	mismatch, _, err := page.HasX(buildMismatchXPath(mismatchKeywords))
	if err != nil {
		return nil, fmt.Errorf("check error indicators: %w", err)
	}
	if mismatch {
		capture := &domain.Capture{Outcome: domain.OutcomeMismatch}
		s.decorate(page, capture)
		s.logger.Debug("Pair rejected by storefront",
			zap.String("order_number", orderNumber),
			zap.String("customer_number", customerNumber),
		)
		return capture, nil
	}

	if err := sleepCtx(ctx, harvestSettle); err != nil {
		return nil, err
	}

	raw, err := harvestText(page)
	if err != nil {
		return nil, fmt.Errorf("read results area: %w", err)
	}

	capture := &domain.Capture{
		Outcome: domain.OutcomeResults,
		RawText: raw,
	}
	s.decorate(page, capture)

	s.logger.Debug("Results area captured",
		zap.String("order_number", orderNumber),
		zap.Int("raw_text_len", len(raw)),
	)
	return capture, nil
}

// fillField waits for the input within the configured timeout, clears it and
// types the value. A missing element wraps domain.ErrFieldNotFound.
func (s *DuShopSubmitter) fillField(page *rod.Page, selector, value, label string) error {
	el, err := page.Timeout(s.opts.WaitTimeout).Element(selector)
	if err != nil {
		s.logger.Warn("Form element missing",
			zap.String("element", label),
			zap.Duration("waited", s.opts.WaitTimeout),
			zap.Error(err),
		)
		return fmt.Errorf("locate %s: %w", label, domain.ErrFieldNotFound)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait for %s: %w", label, domain.ErrFieldNotFound)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clear %s: %w", label, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", label, err)
	}
	return nil
}

// findSubmitControl probes the primary selector and both fallbacks without
// waiting; the form is already interactive by the time inputs are filled.
func findSubmitControl(page *rod.Page) (*rod.Element, error) {
	for _, sel := range []string{submitSelector, submitFallback} {
		ok, el, err := page.Has(sel)
		if err == nil && ok {
			return el, nil
		}
	}
	ok, el, err := page.HasX(submitXPath)
	if err == nil && ok {
		return el, nil
	}
	return nil, fmt.Errorf("locate submit control: %w", domain.ErrFieldNotFound)
}

// harvestText joins the text of every element matching the result selectors.
func harvestText(page *rod.Page) (string, error) {
	var parts []string
	for _, sel := range resultSelectors {
		els, err := page.Elements(sel)
		if err != nil {
			return "", err
		}
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			if t := strings.TrimSpace(text); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "\n"), nil
}

// decorate attaches page metadata, HTML and a screenshot to the capture,
// best effort.
func (s *DuShopSubmitter) decorate(page *rod.Page, capture *domain.Capture) {
	if info, err := page.Info(); err == nil {
		capture.PageTitle = info.Title
		capture.PageURL = info.URL
	}
	if s.opts.SaveHTML {
		if html, err := page.HTML(); err == nil {
			capture.HTML = html
		}
	}
	capture.Screenshot = s.screenshot(page)
}

// screenshot saves a PNG of the current page and returns its path, or ""
// when capture is disabled or fails.
func (s *DuShopSubmitter) screenshot(page *rod.Page) string {
	if !s.opts.Screenshots {
		return ""
	}
	data, err := page.Screenshot(false, nil)
	if err != nil {
		s.logger.Warn("Failed to capture screenshot", zap.Error(err))
		return ""
	}
	if err := os.MkdirAll(s.opts.ScreenshotDir, 0o755); err != nil {
		s.logger.Warn("Failed to create screenshot dir", zap.Error(err))
		return ""
	}
	path := filepath.Join(s.opts.ScreenshotDir, fmt.Sprintf("order_tracking_%s.png", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("Failed to write screenshot", zap.Error(err))
		return ""
	}
	return path
}

// preflight confirms the storefront answers HTTP before paying for a
// browser launch. Any HTTP status counts as reachable.
func (s *DuShopSubmitter) preflight(ctx context.Context) error {
	client := httpclient.NewClient(preflightTimeout, s.logger)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.TrackingURL, nil)
	if err != nil {
		return fmt.Errorf("build preflight request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("storefront unreachable: %w", err)
	}
	resp.Body.Close()
	s.logger.Debug("Storefront preflight completed", zap.Int("status_code", resp.StatusCode))
	return nil
}

func (s *DuShopSubmitter) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

func (s *DuShopSubmitter) stopForwarder() {
	if s.forwarder != nil {
		if err := s.forwarder.Stop(); err != nil {
			s.logger.Debug("Failed to stop proxy forwarder", zap.Error(err))
		}
		s.forwarder = nil
	}
}

// buildMismatchXPath matches any element whose text contains one of the
// given phrases.
func buildMismatchXPath(keywords []string) string {
	clauses := make([]string, len(keywords))
	for i, kw := range keywords {
		clauses[i] = fmt.Sprintf("contains(text(), '%s')", kw)
	}
	return "//*[" + strings.Join(clauses, " or ") + "]"
}

// sleepCtx pauses for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
