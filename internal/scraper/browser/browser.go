package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobspy-service/internal/config"
	"jobspy-service/internal/logging"
	"jobspy-service/internal/logging/types"
	"jobspy-service/internal/proxy"
	"jobspy-service/internal/scraper/engines/googlejobs"
)

// scrollScript pushes every scrollable container to the bottom. The
// results list lives in a plugin container that does not react to
// window-level scrolling alone.
const scrollScript = `() => {
	const containers = document.querySelectorAll('div[role="list"], ul');
	containers.forEach(c => c.scrollTop = c.scrollHeight);
	window.scrollTo(0, document.body.scrollHeight);
	const jobContainer = document.querySelector('.gws-plugins-horizon-jobs__tl-lvc');
	if (jobContainer) jobContainer.scrollTop = jobContainer.scrollHeight;
}`

// Manager launches one browser per scrape attempt. Each session is bound
// to its own proxy identity, so browsers are not pooled across attempts.
type Manager struct {
	config *config.Config
	logger types.Logger
}

// NewManager creates a browser session manager.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// NewSession launches a browser routed through the given proxy session
// and returns a page bound to it. A nil proxy session launches without a
// proxy, for local development.
func (m *Manager) NewSession(ctx context.Context, proxySession *proxy.Session) (googlejobs.PageSession, error) {
	l := launcher.New().
		Headless(m.config.Scraper.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if chromePath := systemChromePath(); chromePath != "" {
		l = l.Bin(chromePath)
	}

	if proxySession != nil {
		l = l.Proxy(proxySession.Address())
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	if proxySession != nil {
		go b.MustHandleAuth(proxySession.Username(), proxySession.Password)()
		if err := b.IgnoreCertErrors(true); err != nil {
			m.logger.Warn("Failed to ignore certificate errors", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	page, err := m.newStealthPage(b)
	if err != nil {
		b.Close()
		l.Cleanup()
		return nil, err
	}

	m.logger.Debug("Browser session created", map[string]interface{}{
		"proxied": proxySession != nil,
	})

	return &Session{
		browser:  b,
		launcher: l,
		page:     page,
		logger:   m.logger,
	}, nil
}

func (m *Manager) newStealthPage(b *rod.Browser) (*rod.Page, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		m.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if m.config.Scraper.UserAgent != "" {
		err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.config.Scraper.UserAgent,
		})
		if err != nil {
			m.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return page, nil
}

// Session is one live page bound to one proxy identity.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	logger   types.Logger
}

// Navigate loads the URL and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := rod.Try(func() {
		s.page.Context(ctx).MustNavigate(url).MustWaitLoad()
	})
	if err != nil {
		if ctx.Err() != nil {
			return &googlejobs.NavigationTimeoutError{URL: url, Err: err}
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// HTML returns the full markup of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := rod.Try(func() {
		html = s.page.Context(ctx).MustHTML()
	})
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML: %w", err)
	}
	return html, nil
}

// VisibleText returns the rendered text of the page body.
func (s *Session) VisibleText(ctx context.Context) (string, error) {
	var text string
	err := rod.Try(func() {
		text = s.page.Context(ctx).MustElement("body").MustText()
	})
	if err != nil {
		return "", fmt.Errorf("failed to get visible text: %w", err)
	}
	return text, nil
}

// Scroll pushes the results containers to their bottom to trigger lazy
// loading of further listings.
func (s *Session) Scroll(ctx context.Context) error {
	err := rod.Try(func() {
		s.page.Context(ctx).MustEval(scrollScript)
	})
	if err != nil {
		return fmt.Errorf("failed to scroll page: %w", err)
	}
	return nil
}

// WaitSettled polls the page until its content size stops changing, up
// to the timeout. Two consecutive equal samples count as settled; on
// timeout it returns normally since a still-growing page is usable too.
func (s *Session) WaitSettled(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	interval := timeout / 4
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}

	lastLen := -1
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		html, err := s.HTML(ctx)
		if err != nil {
			return err
		}
		if len(html) == lastLen {
			return nil
		}
		lastLen = len(html)
	}

	return nil
}

// Eval runs a script on the page. Used for captcha solution injection.
func (s *Session) Eval(ctx context.Context, script string) error {
	err := rod.Try(func() {
		s.page.Context(ctx).MustEval(script)
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate script: %w", err)
	}
	return nil
}

// Close tears down the page, browser, and launcher.
func (s *Session) Close() error {
	err := rod.Try(func() {
		s.page.MustClose()
	})
	if closeErr := s.browser.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	s.launcher.Cleanup()
	if err != nil {
		s.logger.Debug("Browser session close reported error", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return err
}

// systemChromePath finds the system-installed Chrome/Chromium browser.
func systemChromePath() string {
	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		if _, err := os.Stat(chromeBin); err == nil {
			return chromeBin
		}
	}

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	commonPaths := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"C:\\Program Files\\Google\\Chrome\\Application\\chrome.exe",
		"C:\\Program Files (x86)\\Google\\Chrome\\Application\\chrome.exe",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
