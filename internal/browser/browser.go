package browser

import (
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"
)

// Session owns one browser instance for the lifetime of a scrape run. The
// listing loop reuses a single page; every detail fetch opens a short-lived
// page of its own through NewPage.
type Session struct {
	Browser   *rod.Browser
	Log       *logrus.Entry
	UserAgent string

	launcher *launcher.Launcher
}

// Start launches Chromium and connects to it.
func Start(headless bool, userAgent string, log *logrus.Entry) (*Session, error) {
	l := launcher.New().
		Headless(headless).
		Set("disable-dev-shm-usage")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, err
	}

	log.Info("Browser launched")
	return &Session{Browser: b, Log: log, UserAgent: userAgent, launcher: l}, nil
}

// NewPage opens a stealth page with the session's user agent and a desktop
// viewport. Callers must close it; ClosePage swallows close errors.
func (s *Session) NewPage() (*rod.Page, error) {
	page, err := stealth.Page(s.Browser)
	if err != nil {
		return nil, err
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.UserAgent}); err != nil {
		s.Log.WithError(err).Warn("Could not override user agent")
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: 1920, Height: 1080, DeviceScaleFactor: 1,
	}); err != nil {
		s.Log.WithError(err).Warn("Could not set viewport")
	}
	return page, nil
}

// ClosePage closes a page, logging rather than propagating failures. A page
// that is already gone is not a problem worth aborting a run for.
func (s *Session) ClosePage(page *rod.Page) {
	if page == nil {
		return
	}
	if err := page.Close(); err != nil {
		s.Log.WithError(err).Warn("Error closing page")
	}
}

// Screenshot saves a full-page capture for diagnostics. Failures are logged
// and ignored; screenshots are never required for correctness.
func (s *Session) Screenshot(page *rod.Page, path string) {
	if page == nil {
		return
	}
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		s.Log.WithError(err).Warn("Could not capture screenshot")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.Log.WithError(err).Warn("Could not write screenshot")
		return
	}
	s.Log.Infof("Saved screenshot: %s", path)
}

// Close shuts the browser down. Errors are logged, not returned: cleanup must
// never mask the run's real outcome.
func (s *Session) Close() {
	if err := s.Browser.Close(); err != nil {
		s.Log.WithError(err).Warn("Error closing browser")
	}
	s.launcher.Cleanup()
	s.Log.Info("Browser closed")
}

// Settle gives client-side rendering a fixed window to finish after a
// navigation. The sites hydrate listings with JS, so a plain load event is
// not enough.
func Settle(d time.Duration) {
	time.Sleep(d)
}
