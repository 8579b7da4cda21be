// Package pwdriver implements browser.Launcher on top of playwright-go. It
// mirrors the synchronous Playwright API: one driver process, one Chromium
// instance, one isolated context and one page per session.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"webverify/pkg/browser"
	"webverify/pkg/logger"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Name is the driver name used in configuration.
const Name = "playwright"

// Launcher starts Chromium sessions through the Playwright driver.
type Launcher struct {
	opts browser.Options
}

// New creates a Launcher with the given options.
func New(opts browser.Options) *Launcher {
	return &Launcher{opts: opts}
}

// Name implements browser.Launcher.
func (l *Launcher) Name() string { return Name }

// Install downloads the Playwright driver and Chromium.
func Install(ctx context.Context) error {
	err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
		Logger:   logger.Slog(ctx),
	})
	if err != nil {
		return browser.LaunchError(err, "could not install playwright")
	}

	return nil
}

// Launch implements browser.Launcher.
func (l *Launcher) Launch(ctx context.Context) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	pw, err := playwright.Run(&playwright.RunOptions{
		Logger: logger.Slog(ctx),
	})
	if err != nil {
		return nil, browser.LaunchError(err, "could not start playwright")
	}
	s := &session{pw: pw, timeout: float64(l.opts.Timeout.Milliseconds())}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:        playwright.Bool(l.opts.Headless),
		ChromiumSandbox: playwright.Bool(!l.opts.NoSandbox),
		Timeout:         playwright.Float(s.timeout),
	})
	if err != nil {
		_ = s.Close()

		return nil, browser.LaunchError(err, "could not launch chromium")
	}

	s.context, err = s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: l.opts.ViewportWidth, Height: l.opts.ViewportHeight},
	})
	if err != nil {
		_ = s.Close()

		return nil, browser.LaunchError(err, "could not create browser context")
	}
	s.context.SetDefaultTimeout(s.timeout)
	s.context.SetDefaultNavigationTimeout(s.timeout)

	s.page, err = s.context.NewPage()
	if err != nil {
		_ = s.Close()

		return nil, browser.LaunchError(err, "could not open page")
	}

	logger.Debug(ctx, "playwright session started",
		zap.String("browserVersion", s.browser.Version()),
		zap.Bool("headless", l.opts.Headless))

	return s, nil
}

type session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	// timeout is in milliseconds, the unit Playwright expects.
	timeout float64
}

// watch runs a blocking Playwright call and closes the page as soon as ctx is
// cancelled, which makes the call return early. The context error is returned
// in that case.
func (s *session) watch(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() { _ = s.page.Close() })
	err := call()
	if !stop() {
		// the page was closed under the call
		return ctx.Err()
	}

	return err
}

func (s *session) Goto(ctx context.Context, url string) error {
	var resp playwright.Response
	err := s.watch(ctx, func() (err error) {
		resp, err = s.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
		})

		return err
	})
	if err != nil {
		return actionError(err, "could not navigate to %s", url)
	}
	if resp != nil && resp.Status() >= 500 {
		logger.Warn(ctx, "page responded with server error", zap.String("url", url), zap.Int("status", resp.Status()))
	}

	return nil
}

func (s *session) WaitForSelector(ctx context.Context, sel browser.Selector) error {
	err := s.watch(ctx, func() error {
		return s.page.Locator(sel.Playwright()).First().WaitFor(playwright.LocatorWaitForOptions{
			State: playwright.WaitForSelectorStateVisible,
		})
	})

	return actionError(err, "could not wait for %s", sel)
}

func (s *session) Fill(ctx context.Context, sel browser.Selector, value string) error {
	err := s.watch(ctx, func() error {
		return s.page.Locator(sel.Playwright()).First().Fill(value)
	})

	return actionError(err, "could not fill %s", sel)
}

func (s *session) Click(ctx context.Context, sel browser.Selector) error {
	err := s.watch(ctx, func() error {
		return s.page.Locator(sel.Playwright()).First().Click()
	})

	return actionError(err, "could not click %s", sel)
}

func (s *session) WaitForURL(ctx context.Context, url string) error {
	err := s.watch(ctx, func() error {
		return s.page.WaitForURL(func(current string) bool {
			return browser.SameURL(current, url)
		})
	})
	if err != nil {
		return actionError(err, "could not wait for URL %s (current %s)", url, s.page.URL())
	}

	return nil
}

func (s *session) Screenshot(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create screenshot directory: %w", err)
	}

	err := s.watch(ctx, func() error {
		_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(path),
			Type: playwright.ScreenshotTypePng,
		})

		return err
	})

	return actionError(err, "could not take screenshot %s", path)
}

// Close tears the session down in reverse order of creation. It is safe to
// call on a partially launched session.
func (s *session) Close() error {
	var errs []error
	// the page is already closed when a cancelled context interrupted a call
	if s.page != nil && !s.page.IsClosed() {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close page: %w", err))
		}
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("could not stop playwright: %w", err))
		}
	}

	return errors.Join(errs...)
}

func actionError(err error, msgFmt string, args ...any) error {
	return browser.ActionError(err, errors.Is(err, playwright.ErrTimeout), msgFmt, args...)
}
