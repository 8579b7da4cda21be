// Package cdpdriver implements browser.Launcher with chromedp, talking to
// Chromium over the DevTools protocol directly. It can either spawn a local
// Chromium or attach to a running one through Options.RemoteURL.
package cdpdriver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"webverify/pkg/browser"
	"webverify/pkg/logger"
	"webverify/pkg/serrors"

	"github.com/chromedp/cdproto/emulation"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Name is the driver name used in configuration.
const Name = "chromedp"

// urlPollInterval is how often WaitForURL re-reads the page location.
const urlPollInterval = 100 * time.Millisecond

// Launcher starts Chromium sessions through chromedp.
type Launcher struct {
	opts browser.Options
}

// New creates a Launcher with the given options.
func New(opts browser.Options) *Launcher {
	return &Launcher{opts: opts}
}

// Name implements browser.Launcher.
func (l *Launcher) Name() string { return Name }

// allocator returns a context that owns the browser process, or the
// connection to a remote one. It is detached from the caller's context so
// the browser lives until Close.
func (l *Launcher) allocator() (context.Context, context.CancelFunc) {
	if l.opts.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), l.opts.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(l.opts.ViewportWidth, l.opts.ViewportHeight),
	)
	if l.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Launch implements browser.Launcher.
func (l *Launcher) Launch(ctx context.Context) (browser.Session, error) {
	allocCtx, cancelAlloc := l.allocator()

	sugar := logger.Get(ctx).Sugar()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Errorf))

	s := &session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		timeout:     l.opts.Timeout,
	}

	// the first Run allocates the browser and must use the tab context
	// itself, otherwise the browser dies with the derived context.
	stop := context.AfterFunc(ctx, cancelTab)
	err := chromedp.Run(tabCtx, emulation.SetDeviceMetricsOverride(
		int64(l.opts.ViewportWidth), int64(l.opts.ViewportHeight), 1, false))
	stop()
	if err != nil {
		cancelTab()
		cancelAlloc()

		return nil, browser.LaunchError(err, "could not start chromium")
	}

	logger.Debug(ctx, "chromedp session started",
		zap.Bool("remote", l.opts.RemoteURL != ""),
		zap.Bool("headless", l.opts.Headless))

	return s, nil
}

type session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	timeout     time.Duration
}

// run executes actions on the tab, bounded by the session timeout and by ctx.
func (s *session) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, s.timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// query maps a selector to a chromedp query and its query option.
func query(sel browser.Selector) (string, chromedp.QueryOption, error) {
	if sel.Text == "" {
		return sel.CSS, chromedp.ByQuery, nil
	}

	xpath, ok := sel.XPath()
	if !ok {
		return "", nil, serrors.With(serrors.ErrBadRequest, "selector %s cannot be expressed as XPath", sel)
	}

	return xpath, chromedp.BySearch, nil
}

func (s *session) Goto(ctx context.Context, url string) error {
	return browser.ActionError(s.run(ctx, chromedp.Navigate(url)), false, "could not navigate to %s", url)
}

func (s *session) WaitForSelector(ctx context.Context, sel browser.Selector) error {
	q, by, err := query(sel)
	if err != nil {
		return err
	}

	return browser.ActionError(s.run(ctx, chromedp.WaitVisible(q, by)), false, "could not wait for %s", sel)
}

// Fill types value into the input instead of setting the DOM value so that
// framework change handlers observe the input.
func (s *session) Fill(ctx context.Context, sel browser.Selector, value string) error {
	q, by, err := query(sel)
	if err != nil {
		return err
	}

	err = s.run(ctx,
		chromedp.WaitVisible(q, by),
		chromedp.Clear(q, by),
		chromedp.SendKeys(q, value, by),
	)

	return browser.ActionError(err, false, "could not fill %s", sel)
}

func (s *session) Click(ctx context.Context, sel browser.Selector) error {
	q, by, err := query(sel)
	if err != nil {
		return err
	}

	return browser.ActionError(s.run(ctx, chromedp.Click(q, by, chromedp.NodeVisible)), false, "could not click %s", sel)
}

func (s *session) WaitForURL(ctx context.Context, url string) error {
	var current string
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		ticker := time.NewTicker(urlPollInterval)
		defer ticker.Stop()

		for {
			// reading the location fails while a navigation is in flight
			if err := chromedp.Location(&current).Do(ctx); err == nil && browser.SameURL(current, url) {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}))

	return browser.ActionError(err, false, "could not wait for URL %s (current %s)", url, current)
}

func (s *session) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = cdppage.CaptureScreenshot().
			WithFormat(cdppage.CaptureScreenshotFormatPng).
			Do(ctx)

		return err
	}))
	if err != nil {
		return browser.ActionError(err, false, "could not capture screenshot")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("could not save screenshot to file: %w", err)
	}

	return nil
}

// Close closes the tab gracefully, then releases the allocator which stops
// a locally spawned browser.
func (s *session) Close() error {
	defer s.cancelAlloc()
	defer s.cancelTab()

	if err := chromedp.Cancel(s.ctx); err != nil {
		return fmt.Errorf("could not close browser: %w", err)
	}

	return nil
}
