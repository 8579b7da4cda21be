// Package browser defines the contract between verification flows and the
// browser automation backends. Every Session operation blocks until its
// precondition holds or the driver's timeout elapses.
//
//go:generate mockgen -package mockbrowser -source=interface.go -destination=mock/mockbrowser.go *
package browser

import "context"

// Launcher starts a fresh browser session.
type Launcher interface {
	// Name returns the driver name, e.g. "playwright".
	Name() string
	// Launch starts a browser with an isolated context and a single open page.
	Launch(ctx context.Context) (Session, error)
}

// Session is one page inside one isolated browser context.
type Session interface {
	// Goto navigates to url and waits for the load event.
	Goto(ctx context.Context, url string) error
	// WaitForSelector waits until the element matched by sel is visible.
	WaitForSelector(ctx context.Context, sel Selector) error
	// Fill replaces the value of the input matched by sel.
	Fill(ctx context.Context, sel Selector, value string) error
	// Click clicks the element matched by sel.
	Click(ctx context.Context, sel Selector) error
	// WaitForURL waits until the page URL equals url after normalization.
	WaitForURL(ctx context.Context, url string) error
	// Screenshot writes a PNG of the current viewport to path, creating parent directories.
	Screenshot(ctx context.Context, path string) error
	// Close releases the page, the context and the browser.
	Close() error
}
