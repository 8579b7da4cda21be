package browser

import "time"

// Options configure how a driver launches its browser.
type Options struct {
	// Headless runs the browser without a visible window.
	Headless bool
	// Timeout bounds every single Session operation.
	Timeout time.Duration
	// ViewportWidth and ViewportHeight size the page in CSS pixels.
	ViewportWidth  int
	ViewportHeight int
	// RemoteURL points at an existing DevTools endpoint. Only drivers that can
	// attach to a running browser honour it.
	RemoteURL string
	// NoSandbox disables the Chromium sandbox, which is needed in most containers.
	NoSandbox bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		ViewportWidth:  1280,
		ViewportHeight: 720,
	}
}
