package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"time"
	"webverify/pkg/serrors"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported browser drivers.
const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

// Page is one page visited by the translations flow.
type Page struct {
	// Path is resolved against Translations.BaseURL
	Path string `yaml:"path"`
	// Screenshot is the file name written into Translations.OutputDir
	Screenshot string `yaml:"screenshot"`
}

// DefaultPages are the pages captured when none are configured.
func DefaultPages() []Page {
	return []Page{
		{Path: "/", Screenshot: "homepage.png"},
		{Path: "/login", Screenshot: "login.png"},
		{Path: "/signup", Screenshot: "signup.png"},
	}
}

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Browser configures how the browser is launched
	Browser struct {
		// Driver selects the automation backend: playwright or chromedp
		Driver string `env:"BROWSER_DRIVER" env-default:"playwright" yaml:"driver"`
		// Headed shows the browser window; the default is headless
		Headed bool `env:"BROWSER_HEADED" yaml:"headed"`
		// Timeout bounds every single browser action
		Timeout time.Duration `env:"BROWSER_TIMEOUT" env-default:"30s" yaml:"timeout"`
		// ViewportWidth is the page width in CSS pixels
		ViewportWidth int `env:"BROWSER_VIEWPORT_WIDTH" env-default:"1280" yaml:"viewportWidth"`
		// ViewportHeight is the page height in CSS pixels
		ViewportHeight int `env:"BROWSER_VIEWPORT_HEIGHT" env-default:"720" yaml:"viewportHeight"`
		// RemoteURL attaches the chromedp driver to a running browser's DevTools endpoint
		RemoteURL string `env:"BROWSER_REMOTE_URL" yaml:"remoteURL"`
		// NoSandbox disables the Chromium sandbox
		NoSandbox bool `env:"BROWSER_NO_SANDBOX" yaml:"noSandbox"`
	} `yaml:"browser"`

	// Feature configures the signup, login and todo flow
	Feature struct {
		// BaseURL is where the application under test is reachable
		BaseURL string `env:"FEATURE_BASE_URL" env-default:"http://localhost:3000" yaml:"baseURL"`
		// DisplayName is typed into the signup name field
		DisplayName string `env:"FEATURE_DISPLAY_NAME" env-default:"Test User" yaml:"displayName"`
		// Password is used for both signup and login
		Password string `env:"FEATURE_PASSWORD" env-default:"password" yaml:"password"`
		// EmailDomain is appended to the random local part of the email
		EmailDomain string `env:"FEATURE_EMAIL_DOMAIN" env-default:"example.com" yaml:"emailDomain"`
		// EmailLength is the length of the random local part of the email
		EmailLength int `env:"FEATURE_EMAIL_LENGTH" env-default:"10" yaml:"emailLength"`
		// TodoText is the title of the todo item added at the end of the flow
		TodoText string `env:"FEATURE_TODO_TEXT" env-default:"My new todo" yaml:"todoText"`
		// Screenshot is where the final screenshot is written
		Screenshot string `env:"FEATURE_SCREENSHOT" env-default:"jules-scratch/verification/verification.png" yaml:"screenshot"` //nolint: lll
	} `yaml:"feature"`

	// Translations configures the page screenshot flow
	Translations struct {
		// BaseURL is where the application under test is reachable
		BaseURL string `env:"TRANSLATIONS_BASE_URL" env-default:"http://localhost:3001" yaml:"baseURL"`
		// OutputDir receives one screenshot per page
		OutputDir string `env:"TRANSLATIONS_OUTPUT_DIR" env-default:"jules-scratch/verification" yaml:"outputDir"`
		// Pages are visited in order; DefaultPages is used when empty
		Pages []Page `yaml:"pages"`
	} `yaml:"translations"`

	// Report configures the JSON run report
	Report struct {
		// Path of the report file; empty disables the report
		Path string `env:"REPORT_PATH" yaml:"path"`
	} `yaml:"report"`

	// FakeApp configures the local stand-in application served by serve-fake
	FakeApp struct {
		// Addr is the listen address of the stand-in application
		Addr string `env:"FAKEAPP_ADDR" env-default:":3000" yaml:"addr"`
		// GracefulShutdownTimeout bounds how long in-flight requests may finish on shutdown
		GracefulShutdownTimeout time.Duration `env:"FAKEAPP_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"gracefulShutdownTimeout"` //nolint: lll
	} `yaml:"fakeApp"`

	// Metrics configures the Prometheus textfile export
	Metrics struct {
		// Textfile is the path of the .prom file; empty disables the export
		Textfile string `env:"METRICS_TEXTFILE" yaml:"textfile"`
	} `yaml:"metrics"`
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if len(cfg.Translations.Pages) == 0 {
		cfg.Translations.Pages = DefaultPages()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cleanenv cannot check on its own.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DriverPlaywright, DriverChromedp}, c.Browser.Driver) {
		return serrors.With(serrors.ErrBadRequest, "unknown browser driver %q", c.Browser.Driver)
	}
	if c.Browser.Timeout <= 0 {
		return serrors.With(serrors.ErrBadRequest, "browser timeout must be positive")
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return serrors.With(serrors.ErrBadRequest, "viewport must be positive, got %dx%d",
			c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}
	if c.Browser.RemoteURL != "" && c.Browser.Driver != DriverChromedp {
		return serrors.With(serrors.ErrBadRequest, "remoteURL is only supported by the %s driver", DriverChromedp)
	}

	for name, raw := range map[string]string{
		"feature.baseURL":      c.Feature.BaseURL,
		"translations.baseURL": c.Translations.BaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return serrors.With(serrors.ErrBadRequest, "%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.Feature.EmailLength <= 0 {
		return serrors.With(serrors.ErrBadRequest, "feature.emailLength must be positive")
	}
	if c.Feature.Screenshot == "" {
		return serrors.With(serrors.ErrBadRequest, "feature.screenshot must be set")
	}

	seen := map[string]bool{}
	for i, p := range c.Translations.Pages {
		if p.Screenshot == "" || filepath.Base(p.Screenshot) != p.Screenshot {
			return serrors.With(serrors.ErrBadRequest, "translations.pages[%d].screenshot must be a file name, got %q",
				i, p.Screenshot)
		}
		if seen[p.Screenshot] {
			return serrors.With(serrors.ErrBadRequest, "translations.pages[%d].screenshot %q is used twice",
				i, p.Screenshot)
		}
		seen[p.Screenshot] = true
	}

	return nil
}
