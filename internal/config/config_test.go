package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"webverify/internal/config"
	"webverify/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "environment: production\n"))
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, config.DriverPlaywright, cfg.Browser.Driver)
	require.False(t, cfg.Browser.Headed)
	require.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	require.Equal(t, "http://localhost:3000", cfg.Feature.BaseURL)
	require.Equal(t, "password", cfg.Feature.Password)
	require.Equal(t, 10, cfg.Feature.EmailLength)
	require.Equal(t, "jules-scratch/verification/verification.png", cfg.Feature.Screenshot)
	require.Equal(t, "http://localhost:3001", cfg.Translations.BaseURL)
	require.Equal(t, config.DefaultPages(), cfg.Translations.Pages)
	require.Equal(t, ":3000", cfg.FakeApp.Addr)
	require.Equal(t, 5*time.Second, cfg.FakeApp.GracefulShutdownTimeout)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "config.yml"))
	require.NoError(t, err)
	require.Len(t, cfg.Translations.Pages, 3)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	t.Setenv("BROWSER_TIMEOUT", "5s")

	cfg, err := config.Load(writeConfig(t, `
browser:
  driver: chromedp
  remoteURL: ws://127.0.0.1:9222
translations:
  pages:
    - path: /about
      screenshot: about.png
`))
	require.NoError(t, err)
	require.Equal(t, config.DriverChromedp, cfg.Browser.Driver)
	require.Equal(t, "ws://127.0.0.1:9222", cfg.Browser.RemoteURL)
	require.Equal(t, 5*time.Second, cfg.Browser.Timeout)
	require.Equal(t, []config.Page{{Path: "/about", Screenshot: "about.png"}}, cfg.Translations.Pages)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown driver":       "browser:\n  driver: selenium\n",
		"remote with pw":       "browser:\n  remoteURL: ws://x:1\n",
		"relative base url":    "feature:\n  baseURL: /app\n",
		"nested screenshot":    "translations:\n  pages:\n    - path: /\n      screenshot: a/b.png\n",
		"duplicate screenshot": "translations:\n  pages:\n    - path: /\n      screenshot: a.png\n    - path: /x\n      screenshot: a.png\n",
		"zero viewport":        "browser:\n  viewportWidth: -1\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}
