package verify

import (
	"context"
	"path/filepath"
	"webverify/internal/config"
	"webverify/pkg/browser"
	"webverify/pkg/serrors"
)

// TranslationsFlowName identifies the page screenshot flow.
const TranslationsFlowName = "translations"

// TranslationsOptions configure the translations flow.
type TranslationsOptions struct {
	BaseURL   string
	OutputDir string
	Pages     []config.Page
}

// NewTranslationsOptions constructs TranslationsOptions from the application config.
func NewTranslationsOptions(cfg *config.Config) TranslationsOptions {
	return TranslationsOptions{
		BaseURL:   cfg.Translations.BaseURL,
		OutputDir: cfg.Translations.OutputDir,
		Pages:     cfg.Translations.Pages,
	}
}

// Translations visits each page in order and screenshots it, so that the
// rendered translations can be reviewed by eye.
type Translations struct {
	options TranslationsOptions
}

// NewTranslations creates the translations flow.
func NewTranslations(options TranslationsOptions) *Translations {
	return &Translations{options: options}
}

// Name implements Flow.
func (t *Translations) Name() string { return TranslationsFlowName }

// Run implements Flow.
func (t *Translations) Run(ctx context.Context, sess browser.Session) error {
	if len(t.options.Pages) == 0 {
		return serrors.With(serrors.ErrBadRequest, "no pages configured")
	}

	for _, p := range t.options.Pages {
		target, err := browser.JoinURL(t.options.BaseURL, p.Path)
		if err != nil {
			return serrors.Wrap(serrors.ErrBadRequest, err, "invalid page %q", p.Path)
		}

		if err := sess.Goto(ctx, target); err != nil {
			return err
		}
		if err := sess.Screenshot(ctx, filepath.Join(t.options.OutputDir, p.Screenshot)); err != nil {
			return err
		}
	}

	return nil
}
