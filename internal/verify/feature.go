package verify

import (
	"context"
	"webverify/internal/config"
	"webverify/pkg/browser"
	"webverify/pkg/logger"
	"webverify/pkg/serrors"

	"go.uber.org/zap"
)

// FeatureFlowName identifies the signup, login and todo flow.
const FeatureFlowName = "feature"

// FeatureOptions configure the feature flow.
type FeatureOptions struct {
	BaseURL     string
	DisplayName string
	Password    string
	EmailDomain string
	EmailLength int
	TodoText    string
	Screenshot  string
}

// NewFeatureOptions constructs FeatureOptions from the application config.
func NewFeatureOptions(cfg *config.Config) FeatureOptions {
	return FeatureOptions{
		BaseURL:     cfg.Feature.BaseURL,
		DisplayName: cfg.Feature.DisplayName,
		Password:    cfg.Feature.Password,
		EmailDomain: cfg.Feature.EmailDomain,
		EmailLength: cfg.Feature.EmailLength,
		TodoText:    cfg.Feature.TodoText,
		Screenshot:  cfg.Feature.Screenshot,
	}
}

// Feature signs up a fresh account, logs in with it, adds a todo item and
// takes a screenshot of the todo page.
type Feature struct {
	options FeatureOptions
	// newCredentials is replaceable in tests
	newCredentials func() Credentials
}

// NewFeature creates the feature flow.
func NewFeature(options FeatureOptions) *Feature {
	return &Feature{
		options: options,
		newCredentials: func() Credentials {
			return NewCredentials(options.DisplayName, options.EmailDomain, options.EmailLength, options.Password)
		},
	}
}

// Name implements Flow.
func (f *Feature) Name() string { return FeatureFlowName }

type featureURLs struct {
	signup, login, dashboard, todo string
}

func (f *Feature) urls() (featureURLs, error) {
	var (
		u   featureURLs
		err error
	)
	for _, target := range []struct {
		dst  *string
		path string
	}{
		{&u.signup, SignupPath},
		{&u.login, LoginPath},
		{&u.dashboard, DashboardPath},
		{&u.todo, TodoPath},
	} {
		if *target.dst, err = browser.JoinURL(f.options.BaseURL, target.path); err != nil {
			return u, serrors.Wrap(serrors.ErrBadRequest, err, "invalid base URL %q", f.options.BaseURL)
		}
	}

	return u, nil
}

// Run implements Flow.
func (f *Feature) Run(ctx context.Context, sess browser.Session) error {
	u, err := f.urls()
	if err != nil {
		return err
	}

	creds := f.newCredentials()
	logger.Info(ctx, "signing up test account", zap.String("email", creds.Email))

	return runSteps(
		// signup
		func() error { return sess.Goto(ctx, u.signup) },
		func() error { return sess.WaitForSelector(ctx, EmailInput) },
		func() error { return sess.Fill(ctx, SignupNameInput, creds.Name) },
		func() error { return sess.Fill(ctx, EmailInput, creds.Email) },
		func() error { return sess.Fill(ctx, SignupPasswordInput, creds.Password) },
		func() error { return sess.Click(ctx, SubmitButton) },
		func() error { return sess.WaitForURL(ctx, u.login) },

		// login
		func() error { return sess.WaitForSelector(ctx, EmailInput) },
		func() error { return sess.Fill(ctx, EmailInput, creds.Email) },
		func() error { return sess.Fill(ctx, LoginPasswordInput, creds.Password) },
		func() error { return sess.Click(ctx, SubmitButton) },
		func() error { return sess.WaitForURL(ctx, u.dashboard) },

		// todo
		func() error { return sess.Goto(ctx, u.todo) },
		func() error { return sess.WaitForSelector(ctx, TodoInput) },
		func() error { return sess.Fill(ctx, TodoInput, f.options.TodoText) },
		func() error { return sess.Click(ctx, AddTodoButton) },
		func() error { return sess.Screenshot(ctx, f.options.Screenshot) },
	)
}
