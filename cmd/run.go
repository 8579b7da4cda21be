package main

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"webverify/internal/config"
	"webverify/internal/verify"
	"webverify/pkg/browser"
	"webverify/pkg/browser/cdpdriver"
	"webverify/pkg/browser/pwdriver"
	"webverify/pkg/logger"
	"webverify/pkg/metrics"
	"webverify/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const driverFlag = "driver"

// newLauncher builds the launcher for driver using the browser section of cfg.
func newLauncher(cfg *config.Config, driver string) (browser.Launcher, error) {
	opts := browser.Options{
		Headless:       !cfg.Browser.Headed,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		RemoteURL:      cfg.Browser.RemoteURL,
		NoSandbox:      cfg.Browser.NoSandbox,
	}

	switch driver {
	case config.DriverPlaywright:
		if opts.RemoteURL != "" {
			return nil, serrors.With(serrors.ErrBadRequest, "remoteURL is only supported by the %s driver",
				config.DriverChromedp)
		}

		return pwdriver.New(opts), nil
	case config.DriverChromedp:
		return cdpdriver.New(opts), nil
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown browser driver %q", driver)
	}
}

// reportPath returns where the report of flow is written. When several
// flows share one run, the flow name is inserted before the extension.
func reportPath(path, flow string, shared bool) string {
	if path == "" || !shared {
		return path
	}

	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "." + flow + ext
}

// runFlows runs flows one after another and stops at the first failure.
// Reports and the metrics textfile are written even when a flow fails.
func runFlows(ctx context.Context, cfg *config.Config, launcher browser.Launcher, flows ...verify.Flow) (err error) {
	recorder, err := metrics.New()
	if err != nil {
		return err
	}
	defer func() {
		if cfg.Metrics.Textfile != "" {
			if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
				err = errors.Join(err, werr)
			}
		}
		if serr := recorder.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.Warn(ctx, "could not shut down metrics", zap.Error(serr))
		}
	}()

	runner := verify.NewRunner(launcher, recorder)
	for _, flow := range flows {
		rep, runErr := runner.Run(ctx, flow)

		if path := reportPath(cfg.Report.Path, flow.Name(), len(flows) > 1); path != "" {
			if werr := rep.WriteFile(path); werr != nil {
				runErr = errors.Join(runErr, werr)
			} else {
				logger.Info(ctx, "report written", zap.String("path", path))
			}
		}

		if runErr != nil {
			return runErr
		}
	}

	return nil
}

func runCommand(use, short string, cfg *config.Config, flows func() []verify.Flow) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			driver, err := cmd.Flags().GetString(driverFlag)
			if err != nil {
				return err
			}

			launcher, err := newLauncher(cfg, driver)
			if err != nil {
				return err
			}

			return runFlows(ctx, cfg, launcher, flows()...)
		},
	}
	cmd.Flags().String(driverFlag, cfg.Browser.Driver, "Browser driver: playwright or chromedp")

	return cmd
}

func featureCommand(cfg *config.Config) *cobra.Command {
	return runCommand("feature", "Signs up, logs in, adds a todo and takes a screenshot", cfg,
		func() []verify.Flow {
			return []verify.Flow{verify.NewFeature(verify.NewFeatureOptions(cfg))}
		})
}

func translationsCommand(cfg *config.Config) *cobra.Command {
	return runCommand("translations", "Takes a screenshot of every configured page", cfg,
		func() []verify.Flow {
			return []verify.Flow{verify.NewTranslations(verify.NewTranslationsOptions(cfg))}
		})
}

func allCommand(cfg *config.Config) *cobra.Command {
	return runCommand("all", "Runs the feature flow, then the translations flow", cfg,
		func() []verify.Flow {
			return []verify.Flow{
				verify.NewFeature(verify.NewFeatureOptions(cfg)),
				verify.NewTranslations(verify.NewTranslationsOptions(cfg)),
			}
		})
}
