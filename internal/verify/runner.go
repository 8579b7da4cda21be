package verify

import (
	"context"
	"fmt"
	"webverify/pkg/browser"
	"webverify/pkg/logger"
	"webverify/pkg/report"

	"go.uber.org/zap"
)

// Runner executes flows, one browser session per flow.
type Runner struct {
	launcher browser.Launcher
	observer Observer
}

// NewRunner creates a Runner. observer may be nil.
func NewRunner(launcher browser.Launcher, observer Observer) *Runner {
	return &Runner{launcher: launcher, observer: observer}
}

// Run launches a browser, executes flow, closes the browser and checks that
// every screenshot taken by the flow is a non-empty file. The returned report
// is never nil and describes the run even when an error is returned.
func (r *Runner) Run(ctx context.Context, flow Flow) (*report.Report, error) {
	rep := report.New(flow.Name(), r.launcher.Name())
	ctx = logger.WithFields(ctx,
		zap.String("runID", rep.RunID.String()),
		zap.String("flow", flow.Name()),
		zap.String("driver", r.launcher.Name()))

	err := r.run(ctx, flow, rep)
	rep.Finish(err)

	if err != nil {
		logger.Error(ctx, "verification failed", zap.Error(err))

		return rep, err
	}
	logger.Info(ctx, "verification passed", zap.Int("steps", len(rep.Steps)), zap.Int("artifacts", len(rep.Artifacts)))

	return rep, nil
}

func (r *Runner) run(ctx context.Context, flow Flow, rep *report.Report) error {
	rec, err := r.execute(ctx, flow, rep)
	if err != nil {
		return err
	}

	for _, path := range rec.screenshots {
		artifact, err := report.StatArtifact(path)
		if err != nil {
			return fmt.Errorf("could not verify screenshot: %w", err)
		}
		rep.Artifacts = append(rep.Artifacts, artifact)
	}

	return nil
}

// execute launches a session, runs flow on it and closes the session again,
// also when the flow panics. A close error only fails an otherwise passing run.
func (r *Runner) execute(ctx context.Context, flow Flow, rep *report.Report) (rec *recordingSession, err error) {
	logger.Info(ctx, "launching browser")
	sess, err := r.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	defer func() {
		closeErr := sess.Close()
		switch {
		case closeErr == nil:
		case err != nil:
			logger.Warn(ctx, "could not close browser", zap.Error(closeErr))
		default:
			err = fmt.Errorf("could not close browser: %w", closeErr)
		}
	}()

	rec = newRecordingSession(sess, flow.Name(), rep, r.observer)
	if err := flow.Run(ctx, rec); err != nil {
		return rec, fmt.Errorf("%s flow failed: %w", flow.Name(), err)
	}

	return rec, nil
}
