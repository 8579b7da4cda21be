package verify

import (
	"context"
	"fmt"
	"time"
	"webverify/pkg/browser"
	"webverify/pkg/logger"
	"webverify/pkg/report"

	"go.uber.org/zap"
)

// Observer receives step measurements. *metrics.Recorder implements it.
type Observer interface {
	ObserveStep(ctx context.Context, flow, action string, took time.Duration, err error)
	ScreenshotTaken(ctx context.Context, flow string)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(context.Context, string, string, time.Duration, error) {}
func (nopObserver) ScreenshotTaken(context.Context, string)                            {}

// recordingSession wraps a Session so that every step is logged, timed and
// added to the run report. Filled values are never logged.
type recordingSession struct {
	browser.Session

	flow     string
	report   *report.Report
	observer Observer

	// screenshots lists the paths written successfully, in order
	screenshots []string
}

func newRecordingSession(sess browser.Session, flow string, rep *report.Report, observer Observer) *recordingSession {
	if observer == nil {
		observer = nopObserver{}
	}

	return &recordingSession{
		Session:  sess,
		flow:     flow,
		report:   rep,
		observer: observer,
	}
}

func (s *recordingSession) step(ctx context.Context, action, target string, fn func(ctx context.Context) error) error {
	ctx = logger.WithFields(ctx, zap.String("step", action), zap.String("target", target))
	logger.Debug(ctx, "step started")

	start := time.Now()
	err := fn(ctx)
	took := time.Since(start)

	s.report.AddStep(action, target, took, err)
	s.observer.ObserveStep(ctx, s.flow, action, took, err)

	if err != nil {
		logger.Error(ctx, "step failed", zap.Duration("took", took), zap.Error(err))

		return fmt.Errorf("step %s %s: %w", action, target, err)
	}
	logger.Info(ctx, "step finished", zap.Duration("took", took))

	return nil
}

func (s *recordingSession) Goto(ctx context.Context, url string) error {
	return s.step(ctx, "goto", url, func(ctx context.Context) error {
		return s.Session.Goto(ctx, url)
	})
}

func (s *recordingSession) WaitForSelector(ctx context.Context, sel browser.Selector) error {
	return s.step(ctx, "waitForSelector", sel.String(), func(ctx context.Context) error {
		return s.Session.WaitForSelector(ctx, sel)
	})
}

func (s *recordingSession) Fill(ctx context.Context, sel browser.Selector, value string) error {
	return s.step(ctx, "fill", sel.String(), func(ctx context.Context) error {
		return s.Session.Fill(ctx, sel, value)
	})
}

func (s *recordingSession) Click(ctx context.Context, sel browser.Selector) error {
	return s.step(ctx, "click", sel.String(), func(ctx context.Context) error {
		return s.Session.Click(ctx, sel)
	})
}

func (s *recordingSession) WaitForURL(ctx context.Context, url string) error {
	return s.step(ctx, "waitForURL", url, func(ctx context.Context) error {
		return s.Session.WaitForURL(ctx, url)
	})
}

func (s *recordingSession) Screenshot(ctx context.Context, path string) error {
	err := s.step(ctx, "screenshot", path, func(ctx context.Context) error {
		return s.Session.Screenshot(ctx, path)
	})
	if err != nil {
		return err
	}

	s.screenshots = append(s.screenshots, path)
	s.observer.ScreenshotTaken(ctx, s.flow)

	return nil
}
