package verify

import (
	"context"
	"webverify/pkg/browser"
)

// Flow is a linear sequence of browser steps.
type Flow interface {
	// Name identifies the flow in logs, metrics and reports.
	Name() string
	// Run executes the steps on sess and stops at the first error.
	Run(ctx context.Context, sess browser.Session) error
}

// runSteps executes steps in order and returns the first error.
func runSteps(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}
