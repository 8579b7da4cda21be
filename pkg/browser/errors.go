package browser

import (
	"context"
	"errors"
	"webverify/pkg/serrors"
)

// ActionError classifies an error returned by a driver action. Deadline
// errors, or errors the driver reports as timeouts, become ErrTimeout and
// everything else ErrInternal. It returns nil for a nil err.
func ActionError(err error, timedOut bool, msgFmt string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case timedOut || errors.Is(err, context.DeadlineExceeded):
		return serrors.Wrap(serrors.ErrTimeout, err, msgFmt, args...)
	default:
		return serrors.Wrap(serrors.ErrInternal, err, msgFmt, args...)
	}
}

// LaunchError marks a failure to start or reach the browser.
func LaunchError(err error, msgFmt string, args ...any) error {
	return serrors.Wrap(serrors.ErrUnavailable, err, msgFmt, args...)
}
