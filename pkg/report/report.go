// Package report describes the outcome of a verification run: the steps that
// were executed, how long they took and the artifacts they produced.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"webverify/pkg/serrors"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// Status is the final state of a run.
type Status string

const (
	// StatusPassed means every step succeeded and every artifact is non-empty.
	StatusPassed Status = "PASSED"
	// StatusFailed means a step failed or an artifact check did not pass.
	StatusFailed Status = "FAILED"
)

// Step is one browser action executed by a flow.
type Step struct {
	// Name is the action, e.g. "fill".
	Name string
	// Target is the URL, selector or path the action was applied to.
	Target   string
	Duration time.Duration
	// Err is the error message, empty on success.
	Err string
}

// Artifact is a file produced by a run.
type Artifact struct {
	Path  string
	Bytes int64
}

// Report is the result of a single flow run.
type Report struct {
	RunID      uuid.UUID
	Flow       string
	Driver     string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string
	Steps      []Step
	Artifacts  []Artifact
}

// New starts a report for the given flow and driver.
func New(flow, driver string) *Report {
	return &Report{
		RunID:     uuid.New(),
		Flow:      flow,
		Driver:    driver,
		StartedAt: time.Now().UTC(),
	}
}

// AddStep appends a finished step.
func (r *Report) AddStep(name, target string, took time.Duration, err error) {
	step := Step{Name: name, Target: target, Duration: took}
	if err != nil {
		step.Err = err.Error()
	}
	r.Steps = append(r.Steps, step)
}

// Finish marks the run as finished with the given error.
func (r *Report) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	r.Status = StatusPassed
	if err != nil {
		r.Status = StatusFailed
		r.Err = err.Error()
	}
}

// Encode writes the report as a JSON object.
func (r *Report) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("runId", func(e *jx.Encoder) { e.Str(r.RunID.String()) })
		e.Field("flow", func(e *jx.Encoder) { e.Str(r.Flow) })
		e.Field("driver", func(e *jx.Encoder) { e.Str(r.Driver) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(r.Status)) })
		e.Field("startedAt", func(e *jx.Encoder) { e.Str(r.StartedAt.Format(time.RFC3339Nano)) })
		e.Field("finishedAt", func(e *jx.Encoder) { e.Str(r.FinishedAt.Format(time.RFC3339Nano)) })
		if r.Err != "" {
			e.Field("error", func(e *jx.Encoder) { e.Str(r.Err) })
		}
		e.Field("steps", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, s := range r.Steps {
					e.Obj(func(e *jx.Encoder) {
						e.Field("name", func(e *jx.Encoder) { e.Str(s.Name) })
						e.Field("target", func(e *jx.Encoder) { e.Str(s.Target) })
						e.Field("durationMs", func(e *jx.Encoder) { e.Int64(s.Duration.Milliseconds()) })
						if s.Err != "" {
							e.Field("error", func(e *jx.Encoder) { e.Str(s.Err) })
						}
					})
				}
			})
		})
		e.Field("artifacts", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, a := range r.Artifacts {
					e.Obj(func(e *jx.Encoder) {
						e.Field("path", func(e *jx.Encoder) { e.Str(a.Path) })
						e.Field("bytes", func(e *jx.Encoder) { e.Int64(a.Bytes) })
					})
				}
			})
		})
	})
}

// WriteFile writes the report to path. The file is written to a temporary
// sibling first and renamed so readers never observe a partial report.
func (r *Report) WriteFile(path string) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.SetIdent(2)
	r.Encode(e)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(e.Bytes()); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close report file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not move report into place: %w", err)
	}

	return nil
}

// StatArtifact checks that path is a non-empty regular file and returns it
// as an Artifact.
func StatArtifact(path string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, serrors.Wrap(serrors.ErrNotFound, err, "artifact %s is missing", path)
	}
	if !info.Mode().IsRegular() {
		return Artifact{}, serrors.With(serrors.ErrInternal, "artifact %s is not a regular file", path)
	}
	if info.Size() == 0 {
		return Artifact{}, serrors.With(serrors.ErrInternal, "artifact %s is empty", path)
	}

	return Artifact{Path: path, Bytes: info.Size()}, nil
}
