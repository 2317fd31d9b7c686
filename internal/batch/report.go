// internal/batch/report.go
package batch

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Result is the tagged outcome of averaging one experiment. Every experiment
// handed to a worker produces exactly one Result; failures are never
// swallowed inside the pool.
type Result struct {
	Experiment string
	Tables     int
	Duration   time.Duration
	Err        error
	Skipped    bool
}

// Report aggregates the per-experiment outcomes of one batch run.
type Report struct {
	Results []Result
}

// Processed returns the number of experiments that were actually averaged.
func (r *Report) Processed() int {
	var n int
	for _, result := range r.Results {
		if !result.Skipped && result.Err == nil {
			n++
		}
	}
	return n
}

// Failures returns the results of experiments whose averaging failed.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// SkippedCount returns how many experiments were abandoned unprocessed
// (fail-fast cancellation).
func (r *Report) SkippedCount() int {
	var n int
	for _, result := range r.Results {
		if result.Skipped {
			n++
		}
	}
	return n
}

// Err combines every per-experiment failure into a single error, or nil when
// the whole batch succeeded.
func (r *Report) Err() error {
	var combined *multierror.Error
	for _, result := range r.Results {
		if result.Err != nil {
			combined = multierror.Append(combined, result.Err)
		}
	}
	return combined.ErrorOrNil()
}
