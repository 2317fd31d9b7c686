// internal/batch/coordinator.go
// Package batch distributes per-experiment averaging work across a fixed-size
// worker pool draining a shared queue.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/phamill/sweepagg/internal/appconfig"
	"github.com/phamill/sweepagg/internal/average"
	"github.com/phamill/sweepagg/internal/logging"
)

// defaultIdleTimeout bounds how long an idle worker waits on the queue before
// exiting. It is a termination signal only, not a correctness mechanism: the
// queue is pre-loaded and closed before the workers start draining it.
const defaultIdleTimeout = 2 * time.Second

// Coordinator runs the averaging of every experiment in a batch.
type Coordinator struct {
	averager    *average.Averager
	workers     int
	failFast    bool
	idleTimeout time.Duration
}

// NewCoordinator builds a Coordinator from the pipeline configuration.
func NewCoordinator(cfg *appconfig.Config) *Coordinator {
	return &Coordinator{
		averager:    average.New(cfg),
		workers:     cfg.WorkerCount(),
		failFast:    cfg.FailFast,
		idleTimeout: defaultIdleTimeout,
	}
}

// Run averages every experiment directory under batchRoot, excluding the
// reserved collation directory, and blocks until the queue is drained and
// every in-flight experiment has reported a result. One experiment's failure
// never silently stops the others: in the default fail-soft mode all
// experiments are attempted and failures are collected into the report; with
// fail-fast enabled the first failure cancels the remaining queue, and the
// abandoned experiments appear in the report as skipped.
func (c *Coordinator) Run(ctx context.Context, batchRoot string) (*Report, error) {
	experiments, err := c.averager.Layout().ListExperimentDirs(batchRoot)
	if err != nil {
		return nil, err
	}
	if len(experiments) == 0 {
		return nil, fmt.Errorf("batch root %s contains no experiment directories", batchRoot)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan string, len(experiments))
	for _, dir := range experiments {
		queue <- dir
	}
	close(queue)

	results := make(chan Result, len(experiments))
	ledger := NewLedger()

	workers := c.workers
	if workers > len(experiments) {
		workers = len(experiments)
	}
	logging.LogEvent("[BATCH] Averaging %d experiments with %d workers", len(experiments), workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			c.drain(ctx, worker, queue, results, ledger, cancel)
		}(w)
	}
	wg.Wait()
	close(results)

	report := &Report{Results: make([]Result, 0, len(experiments))}
	for result := range results {
		report.Results = append(report.Results, result)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Experiment < report.Results[j].Experiment
	})
	return report, nil
}

// drain pulls experiment paths until the queue closes or stays empty past the
// idle timeout. Each pulled experiment is processed to completion before the
// next pull.
func (c *Coordinator) drain(ctx context.Context, worker int, queue <-chan string, results chan<- Result, ledger *Ledger, cancel context.CancelFunc) {
	for {
		select {
		case experimentDir, ok := <-queue:
			if !ok {
				return
			}
			experiment := filepath.Base(experimentDir)
			if ctx.Err() != nil {
				results <- Result{Experiment: experiment, Skipped: true}
				continue
			}
			if !ledger.Begin(experimentDir) {
				continue
			}

			start := time.Now()
			tables, err := c.averager.Run(experimentDir)
			results <- Result{
				Experiment: experiment,
				Tables:     tables,
				Duration:   time.Since(start),
				Err:        err,
			}
			if err != nil {
				logging.LogEvent("[BATCH] Worker %d: experiment %s failed: %v", worker, experiment, err)
				if c.failFast {
					cancel()
				}
			}
		case <-time.After(c.idleTimeout):
			logging.LogEvent("[BATCH] Worker %d idle, exiting", worker)
			return
		}
	}
}
