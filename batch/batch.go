// Package batch fans independent security analyses out over a worker pool.
// Every solve is synchronous and side-effect free, so concurrency lives
// here, across securities, never inside one solve.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/config"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/solver"
)

// Security is one analysis request.
type Security struct {
	ID         string
	Bond       bond.CallableBond
	CleanPrice float64
	Accrued    float64
	Settlement time.Time
}

// Result carries whichever metrics solved for one security. A failed metric
// stays nil and lowers Quality; it never aborts the rest of the security or
// the batch.
type Result struct {
	ID string

	YieldToWorst    *bond.WorkoutResult
	YieldToMaturity *bond.YieldResult
	ZSpread         *bond.Spread
	ASWSpread       *bond.Spread

	// Quality is solved metrics over attempted metrics, in [0, 1].
	Quality float64

	Errors []error
}

// Runner analyzes batches of securities. Curve is optional; without one the
// spread metrics are not attempted and do not count against quality.
type Runner struct {
	Solver  bond.YieldSolver
	Curve   curve.Curve
	Workers int
	Log     *logrus.Logger
}

// NewRunner builds a Runner from file-level configuration: the solve
// tolerances and the fan-out width both come from cfg.
func NewRunner(cfg config.Config, conv bond.Convention, crv curve.Curve, log *logrus.Logger) Runner {
	return Runner{
		Solver:  bond.YieldSolver{Convention: conv, Config: cfg.SolverConfig()},
		Curve:   crv,
		Workers: cfg.Workers,
		Log:     log,
	}
}

// Run analyzes the securities concurrently and returns results in input
// order. Cancelling the context stops unstarted work; securities never
// analyzed report zero quality.
func (r Runner) Run(ctx context.Context, secs []Security) []Result {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runID := uuid.NewString()
	log.WithFields(logrus.Fields{
		"run_id":     runID,
		"securities": len(secs),
		"workers":    workers,
	}).Info("batch run started")

	results := make([]Result, len(secs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.analyze(secs[i])

				entry := log.WithFields(logrus.Fields{
					"run_id":  runID,
					"id":      secs[i].ID,
					"quality": results[i].Quality,
				})
				if len(results[i].Errors) > 0 {
					entry.WithField("failed_metrics", len(results[i].Errors)).Warn("partial result")
				} else {
					entry.Debug("security analyzed")
				}
			}
		}()
	}

	for i := range secs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{ID: secs[i].ID, Errors: []error{err}}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result{ID: secs[i].ID, Errors: []error{ctx.Err()}}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	log.WithField("run_id", runID).Info("batch run finished")
	return results
}

// analyze computes each metric independently; one failure degrades quality
// instead of aborting the security.
func (r Runner) analyze(sec Security) Result {
	res := Result{ID: sec.ID}
	attempted, solved := 0, 0

	attempted++
	if ytw, err := r.Solver.YieldToWorst(sec.Bond, sec.CleanPrice, sec.Accrued, sec.Settlement); err != nil {
		res.Errors = append(res.Errors, err)
	} else {
		res.YieldToWorst = &ytw
		solved++
	}

	attempted++
	if ytm, err := r.Solver.YieldToMaturity(sec.Bond, sec.CleanPrice, sec.Accrued, sec.Settlement); err != nil {
		res.Errors = append(res.Errors, err)
	} else {
		res.YieldToMaturity = &ytm
		solved++
	}

	if r.Curve != nil {
		dirty := sec.CleanPrice + sec.Accrued
		cfg := r.Solver.Config
		if cfg.MaxIterations == 0 {
			cfg = solver.DefaultConfig
		}

		attempted++
		if z, err := bond.ZSpread(sec.Bond.Cashflows, dirty, r.Curve, sec.Settlement, cfg); err != nil {
			res.Errors = append(res.Errors, err)
		} else {
			res.ZSpread = &z
			solved++
		}

		attempted++
		if asw, err := bond.ASWSpread(sec.Bond.Cashflows, dirty, r.Curve, sec.Settlement, sec.Bond.Frequency); err != nil {
			res.Errors = append(res.Errors, err)
		} else {
			res.ASWSpread = &asw
			solved++
		}
	}

	res.Quality = float64(solved) / float64(attempted)
	return res
}
