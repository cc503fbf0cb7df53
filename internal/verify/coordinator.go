// Package verify implements the partition-and-verify engine: deterministic
// range decomposition into per-worker chunks, the per-chunk round-trip
// verification loop, a lock-light shared progress board, and the
// coordinator that aggregates terminal outcomes into a single run result.
package verify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"decprobe/internal/codec"
)

// =============================================================================
// RUN STATE
// =============================================================================

// State tracks a coordinator through its lifecycle. Terminal states are
// final; a coordinator never restarts workers or retries chunks.
type State int

const (
	// StateIdle - constructed, Run not yet called
	StateIdle State = iota
	// StateRunning - workers are sweeping their chunks
	StateRunning
	// StateSucceeded - every worker completed its chunk without a mismatch
	StateSucceeded
	// StateFailed - a mismatch or worker fault ended the run
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// ErrAlreadyRan is returned when Run is called on a non-idle coordinator.
var ErrAlreadyRan = errors.New("coordinator already ran")

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds the run parameters. There is no process-wide state: every
// parameter travels through this value into the coordinator.
type Config struct {
	MaxInteger    int64         // exclusive upper bound on the integral part
	DecimalPlaces int           // fixed fractional digit count
	Workers       int           // parallel workers; 0 means GOMAXPROCS
	BatchSize     int64         // progress flush cadence; 0 means DefaultBatchSize
	TickInterval  time.Duration // aggregation cadence; 0 means 1s
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) tick() time.Duration {
	if c.TickInterval > 0 {
		return c.TickInterval
	}
	return time.Second
}

// Validate rejects parameter combinations that leave float64's
// exact-integer range before the sweep even starts.
func (c Config) Validate() error {
	if c.MaxInteger <= 0 {
		return fmt.Errorf("max integer must be positive, got %d", c.MaxInteger)
	}
	if c.DecimalPlaces < 0 {
		return fmt.Errorf("decimal places must be non-negative, got %d", c.DecimalPlaces)
	}
	safe := codec.SafeDigits(c.MaxInteger)
	if safe < 0 || c.DecimalPlaces > safe {
		return fmt.Errorf("max integer %d with %d decimal places exceeds the exact float64 range (at most %d digits)",
			c.MaxInteger, c.DecimalPlaces, safe)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch size must be non-negative, got %d", c.BatchSize)
	}
	return nil
}

// =============================================================================
// COORDINATOR
// =============================================================================

// ProgressFunc receives the overall completion fraction at every tick.
type ProgressFunc func(fraction float64)

// Report summarizes a finished run.
type Report struct {
	RunID    string
	Total    int64
	Workers  int
	Outcomes []Outcome
	State    State
	Duration time.Duration
}

// Coordinator owns one verification run end to end: partitioning, worker
// spawning, progress aggregation, and terminal-state bookkeeping.
type Coordinator struct {
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	checker    Checker
	onProgress ProgressFunc
}

// NewCoordinator builds an idle coordinator. A nil logger is replaced with
// a no-op one.
func NewCoordinator(cfg Config, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		cfg:    cfg,
		logger: logger,
		state:  StateIdle,
	}
}

// SetChecker replaces the production codec checker. Used by tests to inject
// forced failures.
func (c *Coordinator) SetChecker(checker Checker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checker = checker
}

// SetProgressFunc installs a per-tick progress callback.
func (c *Coordinator) SetProgressFunc(fn ProgressFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run executes the full verification sweep. It returns a Report in every
// case; err is non-nil exactly when the run failed, carrying the first
// mismatch, worker fault, or cancellation. On the first worker error the
// group context is cancelled so sibling workers stop cooperatively instead
// of running their chunks out.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrAlreadyRan
	}
	c.state = StateRunning
	checker := c.checker
	onProgress := c.onProgress
	c.mu.Unlock()

	if checker == nil {
		checker = CodecChecker{DecimalPlaces: c.cfg.DecimalPlaces}
	}

	runID := uuid.NewString()
	workers := c.cfg.workers()
	total := codec.TotalNumbers(c.cfg.MaxInteger, c.cfg.DecimalPlaces)
	chunks := Partition(total, workers)
	board := NewBoard(workers)
	outcomes := make([]Outcome, workers)
	started := time.Now()

	c.logger.Info("verification run starting",
		zap.String("run_id", runID),
		zap.Int64("max_integer", c.cfg.MaxInteger),
		zap.Int("decimal_places", c.cfg.DecimalPlaces),
		zap.Int64("total_numbers", total),
		zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		verifier := NewChunkVerifier(i, chunk, checker, board, c.cfg.BatchSize)
		workerID := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					fault := &WorkerFaultError{WorkerID: workerID, Cause: r}
					outcomes[workerID] = Outcome{WorkerID: workerID, Err: fault}
					err = fault
				}
			}()

			outcome := verifier.Run(gctx)
			outcomes[workerID] = outcome
			if outcome.Err != nil {
				return outcome.Err
			}
			c.logger.Debug("chunk completed",
				zap.String("run_id", runID),
				zap.Int("worker", workerID),
				zap.Int64("start", outcome.Chunk.Start),
				zap.Int64("end", outcome.Chunk.End))
			return nil
		})
	}

	// progress ticker lives outside the group: it must never block a
	// worker and must stop as soon as the run ends, success or not
	tickerDone := make(chan struct{})
	var tickerWG sync.WaitGroup
	tickerWG.Add(1)
	go func() {
		defer tickerWG.Done()
		ticker := time.NewTicker(c.cfg.tick())
		defer ticker.Stop()
		report := func() {
			fraction := board.Fraction()
			if onProgress != nil {
				onProgress(fraction)
			}
			c.logger.Debug("progress",
				zap.String("run_id", runID),
				zap.Float64("fraction", fraction))
		}
		for {
			select {
			case <-tickerDone:
				return
			case <-ticker.C:
				report()
			case <-board.Updates():
				// best-effort worker signal: report batch flushes as
				// they land instead of waiting out the tick
				report()
			}
		}
	}()

	runErr := g.Wait()
	close(tickerDone)
	tickerWG.Wait()

	final := StateSucceeded
	if runErr != nil {
		final = StateFailed
	} else if onProgress != nil {
		onProgress(1.0)
	}

	c.mu.Lock()
	c.state = final
	c.mu.Unlock()

	report := &Report{
		RunID:    runID,
		Total:    total,
		Workers:  workers,
		Outcomes: outcomes,
		State:    final,
		Duration: time.Since(started),
	}

	if runErr != nil {
		c.logger.Error("verification run failed",
			zap.String("run_id", runID),
			zap.Duration("duration", report.Duration),
			zap.Error(runErr))
		return report, runErr
	}

	c.logger.Info("verification run succeeded",
		zap.String("run_id", runID),
		zap.Int64("total_numbers", total),
		zap.Duration("duration", report.Duration))
	return report, nil
}
