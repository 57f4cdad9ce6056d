// Package simulation runs the parallel Monte Carlo search for the purchase
// order that maximizes income per second over a fixed horizon.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/CaioPinho9/space-planner/internal/catalog"
	"github.com/CaioPinho9/space-planner/internal/store"
	"github.com/CaioPinho9/space-planner/pkg/constants"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrConfiguration reports an invalid start request. The engine stays stopped.
var ErrConfiguration = errors.New("invalid simulation configuration")

// Store is the persistence collaborator for the canonical catalog.
type Store interface {
	Load() (store.State, error)
	Save(state store.State) error
}

// Settings are the engine-wide defaults.
type Settings struct {
	TimeSteps     int
	Concurrency   int
	StartIncome   *float64
	MinimumIncome float64
	Policy        Policy
	// Seed makes worker randomness reproducible when non-zero.
	Seed uint64
}

// StartRequest carries the per-start overrides of the control surface.
type StartRequest struct {
	StartIncome *float64 `json:"startIncome,omitempty"`
	TimeSteps   int      `json:"timeSteps,omitempty"`
}

// Status is the read-only view polled by presentation layers.
type Status struct {
	Session              string  `json:"session"`
	Running              bool    `json:"running"`
	BestIncome           float64 `json:"bestIncome"`
	BestIndex            int64   `json:"bestIndex"`
	BestLog              []Event `json:"bestLog"`
	SimulationCount      int64   `json:"simulationCount"`
	AverageIncome        float64 `json:"averageIncome"`
	ElapsedTime          float64 `json:"elapsedTime"`
	SimulationsPerSecond float64 `json:"simulationsPerSecond"`
	CurrentIncome        float64 `json:"currentIncome"`
	Workers              []int64 `json:"workers"`
	TimeSteps            int     `json:"timeSteps"`
}

// Engine owns the canonical catalog, the worker lifecycle and the shared
// result registry.
type Engine struct {
	logger   *zap.Logger
	store    Store
	settings Settings
	state    *SharedState

	catalogMu   sync.RWMutex
	catalog     *catalog.Catalog
	savedIncome float64

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	group     *errgroup.Group
	session   uuid.UUID
	opts      RunOptions
	stoppedAt time.Time
}

// NewEngine creates a stopped engine around the canonical catalog and applies
// any saved state found in st. A corrupt save is logged and ignored.
func NewEngine(logger *zap.Logger, cat *catalog.Catalog, st Store, settings Settings) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		return nil, fmt.Errorf("engine requires a catalog")
	}
	if settings.TimeSteps <= 0 {
		settings.TimeSteps = constants.DefaultTimeSteps
	}
	if settings.Concurrency <= 0 {
		settings.Concurrency = runtime.NumCPU()
	}
	if settings.MinimumIncome <= 0 {
		settings.MinimumIncome = constants.DefaultMinimumIncome
	}
	if settings.Policy == "" {
		settings.Policy = PolicyFull
	}

	e := &Engine{
		logger:   logger,
		store:    st,
		settings: settings,
		catalog:  cat,
		state:    NewSharedState(settings.Concurrency),
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load() error {
	if e.store == nil {
		return nil
	}
	saved, err := e.store.Load()
	var unknown []string
	if err == nil {
		// Quantities the catalog cannot hold make the save as unusable as
		// undecodable bytes.
		if unknown, err = e.catalog.Apply(saved.Quantities); err != nil {
			err = fmt.Errorf("%w: %v", store.ErrCorruptState, err)
		}
	}
	if errors.Is(err, store.ErrCorruptState) {
		e.logger.Warn("ignoring corrupt saved state",
			zap.String("op", "simulation.load"),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		return err
	}

	for _, name := range unknown {
		e.logger.Warn("saved state references an unknown item",
			zap.String("op", "simulation.load"),
			zap.String("item", name),
		)
	}
	e.savedIncome = saved.StartIncome
	e.logger.Info("loaded saved state",
		zap.String("op", "simulation.load"),
		zap.Int("items", len(saved.Quantities)),
		zap.Float64("startIncome", saved.StartIncome),
	)
	return nil
}

// Running reports whether workers are active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start spawns the workers. It returns false without error if the engine is
// already running, and an ErrConfiguration error for invalid overrides.
func (e *Engine) Start(req StartRequest) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return false, nil
	}

	opts, err := e.runOptions(req)
	if err != nil {
		return false, err
	}

	workers := e.settings.Concurrency
	e.state.beginSession(workers, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	session := uuid.New()

	for id := 0; id < workers; id++ {
		w := e.newWorker(id)
		group.Go(func() error {
			return w.loop(ctx, opts)
		})
	}

	e.running = true
	e.cancel = cancel
	e.group = group
	e.session = session
	e.opts = opts

	e.logger.Info("simulation started",
		zap.String("op", "simulation.Start"),
		zap.String("session", session.String()),
		zap.Int("workers", workers),
		zap.Int("timeSteps", opts.TimeSteps),
		zap.Float64("startIncome", opts.StartIncome),
		zap.String("policy", string(opts.Policy)),
	)
	return true, nil
}

func (e *Engine) runOptions(req StartRequest) (RunOptions, error) {
	opts := RunOptions{
		TimeSteps:     e.settings.TimeSteps,
		MinimumIncome: e.settings.MinimumIncome,
		Policy:        e.settings.Policy,
	}
	if req.TimeSteps < 0 {
		return opts, fmt.Errorf("%w: timeSteps must be positive, got %d", ErrConfiguration, req.TimeSteps)
	}
	if req.TimeSteps > 0 {
		opts.TimeSteps = req.TimeSteps
	}

	startIncome := req.StartIncome
	if startIncome == nil {
		startIncome = e.settings.StartIncome
	}
	switch {
	case startIncome != nil:
		v := *startIncome
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return opts, fmt.Errorf("%w: startIncome must be a non-negative number, got %v", ErrConfiguration, v)
		}
		opts.StartIncome = v
	case e.savedIncome > 0:
		opts.StartIncome = e.savedIncome
	}

	if opts.Policy != PolicyFull && opts.Policy != PolicyPrune {
		return opts, fmt.Errorf("%w: unknown weight policy %q", ErrConfiguration, opts.Policy)
	}
	return opts, nil
}

// Stop cancels all workers and waits for them to exit. In-flight runs are
// discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.cancel()
	if err := e.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Error("worker exited with error",
			zap.String("op", "simulation.Stop"),
			zap.Error(err),
		)
	}
	e.running = false
	e.stoppedAt = time.Now()

	e.logger.Info("simulation stopped",
		zap.String("op", "simulation.Stop"),
		zap.String("session", e.session.String()),
		zap.Float64("bestIncome", e.state.BestIncome()),
		zap.Int64("bestIndex", e.state.BestIndex()),
	)
}

// Reset clears the result registry. It refuses to run while workers are
// active.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return false
	}
	now := time.Now()
	e.state.reset(e.settings.Concurrency, now)
	e.stoppedAt = now
	return true
}

// Save persists the canonical catalog quantities and the income they yield.
func (e *Engine) Save() error {
	if e.store == nil {
		return fmt.Errorf("no persistence store configured")
	}
	e.catalogMu.RLock()
	state := store.State{
		Quantities:  e.catalog.Quantities(),
		StartIncome: e.catalog.Income(),
	}
	e.catalogMu.RUnlock()

	if err := e.store.Save(state); err != nil {
		return err
	}
	e.logger.Info("saved catalog state",
		zap.String("op", "simulation.Save"),
		zap.Float64("startIncome", state.StartIncome),
	)
	return nil
}

// Buy buys one unit of an item in the canonical catalog. It reports false if
// the item is not buyable and returns an error for unknown items. Runs already
// in flight keep working on their own copies.
func (e *Engine) Buy(name string) (bool, error) {
	e.catalogMu.Lock()
	defer e.catalogMu.Unlock()

	if _, err := e.catalog.Buy(name); err != nil {
		if errors.Is(err, catalog.ErrInvalidOperation) {
			return false, nil
		}
		return false, err
	}
	// The saved income described the catalog before this purchase.
	e.savedIncome = 0
	e.logger.Info("bought item",
		zap.String("op", "simulation.Buy"),
		zap.String("item", name),
	)
	return true, nil
}

// Buyable lists the canonical items that can be bought now.
func (e *Engine) Buyable() []catalog.Listing {
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()
	return e.catalog.Buyable()
}

// Status reports the registry and throughput counters.
func (e *Engine) Status() Status {
	e.mu.Lock()
	running := e.running
	session := e.session
	timeSteps := e.opts.TimeSteps
	stoppedAt := e.stoppedAt
	e.mu.Unlock()

	snap, err := e.state.Snapshot()
	if err != nil {
		e.logger.Warn("failed to read best log",
			zap.String("op", "simulation.Status"),
			zap.Error(err),
		)
	}

	end := time.Now()
	if !running && !stoppedAt.IsZero() {
		end = stoppedAt
	}
	elapsed := 0.0
	if session != uuid.Nil {
		elapsed = math.Max(0, end.Sub(snap.StartedAt).Seconds())
	}

	status := Status{
		Running:         running,
		BestIncome:      snap.BestIncome,
		BestIndex:       snap.BestIndex,
		BestLog:         snap.BestLog,
		SimulationCount: snap.Simulations,
		ElapsedTime:     elapsed,
		Workers:         snap.PerWorker,
		TimeSteps:       timeSteps,
	}
	if session != uuid.Nil {
		status.Session = session.String()
	}
	if snap.Simulations > 0 {
		status.AverageIncome = snap.IncomeSum / float64(snap.Simulations)
	}
	if elapsed > 0 {
		status.SimulationsPerSecond = float64(snap.Simulations) / elapsed
	}

	e.catalogMu.RLock()
	status.CurrentIncome = e.catalog.Income()
	e.catalogMu.RUnlock()
	return status
}

// template returns a private copy of the canonical catalog for one run.
func (e *Engine) template() *catalog.Catalog {
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()
	return e.catalog.Clone()
}

type worker struct {
	id     int
	engine *Engine
	rng    *rand.Rand
	logger *zap.Logger
}

func (e *Engine) newWorker(id int) *worker {
	seed := e.settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &worker{
		id:     id,
		engine: e,
		rng:    rand.New(rand.NewPCG(seed, uint64(id))),
		logger: e.logger.With(zap.Int("worker", id)),
	}
}

// loop runs simulations back to back until ctx is cancelled. Failed runs are
// discarded and never end the loop.
func (w *worker) loop(ctx context.Context, opts RunOptions) error {
	state := w.engine.state
	for {
		if ctx.Err() != nil {
			return nil
		}

		index := state.NextIndex()
		result, err := Simulate(ctx, w.engine.template(), opts, w.rng)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Debug("discarded run",
				zap.String("op", "simulation.worker"),
				zap.Int64("index", index),
				zap.Error(err),
			)
			continue
		}
		result.Index = index

		recorded, err := state.Offer(result.Income, index, result.Log)
		if err != nil {
			w.logger.Warn("failed to record best run",
				zap.String("op", "simulation.worker"),
				zap.Int64("index", index),
				zap.Error(err),
			)
		}
		if recorded {
			w.logger.Info("new best run",
				zap.String("op", "simulation.worker"),
				zap.Int64("index", index),
				zap.Float64("income", result.Income),
				zap.Int("purchases", len(result.Log)),
			)
		}
		state.Record(w.id, result.Income)
	}
}
