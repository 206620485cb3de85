package auth

import (
	"context"
	"log/slog"
	"sync"
)

// HashPool runs CPU-bound hashing jobs on a fixed set of worker goroutines so that
// bcrypt work never runs on request goroutines without bound.
type HashPool struct {
	// jobs carries work from Run to the workers
	jobs chan func()

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx context.Context

	// cancel is the function to call to cancel the context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once

	logger *slog.Logger
}

// HashPoolConfig holds configuration options for the hashing pool
type HashPoolConfig struct {
	// WorkerCount determines how many hashes may run at once.
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultHashPoolConfig returns a HashPoolConfig with reasonable defaults
func DefaultHashPoolConfig() HashPoolConfig {
	return HashPoolConfig{
		WorkerCount: 4,
	}
}

// NewHashPool creates a new hashing pool. Call Start before submitting work.
func NewHashPool(config HashPoolConfig, logger *slog.Logger) *HashPool {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "hash_pool"))

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &HashPool{
		jobs:        make(chan func()),
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the worker goroutines. Calling it more than once has no effect.
func (p *HashPool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
		p.logger.Debug("hash pool started", "worker_count", p.workerCount)
	})
}

// Stop signals the workers to exit and waits for in-progress jobs to finish.
func (p *HashPool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.logger.Debug("hash pool stopped")
	})
}

// Run executes fn on a worker and waits for it to finish.
// It returns ctx.Err() if ctx ends before a worker picks the job up or before it
// completes, and ErrPoolStopped after Stop. A job that already started always runs
// to completion; its result is then discarded.
func (p *HashPool) Run(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	job := func() {
		defer close(done)
		fn()
	}

	select {
	case p.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *HashPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			p.runJob(id, job)
		}
	}
}

func (p *HashPool) runJob(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("hash job panicked", "worker_id", id, "panic", r)
		}
	}()
	job()
}
