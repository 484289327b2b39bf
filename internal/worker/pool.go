package worker

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/notification"
	"github.com/pratik-mahalle/voltcast-alerts/internal/domain/rule"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/logger"
	"github.com/pratik-mahalle/voltcast-alerts/internal/pkg/metrics"
)

// Pool runs queued dispatches on a fixed set of goroutines
type Pool struct {
	dispatcher rule.Dispatcher
	queue      chan rule.Violation
	workers    int
	logger     *logger.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	// Metrics
	dispatched atomic.Uint64
	rejected   atomic.Uint64
	panicked   atomic.Uint64
}

// PoolConfig holds worker pool configuration
type PoolConfig struct {
	Dispatcher rule.Dispatcher
	Workers    int
	QueueSize  int
	Logger     *logger.Logger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	return &Pool{
		dispatcher: cfg.Dispatcher,
		queue:      make(chan rule.Violation, cfg.QueueSize),
		workers:    cfg.Workers,
		logger:     cfg.Logger.WithComponent("dispatch_pool"),
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.logger.WithFields(map[string]interface{}{
		"workers":    p.workers,
		"queue_size": cap(p.queue),
	}).Info("Starting dispatch pool")

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit enqueues v without blocking. It returns false when the queue is
// full or the pool has been stopped.
func (p *Pool) Submit(v rule.Violation) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.rejected.Add(1)
		return false
	}

	select {
	case p.queue <- v:
		metrics.SetDispatchQueueDepth(float64(len(p.queue)))
		return true
	default:
		p.rejected.Add(1)
		return false
	}
}

// Stop closes the queue, lets the workers drain what is left and waits for them
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.logger.Info("Stopping dispatch pool")
	p.wg.Wait()
	metrics.SetDispatchQueueDepth(0)
	p.logger.Info("Dispatch pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("Dispatch worker started")
	defer log.Debug("Dispatch worker stopped")

	for v := range p.queue {
		metrics.SetDispatchQueueDepth(float64(len(p.queue)))
		p.dispatch(log, v)
	}
}

// dispatch runs one violation, so a panic only loses that item
func (p *Pool) dispatch(log *logger.Logger, v rule.Violation) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic":   r,
				"rule_id": v.Rule.ID,
				"stack":   string(debug.Stack()),
			}).Error("Dispatch panic recovered")
			p.panicked.Add(1)
			metrics.RecordDispatch(string(v.Rule.DeliveryChannel), notification.OutcomeFailed)
		}
	}()

	p.dispatcher.Dispatch(context.Background(), v.Rule, v.ActualValue)
	p.dispatched.Add(1)
}

// QueueDepth returns the number of violations waiting for a worker
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}

// Stats returns worker pool statistics
func (p *Pool) Stats() Stats {
	return Stats{
		Dispatched: p.dispatched.Load(),
		Rejected:   p.rejected.Load(),
		Panicked:   p.panicked.Load(),
		Queued:     len(p.queue),
	}
}

// Stats holds worker pool counters
type Stats struct {
	Dispatched uint64
	Rejected   uint64
	Panicked   uint64
	Queued     int
}
