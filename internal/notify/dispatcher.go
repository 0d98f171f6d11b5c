package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/aanand-mishra/alumni-api/internal/metrics"
)

// Dispatcher runs welcome-mail sends in the background with at most
// Workers sends in flight. Enqueue blocks only while every worker slot
// is busy.
type Dispatcher struct {
	sender  Sender
	sem     *semaphore.Weighted
	timeout time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// DispatcherConfig contains configuration for the Dispatcher.
type DispatcherConfig struct {
	// Workers is the maximum number of concurrent sends.
	Workers int

	// Timeout bounds a single send.
	Timeout time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewDispatcher creates a dispatcher delivering through sender.
func NewDispatcher(sender Sender, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		sender:  sender,
		sem:     semaphore.NewWeighted(int64(cfg.Workers)),
		timeout: cfg.Timeout,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue schedules a welcome mail for email. Delivery errors are logged
// and counted, never returned.
func (d *Dispatcher) Enqueue(email, name string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.drop(email)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	if err := d.sem.Acquire(d.ctx, 1); err != nil {
		d.wg.Done()
		d.drop(email)
		return
	}

	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)

		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, email, name); err != nil {
			d.log.Warn("welcome mail failed",
				slog.String("to", email),
				slog.String("error", err.Error()))
			d.metrics.ObserveNotification("failed")
			return
		}
		d.metrics.ObserveNotification("sent")
	}()
}

func (d *Dispatcher) drop(email string) {
	d.log.Warn("welcome mail dropped: dispatcher closed", slog.String("to", email))
	d.metrics.ObserveNotification("dropped")
}

// Wait blocks until every enqueued send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting work, waits up to ctx's deadline for in-flight
// sends, then cancels whatever is still running.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
