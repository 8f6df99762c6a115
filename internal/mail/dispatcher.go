package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/allisson/bizdata/internal/errors"
)

var (
	// ErrQueueFull is returned when the pending mail queue is at capacity.
	ErrQueueFull = apperrors.Wrap(apperrors.ErrUnavailable, "mail queue is full")

	// ErrDispatcherClosed is returned for messages enqueued after Shutdown.
	ErrDispatcherClosed = apperrors.Wrap(apperrors.ErrUnavailable, "mail dispatcher is shut down")
)

// DispatcherConfig sizes the worker pool.
type DispatcherConfig struct {
	Workers       int
	QueueSize     int
	MaxRetries    int
	RetryInterval time.Duration
	SendTimeout   time.Duration
}

// Dispatcher delivers queued messages with a fixed pool of workers.
// Enqueue never blocks: a full queue is reported to the caller.
type Dispatcher struct {
	config DispatcherConfig
	mailer Mailer
	logger *slog.Logger

	queue chan Message
	wg    sync.WaitGroup

	// mu guards closed and the close of queue against concurrent Enqueue.
	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info("starting mail dispatcher",
			slog.Int("workers", d.config.Workers),
			slog.Int("queue_size", d.config.QueueSize),
		)
		for i := 0; i < d.config.Workers; i++ {
			d.wg.Add(1)
			go d.work()
		}
	})
}

// Enqueue queues msg for delivery.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendOTP queues the login code email for email.
func (d *Dispatcher) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	return d.Enqueue(OTPMessage(email, code, expiresAt))
}

// Pending returns the number of queued messages.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Shutdown stops accepting messages and waits for the queue to drain. When
// ctx ends first, in-flight deliveries and retries are abandoned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		d.logger.Warn("mail dispatcher stopped before the queue drained")
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

// deliver sends msg, retrying failures up to MaxRetries times.
func (d *Dispatcher) deliver(msg Message) {
	for attempt := 0; ; attempt++ {
		err := d.sendOnce(msg)
		if err == nil {
			return
		}

		if attempt >= d.config.MaxRetries || d.ctx.Err() != nil {
			d.logger.Error("failed to deliver mail",
				slog.String("to", msg.To),
				slog.String("subject", msg.Subject),
				slog.Int("attempts", attempt+1),
				slog.Any("error", err),
			)
			return
		}

		d.logger.Warn("mail delivery failed, retrying",
			slog.String("to", msg.To),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)

		timer := time.NewTimer(d.config.RetryInterval)
		select {
		case <-timer.C:
		case <-d.ctx.Done():
			timer.Stop()
			d.logger.Error("mail delivery abandoned at shutdown", slog.String("to", msg.To))
			return
		}
	}
}

func (d *Dispatcher) sendOnce(msg Message) error {
	ctx := d.ctx
	if d.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.SendTimeout)
		defer cancel()
	}
	return d.mailer.Send(ctx, msg)
}

// NewDispatcher creates a Dispatcher. Call Start before enqueueing.
func NewDispatcher(config DispatcherConfig, mailer Mailer, logger *slog.Logger) *Dispatcher {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		config: config,
		mailer: mailer,
		logger: logger,
		queue:  make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}
