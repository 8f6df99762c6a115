package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/bizdata/internal/errors"
)

// fakeMailer records deliveries and fails the first failures calls.
type fakeMailer struct {
	mu        sync.Mutex
	sent      []Message
	calls     int
	failures  int
	failAlways bool
	called    chan struct{}
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.called != nil {
		select {
		case f.called <- struct{}{}:
		default:
		}
	}
	if f.failAlways || f.calls <= f.failures {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) snapshot() (int, []Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, append([]Message(nil), f.sent...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_DeliversAll(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(DispatcherConfig{Workers: 4, QueueSize: 50}, mailer, discardLogger())
	d.Start()
	d.Start()

	for range 30 {
		require.NoError(t, d.Enqueue(Message{To: "a@example.com", Subject: "s", Body: "b"}))
	}

	require.NoError(t, d.Shutdown(context.Background()))

	calls, sent := mailer.snapshot()
	assert.Equal(t, 30, calls)
	assert.Len(t, sent, 30)
	assert.Zero(t, d.Pending())
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 2}, &fakeMailer{}, discardLogger())

	require.NoError(t, d.Enqueue(Message{To: "1@example.com"}))
	require.NoError(t, d.Enqueue(Message{To: "2@example.com"}))
	assert.Equal(t, 2, d.Pending())

	err := d.Enqueue(Message{To: "3@example.com"})
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_EnqueueAfterShutdown(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1}, &fakeMailer{}, discardLogger())
	d.Start()
	require.NoError(t, d.Shutdown(context.Background()))
	require.NoError(t, d.Shutdown(context.Background()))

	err := d.Enqueue(Message{To: "late@example.com"})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}

func TestDispatcher_Retries(t *testing.T) {
	mailer := &fakeMailer{failures: 2}
	d := NewDispatcher(DispatcherConfig{
		Workers:       1,
		QueueSize:     1,
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	}, mailer, discardLogger())
	d.Start()

	require.NoError(t, d.Enqueue(Message{To: "retry@example.com"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, sent := mailer.snapshot()
	assert.Equal(t, 3, calls)
	require.Len(t, sent, 1)
	assert.Equal(t, "retry@example.com", sent[0].To)
}

func TestDispatcher_GivesUp(t *testing.T) {
	mailer := &fakeMailer{failAlways: true}
	d := NewDispatcher(DispatcherConfig{
		Workers:       1,
		QueueSize:     1,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	}, mailer, discardLogger())
	d.Start()

	require.NoError(t, d.Enqueue(Message{To: "never@example.com"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, sent := mailer.snapshot()
	assert.Equal(t, 2, calls)
	assert.Empty(t, sent)
}

func TestDispatcher_ShutdownTimeoutAbandonsRetries(t *testing.T) {
	mailer := &fakeMailer{failAlways: true, called: make(chan struct{}, 1)}
	d := NewDispatcher(DispatcherConfig{
		Workers:       1,
		QueueSize:     1,
		MaxRetries:    5,
		RetryInterval: time.Hour,
	}, mailer, discardLogger())
	d.Start()

	require.NoError(t, d.Enqueue(Message{To: "slow@example.com"}))
	<-mailer.called

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	calls, _ := mailer.snapshot()
	assert.Equal(t, 1, calls)
}

func TestDispatcher_SendOTP(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1}, mailer, discardLogger())
	d.Start()

	expiresAt := time.Date(2026, 2, 8, 10, 30, 0, 0, time.UTC)
	require.NoError(t, d.SendOTP(context.Background(), "otp@example.com", "482913", expiresAt))
	require.NoError(t, d.Shutdown(context.Background()))

	_, sent := mailer.snapshot()
	require.Len(t, sent, 1)
	assert.Equal(t, "otp@example.com", sent[0].To)
	assert.Equal(t, otpSubject, sent[0].Subject)
	assert.Contains(t, sent[0].Body, "482913")
	assert.Contains(t, sent[0].Body, "Sun, 08 Feb 2026 10:30:00 UTC")
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{}, &fakeMailer{}, discardLogger())
	assert.Equal(t, 1, d.config.Workers)
	assert.Equal(t, 1, cap(d.queue))
	require.NoError(t, d.Shutdown(context.Background()))
}
