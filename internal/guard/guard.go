package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout is returned by Run when the wrapped operation does not
// complete within the guard's configured bound. Callers can detect it
// with errors.Is to distinguish timeouts from engine failures.
var ErrTimeout = errors.New("operation timed out")

// DefaultGrace is how long cleanup waits for a terminated helper
// process to exit before giving up.
const DefaultGrace = 2 * time.Second

// Config holds Guard construction parameters.
type Config struct {
	// Timeout is the wall-clock bound applied to each Run call.
	// Must be greater than zero.
	Timeout time.Duration

	// Grace is how long to wait for a terminated helper process to
	// exit during cleanup. Zero selects DefaultGrace.
	Grace time.Duration

	// Inspector enumerates and terminates helper processes. Nil
	// disables cleanup entirely (NopInspector).
	Inspector ProcessInspector

	// Logger receives timeout and cleanup diagnostics. Nil selects a
	// no-op logger.
	Logger *zap.Logger
}

// Guard bounds the wall-clock duration of a blocking call and attempts
// best-effort cleanup of orphaned helper processes when the bound is
// exceeded.
//
// The wrapped call is not cooperatively cancellable: on timeout the
// worker goroutine is abandoned, not stopped. It may finish later and
// complete its result into a discarded channel slot. "Cancellation"
// here means the caller stops waiting and any helper processes tracked
// by the inspector receive a terminate signal. That cleanup is
// advisory, never a guarantee.
//
// All per-call state lives inside Run, so a single Guard is safe for
// concurrent use from multiple goroutines.
type Guard struct {
	timeout   time.Duration
	grace     time.Duration
	inspector ProcessInspector
	log       *zap.Logger
}

// New creates a Guard from cfg. It returns an error if cfg.Timeout is
// not positive.
func New(cfg Config) (*Guard, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("guard: timeout must be positive, got %s", cfg.Timeout)
	}
	grace := cfg.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	inspector := cfg.Inspector
	if inspector == nil {
		inspector = NopInspector{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{
		timeout:   cfg.Timeout,
		grace:     grace,
		inspector: inspector,
		log:       log,
	}, nil
}

// Timeout returns the wall-clock bound applied to each Run call.
func (g *Guard) Timeout() time.Duration {
	return g.timeout
}

type outcome[T any] struct {
	value T
	err   error
}

// Run executes op on a worker goroutine and waits up to the guard's
// timeout for it to finish.
//
// On success within the bound, Run returns op's value and passes op's
// error through unmodified. When the bound is exceeded, Run terminates
// any helper processes the inspector tracked before dispatch, then
// returns an error wrapping ErrTimeout. Cancelling ctx behaves like a
// timeout but returns ctx.Err() instead.
//
// The PID snapshot taken before dispatch is a best-effort baseline: it
// may miss helpers spawned later, and a matching process may belong to
// an unrelated caller. Cleanup failures are swallowed.
func Run[T any](ctx context.Context, g *Guard, op func() (T, error)) (T, error) {
	tracked := g.inspector.Snapshot()

	// Buffered so the abandoned worker can still deliver its result
	// after a timeout without leaking the goroutine.
	done := make(chan outcome[T], 1)
	go func() {
		value, err := op()
		done <- outcome[T]{value: value, err: err}
	}()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C:
		g.cleanup(tracked)
		g.log.Warn("operation exceeded timeout, worker abandoned",
			zap.Duration("timeout", g.timeout),
			zap.Int("tracked_pids", len(tracked)))
		return zero, fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
	case <-ctx.Done():
		g.cleanup(tracked)
		return zero, ctx.Err()
	}
}

// cleanup sends terminate signals to the tracked helper PIDs. Failures
// are advisory and only surface at debug level.
func (g *Guard) cleanup(pids []int32) {
	for _, pid := range pids {
		if err := g.inspector.Terminate(pid, g.grace); err != nil {
			g.log.Debug("helper process cleanup skipped",
				zap.Int32("pid", pid),
				zap.Error(err))
		}
	}
}
