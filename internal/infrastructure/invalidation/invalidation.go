// Package invalidation delivers "this path is stale" signals to whoever
// renders cached views.
//
// Every sink is fire-and-forget: a delivery error is logged and counted,
// never returned, and never turns a successful write into a failure.
package invalidation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
	"github.com/Haleralex/jobportal/internal/pkg/metrics"
)

// DefaultPublishTimeout bounds one delivery attempt.
const DefaultPublishTimeout = 2 * time.Second

// publishContext detaches delivery from the request so a client that already
// hung up does not cancel the signal.
func publishContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func report(ctx context.Context, log *slog.Logger, sink, path string, err error) {
	metrics.RecordInvalidation(sink, err)
	if err != nil {
		log.WarnContext(ctx, "Cache invalidation failed",
			slog.String("sink", sink),
			slog.String("path", path),
			logger.Err(err),
		)
		return
	}
	log.DebugContext(ctx, "Cache invalidated", slog.String("sink", sink), slog.String("path", path))
}

// ============================================
// Log sink
// ============================================

// Log only writes the signal to the log. Used when no broker is configured.
type Log struct {
	logger *slog.Logger
}

var _ ports.Invalidator = (*Log)(nil)

// NewLog creates a log-only sink.
func NewLog(log *slog.Logger) *Log {
	if log == nil {
		log = slog.Default()
	}
	return &Log{logger: log}
}

// Invalidate logs path.
func (l *Log) Invalidate(ctx context.Context, path string) {
	metrics.RecordInvalidation("log", nil)
	l.logger.InfoContext(ctx, "Path invalidated", slog.String("path", path))
}

// ============================================
// Fanout
// ============================================

// Fanout forwards each signal to every sink. Sinks run concurrently, so a
// signal takes as long as the slowest sink rather than the sum of them.
type Fanout []ports.Invalidator

var _ ports.Invalidator = Fanout(nil)

// Invalidate forwards path to every sink and waits for all of them.
func (f Fanout) Invalidate(ctx context.Context, path string) {
	if len(f) == 1 {
		f[0].Invalidate(ctx, path)
		return
	}

	var wg sync.WaitGroup
	for _, sink := range f {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					report(ctx, slog.Default(), "fanout", path, fmt.Errorf("sink panic: %v", r))
				}
			}()
			sink.Invalidate(ctx, path)
		}()
	}
	wg.Wait()
}

// ============================================
// Recorder
// ============================================

// Recorder keeps every signal in memory.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

var _ ports.Invalidator = (*Recorder)(nil)

// Invalidate records path.
func (r *Recorder) Invalidate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Paths returns the recorded paths in call order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
}
