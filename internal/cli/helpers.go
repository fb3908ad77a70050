package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
)

// errInterrupted is what an InterruptibleReader returns once its done
// channel closes. handleExecutionError treats it as a clean exit.
var errInterrupted = errors.New("interrupted")

// SignalContext is a cancellable context that remembers which OS signal,
// if any, triggered the cancellation.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	sig    atomic.Value
}

// NewSignalContext returns a context cancelled by SIGINT or SIGTERM. Unlike
// signal.NotifyContext it exposes the received signal through Signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case s := <-ch:
			sc.sig.Store(s)
			cancel()
		case <-ctx.Done():
		}
	}()

	return sc
}

// Signal reports the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	s, _ := sc.sig.Load().(os.Signal)
	return s
}

// createLogger configures the application logger.
// Debug mode forces the debug level; otherwise the configured level is
// parsed, and an empty level yields a no-op logger so interactive commands
// stay quiet. Output goes to Stderr to keep Stdout clean for conversation.
func createLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if level == "" {
		return logging.NewNop()
	}
	return logging.New(logging.ParseLevel(level))
}

// printSystemMessage prints a ">>>" prefixed status line to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Println(">>> " + fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			logger.Debug("Decision", "round", e.Round, "tool_calls", e.ToolCalls, "final", e.Final)
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.Debug("Tool Call", "tool_name", e.ToolName, "call_id", e.CallID)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			if e.IsError {
				logger.Debug("Tool Return (Error)", "tool_name", e.ToolName, "kind", e.ErrorKind)
			} else {
				logger.Debug("Tool Return (Success)", "tool_name", e.ToolName, "duration", e.Duration)
			}
		},
		OnRoundEnd: func(ctx context.Context, e *domain.RoundEvent) {
			logger.Debug("Round End", "round", e.Round, "executed", e.Executed)
		},
	}
}

// InterruptibleReader wraps a blocking reader, typically os.Stdin, and fails
// fast once done closes. The underlying Read cannot be unblocked, so a
// cancellation that lands mid-read surfaces on the next call.
type InterruptibleReader struct {
	r    io.Reader
	done <-chan struct{}
}

func NewInterruptibleReader(r io.Reader, done <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{r: r, done: done}
}

func (ir *InterruptibleReader) Read(p []byte) (int, error) {
	if err := ir.interrupted(); err != nil {
		return 0, err
	}
	n, err := ir.r.Read(p)
	if ierr := ir.interrupted(); ierr != nil {
		return 0, ierr
	}
	return n, err
}

func (ir *InterruptibleReader) interrupted() error {
	select {
	case <-ir.done:
		return errInterrupted
	default:
		return nil
	}
}

func isInterrupted(err error) bool {
	return err != nil &&
		(errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF))
}

// handleExecutionError maps user interruption and closed stdin to a clean
// exit so ^C and piped input do not report failure.
func handleExecutionError(err error) error {
	if isInterrupted(err) {
		return nil
	}
	return err
}
