package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskbridge/internal/commands"
	"taskbridge/internal/exitcode"
	"taskbridge/internal/metrics"
	"taskbridge/internal/result"
)

// unknownCommand labels metrics for names missing from the registry.
const unknownCommand = "unknown"

// Dispatcher routes a named call to its command and records the outcome.
// It is safe for concurrent use.
type Dispatcher struct {
	registry *commands.Registry
	env      *commands.Env
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher over registry. m and log may be nil.
func NewDispatcher(registry *commands.Registry, env *commands.Env, m *metrics.Metrics, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		env:      env,
		metrics:  m,
		log:      log,
	}
}

// Registry returns the registry the dispatcher routes through.
func (d *Dispatcher) Registry() *commands.Registry { return d.registry }

// Dispatch runs the command called name with args.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args commands.Args) result.Result[any] {
	callID := uuid.NewString()
	log := d.log.With(zap.String("call_id", callID), zap.String("command", name))

	cmd, ok := d.registry.Find(name)
	if !ok {
		log.Warn("unknown command")
		res := result.Err[any](result.Internal, "Unknown command: "+name, true)
		d.metrics.CommandCall(unknownCommand, Outcome(res.Failure()))
		return res
	}

	start := time.Now()
	res := cmd.Run(ctx, d.env, args)
	outcome := Outcome(res.Failure())
	d.metrics.CommandCall(name, outcome)

	if f := res.Failure(); f != nil {
		log.Info("command failed",
			zap.String("outcome", outcome),
			zap.Stringer("kind", f.Kind),
			zap.String("error", f.Message),
			zap.Duration("elapsed", time.Since(start)))
	} else {
		log.Debug("command succeeded", zap.Duration("elapsed", time.Since(start)))
	}
	return res
}

// Outcome labels a failure for metrics and logs: "ok", "retriable" or "terminal".
func Outcome(f *result.Failure) string {
	switch {
	case f == nil:
		return "ok"
	case f.CanTryAnotherApproach:
		return "retriable"
	default:
		return "terminal"
	}
}

// ExitCode maps a result to the process exit code.
func ExitCode(res result.Result[any]) int {
	f := res.Failure()
	switch {
	case f == nil:
		return exitcode.Success
	case f.CanTryAnotherApproach:
		return exitcode.Retriable
	default:
		return exitcode.Terminal
	}
}
