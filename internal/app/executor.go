package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/foodgram/internal/platform/logging"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
)

// Recipe writes run as validate, perform, verify, respond. Nothing is
// written before validation passes; verify reloads the aggregate from the
// store and compares it with the input before the caller sees it.

// Step names one phase of an aggregate write.
type Step string

const (
	StepValidate Step = "validate"
	StepPerform  Step = "perform"
	StepVerify   Step = "verify"
	StepRespond  Step = "respond"
)

// StepError records which phase of which write failed. It unwraps to the
// cause so domain errors keep their HTTP mapping.
type StepError struct {
	Op   string
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the phase err came from, if it came from Execute.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}

	return "", false
}

// Executor carries the fallback logger for operations run outside a
// request.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor returns an executor logging to logger, or slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation is one aggregate write. Nil phases are skipped and pass the
// zero value on.
type Operation[I, P, V, O any] struct {
	Name     string
	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// failureLevel is how loudly a failed phase is logged. Rejected input is
// routine; a verify mismatch means the store disagrees with what was written.
var failureLevel = map[Step]slog.Level{
	StepValidate: slog.LevelDebug,
	StepPerform:  slog.LevelWarn,
	StepVerify:   slog.LevelError,
	StepRespond:  slog.LevelWarn,
}

// Execute runs op on input inside its own span.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	ctx, span := telemetry.StartSpan(ctx, "app."+op.Name)
	defer span.End()

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	var zero O

	fail := func(step Step, err error) (O, error) {
		logger.Log(ctx, failureLevel[step], "write failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(step))

		return zero, &StepError{Op: op.Name, Step: step, Err: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	var (
		performed P
		verified  V
		out       O
		err       error
	)

	if op.Perform != nil {
		if performed, err = op.Perform(ctx, input); err != nil {
			return fail(StepPerform, err)
		}
	}

	if op.Verify != nil {
		if verified, err = op.Verify(ctx, input, performed); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Respond != nil {
		if out, err = op.Respond(ctx, input, verified); err != nil {
			return fail(StepRespond, err)
		}
	}

	logger.InfoContext(ctx, "write completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}
