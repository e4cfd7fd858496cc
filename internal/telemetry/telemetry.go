// Package telemetry wraps zerolog for the engine's structured,
// observation-only logging. Logging never influences engine control
// flow; this package exists so the CLI and engine share one logger
// construction idiom.
package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// New builds a base logger writing human-readable output to w (stderr
// in production, a buffer in tests).
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger stored by WithLogger, falling back
// to a disabled logger (zerolog.Nop) when none was attached — tests and
// library callers that don't care about logs never need to thread one
// through.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// LoadSummary logs the grid's dimensions and pending-set size right
// after the loader finishes building the graph.
func LoadSummary(ctx context.Context, rows, cols uint32, pending int) {
	FromContext(ctx).Debug().
		Uint32("rows", rows).
		Uint32("cols", cols).
		Int("pending", pending).
		Msg("grid loaded")
}

// QuarantineRound logs one round of cycle quarantine: the coordinate
// that triggered the topological-sort failure and how many cells its
// connected component faulted.
func QuarantineRound(ctx context.Context, trigger string, faulted int) {
	FromContext(ctx).Debug().
		Str("trigger", trigger).
		Int("faulted", faulted).
		Msg("cycle quarantined")
}

// EvaluationComplete logs the size of the evaluation order computed by
// the bulk evaluator.
func EvaluationComplete(ctx context.Context, evaluated int) {
	FromContext(ctx).Info().
		Int("evaluated", evaluated).
		Msg("bulk evaluation complete")
}

// EditApplied logs the size of the changelog produced by one edit.
func EditApplied(ctx context.Context, row, col uint32, changed int) {
	FromContext(ctx).Info().
		Uint32("row", row).
		Uint32("col", col).
		Int("changed", changed).
		Msg("edit applied")
}

// RejectedEdit logs an edit-stream line that failed the edit-line
// grammar and was dropped before reaching the core.
func RejectedEdit(ctx context.Context, line string) {
	FromContext(ctx).Warn().
		Str("line", line).
		Msg("rejected malformed edit line")
}
