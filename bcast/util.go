package bcast

import (
	"context"
	"errors"
	"log/slog"
)

// LevelTrace is the log level of per-operation trace records.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a structured record at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

var (
	// ErrConfigFault is returned when the device rejects an instruction. The
	// network may be half configured afterwards and must be reset in full.
	ErrConfigFault = errors.New("broadcast configuration fault")

	// ErrInvariant is returned when the inputs of a build or reset break an
	// invariant that cannot be corrected locally.
	ErrInvariant = errors.New("broadcast network invariant violated")
)
