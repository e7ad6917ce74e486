// Package telemetry names the catalog's structured log events and wraps a
// *zap.Logger with helpers for timing them, adapted from the teacher's
// hierarchical annotation-event naming (datalog/annotations/types.go) —
// emitted through structured logging here instead of a metrics collector.
package telemetry

import (
	"time"

	"go.uber.org/zap"
)

// Event name constants, grouped by the stage of the catalog they describe.
const (
	CatalogStart      = "catalog/start"
	CatalogStashed     = "catalog/stashed"
	CatalogReplayed    = "catalog/replayed"
	CatalogMerge       = "catalog/merge"
	CatalogErase       = "catalog/erase"
	CatalogReplace     = "catalog/replace"

	LookupBegin      = "lookup/begin"
	LookupSchema     = "lookup/schema"
	LookupComplete   = "lookup/complete"

	TaxonomyExpand   = "taxonomy/expand"
	PrunerCollapse   = "pruner/collapse"

	StreamingStart    = "streaming/start"
	StreamingBatch    = "streaming/batch"
	StreamingComplete = "streaming/complete"

	ErrorInvalidArgument = "error/invalid-argument"
	ErrorUnsupportedVersion = "error/unsupported-version"
)

// Logger wraps zap with a Timed helper for the catalog's hot paths.
type Logger struct {
	z *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Event logs a named occurrence with structured fields.
func (l *Logger) Event(name string, fields ...zap.Field) {
	l.z.Debug(name, fields...)
}

// Timed runs fn and logs name with a "latency" duration field appended to fields.
func (l *Logger) Timed(name string, fields []zap.Field, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	l.z.Debug(name, append(fields, zap.Duration("latency", elapsed))...)
}
