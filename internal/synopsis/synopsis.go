// Package synopsis implements the per-partition synopsis described in
// §3.4/§3.5: a qualified-field sketch index plus schema-wide metadata, the
// unit the catalog prunes candidate partitions against. Construction is
// external to this package (a partition builder's concern, out of scope
// per §9) — synopsis only defines the shape and the immutable-after-insert
// contract.
package synopsis

import (
	"sort"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/sketch"
)

// QRF (qualified record field) identifies a leaf within a schema by dotted
// path — the stable sketch key and dotted-suffix match target of §3.4.
type QRF struct {
	SchemaName string
	FieldName  string
	Type       evtype.Type
}

// FieldSketch pairs a QRF with its sketch, or none — a nil Sketch is the
// §3.5 sentinel meaning "this field is known but has no dedicated sketch";
// lookup falls back to the field's normalized-type entry in TypeSketches.
type FieldSketch struct {
	Field  QRF
	Sketch sketch.Sketch // nil is the sentinel
}

// TypeSketch pairs a normalized type with its sketch, used by the
// type_synopses fallback path.
type TypeSketch struct {
	Type   evtype.Type // already normalized
	Sketch sketch.Sketch
}

// PartitionSynopsis is the immutable-after-insert unit the catalog indexes
// and prunes against (§3.5). TypeSketches keep insertion order;
// FieldSketches keep insertion order until Freeze, which sorts them by
// field name. The order has no semantic meaning of its own; the search
// pass in §4.1 scans it linearly.
type PartitionSynopsis struct {
	Schema         evtype.Type
	Events         uint64
	MinImportTime  evtype.Time
	MaxImportTime  evtype.Time
	Version        uint64
	FieldSketches  []FieldSketch
	TypeSketches   []TypeSketch
	frozen         bool
}

// New builds a synopsis ready for insertion into the catalog.
func New(schema evtype.Type, events uint64, minImport, maxImport evtype.Time, version uint64) *PartitionSynopsis {
	return &PartitionSynopsis{
		Schema:        schema,
		Events:        events,
		MinImportTime: minImport,
		MaxImportTime: maxImport,
		Version:       version,
	}
}

// AddFieldSketch registers a field-level sketch (or the no-sketch sentinel
// when sk is nil). Must only be called before Freeze.
func (s *PartitionSynopsis) AddFieldSketch(field QRF, sk sketch.Sketch) {
	s.FieldSketches = append(s.FieldSketches, FieldSketch{Field: field, Sketch: sk})
}

// AddTypeSketch registers a type-level fallback sketch keyed by a
// normalized type. Must only be called before Freeze.
func (s *PartitionSynopsis) AddTypeSketch(t evtype.Type, sk sketch.Sketch) {
	s.TypeSketches = append(s.TypeSketches, TypeSketch{Type: t.Normalized(), Sketch: sk})
}

// TypeSketchFor looks up the type_synopses fallback entry for a normalized
// leaf type, per §4.1's search-pass sentinel handling.
func (s *PartitionSynopsis) TypeSketchFor(normalized evtype.Type) (sketch.Sketch, bool) {
	for _, ts := range s.TypeSketches {
		if evtype.Congruent(ts.Type, normalized) {
			return ts.Sketch, true
		}
	}
	return nil, false
}

// Shrink compacts sketch memory ahead of Freeze; the one-sided lookup
// contract holds before and after (§3.5). Concrete sketch types in this
// module hold no additional build-time state to release, so Shrink is a
// structural no-op reserved for synopsis implementations that do (e.g. one
// built from a still-growing value buffer prior to finalizing its
// filters) — kept as an explicit lifecycle step so callers don't need to
// know which.
func (s *PartitionSynopsis) Shrink() {}

// Freeze marks the synopsis immutable; after Freeze, Add* must not be
// called again (§3.5: "a synopsis is immutable once inserted into the
// catalog").
func (s *PartitionSynopsis) Freeze() {
	s.frozen = true
	sort.SliceStable(s.FieldSketches, func(i, j int) bool {
		return s.FieldSketches[i].Field.FieldName < s.FieldSketches[j].Field.FieldName
	})
}

// Frozen reports whether Freeze has been called.
func (s *PartitionSynopsis) Frozen() bool { return s.frozen }
