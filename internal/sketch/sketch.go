// Package sketch implements the one-sided probabilistic membership/range
// oracle described in §3.5: Lookup(op, value) answers "definitely absent"
// or "maybe present, keep as a candidate" — it must never produce a false
// negative.
package sketch

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// Answer is a Sketch's one-sided verdict.
type Answer uint8

const (
	// Unknown means the sketch cannot answer; the caller must keep the
	// partition as a candidate.
	Unknown Answer = iota
	// MaybePresent means the value may be present.
	MaybePresent
	// DefinitelyAbsent means the value is definitely absent — the only
	// verdict that lets a caller drop the partition.
	DefinitelyAbsent
)

// Sketch is a total function over (op, data); it never errors, per §4.1's
// "Sketch lookup errors are not representable; sketches are total
// functions by contract."
type Sketch interface {
	Lookup(op expr.RelOp, d evtype.Data) Answer
}
