package verify

import (
	"fmt"
	"strconv"
)

// MismatchError reports the first index in a chunk whose round trip failed
// to reproduce the original value. It is the condition the whole engine
// exists to detect: never retried, fatal to the run.
type MismatchError struct {
	Index        int64
	Serialized   float64
	Deserialized float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("precision mismatch at index %d: serialized=%s deserialized=%s",
		e.Index,
		strconv.FormatFloat(e.Serialized, 'g', -1, 64),
		strconv.FormatFloat(e.Deserialized, 'g', -1, 64))
}

// WorkerFaultError reports a verifier that terminated abnormally without
// producing a terminal outcome. Distinct from a MismatchError: this is the
// engine breaking, not the platform under test.
type WorkerFaultError struct {
	WorkerID int
	Cause    any
}

func (e *WorkerFaultError) Error() string {
	return fmt.Sprintf("worker %d fault: %v", e.WorkerID, e.Cause)
}

// Outcome is a worker's terminal result: Err nil means the chunk was fully
// verified. Produced exactly once per chunk and never mutated afterwards.
type Outcome struct {
	WorkerID int
	Chunk    Chunk
	Checked  int64
	Err      error
}

// Completed reports whether the chunk was exhausted without a mismatch.
func (o Outcome) Completed() bool {
	return o.Err == nil
}
