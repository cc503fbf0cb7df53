package verify

import (
	"context"

	"decprobe/internal/codec"
)

// DefaultBatchSize is how many consecutive successful checks a worker
// accumulates before flushing its progress slot.
const DefaultBatchSize = 10_000_000

// cancelStride is how often (in indexes) a worker polls its context so a
// sibling failure can stop it without waiting out a whole batch.
const cancelStride = 1 << 16

// Checker verifies one index. A nil return means the round trip was
// lossless; a *MismatchError carries the diverging values.
type Checker interface {
	Check(index int64) error
}

// CodecChecker is the production Checker: reconstruct the value, serialize
// through canonical text, transcode through JSON, compare both ways.
type CodecChecker struct {
	DecimalPlaces int
}

// Check runs the full round trip for a single index.
func (c CodecChecker) Check(index int64) error {
	original := codec.ValueAt(index, c.DecimalPlaces)
	_, serialized, err := codec.Serialize(original, c.DecimalPlaces)
	if err != nil {
		return err
	}
	deserialized, err := codec.Transcode(serialized)
	if err != nil {
		return err
	}
	if !codec.Equivalent(original, serialized, deserialized, c.DecimalPlaces) {
		return &MismatchError{
			Index:        index,
			Serialized:   serialized,
			Deserialized: deserialized,
		}
	}
	return nil
}

// ChunkVerifier sweeps one chunk of the index space in ascending order,
// fail-fast on the first mismatch, flushing batched progress into its own
// board slot as it goes.
type ChunkVerifier struct {
	workerID  int
	chunk     Chunk
	checker   Checker
	board     *Board
	batchSize int64
}

// NewChunkVerifier binds a worker to its chunk and board slot.
func NewChunkVerifier(workerID int, chunk Chunk, checker Checker, board *Board, batchSize int64) *ChunkVerifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ChunkVerifier{
		workerID:  workerID,
		chunk:     chunk,
		checker:   checker,
		board:     board,
		batchSize: batchSize,
	}
}

// Run verifies every index in [chunk.Start, chunk.End). It returns a
// terminal Outcome: completed, first mismatch, or the context error when a
// sibling failure cancelled the run.
func (v *ChunkVerifier) Run(ctx context.Context) Outcome {
	total := v.chunk.Len()
	var done, batch int64

	for index := v.chunk.Start; index < v.chunk.End; index++ {
		if index%cancelStride == 0 && ctx.Err() != nil {
			return Outcome{WorkerID: v.workerID, Chunk: v.chunk, Checked: done, Err: ctx.Err()}
		}

		if err := v.checker.Check(index); err != nil {
			return Outcome{WorkerID: v.workerID, Chunk: v.chunk, Checked: done, Err: err}
		}

		done++
		batch++
		if batch == v.batchSize {
			v.flush(done, total)
			batch = 0
		}
	}

	// final flush covers the partial batch (and empty chunks, which are
	// complete by definition)
	v.flush(total, total)
	return Outcome{WorkerID: v.workerID, Chunk: v.chunk, Checked: done}
}

func (v *ChunkVerifier) flush(done, total int64) {
	if v.board == nil {
		return
	}
	if total == 0 {
		v.board.Set(v.workerID, FractionScale)
		return
	}
	// done*FractionScale can overflow int64 for full-range chunks, so the
	// fraction is computed in float space; the slot is observability only
	v.board.Set(v.workerID, int64(float64(done)/float64(total)*FractionScale))
}
