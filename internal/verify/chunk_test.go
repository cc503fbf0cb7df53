package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingChecker records every checked index and can force a mismatch at
// one injected index.
type countingChecker struct {
	checked []int64
	failAt  int64 // -1 disables injection
}

func (c *countingChecker) Check(index int64) error {
	c.checked = append(c.checked, index)
	if c.failAt >= 0 && index == c.failAt {
		return &MismatchError{Index: index, Serialized: 1.0, Deserialized: 2.0}
	}
	return nil
}

func TestChunkVerifier_CompletesChunk(t *testing.T) {
	checker := &countingChecker{failAt: -1}
	board := NewBoard(1)
	v := NewChunkVerifier(0, Chunk{Start: 10, End: 20}, checker, board, 3)

	outcome := v.Run(context.Background())

	require.True(t, outcome.Completed())
	assert.Equal(t, int64(10), outcome.Checked)
	assert.Equal(t, int64(FractionScale), board.Slot(0))

	// ascending order, every index exactly once
	require.Len(t, checker.checked, 10)
	for i, idx := range checker.checked {
		assert.Equal(t, int64(10+i), idx)
	}
}

func TestChunkVerifier_FailFast(t *testing.T) {
	checker := &countingChecker{failAt: 5000}
	v := NewChunkVerifier(0, Chunk{Start: 4000, End: 6000}, checker, NewBoard(1), 0)

	outcome := v.Run(context.Background())

	require.False(t, outcome.Completed())

	var mismatch *MismatchError
	require.True(t, errors.As(outcome.Err, &mismatch))
	assert.Equal(t, int64(5000), mismatch.Index)

	// no per-index work after the injected failure
	assert.Equal(t, int64(5000), checker.checked[len(checker.checked)-1])
	assert.Len(t, checker.checked, 1001)
}

func TestChunkVerifier_ProgressBatches(t *testing.T) {
	board := NewBoard(1)
	v := NewChunkVerifier(0, Chunk{Start: 0, End: 10}, &countingChecker{failAt: -1}, board, 4)

	outcome := v.Run(context.Background())

	require.True(t, outcome.Completed())
	// batches at 4 and 8 plus the final partial flush land on exactly 1.0
	assert.Equal(t, int64(FractionScale), board.Slot(0))
}

func TestChunkVerifier_EmptyChunk(t *testing.T) {
	board := NewBoard(1)
	checker := &countingChecker{failAt: -1}
	v := NewChunkVerifier(0, Chunk{Start: 5, End: 5}, checker, board, 0)

	outcome := v.Run(context.Background())

	require.True(t, outcome.Completed())
	assert.Empty(t, checker.checked)
	assert.Equal(t, int64(FractionScale), board.Slot(0))
}

func TestChunkVerifier_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// start at a stride boundary so the first iteration observes the
	// cancelled context
	v := NewChunkVerifier(0, Chunk{Start: 0, End: 1 << 20}, &countingChecker{failAt: -1}, NewBoard(1), 0)
	outcome := v.Run(ctx)

	require.False(t, outcome.Completed())
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	assert.Equal(t, int64(0), outcome.Checked)
}

func TestCodecChecker_RoundTrips(t *testing.T) {
	checker := CodecChecker{DecimalPlaces: 2}
	for index := int64(0); index < 9999; index++ {
		if err := checker.Check(index); err != nil {
			t.Fatalf("index %d: %v", index, err)
		}
	}
}
