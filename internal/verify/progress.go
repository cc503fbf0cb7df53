package verify

import "sync/atomic"

// FractionScale is the integer domain a worker's completion fraction is
// scaled into: a full slot holds exactly FractionScale.
const FractionScale = 1_000_000

// Board is the shared progress surface between workers and the coordinator.
// Each worker owns write access to exactly one slot; the coordinator reads
// all slots. Slot reads are deliberately coarse: a sum taken mid-update is
// at worst one batch stale per worker, and nothing correctness-critical
// hangs off the value.
type Board struct {
	slots   []int64
	updates chan struct{}
}

// NewBoard allocates a zeroed board with one slot per worker.
func NewBoard(workers int) *Board {
	return &Board{
		slots:   make([]int64, workers),
		updates: make(chan struct{}, 1),
	}
}

// Set stores a worker's scaled completion fraction and fires a best-effort
// update signal. Only the owning worker may call Set for its slot.
func (b *Board) Set(worker int, fraction int64) {
	if fraction > FractionScale {
		fraction = FractionScale
	}
	atomic.StoreInt64(&b.slots[worker], fraction)

	// fire-and-forget: a waiter already pending means the signal is
	// redundant anyway
	select {
	case b.updates <- struct{}{}:
	default:
	}
}

// Slot returns one worker's current scaled fraction.
func (b *Board) Slot(worker int) int64 {
	return atomic.LoadInt64(&b.slots[worker])
}

// Fraction sums all slots into an overall completion fraction in [0, 1].
func (b *Board) Fraction() float64 {
	if len(b.slots) == 0 {
		return 0
	}
	var sum int64
	for i := range b.slots {
		sum += atomic.LoadInt64(&b.slots[i])
	}
	return float64(sum) / float64(int64(len(b.slots))*FractionScale)
}

// Updates exposes the best-effort update signal. Receivers must not rely on
// one signal per Set call; the channel only guarantees that after a signal,
// at least one slot changed since the last read.
func (b *Board) Updates() <-chan struct{} {
	return b.updates
}
