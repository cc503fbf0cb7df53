package verify

// Chunk is a half-open index interval [Start, End) owned by exactly one
// worker. Chunks never overlap and together cover the whole index space.
type Chunk struct {
	Start int64
	End   int64
}

// Len returns the number of indexes in the chunk.
func (c Chunk) Len() int64 {
	return c.End - c.Start
}

// Partition splits [0, totalNumbers) into workerCount contiguous chunks of
// ceil(total/workers) indexes each. The final chunk absorbs the remainder
// and may be shorter, or empty when the split is very uneven.
func Partition(totalNumbers int64, workerCount int) []Chunk {
	if workerCount < 1 {
		workerCount = 1
	}
	if totalNumbers < 0 {
		totalNumbers = 0
	}

	chunkSize := (totalNumbers + int64(workerCount) - 1) / int64(workerCount)
	chunks := make([]Chunk, workerCount)
	for i := range chunks {
		start := int64(i) * chunkSize
		end := start + chunkSize
		if start > totalNumbers {
			start = totalNumbers
		}
		if end > totalNumbers {
			end = totalNumbers
		}
		chunks[i] = Chunk{Start: start, End: end}
	}
	return chunks
}
