package load

import "github.com/vvka-141/finshield/pkg/finshield"

// Chunk is a half-open row range [Lo, Hi) of a dataset.
type Chunk struct {
	Lo, Hi int
}

// Len returns the number of rows in the chunk.
func (c Chunk) Len() int { return c.Hi - c.Lo }

// Plan partitions n rows according to policy. The chunks are contiguous, in
// order and cover every row exactly once. Zero rows yield no chunks.
func Plan(n int, policy finshield.ChunkPolicy) []Chunk {
	if n <= 0 {
		return nil
	}
	if n <= policy.DirectLoadThreshold || policy.ChunkSize <= 0 {
		return []Chunk{{Lo: 0, Hi: n}}
	}

	chunks := make([]Chunk, 0, (n+policy.ChunkSize-1)/policy.ChunkSize)
	for lo := 0; lo < n; lo += policy.ChunkSize {
		hi := min(lo+policy.ChunkSize, n)
		chunks = append(chunks, Chunk{Lo: lo, Hi: hi})
	}
	return chunks
}
