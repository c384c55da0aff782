// Package load implements the bulk loader.
//
// A dataset is sent through the session's direct insert path in one or more
// sequential chunks sized by a finshield.ChunkPolicy. Datasets at or under the
// direct-load threshold travel as a single chunk; larger datasets are split
// into ChunkSize rows per chunk. Row order is preserved across chunks.
//
// The loader never retries. When a chunk fails, the outcome returned alongside
// the *finshield.LoadError reports exactly the chunks and rows committed before
// it, so callers can decide whether to truncate and reload.
package load
