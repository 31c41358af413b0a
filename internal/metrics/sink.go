// Package metrics provides ChunkSet's MetricSink implementation and an
// optional DDSketch-backed value distribution tracker.
package metrics

import "sync/atomic"

// ChunksDroppedMetric is the dotted counter name for the slots a
// ChunkSet's Clean drops (Clean calls the sink only when it drops at
// least one slot), carried over from the Sensision-style metric
// name the ring's eviction path has always used.
const ChunksDroppedMetric = "inmemory.chunks.dropped"

// Counters is a MetricSink that accumulates counts in memory. It
// satisfies gts.MetricSink without requiring gts to import this
// package.
type Counters struct {
	chunksDropped atomic.Int64
}

// NewCounters returns an empty Counters sink.
func NewCounters() *Counters {
	return &Counters{}
}

// CountChunksDropped implements gts.MetricSink.
func (c *Counters) CountChunksDropped(n int) {
	c.chunksDropped.Add(int64(n))
}

// ChunksDropped returns the cumulative number of slots dropped by
// Clean across the ChunkSet(s) reporting to this sink.
func (c *Counters) ChunksDropped() int64 {
	return c.chunksDropped.Load()
}
