// Package gts implements an in-memory rolling chunk store for a single
// Geo Time Series (GTS): a bounded-time ring of encoded datapoint chunks
// that absorbs a continuous stream of timestamped measurements, evicts
// data older than a fixed horizon, and answers two bounded retrieval
// queries, by timespan and by count.
//
// The ring is owned by ChunkSet. Time is mapped to a slot by the pure
// functions ChunkEnd and Slot (timeindex.go); the ChunkSet never
// inspects a datapoint's Location, Elevation, or Value beyond passing
// them through to the Encoder it was given.
//
// ChunkSet depends only on the Encoder/Decoder interfaces declared here
// (codec.go) — any type satisfying them can be plugged in. Package
// codec ships one concrete implementation.
package gts
