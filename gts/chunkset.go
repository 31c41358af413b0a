package gts

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	gtserrors "github.com/xtxerr/gtsstore/internal/errors"
)

// ChunkSet is a fixed-capacity ring covering a total window of C*L time
// units, split into C slots of length L. It absorbs Store calls for one
// Geo Time Series and answers two bounded retrieval queries, by span and
// by count. The GTS identity itself is held by whatever owns the
// ChunkSet; the ring is identity-agnostic.
type ChunkSet struct {
	chunkCount int
	chunkLen   int64

	mu            sync.Mutex
	chunks        []Encoder
	chunkEnds     []int64
	chronological []bool
	lastTS        []int64

	opts options
}

// NewChunkSet creates an empty ring of chunkCount slots, each spanning
// chunkLength time units. Both must be >= 1.
func NewChunkSet(chunkCount uint32, chunkLength int64, opts ...Option) (*ChunkSet, error) {
	if chunkCount < 1 || chunkLength < 1 {
		return nil, gtserrors.ErrInvalidConfig
	}

	o := defaultOptions()
	for _, apply := range opts {
		if err := apply(&o); err != nil {
			return nil, err
		}
	}

	return &ChunkSet{
		chunkCount:    int(chunkCount),
		chunkLen:      chunkLength,
		chunks:        make([]Encoder, chunkCount),
		chunkEnds:     make([]int64, chunkCount),
		chronological: make([]bool, chunkCount),
		lastTS:        make([]int64, chunkCount),
		opts:          o,
	}, nil
}

func (cs *ChunkSet) log() *slog.Logger {
	if cs.opts.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cs.opts.logger
}

func (cs *ChunkSet) newEncoder() (Encoder, error) {
	if cs.opts.newEncode == nil {
		return nil, gtserrors.ErrInvalidConfig
	}
	return cs.opts.newEncode(), nil
}

// Store appends every tuple produced by encoder's decoder that falls
// inside the ring's current live window, silently dropping the rest.
// now is read once at the start of the call and used for every
// in/out-of-window decision, per the pre-step in the description of the
// operation.
func (cs *ChunkSet) Store(ctx context.Context, now int64, encoder Encoder) error {
	dec := encoder.DecoderView(false)

	lastEnd := ChunkEnd(now, cs.chunkLen)
	firstStart := lastEnd - int64(cs.chunkCount)*cs.chunkLen + 1

	for dec.Next() {
		tuple := dec.Tuple()
		ts := tuple.Timestamp

		if ts < firstStart || ts > lastEnd {
			continue
		}

		id := Slot(ts, cs.chunkLen, cs.chunkCount)

		target, err := cs.bindSlot(id, ts, firstStart)
		if err != nil {
			return err
		}

		if err := target.Append(ctx, tuple); err != nil {
			return gtserrors.NewCodecError("store", err)
		}
	}
	if err := dec.Err(); err != nil {
		return gtserrors.NewCodecError("store", err)
	}

	return nil
}

// bindSlot re-initialises slot id if it is absent or stale, updates the
// chronological/last-timestamp bookkeeping for ts, and returns the
// encoder that ts must be appended to. It runs entirely under the ring
// mutex; the append itself happens outside it, in Store.
func (cs *ChunkSet) bindSlot(id int, ts, firstStart int64) (Encoder, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.chunks[id] == nil || cs.chunkEnds[id] < firstStart {
		enc, err := cs.newEncoder()
		if err != nil {
			return nil, err
		}
		end := ChunkEnd(ts, cs.chunkLen)
		cs.chunks[id] = enc
		cs.chunkEnds[id] = end
		cs.lastTS[id] = end - cs.chunkLen
		cs.chronological[id] = true

		cs.log().Debug("slot reinitialized", "slot", id, "end", end)
	}

	if ts < cs.lastTS[id] {
		cs.chronological[id] = false
	}
	cs.lastTS[id] = ts

	return cs.chunks[id], nil
}

// FetchSpan returns an encoder containing every stored tuple with
// now-span+1 <= ts <= now, in the order the slots are visited. If span
// is negative, it delegates to FetchCount(now, -span).
func (cs *ChunkSet) FetchSpan(ctx context.Context, now, span int64) (Encoder, error) {
	if span < 0 {
		return cs.FetchCount(ctx, now, -span)
	}

	cs.Clean(now)

	out, err := cs.newEncoder()
	if err != nil {
		return nil, err
	}

	nowSlot := Slot(now, cs.chunkLen, cs.chunkCount) + cs.chunkCount
	firstTS := now - span + 1

	for i := 0; i < cs.chunkCount; i++ {
		s := (nowSlot - i) % cs.chunkCount

		enc, end, ok := cs.slotSnapshot(s)
		if !ok || end < firstTS || end-cs.chunkLen >= now {
			continue
		}

		dec := enc.DecoderView(false)
		for dec.Next() {
			t := dec.Tuple()
			if t.Timestamp >= firstTS && t.Timestamp <= now {
				if err := out.Append(ctx, t); err != nil {
					return nil, gtserrors.NewCodecError("fetch_span", err)
				}
			}
		}
		if err := dec.Err(); err != nil {
			return nil, gtserrors.NewCodecError("fetch_span", err)
		}
	}

	return out, nil
}

// slotSnapshot returns the encoder reference and chunk-end of slot s
// under the ring mutex, without touching the encoder itself.
func (cs *ChunkSet) slotSnapshot(s int) (enc Encoder, end int64, ok bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.chunks[s] == nil {
		return nil, 0, false
	}
	return cs.chunks[s], cs.chunkEnds[s], true
}

// slotMeta returns the encoder, chunk-end, and chronological flag of
// slot s under the ring mutex.
func (cs *ChunkSet) slotMeta(s int) (enc Encoder, end int64, inOrder, ok bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.chunks[s] == nil {
		return nil, 0, false, false
	}
	return cs.chunks[s], cs.chunkEnds[s], cs.chronological[s], true
}

// FetchCount returns an encoder containing the min(n, available) most
// recent tuples with ts <= now. See the four-case per-slot extraction
// this implements: in-order vs out-of-order, window closed vs open
// against now.
func (cs *ChunkSet) FetchCount(ctx context.Context, now, n int64) (Encoder, error) {
	out, err := cs.newEncoder()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return out, nil
	}

	nowSlot := Slot(now, cs.chunkLen, cs.chunkCount) + cs.chunkCount
	remaining := n

	for i := 0; i < cs.chunkCount && remaining > 0; i++ {
		s := (nowSlot - i) % cs.chunkCount

		enc, end, inOrder, ok := cs.slotMeta(s)
		if !ok {
			continue
		}
		if end-cs.chunkLen >= now {
			// slot's window lies entirely after now.
			continue
		}

		slotAfterNow := end > now

		var emitted int64
		var err error
		switch {
		case inOrder && !slotAfterNow:
			emitted, err = cs.emitCaseA(ctx, out, enc, remaining)
		case inOrder && slotAfterNow:
			emitted, err = cs.emitCaseB(ctx, out, enc, now, remaining)
		case !inOrder && !slotAfterNow:
			emitted, err = cs.emitCaseA(ctx, out, enc, remaining)
		default:
			emitted, err = cs.emitCaseD(ctx, out, enc, now, remaining)
		}
		if err != nil {
			return nil, gtserrors.NewCodecError("fetch_count", err)
		}

		remaining -= emitted
	}

	return out, nil
}

// emitCaseA handles an in-order (or deterministically-ordered
// out-of-order) slot whose window lies entirely at or before now: emit
// the whole slot if it fits, otherwise skip the oldest excess and emit
// the tail.
func (cs *ChunkSet) emitCaseA(ctx context.Context, out, src Encoder, remaining int64) (int64, error) {
	k := int64(src.Count())
	dec := src.DecoderView(false)

	skip := int64(0)
	if k > remaining {
		skip = k - remaining
	}

	var emitted int64
	idx := int64(0)
	for dec.Next() {
		if idx < skip {
			idx++
			continue
		}
		if err := out.Append(ctx, dec.Tuple()); err != nil {
			return emitted, err
		}
		emitted++
		idx++
	}
	return emitted, dec.Err()
}

// emitCaseB handles an in-order slot whose window extends past now:
// walk until the first ts > now (everything after is also > now), then
// apply the same fit-or-skip logic as emitCaseA over just the in-window
// prefix.
func (cs *ChunkSet) emitCaseB(ctx context.Context, out, src Encoder, now, remaining int64) (int64, error) {
	dec := src.DecoderView(false)

	var inWindow []Tuple
	for dec.Next() {
		t := dec.Tuple()
		if t.Timestamp > now {
			break
		}
		inWindow = append(inWindow, t)
	}
	if err := dec.Err(); err != nil {
		return 0, err
	}

	skip := int64(0)
	if k := int64(len(inWindow)); k > remaining {
		skip = k - remaining
	}

	var emitted int64
	for _, t := range inWindow[skip:] {
		if err := out.Append(ctx, t); err != nil {
			return emitted, err
		}
		emitted++
	}
	return emitted, nil
}

// emitCaseD handles an out-of-order slot whose window extends past now:
// materialise the in-window tuples, sort their timestamps, compute a
// cutoff that keeps at least `remaining` of them, then re-decode and
// keep everything at or above the cutoff (ties may push the kept count
// above remaining; that is accepted per the "at least the newest n"
// contract).
func (cs *ChunkSet) emitCaseD(ctx context.Context, out, src Encoder, now, remaining int64) (int64, error) {
	dec := src.DecoderView(false)

	var inWindow []Tuple
	for dec.Next() {
		t := dec.Tuple()
		if t.Timestamp <= now {
			inWindow = append(inWindow, t)
		}
	}
	if err := dec.Err(); err != nil {
		return 0, err
	}

	if int64(len(inWindow)) <= remaining {
		var emitted int64
		for _, t := range inWindow {
			if err := out.Append(ctx, t); err != nil {
				return emitted, err
			}
			emitted++
		}
		return emitted, nil
	}

	ticks := make([]int64, len(inWindow))
	for i, t := range inWindow {
		ticks[i] = t.Timestamp
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	cutoff := ticks[int64(len(ticks))-remaining]

	var emitted int64
	for _, t := range inWindow {
		if t.Timestamp >= cutoff {
			if err := out.Append(ctx, t); err != nil {
				return emitted, err
			}
			emitted++
		}
	}
	return emitted, nil
}

// Clean drops every populated slot whose chunk end has aged out of the
// live window [chunk_end(now)-C*L+1, chunk_end(now)], reporting the
// number of dropped slots to the configured MetricSink. Returns that
// count.
func (cs *ChunkSet) Clean(now int64) int {
	cutoff := ChunkEnd(now, cs.chunkLen) - int64(cs.chunkCount)*cs.chunkLen

	cs.mu.Lock()
	dropped := 0
	for i := 0; i < cs.chunkCount; i++ {
		if cs.chunks[i] != nil && cs.chunkEnds[i] <= cutoff {
			cs.chunks[i] = nil
			dropped++
		}
	}
	cs.mu.Unlock()

	if dropped > 0 {
		cs.opts.sink.CountChunksDropped(dropped)
		cs.log().Debug("slots dropped", "count", dropped, "cutoff", cutoff)
	}

	return dropped
}

// Count returns the sum of tuple counts across all populated slots. The
// value is a point-in-time approximation: it does not hold the ring
// mutex for the full duration of the scan.
func (cs *ChunkSet) Count() uint64 {
	var total uint64
	for i := 0; i < cs.chunkCount; i++ {
		enc, _, ok := cs.slotSnapshot(i)
		if !ok {
			continue
		}
		total += enc.Count()
	}
	return total
}

// Size returns the sum of encoder byte sizes across all populated
// slots, with the same point-in-time caveat as Count.
func (cs *ChunkSet) Size() uint64 {
	var total uint64
	for i := 0; i < cs.chunkCount; i++ {
		enc, _, ok := cs.slotSnapshot(i)
		if !ok {
			continue
		}
		total += enc.Size()
	}
	return total
}

// Decoders returns a Decoder for every currently populated slot. Unlike
// the getDecoders it is modeled on, this iterates all C slots rather
// than stopping immediately.
func (cs *ChunkSet) Decoders() []Decoder {
	var out []Decoder
	for i := 0; i < cs.chunkCount; i++ {
		enc, _, ok := cs.slotSnapshot(i)
		if !ok {
			continue
		}
		out = append(out, enc.DecoderView(true))
	}
	return out
}
