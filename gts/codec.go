package gts

import "context"

// Encoder owns a growable, append-only, opaque byte buffer of Tuples.
// ChunkSet treats it as an external collaborator: it never inspects the
// buffer, only appends to it and asks for decoders over it.
//
// Implementations must make Append safe to call concurrently with a
// Decoder obtained from DecoderView(false) on the same Encoder: ChunkSet
// appends to and decodes a slot's encoder outside its ring mutex, so such
// a decoder must see a consistent prefix while appends continue.
type Encoder interface {
	// Append adds one tuple to the buffer. It fails only on an
	// internal I/O error in the concrete implementation.
	Append(ctx context.Context, t Tuple) error

	// Count returns the number of tuples appended so far.
	Count() uint64

	// Size returns the current buffer length in bytes.
	Size() uint64

	// DecoderView returns a Decoder over the encoder's current prefix.
	// If copy is false, the decoder shares the buffer with the encoder
	// (valid only while further appends do not invalidate previously
	// returned byte ranges); if copy is true, the decoder owns an
	// independent snapshot.
	DecoderView(copy bool) Decoder
}

// Decoder is a forward-only cursor over an Encoder's buffer.
type Decoder interface {
	// Next advances to the next tuple, returning false once exhausted
	// or on decode failure; call Err after a false return to tell
	// those two cases apart.
	Next() bool

	// Tuple returns the tuple at the cursor. Only valid after a Next
	// call that returned true.
	Tuple() Tuple

	// Count returns the total number of tuples in the underlying
	// buffer, independent of cursor position.
	Count() uint64

	// Err returns the first error encountered by Next, if any.
	Err() error
}

// NewEncoderFunc constructs an empty Encoder. ChunkSet uses it to build
// fresh per-slot and result encoders without depending on any concrete
// codec package.
type NewEncoderFunc func() Encoder
