// Package codec provides a concrete Encoder/Decoder pair for
// gtsstore/gts, encoding each (timestamp, location, elevation, value)
// tuple as a type-tagged binary record: a fixed-size header followed by a
// payload whose size depends on the value type.
//
// Tuple encoding format (binary, little-endian):
//   - Timestamp (8 bytes, int64)
//   - Location  (8 bytes, uint64)
//   - Elevation (8 bytes, int64)
//   - Value type (1 byte)
//   - Value payload:
//       long:    8 bytes (int64)
//       double:  8 bytes (float64 bits)
//       boolean: 1 byte
//       string:  4 bytes length + string bytes
package codec

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/xtxerr/gtsstore/gts"
)

const (
	fixedRecordLen = 8 + 8 + 8 + 1 // timestamp + location + elevation + value type tag
)

// Buffer is a growable, append-only byte buffer of encoded tuples. It
// implements gts.Encoder.
//
// Append is safe to call concurrently with DecoderView(false) on the
// same Buffer: both take the same mutex, and a decoder snapshot copies
// the current length under that mutex before reading, so it never
// observes a partially-written trailing record.
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	count uint64
}

// New returns an empty Buffer. Use NewEncoderFunc where a
// gts.NewEncoderFunc is needed.
func New() *Buffer {
	return &Buffer{}
}

// NewEncoderFunc returns a gts.NewEncoderFunc bound to this package's
// Buffer type, for passing to gts.WithEncoderFactory.
func NewEncoderFunc() gts.NewEncoderFunc {
	return func() gts.Encoder {
		return New()
	}
}

// Append encodes t and appends it to the buffer.
func (b *Buffer) Append(_ context.Context, t gts.Tuple) error {
	rec, err := encodeTuple(t)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.data = append(b.data, rec...)
	b.count++
	b.mu.Unlock()

	return nil
}

// Count returns the number of tuples appended so far.
func (b *Buffer) Count() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Size returns the current buffer length in bytes.
func (b *Buffer) Size() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.data))
}

// DecoderView returns a Decoder over the buffer's current contents. If
// independent is true the decoder owns its own copy of the bytes;
// otherwise it shares the underlying array, which is safe because
// Buffer only ever appends and this snapshot's length is frozen at
// call time.
func (b *Buffer) DecoderView(independent bool) gts.Decoder {
	b.mu.Lock()
	data, count := b.data[:len(b.data):len(b.data)], b.count
	b.mu.Unlock()

	if independent {
		clone := make([]byte, len(data))
		copy(clone, data)
		data = clone
	}

	return &decoder{data: data, count: count}
}

type decoder struct {
	data  []byte
	count uint64
	off   int
	cur   gts.Tuple
	err   error
}

func (d *decoder) Next() bool {
	if d.err != nil || d.off >= len(d.data) {
		return false
	}
	t, n, err := decodeTuple(d.data[d.off:])
	if err != nil {
		d.err = err
		return false
	}
	d.cur = t
	d.off += n
	return true
}

func (d *decoder) Tuple() gts.Tuple { return d.cur }
func (d *decoder) Count() uint64    { return d.count }
func (d *decoder) Err() error       { return d.err }

func encodeTuple(t gts.Tuple) ([]byte, error) {
	buf := make([]byte, fixedRecordLen, fixedRecordLen+8)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(t.Timestamp))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(t.Location))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(t.Elevation))
	buf[24] = byte(t.Value.Type)

	switch t.Value.Type {
	case gts.ValueTypeLong:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Value.Long))
	case gts.ValueTypeDouble:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t.Value.Double))
	case gts.ValueTypeBoolean:
		if t.Value.Bool {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case gts.ValueTypeString:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Value.Str)))
		buf = append(buf, t.Value.Str...)
	default:
		return nil, fmt.Errorf("codec: unknown value type %d", t.Value.Type)
	}

	return buf, nil
}

func decodeTuple(data []byte) (gts.Tuple, int, error) {
	if len(data) < fixedRecordLen {
		return gts.Tuple{}, 0, fmt.Errorf("codec: truncated record header")
	}

	t := gts.Tuple{
		Timestamp: int64(binary.LittleEndian.Uint64(data[0:8])),
		Location:  gts.Location(binary.LittleEndian.Uint64(data[8:16])),
		Elevation: gts.Elevation(int64(binary.LittleEndian.Uint64(data[16:24]))),
	}
	valueType := gts.ValueType(data[24])
	off := fixedRecordLen

	switch valueType {
	case gts.ValueTypeLong:
		if len(data) < off+8 {
			return gts.Tuple{}, 0, fmt.Errorf("codec: truncated long value")
		}
		t.Value = gts.LongValue(int64(binary.LittleEndian.Uint64(data[off : off+8])))
		off += 8
	case gts.ValueTypeDouble:
		if len(data) < off+8 {
			return gts.Tuple{}, 0, fmt.Errorf("codec: truncated double value")
		}
		t.Value = gts.DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8])))
		off += 8
	case gts.ValueTypeBoolean:
		if len(data) < off+1 {
			return gts.Tuple{}, 0, fmt.Errorf("codec: truncated boolean value")
		}
		t.Value = gts.BooleanValue(data[off] == 1)
		off++
	case gts.ValueTypeString:
		if len(data) < off+4 {
			return gts.Tuple{}, 0, fmt.Errorf("codec: truncated string length")
		}
		n := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if len(data) < off+n {
			return gts.Tuple{}, 0, fmt.Errorf("codec: truncated string content")
		}
		t.Value = gts.StringValue(string(data[off : off+n]))
		off += n
	default:
		return gts.Tuple{}, 0, fmt.Errorf("codec: unknown value type %d", valueType)
	}

	return t, off, nil
}
