package codec

import (
	"errors"

	"github.com/klauspost/compress/zstd"
)

// Compressor shrinks a sealed slot's encoded buffer. Its shape mirrors
// the ring-buffer compressor contract used elsewhere in the ecosystem
// for chunked byte buffers: Compress/Decompress append to dest and
// return the result, and DecompressedSize lets a caller size a
// destination buffer before decompressing.
type Compressor interface {
	Compress(src, dest []byte) ([]byte, error)
	Decompress(src, dest []byte) ([]byte, error)
	DecompressedSize(src []byte) (int64, error)
}

// ZstdCompressor is a Compressor backed by klauspost/compress/zstd. It
// is not wired into ChunkSet's hot path (the ring holds live, actively
// appended slots); it is meant for a caller that wants to shrink a
// Decoders() snapshot before writing it somewhere colder.
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstdCompressor builds a ZstdCompressor, sharing one encoder and
// one decoder across all calls.
func NewZstdCompressor(opts ...zstd.EOption) (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &ZstdCompressor{enc: enc, dec: dec}, nil
}

// Compress appends the zstd-compressed form of src to dest.
func (c *ZstdCompressor) Compress(src, dest []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, dest), nil
}

// Decompress appends the decompressed form of src to dest.
func (c *ZstdCompressor) Decompress(src, dest []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, dest)
}

// DecompressedSize reads the frame header of src and returns the
// uncompressed size it advertises.
func (c *ZstdCompressor) DecompressedSize(src []byte) (int64, error) {
	if len(src) == 0 {
		return 0, nil
	}

	var header zstd.Header
	if err := header.Decode(src); err != nil {
		return 0, err
	}
	if header.HasFCS {
		return int64(header.FrameContentSize), nil
	}
	return 0, errors.New("codec: frame content size not set")
}

// Close releases the compressor's encoder/decoder resources.
func (c *ZstdCompressor) Close() {
	c.enc.Close()
	c.dec.Close()
}
