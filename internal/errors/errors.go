// Package errors consolidates the sentinel errors used across gtsstore.
//
// It follows the same shape as a typical wrapped-sentinel error package:
// a handful of errors.New sentinels plus a %w-wrapping constructor, so
// callers can branch on error category with the standard errors.Is
// instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrCodec is returned when the underlying Encoder/Decoder
	// implementation fails to append or advance.
	ErrCodec = errors.New("codec error")

	// ErrInvalidConfig marks a ChunkSet built with out-of-range
	// parameters (chunk count or chunk length below 1) or a nil option
	// argument, and a ChunkSet call that needs an Encoder when no
	// encoder factory was configured.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// NewCodecError wraps a codec-level failure (append/advance) with the
// operation name that triggered it.
func NewCodecError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrCodec, err)
}
