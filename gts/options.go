package gts

import (
	"log/slog"

	gtserrors "github.com/xtxerr/gtsstore/internal/errors"
)

// options holds the configurable parts of a ChunkSet. Constructed by
// defaultOptions and mutated by the Option funcs passed to NewChunkSet.
type options struct {
	sink      MetricSink
	logger    *slog.Logger
	newEncode NewEncoderFunc
}

func defaultOptions() options {
	return options{
		sink:      nopMetricSink{},
		newEncode: nil,
	}
}

// Option configures a ChunkSet at construction time.
type Option func(*options) error

// WithMetricSink routes slot-eviction counters to sink instead of
// discarding them.
func WithMetricSink(sink MetricSink) Option {
	return func(o *options) error {
		if sink == nil {
			return gtserrors.ErrInvalidConfig
		}
		o.sink = sink
		return nil
	}
}

// WithLogger attaches a structured logger used for slot lifecycle events
// (slot re-initialisation and slots dropped by Clean). Codec failures are
// returned to the caller, not logged. Without this option, ChunkSet logs
// nowhere.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return gtserrors.ErrInvalidConfig
		}
		o.logger = logger
		return nil
	}
}

// WithEncoderFactory supplies the constructor ChunkSet uses to allocate a
// fresh per-slot Encoder and the result Encoder of each FetchSpan and
// FetchCount call. Required: a ChunkSet built without it fails
// every Store/FetchSpan/FetchCount call that would need to allocate one.
func WithEncoderFactory(newEncode NewEncoderFunc) Option {
	return func(o *options) error {
		if newEncode == nil {
			return gtserrors.ErrInvalidConfig
		}
		o.newEncode = newEncode
		return nil
	}
}
