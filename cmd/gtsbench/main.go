// gtsbench drives concurrent load against an in-memory ChunkSet to
// exercise its Store path under contention, logging Count/Size and the
// dropped-chunk counter once a second. It does not issue FetchSpan or
// FetchCount queries.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xtxerr/gtsstore/codec"
	"github.com/xtxerr/gtsstore/gts"
	"github.com/xtxerr/gtsstore/internal/config"
	"github.com/xtxerr/gtsstore/internal/logging"
	"github.com/xtxerr/gtsstore/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "ChunkSet YAML config path (defaults built in if empty)")
	writers := flag.Int("writers", 8, "concurrent writer goroutines")
	duration := flag.Duration("duration", 5*time.Second, "how long to run the load generator")
	flag.Parse()

	logging.Init(slog.LevelInfo, false)
	log := logging.Component("gtsbench")

	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fatal(log, "load config", err)
		}
		cfg = loaded
	}

	sink := metrics.NewCounters()
	accuracy := cfg.Percentile.Accuracy
	if !cfg.Percentile.Enabled {
		accuracy = 0
	}
	dist := metrics.NewValueDistribution(accuracy)

	cs, err := gts.NewChunkSet(
		cfg.ChunkCount,
		cfg.ChunkLengthMillis,
		gts.WithLogger(logging.Logger),
		gts.WithMetricSink(sink),
		gts.WithEncoderFactory(codec.NewEncoderFunc()),
	)
	if err != nil {
		fatal(log, "construct chunkset", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var eg errgroup.Group
	for w := 0; w < *writers; w++ {
		w := w
		eg.Go(func() error {
			return runWriter(ctx, cs, dist, w)
		})
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				log.Info("progress", "count", cs.Count(), "size_bytes", cs.Size(), "chunks_dropped", sink.ChunksDropped())
			}
		}
	})

	if err := eg.Wait(); err != nil {
		fatal(log, "run load generator", err)
	}

	summary := dist.Summary()
	log.Info("done", "count", cs.Count(), "size_bytes", cs.Size(), "chunks_dropped", sink.ChunksDropped(), "value_avg", summary.Avg)
}

func runWriter(ctx context.Context, cs *gts.ChunkSet, dist *metrics.ValueDistribution, id int) error {
	buf := codec.New()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now().UnixMilli()
		value := rand.Float64() * 100

		tuple := gts.Tuple{
			Timestamp: now,
			Location:  gts.NoLocation,
			Elevation: gts.NoElevation,
			Value:     gts.DoubleValue(value),
		}
		if err := buf.Append(ctx, tuple); err != nil {
			return err
		}
		dist.Add(value)

		if err := cs.Store(ctx, now, buf); err != nil {
			return err
		}
		buf = codec.New()

		time.Sleep(time.Millisecond)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
