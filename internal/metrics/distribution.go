package metrics

import (
	"math"
	"sync"

	"github.com/DataDog/sketches-go/ddsketch"
)

// ValueDistribution maintains a running statistical summary of the
// numeric values a ChunkSet has stored, with optional DDSketch-backed
// percentile estimation. It is ambient instrumentation, not a query
// path: nothing in gts calls it directly, a caller feeds it from the
// tuples it passes to Store.
type ValueDistribution struct {
	mu sync.Mutex

	count    int64
	sum      float64
	min      float64
	max      float64
	accuracy float64
	sketch   *ddsketch.DDSketch
}

// NewValueDistribution creates a ValueDistribution. If accuracy is in
// (0, 1), percentile estimation is enabled at that relative accuracy;
// otherwise only count/sum/min/max are tracked.
func NewValueDistribution(accuracy float64) *ValueDistribution {
	vd := &ValueDistribution{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}

	if accuracy > 0 && accuracy < 1 {
		if sketch, err := ddsketch.NewDefaultDDSketch(accuracy); err == nil {
			vd.sketch = sketch
			vd.accuracy = accuracy
		}
	}

	return vd
}

// Add records one numeric observation.
func (vd *ValueDistribution) Add(value float64) {
	vd.mu.Lock()
	defer vd.mu.Unlock()

	vd.count++
	vd.sum += value
	if value < vd.min {
		vd.min = value
	}
	if value > vd.max {
		vd.max = value
	}
	if vd.sketch != nil {
		vd.sketch.Add(value)
	}
}

// Summary is a point-in-time snapshot of a ValueDistribution.
type Summary struct {
	Count int64
	Sum   float64
	Avg   float64
	Min   float64
	Max   float64

	// Percentiles is nil if percentile tracking is disabled.
	Percentiles *Percentiles
}

// Percentiles holds quantile estimates from the underlying DDSketch.
type Percentiles struct {
	P50, P90, P95, P99 float64
}

// Summary returns the current distribution summary.
func (vd *ValueDistribution) Summary() Summary {
	vd.mu.Lock()
	defer vd.mu.Unlock()

	s := Summary{Count: vd.count, Sum: vd.sum}
	if vd.count > 0 {
		s.Avg = vd.sum / float64(vd.count)
		s.Min = vd.min
		s.Max = vd.max
	}

	if vd.sketch != nil && vd.count > 0 {
		p50, _ := vd.sketch.GetValueAtQuantile(0.50)
		p90, _ := vd.sketch.GetValueAtQuantile(0.90)
		p95, _ := vd.sketch.GetValueAtQuantile(0.95)
		p99, _ := vd.sketch.GetValueAtQuantile(0.99)
		s.Percentiles = &Percentiles{P50: p50, P90: p90, P95: p95, P99: p99}
	}

	return s
}

// Reset clears all accumulated state, starting a fresh distribution
// with the same percentile accuracy.
func (vd *ValueDistribution) Reset() {
	vd.mu.Lock()
	defer vd.mu.Unlock()

	vd.count = 0
	vd.sum = 0
	vd.min = math.MaxFloat64
	vd.max = -math.MaxFloat64

	if vd.sketch != nil {
		if fresh, err := ddsketch.NewDefaultDDSketch(vd.accuracy); err == nil {
			vd.sketch = fresh
		}
	}
}
