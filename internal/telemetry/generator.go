// Package telemetry fabricates plausible sensor-like series for display.
// Nothing here reads real hardware. Every generator takes its previous value explicitly.
package telemetry

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"wellness/internal/domain"
)

// DefaultHeartRate seeds the drift when no reading exists yet.
const DefaultHeartRate = 72

const (
	walkFraction      = 0.2  // unbiased step size as a fraction of the range
	attractionFactor  = 0.3  // share of the gap closed per step when a target is set
	targetNoiseFactor = 0.05 // random term superimposed on the pull toward a target
	maxEdgeBand       = 5.0  // widest re-roll band next to a boundary
)

// Generator owns a PRNG. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator wraps rng. Pass a seeded source for reproducible output.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewRandomGenerator seeds from the clock.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NextHeartRate drifts prev by -1, 0 or +1 bpm and clamps into [60, 100].
// A zero prev means no reading yet and starts from 72.
func (g *Generator) NextHeartRate(prev int) int {
	if prev == 0 {
		prev = DefaultHeartRate
	}
	g.mu.Lock()
	delta := g.rng.Intn(3) - 1
	g.mu.Unlock()
	return domain.ClampHeartRate(prev + delta)
}

// RandomWalk takes one unbiased step inside [min, max].
func (g *Generator) RandomWalk(prev, min, max float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	span := max - min
	next := prev + (g.rng.Float64()-0.5)*span*walkFraction
	return g.reroll(next, min, max)
}

// RandomWalkToward steps toward target, closing part of the gap, plus a smaller random term.
func (g *Generator) RandomWalkToward(prev, min, max, target float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	span := max - min
	pull := (target - prev) * attractionFactor
	noise := (g.rng.Float64() - 0.5) * span * targetNoiseFactor
	return g.reroll(prev+pull+noise, min, max)
}

// reroll places an out-of-range value at a random point near the violated edge
// instead of pinning it to the edge. Caller holds g.mu.
func (g *Generator) reroll(v, min, max float64) float64 {
	if max <= min {
		return min
	}
	band := math.Min(maxEdgeBand, (max-min)*0.1)
	switch {
	case v < min:
		return min + g.rng.Float64()*band
	case v > max:
		return max - g.rng.Float64()*band
	}
	return v
}

// StepsForTick returns synthetic steps accrued in one telemetry tick.
// Walking yields 5-14, a workout 15-34, sedentary none.
func (g *Generator) StepsForTick(activity domain.ActivityType) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch activity {
	case domain.ActivityTypeWalking:
		return 5 + g.rng.Intn(10)
	case domain.ActivityTypeWorkout:
		return 15 + g.rng.Intn(20)
	default:
		return 0
	}
}

// Point is one sample in a time series.
type Point struct {
	Time  time.Time
	Value float64
}

// InitialSeries seeds a chart with count whole-number points one minute apart, the last at now.
// Values fall in [min, max], both ends included.
func (g *Generator) InitialSeries(count int, min, max float64, now time.Time) []Point {
	if count <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]Point, count)
	for i := range points {
		points[i] = Point{
			Time:  now.Add(-time.Duration(count-1-i) * time.Minute),
			Value: min + math.Floor(g.rng.Float64()*(max-min+1)),
		}
	}
	return points
}

// Values extracts the sample values, for charting.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
