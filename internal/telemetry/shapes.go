package telemetry

import "math"

// Sleep stage shares of total sleep.
const (
	deepShare  = 0.25
	lightShare = 0.50
	remShare   = 0.20
	awakeShare = 0.05
)

// SleepStages is a proportional breakdown of one night, in hours.
type SleepStages struct {
	Deep  float64
	Light float64
	REM   float64
	Awake float64
}

// Total sums the stages. It may differ from the input by rounding, never more than 0.1h.
func (s SleepStages) Total() float64 {
	return s.Deep + s.Light + s.REM + s.Awake
}

// SleepBreakdown splits totalHours into fixed stage shares, each rounded to one decimal.
func SleepBreakdown(totalHours float64) SleepStages {
	if totalHours <= 0 {
		return SleepStages{}
	}
	return SleepStages{
		Deep:  round1(totalHours * deepShare),
		Light: round1(totalHours * lightShare),
		REM:   round1(totalHours * remShare),
		Awake: round1(totalHours * awakeShare),
	}
}

// StaticSeries is a deterministic wave around anchor for sparklines.
// Equal inputs always produce equal output.
func StaticSeries(anchor float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	out := make([]float64, count)
	for i := range out {
		x := float64(i)
		out[i] = anchor * (0.9 + 0.05*math.Sin(x*0.8) + 0.05*math.Cos(x*1.5))
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
