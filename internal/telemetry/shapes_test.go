package telemetry

import (
	"math"
	"testing"
)

func TestSleepBreakdown(t *testing.T) {
	got := SleepBreakdown(8)

	expected := SleepStages{Deep: 2.0, Light: 4.0, REM: 1.6, Awake: 0.4}
	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"Deep", got.Deep, expected.Deep},
		{"Light", got.Light, expected.Light},
		{"REM", got.REM, expected.REM},
		{"Awake", got.Awake, expected.Awake},
	} {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSleepBreakdown_StagesRoundedIndependently(t *testing.T) {
	got := SleepBreakdown(7)
	expected := SleepStages{Deep: 1.8, Light: 3.5, REM: 1.4, Awake: 0.4}
	if math.Abs(got.Deep-expected.Deep) > 1e-9 || math.Abs(got.Light-expected.Light) > 1e-9 ||
		math.Abs(got.REM-expected.REM) > 1e-9 || math.Abs(got.Awake-expected.Awake) > 1e-9 {
		t.Errorf("SleepBreakdown(7) = %+v, want %+v", got, expected)
	}
}

func TestSleepBreakdown_SumsToInput(t *testing.T) {
	for h := 0.5; h <= 24; h += 0.1 {
		got := SleepBreakdown(h)
		if math.Abs(got.Total()-h) > 0.1+1e-9 {
			t.Errorf("SleepBreakdown(%.1f) total = %v, want within 0.1", h, got.Total())
		}
		if got.Deep < 0 || got.Light < 0 || got.REM < 0 || got.Awake < 0 {
			t.Errorf("SleepBreakdown(%.1f) has negative stage: %+v", h, got)
		}
	}
}

func TestSleepBreakdown_Zero(t *testing.T) {
	if got := SleepBreakdown(0); got != (SleepStages{}) {
		t.Errorf("SleepBreakdown(0) = %+v, want zero", got)
	}
}

func TestStaticSeries(t *testing.T) {
	a := StaticSeries(72, 12)
	b := StaticSeries(72, 12)

	if len(a) != 12 {
		t.Fatalf("len = %d, want 12", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v, series must be deterministic", i, a[i], b[i])
		}
		if a[i] < 72*0.8 || a[i] > 72*1.0 {
			t.Errorf("index %d: %v outside [0.8, 1.0] of anchor", i, a[i])
		}
	}

	// i=0: 0.9 + 0 + 0.05*cos(0) = 0.95
	if math.Abs(a[0]-72*0.95) > 1e-9 {
		t.Errorf("first value = %v, want %v", a[0], 72*0.95)
	}

	if StaticSeries(72, 0) != nil {
		t.Error("StaticSeries with count 0 should be nil")
	}
}
