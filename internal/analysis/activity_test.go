package analysis

import (
	"math"
	"testing"
)

func TestApplyStepDelta(t *testing.T) {
	tests := []struct {
		name         string
		steps        int
		calories     float64
		delta        int
		wantSteps    int
		wantCalories float64
	}{
		{"negative delta is ignored", 1000, 40, -50, 1000, 40.0},
		{"zero delta is ignored", 1000, 40, 0, 1000, 40.0},
		{"positive delta", 1000, 40, 500, 1500, 60.0},
		{"from zero", 0, 0, 1234, 1234, 49.4},
		{"stale calories are recomputed", 100, 999, 1, 101, 4.0},
		{"huge delta saturates", 1000, 40, math.MaxInt, math.MaxInt, CaloriesForSteps(math.MaxInt)},
		{"already saturated", math.MaxInt, 1, 5, math.MaxInt, CaloriesForSteps(math.MaxInt)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSteps, gotCal := ApplyStepDelta(tt.steps, tt.calories, tt.delta)
			if gotSteps != tt.wantSteps {
				t.Errorf("steps = %d, want %d", gotSteps, tt.wantSteps)
			}
			if gotCal != tt.wantCalories {
				t.Errorf("calories = %v, want %v", gotCal, tt.wantCalories)
			}
		})
	}
}

func TestApplyStepDelta_NoDrift(t *testing.T) {
	steps, cal := 0, 0.0
	for i := 0; i < 2500; i++ {
		steps, cal = ApplyStepDelta(steps, cal, 7)
	}

	if steps != 17500 {
		t.Fatalf("steps = %d, want 17500", steps)
	}
	if want := CaloriesForSteps(steps); cal != want {
		t.Errorf("calories = %v, want %v (recomputed from total)", cal, want)
	}
	if cal != 700 {
		t.Errorf("calories = %v, want 700", cal)
	}
}

func TestParseStepDelta(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{"500", 500},
		{"  250 ", 250},
		{"250 steps", 250},
		{"12.7", 12},
		{"+40", 40},
		{"-50", 0},
		{"abc", 0},
		{"", 0},
		{"99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseStepDelta(tt.raw); got != tt.expected {
				t.Errorf("ParseStepDelta(%q) = %d, want %d", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestDailyMacros(t *testing.T) {
	tests := []struct {
		name     string
		calories int
		weight   float64
		goals    []string
		expected Macros
	}{
		{
			name:     "defaults before profile is saved",
			expected: Macros{Calories: 2000, ProteinG: 70, FatG: 56, CarbsG: 304, ProteinPerK: 1.0},
		},
		{
			name:     "muscle goal",
			calories: 2556,
			weight:   70,
			goals:    []string{"Build Muscle"},
			expected: Macros{Calories: 2556, ProteinG: 126, FatG: 71, CarbsG: 353, ProteinPerK: 1.8},
		},
		{
			name:     "weight goal",
			calories: 1800,
			weight:   80,
			goals:    []string{"sleep better", "lose weight"},
			expected: Macros{Calories: 1800, ProteinG: 112, FatG: 50, CarbsG: 226, ProteinPerK: 1.4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyMacros(tt.calories, tt.weight, tt.goals)
			if got != tt.expected {
				t.Errorf("DailyMacros = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
