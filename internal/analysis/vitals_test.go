package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"wellness/internal/domain"
)

func TestBMI(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		height   float64
		expected float64
	}{
		{"reference adult", 70, 175, 22.9},
		{"tall light", 60, 190, 16.6},
		{"heavy", 110, 180, 34.0},
		{"zero height", 70, 0, 0},
		{"zero weight", 0, 175, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BMI(tt.weight, tt.height)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("BMI(%v, %v) = %v, want %v", tt.weight, tt.height, got, tt.expected)
			}
		})
	}
}

func TestComputeVitals_Reference(t *testing.T) {
	id := domain.Identity{Age: 30, Sex: domain.SexMale, Weight: 70, Height: 175}
	life := domain.Lifestyle{ActivityLevel: domain.ActivityModerate, SleepHours: 8}

	got, err := ComputeVitals(id, life)
	if err != nil {
		t.Fatalf("ComputeVitals: %v", err)
	}

	if got.BMI != 22.9 {
		t.Errorf("BMI = %v, want 22.9", got.BMI)
	}
	if math.Abs(got.BMR-1648.75) > 1e-9 {
		t.Errorf("BMR = %v, want 1648.75", got.BMR)
	}
	if got.Multiplier != 1.55 {
		t.Errorf("Multiplier = %v, want 1.55", got.Multiplier)
	}
	if got.DailyCalories != 2556 {
		t.Errorf("DailyCalories = %d, want 2556", got.DailyCalories)
	}
	if got.Tier != domain.TierGood {
		t.Errorf("Tier = %q, want %q", got.Tier, domain.TierGood)
	}
	if got.SleepQuality != "Good" {
		t.Errorf("SleepQuality = %q, want Good", got.SleepQuality)
	}
}

func TestComputeVitals_SexBranches(t *testing.T) {
	tests := []struct {
		sex      domain.Sex
		expected int
	}{
		{domain.SexMale, 1791},   // (600+1037.5-150+5)*1.2
		{domain.SexFemale, 1592}, // (600+1037.5-150-161)*1.2 = 1591.8
		{domain.SexOther, 1592},
	}

	for _, tt := range tests {
		t.Run(string(tt.sex), func(t *testing.T) {
			id := domain.Identity{Age: 30, Sex: tt.sex, Weight: 60, Height: 166}
			got, err := ComputeVitals(id, domain.Lifestyle{ActivityLevel: domain.ActivitySedentary})
			if err != nil {
				t.Fatalf("ComputeVitals: %v", err)
			}
			if got.DailyCalories != tt.expected {
				t.Errorf("DailyCalories = %d, want %d", got.DailyCalories, tt.expected)
			}
		})
	}
}

func TestComputeVitals_Incomplete(t *testing.T) {
	tests := []struct {
		name    string
		id      domain.Identity
		missing []string
	}{
		{"no age", domain.Identity{Height: 175, Weight: 70}, []string{"age"}},
		{"no height", domain.Identity{Age: 30, Weight: 70}, []string{"height"}},
		{"negative weight", domain.Identity{Age: 30, Height: 175, Weight: -1}, []string{"weight"}},
		{"empty", domain.Identity{}, []string{"age", "height", "weight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeVitals(tt.id, domain.Lifestyle{})
			if !errors.Is(err, ErrIncompleteProfile) {
				t.Fatalf("error = %v, want ErrIncompleteProfile", err)
			}
			var ipe *IncompleteProfileError
			if !errors.As(err, &ipe) {
				t.Fatalf("error = %T, want *IncompleteProfileError", err)
			}
			if !reflect.DeepEqual(ipe.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", ipe.Missing, tt.missing)
			}
		})
	}
}

func TestComputeVitals_Idempotent(t *testing.T) {
	id := domain.Identity{Age: 41, Sex: domain.SexFemale, Weight: 82.5, Height: 168}
	life := domain.Lifestyle{ActivityLevel: domain.ActivityActive, SleepHours: 6.5}

	first, err := ComputeVitals(id, life)
	if err != nil {
		t.Fatalf("ComputeVitals: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := ComputeVitals(id, life)
		if again != first {
			t.Fatalf("call %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestActivityMultiplier(t *testing.T) {
	tests := []struct {
		level    domain.ActivityLevel
		expected float64
	}{
		{domain.ActivitySedentary, 1.2},
		{domain.ActivityLight, 1.375},
		{domain.ActivityModerate, 1.55},
		{domain.ActivityActive, 1.725},
		{domain.ActivityVeryActive, 1.9},
		{"", 1.2},
		{"couch", 1.2},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := ActivityMultiplier(tt.level); got != tt.expected {
				t.Errorf("ActivityMultiplier(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestClassifyFitness(t *testing.T) {
	tests := []struct {
		name       string
		bmi        float64
		multiplier float64
		expected   domain.FitnessTier
	}{
		{"top of healthy band, active", 24.9, 1.725, domain.TierExcellent},
		{"bottom of overweight band, active", 25.0, 1.725, domain.TierGood},
		{"healthy, moderate", 22.0, 1.55, domain.TierGood},
		{"healthy, light", 22.0, 1.375, domain.TierFair},
		{"bottom of healthy band", 18.5, 1.9, domain.TierExcellent},
		{"overweight, moderate", 27.0, 1.55, domain.TierFair},
		{"top of overweight band", 29.9, 1.9, domain.TierGood},
		{"underweight", 18.4, 1.9, domain.TierNeedsAttention},
		{"obese", 30.0, 1.9, domain.TierNeedsAttention},
		{"unrounded between bands", 24.94, 1.725, domain.TierExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFitness(tt.bmi, tt.multiplier); got != tt.expected {
				t.Errorf("ClassifyFitness(%v, %v) = %q, want %q", tt.bmi, tt.multiplier, got, tt.expected)
			}
		})
	}
}

func TestVitalsResultApplyKeepsHeartRate(t *testing.T) {
	v := domain.Vitals{HeartRate: 77, BMI: 1, DailyCalories: 1}
	VitalsResult{BMI: 22.9, DailyCalories: 2556, Tier: domain.TierGood, SleepQuality: "Good"}.Apply(&v)

	if v.HeartRate != 77 {
		t.Errorf("HeartRate = %d, want 77", v.HeartRate)
	}
	if v.BMI != 22.9 || v.DailyCalories != 2556 || v.FitnessLevel != domain.TierGood {
		t.Errorf("Apply wrote %+v", v)
	}
}
