package analysis

import (
	"errors"
	"math"
	"strings"

	"wellness/internal/domain"
)

// ErrIncompleteProfile matches any IncompleteProfileError.
var ErrIncompleteProfile = errors.New("incomplete profile")

// IncompleteProfileError is returned when age, height or weight is missing or non-positive.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return "Please fill in age, height, and weight for calculations. Missing: " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteProfileError) Is(target error) bool {
	return target == ErrIncompleteProfile
}

// activityMultipliers maps activity levels to their TDEE multiplier.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// DefaultMultiplier applies when the activity level is missing or unknown.
const DefaultMultiplier = 1.2

// VitalsResult is the output of ComputeVitals.
type VitalsResult struct {
	BMI           float64
	BMR           float64
	Multiplier    float64
	DailyCalories int
	Tier          domain.FitnessTier
	SleepQuality  string
}

// Apply writes the derived fields into v. Heart rate is left alone.
func (r VitalsResult) Apply(v *domain.Vitals) {
	v.BMI = r.BMI
	v.DailyCalories = r.DailyCalories
	v.FitnessLevel = r.Tier
	v.SleepQuality = r.SleepQuality
}

// ComputeVitals derives BMI, BMR, daily calories and fitness tier.
// It is pure: identical inputs always give identical outputs.
func ComputeVitals(id domain.Identity, life domain.Lifestyle) (VitalsResult, error) {
	var missing []string
	if id.Age <= 0 {
		missing = append(missing, "age")
	}
	if id.Height <= 0 {
		missing = append(missing, "height")
	}
	if id.Weight <= 0 {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return VitalsResult{}, &IncompleteProfileError{Missing: missing}
	}

	bmi := BMI(id.Weight, id.Height)
	mult := ActivityMultiplier(life.ActivityLevel)
	bmr := BMR(id.Sex, id.Weight, id.Height, id.Age)

	return VitalsResult{
		BMI:           bmi,
		BMR:           bmr,
		Multiplier:    mult,
		DailyCalories: int(math.Round(bmr * mult)),
		Tier:          ClassifyFitness(bmi, mult),
		SleepQuality:  SleepQuality(life.SleepHours),
	}, nil
}

// BMI returns weight / (height in meters)^2 rounded to one decimal.
// Returns 0 when either input is non-positive.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return round1(weightKg / (m * m))
}

// BMR is Mifflin-St Jeor. Female and other share the -161 branch.
func BMR(sex domain.Sex, weightKg, heightCm float64, age int) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier looks up the TDEE multiplier, defaulting to sedentary.
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return DefaultMultiplier
}

// ClassifyFitness maps a BMI band and activity multiplier to a tier.
// BMI is compared at one-decimal precision so the bands have no gaps.
func ClassifyFitness(bmi, multiplier float64) domain.FitnessTier {
	bmi = round1(bmi)
	switch {
	case bmi >= 18.5 && bmi <= 24.9:
		switch {
		case multiplier >= 1.725:
			return domain.TierExcellent
		case multiplier >= 1.55:
			return domain.TierGood
		default:
			return domain.TierFair
		}
	case bmi >= 25 && bmi <= 29.9:
		if multiplier >= 1.725 {
			return domain.TierGood
		}
		return domain.TierFair
	default:
		return domain.TierNeedsAttention
	}
}

// SleepQuality describes a nightly sleep figure.
func SleepQuality(hours float64) string {
	switch {
	case hours <= 0:
		return "unknown"
	case hours < 5:
		return "Poor"
	case hours < 7:
		return "Fair"
	case hours <= 9:
		return "Good"
	default:
		return "Oversleeping"
	}
}

// TierDescription returns a short explanation shown next to the tier.
func TierDescription(tier domain.FitnessTier) string {
	switch tier {
	case domain.TierExcellent:
		return "Healthy weight with a very active routine"
	case domain.TierGood:
		return "Solid baseline - keep moving"
	case domain.TierFair:
		return "Room to build activity into the week"
	case domain.TierNeedsAttention:
		return "BMI outside the healthy range - consider a check-in"
	default:
		return "Save your profile to calculate"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
