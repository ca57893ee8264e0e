package domain

import "strings"

// Sex is the biological sex category used by the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Sexes lists the accepted values in display order.
var Sexes = []Sex{SexMale, SexFemale, SexOther}

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

var ActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive,
}

// ActivityType is what the user is doing right now. It drives synthetic step accrual.
type ActivityType string

const (
	ActivityTypeSedentary ActivityType = "sedentary"
	ActivityTypeWalking   ActivityType = "walking"
	ActivityTypeWorkout   ActivityType = "workout"
)

var ActivityTypes = []ActivityType{ActivityTypeSedentary, ActivityTypeWalking, ActivityTypeWorkout}

// Mood is a descriptive tag.
type Mood string

const (
	MoodNeutral   Mood = "neutral"
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodStressed  Mood = "stressed"
	MoodEnergetic Mood = "energetic"
	MoodTired     Mood = "tired"
)

var Moods = []Mood{MoodNeutral, MoodHappy, MoodSad, MoodStressed, MoodEnergetic, MoodTired}

// DietType is descriptive only; nothing is computed from it.
type DietType string

const (
	DietNone        DietType = "None"
	DietBalanced    DietType = "balanced"
	DietVegan       DietType = "vegan"
	DietKeto        DietType = "keto"
	DietHighProtein DietType = "high-protein"
)

var DietTypes = []DietType{DietNone, DietBalanced, DietVegan, DietKeto, DietHighProtein}

// FitnessTier is the classification produced by the metrics engine.
type FitnessTier string

const (
	TierUnknown        FitnessTier = "Unknown"
	TierExcellent      FitnessTier = "Excellent"
	TierGood           FitnessTier = "Good"
	TierFair           FitnessTier = "Fair"
	TierNeedsAttention FitnessTier = "Needs Attention"
)

var FitnessTiers = []FitnessTier{TierUnknown, TierExcellent, TierGood, TierFair, TierNeedsAttention}

// ParseSex validates a sex category.
func ParseSex(raw string) (Sex, error) {
	return parseEnum("gender", raw, Sexes)
}

// ParseActivityLevel validates an activity level.
func ParseActivityLevel(raw string) (ActivityLevel, error) {
	return parseEnum("lifestyle_inputs.activity_level", raw, ActivityLevels)
}

// ParseActivityType validates an activity type.
func ParseActivityType(raw string) (ActivityType, error) {
	return parseEnum("activity_type", raw, ActivityTypes)
}

// ParseMood validates a mood tag.
func ParseMood(raw string) (Mood, error) {
	return parseEnum("mood", raw, Moods)
}

// ParseDietType validates a diet tag. Matching is case-insensitive so "none" maps to "None".
func ParseDietType(raw string) (DietType, error) {
	for _, d := range DietTypes {
		if strings.EqualFold(string(d), strings.TrimSpace(raw)) {
			return d, nil
		}
	}
	return "", &ValidationError{Field: "lifestyle_inputs.diet_type", Value: raw, Reason: "unknown diet type"}
}

// ParseFitnessTier validates a tier label.
func ParseFitnessTier(raw string) (FitnessTier, error) {
	return parseEnum("vitals.fitness_level", raw, FitnessTiers)
}

func parseEnum[T ~string](field, raw string, valid []T) (T, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range valid {
		if strings.ToLower(string(candidate)) == v {
			return candidate, nil
		}
	}
	var zero T
	return zero, &ValidationError{Field: field, Value: raw, Reason: "must be one of " + joinValues(valid)}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
