package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Identity holds the body measurements the metrics engine needs.
type Identity struct {
	UserID string  `json:"user_id"`
	Email  string  `json:"email,omitempty"`
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Sex    Sex     `json:"gender"`
	Height float64 `json:"height"` // cm
	Weight float64 `json:"weight"` // kg
}

// Lifestyle holds self-reported habits.
type Lifestyle struct {
	SleepHours    float64       `json:"sleep_hours"`
	DietType      DietType      `json:"diet_type"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// LiveState is what the user is feeling and doing now.
type LiveState struct {
	Mood         Mood         `json:"mood"`
	EnergyLevel  int          `json:"energy_level"`
	ActivityType ActivityType `json:"activity_type"`
}

// Vitals are derived values. They are written by recomputation, never by hand.
type Vitals struct {
	HeartRate     int         `json:"heart_rate"`
	BMI           float64     `json:"bmi"`
	DailyCalories int         `json:"daily_calories"`
	FitnessLevel  FitnessTier `json:"fitness_level"`
	SleepQuality  string      `json:"sleep_quality"`
}

// Counters accumulate over a session.
type Counters struct {
	Steps          int     `json:"steps"`
	CaloriesBurned float64 `json:"calories_burned"`
}

// Todo is a single planner item.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UserProfile is the single per-session aggregate. Its JSON form is the backend's wire format.
type UserProfile struct {
	Identity
	Lifestyle Lifestyle `json:"lifestyle_inputs"`
	LiveState
	Vitals Vitals `json:"vitals"`
	Counters
	Goals           []string `json:"health_goals"`
	Todos           []Todo   `json:"todos"`
	LastInteraction string   `json:"last_interaction,omitempty"`
}

// Heart rate and energy bounds.
const (
	MinHeartRate   = 60
	MaxHeartRate   = 100
	MinEnergyLevel = 1
	MaxEnergyLevel = 10
)

// NewProfile returns the defaults a freshly signed-up user starts with.
func NewProfile(id Identity) UserProfile {
	return UserProfile{
		Identity: id,
		Lifestyle: Lifestyle{
			DietType:      DietNone,
			ActivityLevel: ActivitySedentary,
		},
		LiveState: LiveState{
			Mood:         MoodNeutral,
			EnergyLevel:  5,
			ActivityType: ActivityTypeSedentary,
		},
		Vitals: Vitals{
			FitnessLevel: TierUnknown,
			SleepQuality: "unknown",
		},
		Goals: []string{},
		Todos: []Todo{},
	}
}

// Clone returns a deep copy.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.Goals = append([]string(nil), p.Goals...)
	c.Todos = append([]Todo(nil), p.Todos...)
	if c.Goals == nil {
		c.Goals = []string{}
	}
	if c.Todos == nil {
		c.Todos = []Todo{}
	}
	return c
}

// Normalize coerces a profile received from outside into the closed enumerations and bounds.
// Unknown tags fall back to their neutral value.
func (p *UserProfile) Normalize() {
	if s, err := ParseSex(string(p.Sex)); err == nil {
		p.Sex = s
	} else if p.Sex != "" {
		p.Sex = SexOther
	}
	if p.Age < 0 {
		p.Age = 0
	}
	if p.Height < 0 {
		p.Height = 0
	}
	if p.Weight < 0 {
		p.Weight = 0
	}

	if d, err := ParseDietType(string(p.Lifestyle.DietType)); err == nil {
		p.Lifestyle.DietType = d
	} else {
		p.Lifestyle.DietType = DietNone
	}
	if a, err := ParseActivityLevel(string(p.Lifestyle.ActivityLevel)); err == nil {
		p.Lifestyle.ActivityLevel = a
	} else {
		p.Lifestyle.ActivityLevel = ActivitySedentary
	}
	p.Lifestyle.SleepHours = clampFloat(p.Lifestyle.SleepHours, 0, 24)

	if m, err := ParseMood(string(p.Mood)); err == nil {
		p.Mood = m
	} else {
		p.Mood = MoodNeutral
	}
	if t, err := ParseActivityType(string(p.ActivityType)); err == nil {
		p.ActivityType = t
	} else {
		p.ActivityType = ActivityTypeSedentary
	}
	p.EnergyLevel = ClampEnergy(p.EnergyLevel)

	// zero means no reading yet
	if p.Vitals.HeartRate != 0 {
		p.Vitals.HeartRate = ClampHeartRate(p.Vitals.HeartRate)
	}
	if f, err := ParseFitnessTier(string(p.Vitals.FitnessLevel)); err == nil {
		p.Vitals.FitnessLevel = f
	} else {
		p.Vitals.FitnessLevel = TierUnknown
	}
	if p.Vitals.SleepQuality == "" {
		p.Vitals.SleepQuality = "unknown"
	}

	if p.Steps < 0 {
		p.Steps = 0
	}
	if p.CaloriesBurned < 0 {
		p.CaloriesBurned = 0
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	if p.Todos == nil {
		p.Todos = []Todo{}
	}
}

// ClampHeartRate bounds bpm to [MinHeartRate, MaxHeartRate].
func ClampHeartRate(bpm int) int {
	return clampInt(bpm, MinHeartRate, MaxHeartRate)
}

// ClampEnergy bounds an energy level to [MinEnergyLevel, MaxEnergyLevel].
func ClampEnergy(level int) int {
	return clampInt(level, MinEnergyLevel, MaxEnergyLevel)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserIDFromEmail derives the backend user id: lower-cased, trimmed, '@' and '.' replaced by '_'.
func UserIDFromEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return strings.NewReplacer("@", "_", ".", "_").Replace(normalized)
}

// ValidateEmail checks the address has a local part, a domain and a dot.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &ValidationError{Field: "email", Value: email, Reason: "email format required"}
	}
	return nil
}

// ValidateSignup checks the fields required to create an account.
func ValidateSignup(email, password, name string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Value: name, Reason: "full name required"}
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if len([]rune(password)) < 8 || !upper || !lower || !digit || !special {
		return &ValidationError{
			Field:  "password",
			Value:  "********",
			Reason: "needs 8+ characters with upper, lower, digit and special characters",
		}
	}
	return nil
}

// MergeJSON overlays the top-level keys present in patch onto p and returns the result.
// Keys absent from patch keep their current values. The user id never changes.
func (p UserProfile) MergeJSON(patch []byte) (UserProfile, error) {
	base, err := json.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("encoding profile: %w", err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return p, fmt.Errorf("decoding profile: %w", err)
	}
	if err := json.Unmarshal(patch, &fields); err != nil {
		return p, fmt.Errorf("decoding profile patch: %w", err)
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return p, fmt.Errorf("encoding merged profile: %w", err)
	}

	var out UserProfile
	if err := json.Unmarshal(merged, &out); err != nil {
		return p, fmt.Errorf("decoding merged profile: %w", err)
	}
	out.UserID = p.UserID
	out.Normalize()
	return out.Clone(), nil
}
