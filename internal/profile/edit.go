package profile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"wellness/internal/domain"
)

// Editable field paths accepted by ApplyUserEdit.
const (
	FieldName          = "name"
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldHeight        = "height"
	FieldWeight        = "weight"
	FieldMood          = "mood"
	FieldEnergyLevel   = "energy_level"
	FieldActivityType  = "activity_type"
	FieldSleepHours    = "lifestyle_inputs.sleep_hours"
	FieldDietType      = "lifestyle_inputs.diet_type"
	FieldActivityLevel = "lifestyle_inputs.activity_level"
)

// ApplyUserEdit sets one field. Values are validated here, at the write boundary.
// Derived vitals are never recomputed as a side effect; call RecomputeVitals for that.
func (s *Store) ApplyUserEdit(path string, value any) error {
	set, err := editFor(path, value)
	if err != nil {
		return err
	}
	return s.mutate(func(p *domain.UserProfile) error {
		set(p)
		return nil
	})
}

// editFor validates value for path and returns the setter to run under the lock.
func editFor(path string, value any) (func(p *domain.UserProfile), error) {
	switch path {
	case FieldName:
		name := strings.TrimSpace(toString(value))
		return func(p *domain.UserProfile) { p.Name = name }, nil

	case FieldAge:
		n, ok := toInt(value)
		if !ok || n < 0 || n > 130 {
			return nil, invalid(path, value, "age must be a whole number between 0 and 130")
		}
		return func(p *domain.UserProfile) { p.Age = n }, nil

	case FieldGender:
		sex, err := domain.ParseSex(toString(value))
		if err != nil {
			return nil, err
		}
		return func(p *domain.UserProfile) { p.Sex = sex }, nil

	case FieldHeight, FieldWeight:
		f, ok := toFloat(value)
		if !ok || f < 0 {
			return nil, invalid(path, value, "must be a non-negative number")
		}
		if path == FieldHeight {
			return func(p *domain.UserProfile) { p.Height = f }, nil
		}
		return func(p *domain.UserProfile) { p.Weight = f }, nil

	case FieldMood:
		mood, err := domain.ParseMood(toString(value))
		if err != nil {
			return nil, err
		}
		return func(p *domain.UserProfile) { p.Mood = mood }, nil

	case FieldEnergyLevel:
		n, ok := toInt(value)
		if !ok || n < domain.MinEnergyLevel || n > domain.MaxEnergyLevel {
			return nil, invalid(path, value, "energy must be between 1 and 10")
		}
		return func(p *domain.UserProfile) { p.EnergyLevel = n }, nil

	case FieldActivityType:
		at, err := domain.ParseActivityType(toString(value))
		if err != nil {
			return nil, err
		}
		return func(p *domain.UserProfile) { p.ActivityType = at }, nil

	case FieldSleepHours:
		f, ok := toFloat(value)
		if !ok || f < 0 || f > 24 {
			return nil, invalid(path, value, "sleep hours must be between 0 and 24")
		}
		return func(p *domain.UserProfile) { p.Lifestyle.SleepHours = f }, nil

	case FieldDietType:
		diet, err := domain.ParseDietType(toString(value))
		if err != nil {
			return nil, err
		}
		return func(p *domain.UserProfile) { p.Lifestyle.DietType = diet }, nil

	case FieldActivityLevel:
		level, err := domain.ParseActivityLevel(toString(value))
		if err != nil {
			return nil, err
		}
		return func(p *domain.UserProfile) { p.Lifestyle.ActivityLevel = level }, nil
	}

	if strings.HasPrefix(path, "vitals.") || path == "steps" || path == "calories_burned" {
		return nil, invalid(path, value, "derived field, not editable")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
}

func invalid(path string, value any, reason string) error {
	return &domain.ValidationError{Field: path, Value: value, Reason: reason}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
