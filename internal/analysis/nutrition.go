package analysis

import (
	"math"
	"strings"
)

// Macros is a daily macronutrient split in grams.
type Macros struct {
	Calories    int
	ProteinG    int
	FatG        int
	CarbsG      int
	ProteinPerK float64
}

// Macro fallbacks used before the profile has been saved.
const (
	defaultMacroCalories = 2000
	defaultMacroWeight   = 70
)

// DailyMacros splits a calorie target into protein, fat and carbs.
// Protein per kg follows the goals: muscle goals 1.8, weight goals 1.4, otherwise 1.0.
// Fat takes 25% of calories and carbs take the remainder.
func DailyMacros(dailyCalories int, weightKg float64, goals []string) Macros {
	cal := dailyCalories
	if cal <= 0 {
		cal = defaultMacroCalories
	}
	weight := weightKg
	if weight <= 0 {
		weight = defaultMacroWeight
	}

	perKg := 1.0
	switch {
	case anyGoalMentions(goals, "muscle"):
		perKg = 1.8
	case anyGoalMentions(goals, "weight"):
		perKg = 1.4
	}

	protein := int(math.Round(weight * perKg))
	fat := int(math.Round(float64(cal) * 0.25 / 9))
	carbs := int(math.Round(float64(cal-protein*4-fat*9) / 4))
	if carbs < 0 {
		carbs = 0
	}

	return Macros{
		Calories:    cal,
		ProteinG:    protein,
		FatG:        fat,
		CarbsG:      carbs,
		ProteinPerK: perKg,
	}
}

func anyGoalMentions(goals []string, word string) bool {
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g), word) {
			return true
		}
	}
	return false
}
