package analysis

import (
	"math"
	"strconv"
	"strings"
)

// CaloriesPerStep is the fixed burn coefficient.
const CaloriesPerStep = 0.04

// CaloriesForSteps returns steps * 0.04 rounded to one decimal.
func CaloriesForSteps(steps int) float64 {
	return round1(float64(steps) * CaloriesPerStep)
}

// ApplyStepDelta adds max(0, delta) steps and recomputes calories from the new total.
// A non-positive delta returns the inputs unchanged. The total saturates at math.MaxInt.
func ApplyStepDelta(steps int, calories float64, delta int) (int, float64) {
	if delta <= 0 {
		return steps, calories
	}
	total := math.MaxInt
	if delta <= math.MaxInt-steps {
		total = steps + delta
	}
	return total, CaloriesForSteps(total)
}

// ParseStepDelta reads a step entry. Anything that is not a positive integer counts as zero.
// A leading integer prefix is accepted ("250 steps" reads as 250).
func ParseStepDelta(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
