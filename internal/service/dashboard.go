package service

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"wellness/internal/analysis"
	"wellness/internal/domain"
	"wellness/internal/telemetry"
)

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	Profile domain.UserProfile

	// Stored vitals plus BMR, which is only ever shown
	BMR             float64
	VitalsError     error // set when age, height or weight is missing
	TierDescription string

	Macros analysis.Macros
	Sleep  telemetry.SleepStages

	// Chart series
	HeartRates   []float64
	StepRates    []float64
	CalorieTrend []float64

	// Planner progress
	TodosDone  int
	TodosTotal int

	// Display strings
	StepsLabel    string // "12,345"
	CaloriesLabel string // "493.8 kcal"
	SyncLabel     string // "synced 3 seconds ago"

	Sync SyncStatus
}

// BuildDashboard assembles the dashboard from the session's current state.
func BuildDashboard(sess *Session) (*DashboardData, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	p := sess.Profile().Snapshot()
	history := sess.History()
	status := sess.SyncStatus()
	now := sess.svc.opts.Clock.Now()

	data := &DashboardData{
		Profile:         p,
		TierDescription: analysis.TierDescription(p.Vitals.FitnessLevel),
		Macros:          analysis.DailyMacros(p.Vitals.DailyCalories, p.Weight, p.Goals),
		Sleep:           telemetry.SleepBreakdown(p.Lifestyle.SleepHours),
		HeartRates:      telemetry.Values(history.HeartRate),
		StepRates:       telemetry.Values(history.StepRate),
		StepsLabel:      humanize.Comma(int64(p.Steps)),
		CaloriesLabel:   fmt.Sprintf("%.1f kcal", p.CaloriesBurned),
		SyncLabel:       SyncLabel(status, now),
		Sync:            status,
	}

	if r, err := analysis.ComputeVitals(p.Identity, p.Lifestyle); err != nil {
		data.VitalsError = err
	} else {
		data.BMR = r.BMR
	}

	if p.Vitals.DailyCalories > 0 {
		data.CalorieTrend = telemetry.StaticSeries(float64(p.Vitals.DailyCalories), sess.svc.opts.ChartPoints)
	}

	for _, t := range p.Todos {
		data.TodosTotal++
		if t.Completed {
			data.TodosDone++
		}
	}

	return data, nil
}

// SyncLabel describes status for the status bar.
func SyncLabel(status SyncStatus, now time.Time) string {
	var label string
	switch {
	case status.LastError != "":
		label = "sync failed: " + status.LastError
	case status.LastSync.IsZero():
		label = "never synced"
	default:
		label = "synced " + humanize.RelTime(status.LastSync, now, "ago", "from now")
	}
	if status.Offline {
		label = "offline, " + label
	}
	if status.Pending {
		label += " (changes pending)"
	}
	return label
}
