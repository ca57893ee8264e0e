package service

const (
	// Scheduler job keys
	JobPersist   = "persist"
	JobTelemetry = "telemetry"
	JobBattery   = "battery"

	// Seed ranges for the dashboard charts
	SeedHeartRateMin = 65
	SeedHeartRateMax = 85
	SeedStepRateMin  = 0
	SeedStepRateMax  = 40

	// Default chart length when none is configured
	DefaultChartPoints = 30

	// Largest meal or prescription photo sent to the coach
	MaxImageBytes = 5 << 20
)
