package tui

import (
	"fmt"
	"strings"

	"wellness/internal/domain"
	"wellness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	session *service.Session
	data    *service.DashboardData
	loading bool
	err     error
	width   int
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(sess *service.Session, width int) DashboardModel {
	return DashboardModel{
		session: sess,
		loading: true,
		width:   width,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := service.BuildDashboard(m.session)
	return dashboardDataMsg{data: data, err: err}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.data != nil {
			m.data = msg.data
		}
	case refreshMsg:
		return m, m.loadData
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading && m.data == nil {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	var sections []string

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderVitalsCard(), "  ", m.renderTodayCard())
	sections = append(sections, topRow)

	midRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderNutritionCard(), "  ", m.renderSleepCard())
	sections = append(sections, midRow)

	if len(m.data.HeartRates) > 2 {
		sections = append(sections, m.renderChart("Heart Rate (bpm)", m.data.HeartRates, 0))
	}
	if len(m.data.StepRates) > 2 {
		sections = append(sections, m.renderChart("Steps per Tick", m.data.StepRates, 0))
	}

	sections = append(sections, RenderKeyBar("r", "refresh", "ctrl+s", "sync now", "2", "log steps", "4", "edit profile"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderVitalsCard() string {
	title := cardTitleStyle.Render("Vitals")
	d := m.data
	v := d.Profile.Vitals

	hr := "--"
	if v.HeartRate > 0 {
		hr = heartStyle.Render(fmt.Sprintf("♥ %d bpm", v.HeartRate))
	}

	lines := []string{
		RenderMetric("Heart rate", hr, heartTrend(d.HeartRates)),
		RenderMetric("BMI", formatBMI(v.BMI), ""),
		RenderMetric("Daily calories", formatInt(v.DailyCalories, " kcal"), ""),
	}
	if d.VitalsError == nil {
		lines = append(lines, RenderMetric("BMR", fmt.Sprintf("%.0f kcal", d.BMR), ""))
	}
	lines = append(lines,
		RenderMetric("Fitness", string(v.FitnessLevel), ""),
		"",
		mutedStyle.Width(36).Render(d.TierDescription),
	)
	if d.VitalsError != nil {
		lines = append(lines, warningStyle.Width(36).Render(d.VitalsError.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderTodayCard() string {
	title := cardTitleStyle.Render("Today")
	p := m.data.Profile

	energy := float64(p.EnergyLevel) / float64(domain.MaxEnergyLevel)
	todos := "none yet"
	if m.data.TodosTotal > 0 {
		todos = fmt.Sprintf("%d/%d done", m.data.TodosDone, m.data.TodosTotal)
	}

	lines := []string{
		RenderMetric("Steps", m.data.StepsLabel, ""),
		RenderMetric("Burned", m.data.CaloriesLabel, ""),
		RenderMetric("Activity", string(p.ActivityType), ""),
		RenderMetric("Mood", string(p.Mood), ""),
		RenderMetric("Energy", fmt.Sprintf("%d/10 ", p.EnergyLevel), "") + RenderProgressBar(energy, 10),
		RenderMetric("Todos", todos, ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderNutritionCard() string {
	title := cardTitleStyle.Render("Nutrition Targets")
	mac := m.data.Macros

	lines := []string{
		RenderMetric("Calories", formatInt(mac.Calories, " kcal"), ""),
		RenderMetric("Protein", fmt.Sprintf("%d g", mac.ProteinG), fmt.Sprintf("(%.1f g/kg)", mac.ProteinPerK)),
		RenderMetric("Fat", fmt.Sprintf("%d g", mac.FatG), ""),
		RenderMetric("Carbs", fmt.Sprintf("%d g", mac.CarbsG), ""),
		RenderMetric("Diet", string(m.data.Profile.Lifestyle.DietType), ""),
	}
	if len(m.data.CalorieTrend) > 2 {
		spark := asciigraph.Plot(m.data.CalorieTrend, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Precision(0))
		lines = append(lines, "", spark)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderSleepCard() string {
	title := cardTitleStyle.Render("Sleep")
	s := m.data.Sleep
	hours := m.data.Profile.Lifestyle.SleepHours

	if hours == 0 {
		return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("No sleep logged. Set it on the profile screen.")))
	}

	stage := func(label string, h float64) string {
		return RenderMetric(label, fmt.Sprintf("%.1fh ", h), "") + RenderProgressBar(h/hours, 12)
	}
	lines := []string{
		stage("Deep", s.Deep),
		stage("Light", s.Light),
		stage("REM", s.REM),
		stage("Awake", s.Awake),
		"",
		RenderMetric("Quality", m.data.Profile.Vitals.SleepQuality, ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart(name string, data []float64, precision uint) string {
	title := cardTitleStyle.Render(name)

	width := 60
	if m.width > 20 && m.width-20 < width {
		width = m.width - 20
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Precision(precision),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

// heartTrend compares the latest sample with the one before it.
func heartTrend(samples []float64) string {
	if len(samples) < 2 {
		return ""
	}
	diff := samples[len(samples)-1] - samples[len(samples)-2]
	switch {
	case diff > 0:
		return fmt.Sprintf("+%.0f", diff)
	case diff < 0:
		return fmt.Sprintf("%.0f", diff)
	}
	return ""
}

func formatBMI(bmi float64) string {
	if bmi == 0 {
		return "--"
	}
	return fmt.Sprintf("%.1f", bmi)
}

func formatInt(n int, unit string) string {
	if n == 0 {
		return "--"
	}
	return fmt.Sprintf("%d%s", n, unit)
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
