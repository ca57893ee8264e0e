package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keyboard Shortcuts"))

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Activity"},
		{"3", "Planner"},
		{"4", "Profile"},
		{"5", "Coach"},
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"ctrl+s", "Sync profile now"},
		{"ctrl+l", "Log out"},
		{"q", "Quit"},
	}))

	sections = append(sections, m.renderSection("Activity", []keyHelp{
		{"n", "Log steps"},
		{"a", "Cycle activity (sedentary, walking, workout)"},
		{"m", "Cycle mood"},
		{"+ / -", "Energy level"},
	}))

	sections = append(sections, m.renderSection("Planner", []keyHelp{
		{"tab", "Switch between goals and todos"},
		{"g / t", "Add goal / todo"},
		{"space", "Toggle todo"},
		{"d", "Delete selected"},
	}))

	sections = append(sections, m.renderSection("Profile", []keyHelp{
		{"enter", "Edit field, or cycle a choice"},
		{"c", "Recalculate vitals"},
	}))

	sections = append(sections, m.renderMetricsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"BMI", "Weight / height². 18.5-24.9 is the healthy band."},
		{"BMR", "Mifflin-St Jeor resting energy estimate."},
		{"Daily calories", "BMR × activity multiplier (1.2 sedentary to 1.9 very active)."},
		{"Fitness", "From BMI band and activity level. Recalculate after editing your profile."},
		{"Heart rate / steps", "Simulated readings that drift every few seconds."},
		{"Calories burned", "Steps × 0.04 kcal."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
