package tui

import (
	"fmt"

	"wellness/internal/analysis"
	"wellness/internal/domain"
	"wellness/internal/profile"
	"wellness/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivityModel is the activity logging screen model
type ActivityModel struct {
	session *service.Session
	steps   textinput.Model
	message string
	err     error
}

// NewActivityModel creates a new activity model
func NewActivityModel(sess *service.Session) ActivityModel {
	steps := textinput.New()
	steps.Placeholder = "steps walked, e.g. 2500"
	steps.CharLimit = 7
	steps.Width = 24

	return ActivityModel{
		session: sess,
		steps:   steps,
	}
}

// Init initializes the activity screen
func (m ActivityModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether key presses belong to the step entry.
func (m ActivityModel) Editing() bool {
	return m.steps.Focused()
}

// Update handles messages
func (m ActivityModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.steps.Focused() {
		switch keyMsg.String() {
		case "enter":
			raw := m.steps.Value()
			before := m.session.Profile().Snapshot().Steps
			steps, calories := m.session.Profile().RecordStepsInput(raw)
			if steps == before {
				m.message = fmt.Sprintf("Ignored %q: enter a positive whole number.", raw)
			} else {
				m.message = fmt.Sprintf("Added %d steps. Total %d, %.1f kcal burned.", steps-before, steps, calories)
			}
			m.steps.SetValue("")
			m.steps.Blur()
			return m, nil
		case "esc":
			m.steps.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.steps, cmd = m.steps.Update(msg)
		return m, cmd
	}

	m.err = nil
	ps := m.session.Profile()
	p := ps.Snapshot()

	switch keyMsg.String() {
	case "n", "enter":
		m.message = ""
		return m, m.steps.Focus()
	case "a":
		next := cycle(domain.ActivityTypes, p.ActivityType)
		m.err = ps.ApplyUserEdit(profile.FieldActivityType, string(next))
		m.message = "Activity set to " + string(next)
	case "m":
		next := cycle(domain.Moods, p.Mood)
		m.err = ps.ApplyUserEdit(profile.FieldMood, string(next))
		m.message = "Mood set to " + string(next)
	case "+", "=":
		m.err = ps.ApplyUserEdit(profile.FieldEnergyLevel, p.EnergyLevel+1)
	case "-":
		m.err = ps.ApplyUserEdit(profile.FieldEnergyLevel, p.EnergyLevel-1)
	}
	return m, nil
}

// View renders the activity screen
func (m ActivityModel) View() string {
	p := m.session.Profile().Snapshot()

	var sections []string

	lines := []string{
		RenderMetric("Steps today", fmt.Sprintf("%d", p.Steps), ""),
		RenderMetric("Calories burned", fmt.Sprintf("%.1f kcal", p.CaloriesBurned), ""),
		RenderMetric("Per step", fmt.Sprintf("%.2f kcal", analysis.CaloriesPerStep), ""),
		"",
		metricLabelStyle.Render("Log steps") + m.steps.View(),
	}
	sections = append(sections, cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Steps"), lipgloss.JoinVertical(lipgloss.Left, lines...))))

	live := []string{
		RenderMetric("Activity", string(p.ActivityType), activityHint(p.ActivityType)),
		RenderMetric("Mood", string(p.Mood), ""),
		RenderMetric("Energy", fmt.Sprintf("%d/10 ", p.EnergyLevel), "") +
			RenderProgressBar(float64(p.EnergyLevel)/float64(domain.MaxEnergyLevel), 10),
	}
	sections = append(sections, cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Right Now"), lipgloss.JoinVertical(lipgloss.Left, live...))))

	if m.err != nil {
		sections = append(sections, errorStyle.Render("  "+m.err.Error()))
	} else if m.message != "" {
		sections = append(sections, successStyle.Render("  "+m.message))
	}

	if m.steps.Focused() {
		sections = append(sections, RenderKeyBar("enter", "add steps", "esc", "cancel"))
	} else {
		sections = append(sections, RenderKeyBar("n", "log steps", "a", "activity", "m", "mood", "+/-", "energy"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func activityHint(a domain.ActivityType) string {
	switch a {
	case domain.ActivityTypeWalking:
		return "(about 5-14 steps every tick)"
	case domain.ActivityTypeWorkout:
		return "(about 15-34 steps every tick)"
	}
	return ""
}

// cycle returns the value after cur in list, wrapping around.
func cycle[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
