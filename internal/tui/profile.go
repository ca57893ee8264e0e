package tui

import (
	"errors"
	"fmt"
	"strconv"

	"wellness/internal/analysis"
	"wellness/internal/domain"
	"wellness/internal/profile"
	"wellness/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// profileField is one editable row. Fields with options cycle instead of taking text.
type profileField struct {
	path    string
	label   string
	value   func(p domain.UserProfile) string
	options []string
}

var profileFields = []profileField{
	{profile.FieldName, "Name", func(p domain.UserProfile) string { return p.Name }, nil},
	{profile.FieldAge, "Age", func(p domain.UserProfile) string { return optionalInt(p.Age) }, nil},
	{profile.FieldGender, "Sex", func(p domain.UserProfile) string { return string(p.Sex) }, stringsOf(domain.Sexes)},
	{profile.FieldHeight, "Height (cm)", func(p domain.UserProfile) string { return optionalFloat(p.Height) }, nil},
	{profile.FieldWeight, "Weight (kg)", func(p domain.UserProfile) string { return optionalFloat(p.Weight) }, nil},
	{profile.FieldSleepHours, "Sleep (hours)", func(p domain.UserProfile) string { return optionalFloat(p.Lifestyle.SleepHours) }, nil},
	{profile.FieldDietType, "Diet", func(p domain.UserProfile) string { return string(p.Lifestyle.DietType) }, stringsOf(domain.DietTypes)},
	{profile.FieldActivityLevel, "Activity level", func(p domain.UserProfile) string { return string(p.Lifestyle.ActivityLevel) }, stringsOf(domain.ActivityLevels)},
}

// ProfileModel is the profile editing screen model
type ProfileModel struct {
	session *service.Session
	cursor  int
	input   textinput.Model
	message string
	err     error
}

// NewProfileModel creates a new profile model
func NewProfileModel(sess *service.Session) ProfileModel {
	input := textinput.New()
	input.CharLimit = 40
	input.Width = 30

	return ProfileModel{
		session: sess,
		input:   input,
	}
}

// Init initializes the profile screen
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether key presses belong to the field editor.
func (m ProfileModel) Editing() bool {
	return m.input.Focused()
}

// Update handles messages
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	ps := m.session.Profile()
	field := profileFields[m.cursor]

	if m.input.Focused() {
		switch keyMsg.String() {
		case "enter":
			m.err = ps.ApplyUserEdit(field.path, m.input.Value())
			if m.err == nil {
				m.message = field.label + " updated. Press 'c' to recalculate vitals."
			}
			m.input.Blur()
			return m, nil
		case "esc":
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.err = nil
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(profileFields)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", "e", " ":
		current := field.value(ps.Snapshot())
		if field.options != nil {
			next := cycle(field.options, current)
			m.err = ps.ApplyUserEdit(field.path, next)
			m.message = field.label + " set to " + next
			return m, nil
		}
		m.message = ""
		m.input.SetValue(current)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "c":
		r, err := ps.RecomputeVitals()
		if err != nil {
			m.err = err
			m.message = ""
			return m, nil
		}
		m.message = fmt.Sprintf("Vitals updated: BMI %.1f, %d kcal/day, %s.", r.BMI, r.DailyCalories, r.Tier)
	}
	return m, nil
}

// View renders the profile screen
func (m ProfileModel) View() string {
	p := m.session.Profile().Snapshot()

	rows := make([]string, 0, len(profileFields))
	for i, f := range profileFields {
		value := f.value(p)
		if i == m.cursor && m.input.Focused() {
			value = m.input.View()
		} else if value == "" {
			value = mutedStyle.Render("not set")
		}
		line := metricLabelStyle.Render(f.label) + value
		if i == m.cursor && !m.input.Focused() {
			line = tableSelectedStyle.Render(f.label + ": " + f.value(p))
		}
		rows = append(rows, line)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		RenderMetric("Email", p.Email, ""),
		RenderMetric("User id", p.UserID, ""),
		"",
	)

	var sections []string
	sections = append(sections, cardStyle.Width(64).Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Profile"), header, lipgloss.JoinVertical(lipgloss.Left, rows...))))

	var incomplete *analysis.IncompleteProfileError
	switch {
	case errors.As(m.err, &incomplete):
		sections = append(sections, warningStyle.Render("  "+m.err.Error()))
	case m.err != nil:
		sections = append(sections, errorStyle.Render("  "+m.err.Error()))
	case m.message != "":
		sections = append(sections, successStyle.Render("  "+m.message))
	}

	if m.input.Focused() {
		sections = append(sections, RenderKeyBar("enter", "save", "esc", "cancel"))
	} else {
		sections = append(sections, RenderKeyBar("j/k", "move", "enter", "edit / cycle", "c", "recalculate vitals"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func optionalFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stringsOf[T ~string](list []T) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = string(v)
	}
	return out
}
