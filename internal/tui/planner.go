package tui

import (
	"fmt"

	"wellness/internal/domain"
	"wellness/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type plannerList int

const (
	listGoals plannerList = iota
	listTodos
)

// PlannerModel is the goals and todos screen model
type PlannerModel struct {
	session *service.Session
	list    plannerList
	cursor  int
	input   textinput.Model
	adding  plannerList
	err     error
}

// NewPlannerModel creates a new planner model
func NewPlannerModel(sess *service.Session) PlannerModel {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 48

	return PlannerModel{
		session: sess,
		list:    listTodos,
		input:   input,
	}
}

// Init initializes the planner screen
func (m PlannerModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether key presses belong to the text entry.
func (m PlannerModel) Editing() bool {
	return m.input.Focused()
}

// Update handles messages
func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	ps := m.session.Profile()

	if m.input.Focused() {
		switch keyMsg.String() {
		case "enter":
			text := m.input.Value()
			if m.adding == listGoals {
				m.err = ps.AddGoal(text)
			} else {
				_, m.err = ps.AddTodo(text)
			}
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		case "esc":
			m.input.SetValue("")
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	p := ps.Snapshot()
	m.err = nil

	switch keyMsg.String() {
	case "tab":
		if m.list == listGoals {
			m.list = listTodos
		} else {
			m.list = listGoals
		}
		m.cursor = 0
	case "j", "down":
		if m.cursor < m.length(p)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.adding = listGoals
		m.input.Placeholder = "new goal, e.g. build muscle"
		return m, m.input.Focus()
	case "t":
		m.adding = listTodos
		m.input.Placeholder = "new todo"
		return m, m.input.Focus()
	case " ", "x":
		if m.list == listTodos && m.cursor < len(p.Todos) {
			m.err = ps.ToggleTodo(p.Todos[m.cursor].ID)
		}
	case "d", "delete":
		switch {
		case m.list == listTodos && m.cursor < len(p.Todos):
			m.err = ps.RemoveTodo(p.Todos[m.cursor].ID)
		case m.list == listGoals && m.cursor < len(p.Goals):
			m.err = ps.RemoveGoal(p.Goals[m.cursor])
		}
		if m.cursor > 0 && m.cursor >= m.length(ps.Snapshot()) {
			m.cursor--
		}
	}
	return m, nil
}

func (m PlannerModel) length(p domain.UserProfile) int {
	if m.list == listGoals {
		return len(p.Goals)
	}
	return len(p.Todos)
}

// View renders the planner screen
func (m PlannerModel) View() string {
	p := m.session.Profile().Snapshot()

	goalRows := make([]string, 0, len(p.Goals))
	for i, g := range p.Goals {
		goalRows = append(goalRows, m.row(listGoals, i, "• "+truncate(g, 44)))
	}
	if len(goalRows) == 0 {
		goalRows = append(goalRows, mutedStyle.Render("No goals yet. Press 'g' to add one."))
	}

	todoRows := make([]string, 0, len(p.Todos))
	for i, t := range p.Todos {
		box := "[ ] "
		text := truncate(t.Text, 44)
		if t.Completed {
			box = "[x] "
			text = doneStyle.Render(text)
		}
		todoRows = append(todoRows, m.row(listTodos, i, box+text))
	}
	if len(todoRows) == 0 {
		todoRows = append(todoRows, mutedStyle.Render("Nothing planned. Press 't' to add a todo."))
	}

	var sections []string
	sections = append(sections, m.card(fmt.Sprintf("Goals (%d)", len(p.Goals)), listGoals, goalRows))
	sections = append(sections, m.card(fmt.Sprintf("Todos (%d)", len(p.Todos)), listTodos, todoRows))

	if m.input.Focused() {
		label := "New todo"
		if m.adding == listGoals {
			label = "New goal"
		}
		sections = append(sections, "  "+metricLabelStyle.Render(label)+m.input.View())
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("  "+m.err.Error()))
	}

	if m.input.Focused() {
		sections = append(sections, RenderKeyBar("enter", "save", "esc", "cancel"))
	} else {
		sections = append(sections, RenderKeyBar("tab", "switch list", "j/k", "move", "g", "add goal", "t", "add todo", "space", "toggle", "d", "delete"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PlannerModel) row(list plannerList, i int, text string) string {
	if m.list == list && m.cursor == i {
		return tableSelectedStyle.Render(text)
	}
	return tableRowStyle.Render(text)
}

func (m PlannerModel) card(title string, list plannerList, rows []string) string {
	style := cardStyle.Width(60)
	if m.list == list {
		style = style.BorderForeground(primaryColor)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title), lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
