package tui

import (
	"context"
	"fmt"
	"strings"

	"wellness/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type coachRequest int

const (
	requestChat coachRequest = iota
	requestAsk
	requestMeal
	requestPrescription
	requestRecommend
	requestPlan
)

var coachPrompts = map[coachRequest]string{
	requestChat:         "Message",
	requestAsk:          "Question",
	requestMeal:         "Meal photo path",
	requestPrescription: "Prescription path",
}

type coachEntry struct {
	who  string
	text string
}

// CoachModel is the AI coach screen model
type CoachModel struct {
	coach   *service.CoachService
	session *service.Session

	input    textinput.Model
	pending  coachRequest
	spinner  spinner.Model
	viewport viewport.Model
	waiting  bool
	log      []coachEntry
	width    int
	height   int
}

// NewCoachModel creates a new coach model
func NewCoachModel(coach *service.CoachService, sess *service.Session, width, height int) CoachModel {
	input := textinput.New()
	input.CharLimit = 500
	input.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = heartStyle

	m := CoachModel{
		coach:   coach,
		session: sess,
		input:   input,
		spinner: sp,
		width:   width,
		height:  height,
	}
	m.viewport = viewport.New(m.viewportSize())
	m.viewport.SetContent(m.renderLog())
	return m
}

// Init initializes the coach screen
func (m CoachModel) Init() tea.Cmd {
	return nil
}

// Editing reports whether key presses belong to the prompt.
func (m CoachModel) Editing() bool {
	return m.input.Focused()
}

type coachReplyMsg struct {
	text string
	err  error
}

// Update handles messages
func (m CoachModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coachReplyMsg:
		m.waiting = false
		if msg.err != nil {
			m.append("error", msg.err.Error())
		} else {
			m.append("coach", msg.text)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width, m.viewport.Height = m.viewportSize()
		m.viewport.SetContent(m.renderLog())
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				text := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				m.input.Blur()
				if text == "" {
					return m, nil
				}
				return m.send(m.pending, text)
			case "esc":
				m.input.SetValue("")
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.waiting {
			break
		}
		switch msg.String() {
		case "c", "enter":
			return m.prompt(requestChat)
		case "a":
			return m.prompt(requestAsk)
		case "m":
			return m.prompt(requestMeal)
		case "x":
			return m.prompt(requestPrescription)
		case "r":
			return m.send(requestRecommend, "")
		case "p":
			return m.send(requestPlan, "")
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m CoachModel) prompt(req coachRequest) (tea.Model, tea.Cmd) {
	m.pending = req
	m.input.Placeholder = strings.ToLower(coachPrompts[req])
	return m, m.input.Focus()
}

func (m CoachModel) send(req coachRequest, text string) (tea.Model, tea.Cmd) {
	switch req {
	case requestRecommend:
		m.append("you", "What should I focus on?")
	case requestPlan:
		m.append("you", "What's my plan for today?")
	case requestMeal, requestPrescription:
		m.append("you", "["+coachPrompts[req]+"] "+text)
	default:
		m.append("you", text)
	}
	m.waiting = true

	coach, sess := m.coach, m.session
	call := func() tea.Msg {
		ctx := context.Background()
		var reply string
		var err error
		switch req {
		case requestChat:
			reply, err = coach.Chat(ctx, sess, text)
		case requestAsk:
			reply, err = coach.Ask(ctx, sess, text)
		case requestMeal:
			reply, err = coach.AnalyzeMeal(ctx, sess, text)
		case requestPrescription:
			reply, err = coach.AnalyzePrescription(ctx, sess, text)
		case requestRecommend:
			reply, err = coach.Recommend(ctx, sess)
		case requestPlan:
			reply, err = coach.Plan(ctx, sess)
		}
		return coachReplyMsg{text: reply, err: err}
	}
	return m, tea.Batch(call, m.spinner.Tick)
}

func (m *CoachModel) append(who, text string) {
	m.log = append(m.log, coachEntry{who: who, text: text})
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m CoachModel) viewportSize() (int, int) {
	w, h := 80, 16
	if m.width > 10 {
		w = m.width - 6
	}
	if m.height > 16 {
		h = m.height - 14
	}
	return w, h
}

func (m CoachModel) renderLog() string {
	if len(m.log) == 0 {
		return mutedStyle.Render("Ask your coach anything. Your profile is sent along as context.")
	}

	width, _ := m.viewportSize()
	body := lipgloss.NewStyle().Width(width - 4)

	var lines []string
	for _, e := range m.log {
		var who string
		switch e.who {
		case "you":
			who = helpKeyStyle.Render("You")
		case "error":
			who = errorStyle.Render("Error")
		default:
			who = successStyle.Render("Coach")
		}
		lines = append(lines, who, indent(body.Render(e.text), 2), "")
	}
	return strings.Join(lines, "\n")
}

// View renders the coach screen
func (m CoachModel) View() string {
	var sections []string

	sections = append(sections, cardStyle.Render(m.viewport.View()))

	switch {
	case m.waiting:
		sections = append(sections, fmt.Sprintf("  %s %s", m.spinner.View(), mutedStyle.Render("Coach is thinking...")))
	case m.input.Focused():
		sections = append(sections, "  "+metricLabelStyle.Render(coachPrompts[m.pending])+m.input.View())
	}

	if m.input.Focused() {
		sections = append(sections, RenderKeyBar("enter", "send", "esc", "cancel"))
	} else {
		sections = append(sections, RenderKeyBar("c", "chat", "a", "ask", "r", "recommend", "p", "plan", "m", "meal photo", "x", "prescription", "↑/↓", "scroll"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
