package tui

import (
	"context"
	"errors"
	"fmt"

	"wellness/internal/domain"
	"wellness/internal/service"
	"wellness/internal/wellness"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldFullName
)

// LoginModel is the login and signup screen model
type LoginModel struct {
	sessions *service.SessionService
	signup   bool
	inputs   []textinput.Model
	focus    int
	busy     bool
	err      error
}

// NewLoginModel creates a new login model
func NewLoginModel(sessions *service.SessionService) LoginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 36

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	name.Width = 36

	return LoginModel{
		sessions: sessions,
		inputs:   []textinput.Model{email, password, name},
	}
}

// Init initializes the login screen
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// SessionStartedMsg is sent when a user has logged in or signed up
type SessionStartedMsg struct {
	Session *service.Session
}

type loginResultMsg struct {
	session *service.Session
	err     error
}

// Update handles messages
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		sess := msg.session
		return m, func() tea.Msg { return SessionStartedMsg{Session: sess} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t":
			m.signup = !m.signup
			m.err = nil
			if !m.signup && m.focus == fieldFullName {
				return m, m.setFocus(fieldEmail)
			}
			return m, nil
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % m.fieldCount())
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + m.fieldCount() - 1) % m.fieldCount())
		case "enter":
			if m.focus < m.fieldCount()-1 {
				return m, m.setFocus(m.focus + 1)
			}
			m.busy = true
			m.err = nil
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m LoginModel) fieldCount() int {
	if m.signup {
		return 3
	}
	return 2
}

func (m *LoginModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m LoginModel) submit() tea.Cmd {
	email := m.inputs[fieldEmail].Value()
	password := m.inputs[fieldPassword].Value()
	name := m.inputs[fieldFullName].Value()
	signup := m.signup
	sessions := m.sessions

	return func() tea.Msg {
		ctx := context.Background()
		var sess *service.Session
		var err error
		if signup {
			sess, err = sessions.Signup(ctx, email, password, name)
		} else {
			sess, err = sessions.Login(ctx, email, password)
		}
		return loginResultMsg{session: sess, err: err}
	}
}

// View renders the login screen
func (m LoginModel) View() string {
	title := "Log in"
	if m.signup {
		title = "Create account"
	}

	lines := []string{
		cardTitleStyle.Render(title),
		metricLabelStyle.Render("Email") + m.inputs[fieldEmail].View(),
		metricLabelStyle.Render("Password") + m.inputs[fieldPassword].View(),
	}
	if m.signup {
		lines = append(lines, metricLabelStyle.Render("Name")+m.inputs[fieldFullName].View())
		lines = append(lines, "", mutedStyle.Render("Password needs 8+ characters with upper, lower, digit and symbol."))
	}

	switch {
	case m.busy:
		lines = append(lines, "", mutedStyle.Render("Contacting wellness server..."))
	case m.err != nil:
		lines = append(lines, "", errorStyle.Render(loginErrorText(m.err)))
	}

	toggle := "create account"
	if m.signup {
		toggle = "log in instead"
	}
	lines = append(lines, RenderKeyBar("tab", "next field", "enter", "submit", "ctrl+t", toggle, "ctrl+c", "quit"))

	return cardStyle.Width(64).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// loginErrorText turns a login failure into a short message.
func loginErrorText(err error) string {
	var verr *domain.ValidationError
	var nerr *wellness.NetworkError
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.As(err, &nerr) && nerr.Detail != "":
		return nerr.Detail
	case errors.As(err, &nerr) && nerr.Status == 0:
		return "Cannot reach the wellness server. Check backend.base_url."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
