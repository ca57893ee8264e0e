package tui

import (
	"time"

	"wellness/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenActivity
	ScreenPlanner
	ScreenProfile
	ScreenCoach
	ScreenHelp
)

// refreshInterval is how often live values are redrawn
const refreshInterval = time.Second

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	login     LoginModel
	dashboard DashboardModel
	activity  ActivityModel
	planner   PlannerModel
	profile   ProfileModel
	coach     CoachModel
	help      HelpModel

	// Services
	sessions     *service.SessionService
	coachService *service.CoachService
	session      *service.Session

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App. A nil session starts on the login screen.
func NewApp(sessions *service.SessionService, coach *service.CoachService, sess *service.Session) *App {
	a := &App{
		screen:       ScreenLogin,
		sessions:     sessions,
		coachService: coach,
		login:        NewLoginModel(sessions),
		help:         NewHelpModel(),
	}
	if sess != nil {
		a.startSession(sess)
	}
	return a
}

func (a *App) startSession(sess *service.Session) {
	a.session = sess
	a.screen = ScreenDashboard
	a.status = ""
	a.dashboard = NewDashboardModel(sess, a.width)
	a.activity = NewActivityModel(sess)
	a.planner = NewPlannerModel(sess)
	a.profile = NewProfileModel(sess)
	a.coach = NewCoachModel(a.coachService, sess, a.width, a.height)
}

type refreshMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	if a.session == nil {
		return tea.Batch(tick(), a.login.Init())
	}
	return tea.Batch(tick(), a.dashboard.Init())
}

// editing reports whether the current screen is taking text input,
// in which case single-key shortcuts go to the screen.
func (a *App) editing() bool {
	switch a.screen {
	case ScreenLogin:
		return true
	case ScreenActivity:
		return a.activity.Editing()
	case ScreenPlanner:
		return a.planner.Editing()
	case ScreenProfile:
		return a.profile.Editing()
	case ScreenCoach:
		return a.coach.Editing()
	}
	return false
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if a.screen == ScreenDashboard {
			m, cmd := a.dashboard.Update(msg)
			a.dashboard = m.(DashboardModel)
			return a, tea.Batch(tick(), cmd)
		}
		return a, tick()

	case SessionStartedMsg:
		a.startSession(msg.Session)
		return a, a.dashboard.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.editing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenActivity
				return a, nil
			case "3":
				a.screen = ScreenPlanner
				return a, nil
			case "4":
				a.screen = ScreenProfile
				return a, nil
			case "5":
				a.screen = ScreenCoach
				return a, nil
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
				}
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			case "ctrl+s":
				a.session.SyncNow()
				return a, nil
			case "ctrl+l":
				return a, a.logout()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.session != nil {
			m, _ := a.coach.Update(msg)
			a.coach = m.(CoachModel)
			m, _ = a.dashboard.Update(msg)
			a.dashboard = m.(DashboardModel)
		}
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		var m tea.Model
		m, cmd = a.login.Update(msg)
		a.login = m.(LoginModel)
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivity:
		var m tea.Model
		m, cmd = a.activity.Update(msg)
		a.activity = m.(ActivityModel)
	case ScreenPlanner:
		var m tea.Model
		m, cmd = a.planner.Update(msg)
		a.planner = m.(PlannerModel)
	case ScreenProfile:
		var m tea.Model
		m, cmd = a.profile.Update(msg)
		a.profile = m.(ProfileModel)
	case ScreenCoach:
		var m tea.Model
		m, cmd = a.coach.Update(msg)
		a.coach = m.(CoachModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	// coach replies and spinner ticks arrive while another screen is showing
	if a.screen != ScreenCoach && a.session != nil {
		switch msg.(type) {
		case coachReplyMsg, spinner.TickMsg:
			m, c := a.coach.Update(msg)
			a.coach = m.(CoachModel)
			cmd = tea.Batch(cmd, c)
		}
	}

	return a, cmd
}

func (a *App) logout() tea.Cmd {
	if err := a.sessions.Logout(); err != nil {
		a.status = "Logout: " + err.Error()
	}
	a.session = nil
	a.screen = ScreenLogin
	a.login = NewLoginModel(a.sessions)
	return a.login.Init()
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()

	var content string
	switch a.screen {
	case ScreenLogin:
		content = a.login.View()
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivity:
		content = a.activity.View()
	case ScreenPlanner:
		content = a.planner.View()
	case ScreenProfile:
		content = a.profile.View()
	case ScreenCoach:
		content = a.coach.View()
	case ScreenHelp:
		content = a.help.View()
	}

	if a.session == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header, content, a.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, a.renderNav(), content, a.renderFooter())
}

func (a *App) renderHeader() string {
	title := "Wellness"
	if a.session != nil {
		if name := a.session.Profile().Snapshot().Name; name != "" {
			title += " · " + name
		}
	}
	return headerStyle.Render(title)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activity", ScreenActivity},
		{"3", "Planner", ScreenPlanner},
		{"4", "Profile", ScreenProfile},
		{"5", "Coach", ScreenCoach},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.session == nil {
		if a.status != "" {
			return statusStyle.Render(a.status)
		}
		return ""
	}

	status := a.session.SyncStatus()
	label := service.SyncLabel(status, time.Now())
	style := statusStyle
	switch {
	case status.LastError != "":
		style = statusStyle.Foreground(errorColor)
	case status.Offline:
		style = statusStyle.Foreground(warningColor)
	}
	return style.Render(label)
}
