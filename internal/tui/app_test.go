package tui

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "modernc.org/sqlite"

	"wellness/internal/analysis"
	"wellness/internal/domain"
	"wellness/internal/scheduler"
	"wellness/internal/service"
	"wellness/internal/store"
	"wellness/internal/wellness"
)

type stubBackend struct{}

func (stubBackend) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	return nil, &wellness.NetworkError{Op: "get user", Status: 404, Err: wellness.ErrNotFound}
}

func (stubBackend) UpdateUser(ctx context.Context, p domain.UserProfile) error { return nil }

func (stubBackend) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	p := domain.NewProfile(domain.Identity{UserID: domain.UserIDFromEmail(email), Name: "Ada"})
	return &p, nil
}

func (stubBackend) Signup(ctx context.Context, p domain.UserProfile, password string) (*domain.UserProfile, error) {
	return &p, nil
}

func newTestApp(t *testing.T) (*App, *service.Session) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db, err := store.NewTestStore(sqlDB)
	if err != nil {
		t.Fatal(err)
	}

	sessions := service.NewSessionService(stubBackend{}, db, service.Options{
		Clock: scheduler.NewManualClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)),
	})
	t.Cleanup(func() {
		sessions.Close()
		sqlDB.Close()
	})

	sess, err := sessions.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	return NewApp(sessions, service.NewCoachService(nil), sess), sess
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(key(k))
	}
}

func TestAppNavigation(t *testing.T) {
	a, _ := newTestApp(t)

	if a.screen != ScreenDashboard {
		t.Fatalf("screen = %v, want dashboard with a session", a.screen)
	}

	tests := []struct {
		key      string
		expected Screen
	}{
		{"2", ScreenActivity},
		{"3", ScreenPlanner},
		{"4", ScreenProfile},
		{"5", ScreenCoach},
		{"?", ScreenHelp},
		{"esc", ScreenCoach},
		{"1", ScreenDashboard},
	}
	for _, tt := range tests {
		press(a, tt.key)
		if a.screen != tt.expected {
			t.Errorf("after %q screen = %v, want %v", tt.key, a.screen, tt.expected)
		}
	}
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	a := NewApp(nil, nil, nil)
	if a.screen != ScreenLogin {
		t.Errorf("screen = %v, want login", a.screen)
	}
	// digits are typed into the form, not used for navigation
	press(a, "2")
	if a.screen != ScreenLogin {
		t.Errorf("screen = %v after typing, want login", a.screen)
	}
}

func TestActivityStepEntry(t *testing.T) {
	a, sess := newTestApp(t)
	press(a, "2", "n", "1", "2", "0", "0")

	// typed digits went to the input, not the nav
	if a.screen != ScreenActivity {
		t.Fatalf("screen = %v, want activity", a.screen)
	}
	press(a, "enter")

	p := sess.Profile().Snapshot()
	if p.Steps != 1200 || p.CaloriesBurned != 48 {
		t.Errorf("after entry steps=%d calories=%v, want 1200 and 48", p.Steps, p.CaloriesBurned)
	}
}

func TestPlannerAddAndToggleTodo(t *testing.T) {
	a, sess := newTestApp(t)
	press(a, "3", "t", "s", "t", "r", "e", "t", "c", "h", "enter", " ")

	todos := sess.Profile().Snapshot().Todos
	if len(todos) != 1 || todos[0].Text != "stretch" || !todos[0].Completed {
		t.Errorf("todos = %+v, want one completed 'stretch'", todos)
	}
}

func TestProfileRecomputeIncomplete(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "4", "c")

	if !errors.Is(a.profile.err, analysis.ErrIncompleteProfile) {
		t.Errorf("err = %v, want incomplete profile", a.profile.err)
	}
}

func TestCycle(t *testing.T) {
	if got := cycle(domain.ActivityTypes, domain.ActivityTypeWorkout); got != domain.ActivityTypes[0] {
		t.Errorf("cycle wraps to %q", got)
	}
	if got := cycle([]string{"a", "b"}, "zzz"); got != "a" {
		t.Errorf("cycle from unknown = %q, want first", got)
	}
}

func TestLoginErrorText(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", &domain.ValidationError{Field: "email", Reason: "email format required"}, "email format required"},
		{"server detail", &wellness.NetworkError{Op: "login", Status: 401, Detail: "Invalid credentials"}, "Invalid credentials"},
		{"unreachable", &wellness.NetworkError{Op: "login", Err: errors.New("dial tcp")}, "Cannot reach the wellness server. Check backend.base_url."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loginErrorText(tt.err); got != tt.expected {
				t.Errorf("loginErrorText = %q, want %q", got, tt.expected)
			}
		})
	}
}
