package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"wellness/internal/domain"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	db, err := NewTestStore(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestCurrentUser(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetCurrentUser(); !errors.Is(err, ErrNoCurrentUser) {
		t.Fatalf("GetCurrentUser on empty db = %v, want ErrNoCurrentUser", err)
	}

	if err := db.SetCurrentUser(ActiveUser{UserID: "ada_example_com", Email: "ada@example.com"}); err != nil {
		t.Fatalf("SetCurrentUser: %v", err)
	}
	if err := db.SetCurrentUser(ActiveUser{UserID: "bob_example_com", Email: "bob@example.com"}); err != nil {
		t.Fatalf("SetCurrentUser (replace): %v", err)
	}

	u, err := db.GetCurrentUser()
	if err != nil {
		t.Fatalf("GetCurrentUser: %v", err)
	}
	if u.UserID != "bob_example_com" || u.Email != "bob@example.com" {
		t.Errorf("GetCurrentUser = %+v, want bob", u)
	}

	if err := db.ClearCurrentUser(); err != nil {
		t.Fatalf("ClearCurrentUser: %v", err)
	}
	if _, err := db.GetCurrentUser(); !errors.Is(err, ErrNoCurrentUser) {
		t.Errorf("GetCurrentUser after clear = %v, want ErrNoCurrentUser", err)
	}
}

func TestProfileCache(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetProfile("nobody"); !errors.Is(err, ErrProfileNotCached) {
		t.Fatalf("GetProfile(missing) = %v, want ErrProfileNotCached", err)
	}

	p := domain.NewProfile(domain.Identity{UserID: "ada_example_com", Name: "Ada", Age: 30, Height: 165, Weight: 60})
	p.Goals = []string{"run 5k"}
	p.Todos = []domain.Todo{{ID: 1700000000000, Text: "stretch", Completed: true}}
	p.Steps = 1500
	p.CaloriesBurned = 60

	if err := db.SaveProfile(p, false); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := db.GetProfile("ada_example_com")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Synced {
		t.Error("Synced = true, want false")
	}
	if got.Profile.Name != "Ada" || got.Profile.Steps != 1500 || got.Profile.CaloriesBurned != 60 {
		t.Errorf("Profile = %+v", got.Profile)
	}
	if len(got.Profile.Todos) != 1 || !got.Profile.Todos[0].Completed {
		t.Errorf("Todos = %+v", got.Profile.Todos)
	}
	if time.Since(got.UpdatedAt) > time.Minute {
		t.Errorf("UpdatedAt = %v, want recent", got.UpdatedAt)
	}

	p.Name = "Ada L."
	if err := db.SaveProfile(p, true); err != nil {
		t.Fatalf("SaveProfile (update): %v", err)
	}
	got, _ = db.GetProfile("ada_example_com")
	if got.Profile.Name != "Ada L." || !got.Synced {
		t.Errorf("after update = %+v synced=%v", got.Profile.Identity, got.Synced)
	}

	if err := db.DeleteProfile("ada_example_com"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := db.GetProfile("ada_example_com"); !errors.Is(err, ErrProfileNotCached) {
		t.Errorf("GetProfile after delete = %v", err)
	}
}

func TestSaveProfile_RequiresUserID(t *testing.T) {
	db := setupTestDB(t)
	if err := db.SaveProfile(domain.NewProfile(domain.Identity{}), false); err == nil {
		t.Error("SaveProfile with empty user id should fail")
	}
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	v, err := db.GetSyncState("missing")
	if err != nil || v != "" {
		t.Fatalf("GetSyncState(missing) = %q, %v", v, err)
	}

	if err := db.SetSyncState("k", "v1"); err != nil {
		t.Fatalf("SetSyncState: %v", err)
	}
	if err := db.SetSyncState("k", "v2"); err != nil {
		t.Fatalf("SetSyncState (update): %v", err)
	}
	if v, _ := db.GetSyncState("k"); v != "v2" {
		t.Errorf("GetSyncState = %q, want v2", v)
	}
}

func TestLastSync(t *testing.T) {
	db := setupTestDB(t)
	const user = "ada_example_com"

	last, err := db.GetLastSync(user)
	if err != nil || !last.IsZero() {
		t.Fatalf("GetLastSync before any sync = %v, %v", last, err)
	}

	if err := db.SetLastSyncError(user, "update user: API error 500"); err != nil {
		t.Fatalf("SetLastSyncError: %v", err)
	}
	if msg, _ := db.GetLastSyncError(user); msg != "update user: API error 500" {
		t.Errorf("GetLastSyncError = %q", msg)
	}

	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	if err := db.SetLastSync(user, at); err != nil {
		t.Fatalf("SetLastSync: %v", err)
	}
	last, _ = db.GetLastSync(user)
	if !last.Equal(at) {
		t.Errorf("GetLastSync = %v, want %v", last, at)
	}
	if msg, _ := db.GetLastSyncError(user); msg != "" {
		t.Errorf("error not cleared by successful sync: %q", msg)
	}
}

func TestOpenPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")
	db, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer db.Close()

	if err := db.SetCurrentUser(ActiveUser{UserID: "x"}); err != nil {
		t.Fatalf("SetCurrentUser on file db: %v", err)
	}
}
