package profile

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"wellness/internal/analysis"
	"wellness/internal/domain"
)

func newTestStore() *Store {
	p := domain.NewProfile(domain.Identity{UserID: "ada_example_com", Name: "Ada"})
	return NewStore(p)
}

func TestApplyUserEdit(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
		check func(p domain.UserProfile) bool
	}{
		{"age from int", FieldAge, 30, func(p domain.UserProfile) bool { return p.Age == 30 }},
		{"age from string", FieldAge, " 41 ", func(p domain.UserProfile) bool { return p.Age == 41 }},
		{"height", FieldHeight, 175.5, func(p domain.UserProfile) bool { return p.Height == 175.5 }},
		{"weight from string", FieldWeight, "70", func(p domain.UserProfile) bool { return p.Weight == 70 }},
		{"gender", FieldGender, "Female", func(p domain.UserProfile) bool { return p.Sex == domain.SexFemale }},
		{"mood typed", FieldMood, domain.MoodHappy, func(p domain.UserProfile) bool { return p.Mood == domain.MoodHappy }},
		{"energy", FieldEnergyLevel, 8, func(p domain.UserProfile) bool { return p.EnergyLevel == 8 }},
		{"activity type", FieldActivityType, "workout", func(p domain.UserProfile) bool {
			return p.ActivityType == domain.ActivityTypeWorkout
		}},
		{"nested activity level", FieldActivityLevel, "very_active", func(p domain.UserProfile) bool {
			return p.Lifestyle.ActivityLevel == domain.ActivityVeryActive
		}},
		{"nested sleep", FieldSleepHours, 7.5, func(p domain.UserProfile) bool { return p.Lifestyle.SleepHours == 7.5 }},
		{"nested diet", FieldDietType, "vegan", func(p domain.UserProfile) bool { return p.Lifestyle.DietType == domain.DietVegan }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			if err := s.ApplyUserEdit(tt.path, tt.value); err != nil {
				t.Fatalf("ApplyUserEdit(%q, %v): %v", tt.path, tt.value, err)
			}
			if !tt.check(s.Snapshot()) {
				t.Errorf("ApplyUserEdit(%q, %v) not applied: %+v", tt.path, tt.value, s.Snapshot())
			}
		})
	}
}

func TestApplyUserEdit_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		value     any
		unknown   bool
		wantField string
	}{
		{"energy too high", FieldEnergyLevel, 11, false, FieldEnergyLevel},
		{"energy zero", FieldEnergyLevel, 0, false, FieldEnergyLevel},
		{"fractional age", FieldAge, 30.5, false, FieldAge},
		{"negative height", FieldHeight, -1.0, false, FieldHeight},
		{"sleep over a day", FieldSleepHours, 25, false, FieldSleepHours},
		{"unknown mood", FieldMood, "ecstatic", false, FieldMood},
		{"derived bmi", "vitals.bmi", 22.0, false, "vitals.bmi"},
		{"derived steps", "steps", 10, false, "steps"},
		{"unknown path", "shoe_size", 44, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			before := s.Snapshot()

			err := s.ApplyUserEdit(tt.path, tt.value)
			if tt.unknown {
				if !errors.Is(err, ErrUnknownField) {
					t.Fatalf("error = %v, want ErrUnknownField", err)
				}
			} else {
				var ve *domain.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %v, want *ValidationError", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
				}
			}

			if after := s.Snapshot(); !equalProfiles(before, after) {
				t.Errorf("rejected edit mutated profile: %+v", after)
			}
		})
	}
}

func TestApplyUserEdit_DoesNotRecompute(t *testing.T) {
	s := newTestStore()
	for path, v := range map[string]any{FieldAge: 30, FieldHeight: 175, FieldWeight: 70} {
		if err := s.ApplyUserEdit(path, v); err != nil {
			t.Fatalf("ApplyUserEdit: %v", err)
		}
	}

	if p := s.Snapshot(); p.Vitals.BMI != 0 || p.Vitals.DailyCalories != 0 {
		t.Errorf("vitals changed without RecomputeVitals: %+v", p.Vitals)
	}
}

func TestRecomputeVitals(t *testing.T) {
	s := newTestStore()
	_ = s.ApplyUserEdit(FieldAge, 30)
	_ = s.ApplyUserEdit(FieldGender, "male")
	_ = s.ApplyUserEdit(FieldHeight, 175)
	_ = s.ApplyUserEdit(FieldWeight, 70)
	_ = s.ApplyUserEdit(FieldActivityLevel, "moderate")
	s.SetHeartRate(75)

	r, err := s.RecomputeVitals()
	if err != nil {
		t.Fatalf("RecomputeVitals: %v", err)
	}
	if r.DailyCalories != 2556 {
		t.Errorf("DailyCalories = %d, want 2556", r.DailyCalories)
	}

	v := s.Snapshot().Vitals
	if v.BMI != 22.9 || v.DailyCalories != 2556 || v.FitnessLevel != domain.TierGood {
		t.Errorf("Vitals = %+v", v)
	}
	if v.HeartRate != 75 {
		t.Errorf("HeartRate = %d, want 75 (recompute must not touch it)", v.HeartRate)
	}
}

func TestRecomputeVitals_IncompleteKeepsPrevious(t *testing.T) {
	s := newTestStore()
	_ = s.ApplyUserEdit(FieldAge, 30)
	_ = s.ApplyUserEdit(FieldHeight, 175)
	_ = s.ApplyUserEdit(FieldWeight, 70)
	if _, err := s.RecomputeVitals(); err != nil {
		t.Fatalf("RecomputeVitals: %v", err)
	}
	prev := s.Snapshot().Vitals

	_ = s.ApplyUserEdit(FieldWeight, 0)
	_, err := s.RecomputeVitals()
	if !errors.Is(err, analysis.ErrIncompleteProfile) {
		t.Fatalf("error = %v, want ErrIncompleteProfile", err)
	}
	if got := s.Snapshot().Vitals; got != prev {
		t.Errorf("Vitals = %+v, want unchanged %+v", got, prev)
	}
}

func TestRecordSteps(t *testing.T) {
	s := newTestStore()

	steps, cal := s.RecordSteps(1000)
	if steps != 1000 || cal != 40 {
		t.Fatalf("RecordSteps(1000) = %d, %v", steps, cal)
	}
	steps, cal = s.RecordSteps(-50)
	if steps != 1000 || cal != 40 {
		t.Errorf("RecordSteps(-50) = %d, %v, want unchanged", steps, cal)
	}
	steps, cal = s.RecordStepsInput("500")
	if steps != 1500 || cal != 60 {
		t.Errorf("RecordStepsInput(500) = %d, %v, want 1500, 60", steps, cal)
	}
	steps, _ = s.RecordStepsInput("lots")
	if steps != 1500 {
		t.Errorf("RecordStepsInput(lots) steps = %d, want 1500", steps)
	}

	p := s.Snapshot()
	if p.Steps != 1500 || p.CaloriesBurned != 60 {
		t.Errorf("Counters = %+v", p.Counters)
	}
}

func TestRecordStepsInput_HugeEntryStaysPositive(t *testing.T) {
	s := newTestStore()
	s.RecordSteps(1000)

	steps, cal := s.RecordStepsInput("9223372036854775807")
	if steps != math.MaxInt || cal <= 0 {
		t.Fatalf("RecordStepsInput(max int) = %d, %v, want saturated positive total", steps, cal)
	}
	if steps, _ = s.RecordSteps(10); steps != math.MaxInt {
		t.Errorf("steps after further delta = %d, want %d", steps, math.MaxInt)
	}
}

func TestGoals(t *testing.T) {
	s := newTestStore()
	for _, g := range []string{"run 5k", "sleep more", "run 5k"} {
		if err := s.AddGoal(g); err != nil {
			t.Fatalf("AddGoal(%q): %v", g, err)
		}
	}
	if got := s.Snapshot().Goals; len(got) != 3 || got[0] != "run 5k" || got[1] != "sleep more" {
		t.Fatalf("Goals = %v, want insertion order with duplicate", got)
	}

	if err := s.RemoveGoal("run 5k"); err != nil {
		t.Fatalf("RemoveGoal: %v", err)
	}
	if got := s.Snapshot().Goals; len(got) != 2 || got[0] != "sleep more" || got[1] != "run 5k" {
		t.Errorf("Goals after remove = %v", got)
	}

	if err := s.RemoveGoal("fly"); !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("RemoveGoal(missing) = %v, want ErrGoalNotFound", err)
	}
	if err := s.AddGoal("   "); err == nil {
		t.Error("AddGoal(blank) should fail")
	}
}

func TestTodos_IDsUniqueAndNotReused(t *testing.T) {
	s := newTestStore()
	fixed := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time { return fixed }

	a, _ := s.AddTodo("stretch")
	b, _ := s.AddTodo("hydrate")
	if a.ID != 1_700_000_000_000 || b.ID != a.ID+1 {
		t.Fatalf("ids = %d, %d, want clock then clock+1", a.ID, b.ID)
	}

	if err := s.RemoveTodo(b.ID); err != nil {
		t.Fatalf("RemoveTodo: %v", err)
	}
	c, _ := s.AddTodo("walk")
	if c.ID == b.ID {
		t.Errorf("removed id %d was reused", b.ID)
	}

	if err := s.ToggleTodo(a.ID); err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}
	todos := s.Snapshot().Todos
	if len(todos) != 2 || !todos[0].Completed || todos[1].Completed {
		t.Errorf("Todos = %+v", todos)
	}

	if err := s.ToggleTodo(12345); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("ToggleTodo(missing) = %v, want ErrTodoNotFound", err)
	}
	if err := s.RemoveTodo(12345); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("RemoveTodo(missing) = %v, want ErrTodoNotFound", err)
	}
}

func TestTodos_IDsAfterLoadedProfile(t *testing.T) {
	p := domain.NewProfile(domain.Identity{})
	p.Todos = []domain.Todo{{ID: 9_000_000_000_000, Text: "from the future"}}
	s := NewStore(p)
	s.now = func() time.Time { return time.UnixMilli(1_000) }

	todo, _ := s.AddTodo("next")
	if todo.ID != 9_000_000_000_001 {
		t.Errorf("ID = %d, want one past the loaded maximum", todo.ID)
	}
}

func TestOnChange(t *testing.T) {
	s := newTestStore()
	var mu sync.Mutex
	var changes []Change
	cancel := s.OnChange(func(c Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	})

	s.SetHeartRate(80) // not watched
	_ = s.ApplyUserEdit(FieldMood, "happy")
	s.RecordSteps(0) // no-op
	s.RecordSteps(10)
	_ = s.ApplyUserEdit(FieldEnergyLevel, 42) // rejected

	mu.Lock()
	got := len(changes)
	mu.Unlock()
	if got != 2 {
		t.Fatalf("changes = %d, want 2", got)
	}
	if changes[1].Profile.Steps != 10 {
		t.Errorf("change snapshot steps = %d, want 10", changes[1].Profile.Steps)
	}

	cancel()
	_ = s.AddGoal("after cancel")
	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 {
		t.Errorf("listener called after cancel")
	}
}

func TestSetEnergyFromBattery(t *testing.T) {
	tests := []struct {
		level    float64
		expected int
	}{
		{0.87, 9},
		{1.0, 10},
		{0.25, 3},
		{0.02, 1},
	}

	for _, tt := range tests {
		s := newTestStore()
		s.SetEnergyFromBattery(tt.level)
		if got := s.Snapshot().EnergyLevel; got != tt.expected {
			t.Errorf("SetEnergyFromBattery(%v) energy = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestUpdate_AtomicUnderConcurrency(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update(func(p *domain.UserProfile) {
				p.Steps, p.CaloriesBurned = analysis.ApplyStepDelta(p.Steps, p.CaloriesBurned, 10)
			})
		}()
		go func() {
			defer wg.Done()
			s.RecordSteps(10)
		}()
	}
	wg.Wait()

	p := s.Snapshot()
	if p.Steps != 1000 {
		t.Errorf("Steps = %d, want 1000", p.Steps)
	}
	if p.CaloriesBurned != analysis.CaloriesForSteps(1000) {
		t.Errorf("CaloriesBurned = %v, want %v", p.CaloriesBurned, analysis.CaloriesForSteps(1000))
	}
}

func TestUpdate_ClampsHeartRate(t *testing.T) {
	s := newTestStore()
	s.Update(func(p *domain.UserProfile) { p.Vitals.HeartRate = 250 })
	if got := s.Snapshot().Vitals.HeartRate; got != 100 {
		t.Errorf("HeartRate = %d, want 100", got)
	}
}

func equalProfiles(a, b domain.UserProfile) bool {
	return !watchedChanged(a, b) && a.Vitals.HeartRate == b.Vitals.HeartRate
}

func TestMerge(t *testing.T) {
	s := newTestStore()
	var changes int
	s.OnChange(func(Change) { changes++ })

	err := s.Merge([]byte(`{"mood": "tired", "todos": [{"id": 9000000000000, "text": "nap", "completed": false}]}`))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	p := s.Snapshot()
	if p.Mood != domain.MoodTired || len(p.Todos) != 1 {
		t.Errorf("after merge = %+v", p)
	}
	if changes != 1 {
		t.Errorf("changes = %d, want 1", changes)
	}

	// ids issued afterwards stay above merged ones
	todo, _ := s.AddTodo("stretch")
	if todo.ID <= 9000000000000 {
		t.Errorf("new todo id %d not above merged id", todo.ID)
	}

	if err := s.Merge([]byte(`not json`)); err == nil {
		t.Error("expected error for bad patch")
	}
	if s.Snapshot().Mood != domain.MoodTired {
		t.Error("failed merge changed the profile")
	}
}
