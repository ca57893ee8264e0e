// Package profile holds the live UserProfile for one session.
package profile

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"wellness/internal/analysis"
	"wellness/internal/domain"
)

var (
	ErrUnknownField = errors.New("unknown profile field")
	ErrGoalNotFound = errors.New("goal not found")
	ErrTodoNotFound = errors.New("todo not found")
)

// Change is delivered to listeners after a watched field changed.
// Heart rate drift alone never produces a Change.
type Change struct {
	Profile domain.UserProfile
}

// Store owns a UserProfile. Every mutation is an atomic read-modify-write under one lock,
// so timer callbacks and user edits never observe a half-updated profile.
type Store struct {
	mu         sync.Mutex
	profile    domain.UserProfile
	lastTodoID int64
	now        func() time.Time

	listenerMu   sync.Mutex
	listeners    map[int]func(Change)
	nextListener int
}

// NewStore takes ownership of a normalized copy of p.
func NewStore(p domain.UserProfile) *Store {
	p = p.Clone()
	p.Normalize()

	var lastID int64
	for _, t := range p.Todos {
		if t.ID > lastID {
			lastID = t.ID
		}
	}

	return &Store{
		profile:    p,
		lastTodoID: lastID,
		now:        time.Now,
		listeners:  make(map[int]func(Change)),
	}
}

// Snapshot returns a deep copy of the current profile.
func (s *Store) Snapshot() domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// OnChange registers fn for watched-field changes. Call the returned func to unregister.
func (s *Store) OnChange(fn func(Change)) (cancel func()) {
	s.listenerMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// Update applies fn atomically. Heart rate and energy are re-clamped afterwards.
func (s *Store) Update(fn func(p *domain.UserProfile)) {
	_ = s.mutate(func(p *domain.UserProfile) error {
		fn(p)
		if p.Vitals.HeartRate != 0 {
			p.Vitals.HeartRate = domain.ClampHeartRate(p.Vitals.HeartRate)
		}
		p.EnergyLevel = domain.ClampEnergy(p.EnergyLevel)
		return nil
	})
}

// Replace swaps in a profile received from outside, keeping todo ids monotonic.
func (s *Store) Replace(p domain.UserProfile) {
	p = p.Clone()
	p.Normalize()
	_ = s.mutate(func(cur *domain.UserProfile) error {
		*cur = p
		for _, t := range p.Todos {
			if t.ID > s.lastTodoID {
				s.lastTodoID = t.ID
			}
		}
		return nil
	})
}

// Merge overlays the profile keys present in patch, as sent back by the coach.
func (s *Store) Merge(patch []byte) error {
	return s.mutate(func(p *domain.UserProfile) error {
		merged, err := p.MergeJSON(patch)
		if err != nil {
			return err
		}
		*p = merged
		for _, t := range p.Todos {
			if t.ID > s.lastTodoID {
				s.lastTodoID = t.ID
			}
		}
		return nil
	})
}

// RecomputeVitals derives vitals from identity and lifestyle.
// On error the previous vitals are kept and the error is returned for display.
func (s *Store) RecomputeVitals() (analysis.VitalsResult, error) {
	var result analysis.VitalsResult
	err := s.mutate(func(p *domain.UserProfile) error {
		r, err := analysis.ComputeVitals(p.Identity, p.Lifestyle)
		if err != nil {
			return err
		}
		r.Apply(&p.Vitals)
		result = r
		return nil
	})
	return result, err
}

// RecordSteps adds max(0, delta) steps and recomputes calories in the same write.
func (s *Store) RecordSteps(delta int) (steps int, calories float64) {
	_ = s.mutate(func(p *domain.UserProfile) error {
		p.Steps, p.CaloriesBurned = analysis.ApplyStepDelta(p.Steps, p.CaloriesBurned, delta)
		steps, calories = p.Steps, p.CaloriesBurned
		return nil
	})
	return steps, calories
}

// RecordStepsInput parses a manual step entry. Malformed input adds nothing.
func (s *Store) RecordStepsInput(raw string) (steps int, calories float64) {
	return s.RecordSteps(analysis.ParseStepDelta(raw))
}

// SetHeartRate stores a clamped reading.
func (s *Store) SetHeartRate(bpm int) {
	_ = s.mutate(func(p *domain.UserProfile) error {
		p.Vitals.HeartRate = domain.ClampHeartRate(bpm)
		return nil
	})
}

// SetEnergyFromBattery overwrites energy with round(level*10), level being a 0..1 fraction.
func (s *Store) SetEnergyFromBattery(level float64) {
	energy := domain.ClampEnergy(int(level*10 + 0.5))
	_ = s.mutate(func(p *domain.UserProfile) error {
		p.EnergyLevel = energy
		return nil
	})
}

// AddGoal appends a goal. Duplicates are kept.
func (s *Store) AddGoal(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &domain.ValidationError{Field: "health_goals", Value: text, Reason: "goal is empty"}
	}
	return s.mutate(func(p *domain.UserProfile) error {
		p.Goals = append(p.Goals, text)
		return nil
	})
}

// RemoveGoal removes the first goal equal to text.
func (s *Store) RemoveGoal(text string) error {
	return s.mutate(func(p *domain.UserProfile) error {
		for i, g := range p.Goals {
			if g == text {
				p.Goals = append(p.Goals[:i:i], p.Goals[i+1:]...)
				return nil
			}
		}
		return ErrGoalNotFound
	})
}

// AddTodo appends an open todo. Ids come from the clock in milliseconds and
// are bumped past the highest id ever issued, so removed ids are never reused.
func (s *Store) AddTodo(text string) (domain.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Todo{}, &domain.ValidationError{Field: "todos", Value: text, Reason: "todo is empty"}
	}

	var todo domain.Todo
	err := s.mutate(func(p *domain.UserProfile) error {
		id := s.now().UnixMilli()
		if id <= s.lastTodoID {
			id = s.lastTodoID + 1
		}
		s.lastTodoID = id
		todo = domain.Todo{ID: id, Text: text}
		p.Todos = append(p.Todos, todo)
		return nil
	})
	return todo, err
}

// ToggleTodo flips completion of the todo with id.
func (s *Store) ToggleTodo(id int64) error {
	return s.mutate(func(p *domain.UserProfile) error {
		for i := range p.Todos {
			if p.Todos[i].ID == id {
				p.Todos[i].Completed = !p.Todos[i].Completed
				return nil
			}
		}
		return ErrTodoNotFound
	})
}

// RemoveTodo deletes the todo with id.
func (s *Store) RemoveTodo(id int64) error {
	return s.mutate(func(p *domain.UserProfile) error {
		for i, t := range p.Todos {
			if t.ID == id {
				p.Todos = append(p.Todos[:i:i], p.Todos[i+1:]...)
				return nil
			}
		}
		return ErrTodoNotFound
	})
}

// mutate runs fn on the live profile under the lock. If fn fails nothing is kept.
// Listeners run after the lock is released, and only when a watched field changed.
func (s *Store) mutate(fn func(p *domain.UserProfile) error) error {
	s.mu.Lock()
	before := s.profile.Clone()
	working := s.profile.Clone()
	lastID := s.lastTodoID
	if err := fn(&working); err != nil {
		s.lastTodoID = lastID
		s.mu.Unlock()
		return err
	}
	s.profile = working
	changed := watchedChanged(before, working)
	snapshot := working.Clone()
	s.mu.Unlock()

	if changed {
		s.notify(Change{Profile: snapshot})
	}
	return nil
}

func (s *Store) notify(c Change) {
	s.listenerMu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// watchedChanged reports whether anything other than heart rate differs.
func watchedChanged(a, b domain.UserProfile) bool {
	a.Vitals.HeartRate = 0
	b.Vitals.HeartRate = 0
	return !reflect.DeepEqual(a, b)
}
