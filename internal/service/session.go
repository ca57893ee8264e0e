package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellness/internal/analysis"
	"wellness/internal/config"
	"wellness/internal/domain"
	"wellness/internal/profile"
	"wellness/internal/scheduler"
	"wellness/internal/store"
	"wellness/internal/telemetry"
	"wellness/internal/wellness"
)

// ErrNoSession is returned when no user is logged in.
var ErrNoSession = errors.New("no active session")

// Backend is the part of the wellness API the session lifecycle needs.
type Backend interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateUser(ctx context.Context, p domain.UserProfile) error
	Login(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Signup(ctx context.Context, p domain.UserProfile, password string) (*domain.UserProfile, error)
}

// Cache is the local persistence the session lifecycle needs.
type Cache interface {
	GetCurrentUser() (*store.ActiveUser, error)
	SetCurrentUser(u store.ActiveUser) error
	ClearCurrentUser() error
	SaveProfile(p domain.UserProfile, synced bool) error
	GetProfile(userID string) (*store.CachedProfile, error)
	GetLastSync(userID string) (time.Time, error)
	SetLastSync(userID string, at time.Time) error
	GetLastSyncError(userID string) (string, error)
	SetLastSyncError(userID, msg string) error
}

// BatterySource reports the charge as a fraction in [0, 1].
type BatterySource interface {
	Level() (float64, error)
}

// Options configures session timers and telemetry.
type Options struct {
	Sync        config.SyncConfig
	ChartPoints int
	// Clock drives the scheduler. Nil means the real clock.
	Clock scheduler.Clock
	// Generator produces synthetic telemetry. Nil means a randomly seeded one.
	Generator *telemetry.Generator
	// Battery is optional.
	Battery BatterySource
}

// SessionService owns the login lifecycle. At most one Session is current at a time.
type SessionService struct {
	backend Backend
	cache   Cache
	opts    Options

	mu      sync.Mutex
	current *Session

	// in-flight profile uploads
	inflight sync.WaitGroup
}

// NewSessionService creates a session service
func NewSessionService(backend Backend, cache Cache, opts Options) *SessionService {
	if opts.Clock == nil {
		opts.Clock = scheduler.RealClock{}
	}
	if opts.Generator == nil {
		opts.Generator = telemetry.NewRandomGenerator()
	}
	if opts.ChartPoints < 2 {
		opts.ChartPoints = DefaultChartPoints
	}
	defaults := config.DefaultConfig().Sync
	if opts.Sync.DebounceSeconds <= 0 {
		opts.Sync.DebounceSeconds = defaults.DebounceSeconds
	}
	if opts.Sync.TelemetrySeconds <= 0 {
		opts.Sync.TelemetrySeconds = defaults.TelemetrySeconds
	}
	if opts.Sync.BatterySeconds <= 0 {
		opts.Sync.BatterySeconds = defaults.BatterySeconds
	}
	return &SessionService{backend: backend, cache: cache, opts: opts}
}

// Login authenticates and starts a session for the returned profile.
func (svc *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &domain.ValidationError{Field: "password", Value: "", Reason: "password required"}
	}

	p, err := svc.backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if p.Email == "" {
		p.Email = normalizeEmail(email)
	}
	if p.UserID == "" {
		p.UserID = domain.UserIDFromEmail(email)
	}
	return svc.start(*p, false)
}

// Signup creates an account with the default profile and starts a session for it.
func (svc *SessionService) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	if err := domain.ValidateSignup(email, password, name); err != nil {
		return nil, err
	}

	p := domain.NewProfile(domain.Identity{
		UserID: domain.UserIDFromEmail(email),
		Email:  normalizeEmail(email),
		Name:   strings.TrimSpace(name),
	})
	created, err := svc.backend.Signup(ctx, p, password)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return svc.start(*created, false)
}

// Restore resumes the last logged-in user. The backend copy wins; when the backend
// is unreachable the cached snapshot is used and the session starts offline.
// A user the backend no longer knows is forgotten and ErrNoSession is returned.
func (svc *SessionService) Restore(ctx context.Context) (*Session, error) {
	u, err := svc.cache.GetCurrentUser()
	if errors.Is(err, store.ErrNoCurrentUser) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading current user: %w", err)
	}

	p, err := svc.backend.GetUser(ctx, u.UserID)
	switch {
	case err == nil:
		if p.Email == "" {
			p.Email = u.Email
		}
		return svc.start(*p, false)

	case errors.Is(err, wellness.ErrNotFound):
		log.Printf("session: user %s no longer exists, clearing", u.UserID)
		if err := svc.cache.ClearCurrentUser(); err != nil {
			return nil, fmt.Errorf("clearing current user: %w", err)
		}
		return nil, ErrNoSession

	case wellness.IsNetworkError(err):
		cached, cerr := svc.cache.GetProfile(u.UserID)
		if cerr != nil {
			return nil, fmt.Errorf("restoring session: %w", err)
		}
		log.Printf("session: restore fell back to cache: %v", err)
		return svc.start(cached.Profile, true)

	default:
		return nil, fmt.Errorf("restoring session: %w", err)
	}
}

// Logout ends the current session and forgets the user. Edits still waiting
// for the debounce are sent first; their result is not recorded.
func (svc *SessionService) Logout() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.current == nil {
		return ErrNoSession
	}
	svc.current.flush()
	svc.current.dispose()
	svc.current = nil

	if err := svc.cache.ClearCurrentUser(); err != nil {
		return fmt.Errorf("clearing current user: %w", err)
	}
	return nil
}

// Current returns the active session, or nil.
func (svc *SessionService) Current() *Session {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.current
}

// Close stops the current session without logging out, so the next start can
// Restore it, and waits for uploads already in flight.
func (svc *SessionService) Close() {
	svc.mu.Lock()
	sess := svc.current
	if sess != nil {
		sess.flush()
		sess.dispose()
	}
	svc.mu.Unlock()

	svc.inflight.Wait()

	svc.mu.Lock()
	if svc.current == sess {
		svc.current = nil
	}
	svc.mu.Unlock()
}

// Wait blocks until every profile upload started so far has completed.
func (svc *SessionService) Wait() {
	svc.inflight.Wait()
}

// start replaces any current session with one for p.
func (svc *SessionService) start(p domain.UserProfile, offline bool) (*Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.current != nil {
		svc.current.dispose()
		svc.current = nil
	}

	if err := svc.cache.SetCurrentUser(store.ActiveUser{UserID: p.UserID, Email: p.Email}); err != nil {
		return nil, fmt.Errorf("saving current user: %w", err)
	}
	if !offline {
		if err := svc.cache.SaveProfile(p, true); err != nil {
			log.Printf("session: caching profile: %v", err)
		}
	}

	sess := newSession(svc, p, offline)
	sess.lastSync, _ = svc.cache.GetLastSync(p.UserID)
	sess.lastSyncErr, _ = svc.cache.GetLastSyncError(p.UserID)
	sess.init()
	svc.current = sess
	return sess, nil
}

// SyncStatus describes the last upload of the session's profile.
type SyncStatus struct {
	LastSync  time.Time // zero when never synced
	LastError string    // empty after a successful sync
	Pending   bool      // an upload is waiting for the debounce
	Offline   bool      // started from the local cache
}

// History holds the recent samples shown on the dashboard charts.
type History struct {
	HeartRate []telemetry.Point
	StepRate  []telemetry.Point
}

// Session is one logged-in user's live state: the profile store plus the
// timers that drift telemetry, read the battery and upload changes.
type Session struct {
	id    uuid.UUID
	svc   *SessionService
	store *profile.Store
	sched *scheduler.Scheduler

	// uploadMu orders cache writes against the single upload in flight
	uploadMu  sync.Mutex
	uploading bool
	queued    *domain.UserProfile

	mu          sync.Mutex
	active      bool
	offline     bool
	heartRates  []telemetry.Point
	stepRates   []telemetry.Point
	lastSync    time.Time
	lastSyncErr string
	unsubscribe func()
}

func newSession(svc *SessionService, p domain.UserProfile, offline bool) *Session {
	return &Session{
		id:      uuid.New(),
		svc:     svc,
		store:   profile.NewStore(p),
		sched:   scheduler.New(svc.opts.Clock),
		offline: offline,
	}
}

// ID identifies this session; a new login always gets a new id.
func (s *Session) ID() uuid.UUID { return s.id }

// Profile returns the session's profile store.
func (s *Session) Profile() *profile.Store { return s.store }

// Active reports whether the session has not been disposed.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SyncStatus reports the last upload result.
func (s *Session) SyncStatus() SyncStatus {
	pending := s.sched.Pending(JobPersist)
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{
		LastSync:  s.lastSync,
		LastError: s.lastSyncErr,
		Pending:   pending,
		Offline:   s.offline,
	}
}

// History returns copies of the chart samples.
func (s *Session) History() History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return History{
		HeartRate: append([]telemetry.Point(nil), s.heartRates...),
		StepRate:  append([]telemetry.Point(nil), s.stepRates...),
	}
}

// SyncNow uploads the profile immediately instead of waiting for the debounce.
func (s *Session) SyncNow() {
	s.sched.Cancel(JobPersist)
	s.persist()
}

// init seeds the charts and registers the session's listeners and timers.
func (s *Session) init() {
	opts := s.svc.opts
	now := opts.Clock.Now()

	s.mu.Lock()
	s.active = true
	s.heartRates = opts.Generator.InitialSeries(opts.ChartPoints, SeedHeartRateMin, SeedHeartRateMax, now)
	s.stepRates = opts.Generator.InitialSeries(opts.ChartPoints, SeedStepRateMin, SeedStepRateMax, now)
	s.unsubscribe = s.store.OnChange(func(profile.Change) {
		s.sched.ScheduleDebounced(JobPersist, s.persist, opts.Sync.Debounce())
	})
	s.mu.Unlock()

	s.sched.ScheduleRepeating(JobTelemetry, s.tick, opts.Sync.Telemetry())
	if opts.Battery != nil {
		s.readBattery()
		s.sched.ScheduleRepeating(JobBattery, s.readBattery, opts.Sync.Battery())
	}
}

// dispose stops every timer and listener. Safe to call twice.
func (s *Session) dispose() {
	s.mu.Lock()
	s.active = false
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.sched.Dispose()
}

// flush sends a debounced upload that has not fired yet.
func (s *Session) flush() {
	if s.sched.Cancel(JobPersist) {
		s.persist()
	}
}

// tick drifts the heart rate and accrues steps for the current activity in one write.
func (s *Session) tick() {
	gen := s.svc.opts.Generator
	var bpm, added int
	s.store.Update(func(p *domain.UserProfile) {
		p.Vitals.HeartRate = gen.NextHeartRate(p.Vitals.HeartRate)
		added = gen.StepsForTick(p.ActivityType)
		if added > 0 {
			p.Steps, p.CaloriesBurned = analysis.ApplyStepDelta(p.Steps, p.CaloriesBurned, added)
		}
		bpm = p.Vitals.HeartRate
	})

	now := s.svc.opts.Clock.Now()
	s.mu.Lock()
	s.heartRates = appendCapped(s.heartRates, telemetry.Point{Time: now, Value: float64(bpm)}, s.svc.opts.ChartPoints)
	s.stepRates = appendCapped(s.stepRates, telemetry.Point{Time: now, Value: float64(added)}, s.svc.opts.ChartPoints)
	s.mu.Unlock()
}

func (s *Session) readBattery() {
	level, err := s.svc.opts.Battery.Level()
	if err != nil {
		log.Printf("battery: %v", err)
		return
	}
	s.store.SetEnergyFromBattery(level)
}

// persist caches the profile locally and uploads it in the background.
// One upload runs at a time; a snapshot taken meanwhile waits for it and
// replaces any snapshot already waiting.
func (s *Session) persist() {
	if !s.Active() {
		return
	}
	snap := s.store.Snapshot()

	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()

	if err := s.svc.cache.SaveProfile(snap, false); err != nil {
		log.Printf("sync: caching profile: %v", err)
	}
	if s.uploading {
		s.queued = &snap
		return
	}
	s.uploading = true
	s.svc.inflight.Add(1)
	go s.upload(snap)
}

// upload sends snap, then any snapshot queued while it was in flight.
func (s *Session) upload(snap domain.UserProfile) {
	defer s.svc.inflight.Done()
	for {
		err := s.svc.backend.UpdateUser(context.Background(), snap)
		s.svc.completeUpload(s, snap, err)

		s.uploadMu.Lock()
		next := s.queued
		s.queued = nil
		if next == nil {
			s.uploading = false
			s.uploadMu.Unlock()
			return
		}
		s.uploadMu.Unlock()
		snap = *next
	}
}

// completeUpload records an upload result, but only for the session that is
// still current. A result that arrives after logout is dropped.
func (svc *SessionService) completeUpload(s *Session, snap domain.UserProfile, err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.current != s {
		log.Printf("sync: dropping upload result for ended session %s", s.id)
		return
	}

	userID := snap.UserID
	if err != nil {
		log.Printf("sync: update failed: %v", err)
		if cerr := svc.cache.SetLastSyncError(userID, err.Error()); cerr != nil {
			log.Printf("sync: recording error: %v", cerr)
		}
		s.mu.Lock()
		s.lastSyncErr = err.Error()
		s.mu.Unlock()
		return
	}

	now := svc.opts.Clock.Now()
	// a newer snapshot is already cached as unsynced
	s.uploadMu.Lock()
	if s.queued == nil {
		if cerr := svc.cache.SaveProfile(snap, true); cerr != nil {
			log.Printf("sync: caching profile: %v", cerr)
		}
	}
	s.uploadMu.Unlock()
	if cerr := svc.cache.SetLastSync(userID, now); cerr != nil {
		log.Printf("sync: recording sync time: %v", cerr)
	}
	s.mu.Lock()
	s.lastSync = now
	s.lastSyncErr = ""
	s.offline = false
	s.mu.Unlock()
}

func appendCapped(points []telemetry.Point, p telemetry.Point, max int) []telemetry.Point {
	points = append(points, p)
	if len(points) > max {
		points = append(points[:0:0], points[len(points)-max:]...)
	}
	return points
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
