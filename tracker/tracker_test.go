package tracker

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/models"
	"github.com/treywint/hourly/notify"
	"github.com/treywint/hourly/store"
)

var t0 = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

// memDB is an in-memory store.DB for lifecycle tests.
type memDB struct {
	activities map[string]*models.Activity
	projects   map[string]*models.Project
	sessions   map[string]*models.Session
	user       models.User
}

var _ store.DB = (*memDB)(nil)

func newMemDB() *memDB {
	return &memDB{
		activities: make(map[string]*models.Activity),
		projects:   make(map[string]*models.Project),
		sessions:   make(map[string]*models.Session),
		user:       models.User{Currency: "USD"},
	}
}

func (m *memDB) CreateActivity(a *models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	copied := *a
	m.activities[a.ID] = &copied

	return nil
}

func (m *memDB) UpdateActivity(a *models.Activity) error {
	copied := *a
	m.activities[a.ID] = &copied

	return nil
}

func (m *memDB) Activity(id string) (*models.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, assert.AnError
	}

	copied := *a

	return &copied, nil
}

func (m *memDB) ActivityByName(name string) (*models.Activity, error) {
	for _, a := range m.activities {
		if a.Name == name {
			copied := *a
			return &copied, nil
		}
	}

	return nil, assert.AnError
}

func (m *memDB) Activities() ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range m.activities {
		out = append(out, *a)
	}

	return out, nil
}

func (m *memDB) DeleteActivity(id string) error {
	delete(m.activities, id)
	return nil
}

func (m *memDB) CreateProject(p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	copied := *p
	m.projects[p.ID] = &copied

	return nil
}

func (m *memDB) Project(id string) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, assert.AnError
	}

	copied := *p

	return &copied, nil
}

func (m *memDB) Projects() ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		out = append(out, *p)
	}

	return out, nil
}

func (m *memDB) DeleteProject(id string) error {
	delete(m.projects, id)
	return nil
}

func (m *memDB) CreateSession(
	activityID string,
	start time.Time,
) (*models.Session, error) {
	sess := &models.Session{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		StartTime:  start,
	}

	copied := *sess
	m.sessions[sess.ID] = &copied

	return sess, nil
}

func (m *memDB) UpdateSession(sess *models.Session) error {
	copied := *sess
	m.sessions[sess.ID] = &copied

	return nil
}

func (m *memDB) EndSession(id string, end time.Time, note string) error {
	sess, ok := m.sessions[id]
	if !ok {
		return assert.AnError
	}

	sess.EndTime = end
	sess.Paused = false
	sess.PauseTime = time.Time{}

	if note != "" {
		sess.Note = note
	}

	return nil
}

func (m *memDB) OpenSessions() ([]models.Session, error) {
	var out []models.Session

	for _, sess := range m.sessions {
		if sess.Open() {
			out = append(out, *sess)
		}
	}

	return out, nil
}

func (m *memDB) SessionsInWindow(start, end time.Time) ([]models.Session, error) {
	var out []models.Session

	for _, sess := range m.sessions {
		if !sess.StartTime.Before(start) && !sess.StartTime.After(end) {
			out = append(out, *sess)
		}
	}

	return out, nil
}

func (m *memDB) SessionsForActivity(activityID string) ([]models.Session, error) {
	var out []models.Session

	for _, sess := range m.sessions {
		if sess.ActivityID == activityID {
			out = append(out, *sess)
		}
	}

	return out, nil
}

func (m *memDB) DeleteSessions(sessions []models.Session) error {
	for i := range sessions {
		delete(m.sessions, sessions[i].ID)
	}

	return nil
}

func (m *memDB) User() (*models.User, error) {
	u := m.user
	return &u, nil
}

func (m *memDB) UpdateUser(u *models.User) error {
	m.user = *u
	return nil
}

func (m *memDB) Close() error { return nil }
func (m *memDB) Open() error  { return nil }

// fakeScheduler records arm and disarm calls without running timers.
type fakeScheduler struct {
	longArmed       int
	longDisarmed    int
	inactivityArmed int
	started         []string
}

var _ notify.Scheduler = (*fakeScheduler)(nil)

func (f *fakeScheduler) ArmInactivityReminder(time.Duration) { f.inactivityArmed++ }
func (f *fakeScheduler) DisarmInactivityReminder()           {}

func (f *fakeScheduler) ArmLongSessionReminder(_ time.Duration, _ string) {
	f.longArmed++
}

func (f *fakeScheduler) DisarmLongSessionReminder() { f.longDisarmed++ }

func (f *fakeScheduler) NotifyTrackingStarted(label string) {
	f.started = append(f.started, label)
}

func (f *fakeScheduler) Actions() <-chan notify.ActionKind { return nil }
func (f *fakeScheduler) HandleAction(notify.ActionKind)    {}
func (f *fakeScheduler) Shutdown()                         {}

type testEnv struct {
	db        *memDB
	scheduler *fakeScheduler
	tracker   *Tracker
	clock     *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newMemDB()

	err := db.CreateActivity(&models.Activity{
		ID:         "writing",
		Name:       "writing",
		Category:   models.CategoryWork,
		HourlyRate: 40,
	})
	require.NoError(t, err)

	cfg, err := config.New()
	require.NoError(t, err)

	scheduler := &fakeScheduler{}

	tr, err := New(db, scheduler, cfg)
	require.NoError(t, err)

	clock := &fakeClock{t: t0}
	tr.now = clock.now

	return &testEnv{
		db:        db,
		scheduler: scheduler,
		tracker:   tr,
		clock:     clock,
	}
}

func TestStartOpensSession(t *testing.T) {
	env := newEnv(t)

	snap, err := env.tracker.Start("writing")
	require.NoError(t, err)

	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, "writing", snap.Activity)
	assert.Equal(t, 40.0, snap.Rate)
	assert.Equal(t, "USD", snap.Currency)

	open, err := env.db.OpenSessions()
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestStartStopsExistingSession(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(10 * time.Minute)

	_, err = env.tracker.Start("writing")
	require.NoError(t, err)

	open, err := env.db.OpenSessions()
	require.NoError(t, err)
	assert.Len(t, open, 1, "only one session may be open at a time")
	assert.True(t, open[0].StartTime.Equal(env.clock.t))
}

func TestPauseResumeExcludesPausedTime(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	// run 40s, pause 30s, run 30s: 70s elapsed, not 100s
	env.clock.advance(40 * time.Second)
	require.NoError(t, env.tracker.Pause())

	env.clock.advance(30 * time.Second)
	require.NoError(t, env.tracker.Resume())

	env.clock.advance(30 * time.Second)

	snap := env.tracker.Snapshot()
	assert.Equal(t, 70*time.Second, snap.Elapsed)
}

func TestElapsedFrozenWhilePaused(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(time.Minute)
	require.NoError(t, env.tracker.Pause())

	env.clock.advance(time.Hour)

	snap := env.tracker.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, time.Minute, snap.Elapsed)
}

func TestPauseIgnoredUnlessRunning(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.tracker.Pause())
	assert.Equal(t, StateIdle, env.tracker.Snapshot().State)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)
	require.NoError(t, env.tracker.Pause())

	// a second pause changes nothing
	pausedAt := env.tracker.Snapshot().PauseTime
	env.clock.advance(time.Minute)
	require.NoError(t, env.tracker.Pause())

	assert.True(t, env.tracker.Snapshot().PauseTime.Equal(pausedAt))
}

func TestResumeIgnoredUnlessPaused(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.tracker.Resume())
	assert.Equal(t, StateIdle, env.tracker.Snapshot().State)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	start := env.tracker.Snapshot().StartTime

	require.NoError(t, env.tracker.Resume())
	assert.True(t, env.tracker.Snapshot().StartTime.Equal(start))
}

func TestStopClosesSession(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(25 * time.Minute)
	require.NoError(t, env.tracker.Stop("done for now"))

	assert.Equal(t, StateIdle, env.tracker.Snapshot().State)

	open, err := env.db.OpenSessions()
	require.NoError(t, err)
	assert.Empty(t, open)

	for _, sess := range env.db.sessions {
		assert.Equal(t, "done for now", sess.Note)
		assert.Equal(t, 25*time.Minute, sess.Duration())
	}
}

func TestStopWhilePausedEndsAtNow(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(10 * time.Minute)
	require.NoError(t, env.tracker.Pause())

	env.clock.advance(5 * time.Minute)
	require.NoError(t, env.tracker.Stop(""))

	for _, sess := range env.db.sessions {
		assert.True(t, sess.EndTime.Equal(env.clock.t),
			"the session ends at the stop instant even when paused")
		assert.False(t, sess.Paused)
	}
}

func TestStopIgnoredWhenIdle(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.tracker.Stop(""))
	assert.Empty(t, env.db.sessions)
}

func TestEarningsUseResolvedRate(t *testing.T) {
	env := newEnv(t)

	require.NoError(t, env.db.CreateProject(&models.Project{
		ID:         "client",
		Name:       "client",
		HourlyRate: 25,
	}))
	require.NoError(t, env.db.CreateActivity(&models.Activity{
		ID:        "editing",
		Name:      "editing",
		Category:  models.CategoryWork,
		ProjectID: "client",
	}))

	_, err := env.tracker.Start("editing")
	require.NoError(t, err)

	env.clock.advance(time.Hour)

	snap := env.tracker.Snapshot()
	assert.Equal(t, 25.0, snap.Rate, "the project rate applies")
	assert.Equal(t, 25.0, snap.Earnings)
}

func TestRecoverRunningSession(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	// a new tracker against the same store adopts the open session
	scheduler := &fakeScheduler{}

	cfg, err := config.New()
	require.NoError(t, err)

	cfg.Reminders.LongSession.Enabled = true
	cfg.Reminders.LongSession.Interval = time.Hour

	tr, err := New(env.db, scheduler, cfg)
	require.NoError(t, err)

	clock := &fakeClock{t: t0.Add(5 * time.Minute)}
	tr.now = clock.now

	snap := tr.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, "writing", snap.Activity)
	assert.Equal(t, 5*time.Minute, snap.Elapsed)
	assert.Equal(t, 1, scheduler.longArmed,
		"recovery re-arms the long-session reminder")
}

func TestRecoverPausedSession(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(time.Minute)
	require.NoError(t, env.tracker.Pause())

	scheduler := &fakeScheduler{}

	cfg, err := config.New()
	require.NoError(t, err)

	tr, err := New(env.db, scheduler, cfg)
	require.NoError(t, err)

	tr.now = env.clock.now

	assert.Equal(t, StatePaused, tr.Snapshot().State)
}

func TestRecoverNoSession(t *testing.T) {
	env := newEnv(t)

	assert.Equal(t, StateIdle, env.tracker.Snapshot().State)
}

func TestRecoverAmbiguousAdoptsMostRecent(t *testing.T) {
	db := newMemDB()

	require.NoError(t, db.CreateActivity(&models.Activity{
		ID:       "writing",
		Name:     "writing",
		Category: models.CategoryWork,
	}))

	older, err := db.CreateSession("writing", t0.Add(-2*time.Hour))
	require.NoError(t, err)

	newer, err := db.CreateSession("writing", t0.Add(-10*time.Minute))
	require.NoError(t, err)

	cfg, err := config.New()
	require.NoError(t, err)

	tr, err := New(db, &fakeScheduler{}, cfg)
	require.NoError(t, err)

	assert.Equal(t, StateRunning, tr.Snapshot().State)

	open, err := db.OpenSessions()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, newer.ID, open[0].ID, "the most recent session survives")

	assert.False(t, db.sessions[older.ID].Open(),
		"the older session is closed, not dropped")
}

func TestResumeSessionStopsCurrent(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	env.clock.advance(time.Minute)
	require.NoError(t, env.tracker.Pause())

	var pausedID string
	for id := range env.db.sessions {
		pausedID = id
	}

	// a fresh session becomes current, then we jump back
	env.clock.advance(time.Minute)

	_, err = env.tracker.Start("writing")
	require.NoError(t, err)

	// starting over a paused session closes it, so reopen it for the
	// resumable case
	paused := env.db.sessions[pausedID]
	paused.EndTime = time.Time{}
	paused.Paused = true
	paused.PauseTime = env.clock.t

	env.clock.advance(time.Minute)

	require.NoError(t, env.tracker.ResumeSession(pausedID))

	snap := env.tracker.Snapshot()
	assert.Equal(t, StateRunning, snap.State)

	open, openErr := env.db.OpenSessions()
	require.NoError(t, openErr)
	require.Len(t, open, 1)
	assert.Equal(t, pausedID, open[0].ID)
}

func TestResumeSessionUnknownID(t *testing.T) {
	env := newEnv(t)

	err := env.tracker.ResumeSession("no-such-session")
	assert.Error(t, err)
}

func TestResumeSessionFailedLookupLeavesTrackerIdle(t *testing.T) {
	env := newEnv(t)

	// an open session whose activity no longer exists in the store
	orphan, err := env.db.CreateSession("deleted-activity", t0.Add(-time.Hour))
	require.NoError(t, err)

	orphan.Paused = true
	orphan.PauseTime = t0.Add(-30 * time.Minute)
	require.NoError(t, env.db.UpdateSession(orphan))

	err = env.tracker.ResumeSession(orphan.ID)
	require.Error(t, err)

	// the failed adoption must not leave partial state behind
	snap := env.tracker.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Activity)

	require.NoError(t, env.tracker.Resume())
	require.NoError(t, env.tracker.Stop(""))
}

func TestEventsEmitted(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)
	require.NoError(t, env.tracker.Pause())
	require.NoError(t, env.tracker.Resume())
	require.NoError(t, env.tracker.Stop(""))

	var kinds []EventKind

	for i := 0; i < 4; i++ {
		select {
		case ev := <-env.tracker.Events():
			kinds = append(kinds, ev.Kind)
		default:
			t.Fatal("expected a buffered event")
		}
	}

	want := []EventKind{EventStarted, EventPaused, EventResumed, EventStopped}
	assert.Equal(t, want, kinds)
}

func TestReminderArming(t *testing.T) {
	env := newEnv(t)

	// reminders are disabled by default
	_, err := env.tracker.Start("writing")
	require.NoError(t, err)
	assert.Zero(t, env.scheduler.longArmed)

	cfg, err := config.New()
	require.NoError(t, err)

	cfg.Reminders.LongSession.Enabled = true
	cfg.Reminders.LongSession.Interval = time.Hour
	cfg.Reminders.Inactivity.Enabled = true
	cfg.Reminders.Inactivity.Interval = 30 * time.Minute

	scheduler := &fakeScheduler{}

	tr, err := New(newMemDB(), scheduler, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, scheduler.inactivityArmed,
		"idle startup arms the inactivity reminder")

	require.NoError(t, tr.db.CreateActivity(&models.Activity{
		ID:       "writing",
		Name:     "writing",
		Category: models.CategoryWork,
	}))

	_, err = tr.Start("writing")
	require.NoError(t, err)
	assert.Equal(t, 1, scheduler.longArmed)

	require.NoError(t, tr.Pause())
	assert.Equal(t, 1, scheduler.longDisarmed)

	require.NoError(t, tr.Resume())
	assert.Equal(t, 2, scheduler.longArmed)

	require.NoError(t, tr.Stop(""))
	assert.Equal(t, 2, scheduler.inactivityArmed)
}
