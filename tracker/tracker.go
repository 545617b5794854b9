// Package tracker operates the session lifecycle state machine and
// handles the recovery of open sessions on startup
package tracker

import (
	"log/slog"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/models"
	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/notify"
	"github.com/treywint/hourly/store"
)

// State is the lifecycle state of the tracker.
type State int

const (
	// StateIdle means no session is open.
	StateIdle State = iota
	// StateRunning means a session is open and accruing time.
	StateRunning
	// StatePaused means a session is open but not accruing time.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// EventKind identifies a lifecycle transition.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventPaused  EventKind = "paused"
	EventResumed EventKind = "resumed"
	EventStopped EventKind = "stopped"
)

// Event is a lifecycle transition notification.
type Event struct {
	At       time.Time
	Kind     EventKind
	Activity string
}

// Snapshot is a consistent view of the tracker state, with elapsed time
// and earnings recomputed from the wall clock at the moment it is taken.
type Snapshot struct {
	StartTime time.Time
	PauseTime time.Time
	Activity  string
	Currency  string
	State     State
	Rate      float64
	Elapsed   time.Duration
	Earnings  float64
}

const eventBufferSize = 16

// Tracker is the single owner of the session lifecycle. All mutation
// goes through its methods under one lock; reads take a Snapshot.
type Tracker struct {
	db        store.DB
	scheduler notify.Scheduler
	cfg       *config.Config
	now       func() time.Time

	mu       sync.Mutex
	state    State
	current  *models.Session
	activity *models.Activity
	rate     float64
	currency string

	events chan Event
}

// New constructs the tracker and recovers its state from the store: an
// open paused session yields Paused, an open running session yields
// Running, and no open session yields Idle.
func New(
	db store.DB,
	scheduler notify.Scheduler,
	cfg *config.Config,
) (*Tracker, error) {
	t := &Tracker{
		db:        db,
		scheduler: scheduler,
		cfg:       cfg,
		now:       time.Now,
		state:     StateIdle,
		events:    make(chan Event, eventBufferSize),
	}

	err := t.recover()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Events returns the stream of lifecycle transition notifications.
func (t *Tracker) Events() <-chan Event {
	return t.events
}

func (t *Tracker) recover() error {
	open, err := t.db.OpenSessions()
	if err != nil {
		return err
	}

	if len(open) == 0 {
		t.armInactivityReminder()
		return nil
	}

	sort.Slice(open, func(i, j int) bool {
		return open[i].StartTime.After(open[j].StartTime)
	})

	// The single-active-session invariant means at most one open session
	// should exist. If more are found, adopt the most recently started
	// and close the rest rather than dropping them.
	if len(open) > 1 {
		slog.Warn(
			"multiple open sessions found",
			slog.Int("count", len(open)),
			slog.String("adopted", open[0].ID),
		)

		for i := 1; i < len(open); i++ {
			err = t.db.EndSession(open[i].ID, t.now(), "")
			if err != nil {
				return err
			}
		}
	}

	sess := open[0]

	activity, err := t.db.Activity(sess.ActivityID)
	if err != nil {
		return err
	}

	rate, currency, err := t.resolveRate(activity)
	if err != nil {
		return err
	}

	t.current = &sess
	t.activity = activity
	t.rate = rate
	t.currency = currency

	if sess.Paused {
		t.state = StatePaused
	} else {
		t.state = StateRunning
		t.armLongSessionReminder()
	}

	slog.Info(
		"recovered open session",
		slog.String("session", sess.ID),
		slog.String("activity", activity.Name),
		slog.String("state", t.state.String()),
	)

	return nil
}

// Start opens a new session for the given activity. Any session that is
// already open is implicitly stopped first with no note.
func (t *Tracker) Start(activityID string) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		err := t.stopLocked("")
		if err != nil {
			return Snapshot{}, err
		}
	}

	activity, err := t.db.Activity(activityID)
	if err != nil {
		return Snapshot{}, err
	}

	rate, currency, err := t.resolveRate(activity)
	if err != nil {
		return Snapshot{}, err
	}

	now := t.now()

	sess, err := t.db.CreateSession(activity.ID, now)
	if err != nil {
		return Snapshot{}, err
	}

	t.current = sess
	t.activity = activity
	t.rate = rate
	t.currency = currency
	t.state = StateRunning

	t.scheduler.DisarmInactivityReminder()
	t.armLongSessionReminder()
	t.scheduler.NotifyTrackingStarted(activity.Name)

	t.emit(EventStarted, activity.Name, now)

	return t.snapshotLocked(), nil
}

// Pause suspends the running session. It is a no-op unless the state is
// Running.
func (t *Tracker) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		slog.Debug("pause ignored", slog.String("state", t.state.String()))
		return nil
	}

	now := t.now()

	updated := *t.current
	updated.Paused = true
	updated.PauseTime = now

	err := t.db.UpdateSession(&updated)
	if err != nil {
		return err
	}

	t.current = &updated
	t.state = StatePaused

	t.scheduler.DisarmLongSessionReminder()

	t.emit(EventPaused, t.activity.Name, now)

	return nil
}

// Resume continues a paused session. The session's start time is shifted
// forward by the pause duration so that elapsed time remains a plain
// wall-clock subtraction, excluding the pause interval. It is a no-op
// unless the state is Paused.
func (t *Tracker) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.resumeLocked()
}

func (t *Tracker) resumeLocked() error {
	if t.state != StatePaused {
		slog.Debug("resume ignored", slog.String("state", t.state.String()))
		return nil
	}

	now := t.now()
	pauseDuration := now.Sub(t.current.PauseTime)

	updated := *t.current
	updated.StartTime = updated.StartTime.Add(pauseDuration)
	updated.Paused = false
	updated.PauseTime = time.Time{}

	err := t.db.UpdateSession(&updated)
	if err != nil {
		return err
	}

	t.current = &updated
	t.state = StateRunning

	t.armLongSessionReminder()

	t.emit(EventResumed, t.activity.Name, now)

	return nil
}

// ResumeSession makes the given open session current and resumes it. A
// different session that is currently open is stopped first with no
// note, upholding the single-active-session invariant.
func (t *Tracker) ResumeSession(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil && t.current.ID != sessionID {
		err := t.stopLocked("")
		if err != nil {
			return err
		}
	}

	if t.current == nil {
		open, err := t.db.OpenSessions()
		if err != nil {
			return err
		}

		var adopted *models.Session

		for i := range open {
			if open[i].ID == sessionID {
				adopted = &open[i]
				break
			}
		}

		if adopted == nil {
			return errSessionNotResumable.Fmt(sessionID)
		}

		// Stage everything before touching tracker state so a failed
		// lookup leaves the tracker Idle and consistent.
		activity, err := t.db.Activity(adopted.ActivityID)
		if err != nil {
			return err
		}

		rate, currency, err := t.resolveRate(activity)
		if err != nil {
			return err
		}

		t.current = adopted
		t.activity = activity
		t.rate = rate
		t.currency = currency

		if adopted.Paused {
			t.state = StatePaused
		} else {
			t.state = StateRunning
		}
	}

	return t.resumeLocked()
}

// Stop closes the current session, attaching a note if provided. It is a
// no-op when no session is open.
func (t *Tracker) Stop(note string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopLocked(note)
}

func (t *Tracker) stopLocked(note string) error {
	if t.state == StateIdle || t.current == nil {
		slog.Debug("stop ignored", slog.String("state", t.state.String()))
		return nil
	}

	now := t.now()

	err := t.db.EndSession(t.current.ID, now, note)
	if err != nil {
		return err
	}

	label := t.activity.Name

	t.current = nil
	t.activity = nil
	t.rate = 0
	t.state = StateIdle

	t.scheduler.DisarmLongSessionReminder()
	t.armInactivityReminder()

	t.emit(EventStopped, label, now)

	t.runSessionCmd()

	return nil
}

// Snapshot returns a consistent view of the tracker state. Elapsed time
// is recomputed from absolute instants so it stays exact even when the
// process was suspended and ticks were skipped.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:    t.state,
		Currency: t.currency,
	}

	if t.current == nil {
		return snap
	}

	snap.StartTime = t.current.StartTime
	snap.PauseTime = t.current.PauseTime
	snap.Activity = t.activity.Name
	snap.Rate = t.rate
	snap.Elapsed = t.current.Elapsed(t.now())
	snap.Earnings = money.Earnings(t.rate, snap.Elapsed)

	return snap
}

// resolveRate applies the rate priority: the activity's own rate, else
// the owning project's rate, else the user's default rate.
func (t *Tracker) resolveRate(
	activity *models.Activity,
) (rate float64, currency string, err error) {
	user, err := t.db.User()
	if err != nil {
		return 0, "", err
	}

	var projectRate float64

	if activity.ProjectID != "" {
		project, perr := t.db.Project(activity.ProjectID)
		if perr != nil {
			return 0, "", perr
		}

		projectRate = project.HourlyRate
	}

	rate = money.ResolveRate(
		activity.HourlyRate,
		projectRate,
		user.DefaultHourlyRate,
	)

	return rate, user.Currency, nil
}

// AcknowledgeLongSession records that the user confirmed they are still
// working, which stops the reminder from repeating until the next
// interval elapses.
func (t *Tracker) AcknowledgeLongSession() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRunning {
		t.armLongSessionReminder()
	}
}

func (t *Tracker) armLongSessionReminder() {
	if !t.cfg.Reminders.LongSession.Enabled {
		return
	}

	label := ""
	if t.activity != nil {
		label = t.activity.Name
	}

	t.scheduler.ArmLongSessionReminder(
		t.cfg.Reminders.LongSession.Interval,
		label,
	)
}

func (t *Tracker) armInactivityReminder() {
	if !t.cfg.Reminders.Inactivity.Enabled {
		return
	}

	t.scheduler.ArmInactivityReminder(t.cfg.Reminders.Inactivity.Interval)
}

func (t *Tracker) emit(kind EventKind, activity string, at time.Time) {
	select {
	case t.events <- Event{Kind: kind, Activity: activity, At: at}:
	default:
		// observers that fall behind miss transitions rather than
		// blocking the lifecycle
	}
}

// runSessionCmd executes the configured post-session command.
func (t *Tracker) runSessionCmd() {
	sessionCmd := t.cfg.Settings.SessionCmd
	if sessionCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		slog.Error("unable to parse session_cmd option", slog.Any("error", err))
		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	err = cmd.Run()
	if err != nil {
		slog.Error("session_cmd failed", slog.Any("error", err))
	}
}
