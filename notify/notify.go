// Package notify arms and delivers the inactivity and long-session
// reminders
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
)

// ActionKind identifies a user response to a reminder.
type ActionKind string

const (
	ActionStillWorking  ActionKind = "stillWorking"
	ActionStopTracking  ActionKind = "stopTracking"
	ActionStartTracking ActionKind = "startTracking"
)

// ForegroundEvent is surfaced in-process when a long-session reminder
// fires while an interactive view is active.
type ForegroundEvent struct {
	ActivityLabel string
}

// Scheduler arms and disarms reminder timers on behalf of the session
// lifecycle. Delivery reliability beyond process lifetime is not
// guaranteed; the timers live only as long as the process.
type Scheduler interface {
	ArmInactivityReminder(after time.Duration)
	DisarmInactivityReminder()
	ArmLongSessionReminder(after time.Duration, activityLabel string)
	DisarmLongSessionReminder()
	NotifyTrackingStarted(activityLabel string)
	// Actions delivers reminder responses routed back into the lifecycle.
	Actions() <-chan ActionKind
	// HandleAction enqueues a reminder response.
	HandleAction(kind ActionKind)
	Shutdown()
}

// repeatDelay is how long a foreground long-session reminder waits
// before surfacing again when the user has not acknowledged it.
const repeatDelay = 2 * time.Minute

// DesktopScheduler delivers reminders as desktop notifications, or as
// in-process events while a foreground view is registered.
type DesktopScheduler struct {
	now        func() time.Time
	foreground func(ForegroundEvent) bool
	actions    chan ActionKind

	mu               sync.Mutex
	inactivityCancel context.CancelFunc
	longCancel       context.CancelFunc
	lastInactivity   time.Time
	acknowledged     bool
}

// NewDesktopScheduler returns a scheduler that delivers reminders via
// desktop notifications.
func NewDesktopScheduler() *DesktopScheduler {
	return &DesktopScheduler{
		now:     time.Now,
		actions: make(chan ActionKind, 8),
	}
}

// SetForegroundHook registers a handler invoked when a long-session
// reminder fires while the process is interactive. The hook returns true
// if it surfaced the reminder in-process; delivery then falls back to
// the desktop otherwise.
func (d *DesktopScheduler) SetForegroundHook(
	hook func(ForegroundEvent) bool,
) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.foreground = hook
}

func (d *DesktopScheduler) Actions() <-chan ActionKind {
	return d.actions
}

func (d *DesktopScheduler) HandleAction(kind ActionKind) {
	if kind == ActionStillWorking {
		d.mu.Lock()
		d.acknowledged = true
		d.mu.Unlock()
	}

	select {
	case d.actions <- kind:
	default:
		slog.Warn("reminder action dropped", slog.String("kind", string(kind)))
	}
}

// ArmInactivityReminder starts the repeating idle reminder. If the timer
// is re-armed shortly after a reminder was sent, only the remainder of
// the interval is waited rather than a full interval.
func (d *DesktopScheduler) ArmInactivityReminder(after time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inactivityCancel != nil {
		d.inactivityCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.inactivityCancel = cancel

	delay := NextDelay(after, d.now().Sub(d.lastInactivity))

	go d.inactivityLoop(ctx, after, delay)
}

func (d *DesktopScheduler) inactivityLoop(
	ctx context.Context,
	interval, delay time.Duration,
) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// the timer and the cancellation can fire together; never
		// deliver after a disarm
		if ctx.Err() != nil {
			return
		}

		d.mu.Lock()
		d.lastInactivity = d.now()
		d.mu.Unlock()

		d.deliver(
			"Nothing is being tracked",
			"Start a session to record your time and earnings.",
		)

		timer.Reset(interval)
	}
}

func (d *DesktopScheduler) DisarmInactivityReminder() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inactivityCancel != nil {
		d.inactivityCancel()
		d.inactivityCancel = nil
	}
}

// ArmLongSessionReminder starts the long-session reminder. When it fires
// in the foreground it surfaces an in-process event and re-arms after a
// short delay, repeating until acknowledged or tracking stops. The
// cancellation context is checked before each reschedule so the loop
// ends once tracking is no longer active.
func (d *DesktopScheduler) ArmLongSessionReminder(
	after time.Duration,
	activityLabel string,
) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.longCancel != nil {
		d.longCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.longCancel = cancel
	d.acknowledged = false

	go d.longSessionLoop(ctx, after, activityLabel)
}

func (d *DesktopScheduler) longSessionLoop(
	ctx context.Context,
	after time.Duration,
	activityLabel string,
) {
	timer := time.NewTimer(after)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}

		d.mu.Lock()
		done := d.acknowledged
		hook := d.foreground
		d.mu.Unlock()

		if done {
			return
		}

		handled := false
		if hook != nil {
			handled = hook(ForegroundEvent{ActivityLabel: activityLabel})
		}

		if !handled {
			d.deliver(
				"Still tracking "+activityLabel,
				"The session has been running for a while. Still working?",
			)

			return
		}

		timer.Reset(repeatDelay)
	}
}

func (d *DesktopScheduler) DisarmLongSessionReminder() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.longCancel != nil {
		d.longCancel()
		d.longCancel = nil
	}
}

// NotifyTrackingStarted announces that a tracking session has begun.
func (d *DesktopScheduler) NotifyTrackingStarted(activityLabel string) {
	d.deliver("Tracking started", "Now tracking "+activityLabel+".")
}

func (d *DesktopScheduler) Shutdown() {
	d.DisarmInactivityReminder()
	d.DisarmLongSessionReminder()
}

func (d *DesktopScheduler) deliver(title, message string) {
	err := beeep.Notify(title, message, "")
	if err != nil {
		slog.Error(
			"unable to display notification",
			slog.String("title", title),
			slog.Any("error", err),
		)
	}
}

// NextDelay returns how long a repeating reminder should wait before its
// next delivery: the full interval, or only the remainder when sinceLast
// is a partial elapsed interval.
func NextDelay(interval, sinceLast time.Duration) time.Duration {
	if sinceLast <= 0 || sinceLast >= interval {
		return interval
	}

	return interval - sinceLast
}
