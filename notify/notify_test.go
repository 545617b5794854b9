package notify_test

import (
	"testing"
	"time"

	"github.com/treywint/hourly/notify"
)

func TestNextDelay(t *testing.T) {
	interval := 30 * time.Minute

	cases := []struct {
		name      string
		sinceLast time.Duration
		want      time.Duration
	}{
		{
			name:      "no prior delivery waits the full interval",
			sinceLast: 0,
			want:      interval,
		},
		{
			name:      "partial elapsed interval waits the remainder",
			sinceLast: 10 * time.Minute,
			want:      20 * time.Minute,
		},
		{
			name:      "expired interval waits a full one",
			sinceLast: time.Hour,
			want:      interval,
		},
		{
			name:      "exactly one interval waits a full one",
			sinceLast: interval,
			want:      interval,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := notify.NextDelay(interval, tc.sinceLast)
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLongSessionReminderForeground(t *testing.T) {
	d := notify.NewDesktopScheduler()
	defer d.Shutdown()

	events := make(chan notify.ForegroundEvent, 1)

	d.SetForegroundHook(func(ev notify.ForegroundEvent) bool {
		select {
		case events <- ev:
		default:
		}

		return true
	})

	d.ArmLongSessionReminder(10*time.Millisecond, "writing")

	select {
	case ev := <-events:
		if ev.ActivityLabel != "writing" {
			t.Errorf("got label %q, want writing", ev.ActivityLabel)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a foreground reminder")
	}
}

func TestDisarmStopsReminder(t *testing.T) {
	d := notify.NewDesktopScheduler()
	defer d.Shutdown()

	events := make(chan notify.ForegroundEvent, 1)

	d.SetForegroundHook(func(ev notify.ForegroundEvent) bool {
		events <- ev
		return true
	})

	d.ArmLongSessionReminder(50*time.Millisecond, "writing")
	d.DisarmLongSessionReminder()

	select {
	case <-events:
		t.Fatal("disarmed reminder should not fire")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDisarmAfterRearmChurnNeverDelivers(t *testing.T) {
	d := notify.NewDesktopScheduler()
	defer d.Shutdown()

	events := make(chan notify.ForegroundEvent, 16)

	d.SetForegroundHook(func(ev notify.ForegroundEvent) bool {
		events <- ev
		return true
	})

	// every arm is cancelled before its fire instant; no cycle may leak
	// a delivery from a previous generation's goroutine
	for i := 0; i < 20; i++ {
		d.ArmLongSessionReminder(30*time.Millisecond, "writing")
		d.DisarmLongSessionReminder()
	}

	select {
	case <-events:
		t.Fatal("reminder delivered after disarm")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleActionDelivers(t *testing.T) {
	d := notify.NewDesktopScheduler()
	defer d.Shutdown()

	d.HandleAction(notify.ActionStopTracking)

	select {
	case kind := <-d.Actions():
		if kind != notify.ActionStopTracking {
			t.Errorf("got %v, want %v", kind, notify.ActionStopTracking)
		}
	default:
		t.Fatal("expected a buffered action")
	}
}
