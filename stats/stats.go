// Package stats computes tracked-time and earnings reports over rolling
// windows
package stats

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/treywint/hourly/internal/models"
	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/internal/timeutil"
)

// Mode selects the denominator for average hourly worth.
type Mode string

const (
	// ModeTrackedOnly divides earnings by tracked time alone.
	ModeTrackedOnly Mode = "tracked"
	// ModeAllHours divides earnings by the window's full wall-clock
	// allotment regardless of how much of it was tracked.
	ModeAllHours Mode = "all"
)

// Valid reports whether m is a known denominator mode.
func (m Mode) Valid() bool {
	return m == ModeTrackedOnly || m == ModeAllHours
}

// Input carries the closed sessions and the rate data needed to price
// them.
type Input struct {
	Activities map[string]models.Activity
	Projects   map[string]models.Project
	Sessions   []models.Session
}

// CategoryTotal is the rollup for one activity category.
type CategoryTotal struct {
	Category    models.Category `json:"category"`
	Duration    time.Duration   `json:"duration"`
	Earnings    float64         `json:"earnings"`
	HourlyWorth float64         `json:"hourly_worth"`
}

// Report is the result of aggregating a window of sessions.
type Report struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Window        timeutil.Window `json:"window"`
	Mode          Mode            `json:"mode"`
	Categories    []CategoryTotal `json:"categories"`
	Tracked       time.Duration   `json:"tracked"`
	Denominator   time.Duration   `json:"denominator"`
	Idle          time.Duration   `json:"idle"`
	Earnings      float64         `json:"earnings"`
	AverageHourly float64         `json:"average_hourly"`
}

// Compute aggregates the closed sessions that fall inside the window
// ending at now. It is deterministic and side-effect free: the same
// input and now always produce the same report.
func Compute(
	in Input,
	window timeutil.Window,
	mode Mode,
	now time.Time,
) *Report {
	r := &Report{
		Window: window,
		Mode:   mode,
		Start:  window.Start(now),
		End:    now,
	}

	perCategory := make(map[models.Category]*CategoryTotal)

	for i := range in.Sessions {
		sess := &in.Sessions[i]

		if !counts(sess, r.Start, now) {
			continue
		}

		duration := sess.Duration()
		rate := sessionRate(in, sess)
		earned := money.Earnings(rate, duration)

		r.Tracked += duration
		r.Earnings += earned

		category := categoryOf(in, sess)

		total, ok := perCategory[category]
		if !ok {
			total = &CategoryTotal{Category: category}
			perCategory[category] = total
		}

		total.Duration += duration
		total.Earnings += earned
	}

	switch mode {
	case ModeAllHours:
		r.Denominator = window.Allotment(now)
	default:
		r.Denominator = r.Tracked
	}

	r.AverageHourly = money.AverageHourly(r.Earnings, r.Denominator)

	if window == timeutil.WindowDay {
		idle := window.Allotment(now) - r.Tracked
		if idle < 0 {
			idle = 0
		}

		r.Idle = idle
	}

	for _, total := range perCategory {
		total.HourlyWorth = money.AverageHourly(total.Earnings, total.Duration)
		r.Categories = append(r.Categories, *total)
	}

	sort.Slice(r.Categories, func(i, j int) bool {
		return r.Categories[i].Duration > r.Categories[j].Duration
	})

	return r
}

// counts reports whether a session belongs to the window. A session
// counts when it started at or after the window start and ended no later
// than now. Sessions that are still open, or that claim an end time in
// the future, are excluded rather than double counted.
func counts(sess *models.Session, windowStart, now time.Time) bool {
	if sess.Open() {
		return false
	}

	if sess.StartTime.Before(windowStart) {
		return false
	}

	return !sess.EndTime.After(now)
}

// sessionRate prices a session by the activity rate, else the project
// rate. Unlike live tracking, aggregation does not fall back to the
// user's default rate.
func sessionRate(in Input, sess *models.Session) float64 {
	activity, ok := in.Activities[sess.ActivityID]
	if !ok {
		return 0
	}

	var projectRate float64

	if activity.ProjectID != "" {
		if project, ok := in.Projects[activity.ProjectID]; ok {
			projectRate = project.HourlyRate
		}
	}

	return money.ResolveRate(activity.HourlyRate, projectRate, 0)
}

func categoryOf(in Input, sess *models.Session) models.Category {
	activity, ok := in.Activities[sess.ActivityID]
	if !ok || !activity.Category.Valid() {
		return models.CategoryOther
	}

	return activity.Category
}

// ToJSON serialises the report.
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
