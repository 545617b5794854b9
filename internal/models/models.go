// Package models defines the records persisted by the hourly data store
package models

import (
	"time"
)

// Category classifies an activity for reporting purposes.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryLeisure  Category = "leisure"
	CategorySleep    Category = "sleep"
	CategoryExercise Category = "exercise"
	CategoryStudy    Category = "study"
	CategoryPersonal Category = "personal"
	CategoryHobby    Category = "hobby"
	CategoryOther    Category = "other"
)

// Categories lists every valid activity category.
var Categories = []Category{
	CategoryWork,
	CategoryLeisure,
	CategorySleep,
	CategoryExercise,
	CategoryStudy,
	CategoryPersonal,
	CategoryHobby,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}

	return false
}

// BudgetType determines how a project bills its tracked time.
type BudgetType string

const (
	// BudgetHourly bills tracked hours at the project rate.
	BudgetHourly BudgetType = "hourly"
	// BudgetFixed bills a fixed total regardless of hours tracked.
	BudgetFixed BudgetType = "fixed"
)

// Project groups activities under a shared rate and optional fixed budget.
type Project struct {
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	BudgetType BudgetType `json:"budget_type"`
	HourlyRate float64    `json:"hourly_rate"`
	// Budget is the total amount for the project. It is only meaningful
	// when BudgetType is BudgetFixed.
	Budget float64 `json:"budget"`
}

// Activity is a trackable category of time use, optionally tied to a
// project.
type Activity struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	// ProjectID references the owning project, if any. The activity does
	// not own the project's lifecycle.
	ProjectID string `json:"project_id"`
	// HourlyRate is the rate for this activity. Zero means the project
	// rate or the user's default rate applies instead.
	HourlyRate float64 `json:"hourly_rate"`
}

// Session is one contiguous interval of tracked time against an activity.
// A zero EndTime means the session is still open. At most one session
// system-wide may be open at any time.
type Session struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// PauseTime is only meaningful while Paused is true.
	PauseTime  time.Time `json:"pause_time"`
	ID         string    `json:"id"`
	ActivityID string    `json:"activity_id"`
	// Note is free-form text attached when the session is stopped.
	Note   string `json:"note"`
	Paused bool   `json:"paused"`
}

// Open reports whether the session has not been stopped yet.
func (s *Session) Open() bool {
	return s.EndTime.IsZero()
}

// Duration returns the tracked duration of a closed session.
func (s *Session) Duration() time.Duration {
	if s.Open() {
		return 0
	}

	return s.EndTime.Sub(s.StartTime)
}

// Elapsed returns the tracked duration of the session as of now. Pauses
// are excluded because resuming shifts StartTime forward by the pause
// duration, so elapsed time is always a wall-clock subtraction rather
// than an accumulation of ticks.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if !s.Open() {
		return s.Duration()
	}

	if s.Paused {
		return s.PauseTime.Sub(s.StartTime)
	}

	return now.Sub(s.StartTime)
}

// User is the singleton configuration record, created lazily with
// defaults on first read.
type User struct {
	// TrackingStartDate is the earliest instant counted in aggregate
	// calculations.
	TrackingStartDate time.Time `json:"tracking_start_date"`
	Currency          string    `json:"currency"`
	DefaultHourlyRate float64   `json:"default_hourly_rate"`
}
