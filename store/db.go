package store

import (
	"time"

	"github.com/treywint/hourly/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// CreateActivity stores a new activity, assigning an ID if absent
	CreateActivity(a *models.Activity) error
	// UpdateActivity overwrites a stored activity
	UpdateActivity(a *models.Activity) error
	// Activity returns the activity with the given ID
	Activity(id string) (*models.Activity, error)
	// ActivityByName returns the activity with the given display name
	ActivityByName(name string) (*models.Activity, error)
	// Activities returns all stored activities
	Activities() ([]models.Activity, error)
	// DeleteActivity removes an activity and cascades to its sessions
	DeleteActivity(id string) error

	// CreateProject stores a new project, assigning an ID if absent
	CreateProject(p *models.Project) error
	// Project returns the project with the given ID
	Project(id string) (*models.Project, error)
	// Projects returns all stored projects
	Projects() ([]models.Project, error)
	// DeleteProject removes a project and cascades to its activities and
	// their sessions
	DeleteProject(id string) error

	// CreateSession opens a new session for the given activity
	CreateSession(activityID string, start time.Time) (*models.Session, error)
	// UpdateSession overwrites a stored session
	UpdateSession(sess *models.Session) error
	// EndSession closes a session, attaching a note if provided
	EndSession(id string, end time.Time, note string) error
	// OpenSessions returns sessions without an end time. The lifecycle
	// expects at most one
	OpenSessions() ([]models.Session, error)
	// SessionsInWindow returns sessions that started within the given
	// bounds
	SessionsInWindow(start, end time.Time) ([]models.Session, error)
	// SessionsForActivity returns all sessions for one activity
	SessionsForActivity(activityID string) ([]models.Session, error)
	// DeleteSessions deletes one or more saved sessions
	DeleteSessions(sessions []models.Session) error

	// User returns the singleton user record, creating it with defaults
	// on first call
	User() (*models.User, error)
	// UpdateUser overwrites the singleton user record
	UpdateUser(u *models.User) error

	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
