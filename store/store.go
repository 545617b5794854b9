// Package store connects to the data store and manages activities,
// projects, sessions, and the user record
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/treywint/hourly/internal/models"
)

var pathToDB string

const (
	activitiesBucket = "activities"
	projectsBucket   = "projects"
	sessionsBucket   = "sessions"
	userBucket       = "user"

	userKey = "user"
)

const defaultCurrency = "USD"

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) CreateActivity(a *models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if !a.Category.Valid() {
		return errInvalidCategory.Fmt(a.Category)
	}

	return c.putRecord(activitiesBucket, a.ID, a)
}

func (c *Client) UpdateActivity(a *models.Activity) error {
	return c.putRecord(activitiesBucket, a.ID, a)
}

func (c *Client) Activity(id string) (*models.Activity, error) {
	var a models.Activity

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(activitiesBucket)).Get([]byte(id))
		if len(b) == 0 {
			return errActivityNotFound.Fmt(id)
		}

		return json.Unmarshal(b, &a)
	})
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (c *Client) ActivityByName(name string) (*models.Activity, error) {
	activities, err := c.Activities()
	if err != nil {
		return nil, err
	}

	for i := range activities {
		if activities[i].Name == name {
			return &activities[i], nil
		}
	}

	return nil, errActivityNotFound.Fmt(name)
}

func (c *Client) Activities() ([]models.Activity, error) {
	var activities []models.Activity

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(activitiesBucket)).
			ForEach(func(_, v []byte) error {
				var a models.Activity

				err := json.Unmarshal(v, &a)
				if err != nil {
					return err
				}

				activities = append(activities, a)

				return nil
			})
	})

	return activities, err
}

// DeleteActivity removes an activity together with all of its sessions.
func (c *Client) DeleteActivity(id string) error {
	return c.Update(func(tx *bolt.Tx) error {
		return deleteActivityTx(tx, id)
	})
}

func deleteActivityTx(tx *bolt.Tx, id string) error {
	sessions := tx.Bucket([]byte(sessionsBucket))

	var stale [][]byte

	err := sessions.ForEach(func(k, v []byte) error {
		var sess models.Session

		if err := json.Unmarshal(v, &sess); err != nil {
			return err
		}

		if sess.ActivityID == id {
			stale = append(stale, append([]byte(nil), k...))
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, k := range stale {
		if err := sessions.Delete(k); err != nil {
			return err
		}
	}

	return tx.Bucket([]byte(activitiesBucket)).Delete([]byte(id))
}

func (c *Client) CreateProject(p *models.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if p.BudgetType == "" {
		p.BudgetType = models.BudgetHourly
	}

	return c.putRecord(projectsBucket, p.ID, p)
}

func (c *Client) Project(id string) (*models.Project, error) {
	var p models.Project

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(projectsBucket)).Get([]byte(id))
		if len(b) == 0 {
			return errProjectNotFound.Fmt(id)
		}

		return json.Unmarshal(b, &p)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (c *Client) Projects() ([]models.Project, error) {
	var projects []models.Project

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(projectsBucket)).
			ForEach(func(_, v []byte) error {
				var p models.Project

				err := json.Unmarshal(v, &p)
				if err != nil {
					return err
				}

				projects = append(projects, p)

				return nil
			})
	})

	return projects, err
}

// DeleteProject removes a project, cascading to its activities and their
// sessions.
func (c *Client) DeleteProject(id string) error {
	return c.Update(func(tx *bolt.Tx) error {
		activities := tx.Bucket([]byte(activitiesBucket))

		var owned []string

		err := activities.ForEach(func(_, v []byte) error {
			var a models.Activity

			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}

			if a.ProjectID == id {
				owned = append(owned, a.ID)
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, activityID := range owned {
			if err := deleteActivityTx(tx, activityID); err != nil {
				return err
			}
		}

		return tx.Bucket([]byte(projectsBucket)).Delete([]byte(id))
	})
}

func (c *Client) CreateSession(
	activityID string,
	start time.Time,
) (*models.Session, error) {
	sess := &models.Session{
		ID:         uuid.NewString(),
		ActivityID: activityID,
		StartTime:  start,
	}

	err := c.putRecord(sessionsBucket, sess.ID, sess)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *Client) UpdateSession(sess *models.Session) error {
	return c.putRecord(sessionsBucket, sess.ID, sess)
}

func (c *Client) EndSession(id string, end time.Time, note string) error {
	return c.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))

		b := bucket.Get([]byte(id))
		if len(b) == 0 {
			return errSessionNotFound.Fmt(id)
		}

		var sess models.Session

		if err := json.Unmarshal(b, &sess); err != nil {
			return err
		}

		sess.EndTime = end
		sess.Paused = false
		sess.PauseTime = time.Time{}

		if note != "" {
			sess.Note = note
		}

		value, err := json.Marshal(&sess)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(id), value)
	})
}

func (c *Client) OpenSessions() ([]models.Session, error) {
	return c.filterSessions(func(sess *models.Session) bool {
		return sess.Open()
	})
}

func (c *Client) SessionsInWindow(
	start, end time.Time,
) ([]models.Session, error) {
	return c.filterSessions(func(sess *models.Session) bool {
		if sess.StartTime.Before(start) {
			return false
		}

		return !sess.StartTime.After(end)
	})
}

func (c *Client) SessionsForActivity(
	activityID string,
) ([]models.Session, error) {
	return c.filterSessions(func(sess *models.Session) bool {
		return sess.ActivityID == activityID
	})
}

func (c *Client) DeleteSessions(sessions []models.Session) error {
	return c.Update(func(tx *bolt.Tx) error {
		for i := range sessions {
			err := tx.Bucket([]byte(sessionsBucket)).
				Delete([]byte(sessions[i].ID))
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// User returns the singleton user record, creating it with defaults on
// first call.
func (c *Client) User() (*models.User, error) {
	var user models.User

	found := false

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(userBucket)).Get([]byte(userKey))
		if len(b) == 0 {
			return nil
		}

		found = true

		return json.Unmarshal(b, &user)
	})
	if err != nil {
		return nil, err
	}

	if found {
		return &user, nil
	}

	user = models.User{
		Currency: defaultCurrency,
	}

	err = c.UpdateUser(&user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) UpdateUser(u *models.User) error {
	return c.putRecord(userBucket, userKey, u)
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

func (c *Client) putRecord(bucket, key string, record any) error {
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), value)
	})
}

func (c *Client) filterSessions(
	keep func(*models.Session) bool,
) ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).
			ForEach(func(_, v []byte) error {
				var sess models.Session

				err := json.Unmarshal(v, &sess)
				if err != nil {
					return err
				}

				if keep(&sess) {
					sessions = append(sessions, sess)
				}

				return nil
			})
	})

	return sessions, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errHourlyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			activitiesBucket,
			projectsBucket,
			sessionsBucket,
			userBucket,
		} {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
