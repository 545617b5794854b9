package tracker

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/money"
)

// Status mirrors the tracker snapshot on disk so the status command can
// report on a session owned by another process.
type Status struct {
	StartTime time.Time `json:"start_time"`
	PauseTime time.Time `json:"pause_time"`
	State     string    `json:"state"`
	Activity  string    `json:"activity"`
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
}

// Elapsed recomputes tracked time from absolute instants.
func (s *Status) Elapsed(now time.Time) time.Duration {
	switch s.State {
	case StateRunning.String():
		return now.Sub(s.StartTime)
	case StatePaused.String():
		return s.PauseTime.Sub(s.StartTime)
	default:
		return 0
	}
}

// Earnings returns the amount accrued as of now.
func (s *Status) Earnings(now time.Time) float64 {
	return money.Earnings(s.Rate, s.Elapsed(now))
}

// WriteStatusFile persists the current snapshot for other processes.
func (t *Tracker) WriteStatusFile() error {
	snap := t.Snapshot()

	s := Status{
		State:     snap.State.String(),
		Activity:  snap.Activity,
		StartTime: snap.StartTime,
		PauseTime: snap.PauseTime,
		Rate:      snap.Rate,
		Currency:  snap.Currency,
	}

	statusFile, err := os.Create(config.StatusFilePath())
	if err != nil {
		return err
	}

	b, err := json.Marshal(s)
	if err != nil {
		_ = statusFile.Close()
		return err
	}

	writer := bufio.NewWriter(statusFile)

	_, err = writer.Write(b)
	if err != nil {
		_ = statusFile.Close()
		return err
	}

	err = writer.Flush()
	if err != nil {
		_ = statusFile.Close()
		return err
	}

	return statusFile.Close()
}

// RemoveStatusFile clears the on-disk snapshot.
func RemoveStatusFile() {
	_ = os.Remove(config.StatusFilePath())
}

// ReadStatus loads the snapshot written by a live tracker process.
func ReadStatus() (*Status, error) {
	fileBytes, err := os.ReadFile(config.StatusFilePath())
	if err != nil {
		return nil, err
	}

	var s Status

	err = json.Unmarshal(fileBytes, &s)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
