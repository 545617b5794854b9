package tracker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickChainStopsWhilePaused(t *testing.T) {
	env := newEnv(t)

	_, err := env.tracker.Start("writing")
	require.NoError(t, err)

	m := NewModel(env.tracker, env.scheduler, env.tracker.cfg)
	_ = m.Init()

	// while running, each tick schedules the next
	_, cmd := m.Update(tickMsg(env.clock.t))
	assert.NotNil(t, cmd)

	require.NoError(t, env.tracker.Pause())

	_, cmd = m.Update(tickMsg(env.clock.t))
	assert.Nil(t, cmd, "no tick is scheduled while paused")

	// resuming through the keymap restarts the chain
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.NotNil(t, cmd)
	assert.Equal(t, StateRunning, env.tracker.Snapshot().State)
}
