package tracker

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/notify"
)

type keymap struct {
	togglePause key.Binding
	stop        key.Binding
	quit        key.Binding
}

var defaultKeymap = keymap{
	togglePause: key.NewBinding(
		key.WithKeys("p", "r"),
		key.WithHelp("p/r", "pause/resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit (keep tracking)"),
	),
}

type styles struct {
	base     lipgloss.Style
	title    lipgloss.Style
	elapsed  lipgloss.Style
	earnings lipgloss.Style
	hint     lipgloss.Style
	banner   lipgloss.Style
}

func newStyles() styles {
	return styles{
		base:     lipgloss.NewStyle().Padding(1, 2),
		title:    lipgloss.NewStyle().Bold(true),
		elapsed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		earnings: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		hint:     lipgloss.NewStyle().Faint(true),
		banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 1),
	}
}

type tickMsg time.Time

// ReminderMsg surfaces a long-session reminder inside the live view.
type ReminderMsg notify.ForegroundEvent

// RefreshMsg asks the live view to re-read the tracker snapshot.
type RefreshMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the live tracking view.
type Model struct {
	tracker   *Tracker
	scheduler notify.Scheduler
	cfg       *config.Config
	help      help.Model
	styles    styles
	noteForm  *huh.Form
	note      string
	reminder  string
	snap      Snapshot
	err       error
	ticking   bool
}

// NewModel builds the live tracking view for an already-started tracker.
func NewModel(
	t *Tracker,
	scheduler notify.Scheduler,
	cfg *config.Config,
) *Model {
	return &Model{
		tracker:   t,
		scheduler: scheduler,
		cfg:       cfg,
		help:      help.New(),
		styles:    newStyles(),
		snap:      t.Snapshot(),
	}
}

func (m *Model) Init() tea.Cmd {
	m.ticking = true
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.noteForm != nil {
		return m.updateNoteForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		// recompute from the wall clock every tick; accumulating ticks
		// would drift across process suspensions
		m.snap = m.tracker.Snapshot()

		// the chain stops while paused; elapsed time is frozen and the
		// status file was written at the pause transition
		if m.snap.State == StatePaused {
			m.ticking = false
			return m, nil
		}

		_ = m.tracker.WriteStatusFile()

		return m, tick()

	case ReminderMsg:
		m.reminder = msg.ActivityLabel
		return m, nil

	case RefreshMsg:
		m.snap = m.tracker.Snapshot()

		if m.snap.State == StateIdle {
			RemoveStatusFile()
			return m, tea.Quit
		}

		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.reminder != "" {
		switch msg.String() {
		case "y":
			m.reminder = ""
			m.scheduler.HandleAction(notify.ActionStillWorking)

			return m, nil
		case "x":
			m.reminder = ""
			m.scheduler.HandleAction(notify.ActionStopTracking)

			return m, nil
		}
	}

	switch {
	case key.Matches(msg, defaultKeymap.togglePause):
		var err error

		if m.snap.State == StateRunning {
			err = m.tracker.Pause()
		} else if m.snap.State == StatePaused {
			err = m.tracker.Resume()
		}

		if err != nil {
			return m, reportError(err)
		}

		m.snap = m.tracker.Snapshot()
		_ = m.tracker.WriteStatusFile()

		// restart the tick chain on resume unless the pause-time tick
		// is still in flight
		if m.snap.State == StateRunning && !m.ticking {
			m.ticking = true
			return m, tick()
		}

		return m, nil

	case key.Matches(msg, defaultKeymap.stop):
		m.noteForm = newNoteForm(&m.note)
		return m, m.noteForm.Init()

	case key.Matches(msg, defaultKeymap.quit):
		// leave the session open; it is recovered on next start
		return m, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return m, nil
}

func (m *Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.noteForm = nil
			m.note = ""

			return m, nil
		case "ctrl+c":
			return m, tea.Batch(tea.ClearScreen, tea.Quit)
		}
	}

	form, cmd := m.noteForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.noteForm = f
	}

	if m.noteForm.State == huh.StateCompleted {
		err := m.tracker.Stop(m.note)
		if err != nil {
			return m, reportError(err)
		}

		RemoveStatusFile()

		return m, tea.Batch(tea.ClearScreen, tea.Quit)
	}

	return m, cmd
}

func (m *Model) View() string {
	if m.noteForm != nil {
		return m.styles.base.Render(m.noteForm.View())
	}

	var s strings.Builder

	s.WriteString(m.styles.title.Render(m.snap.Activity))

	switch m.snap.State {
	case StatePaused:
		s.WriteString(m.styles.hint.Render("  [paused]"))
	case StateRunning:
		s.WriteString(m.styles.hint.Render("  [tracking]"))
	case StateIdle:
		s.WriteString(m.styles.hint.Render("  [stopped]"))
	}

	s.WriteString("\n\n")
	s.WriteString(m.styles.elapsed.Render(money.FormatDuration(m.snap.Elapsed)))
	s.WriteString("\n")
	s.WriteString(m.styles.earnings.Render(
		money.FormatAmount(m.snap.Earnings, m.snap.Currency),
	))

	if m.snap.Rate > 0 {
		s.WriteString(m.styles.hint.Render(
			"  at " + money.FormatAmount(m.snap.Rate, m.snap.Currency) + "/h",
		))
	}

	if m.reminder != "" {
		s.WriteString("\n\n")
		s.WriteString(m.styles.banner.Render(
			"Still working on " + m.reminder + "? (y)es / e(x)it session",
		))
	}

	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(m.styles.hint.Render(m.err.Error()))
	}

	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePause,
		defaultKeymap.stop,
		defaultKeymap.quit,
	}))

	return m.styles.base.Render(s.String())
}

type errMsg struct{ err error }

func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err}
	}
}

func newNoteForm(note *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Session note").
				Description("Attached to the stopped session (optional)").
				Value(note),
		),
	)
}
