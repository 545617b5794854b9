package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/treywint/hourly/internal/config"
	"github.com/treywint/hourly/internal/models"
	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/internal/timeutil"
	"github.com/treywint/hourly/internal/ui"
	"github.com/treywint/hourly/notify"
	"github.com/treywint/hourly/stats"
	"github.com/treywint/hourly/store"
	"github.com/treywint/hourly/tracker"
)

const (
	envNoColor       = "NO_COLOR"
	envHourlyNoColor = "HOURLY_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

type deps struct {
	db  *store.Client
	cfg *config.Config
}

func setup() (*deps, error) {
	cfg, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
	)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, err
	}

	err = syncUser(db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &deps{db: db, cfg: cfg}, nil
}

// syncUser overlays configured user values onto the stored user record.
// Zero config values leave the stored record as is.
func syncUser(db *store.Client, cfg *config.Config) error {
	user, err := db.User()
	if err != nil {
		return err
	}

	changed := false

	if cfg.User.DefaultHourlyRate > 0 &&
		cfg.User.DefaultHourlyRate != user.DefaultHourlyRate {
		user.DefaultHourlyRate = cfg.User.DefaultHourlyRate
		changed = true
	}

	if cfg.User.Currency != "" && cfg.User.Currency != user.Currency {
		user.Currency = cfg.User.Currency
		changed = true
	}

	if cfg.User.TrackingStartDate != "" {
		startDate, perr := time.Parse(time.DateOnly, cfg.User.TrackingStartDate)
		if perr != nil {
			return errInvalidStartDate.Wrap(perr)
		}

		if !startDate.Equal(user.TrackingStartDate) {
			user.TrackingStartDate = startDate
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return db.UpdateUser(user)
}

func newTracker(d *deps) (*tracker.Tracker, *notify.DesktopScheduler, error) {
	scheduler := notify.NewDesktopScheduler()

	t, err := tracker.New(d.db, scheduler, d.cfg)
	if err != nil {
		return nil, nil, err
	}

	return t, scheduler, nil
}

// runLive opens the live tracking view and routes reminder responses
// back into the lifecycle.
func runLive(
	t *tracker.Tracker,
	scheduler *notify.DesktopScheduler,
	cfg *config.Config,
) error {
	m := tracker.NewModel(t, scheduler, cfg)
	p := tea.NewProgram(m)

	scheduler.SetForegroundHook(func(ev notify.ForegroundEvent) bool {
		p.Send(tracker.ReminderMsg(ev))
		return true
	})

	go routeActions(t, scheduler, p)

	_, err := p.Run()

	scheduler.Shutdown()

	return err
}

func routeActions(
	t *tracker.Tracker,
	scheduler *notify.DesktopScheduler,
	p *tea.Program,
) {
	for kind := range scheduler.Actions() {
		switch kind {
		case notify.ActionStillWorking:
			t.AcknowledgeLongSession()
		case notify.ActionStopTracking:
			err := t.Stop("")
			if err != nil {
				slog.Error("unable to stop session", slog.Any("error", err))
			}

			p.Send(tracker.RefreshMsg{})
		case notify.ActionStartTracking:
			// navigation hint only, no lifecycle effect
		}
	}
}

// startAction begins tracking a session for the named activity and opens
// the live view.
func startAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errActivityNameRequired
	}

	name := ctx.Args().First()

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	activity, err := d.db.ActivityByName(name)
	if err != nil {
		if !ctx.Bool("create") {
			return err
		}

		activity, err = createActivity(ctx, d, name)
		if err != nil {
			return err
		}
	}

	t, scheduler, err := newTracker(d)
	if err != nil {
		return err
	}

	snap, err := t.Start(activity.ID)
	if err != nil {
		return err
	}

	if ctx.Bool("debug") {
		slog.Debug(spew.Sdump(snap))
	}

	_ = t.WriteStatusFile()

	if ctx.Bool("no-ui") {
		pterm.Info.Printfln(
			"Tracking %s at %s/h",
			activity.Name,
			money.FormatAmount(snap.Rate, snap.Currency),
		)

		return nil
	}

	return runLive(t, scheduler, d.cfg)
}

func createActivity(
	ctx *cli.Context,
	d *deps,
	name string,
) (*models.Activity, error) {
	activity := &models.Activity{
		Name:       name,
		Category:   models.Category(ctx.String("category")),
		HourlyRate: ctx.Float64("rate"),
	}

	if projectName := ctx.String("project"); projectName != "" {
		project, err := projectByName(d.db, projectName)
		if err != nil {
			return nil, err
		}

		activity.ProjectID = project.ID
	}

	err := d.db.CreateActivity(activity)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

// pauseAction suspends the running session.
func pauseAction(_ *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	t, scheduler, err := newTracker(d)
	if err != nil {
		return err
	}
	defer scheduler.Shutdown()

	if t.Snapshot().State != tracker.StateRunning {
		pterm.Info.Println("No running session to pause")
		return nil
	}

	err = t.Pause()
	if err != nil {
		return err
	}

	_ = t.WriteStatusFile()

	snap := t.Snapshot()

	pterm.Info.Printfln(
		"Paused %s at %s",
		snap.Activity,
		money.FormatDuration(snap.Elapsed),
	)

	return nil
}

// resumeAction continues a paused session, optionally after prompting
// the user to pick one.
func resumeAction(ctx *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	t, scheduler, err := newTracker(d)
	if err != nil {
		return err
	}

	if ctx.Bool("select") {
		sessionID, serr := selectPausedSession(d.db)
		if serr != nil {
			return serr
		}

		err = t.ResumeSession(sessionID)
	} else {
		err = t.Resume()
	}

	if err != nil {
		return err
	}

	snap := t.Snapshot()

	if snap.State != tracker.StateRunning {
		scheduler.Shutdown()
		pterm.Info.Println("No paused session to resume")

		return nil
	}

	_ = t.WriteStatusFile()

	if ctx.Bool("no-ui") {
		scheduler.Shutdown()
		pterm.Info.Printfln("Resumed %s", snap.Activity)

		return nil
	}

	return runLive(t, scheduler, d.cfg)
}

// selectPausedSession prompts the user to pick from the open paused
// sessions.
func selectPausedSession(db *store.Client) (string, error) {
	open, err := db.OpenSessions()
	if err != nil {
		return "", err
	}

	var options []huh.Option[string]

	for i := range open {
		sess := open[i]

		if !sess.Paused {
			continue
		}

		activity, aerr := db.Activity(sess.ActivityID)
		if aerr != nil {
			return "", aerr
		}

		label := fmt.Sprintf(
			"%s (paused since %s)",
			activity.Name,
			sess.PauseTime.Format("Jan 02, 2006 03:04:05 PM"),
		)

		options = append(options, huh.NewOption(label, sess.ID))
	}

	if len(options) == 0 {
		return "", errNoPausedSession
	}

	var sessionID string

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Resume which session?").
			Options(options...).
			Value(&sessionID),
	))

	err = form.Run()
	if err != nil {
		return "", err
	}

	return sessionID, nil
}

// stopAction closes the open session.
func stopAction(ctx *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	t, scheduler, err := newTracker(d)
	if err != nil {
		return err
	}
	defer scheduler.Shutdown()

	snap := t.Snapshot()

	if snap.State == tracker.StateIdle {
		pterm.Info.Println("No open session to stop")
		return nil
	}

	err = t.Stop(ctx.String("note"))
	if err != nil {
		return err
	}

	tracker.RemoveStatusFile()

	pterm.Info.Printfln(
		"Stopped %s: %s tracked, %s earned",
		snap.Activity,
		money.FormatDuration(snap.Elapsed),
		money.FormatAmount(snap.Earnings, snap.Currency),
	)

	return nil
}

// statusAction prints the state of the current session. When the data
// store is locked by a live tracking view, the status file that view
// maintains is used instead.
func statusAction(_ *cli.Context) error {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return reportStatusFromFile()
	}
	defer db.Close()

	open, err := db.OpenSessions()
	if err != nil {
		return err
	}

	if len(open) == 0 {
		pterm.Printfln("No session is being tracked")
		return nil
	}

	sess := open[0]
	now := time.Now()

	activity, err := db.Activity(sess.ActivityID)
	if err != nil {
		return err
	}

	rate, currency, err := resolveRate(db, activity)
	if err != nil {
		return err
	}

	state := "tracking"
	if sess.Paused {
		state = "paused"
	}

	elapsed := sess.Elapsed(now)

	pterm.Printfln(
		"[%s] %s: %s (%s)",
		state,
		activity.Name,
		money.FormatDuration(elapsed),
		money.FormatAmount(money.Earnings(rate, elapsed), currency),
	)

	return nil
}

func reportStatusFromFile() error {
	s, err := tracker.ReadStatus()
	if err != nil {
		// missing file should not surface an error
		pterm.Printfln("No session is being tracked")
		return nil
	}

	now := time.Now()

	pterm.Printfln(
		"[%s] %s: %s (%s)",
		s.State,
		s.Activity,
		money.FormatDuration(s.Elapsed(now)),
		money.FormatAmount(s.Earnings(now), s.Currency),
	)

	return nil
}

// resolveRate applies the live rate priority for display purposes.
func resolveRate(
	db *store.Client,
	activity *models.Activity,
) (rate float64, currency string, err error) {
	user, err := db.User()
	if err != nil {
		return 0, "", err
	}

	var projectRate float64

	if activity.ProjectID != "" {
		project, perr := db.Project(activity.ProjectID)
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

// reportAction computes and prints the earnings report for a window.
func reportAction(ctx *cli.Context) error {
	window := timeutil.Window(ctx.String("window"))
	if !window.Valid() {
		return errInvalidWindow.Fmt(ctx.String("window"))
	}

	var mode stats.Mode

	switch ctx.String("mode") {
	case "tracked":
		mode = stats.ModeTrackedOnly
	case "all":
		mode = stats.ModeAllHours
	default:
		return errInvalidMode.Fmt(ctx.String("mode"))
	}

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	now := time.Now()

	sessions, err := d.db.SessionsInWindow(window.Start(now), now)
	if err != nil {
		return err
	}

	in := stats.Input{Sessions: sessions}

	in.Activities, in.Projects, err = rateData(d.db)
	if err != nil {
		return err
	}

	report := stats.Compute(in, window, mode, now)

	if ctx.Bool("json") {
		b, jerr := report.ToJSON()
		if jerr != nil {
			return jerr
		}

		fmt.Println(string(b))

		return nil
	}

	user, err := d.db.User()
	if err != nil {
		return err
	}

	fmt.Print(report.Render(user.Currency))

	return nil
}

func rateData(
	db *store.Client,
) (map[string]models.Activity, map[string]models.Project, error) {
	activities, err := db.Activities()
	if err != nil {
		return nil, nil, err
	}

	projects, err := db.Projects()
	if err != nil {
		return nil, nil, err
	}

	activityMap := make(map[string]models.Activity, len(activities))
	for _, a := range activities {
		activityMap[a.ID] = a
	}

	projectMap := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		projectMap[p.ID] = p
	}

	return activityMap, projectMap, nil
}

// editConfigAction opens the config file in the user's default text
// editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if HOURLY_NO_COLOR is set
	if _, exists := os.LookupEnv(envHourlyNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}
