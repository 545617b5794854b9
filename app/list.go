package app

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/treywint/hourly/internal/models"
	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/internal/ui"
	"github.com/treywint/hourly/store"
)

func projectByName(db *store.Client, name string) (*models.Project, error) {
	projects, err := db.Projects()
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}

	return nil, errProjectNameUnknown.Fmt(name)
}

func confirmDelete(prompt string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Value(&confirmed),
	))

	err := form.Run()
	if err != nil {
		return false, err
	}

	return confirmed, nil
}

// activityAddAction creates a new activity from command-line arguments.
func activityAddAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errActivityNameRequired
	}

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	activity, err := createActivity(ctx, d, ctx.Args().First())
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Added activity: %s", activity.Name)

	return nil
}

// activityListAction prints all activities in a table.
func activityListAction(_ *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	activities, err := d.db.Activities()
	if err != nil {
		return err
	}

	if len(activities) == 0 {
		pterm.Info.Println("No activities yet")
		return nil
	}

	sort.Slice(activities, func(i, j int) bool {
		return natural.Less(activities[i].Name, activities[j].Name)
	})

	projects, err := d.db.Projects()
	if err != nil {
		return err
	}

	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	user, err := d.db.User()
	if err != nil {
		return err
	}

	data := [][]string{
		{"#", "NAME", "CATEGORY", "PROJECT", "RATE"},
	}

	for i := range activities {
		a := activities[i]

		rate := a.HourlyRate
		if rate == 0 {
			rate = user.DefaultHourlyRate
		}

		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			ui.Green(a.Name),
			string(a.Category),
			projectNames[a.ProjectID],
			money.FormatAmount(rate, user.Currency),
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// activityDeleteAction removes an activity and all of its sessions after
// confirmation.
func activityDeleteAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errActivityNameRequired
	}

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	activity, err := d.db.ActivityByName(ctx.Args().First())
	if err != nil {
		return err
	}

	sessions, err := d.db.SessionsForActivity(activity.ID)
	if err != nil {
		return err
	}

	confirmed, err := confirmDelete(fmt.Sprintf(
		"Delete %s and its %d sessions?",
		activity.Name,
		len(sessions),
	))
	if err != nil {
		return err
	}

	if !confirmed {
		return nil
	}

	err = d.db.DeleteActivity(activity.ID)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Deleted activity: %s", activity.Name)

	return nil
}

// projectAddAction creates a new project from command-line arguments.
func projectAddAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errProjectNameRequired
	}

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	project := &models.Project{
		Name:       ctx.Args().First(),
		BudgetType: models.BudgetType(ctx.String("budget-type")),
		HourlyRate: ctx.Float64("rate"),
		Budget:     ctx.Float64("budget"),
		StartDate:  time.Now(),
	}

	err = d.db.CreateProject(project)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Added project: %s", project.Name)

	return nil
}

// projectListAction prints all projects with tracked time and budget
// usage.
func projectListAction(_ *cli.Context) error {
	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	projects, err := d.db.Projects()
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		pterm.Info.Println("No projects yet")
		return nil
	}

	sort.Slice(projects, func(i, j int) bool {
		return natural.Less(projects[i].Name, projects[j].Name)
	})

	user, err := d.db.User()
	if err != nil {
		return err
	}

	data := [][]string{
		{"#", "NAME", "TYPE", "RATE", "TRACKED", "EARNED", "BUDGET LEFT"},
	}

	for i := range projects {
		p := projects[i]

		tracked, earned, terr := projectTotals(d.db, &p)
		if terr != nil {
			return terr
		}

		rate := money.FormatAmount(p.HourlyRate, user.Currency)
		budgetLeft := ""

		if p.BudgetType == models.BudgetFixed {
			rate = money.FormatAmount(
				money.EffectiveFixedRate(p.Budget, tracked),
				user.Currency,
			)

			remaining := money.BudgetRemaining(p.Budget, earned)

			left := money.FormatAmount(remaining, user.Currency)
			if remaining < 0 {
				left = ui.Red(left)
			}

			budgetLeft = fmt.Sprintf(
				"%s (%.0f%% used)",
				left,
				money.BudgetUsedPercent(p.Budget, earned),
			)
		}

		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			ui.Green(p.Name),
			string(p.BudgetType),
			rate,
			money.FormatDuration(tracked),
			money.FormatAmount(earned, user.Currency),
			budgetLeft,
		})
	}

	ui.PrintTable(data, os.Stdout)

	return nil
}

// projectTotals sums the closed tracked time and earnings across all of
// a project's activities.
func projectTotals(
	db *store.Client,
	project *models.Project,
) (time.Duration, float64, error) {
	activities, err := db.Activities()
	if err != nil {
		return 0, 0, err
	}

	var (
		tracked time.Duration
		earned  float64
	)

	for i := range activities {
		a := activities[i]

		if a.ProjectID != project.ID {
			continue
		}

		rate := money.ResolveRate(a.HourlyRate, project.HourlyRate, 0)

		sessions, serr := db.SessionsForActivity(a.ID)
		if serr != nil {
			return 0, 0, serr
		}

		for j := range sessions {
			if sessions[j].Open() {
				continue
			}

			d := sessions[j].Duration()
			tracked += d
			earned += money.Earnings(rate, d)
		}
	}

	return tracked, earned, nil
}

// projectDeleteAction removes a project, its activities, and their
// sessions after confirmation.
func projectDeleteAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errProjectNameRequired
	}

	d, err := setup()
	if err != nil {
		return err
	}
	defer d.db.Close()

	project, err := projectByName(d.db, ctx.Args().First())
	if err != nil {
		return err
	}

	confirmed, err := confirmDelete(fmt.Sprintf(
		"Delete %s, its activities, and their sessions?",
		project.Name,
	))
	if err != nil {
		return err
	}

	if !confirmed {
		return nil
	}

	err = d.db.DeleteProject(project.ID)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Deleted project: %s", project.Name)

	return nil
}
