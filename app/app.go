// Package app defines the hourly command-line application
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/treywint/hourly/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the hourly app instance.
func Get() *cli.App {
	hourlyApp := &cli.App{
		Name: "hourly",
		Usage: `
		Hourly is a personal time-and-earnings tracker for the command line.
		Log sessions against activities, group them into projects with rates
		and budgets, and see what your hours are actually worth.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start tracking a session for the named activity",
				ArgsUsage: "<activity>",
				Flags: []cli.Flag{
					createFlag,
					categoryFlag,
					rateFlag,
					projectFlag,
					noUIFlag,
					debugFlag,
				},
				Action: startAction,
			},
			{
				Name:   "pause",
				Usage:  "Pause the running session",
				Action: pauseAction,
			},
			{
				Name:  "resume",
				Usage: "Resume a paused session",
				Flags: []cli.Flag{
					selectFlag,
					noUIFlag,
				},
				Action: resumeAction,
			},
			{
				Name:  "stop",
				Usage: "Stop the open session",
				Flags: []cli.Flag{
					noteFlag,
				},
				Action: stopAction,
			},
			{
				Name:   "status",
				Usage:  "Print the state of the current session",
				Action: statusAction,
			},
			{
				Name:  "report",
				Usage: "Report tracked time, earnings, and average hourly worth",
				Flags: []cli.Flag{
					windowFlag,
					modeFlag,
					jsonFlag,
				},
				Action: reportAction,
			},
			{
				Name:  "activity",
				Usage: "Manage activities",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Create an activity",
						ArgsUsage: "<name>",
						Flags: []cli.Flag{
							categoryFlag,
							rateFlag,
							projectFlag,
						},
						Action: activityAddAction,
					},
					{
						Name:   "list",
						Usage:  "List activities",
						Action: activityListAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete an activity and its sessions",
						ArgsUsage: "<name>",
						Action:    activityDeleteAction,
					},
				},
			},
			{
				Name:  "project",
				Usage: "Manage projects",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Create a project",
						ArgsUsage: "<name>",
						Flags: []cli.Flag{
							rateFlag,
							budgetTypeFlag,
							budgetFlag,
						},
						Action: projectAddAction,
					},
					{
						Name:   "list",
						Usage:  "List projects with budget usage",
						Action: projectListAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a project, its activities, and their sessions",
						ArgsUsage: "<name>",
						Action:    projectDeleteAction,
					},
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
		},
		Before: beforeAction,
	}

	return hourlyApp
}
