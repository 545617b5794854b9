package app

import "github.com/urfave/cli/v2"

var (
	createFlag = &cli.BoolFlag{
		Name:    "create",
		Aliases: []string{"c"},
		Usage:   "Create the activity if it does not exist yet",
	}

	categoryFlag = &cli.StringFlag{
		Name:  "category",
		Usage: "Activity category. Possible values are: work, leisure, sleep, exercise, study, personal, hobby, other",
		Value: "work",
	}

	rateFlag = &cli.Float64Flag{
		Name:    "rate",
		Aliases: []string{"r"},
		Usage:   "Hourly rate. Zero means the project or default rate applies",
	}

	projectFlag = &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Name of the owning project",
	}

	noUIFlag = &cli.BoolFlag{
		Name:  "no-ui",
		Usage: "Do not open the live tracking view; the session stays open in the store",
	}

	selectFlag = &cli.BoolFlag{
		Name:    "select",
		Aliases: []string{"s"},
		Usage:   "Pick the session to resume from a list",
	}

	noteFlag = &cli.StringFlag{
		Name:    "note",
		Aliases: []string{"n"},
		Usage:   "Attach a note to the stopped session",
	}

	windowFlag = &cli.StringFlag{
		Name:    "window",
		Aliases: []string{"w"},
		Usage:   "Reporting window. Possible values are: day, week, month, year",
		Value:   "day",
	}

	modeFlag = &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Average hourly worth denominator: tracked (tracked hours only) or all (the window's full wall-clock hours)",
		Value:   "tracked",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the report as JSON",
	}

	budgetTypeFlag = &cli.StringFlag{
		Name:  "budget-type",
		Usage: "How the project bills: hourly or fixed",
		Value: "hourly",
	}

	budgetFlag = &cli.Float64Flag{
		Name:  "budget",
		Usage: "Total budget amount (fixed budget type only)",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}
)
