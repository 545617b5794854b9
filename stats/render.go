package stats

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/treywint/hourly/internal/money"
	"github.com/treywint/hourly/internal/timeutil"
	"github.com/treywint/hourly/internal/ui"
)

const barChartChar = "▇"

const noSessionsMsg = "No sessions found for the specified time window"

// Render writes the report to the terminal.
func (r *Report) Render(currency string) string {
	reportingStart := r.Start.Format("January 02, 2006 03:04 PM")
	reportingEnd := r.End.Format("January 02, 2006 03:04 PM")
	timePeriod := "Reporting period: " + reportingStart + " - " + reportingEnd

	header := pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln("%s", timePeriod)

	if r.Tracked == 0 {
		return header + noSessionsMsg + "\n"
	}

	output := fmt.Sprint(
		header,
		r.summary(currency),
		r.categoryBreakdown(currency),
		r.categoryChart(),
	)

	return strings.TrimSpace(output) + "\n"
}

func (r *Report) summary(currency string) string {
	var builder strings.Builder

	builder.WriteString(ui.Blue("Summary") + "\n")

	builder.WriteString(fmt.Sprintf(
		"Time tracked: %s\n",
		ui.Green(money.FormatDuration(r.Tracked)),
	))

	builder.WriteString(fmt.Sprintf(
		"Earnings: %s\n",
		ui.Green(money.FormatAmount(r.Earnings, currency)),
	))

	denominatorLabel := "tracked hours"
	if r.Mode == ModeAllHours {
		denominatorLabel = "all hours"
	}

	builder.WriteString(fmt.Sprintf(
		"Average hourly worth (%s): %s\n",
		denominatorLabel,
		ui.Green(money.FormatAmount(r.AverageHourly, currency)+"/h"),
	))

	if r.Window == timeutil.WindowDay {
		builder.WriteString(fmt.Sprintf(
			"Idle time: %s\n",
			ui.Yellow(money.FormatDuration(r.Idle)),
		))
	}

	return builder.String()
}

func (r *Report) categoryBreakdown(currency string) string {
	if len(r.Categories) == 0 {
		return ""
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Categories")))

	for _, c := range r.Categories {
		builder.WriteString(fmt.Sprintf(
			"%s: %s, %s (%s/h)\n",
			c.Category,
			ui.Green(money.FormatDuration(c.Duration)),
			ui.Green(money.FormatAmount(c.Earnings, currency)),
			money.FormatAmount(c.HourlyWorth, currency),
		))
	}

	return builder.String()
}

func (r *Report) categoryChart() string {
	if len(r.Categories) == 0 {
		return ""
	}

	header := ui.Blue("\nCategory breakdown (minutes)")

	var bars pterm.Bars

	for _, c := range r.Categories {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(c.Duration.Minutes()),
			Label: string(c.Category),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}
