// Package money holds the pure arithmetic for earnings, rate resolution,
// and project budgets.
package money

import (
	"fmt"
	"time"
)

// Earnings returns the amount earned for tracking d at the given hourly
// rate.
func Earnings(rate float64, d time.Duration) float64 {
	return rate * d.Hours()
}

// ResolveRate picks the hourly rate to apply by priority: the activity's
// own rate if positive, else the owning project's rate if positive, else
// the fallback. Live tracking passes the user's default rate as the
// fallback; aggregation passes zero.
func ResolveRate(activityRate, projectRate, fallback float64) float64 {
	if activityRate > 0 {
		return activityRate
	}

	if projectRate > 0 {
		return projectRate
	}

	return fallback
}

// EffectiveFixedRate returns the hourly rate a fixed-budget project has
// worked out to so far, or zero when no time has been tracked yet.
func EffectiveFixedRate(budget float64, tracked time.Duration) float64 {
	if tracked <= 0 {
		return 0
	}

	return budget / tracked.Hours()
}

// BudgetRemaining returns how much of a fixed budget is left.
func BudgetRemaining(budget, earned float64) float64 {
	return budget - earned
}

// BudgetUsedPercent returns the share of a fixed budget consumed so far,
// clamped to the 0-100 range.
func BudgetUsedPercent(budget, earned float64) float64 {
	if budget <= 0 {
		return 0
	}

	pct := earned / budget * 100

	if pct < 0 {
		return 0
	}

	if pct > 100 {
		return 100
	}

	return pct
}

// AverageHourly returns earnings divided by the denominator expressed in
// hours, or zero when the denominator is empty.
func AverageHourly(earnings float64, denominator time.Duration) float64 {
	if denominator <= 0 {
		return 0
	}

	return earnings / denominator.Hours()
}

// FormatAmount renders a monetary amount with its currency code.
func FormatAmount(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}

	return fmt.Sprintf("%.2f %s", amount, currency)
}

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Seconds())

	return fmt.Sprintf(
		"%02d:%02d:%02d",
		total/3600,
		total%3600/60,
		total%60,
	)
}
