package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"expenso/internal/aggregate"
	"expenso/internal/core"
	"expenso/internal/palette"
	"expenso/internal/period"
)

const (
	barWidth      = 20
	categoryWidth = 12
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func categoryStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(palette.ColorFor(name))))
}

func (a *app) renderExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(a.out, mutedStyle.Render("no expenses"))
		return
	}
	today := a.store.Today()
	for _, e := range expenses {
		fmt.Fprintf(a.out, "%-10s  %12s  %s  %s  %s\n",
			period.RelativeLabel(e.Date, today),
			e.Amount.Format(a.cfg.CurrencySymbol),
			categoryStyle(e.Category).Render(pad(e.Category, categoryWidth)),
			e.Description,
			mutedStyle.Render(e.ID),
		)
	}
}

func (a *app) renderSummary(sum aggregate.Summary) {
	fmt.Fprintln(a.out, headerStyle.Render(sum.Label))
	fmt.Fprintf(a.out, "total %s across %d expenses\n", sum.Total.Format(a.cfg.CurrencySymbol), sum.Count)
	if len(sum.Categories) == 0 {
		return
	}
	fmt.Fprintln(a.out)
	for _, c := range sum.Categories {
		style := categoryStyle(c.Category)
		fmt.Fprintf(a.out, "%s %s %5.1f%%  %s\n",
			style.Render(pad(c.Category, categoryWidth)),
			style.Render(bar(c.Percentage)),
			c.Percentage,
			c.Total.Format(a.cfg.CurrencySymbol),
		)
	}
}

// renderCategories marks everything past the first builtin entries as custom.
func (a *app) renderCategories(names []string, builtin int) {
	for i, name := range names {
		line := categoryStyle(name).Render(name)
		if i >= builtin {
			line += " " + mutedStyle.Render("(custom)")
		}
		fmt.Fprintln(a.out, line)
	}
}

func bar(percentage float64) string {
	n := int(math.Round(percentage / 100 * barWidth))
	n = max(0, min(barWidth, n))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

// pad left-justifies name to width terminal cells. It runs before styling so
// escape codes never count toward the column width.
func pad(name string, width int) string {
	if n := lipgloss.Width(name); n < width {
		return name + strings.Repeat(" ", width-n)
	}
	return name
}
