// Package aggregate filters, totals, groups and orders expenses for display.
// Every function is pure and leaves its input untouched.
package aggregate

import (
	"slices"
	"strings"

	"expenso/internal/core"
	"expenso/internal/period"
)

// FilterByRange returns the expenses dated inside r, in their original order.
func FilterByRange(expenses []core.Expense, r core.DateRange) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if period.Within(e.Date, r) {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts; an empty input yields zero.
func Total(expenses []core.Expense) core.Money {
	var sum core.Money
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// ByCategory groups by the literal category string and orders the groups by
// total descending. Groups with equal totals keep the order in which their
// category first appears in expenses.
func ByCategory(expenses []core.Expense) []core.CategoryTotal {
	index := make(map[string]int)
	groups := make([]core.CategoryTotal, 0)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(groups)
			index[e.Category] = i
			groups = append(groups, core.CategoryTotal{Category: e.Category})
		}
		groups[i].Total = groups[i].Total.Add(e.Amount)
		groups[i].Count++
	}

	grand := Total(expenses)
	for i := range groups {
		groups[i].Percentage = groups[i].Total.Percent(grand)
	}

	slices.SortStableFunc(groups, func(a, b core.CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	return groups
}

// SortedByDate returns a copy ordered by date descending, then by creation
// timestamp descending so the latest entry of a day comes first.
func SortedByDate(expenses []core.Expense) []core.Expense {
	out := slices.Clone(expenses)
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		if c := strings.Compare(string(b.Date), string(a.Date)); c != 0 {
			return c
		}
		return strings.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

// Summary is everything a view of one period selection derives from the
// expense list.
type Summary struct {
	Period     core.Period          `json:"period"`
	Anchor     core.Date            `json:"anchor"`
	Range      core.DateRange       `json:"range"`
	Label      string               `json:"label"`
	Total      core.Money           `json:"total"`
	Count      int                  `json:"count"`
	Categories []core.CategoryTotal `json:"categories"`
	Expenses   []core.Expense       `json:"expenses"`
}

// Summarize applies the range of (p, anchor) and aggregates the result.
func Summarize(expenses []core.Expense, p core.Period, anchor core.Date) (Summary, error) {
	r, err := period.RangeFor(p, anchor)
	if err != nil {
		return Summary{}, err
	}
	label, err := period.Label(p, anchor)
	if err != nil {
		return Summary{}, err
	}
	in := FilterByRange(expenses, r)
	return Summary{
		Period:     p,
		Anchor:     anchor,
		Range:      r,
		Label:      label,
		Total:      Total(in),
		Count:      len(in),
		Categories: ByCategory(in),
		Expenses:   SortedByDate(in),
	}, nil
}
