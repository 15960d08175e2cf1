package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// PlaceholderDescription is stored when an expense is entered without a description.
const PlaceholderDescription = "Expense"

type (
	Period string

	// Expense is a single recorded transaction. Date is the canonical
	// YYYY-MM-DD string and CreatedAt is kept verbatim as an ISO-8601 timestamp
	// so that export/import round-trips are byte-stable.
	Expense struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
		Category    string `json:"category"`
		CreatedAt   string `json:"createdAt"`
	}

	// Draft carries the user-entered fields of a new expense.
	Draft struct {
		Amount      Money
		Date        Date
		Description string
		Category    string
	}

	// DateRange is inclusive on both ends.
	DateRange struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	// CategoryTotal is derived on every query and never stored.
	CategoryTotal struct {
		Category   string  `json:"category"`
		Total      Money   `json:"total"`
		Count      int     `json:"count"`
		Percentage float64 `json:"percentage"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyID         = errors.New("empty expense id")
	ErrUnknownPeriod   = errors.New("unknown period")
	ErrExpenseNotFound = errors.New("expense not found")
)

// Periods lists the supported period kinds in selector order.
func Periods() []Period {
	return []Period{Daily, Weekly, Monthly}
}

// ParsePeriod accepts the canonical names and the day/week/month aliases.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

func (p Period) Validate() error {
	switch p {
	case Daily, Weekly, Monthly:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}

func (p Period) String() string {
	return string(p)
}

// Normalize trims the free-text fields and substitutes the placeholder
// description when it is blank.
func (d Draft) Normalize() Draft {
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		d.Description = PlaceholderDescription
	}
	d.Category = strings.TrimSpace(d.Category)
	return d
}

func (d Draft) Validate() error {
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Validate checks the invariants the store relies on. Category membership is
// deliberately not checked here.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Date.Validate()
}

// Equal compares amounts numerically so 12.5 and 12.50 are the same expense.
func (e Expense) Equal(o Expense) bool {
	return e.ID == o.ID &&
		e.Amount.Equal(o.Amount) &&
		e.Date == o.Date &&
		e.Description == o.Description &&
		e.Category == o.Category &&
		e.CreatedAt == o.CreatedAt
}

// Contains reports whether r includes d. Dates are canonical YYYY-MM-DD strings,
// so lexicographic order is calendar order and no time zone is involved.
func (r DateRange) Contains(d Date) bool {
	return d >= r.Start && d <= r.End
}
