package store

import (
	"slices"
	"strings"

	"expenso/internal/core"
)

// State is the whole in-memory model. Treat it as a value: Apply never
// mutates the slices of the state it is given.
type State struct {
	Expenses         []core.Expense
	CustomCategories []string
	SelectedPeriod   core.Period
	SelectedDate     core.Date
}

// Initial is the state before anything is loaded.
func Initial(today core.Date) State {
	return State{
		Expenses:         []core.Expense{},
		CustomCategories: []string{},
		SelectedPeriod:   core.Daily,
		SelectedDate:     today,
	}
}

// Categories returns defaults followed by custom categories.
func (s State) Categories() []string {
	return core.Categories(s.CustomCategories)
}

// Command is one of the transitions below.
type Command interface {
	command()
}

type (
	// AddExpense prepends a fully built expense.
	AddExpense struct{ Expense core.Expense }
	// UpdateExpense replaces the expense with the same id, if any.
	UpdateExpense struct{ Expense core.Expense }
	// DeleteExpense removes the expense with the id, if any.
	DeleteExpense struct{ ID string }
	SetPeriod     struct{ Period core.Period }
	SetDate       struct{ Date core.Date }
	// LoadExpenses replaces the list with what was read from storage.
	LoadExpenses struct{ Expenses []core.Expense }
	// ImportExpenses replaces the list with an imported snapshot.
	ImportExpenses struct{ Expenses []core.Expense }
	// AddCategory appends an already validated name; see CheckCategory.
	AddCategory    struct{ Name string }
	LoadCategories struct{ Categories []string }
)

func (AddExpense) command()     {}
func (UpdateExpense) command()  {}
func (DeleteExpense) command()  {}
func (SetPeriod) command()      {}
func (SetDate) command()        {}
func (LoadExpenses) command()   {}
func (ImportExpenses) command() {}
func (AddCategory) command()    {}
func (LoadCategories) command() {}

// Apply returns the state that results from cmd. Unknown commands leave the
// state unchanged.
func Apply(s State, cmd Command) State {
	switch c := cmd.(type) {
	case AddExpense:
		out := make([]core.Expense, 0, len(s.Expenses)+1)
		out = append(out, c.Expense)
		s.Expenses = append(out, s.Expenses...)
	case UpdateExpense:
		i := indexOf(s.Expenses, c.Expense.ID)
		if i < 0 {
			return s
		}
		s.Expenses = slices.Clone(s.Expenses)
		s.Expenses[i] = c.Expense
	case DeleteExpense:
		if indexOf(s.Expenses, c.ID) < 0 {
			return s
		}
		s.Expenses = slices.DeleteFunc(slices.Clone(s.Expenses), func(e core.Expense) bool {
			return e.ID == c.ID
		})
	case SetPeriod:
		s.SelectedPeriod = c.Period
	case SetDate:
		s.SelectedDate = c.Date
	case LoadExpenses:
		s.Expenses = slices.Clone(c.Expenses)
	case ImportExpenses:
		s.Expenses = slices.Clone(c.Expenses)
	case AddCategory:
		s.CustomCategories = append(slices.Clone(s.CustomCategories), c.Name)
	case LoadCategories:
		s.CustomCategories = slices.Clone(c.Categories)
	}
	return s
}

// CheckCategory trims name and reports whether it can be added: it must be
// non-empty and differ, ignoring case, from every existing category.
func CheckCategory(s State, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || core.ContainsFold(s.Categories(), name) {
		return "", false
	}
	return name, true
}

// HasExpense reports whether an expense with id exists.
func HasExpense(s State, id string) bool {
	return indexOf(s.Expenses, id) >= 0
}

func indexOf(expenses []core.Expense, id string) int {
	return slices.IndexFunc(expenses, func(e core.Expense) bool { return e.ID == id })
}
