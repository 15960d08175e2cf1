package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"expenso/internal/aggregate"
	"expenso/internal/core"
	"expenso/internal/period"
	"expenso/internal/snapshot"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// selectionFlags are shared by list and summary.
type selectionFlags struct {
	period string
	date   string
	prev   int
	next   int
}

func (s *selectionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.period, "period", "", "daily, weekly or monthly (default daily)")
	fs.StringVar(&s.date, "date", "", "anchor date YYYY-MM-DD (default today)")
	fs.IntVar(&s.prev, "prev", 0, "step this many periods back")
	fs.IntVar(&s.next, "next", 0, "step this many periods forward")
}

// apply moves the store selection as the flags ask.
func (s *selectionFlags) apply(a *app) error {
	if s.period != "" {
		p, err := core.ParsePeriod(s.period)
		if err != nil {
			return err
		}
		if err := a.store.SetPeriod(p); err != nil {
			return err
		}
	}
	if s.date != "" {
		d, err := core.ParseDate(s.date)
		if err != nil {
			return err
		}
		if err := a.store.SetAnchorDate(d); err != nil {
			return err
		}
	}
	for range s.prev {
		if _, err := a.store.Navigate(period.Prev); err != nil {
			return err
		}
	}
	for range s.next {
		if _, err := a.store.Navigate(period.Next); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	amount := fs.String("amount", "", "amount, e.g. 12.50 or 12,50 (required)")
	category := fs.String("category", "", "category (required)")
	description := fs.String("description", "", "description")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}
	d := a.store.Today()
	if *date != "" {
		if d, err = core.ParseDate(*date); err != nil {
			return err
		}
	}
	cat, err := a.knownCategory(*category)
	if err != nil {
		return err
	}

	e, err := a.store.AddExpense(ctx, core.Draft{Amount: m, Date: d, Description: *description, Category: cat})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s  %s  %s  %s\n", e.ID, e.Date, e.Amount.Format(a.cfg.CurrencySymbol), e.Category)
	return nil
}

// cmdEdit changes only the fields whose flags were given.
func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := a.flagSet("edit")
	id := fs.String("id", "", "expense id (required)")
	amount := fs.String("amount", "", "new amount")
	category := fs.String("category", "", "new category")
	description := fs.String("description", "", "new description")
	date := fs.String("date", "", "new date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, ok := a.store.Expense(*id)
	if !ok {
		return fmt.Errorf("expense %q: %w", *id, core.ErrExpenseNotFound)
	}

	var err error
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["amount"] {
		if e.Amount, err = core.ParseAmount(*amount); err != nil {
			return fmt.Errorf("parse amount: %w", err)
		}
	}
	if set["date"] {
		if e.Date, err = core.ParseDate(*date); err != nil {
			return err
		}
	}
	if set["category"] {
		if e.Category, err = a.knownCategory(*category); err != nil {
			return err
		}
	}
	if set["description"] {
		e.Description = strings.TrimSpace(*description)
		if e.Description == "" {
			e.Description = core.PlaceholderDescription
		}
	}

	if err := a.store.UpdateExpense(ctx, e); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated %s\n", e.ID)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.String("id", "", "expense id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	if *id == "" {
		return errors.New("an expense id is required")
	}
	if a.store.DeleteExpense(ctx, *id) {
		fmt.Fprintf(a.out, "deleted %s\n", *id)
	} else {
		fmt.Fprintf(a.out, "no expense %s, nothing deleted\n", *id)
	}
	return nil
}

func (a *app) cmdList(args []string) error {
	fs := a.flagSet("list")
	var sel selectionFlags
	sel.register(fs)
	all := fs.Bool("all", false, "list every expense regardless of period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := sel.apply(a); err != nil {
		return err
	}

	if *all {
		a.renderExpenses(aggregate.SortedByDate(a.store.Expenses()))
		return nil
	}
	sum, err := a.store.Summary()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, headerStyle.Render(sum.Label))
	a.renderExpenses(sum.Expenses)
	return nil
}

func (a *app) cmdSummary(args []string) error {
	fs := a.flagSet("summary")
	var sel selectionFlags
	sel.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := sel.apply(a); err != nil {
		return err
	}
	sum, err := a.store.Summary()
	if err != nil {
		return err
	}
	a.renderSummary(sum)
	return nil
}

func (a *app) cmdCategories(args []string) error {
	if err := a.flagSet("categories").Parse(args); err != nil {
		return err
	}
	a.renderCategories(a.store.Categories(), len(core.DefaultCategories))
	return nil
}

func (a *app) cmdAddCategory(ctx context.Context, args []string) error {
	fs := a.flagSet("add-category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.Join(fs.Args(), " ")
	if !a.store.AddCategory(ctx, name) {
		return fmt.Errorf("category %q is empty or already exists", strings.TrimSpace(name))
	}
	fmt.Fprintf(a.out, "added category %s\n", strings.TrimSpace(name))
	return nil
}

func (a *app) cmdExport(args []string) error {
	fs := a.flagSet("export")
	out := fs.String("o", "", `output file, "-" for stdout (default expenses-<today>.json)`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	doc, err := a.store.Export()
	if err != nil {
		return err
	}
	if *out == "-" {
		_, err := a.out.Write(append(doc, '\n'))
		return err
	}
	path := *out
	if path == "" {
		path = snapshot.FileName(a.store.Today())
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(a.out, "exported %d expenses to %s\n", len(a.store.Expenses()), path)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := a.flagSet("import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("exactly one file to import is required")
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	if err := a.store.Import(ctx, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d expenses\n", len(a.store.Expenses()))
	return nil
}

// knownCategory maps name onto an existing category ignoring case.
func (a *app) knownCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.ErrEmptyCategory
	}
	for _, c := range a.store.Categories() {
		if strings.EqualFold(c, name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (add it with add-category)", name)
}
