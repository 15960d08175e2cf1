// Package store owns the expense list, the custom categories and the period
// selection, and writes the first two to a storage.KV after every change.
//
// Writes that fail are logged and otherwise ignored: the in-memory state stays
// authoritative for the session, so a storage outage loses data on the next
// restart instead of interrupting the user.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"expenso/internal/aggregate"
	"expenso/internal/clock"
	"expenso/internal/core"
	"expenso/internal/log"
	"expenso/internal/period"
	"expenso/internal/snapshot"
	"expenso/internal/storage"
)

// Fixed storage keys of the two persisted records.
const (
	ExpensesKey   = "expense-tracker-data"
	CategoriesKey = "expense-tracker-categories"
)

// CreatedAtLayout is the UTC millisecond timestamp stamped on new expenses.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

type Store struct {
	mu     sync.RWMutex
	state  State
	kv     storage.KV
	clock  clock.Clock
	logger *log.Logger
	newID  func() string
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentStore) }
}

// WithIDGenerator overrides the uuid v4 default.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// New builds a store and loads both records from kv. Missing or malformed
// records leave the defaults in place.
func New(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		clock:  clock.SystemClock{},
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentStore),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = Initial(period.Today(s.clock))
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if expenses, ok := read(ctx, s, ExpensesKey, snapshot.DecodeExpenses); ok && len(expenses) > 0 {
		s.state = Apply(s.state, LoadExpenses{Expenses: expenses})
	}
	if categories, ok := read(ctx, s, CategoriesKey, snapshot.DecodeCategories); ok && len(categories) > 0 {
		s.state = Apply(s.state, LoadCategories{Categories: categories})
	}
	s.logger.DebugContext(ctx, "Store loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(s.state.Expenses))
}

func read[T any](ctx context.Context, s *Store, key string, decode func([]byte) ([]T, error)) ([]T, bool) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read record, starting empty",
			log.NewFields().WithKey(key).WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		return nil, false
	}
	v, err := decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Ignoring malformed record",
			log.NewFields().WithKey(key).WithOperation(log.OpLoad).WithError(err).ToSlice()...)
		return nil, false
	}
	return v, true
}

// AddExpense stamps a new id and creation time on d and prepends it.
func (s *Store) AddExpense(ctx context.Context, d core.Draft) (core.Expense, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := core.Expense{
		ID:          s.newID(),
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
		Category:    d.Category,
		CreatedAt:   s.clock.Now().UTC().Format(CreatedAtLayout),
	}
	s.state = Apply(s.state, AddExpense{Expense: e})
	s.persistExpenses(ctx)

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithExpense(e.ID, e.Amount.String(), e.Date.String(), e.Category).WithOperation(log.OpCreate).ToSlice()...)
	return e, nil
}

// UpdateExpense replaces the stored expense with the same id. A missing id
// changes nothing and returns core.ErrExpenseNotFound.
// The description and category are normalized the way AddExpense does.
func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		e.Description = core.PlaceholderDescription
	}
	e.Category = strings.TrimSpace(e.Category)
	if err := e.Validate(); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if e.Category == "" {
		return fmt.Errorf("update expense: %w", core.ErrEmptyCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasExpense(s.state, e.ID) {
		return fmt.Errorf("update expense %q: %w", e.ID, core.ErrExpenseNotFound)
	}
	s.state = Apply(s.state, UpdateExpense{Expense: e})
	s.persistExpenses(ctx)
	return nil
}

// DeleteExpense reports whether an expense was removed.
func (s *Store) DeleteExpense(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasExpense(s.state, id) {
		return false
	}
	s.state = Apply(s.state, DeleteExpense{ID: id})
	s.persistExpenses(ctx)
	return true
}

// AddCategory appends a trimmed custom category. It returns false for blank
// names and for names that match an existing category ignoring case.
func (s *Store) AddCategory(ctx context.Context, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := CheckCategory(s.state, name)
	if !ok {
		return false
	}
	s.state = Apply(s.state, AddCategory{Name: name})
	s.persistCategories(ctx)
	return true
}

func (s *Store) SetPeriod(p core.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, SetPeriod{Period: p})
	s.logger.Debug("Period selected", log.FieldPeriod, string(p), log.FieldDate, s.state.SelectedDate.String())
	return nil
}

func (s *Store) SetAnchorDate(d core.Date) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, SetDate{Date: d})
	s.logger.Debug("Anchor date selected", log.FieldPeriod, string(s.state.SelectedPeriod), log.FieldDate, d.String())
	return nil
}

// Navigate moves the anchor date one period back or forward and returns it.
func (s *Store) Navigate(dir period.Direction) (core.Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := period.Advance(s.state.SelectedPeriod, s.state.SelectedDate, dir)
	if err != nil {
		return "", err
	}
	if err := next.Validate(); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	s.state = Apply(s.state, SetDate{Date: next})
	return next, nil
}

// Export renders every expense and custom category as a snapshot document.
func (s *Store) Export() ([]byte, error) {
	return snapshot.Export(s.Snapshot())
}

// Import validates data completely before touching state. On success the
// expense list is replaced, and the custom categories too when the document
// carries a non-empty list.
func (s *Store) Import(ctx context.Context, data []byte) error {
	snap, err := snapshot.Import(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Import rejected",
			log.NewFields().WithOperation(log.OpImport).WithError(err).ToSlice()...)
		return fmt.Errorf("import snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, ImportExpenses{Expenses: snap.Expenses})
	s.persistExpenses(ctx)
	if len(snap.CustomCategories) > 0 {
		s.state = Apply(s.state, LoadCategories{Categories: snap.CustomCategories})
		s.persistCategories(ctx)
	}
	s.logger.InfoContext(ctx, "Snapshot imported",
		log.FieldOperation, log.OpImport,
		log.FieldCount, len(snap.Expenses))
	return nil
}

// Summary aggregates the expenses of the selected period.
func (s *Store) Summary() (aggregate.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.Summarize(s.state.Expenses, s.state.SelectedPeriod, s.state.SelectedDate)
}

// Expenses returns a copy in insertion order, newest first.
func (s *Store) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Expenses)
}

// Expense looks up a single expense by id.
func (s *Store) Expense(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.Expenses, id); i >= 0 {
		return s.state.Expenses[i], true
	}
	return core.Expense{}, false
}

func (s *Store) CustomCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.CustomCategories)
}

// Categories returns the defaults followed by the custom categories.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Categories()
}

func (s *Store) SelectedPeriod() core.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedPeriod
}

func (s *Store) SelectedDate() core.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectedDate
}

// Today is the current local date according to the store's clock.
func (s *Store) Today() core.Date {
	return period.Today(s.clock)
}

func (s *Store) Snapshot() snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.Snapshot{
		Expenses:         slices.Clone(s.state.Expenses),
		CustomCategories: slices.Clone(s.state.CustomCategories),
	}
}

// Caller must hold s.mu.
func (s *Store) persistExpenses(ctx context.Context) {
	b, err := snapshot.EncodeExpenses(s.state.Expenses)
	s.write(ctx, ExpensesKey, b, err)
}

// Caller must hold s.mu.
func (s *Store) persistCategories(ctx context.Context) {
	b, err := snapshot.EncodeCategories(s.state.CustomCategories)
	s.write(ctx, CategoriesKey, b, err)
}

func (s *Store) write(ctx context.Context, key string, b []byte, encErr error) {
	err := encErr
	if err == nil {
		err = s.kv.Put(ctx, key, b)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to persist record, keeping in-memory state",
			log.NewFields().WithKey(key).WithOperation(log.OpPersist).WithError(err).ToSlice()...)
	}
}
