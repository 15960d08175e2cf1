package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"expenso/internal/clock"
	"expenso/internal/core"
	"expenso/internal/log"
	"expenso/internal/period"
	"expenso/internal/snapshot"
	"expenso/internal/storage"
	"expenso/internal/storage/memory"
)

type failingKV struct {
	puts int
}

func (f *failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingKV) Put(context.Context, string, []byte) error {
	f.puts++
	return errors.New("quota exceeded")
}

func (f *failingKV) Close() error { return nil }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, kv storage.KV) (*Store, *clock.MockClock) {
	t.Helper()
	clk := &clock.MockClock{FixedNow: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)}
	s := New(context.Background(), kv,
		WithClock(clk),
		WithLogger(log.Discard()),
		WithIDGenerator(sequentialIDs()))
	return s, clk
}

func draft(amount, date, category string) core.Draft {
	return core.Draft{Amount: core.MustMoney(amount), Date: core.Date(date), Category: category}
}

func TestNewDefaults(t *testing.T) {
	s, _ := newTestStore(t, memory.New())
	if s.SelectedPeriod() != core.Daily {
		t.Fatalf("default period = %q", s.SelectedPeriod())
	}
	if s.SelectedDate() != "2024-03-05" {
		t.Fatalf("default date = %q", s.SelectedDate())
	}
	if len(s.Expenses()) != 0 || len(s.CustomCategories()) != 0 {
		t.Fatalf("expected empty state")
	}
	if got := strings.Join(s.Categories(), ","); got != "Food,Transport,Bills,Shopping,Other" {
		t.Fatalf("categories = %s", got)
	}
}

func TestAddExpensePrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, _ := newTestStore(t, kv)

	first, err := s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID != "id-1" || first.Description != core.PlaceholderDescription {
		t.Fatalf("unexpected expense: %+v", first)
	}
	if first.CreatedAt != "2024-03-05T09:30:00.000Z" {
		t.Fatalf("unexpected createdAt: %q", first.CreatedAt)
	}
	if _, err := s.AddExpense(ctx, draft("5", "2024-03-04", "Transport")); err != nil {
		t.Fatalf("add: %v", err)
	}

	got := s.Expenses()
	if len(got) != 2 || got[0].ID != "id-2" || got[1].ID != "id-1" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	raw, err := kv.Get(ctx, ExpensesKey)
	if err != nil {
		t.Fatalf("expenses not persisted: %v", err)
	}
	persisted, err := snapshot.DecodeExpenses(raw)
	if err != nil || len(persisted) != 2 {
		t.Fatalf("unexpected persisted record: %s err=%v", raw, err)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	s, _ := newTestStore(t, memory.New())
	tests := []struct {
		name string
		d    core.Draft
		want error
	}{
		{"zero amount", core.Draft{Amount: core.MoneyFromInt(0), Date: "2024-03-05", Category: "Food"}, core.ErrInvalidAmount},
		{"bad date", draft("1", "05/03/2024", "Food"), core.ErrInvalidDate},
		{"blank category", draft("1", "2024-03-05", "  "), core.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddExpense(context.Background(), tt.d); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(s.Expenses()) != 0 {
		t.Fatalf("rejected drafts must not be stored")
	}
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	e, _ := s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))

	e.Amount = core.MustMoney("12.75")
	e.Description = "Dinner"
	if err := s.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := s.Expense(e.ID)
	if !ok || !got.Equal(e) {
		t.Fatalf("update not applied: %+v", got)
	}

	before := s.Expenses()
	missing := e
	missing.ID = "nope"
	if err := s.UpdateExpense(ctx, missing); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
	after := s.Expenses()
	if len(after) != len(before) || !after[0].Equal(before[0]) {
		t.Fatalf("state changed on missing id")
	}
}

func TestUpdateExpenseNormalizesText(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	e, _ := s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))

	cases := []struct {
		name        string
		description string
		category    string
		wantDesc    string
		wantCat     string
	}{
		{"blank description gets placeholder", "   ", "Food", core.PlaceholderDescription, "Food"},
		{"padded fields trimmed", "  Dinner ", " Bills  ", "Dinner", "Bills"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e.Description, e.Category = tc.description, tc.category
			if err := s.UpdateExpense(ctx, e); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, _ := s.Expense(e.ID)
			if got.Description != tc.wantDesc || got.Category != tc.wantCat {
				t.Fatalf("stored description %q category %q", got.Description, got.Category)
			}
		})
	}

	e.Category = "   "
	if err := s.UpdateExpense(ctx, e); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	e, _ := s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))

	if s.DeleteExpense(ctx, "missing") {
		t.Fatalf("delete of missing id reported success")
	}
	if !s.DeleteExpense(ctx, e.ID) {
		t.Fatalf("delete failed")
	}
	if len(s.Expenses()) != 0 {
		t.Fatalf("expense not removed")
	}
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, _ := newTestStore(t, kv)

	if !s.AddCategory(ctx, "  Gym ") {
		t.Fatalf("expected Gym to be added")
	}
	for _, name := range []string{"food", "GYM", "", "   "} {
		if s.AddCategory(ctx, name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if got := s.CustomCategories(); len(got) != 1 || got[0] != "Gym" {
		t.Fatalf("custom categories = %v", got)
	}
	raw, err := kv.Get(ctx, CategoriesKey)
	if err != nil || string(raw) != `["Gym"]` {
		t.Fatalf("persisted categories = %s err=%v", raw, err)
	}
}

func TestSelection(t *testing.T) {
	s, _ := newTestStore(t, memory.New())
	if err := s.SetPeriod("yearly"); !errors.Is(err, core.ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
	if err := s.SetAnchorDate("2024-13-01"); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := s.SetPeriod(core.Monthly); err != nil {
		t.Fatalf("set period: %v", err)
	}
	if err := s.SetAnchorDate("2024-01-31"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	next, err := s.Navigate(period.Next)
	if err != nil || next != "2024-02-29" || s.SelectedDate() != next {
		t.Fatalf("navigate = %q, %v", next, err)
	}
}

func TestNavigatePastLastDateKeepsAnchor(t *testing.T) {
	s, _ := newTestStore(t, memory.New())
	if err := s.SetAnchorDate("9999-12-31"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	if _, err := s.Navigate(period.Next); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if got := s.SelectedDate(); got != "9999-12-31" {
		t.Fatalf("anchor moved to %q", got)
	}
	if _, err := s.Summary(); err != nil {
		t.Fatalf("summary after failed navigate: %v", err)
	}
	if prev, err := s.Navigate(period.Prev); err != nil || prev != "9999-12-30" {
		t.Fatalf("navigate back = %q, %v", prev, err)
	}
}

func TestLoadFromStorage(t *testing.T) {
	kv := memory.NewWithRecords(map[string]string{
		ExpensesKey:   `[{"id":"a","amount":3,"date":"2024-03-05","description":"Tea","category":"Food","createdAt":"2024-03-05T08:00:00.000Z"}]`,
		CategoriesKey: `["Gym"]`,
	})
	s, _ := newTestStore(t, kv)
	if got := s.Expenses(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expenses not loaded: %+v", got)
	}
	if got := s.CustomCategories(); len(got) != 1 || got[0] != "Gym" {
		t.Fatalf("categories not loaded: %v", got)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	kv := memory.NewWithRecords(map[string]string{
		ExpensesKey:   `{not json`,
		CategoriesKey: `[1,2,3]`,
	})
	s, _ := newTestStore(t, kv)
	if len(s.Expenses()) != 0 || len(s.CustomCategories()) != 0 {
		t.Fatalf("malformed records must be ignored")
	}
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{}
	s, _ := newTestStore(t, kv)

	if _, err := s.AddExpense(ctx, draft("10", "2024-03-05", "Food")); err != nil {
		t.Fatalf("add should succeed despite storage failure: %v", err)
	}
	if !s.AddCategory(ctx, "Gym") {
		t.Fatalf("add category should succeed despite storage failure")
	}
	if kv.puts != 2 {
		t.Fatalf("expected 2 write attempts, got %d", kv.puts)
	}
	if len(s.Expenses()) != 1 || len(s.CustomCategories()) != 1 {
		t.Fatalf("in-memory state must stay authoritative")
	}
}

func TestImportReplacesState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))
	s.AddCategory(ctx, "Gym")

	doc := `{"expenses":[{"id":"x","amount":4,"date":"2024-02-01","description":"Bus","category":"Transport","createdAt":"2024-02-01T07:00:00.000Z"}],"customCategories":[]}`
	if err := s.Import(ctx, []byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := s.Expenses(); len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expenses not replaced: %+v", got)
	}
	if got := s.CustomCategories(); len(got) != 1 || got[0] != "Gym" {
		t.Fatalf("empty customCategories must keep existing list, got %v", got)
	}

	doc = `{"expenses":[],"customCategories":["Pets"]}`
	if err := s.Import(ctx, []byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := s.CustomCategories(); len(got) != 1 || got[0] != "Pets" {
		t.Fatalf("categories not replaced: %v", got)
	}
}

func TestImportFailureRetainsState(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	e, _ := s.AddExpense(ctx, draft("10", "2024-03-05", "Food"))

	err := s.Import(ctx, []byte(`{"expenses":[{"id":"1"}]}`))
	if !errors.Is(err, snapshot.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if got := s.Expenses(); len(got) != 1 || got[0].ID != e.ID {
		t.Fatalf("state changed after failed import: %+v", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t, memory.New())
	src.AddExpense(ctx, draft("12.50", "2024-03-05", "Gym"))
	src.AddExpense(ctx, draft("3", "2024-03-01", "Food"))
	src.AddCategory(ctx, "Gym")

	doc, err := src.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	dst, _ := newTestStore(t, memory.New())
	if err := dst.Import(ctx, doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	want, got := src.Expenses(), dst.Expenses()
	if len(got) != len(want) {
		t.Fatalf("got %d expenses, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("expense %d differs: %+v vs %+v", i, got[i], want[i])
		}
	}
	if strings.Join(dst.CustomCategories(), ",") != "Gym" {
		t.Fatalf("categories = %v", dst.CustomCategories())
	}
}

func TestSummaryUsesSelection(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, memory.New())
	s.AddExpense(ctx, draft("100", "2024-03-04", "Food"))
	s.AddExpense(ctx, draft("50", "2024-03-05", "Transport"))
	s.AddExpense(ctx, draft("50", "2024-03-06", "Food"))

	s.SetPeriod(core.Weekly)
	sum, err := s.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.Total.Equal(core.MoneyFromInt(200)) || sum.Count != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Categories[0].Category != "Food" || sum.Categories[0].Percentage != 75 {
		t.Fatalf("unexpected breakdown: %+v", sum.Categories)
	}
}
