package core

import (
	"errors"
	"testing"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2024, 2, 29), true},
		{"2023-02-29", false},
		{"2024-1-1", false},
		{"", false},
		{"01/02/2024", false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestNewDateNormalizes(t *testing.T) {
	if got := NewDate(2024, 1, 32); got != "2024-02-01" {
		t.Fatalf("expected 2024-02-01, got %s", got)
	}
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"daily": Daily, "Day": Daily,
		"weekly": Weekly, "week": Weekly,
		" MONTHLY ": Monthly, "month": Monthly,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %s, got %s (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParsePeriod("yearly"); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestDraftNormalizeAndValidate(t *testing.T) {
	d := Draft{Amount: MustMoney("10"), Date: "2024-01-01", Description: "   ", Category: " Food "}.Normalize()
	if d.Description != PlaceholderDescription {
		t.Fatalf("expected placeholder description, got %q", d.Description)
	}
	if d.Category != "Food" {
		t.Fatalf("expected trimmed category, got %q", d.Category)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		d    Draft
		want error
	}{
		{Draft{Amount: MustMoney("0"), Date: "2024-01-01", Category: "Food"}, ErrInvalidAmount},
		{Draft{Amount: MustMoney("-5"), Date: "2024-01-01", Category: "Food"}, ErrInvalidAmount},
		{Draft{Amount: MustMoney("5"), Date: "2024-13-01", Category: "Food"}, ErrInvalidDate},
		{Draft{Amount: MustMoney("5"), Date: "2024-01-01", Category: " "}, ErrEmptyCategory},
	}
	for i, tc := range bads {
		if err := tc.d.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: "1", Amount: MustMoney("1"), Date: "2024-01-01", Category: "Food"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Expense{
		{ID: "", Amount: MustMoney("1"), Date: "2024-01-01"},
		{ID: "1", Amount: MustMoney("0"), Date: "2024-01-01"},
		{ID: "1", Amount: MustMoney("1"), Date: "yesterday"},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2024-01-01", End: "2024-01-31"}
	for _, d := range []Date{"2024-01-01", "2024-01-15", "2024-01-31"} {
		if !r.Contains(d) {
			t.Fatalf("expected %s inside %v", d, r)
		}
	}
	for _, d := range []Date{"2023-12-31", "2024-02-01"} {
		if r.Contains(d) {
			t.Fatalf("expected %s outside %v", d, r)
		}
	}
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" Gym ", "food", "", "gym", "Pets"})
	want := []string{"Gym", "Pets"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	all := Categories(got)
	if len(all) != len(DefaultCategories)+2 || all[0] != "Food" || all[len(all)-1] != "Pets" {
		t.Fatalf("unexpected combined categories: %v", all)
	}
}
