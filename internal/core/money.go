// Package core provides money parsing and handling utilities.
//
// Amounts are currency-agnostic decimals. They are summed exactly and only
// converted to float64 for percentages and display.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money is a positive decimal amount in the user's (single) currency.
type Money struct {
	d decimal.Decimal
}

var errAmountNotNumber = errors.New("amount must be a JSON number")

// NewMoney parses a plain decimal string such as "12.5".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// ParseAmount converts user input to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, keeps the
// precision the user typed and rejects signs, exponents, zero and garbage.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	m, err := NewMoney(strings.TrimSuffix(s, "."))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if !m.d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Percent returns m / total * 100, or 0 when total is zero.
func (m Money) Percent(total Money) float64 {
	if total.d.IsZero() {
		return 0
	}
	return m.d.Div(total.d).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func (m Money) String() string {
	return m.d.String()
}

// Format renders the amount with two decimals and thousands separators,
// e.g. "KSh 1,234.50".
func (m Money) Format(symbol string) string {
	return withSymbol(symbol, humanize.FormatFloat("#,###.##", m.d.Round(2).InexactFloat64()))
}

// FormatCompact abbreviates thousands and millions ("KSh 1.2K", "KSh 3.4M").
func (m Money) FormatCompact(symbol string) string {
	f := m.d.InexactFloat64()
	switch {
	case f >= 1_000_000:
		return withSymbol(symbol, fmt.Sprintf("%.1fM", f/1_000_000))
	case f >= 1_000:
		return withSymbol(symbol, fmt.Sprintf("%.1fK", f/1_000))
	}
	return m.Format(symbol)
}

func withSymbol(symbol, amount string) string {
	if symbol == "" {
		return amount
	}
	return symbol + " " + amount
}

// MarshalJSON writes a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON only accepts a JSON number; quoted strings and null are rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || bytes.Equal(data, []byte("null")) {
		return errAmountNotNumber
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}
	m.d = d
	return nil
}
