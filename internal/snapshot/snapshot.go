// Package snapshot encodes and decodes the portable JSON document holding all
// expenses and custom categories, and the two records persisted on disk.
//
// Decoding is all-or-nothing: one bad element rejects the whole document.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"expenso/internal/core"
)

var ErrInvalidFormat = errors.New("invalid snapshot format")

// Snapshot is the exportable state. Field order is the wire order.
type Snapshot struct {
	Expenses         []core.Expense `json:"expenses"`
	CustomCategories []string       `json:"customCategories"`
}

// Export renders s as two-space indented JSON. Nil slices are written as [].
func Export(s Snapshot) ([]byte, error) {
	if s.Expenses == nil {
		s.Expenses = []core.Expense{}
	}
	if s.CustomCategories == nil {
		s.CustomCategories = []string{}
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// Import accepts either the export document or a bare array of expenses
// (the legacy format, which carries no custom categories).
func Import(data []byte) (Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Snapshot{}, invalid("empty document")
	}

	var rawExpenses, rawCategories json.RawMessage
	switch data[0] {
	case '[':
		rawExpenses = data
	case '{':
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return Snapshot{}, invalid("parse document: %v", err)
		}
		rawExpenses = doc["expenses"]
		rawCategories = doc["customCategories"]
		if !isArray(rawExpenses) {
			return Snapshot{}, invalid("expenses must be an array")
		}
	default:
		return Snapshot{}, invalid("document must be an object or an array")
	}

	expenses, err := DecodeExpenses(rawExpenses)
	if err != nil {
		return Snapshot{}, err
	}
	var categories []string
	if len(rawCategories) > 0 && !bytes.Equal(rawCategories, []byte("null")) {
		if categories, err = DecodeCategories(rawCategories); err != nil {
			return Snapshot{}, err
		}
	}
	return Snapshot{Expenses: expenses, CustomCategories: categories}, nil
}

// DecodeExpenses validates and decodes a JSON array of expenses. Every element
// needs string id, date, description and category and a numeric amount;
// createdAt is optional. Amounts must be positive, dates canonical and ids
// unique.
func DecodeExpenses(data []byte) ([]core.Expense, error) {
	data = bytes.TrimSpace(data)
	if !isArray(data) {
		return nil, invalid("expenses must be an array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, invalid("parse expenses: %v", err)
	}

	out := make([]core.Expense, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, raw := range items {
		e, err := decodeExpense(raw)
		if err != nil {
			return nil, invalid("expense %d: %v", i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, invalid("expense %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

// DecodeCategories decodes a JSON array of strings and normalizes it.
func DecodeCategories(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	if !isArray(data) {
		return nil, invalid("customCategories must be an array")
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, invalid("customCategories must contain only strings")
	}
	return core.NormalizeCategories(names), nil
}

// EncodeExpenses renders the persisted expense record.
func EncodeExpenses(expenses []core.Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return json.Marshal(expenses)
}

// EncodeCategories renders the persisted custom category record.
func EncodeCategories(categories []string) ([]byte, error) {
	if categories == nil {
		categories = []string{}
	}
	return json.Marshal(categories)
}

// FileName is the suggested export file name for a given day.
func FileName(today core.Date) string {
	return "expenses-" + string(today) + ".json"
}

func decodeExpense(raw json.RawMessage) (core.Expense, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return core.Expense{}, errors.New("not an object")
	}

	var (
		e   core.Expense
		err error
	)
	if e.ID, err = stringField(fields, "id"); err != nil {
		return core.Expense{}, err
	}
	rawAmount, ok := fields["amount"]
	if !ok {
		return core.Expense{}, errors.New("missing amount")
	}
	if err := e.Amount.UnmarshalJSON(rawAmount); err != nil {
		return core.Expense{}, err
	}
	date, err := stringField(fields, "date")
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = core.Date(date)
	if e.Description, err = stringField(fields, "description"); err != nil {
		return core.Expense{}, err
	}
	if e.Category, err = stringField(fields, "category"); err != nil {
		return core.Expense{}, err
	}
	if _, ok := fields["createdAt"]; ok {
		if e.CreatedAt, err = stringField(fields, "createdAt"); err != nil {
			return core.Expense{}, err
		}
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing %s", name)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", fmt.Errorf("%s must be a string", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return s, nil
}

func isArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...))
}
