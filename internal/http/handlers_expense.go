package http

import (
	"net/http"
	"strings"

	"expenso/internal/aggregate"
	"expenso/internal/core"
	"expenso/internal/log"
	"expenso/internal/palette"
	"expenso/internal/period"
)

// expenseView decorates an expense with what the list renders next to it.
type expenseView struct {
	core.Expense
	DateLabel       string        `json:"dateLabel"`
	FormattedAmount string        `json:"formattedAmount"`
	Color           palette.Color `json:"color"`
}

func (s *Server) view(e core.Expense, today core.Date) expenseView {
	return expenseView{
		Expense:         e,
		DateLabel:       period.RelativeLabel(e.Date, today),
		FormattedAmount: e.Amount.Format(s.currency),
		Color:           palette.ColorFor(e.Category),
	}
}

func (s *Server) views(expenses []core.Expense) []expenseView {
	today := s.store.Today()
	out := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, s.view(e, today))
	}
	return out
}

// handleListExpenses returns every expense newest date first. With ?period
// or ?date only the expenses of that period are returned.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expenses := s.store.Expenses()
	if q.Has("period") || q.Has("date") {
		sel, err := ParseSelectionParams(q, SelectionParams{Period: s.store.SelectedPeriod(), Date: s.store.SelectedDate()})
		if err != nil {
			writeError(w, err)
			return
		}
		rng, err := period.RangeFor(sel.Period, sel.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		expenses = aggregate.FilterByRange(expenses, rng)
	}

	NewJSONResponse().Data(map[string]any{
		"expenses": s.views(aggregate.SortedByDate(expenses)),
	}).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	d, err := ParseDraft(p, s.store.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	if d.Category != "" {
		c, ok := canonicalCategory(s.store.Categories(), d.Category)
		if !ok {
			UnprocessableEntityError("unknown category " + d.Category).Write(w)
			return
		}
		d.Category = c
	}

	e, err := s.store.AddExpense(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/expenses/"+e.ID).
		Data(s.view(e, s.store.Today())).
		Write(w)
}

// handleUpdateExpense replaces the editable fields of an existing expense.
// The id comes from the path and createdAt is preserved.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := s.store.Expense(id)
	if !ok {
		NotFoundError("expense not found").Write(w)
		return
	}

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	d, err := ParseDraft(p, existing.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		writeError(w, err)
		return
	}
	c, ok := canonicalCategory(s.store.Categories(), d.Category)
	if !ok {
		UnprocessableEntityError("unknown category " + d.Category).Write(w)
		return
	}
	d.Category = c

	updated := core.Expense{
		ID:          id,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
		Category:    d.Category,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.store.UpdateExpense(r.Context(), updated); err != nil {
		writeError(w, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Expense updated",
		log.NewFields().WithExpense(id, updated.Amount.String(), updated.Date.String(), updated.Category).WithOperation(log.OpUpdate).ToSlice()...)
	NewJSONResponse().Data(s.view(updated, s.store.Today())).Write(w)
}

// handleDeleteExpense always answers 204: deleting a missing id is a no-op.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.store.DeleteExpense(r.Context(), id) {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Expense deleted",
			log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)
	}
	w.WriteHeader(http.StatusNoContent)
}

// canonicalCategory returns the known spelling of name.
func canonicalCategory(categories []string, name string) (string, bool) {
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
