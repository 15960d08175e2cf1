package http

import (
	"net/http"

	"expenso/internal/aggregate"
	"expenso/internal/core"
	"expenso/internal/palette"
	"expenso/internal/period"
)

type selectionView struct {
	Period core.Period    `json:"period"`
	Date   core.Date      `json:"date"`
	Label  string         `json:"label"`
	Range  core.DateRange `json:"range"`
}

func (s *Server) selection() (selectionView, error) {
	p, d := s.store.SelectedPeriod(), s.store.SelectedDate()
	rng, err := period.RangeFor(p, d)
	if err != nil {
		return selectionView{}, err
	}
	label, err := period.Label(p, d)
	if err != nil {
		return selectionView{}, err
	}
	return selectionView{Period: p, Date: d, Label: label, Range: rng}, nil
}

func (s *Server) writeSelection(w http.ResponseWriter) {
	sel, err := s.selection()
	if err != nil {
		writeError(w, err)
		return
	}
	NewJSONResponse().Data(sel).Write(w)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.writeSelection(w)
}

// handleSetSelection accepts period and/or date. Both are validated before
// either is applied.
func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	var (
		kind core.Period
		date core.Date
		err  error
	)
	if p.Has("period") {
		if kind, err = core.ParsePeriod(p.Get("period")); err != nil {
			writeError(w, err)
			return
		}
	}
	if p.Has("date") {
		if date, err = core.ParseDate(p.Get("date")); err != nil {
			writeError(w, err)
			return
		}
	}
	if kind != "" {
		if err := s.store.SetPeriod(kind); err != nil {
			writeError(w, err)
			return
		}
	}
	if date != "" {
		if err := s.store.SetAnchorDate(date); err != nil {
			writeError(w, err)
			return
		}
	}
	s.writeSelection(w)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	dir, err := period.ParseDirection(r.PathValue("direction"))
	if err != nil {
		NotFoundError(err.Error()).Write(w)
		return
	}
	if _, err := s.store.Navigate(dir); err != nil {
		writeError(w, err)
		return
	}
	s.writeSelection(w)
}

type summaryView struct {
	aggregate.Summary
	FormattedTotal string         `json:"formattedTotal"`
	CompactTotal   string         `json:"compactTotal"`
	Expenses       []expenseView  `json:"expenses"`
	Categories     []categoryLine `json:"categories"`
}

type categoryLine struct {
	core.CategoryTotal
	Color           string `json:"color"`
	FormattedAmount string `json:"formattedTotal"`
}

// handleSummary aggregates the selected period, or the one given by
// ?period and ?date without changing the selection.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelectionParams(r.URL.Query(), SelectionParams{
		Period: s.store.SelectedPeriod(),
		Date:   s.store.SelectedDate(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	sum, err := aggregate.Summarize(s.store.Expenses(), sel.Period, sel.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	lines := make([]categoryLine, 0, len(sum.Categories))
	for _, c := range sum.Categories {
		lines = append(lines, categoryLine{
			CategoryTotal:   c,
			Color:           string(palette.ColorFor(c.Category)),
			FormattedAmount: c.Total.Format(s.currency),
		})
	}
	NewJSONResponse().Data(summaryView{
		Summary:        sum,
		FormattedTotal: sum.Total.Format(s.currency),
		CompactTotal:   sum.Total.FormatCompact(s.currency),
		Expenses:       s.views(sum.Expenses),
		Categories:     lines,
	}).Write(w)
}
