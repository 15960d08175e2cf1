package http

import (
	"net/http"

	"expenso/internal/core"
	"expenso/internal/palette"
)

type categoryView struct {
	Name   string        `json:"name"`
	Color  palette.Color `json:"color"`
	Custom bool          `json:"custom"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	custom := s.store.CustomCategories()
	out := make([]categoryView, 0, len(core.DefaultCategories)+len(custom))
	for _, c := range core.DefaultCategories {
		out = append(out, categoryView{Name: c, Color: palette.ColorFor(c)})
	}
	for _, c := range custom {
		out = append(out, categoryView{Name: c, Color: palette.ColorFor(c), Custom: true})
	}
	NewJSONResponse().Data(map[string]any{"categories": out}).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	name := p.Get("name")
	if !s.store.AddCategory(r.Context(), name) {
		UnprocessableEntityError("category is empty or already exists").Write(w)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Data(categoryView{Name: name, Color: palette.ColorFor(name), Custom: true}).
		Write(w)
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	NewJSONResponse().Data(map[string]any{
		"category": category,
		"color":    palette.ColorFor(category),
	}).Write(w)
}
