package http

import (
	"io"
	"net/http"

	"expenso/internal/log"
	"expenso/internal/snapshot"
)

const maxImportBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Export()
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		InternalServerError("export failed").Write(w)
		return
	}
	NewJSONResponse().
		Header("Content-Disposition", `attachment; filename="`+snapshot.FileName(s.store.Today())+`"`).
		Raw(doc).
		Write(w)
}

// handleImport takes the raw document as the body. The store is untouched
// unless the whole document validates.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		BadRequestError("import document too large or unreadable").Write(w)
		return
	}
	if err := s.store.Import(r.Context(), body); err != nil {
		writeError(w, err)
		return
	}
	NewJSONResponse().Data(map[string]any{
		"expenses":         len(s.store.Expenses()),
		"customCategories": len(s.store.CustomCategories()),
	}).Write(w)
}
