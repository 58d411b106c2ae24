package web

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/mseboard/internal/report"
	"github.com/go-chi/chi/v5"
)

// handleExport streams the workbook for {selector}: "all" or a unit id.
// An optional search narrows the records the same way listing does.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := report.ParseSelector(chi.URLParam(r, "selector"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	exp, err := s.service.Export(r.Context(), sel, strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.Header().Set("X-Export-ID", exp.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}

// handleExportStatus reports export slot usage.
func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Limiter().Status())
}
