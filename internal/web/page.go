package web

import (
	"net/http"

	"github.com/JonMunkholm/mseboard/internal/logging"
	"github.com/JonMunkholm/mseboard/internal/web/templates"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(s.service.Directory().All()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render index", "error", err)
	}
}
