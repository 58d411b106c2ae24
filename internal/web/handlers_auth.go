package web

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/go-chi/chi/v5"
)

const maxAuthBody = 4 << 10

// unitInfo describes a configured unit for clients.
type unitInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

func newUnitInfo(u unit.Unit) unitInfo {
	return unitInfo{ID: u.String(), Label: u.Label(), Kind: u.Kind.String()}
}

// handleListUnits returns the oversight unit, bureaus and expert panels in
// report order.
func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	all := s.service.Directory().All()
	units := make([]unitInfo, len(all))
	for i, u := range all {
		units[i] = newUnitInfo(u)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"units": units})
}

type loginRequest struct {
	Unit     string `json:"unit"`
	Password string `json:"password"`
}

// handleLogin checks a unit password. A wrong password is 401 with
// success=false; an unknown unit is an error.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody)).Decode(&req); err != nil {
		respondError(w, r, &record.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	u, err := s.service.ParseUnit(req.Unit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ok, err := s.service.VerifyPassword(r.Context(), u, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, r, http.StatusUnauthorized, map[string]any{"success": false})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"unit":    newUnitInfo(u),
	})
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	u, err := s.service.ParseUnit(chi.URLParam(r, "unit"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req passwordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody)).Decode(&req); err != nil {
		respondError(w, r, &record.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if err := s.service.UpdatePassword(r.Context(), u, req.Password); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password updated",
	})
}

// handleHealth reports liveness and export slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"exports": s.service.Limiter().Status(),
	})
}
