package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/go-chi/chi/v5"
)

const (
	// maxPageSize caps the limit query parameter.
	maxPageSize = 500

	// maxRecordBody is the largest accepted record submission.
	maxRecordBody = 1 << 20
)

// parseIntParam parses a non-negative integer query parameter with a default
// value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// recordFilter builds the listing filter from the query string and the
// acting unit.
func recordFilter(r *http.Request) core.Filter {
	f := core.Filter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  min(parseIntParam(r, "limit", core.DefaultPageSize), maxPageSize),
		Offset: parseIntParam(r, "skip", 0),
	}
	if f.Limit == 0 {
		f.Limit = core.DefaultPageSize
	}
	if u, ok := scopeFrom(r.Context()); ok {
		f.Unit = &u
	}
	return f
}

// handleListRecords returns one page of records, newest examination first.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords(r.Context(), recordFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"data": records})
}

func (s *Server) handleCountRecords(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.CountRecords(r.Context(), recordFilter(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{"count": n})
}

// recordID parses the {id} path parameter.
func recordID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := record.ParseID(raw)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, &record.ValidationError{Field: "recordId", Message: "required field is empty"}
	}
	return *id, nil
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	requester, _ := scopeFrom(r.Context())

	rec, err := s.service.GetRecord(r.Context(), requester, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	requester, _ := scopeFrom(r.Context())

	if err := s.service.DeleteRecord(r.Context(), requester, id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Record %d deleted", id),
	})
}

// saveRequest is the body of POST /api/records. RecordID is absent or empty
// for new records.
type saveRequest struct {
	BureauNumber string         `json:"bureauNumber"`
	Record       record.Payload `json:"record"`
	RecordID     any            `json:"recordId"`
}

// handleSaveRecord inserts or updates a record for the submitting unit.
func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBody))
	dec.UseNumber()

	var req saveRequest
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, &record.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	if strings.TrimSpace(req.BureauNumber) == "" {
		respondError(w, r, &record.ValidationError{Field: "bureauNumber", Message: "required field is empty"})
		return
	}
	owner, err := unit.Parse(req.BureauNumber)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.SaveRecord(r.Context(), owner, req.Record, req.RecordID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"id":      rec.ID,
		"record":  rec,
		"message": "Record saved",
	})
}
