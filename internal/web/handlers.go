package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"network-quality/internal/analysis"
	"network-quality/internal/models"
	"network-quality/internal/report"
)

// handleRecords handles /api/records requests
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	var records []models.Record
	var err error
	if limit > 0 {
		records, err = s.log.ReadTail(limit)
	} else {
		records, err = s.log.ReadAll()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleSummary handles /api/summary requests
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", 0)
	if !ok {
		return
	}

	records, err := s.log.ReadAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// An empty summary is a valid answer; counts are still filled in.
	summary, _ := analysis.Summarize(analysis.Window(records, days, s.now()))
	writeJSON(w, http.StatusOK, summary)
}

// handleHourly handles /api/hourly requests
func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", 30)
	if !ok {
		return
	}

	patterns, err := s.index.HourlyPatterns(days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, patterns)
}

// handleStatus handles /api/status requests
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := s.index.StatusCounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

// handleChart renders /charts/{metric}.png and /charts/status.png
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, found := strings.CutSuffix(r.PathValue("name"), ".png")
	if !found {
		http.NotFound(w, r)
		return
	}
	days, ok := intParam(w, r, "days", 7)
	if !ok {
		return
	}

	records, err := s.log.ReadAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	records = analysis.Window(records, days, s.now())

	var buf bytes.Buffer
	if name == "status" {
		err = report.RenderStatus(&buf, records)
	} else if metric, known := analysis.MetricByName(name); known {
		err = report.RenderTimeSeries(&buf, records, metric, days)
	} else {
		http.NotFound(w, r)
		return
	}

	if errors.Is(err, report.ErrNotEnoughData) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Errorf("Failed to render chart %s: %v", name, err)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// intParam reads a non-negative integer query parameter. It writes a 400
// response and returns false when the value is malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		http.Error(w, name+" must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
