package csvlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"network-quality/internal/models"
)

// TimeLayout is the timestamp format of the log
const TimeLayout = "2006-01-02 15:04:05"

// Header is the fixed first row of every log file
var Header = []string{
	"timestamp",
	"ping_ms",
	"download_mbps",
	"upload_mbps",
	"server_name",
	"server_location",
	"status",
}

// encodeRow serializes a record in header column order
func encodeRow(r models.Record) []string {
	ok := r.OK()
	return []string{
		r.Timestamp.Format(TimeLayout),
		formatMetric(r.PingMs, ok),
		formatMetric(r.DownloadMbps, ok),
		formatMetric(r.UploadMbps, ok),
		r.ServerName,
		r.ServerLocation,
		string(r.Status),
	}
}

// formatMetric writes measured values with at least one fractional digit
// ("100.0", "18.37") and the zeros of failed attempts as a bare "0".
func formatMetric(v float64, measured bool) string {
	if !measured && v == 0 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// decodeRow parses one data row. Extra trailing fields are ignored.
func decodeRow(row []string) (models.Record, error) {
	if len(row) < len(Header) {
		return models.Record{}, fmt.Errorf("row has %d fields, want %d", len(row), len(Header))
	}

	ts, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(row[0]), time.Local)
	if err != nil {
		return models.Record{}, fmt.Errorf("parse timestamp %q: %w", row[0], err)
	}

	var values [3]float64
	for i := range values {
		raw := strings.TrimSpace(row[i+1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Record{}, fmt.Errorf("parse %s %q: %w", Header[i+1], raw, err)
		}
		values[i] = v
	}

	status := models.Status(strings.TrimSpace(row[6]))
	if !status.Valid() {
		return models.Record{}, fmt.Errorf("unknown status %q", row[6])
	}

	return models.Record{
		Timestamp:      ts,
		PingMs:         values[0],
		DownloadMbps:   values[1],
		UploadMbps:     values[2],
		ServerName:     row[4],
		ServerLocation: row[5],
		Status:         status,
	}, nil
}
