package csvlog

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"network-quality/internal/models"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		measured bool
		expected string
	}{
		{name: "whole throughput", value: 100, measured: true, expected: "100.0"},
		{name: "two decimals", value: 18.37, measured: true, expected: "18.37"},
		{name: "one decimal", value: 18.4, measured: true, expected: "18.4"},
		{name: "measured zero", value: 0, measured: true, expected: "0.0"},
		{name: "failed zero", value: 0, measured: false, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMetric(tt.value, tt.measured); got != tt.expected {
				t.Errorf("formatMetric(%v, %v) = %q, want %q", tt.value, tt.measured, got, tt.expected)
			}
		})
	}
}

func TestRowRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 22, 45, 9, 0, time.Local)
	records := []models.Record{
		{
			Timestamp:      ts,
			PingMs:         7.05,
			DownloadMbps:   512.49,
			UploadMbps:     0.5,
			ServerName:     `Quote "Q" Net`,
			ServerLocation: "JP, Tokyo",
			Status:         models.StatusSuccess,
		},
		models.FailedRecord(ts, models.StatusFailed),
		models.FailedRecord(ts, models.StatusTimeout),
		models.FailedRecord(ts, models.StatusError),
	}

	for _, r := range records {
		t.Run(string(r.Status), func(t *testing.T) {
			got, err := decodeRow(encodeRow(r))
			if err != nil {
				t.Fatalf("decodeRow(encodeRow(r)): %v", err)
			}
			if diff := cmp.Diff(r, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeRowDropsSubSecondPrecision(t *testing.T) {
	ts := time.Date(2024, 1, 1, 9, 0, 0, 999_000_000, time.Local)
	row := encodeRow(models.FailedRecord(ts, models.StatusError))
	if row[0] != "2024-01-01 09:00:00" {
		t.Errorf("timestamp field = %q, want %q", row[0], "2024-01-01 09:00:00")
	}
}

func TestFailedRecordInvariant(t *testing.T) {
	for _, status := range []models.Status{models.StatusFailed, models.StatusTimeout, models.StatusError} {
		row := encodeRow(models.FailedRecord(time.Now(), status))
		want := []string{"0", "0", "0", "N/A", "N/A", string(status)}
		if diff := cmp.Diff(want, row[1:]); diff != "" {
			t.Errorf("%s row mismatch (-want +got):\n%s", status, diff)
		}
	}
}
