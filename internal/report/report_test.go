package report

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"network-quality/internal/analysis"
	"network-quality/internal/models"
)

type staticReader []models.Record

func (s staticReader) ReadAll() ([]models.Record, error) { return s, nil }

func (s staticReader) ReadTail(n int) ([]models.Record, error) {
	if n < len(s) {
		return s[len(s)-n:], nil
	}
	return s, nil
}

var now = time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local)

func series(n int) []models.Record {
	var out []models.Record
	start := now.Add(-time.Duration(n) * time.Hour)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		if i%5 == 4 {
			out = append(out, models.FailedRecord(ts, models.StatusTimeout))
			continue
		}
		out = append(out, models.Record{
			Timestamp:      ts,
			PingMs:         15 + float64(i%7),
			DownloadMbps:   90 + float64(i%11),
			UploadMbps:     35 + float64(i%3),
			ServerName:     "Bangkok",
			ServerLocation: "Thailand, Bangkok",
			Status:         models.StatusSuccess,
		})
	}
	return out
}

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}

func TestRenderCharts(t *testing.T) {
	records := series(30)

	tests := []struct {
		name   string
		render func(*bytes.Buffer) error
	}{
		{"time series", func(b *bytes.Buffer) error { return RenderTimeSeries(b, records, analysis.Download, 7) }},
		{"distribution", func(b *bytes.Buffer) error { return RenderDistribution(b, records, analysis.Ping) }},
		{"hourly", func(b *bytes.Buffer) error { return RenderHourly(b, records, analysis.Upload) }},
		{"status", func(b *bytes.Buffer) error { return RenderStatus(b, records) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.render(&buf); err != nil {
				t.Fatalf("render: %v", err)
			}
			assertPNG(t, buf.Bytes())
		})
	}
}

func TestRenderTimeSeriesNeedsTwoPoints(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTimeSeries(&buf, series(1), analysis.Ping, 7)
	if !errors.Is(err, ErrNotEnoughData) {
		t.Errorf("expected ErrNotEnoughData, got %v", err)
	}
}

func TestHistogram(t *testing.T) {
	bars := histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	if len(bars) != 5 {
		t.Fatalf("got %d bins, want 5", len(bars))
	}
	total := 0.0
	for _, b := range bars {
		total += b.Value
	}
	if total != 11 {
		t.Errorf("bins hold %v values, want 11", total)
	}
	if bars[4].Value != 3 {
		t.Errorf("last bin = %v, want 3 (8, 9 and the max)", bars[4].Value)
	}

	flat := histogram([]float64{4, 4, 4}, 20)
	if len(flat) != 1 || flat[0].Value != 3 {
		t.Errorf("flat histogram = %+v", flat)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, series(30), now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Ping (ms):", "Download (Mbps):", "Upload (Mbps):", "Quality:", "Tests: 24 successful of 30"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("disk full")
	}
	f.after--
	return len(p), nil
}

func TestWriteSummaryReportsWriteErrors(t *testing.T) {
	for _, records := range [][]models.Record{series(30), nil} {
		err := WriteSummary(&failingWriter{after: 2}, records, now)
		if err == nil || err.Error() != "disk full" {
			t.Errorf("WriteSummary(%d records) error = %v, want disk full", len(records), err)
		}
	}
}

func TestWriteSummaryQuartiles(t *testing.T) {
	var buf bytes.Buffer
	records := []models.Record{}
	for i, down := range []float64{10, 20, 30, 40} {
		r := series(1)[0]
		r.Timestamp = now.Add(time.Duration(i) * time.Hour)
		r.DownloadMbps = down
		records = append(records, r)
	}
	if err := WriteSummary(&buf, records, now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Box:     10.00 | 15.00 [25.00] 35.00 | 40.00") {
		t.Errorf("summary missing download box line:\n%s", buf.String())
	}
}

func TestWriteSummaryNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, nil, now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No data yet.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestGenerateReport(t *testing.T) {
	logger, _ := test.NewNullLogger()
	g := NewGenerator(staticReader(series(48)), logger)
	g.now = func() time.Time { return now }

	dir, err := g.GenerateReport(t.TempDir(), 7)
	if err != nil {
		t.Fatalf("GenerateReport(): %v", err)
	}
	if !strings.HasSuffix(dir, "network_report_2024-01-03_12-00-00") {
		t.Errorf("unexpected report dir %s", dir)
	}

	for _, name := range []string{
		"ping_7days.png", "download_7days.png", "upload_7days.png",
		"ping_distribution.png", "ping_hourly.png", "status.png", "summary.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestGenerateReportEmptyLog(t *testing.T) {
	logger, _ := test.NewNullLogger()
	g := NewGenerator(staticReader(nil), logger)
	g.now = func() time.Time { return now }

	dir, err := g.GenerateReport(t.TempDir(), 7)
	if err != nil {
		t.Fatalf("GenerateReport(): %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ping_7days.png")); !os.IsNotExist(err) {
		t.Error("no chart should be written for an empty log")
	}
	if _, err := os.Stat(filepath.Join(dir, "summary.txt")); err != nil {
		t.Errorf("summary.txt should always be written: %v", err)
	}
}
