package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"network-quality/internal/analysis"
	"network-quality/internal/models"
)

// errWriter keeps the first write error so a long run of prints can be
// checked once
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, args...)
}

// WriteSummary prints descriptive statistics, quality grades and advice for
// records. An empty log or one without successful tests is reported as such.
// The first write error is returned.
func WriteSummary(w io.Writer, records []models.Record, now time.Time) error {
	ew := &errWriter{w: w}
	ew.printf("Network Quality Summary\n")
	ew.printf("Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	ew.println(strings.Repeat("=", 50))

	summary, err := analysis.Summarize(records)
	if err != nil {
		if summary.TotalRecords == 0 {
			ew.println("No data yet.")
		} else {
			ew.printf("No successful measurements among %s records.\n", humanize.Comma(int64(summary.TotalRecords)))
		}
		return ew.err
	}

	for _, m := range []struct {
		name  string
		stats models.MetricStats
	}{
		{"Ping (ms)", summary.Ping},
		{"Download (Mbps)", summary.Download},
		{"Upload (Mbps)", summary.Upload},
	} {
		ew.printf("\n%s:\n", m.name)
		ew.printf("  Mean:    %.2f\n", m.stats.Mean)
		ew.printf("  Median:  %.2f\n", m.stats.Median)
		ew.printf("  Max:     %.2f\n", m.stats.Max)
		ew.printf("  Min:     %.2f\n", m.stats.Min)
		ew.printf("  Std dev: %.2f\n", m.stats.StdDev)
		ew.printf("  Box:     %.2f | %.2f [%.2f] %.2f | %.2f\n",
			m.stats.Min, m.stats.Q1, m.stats.Median, m.stats.Q3, m.stats.Max)
	}

	ew.printf("\nPeriod: %s to %s (%s)\n",
		summary.First.Format("2006-01-02 15:04:05"),
		summary.Last.Format("2006-01-02 15:04:05"),
		summary.Span())
	ew.printf("Tests: %s successful of %s (last %s)\n",
		humanize.Comma(int64(summary.SuccessfulTests)),
		humanize.Comma(int64(summary.TotalRecords)),
		humanize.RelTime(summary.Last, now, "ago", "from now"))

	ew.println("\nQuality:")
	ew.printf("  Ping:     %s (%.1f ms)\n", summary.PingQuality, summary.Ping.Mean)
	ew.printf("  Download: %s (%.1f Mbps)\n", summary.DownloadQuality, summary.Download.Mean)
	ew.printf("  Upload:   %s (%.1f Mbps)\n", summary.UploadQuality, summary.Upload.Mean)

	if tips := analysis.Advice(summary); len(tips) > 0 {
		ew.println("\nAdvice:")
		for _, tip := range tips {
			ew.printf("  - %s\n", tip)
		}
	}

	ew.println(strings.Repeat("=", 50))
	return ew.err
}
