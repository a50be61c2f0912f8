package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"network-quality/internal/analysis"
	"network-quality/internal/models"
)

// Generator creates static images and a text summary from the measurement log
type Generator struct {
	reader models.RecordReader
	logger *logrus.Logger
	now    func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(reader models.RecordReader, logger *logrus.Logger) *Generator {
	return &Generator{reader: reader, logger: logger, now: time.Now}
}

// GenerateReport writes charts and a summary for the last days days into a
// new timestamped directory under outputDir and returns that directory.
// Individual charts that cannot be drawn are logged and skipped.
func (g *Generator) GenerateReport(outputDir string, days int) (string, error) {
	records, err := g.reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	now := g.now()
	records = analysis.Window(records, days, now)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	reportDir := filepath.Join(outputDir, fmt.Sprintf("network_report_%s", now.Format("2006-01-02_15-04-05")))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	for _, m := range analysis.Metrics {
		m := m
		g.writeChart(reportDir, fmt.Sprintf("%s_%ddays.png", m.Name, days), func(w io.Writer) error {
			return RenderTimeSeries(w, records, m, days)
		})
		g.writeChart(reportDir, fmt.Sprintf("%s_distribution.png", m.Name), func(w io.Writer) error {
			return RenderDistribution(w, records, m)
		})
		g.writeChart(reportDir, fmt.Sprintf("%s_hourly.png", m.Name), func(w io.Writer) error {
			return RenderHourly(w, records, m)
		})
	}
	g.writeChart(reportDir, "status.png", func(w io.Writer) error {
		return RenderStatus(w, records)
	})

	if err := g.writeTextReport(reportDir, records, now); err != nil {
		g.logger.Errorf("Failed to generate text report: %v", err)
	}

	g.logger.Infof("Report generated in: %s", reportDir)
	return reportDir, nil
}

func (g *Generator) writeChart(dir, name string, render func(io.Writer) error) {
	filename := filepath.Join(dir, name)
	file, err := os.Create(filename)
	if err != nil {
		g.logger.Errorf("Failed to create %s: %v", name, err)
		return
	}

	err = render(file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		g.logger.Warnf("Skipping %s: %v", name, err)
		os.Remove(filename)
		return
	}
	g.logger.Debugf("Wrote %s", filename)
}

func (g *Generator) writeTextReport(dir string, records []models.Record, now time.Time) error {
	file, err := os.Create(filepath.Join(dir, "summary.txt"))
	if err != nil {
		return err
	}

	err = WriteSummary(file, records, now)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}
