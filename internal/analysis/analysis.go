// Package analysis derives summary statistics and hourly aggregates from
// snapshots of the measurement log.
package analysis

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"network-quality/internal/models"
)

// Successful returns the records that hold a measurement
func Successful(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Since returns the records taken at or after cutoff
func Since(records []models.Record, cutoff time.Time) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Window keeps the records of the last days days, relative to now.
// Non-positive days keep everything.
func Window(records []models.Record, days int, now time.Time) []models.Record {
	if days <= 0 {
		return records
	}
	return Since(records, now.AddDate(0, 0, -days))
}

// Metric selects one numeric column of a record
type Metric struct {
	Name  string
	Label string
	Unit  string
	Value func(models.Record) float64
}

var (
	Ping = Metric{
		Name:  "ping",
		Label: "Ping",
		Unit:  "ms",
		Value: func(r models.Record) float64 { return r.PingMs },
	}
	Download = Metric{
		Name:  "download",
		Label: "Download",
		Unit:  "Mbps",
		Value: func(r models.Record) float64 { return r.DownloadMbps },
	}
	Upload = Metric{
		Name:  "upload",
		Label: "Upload",
		Unit:  "Mbps",
		Value: func(r models.Record) float64 { return r.UploadMbps },
	}
)

// Metrics lists the three measured columns in display order
var Metrics = []Metric{Ping, Download, Upload}

// MetricByName looks up a metric by its short name
func MetricByName(name string) (Metric, bool) {
	for _, m := range Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Values extracts the metric from every record
func (m Metric) Values(records []models.Record) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = m.Value(r)
	}
	return values
}

// Describe computes descriptive statistics. It returns stats.EmptyInputErr
// for an empty input.
func Describe(values []float64) (models.MetricStats, error) {
	data := stats.Float64Data(values)

	mean, err := data.Mean()
	if err != nil {
		return models.MetricStats{}, err
	}
	median, err := data.Median()
	if err != nil {
		return models.MetricStats{}, err
	}
	lo, err := data.Min()
	if err != nil {
		return models.MetricStats{}, err
	}
	hi, err := data.Max()
	if err != nil {
		return models.MetricStats{}, err
	}

	q1, q3 := quartiles(data, median)

	return models.MetricStats{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		Q1:     q1,
		Q3:     q3,
		Min:    lo,
		Max:    hi,
		StdDev: sampleStdDev(data),
	}, nil
}

// quartiles returns the lower and upper quartile. A single sample is its own
// quartiles.
func quartiles(data stats.Float64Data, median float64) (float64, float64) {
	if len(data) < 2 {
		return median, median
	}
	q, err := stats.Quartile(data)
	if err != nil {
		return median, median
	}
	return q.Q1, q.Q3
}

// sampleStdDev is zero when fewer than two samples exist
func sampleStdDev(data stats.Float64Data) float64 {
	if len(data) < 2 {
		return 0
	}
	sd, err := data.StandardDeviationSample()
	if err != nil {
		return 0
	}
	return sd
}

// Summarize aggregates the successful records. It fails with
// stats.EmptyInputErr when there is nothing to summarize.
func Summarize(records []models.Record) (models.Summary, error) {
	ok := Successful(records)
	summary := models.Summary{
		TotalRecords:    len(records),
		SuccessfulTests: len(ok),
	}
	if len(ok) == 0 {
		return summary, stats.EmptyInputErr
	}

	var err error
	if summary.Ping, err = Describe(Ping.Values(ok)); err != nil {
		return summary, fmt.Errorf("describe ping: %w", err)
	}
	if summary.Download, err = Describe(Download.Values(ok)); err != nil {
		return summary, fmt.Errorf("describe download: %w", err)
	}
	if summary.Upload, err = Describe(Upload.Values(ok)); err != nil {
		return summary, fmt.Errorf("describe upload: %w", err)
	}

	summary.First, summary.Last = ok[0].Timestamp, ok[0].Timestamp
	for _, r := range ok[1:] {
		if r.Timestamp.Before(summary.First) {
			summary.First = r.Timestamp
		}
		if r.Timestamp.After(summary.Last) {
			summary.Last = r.Timestamp
		}
	}

	summary.PingQuality = GradePing(summary.Ping.Mean)
	summary.DownloadQuality = GradeDownload(summary.Download.Mean)
	summary.UploadQuality = GradeUpload(summary.Upload.Mean)
	return summary, nil
}

// StatusCounts tallies records per status in reporting order. Statuses
// that never occur are omitted.
func StatusCounts(records []models.Record) []models.StatusCount {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, r := range records {
		counts[r.Status]++
	}
	out := make([]models.StatusCount, 0, len(counts))
	for _, s := range models.Statuses {
		if n := counts[s]; n > 0 {
			out = append(out, models.StatusCount{Status: s, Count: n})
		}
	}
	return out
}
