package models

import "time"

// Quality grades an average metric value
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// MetricStats represents descriptive statistics for one metric
type MetricStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Summary represents aggregated statistics over successful measurements
type Summary struct {
	TotalRecords    int         `json:"total_records"`
	SuccessfulTests int         `json:"successful_tests"`
	First           time.Time   `json:"first"`
	Last            time.Time   `json:"last"`
	Ping            MetricStats `json:"ping_ms"`
	Download        MetricStats `json:"download_mbps"`
	Upload          MetricStats `json:"upload_mbps"`
	PingQuality     Quality     `json:"ping_quality"`
	DownloadQuality Quality     `json:"download_quality"`
	UploadQuality   Quality     `json:"upload_quality"`
}

// Span returns the time covered by the summarized records
func (s Summary) Span() time.Duration {
	return s.Last.Sub(s.First)
}

// HourlyStats represents per hour-of-day averages computed in memory
type HourlyStats struct {
	Hour           int     `json:"hour"`
	Samples        int     `json:"samples"`
	PingMean       float64 `json:"ping_mean"`
	PingStdDev     float64 `json:"ping_std_dev"`
	DownloadMean   float64 `json:"download_mean"`
	DownloadStdDev float64 `json:"download_std_dev"`
	UploadMean     float64 `json:"upload_mean"`
	UploadStdDev   float64 `json:"upload_std_dev"`
}

// HourlyPattern represents an hour-of-day aggregate computed by the index
type HourlyPattern struct {
	Hour         int     `json:"hour"`
	TotalTests   int     `json:"total_tests"`
	FailedTests  int     `json:"failed_tests"`
	AvgPing      float64 `json:"avg_ping"`
	MaxPing      float64 `json:"max_ping"`
	AvgDownload  float64 `json:"avg_download"`
	AvgUpload    float64 `json:"avg_upload"`
	FailureRate  float64 `json:"failure_rate"`
	DaysWithData int     `json:"days_with_data"`
}

// StatusCount represents how many records carry a status
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}
