package analysis

import (
	"github.com/montanaflynn/stats"

	"network-quality/internal/models"
)

// Hourly groups successful records by hour of day (local clock) and returns
// one entry per hour, 0 through 23. Hours without data have zero samples.
func Hourly(records []models.Record) []models.HourlyStats {
	var buckets [24][]models.Record
	for _, r := range Successful(records) {
		h := r.Timestamp.Hour()
		buckets[h] = append(buckets[h], r)
	}

	out := make([]models.HourlyStats, 24)
	for h := range out {
		out[h].Hour = h
		rs := buckets[h]
		if len(rs) == 0 {
			continue
		}
		out[h].Samples = len(rs)
		out[h].PingMean, out[h].PingStdDev = meanStd(Ping.Values(rs))
		out[h].DownloadMean, out[h].DownloadStdDev = meanStd(Download.Values(rs))
		out[h].UploadMean, out[h].UploadStdDev = meanStd(Upload.Values(rs))
	}
	return out
}

// HourlyMean picks the metric's mean out of an hourly bucket
func (m Metric) HourlyMean(h models.HourlyStats) float64 {
	switch m.Name {
	case Ping.Name:
		return h.PingMean
	case Download.Name:
		return h.DownloadMean
	case Upload.Name:
		return h.UploadMean
	}
	return 0
}

func meanStd(values []float64) (float64, float64) {
	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return 0, 0
	}
	return mean, sampleStdDev(data)
}
