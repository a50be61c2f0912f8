package analysis

import "network-quality/internal/models"

// GradePing grades an average round-trip time in milliseconds
func GradePing(ms float64) models.Quality {
	switch {
	case ms < 50:
		return models.QualityExcellent
	case ms < 100:
		return models.QualityGood
	case ms < 150:
		return models.QualityFair
	default:
		return models.QualityPoor
	}
}

// GradeDownload grades an average download rate in Mbps
func GradeDownload(mbps float64) models.Quality {
	switch {
	case mbps > 100:
		return models.QualityExcellent
	case mbps > 50:
		return models.QualityGood
	case mbps > 25:
		return models.QualityFair
	default:
		return models.QualityPoor
	}
}

// GradeUpload grades an average upload rate in Mbps
func GradeUpload(mbps float64) models.Quality {
	switch {
	case mbps > 50:
		return models.QualityExcellent
	case mbps > 25:
		return models.QualityGood
	case mbps > 10:
		return models.QualityFair
	default:
		return models.QualityPoor
	}
}

// Advice returns operator recommendations for a summary
func Advice(s models.Summary) []string {
	var tips []string
	if s.Ping.Mean > 100 {
		tips = append(tips, "High ping: check the connection or pick another server")
	}
	if s.Download.Mean < 25 {
		tips = append(tips, "Slow download: contact the provider or upgrade the plan")
	}
	if s.Upload.Mean < 10 {
		tips = append(tips, "Slow upload: video calls may suffer")
	}
	if s.Ping.Mean < 50 && s.Download.Mean > 50 && s.Upload.Mean > 25 {
		tips = append(tips, "Network quality is good")
	}
	return tips
}
