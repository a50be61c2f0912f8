package database

import (
	"database/sql"

	"network-quality/internal/models"
)

// Count returns the number of indexed rows
func (db *DB) Count() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM measurements`).Scan(&n)
	return n, err
}

// HourlyPatterns aggregates the index by hour of day over the last days
// days. Non-positive days covers the whole index.
func (db *DB) HourlyPatterns(days int) ([]models.HourlyPattern, error) {
	query := `
        SELECT
            CAST(strftime('%H', timestamp) AS INTEGER) as hour,
            COUNT(*) as total_tests,
            SUM(CASE WHEN status != 'success' THEN 1 ELSE 0 END) as failed_tests,
            AVG(CASE WHEN status = 'success' THEN ping_ms ELSE NULL END) as avg_ping,
            MAX(CASE WHEN status = 'success' THEN ping_ms ELSE NULL END) as max_ping,
            AVG(CASE WHEN status = 'success' THEN download_mbps ELSE NULL END) as avg_download,
            AVG(CASE WHEN status = 'success' THEN upload_mbps ELSE NULL END) as avg_upload,
            ROUND((SUM(CASE WHEN status != 'success' THEN 1 ELSE 0 END) * 100.0 / COUNT(*)), 2) as failure_rate,
            COUNT(DISTINCT strftime('%Y-%m-%d', timestamp)) as days_with_data
        FROM measurements
        WHERE ? <= 0 OR timestamp > datetime('now', 'localtime', '-' || ? || ' days')
        GROUP BY hour
        ORDER BY hour
    `

	rows, err := db.Query(query, days, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := []models.HourlyPattern{}
	for rows.Next() {
		var p models.HourlyPattern
		var avgPing, maxPing, avgDown, avgUp sql.NullFloat64
		err := rows.Scan(&p.Hour, &p.TotalTests, &p.FailedTests, &avgPing, &maxPing,
			&avgDown, &avgUp, &p.FailureRate, &p.DaysWithData)
		if err != nil {
			continue
		}
		p.AvgPing = avgPing.Float64
		p.MaxPing = maxPing.Float64
		p.AvgDownload = avgDown.Float64
		p.AvgUpload = avgUp.Float64
		patterns = append(patterns, p)
	}

	return patterns, rows.Err()
}

// StatusCounts returns how many indexed rows carry each status
func (db *DB) StatusCounts() ([]models.StatusCount, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM measurements GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			continue
		}
		counts[models.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := []models.StatusCount{}
	for _, s := range models.Statuses {
		if n := counts[s]; n > 0 {
			result = append(result, models.StatusCount{Status: s, Count: n})
		}
	}
	return result, nil
}
