package database

import (
	"fmt"

	"network-quality/internal/csvlog"
	"network-quality/internal/models"
)

// Sync mirrors a snapshot of the log into the index and returns how many
// rows were added. Rows are keyed by their position in the log, so syncing
// the same snapshot twice adds nothing. A snapshot shorter than the index
// means the log was edited by hand; the index is then rebuilt.
func (db *DB) Sync(records []models.Record) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	var indexed int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM measurements`).Scan(&indexed); err != nil {
		return 0, fmt.Errorf("count indexed rows: %w", err)
	}
	if indexed > len(records) {
		if _, err := tx.Exec(`DELETE FROM measurements`); err != nil {
			return 0, fmt.Errorf("reset index: %w", err)
		}
		indexed = 0
	}

	stmt, err := tx.Prepare(`
        INSERT OR IGNORE INTO measurements
            (seq, timestamp, ping_ms, download_mbps, upload_mbps, server_name, server_location, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for seq := indexed; seq < len(records); seq++ {
		r := records[seq]
		res, err := stmt.Exec(
			seq,
			r.Timestamp.Format(csvlog.TimeLayout),
			r.PingMs,
			r.DownloadMbps,
			r.UploadMbps,
			r.ServerName,
			r.ServerLocation,
			string(r.Status),
		)
		if err != nil {
			return 0, fmt.Errorf("insert row %d: %w", seq, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sync: %w", err)
	}
	return added, nil
}
