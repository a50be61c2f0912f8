package models

import "time"

// Status is the outcome of a single collection attempt
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// NotAvailable fills the server fields of records that carry no measurement
const NotAvailable = "N/A"

// Statuses lists every status in reporting order
var Statuses = []Status{StatusSuccess, StatusFailed, StatusTimeout, StatusError}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusTimeout, StatusError:
		return true
	}
	return false
}

// Record represents one row of the measurement log
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	PingMs         float64   `json:"ping_ms"`
	DownloadMbps   float64   `json:"download_mbps"`
	UploadMbps     float64   `json:"upload_mbps"`
	ServerName     string    `json:"server_name"`
	ServerLocation string    `json:"server_location"`
	Status         Status    `json:"status"`
}

// FailedRecord builds a record for an unsuccessful attempt.
// All numeric fields are zero and both server fields are "N/A".
func FailedRecord(ts time.Time, status Status) Record {
	return Record{
		Timestamp:      ts,
		ServerName:     NotAvailable,
		ServerLocation: NotAvailable,
		Status:         status,
	}
}

// OK reports whether the record holds a successful measurement
func (r Record) OK() bool {
	return r.Status == StatusSuccess
}
