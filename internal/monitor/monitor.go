package monitor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"network-quality/internal/config"
	"network-quality/internal/models"
)

// Monitor coordinates measurement collection into the log
type Monitor struct {
	config   config.Config
	log      models.RecordLog
	producer models.Producer
	logger   *logrus.Logger
}

// New creates a new Monitor
func New(cfg config.Config, log models.RecordLog, producer models.Producer, logger *logrus.Logger) *Monitor {
	return &Monitor{
		config:   cfg,
		log:      log,
		producer: producer,
		logger:   logger,
	}
}

var _ models.Collector = (*Monitor)(nil)

// CollectOnce runs one measurement and appends it to the log. If ctx is
// cancelled before the measurement finished, nothing is appended and the
// cancellation error is returned. A finished measurement is always appended.
func (m *Monitor) CollectOnce(ctx context.Context) (models.Record, error) {
	m.logger.Info("Starting network measurement")

	record, err := m.producer.Measure(ctx)
	if err != nil {
		return record, err
	}

	if err := m.log.Append(record); err != nil {
		return record, fmt.Errorf("save record: %w", err)
	}

	m.logRecord(record)
	return record, nil
}

func (m *Monitor) logRecord(r models.Record) {
	if !r.OK() {
		m.logger.WithField("status", r.Status).Warn("Measurement failed")
		return
	}
	m.logger.WithFields(logrus.Fields{
		"ping_ms":       r.PingMs,
		"download_mbps": r.DownloadMbps,
		"upload_mbps":   r.UploadMbps,
		"server":        r.ServerLocation,
	}).Info("Measurement saved")
}
