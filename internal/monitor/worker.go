package monitor

import (
	"context"
	"time"
)

// Run collects immediately and then again interval after each collection
// finishes, until ctx is cancelled. Cancellation is not an error; a failed
// append is, and stops the loop. A non-positive interval uses the
// configured one.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.config.Interval()
	}
	if err := m.log.EnsureInitialized(); err != nil {
		return err
	}

	m.logger.Infof("Collecting every %v", interval)
	defer m.logger.Info("Collection stopped")

	for {
		if _, err := m.CollectOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		m.logger.Infof("Next measurement in %v", interval)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}
