// Package speedtest runs the external speed-test utility and turns its
// output, or its failure, into a measurement record.
package speedtest

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"network-quality/internal/config"
	"network-quality/internal/models"
)

// waitDelay bounds how long we wait for the utility's pipes after it is killed
const waitDelay = 5 * time.Second

// Runner implements models.Producer on top of a speed-test subprocess
type Runner struct {
	command string
	args    []string
	timeout time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

// New creates a Runner from the speed-test settings
func New(cfg config.SpeedtestConfig, logger *logrus.Logger) *Runner {
	return &Runner{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.Timeout(),
		logger:  logger,
		now:     time.Now,
	}
}

var _ models.Producer = (*Runner)(nil)

// Measure runs the utility once. Every failure of the utility is folded into
// the status of the returned record. An error is returned only when ctx is
// cancelled before the utility finished; the record then has status error.
func (r *Runner) Measure(ctx context.Context) (models.Record, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.WithField("command", r.command).Debug("Running speed test")

	cmd := exec.CommandContext(runCtx, r.command, r.args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	ts := r.now()

	if err != nil && ctx.Err() != nil {
		r.logger.WithField("stderr", strings.TrimSpace(stderr.String())).Warnf("Speed test interrupted: %v", err)
		return models.FailedRecord(ts, models.StatusError), ctx.Err()
	}
	if err != nil {
		status := classify(runCtx, err)
		r.logger.WithFields(logrus.Fields{
			"status": status,
			"stderr": strings.TrimSpace(stderr.String()),
		}).Warnf("Speed test did not complete: %v", err)
		return models.FailedRecord(ts, status), nil
	}

	res, err := parseResult(output)
	if err != nil {
		r.logger.WithField("status", models.StatusError).Warnf("Speed test output unusable: %v", err)
		return models.FailedRecord(ts, models.StatusError), nil
	}
	return res.record(ts), nil
}

// classify maps a subprocess error to a failure status
func classify(run context.Context, err error) models.Status {
	if errors.Is(run.Err(), context.DeadlineExceeded) {
		return models.StatusTimeout
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return models.StatusFailed
	}
	return models.StatusError
}
