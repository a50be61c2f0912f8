package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"network-quality/internal/csvlog"
	"network-quality/internal/database"
	"network-quality/internal/monitor"
	"network-quality/internal/report"
	"network-quality/internal/speedtest"
	"network-quality/internal/web"
)

// positiveArg parses args[0] as a positive integer, or returns fallback when
// no argument was given
func positiveArg(args []string, name string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, args[0])
	}
	return n, nil
}

// positionalInt validates an optional positive integer argument before any
// work is done
func positionalInt(name string) cobra.PositionalArgs {
	return cobra.MatchAll(cobra.MaximumNArgs(1), func(_ *cobra.Command, args []string) error {
		_, err := positiveArg(args, name, 1)
		return err
	})
}

func (a *app) monitor() (*monitor.Monitor, *csvlog.Log) {
	log := csvlog.New(a.cfg.LogPath)
	runner := speedtest.New(a.cfg.Speedtest, a.logger)
	return monitor.New(a.cfg, log, runner, a.logger), log
}

func (a *app) onceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run one speed test and append the result to the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mon, log := a.monitor()
			if err := log.EnsureInitialized(); err != nil {
				return err
			}
			if _, err := mon.CollectOnce(cmd.Context()); err != nil {
				if errors.Is(err, context.Canceled) {
					a.logger.Info("Interrupted, nothing recorded")
					return nil
				}
				return err
			}
			return nil
		},
	}
}

func (a *app) continuousCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "continuous [minutes]",
		Short: "Collect measurements at a fixed interval until interrupted",
		Args:  positionalInt("minutes"),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := positiveArg(args, "minutes", a.cfg.IntervalMinutes)
			if err != nil {
				return err
			}
			mon, _ := a.monitor()
			return mon.Run(cmd.Context(), time.Duration(minutes)*time.Minute)
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [count]",
		Short: "Print the most recent measurements",
		Args:  positionalInt("count"),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := positiveArg(args, "count", 10)
			if err != nil {
				return err
			}
			records, err := csvlog.New(a.cfg.LogPath).ReadTail(count)
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics, quality grades and advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := csvlog.New(a.cfg.LogPath).ReadAll()
			if err != nil {
				return err
			}
			return report.WriteSummary(cmd.OutOrStdout(), records, time.Now())
		},
	}
}

func (a *app) reportCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write PNG charts and a text summary to the report directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				return fmt.Errorf("days must be a positive integer, got %d", days)
			}
			gen := report.NewGenerator(csvlog.New(a.cfg.LogPath), a.logger)
			dir, err := gen.GenerateReport(a.cfg.ReportDir, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", dir)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days covered by the time series charts")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	var addr string
	var collect bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Web.Addr = addr
			}
			return a.serve(cmd.Context(), collect)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides web.addr)")
	cmd.Flags().BoolVar(&collect, "collect", false, "also collect measurements in the background")
	return cmd
}

func (a *app) serve(ctx context.Context, collect bool) error {
	db, err := database.New(a.cfg.Web.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		return err
	}

	static, err := staticFS()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mon, log := a.monitor()
	collectErr := make(chan error, 1)
	if collect {
		go func() {
			err := mon.Run(ctx, 0)
			if err != nil {
				a.logger.Errorf("Collector stopped: %v", err)
				cancel()
			}
			collectErr <- err
		}()
	} else {
		collectErr <- nil
	}

	server := web.New(a.cfg.Web, log, db, static, a.logger)
	serveErr := server.Run(ctx)
	cancel()

	if err := <-collectErr; err != nil {
		return err
	}
	return serveErr
}
