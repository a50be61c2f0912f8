// Command netquality samples network quality with an external speed-test
// utility, appends the results to a CSV log and serves reports over it.
package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"network-quality/internal/config"
)

//go:embed static/*
var staticFiles embed.FS

// app carries what every subcommand needs once the configuration is loaded
type app struct {
	flags  config.Flags
	cfg    config.Config
	logger *logrus.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "netquality",
		Short:        "Collect and visualize network quality measurements",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			return a.init(cmd)
		},
	}
	a.flags.Register(root.PersistentFlags())

	root.AddCommand(
		a.onceCommand(),
		a.continuousCommand(),
		a.showCommand(),
		a.statsCommand(),
		a.reportCommand(),
		a.serveCommand(),
	)
	return root
}

// init loads the configuration and builds the logger
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.flags.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	a.cfg = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logrus.New()
	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetLevel(level)
	a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func staticFS() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}
