package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/axelvallin-balder/schedule-builder-sub001/app"
	"github.com/axelvallin-balder/schedule-builder-sub001/config"
	"github.com/axelvallin-balder/schedule-builder-sub001/infra/logger"
)

var (
	cfgPath      string
	fixturesPath string
)

var rootCmd = &cobra.Command{
	Use:   "schedule-engine",
	Short: "Collaborative scheduling engine",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&fixturesPath, "fixtures", "f", "", "fixture file with teachers, courses and lessons")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var fx app.Fixtures
	if fixturesPath != "" {
		fx, err = app.LoadFixtures(fixturesPath)
		if err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
	}
	svc, err := app.New(cfg, fx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
