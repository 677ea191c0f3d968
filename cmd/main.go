package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shrike/category"
	"shrike/config"
	"shrike/logger"
	"shrike/organizer"
	"shrike/report"
)

// Exit codes: 0 clean, 1 completed with per-file failures, 2 could not start.
const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'shrike -h' for usage.")
		return exitUsage
	}

	logger.Init(cfg.LogLevel)

	table := category.NewTable(cfg.Categories)
	org := organizer.New(cfg, table)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	stats, outcomes, err := org.Run(ctx)
	if err != nil {
		var verr *organizer.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", verr)
			return exitUsage
		}
		logger.Errorf("Organization failed: %v", err)
		return exitUsage
	}

	rep := report.Build(cfg.Source, cfg.DestinationRoot(), cfg.DryRun, stats, outcomes)
	rep.Print(os.Stdout)

	if cfg.WriteReport && !cfg.DryRun {
		if path, err := rep.WriteFile(cfg.DestinationRoot()); err != nil {
			logger.Warnf("Failed to persist report: %v", err)
		} else {
			logger.Infof("Report written to %s", path)
		}
	}

	if stats.Failed > 0 {
		return exitFailures
	}
	return exitOK
}

func handleSignals(cancelFunc context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	handleSignalEvent(cancelFunc, sigChan)
}

func handleSignalEvent(cancelFunc context.CancelFunc, sigChan <-chan os.Signal) {
	<-sigChan
	logger.Info("Interrupt signal received. Finishing in-flight moves...")
	cancelFunc()
}
