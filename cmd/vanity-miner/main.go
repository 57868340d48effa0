package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/screa/vanity-miner/internal/config"
	logpkg "github.com/screa/vanity-miner/internal/logger"
	minerpkg "github.com/screa/vanity-miner/pkg/miner"
	"github.com/screa/vanity-miner/pkg/progress"
	"github.com/screa/vanity-miner/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vanity-miner",
		Short: "Ethereum vanity address generator",
		Long: `Generates random secp256k1 keys in parallel until the derived
Ethereum address starts and/or ends with the requested hex characters.`,
		SilenceUsage: true,
		RunE:         runMiner,
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of worker goroutines (default: logical CPUs)")
	rootCmd.Flags().IntVarP(&cfg.Quantity, "quantity", "q", 1, "Number of addresses to generate")
	rootCmd.Flags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Address prefix to match (hex, case-insensitive)")
	rootCmd.Flags().StringVarP(&cfg.Suffix, "suffix", "s", "", "Address suffix to match (hex, case-insensitive)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Verbose logging interval in seconds")
	rootCmd.Flags().DurationVarP(&cfg.Timeout, "timeout", "T", 0, "Give up after this long (0 = no limit)")
	rootCmd.Flags().BoolVarP(&cfg.Checksum, "checksum", "c", false, "Print addresses in EIP-55 checksum case")
	rootCmd.Flags().BoolVar(&cfg.NoProgress, "no-progress", false, "Disable the progress spinner")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMiner(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogging(); err != nil {
		return err
	}
	logger.Printf("Using %d workers", cfg.Workers)
	logger.Printf("Target: %s", cfg.GetTargetDescription())

	// Ctrl+C or SIGTERM cancels ctx; the miner turns that into its stop flag
	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	go func() {
		<-ctx.Done()
		// restore default handling so a second Ctrl+C kills the process
		stopSignals()
	}()

	miner := minerpkg.NewMiner(cfg, logger)
	stopProgress := startProgress(miner)
	result, err := miner.Run(ctx)
	stopProgress()

	if result != nil && len(result.KeyPairs) > 0 {
		printResult(os.Stdout, result, cfg.Checksum)
	}
	return runError(logger, cfg, result, err)
}

// startProgress draws a spinner on stderr until the returned func is called
func startProgress(miner *minerpkg.Miner) func() {
	if cfg.NoProgress {
		return func() {}
	}

	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	reporter := progress.New(miner, progress.DefaultInterval, func(s types.Snapshot) {
		bar.Describe(describeProgress(s))
		_ = bar.Set64(int64(s.Attempts))
	})
	go func() {
		defer close(done)
		reporter.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
		_ = bar.Finish()
	}
}

func setupLogging() error {
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(logpkg.LstdFlags)
	}
	logger.SetVerbose(cfg.Verbose)
	return nil
}
