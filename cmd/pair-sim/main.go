package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/duoquiz/internal/config"
	"github.com/okian/duoquiz/internal/domain/scoring"
	"github.com/okian/duoquiz/internal/pairsim"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultPairs   = 200
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 10 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pair-sim",
		Short:        "Run simulated pairings in process and verify both sides agree",
		SilenceUsage: true,
		RunE:         run,
	}
	f := cmd.Flags()
	f.IntP("pairs", "n", defaultPairs, "Number of pairings to run")
	f.IntP("workers", "w", runtime.NumCPU()*defaultWorkers, "Pairings in flight at once")
	f.Duration("timeout", defaultTimeout, "Deadline for each pairing")
	f.Duration("retry-delay", 10*time.Millisecond, "Delay between connection attempts")
	f.Int("followups", scoring.DefaultFollowupCount, "Follow-up questions answered per participant (default from followup_count)")
	f.Int("drop-every", 0, "Sever every Nth link after answers are sent (0 = never)")
	f.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for generated answers")
	f.BoolP("verbose", "v", false, "Log every pairing")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	f := cmd.Flags()
	sim := pairsim.Config{}
	sim.Pairs, _ = f.GetInt("pairs")
	sim.Workers, _ = f.GetInt("workers")
	sim.Timeout, _ = f.GetDuration("timeout")
	sim.RetryDelay, _ = f.GetDuration("retry-delay")
	sim.Followups = cfg.FollowupCount
	if f.Changed("followups") {
		sim.Followups, _ = f.GetInt("followups")
	}
	sim.DropEvery, _ = f.GetInt("drop-every")
	sim.Seed, _ = f.GetUint64("seed")
	sim.Verbose, _ = f.GetBool("verbose")

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTime)
	defer cancel()

	engine := scoring.NewEngine(scoring.WithThresholds(cfg.Thresholds()))
	_, err = pairsim.Run(ctx, sim, engine)
	return err
}
