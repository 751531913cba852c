package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/config"
	"github.com/okian/duoquiz/internal/domain/scoring"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "duoquiz",
		Short:        "Two-person compatibility quiz",
		SilenceUsage: true,
	}
	f := root.PersistentFlags()
	f.String("addr", "", "HTTP listen address for the host")
	f.String("public-url", "", "Address guests dial to reach the host")
	f.Int("max-retries", 0, "Consecutive failed connection attempts before giving up (0 = forever)")
	f.Duration("retry-delay", 0, "Delay between connection attempts")
	f.Int("send-buffer", 0, "Messages held while disconnected (0 = drop)")
	f.Bool("auto-start", true, "Connect as soon as the session id is known")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
	f.String("log-format", "", "Log format (text, json)")

	root.AddCommand(hostCmd(), joinCmd(), resultCmd(), typesCmd(), questionsCmd())
	return root
}

// loadConfig layers command line flags over config.Load and starts logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr, _ = f.GetString("addr")
	}
	if f.Changed("public-url") {
		cfg.PublicURL, _ = f.GetString("public-url")
	}
	if f.Changed("max-retries") {
		cfg.MaxRetries, _ = f.GetInt("max-retries")
	}
	if f.Changed("retry-delay") {
		d, _ := f.GetDuration("retry-delay")
		cfg.RetryDelayMS = int(d.Milliseconds())
	}
	if f.Changed("send-buffer") {
		cfg.SendBuffer, _ = f.GetInt("send-buffer")
	}
	if f.Changed("auto-start") {
		cfg.AutoStart, _ = f.GetBool("auto-start")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("log-format") {
		cfg.LogFormat, _ = f.GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) *scoring.Engine {
	return scoring.NewEngine(scoring.WithThresholds(cfg.Thresholds()))
}

func channelOptions(cfg *config.Config) []pairing.Option {
	return []pairing.Option{
		pairing.WithMaxRetries(cfg.MaxRetries),
		pairing.WithRetryDelay(cfg.RetryDelay()),
		pairing.WithSendBuffer(cfg.SendBuffer),
		pairing.WithInboxSize(cfg.InboxSize),
		pairing.WithLogger(logger.Named("pairing")),
	}
}
