// Package config defines process configuration and its loading.
package config

import (
	"time"

	"github.com/okian/duoquiz/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the host HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// PublicURL is the address guests dial. Derived from Addr when empty.
	PublicURL string `koanf:"public_url"`

	// MaxRetries bounds consecutive failed connection attempts. 0 retries forever.
	MaxRetries int `koanf:"max_retries"`
	// RetryDelayMS is the constant delay between attempts.
	RetryDelayMS int `koanf:"retry_delay_ms"`
	// AutoStart connects as soon as the session id is known.
	AutoStart bool `koanf:"auto_start"`
	// SendBuffer holds messages sent while disconnected. 0 drops them.
	SendBuffer int `koanf:"send_buffer"`
	// InboxSize bounds the inbound frame queue.
	InboxSize int `koanf:"inbox_size"`

	// FollowupCount is how many follow-up questions a participant gets.
	FollowupCount int `koanf:"followup_count"`
	// DedupeSize bounds the pair computation gate.
	DedupeSize int `koanf:"dedupe_size"`

	SyncTightMaxDiff        int `koanf:"sync_tight_max_diff"`
	ComplementInitiativeGap int `koanf:"complement_initiative_gap"`
	ContrastMinDiff         int `koanf:"contrast_min_diff"`
	DriftInitiativeGap      int `koanf:"drift_initiative_gap"`
}

// New creates a Config with defaults.
func New() *Config {
	t := scoring.DefaultThresholds()
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		MaxRetries:              0,
		RetryDelayMS:            1500,
		AutoStart:               true,
		SendBuffer:              0,
		InboxSize:               64,
		FollowupCount:           scoring.DefaultFollowupCount,
		DedupeSize:              4096,
		SyncTightMaxDiff:        t.SyncTightMaxDiff,
		ComplementInitiativeGap: t.ComplementInitiativeGap,
		ContrastMinDiff:         t.ContrastMinDiff,
		DriftInitiativeGap:      t.DriftInitiativeGap,
	}
}

// RetryDelay returns RetryDelayMS as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// Thresholds returns the match thresholds for the scoring engine.
func (c *Config) Thresholds() scoring.MatchThresholds {
	return scoring.MatchThresholds{
		SyncTightMaxDiff:        c.SyncTightMaxDiff,
		ComplementInitiativeGap: c.ComplementInitiativeGap,
		ContrastMinDiff:         c.ContrastMinDiff,
		DriftInitiativeGap:      c.DriftInitiativeGap,
	}
}
