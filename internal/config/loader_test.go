package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/duoquiz/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

// clearConfigEnvVars unsets every variable the loader reads.
func clearConfigEnvVars() {
	for _, k := range []string{
		config.EnvConfigFile,
		"DUOQUIZ_ADDR", "DUOQUIZ_PUBLIC_URL", "DUOQUIZ_LOG_LEVEL", "DUOQUIZ_LOG_FORMAT",
		"DUOQUIZ_MAX_RETRIES", "DUOQUIZ_RETRY_DELAY_MS", "DUOQUIZ_AUTO_START",
		"DUOQUIZ_SEND_BUFFER", "DUOQUIZ_INBOX_SIZE", "DUOQUIZ_FOLLOWUP_COUNT",
		"DUOQUIZ_CONTRAST_MIN_DIFF",
	} {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given the config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()
		ctx := context.Background()

		convey.Convey("When nothing is set", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, `
addr: ":7000"
max_retries: 3
retry_delay_ms: 250
send_buffer: 8
contrast_min_diff: 10
`)
			_ = os.Setenv(config.EnvConfigFile, path)
			_ = os.Setenv("DUOQUIZ_ADDR", ":7100")
			_ = os.Setenv("DUOQUIZ_AUTO_START", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7100")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 3)
				convey.So(cfg.RetryDelayMS, convey.ShouldEqual, 250)
				convey.So(cfg.SendBuffer, convey.ShouldEqual, 8)
				convey.So(cfg.AutoStart, convey.ShouldBeFalse)
				convey.So(cfg.Thresholds().ContrastMinDiff, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			path := createTempConfigFile(t, "# only one key\nfollowup_count: 2\n")
			_ = os.Setenv(config.EnvConfigFile, path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.FollowupCount, convey.ShouldEqual, 2)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.InboxSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When loading config with numeric environment variables", func() {
			_ = os.Setenv("DUOQUIZ_INBOX_SIZE", "128")
			_ = os.Setenv("DUOQUIZ_MAX_RETRIES", "5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse numeric values correctly", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.InboxSize, convey.ShouldEqual, 128)
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, "addr: [unterminated\n")
			_ = os.Setenv(config.EnvConfigFile, path)

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DUOQUIZ_INBOX_SIZE", "lots")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with a negative retry budget", func() {
			_ = os.Setenv("DUOQUIZ_MAX_RETRIES", "-1")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with empty addr in YAML", func() {
			path := createTempConfigFile(t, "addr: \"\"\n")
			_ = os.Setenv(config.EnvConfigFile, path)

			_, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
