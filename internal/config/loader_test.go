package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/banquet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BANQUET_ADDR", ":8080")
			_ = os.Setenv("BANQUET_BATCH_WORKERS", "16")
			_ = os.Setenv("BANQUET_MAX_BATCH_SIZE", "50")
			_ = os.Setenv("BANQUET_DEFAULT_RULES_ID", "summer")
			_ = os.Setenv("BANQUET_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchWorkers, convey.ShouldEqual, 16)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 50)
				convey.So(cfg.DefaultRulesID, convey.ShouldEqual, "summer")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(1<<20))
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
# service
addr: ":9090"  # inline
rules_file: /etc/banquet/rules.yaml
batch_workers: 24
max_body_bytes: 2048
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BANQUET_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RulesFile, convey.ShouldEqual, "/etc/banquet/rules.yaml")
				convey.So(cfg.BatchWorkers, convey.ShouldEqual, 24)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(2048))
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 500)
				convey.So(cfg.DefaultRulesID, convey.ShouldEqual, "default")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
batch_workers: 24
max_batch_size: 100
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BANQUET_CONFIG", tmpFile)
			_ = os.Setenv("BANQUET_ADDR", ":8080")
			_ = os.Setenv("BANQUET_BATCH_WORKERS", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchWorkers, convey.ShouldEqual, 32)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BANQUET_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BANQUET_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BANQUET_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-positive limits", func() {
			_ = os.Setenv("BANQUET_BATCH_WORKERS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject them", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "batch_workers")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("BANQUET_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should reject it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"BANQUET_CONFIG",
		"BANQUET_ADDR",
		"BANQUET_LOG_LEVEL",
		"BANQUET_LOG_FORMAT",
		"BANQUET_RULES_FILE",
		"BANQUET_DEFAULT_RULES_ID",
		"BANQUET_BATCH_WORKERS",
		"BANQUET_MAX_BATCH_SIZE",
		"BANQUET_MAX_BODY_BYTES",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "banquet-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
