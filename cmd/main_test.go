package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rivals/internal/config"
	"github.com/okian/rivals/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() { //nolint:gochecknoinits // test logger
	_ = logger.Init()
}

func memoryConfig() *config.Config {
	cfg := config.New(context.Background())
	cfg.StorageDriver = config.DriverMemory
	cfg.StorageDSN = ""
	cfg.Timezone = "UTC"
	cfg.RandomSeed = 7
	return cfg
}

func TestOpenService(t *testing.T) {
	convey.Convey("Given a memory-backed configuration", t, func() {
		ctx := context.Background()
		cfg := memoryConfig()

		convey.Convey("When the service is opened", func() {
			svc, cleanup, err := openService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer cleanup()

			convey.Convey("Then it serves the default roster", func() {
				entries, err := svc.Leaderboard(ctx, 10)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 6)
			})

			convey.Convey("Then the clock is not accelerated", func() {
				convey.So(svc.Clock().Enabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When acceleration is configured", func() {
			cfg.Accelerated = true
			svc, cleanup, err := openService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer cleanup()

			convey.So(svc.Clock().Enabled, convey.ShouldBeTrue)
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.StorageDriver = "redis"
			_, _, err := openService(ctx, cfg)

			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestPrintStatus(t *testing.T) {
	convey.Convey("Given a fresh service", t, func() {
		ctx := context.Background()
		svc, cleanup, err := openService(ctx, memoryConfig())
		convey.So(err, convey.ShouldBeNil)
		defer cleanup()

		var buf bytes.Buffer
		err = printStatus(ctx, &buf, svc, 3)

		convey.So(err, convey.ShouldBeNil)
		out := buf.String()
		convey.So(out, convey.ShouldContainSubstring, "Accelerated:  false")
		convey.So(out, convey.ShouldContainSubstring, "Weekly task:  absent")
		convey.So(out, convey.ShouldContainSubstring, " 1. ")
		convey.So(out, convey.ShouldNotContainSubstring, " 4. ")
	})
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		dir := t.TempDir()
		_ = os.Setenv("RIVALS_STORAGE_DRIVER", "sqlite")
		_ = os.Setenv("RIVALS_STORAGE_DSN", filepath.Join(dir, "rivals.db"))
		_ = os.Setenv("RIVALS_TIMEZONE", "UTC")
		defer func() {
			_ = os.Unsetenv("RIVALS_STORAGE_DRIVER")
			_ = os.Unsetenv("RIVALS_STORAGE_DSN")
			_ = os.Unsetenv("RIVALS_TIMEZONE")
		}()

		run := func(args ...string) (string, error) {
			root := newRootCmd()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(args)
			err := root.ExecuteContext(context.Background())
			return out.String(), err
		}

		convey.Convey("When status runs", func() {
			out, err := run("status", "-n", "6")

			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "You")
			convey.So(out, convey.ShouldContainSubstring, "Maya")
		})

		convey.Convey("When reset runs without confirmation", func() {
			_, err := run("reset")

			convey.So(errors.Is(err, errNotConfirmed), convey.ShouldBeTrue)
		})

		convey.Convey("When reset runs with confirmation", func() {
			out, err := run("reset", "--yes")

			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "All data cleared.")
		})

		convey.Convey("When the version is requested", func() {
			out, err := run("--version")

			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "rivals v"+Version)
		})
	})
}
