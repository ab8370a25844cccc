package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/redflagduel/arena/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

// Each scenario lives in its own test function: t.Setenv restores the
// variable at function scope, so a shared TestLoad would leak overrides
// between goconvey branches.

func TestLoadDefaults(t *testing.T) {
	Convey("Given no environment overrides", t, func() {
		ctx := context.Background()

		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)

		Convey("Then the in-process defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.Storage, ShouldEqual, config.StorageMemory)
			So(cfg.Sessions, ShouldEqual, config.SessionsMemory)
			So(cfg.Judge, ShouldEqual, config.JudgeHeuristic)
			So(cfg.JournalQueueSize, ShouldEqual, 10_000)
			So(cfg.JournalWorkers, ShouldEqual, 4)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		ctx := context.Background()
		t.Setenv("ARENA_ADDR", ":9999")
		t.Setenv("ARENA_LOG_LEVEL", "debug")

		cfg, err := config.Load(ctx)
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":9999")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "arena.yaml")
		So(os.WriteFile(path, []byte("addr: \":7070\"\nmax_feed_limit: 42\n"), 0o600), ShouldBeNil)
		t.Setenv("ARENA_CONFIG", path)

		Convey("Then file values layer over defaults", func() {
			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.MaxFeedLimit, ShouldEqual, 42)
			So(cfg.Storage, ShouldEqual, config.StorageMemory)
		})

		Convey("And an env var on top of the file", func() {
			t.Setenv("ARENA_ADDR", ":6060")

			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then env wins over the file", func() {
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})
	})
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	Convey("Given a postgres backend without a DSN", t, func() {
		ctx := context.Background()
		t.Setenv("ARENA_STORAGE", "postgres")

		_, err := config.Load(ctx)
		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestLoadUnknownJudge(t *testing.T) {
	Convey("Given an unknown judge backend", t, func() {
		ctx := context.Background()
		t.Setenv("ARENA_JUDGE", "magic8ball")

		_, err := config.Load(ctx)
		So(err, ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestLoadMissingFile(t *testing.T) {
	Convey("Given a missing config file", t, func() {
		ctx := context.Background()
		t.Setenv("ARENA_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := config.Load(ctx)
		So(err, ShouldWrap, config.ErrLoadConfig)
	})
}
