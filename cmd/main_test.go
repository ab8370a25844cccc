package main

import (
	"context"
	"testing"

	"github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/config"
	"github.com/redflagduel/arena/internal/domain/verdict"
	"github.com/smartystreets/goconvey/convey"
)

func TestBackendSelection(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("Then the store defaults to memory", func() {
			store, err := buildStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			_, ok := store.(*repository.MemoryStore)
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("Then sessions default to memory", func() {
			sessions, err := buildSessions(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			_, ok := sessions.(*sessionstore.MemorySessions)
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("Then the judge defaults to the heuristic", func() {
			j := buildJudge(cfg)
			_, ok := j.(*verdict.HeuristicJudge)
			convey.So(ok, convey.ShouldBeTrue)
		})
	})
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("ARENA_ADDR", ":8088")
		t.Setenv("ARENA_JOURNAL_WORKERS", "8")

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the loaded config reflects them", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
			convey.So(cfg.JournalWorkers, convey.ShouldEqual, 8)
		})
	})
}
