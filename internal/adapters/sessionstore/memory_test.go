package sessionstore_test

import (
	"context"
	"testing"

	sessionstore "github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/domain/element"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemorySessions(t *testing.T) {
	Convey("Given an empty session store", t, func() {
		ctx := context.Background()
		store := sessionstore.NewMemorySessions()
		profile := element.Profile{Sex: element.SexMale, Age: element.Age18To24}

		Convey("When a session is created", func() {
			l, err := store.Create(ctx, profile)
			So(err, ShouldBeNil)
			So(l.ID, ShouldNotBeBlank)

			Convey("Then it can be loaded back", func() {
				got, err := store.Get(ctx, l.ID)
				So(err, ShouldBeNil)
				So(got.Profile, ShouldResemble, profile)
			})

			Convey("Then mutating a loaded copy does not leak into the store", func() {
				got, err := store.Get(ctx, l.ID)
				So(err, ShouldBeNil)
				got.RecordVote("a", "b", true)

				again, err := store.Get(ctx, l.ID)
				So(err, ShouldBeNil)
				So(again.DuelCount, ShouldEqual, 0)
			})

			Convey("When the mutated copy is saved", func() {
				got, err := store.Get(ctx, l.ID)
				So(err, ShouldBeNil)
				got.RecordVote("a", "b", true)
				So(store.Save(ctx, got), ShouldBeNil)

				Convey("Then the next load sees the vote", func() {
					again, err := store.Get(ctx, l.ID)
					So(err, ShouldBeNil)
					So(again.DuelCount, ShouldEqual, 1)
					So(again.Streak, ShouldEqual, 1)
				})
			})

			Convey("When the session is deleted", func() {
				So(store.Delete(ctx, l.ID), ShouldBeNil)

				_, err := store.Get(ctx, l.ID)
				So(err, ShouldWrap, sessionstore.ErrSessionNotFound)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When an invalid profile is declared", func() {
			_, err := store.Create(ctx, element.Profile{Sex: "unknown", Age: element.Age18To24})
			So(err, ShouldWrap, sessionstore.ErrInvalidProfile)
		})

		Convey("When loading an unknown session", func() {
			_, err := store.Get(ctx, "nope")
			So(err, ShouldWrap, sessionstore.ErrSessionNotFound)
		})

		Convey("When saving an unknown session", func() {
			ghost, err := store.Create(ctx, profile)
			So(err, ShouldBeNil)
			So(store.Delete(ctx, ghost.ID), ShouldBeNil)
			So(store.Save(ctx, ghost), ShouldWrap, sessionstore.ErrSessionNotFound)
		})
	})
}
