package repository_test

import (
	"context"
	"sync"
	"testing"

	repository "github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStoreElements(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When an element is created", func() {
			e := element.New("el-1", "Il répond à ton ex", element.CategoryCouple)
			So(store.CreateElement(ctx, e), ShouldBeNil)

			Convey("Then it can be fetched back", func() {
				got, err := store.GetElement(ctx, "el-1")
				So(err, ShouldBeNil)
				So(got.Label, ShouldEqual, e.Label)
			})

			Convey("Then creating the same id again fails", func() {
				err := store.CreateElement(ctx, e)
				So(err, ShouldWrap, repository.ErrAlreadyExists)
			})

			Convey("And it is deactivated", func() {
				So(store.DeactivateElement(ctx, "el-1"), ShouldBeNil)

				Convey("Then active listings skip it but direct reads still see it", func() {
					active, err := store.ListElements(ctx, true, "")
					So(err, ShouldBeNil)
					So(active, ShouldBeEmpty)

					got, err := store.GetElement(ctx, "el-1")
					So(err, ShouldBeNil)
					So(got.Active, ShouldBeFalse)
				})
			})
		})

		Convey("When listing with a category filter", func() {
			So(store.CreateElement(ctx, element.New("c1", "couple", element.CategoryCouple)), ShouldBeNil)
			So(store.CreateElement(ctx, element.New("b1", "bureau", element.CategoryBureau)), ShouldBeNil)

			out, err := store.ListElements(ctx, true, element.CategoryBureau)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].ID, ShouldEqual, "b1")
		})

		Convey("When fetching an unknown id", func() {
			_, err := store.GetElement(ctx, "ghost")
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})
}

func TestMemoryStoreApplyVote(t *testing.T) {
	Convey("Given a store with two active elements", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		So(store.CreateElement(ctx, element.New("w", "winner", element.CategoryCouple)), ShouldBeNil)
		So(store.CreateElement(ctx, element.New("l", "loser", element.CategoryCouple)), ShouldBeNil)

		Convey("When a vote mutation runs", func() {
			w, l, err := store.ApplyVote(ctx, "w", "l", func(w, l *element.Element) error {
				w.Global.Score += 20
				l.Global.Score -= 20
				return nil
			})

			Convey("Then both updated copies come back and persist", func() {
				So(err, ShouldBeNil)
				So(w.Global.Score, ShouldEqual, 1020)
				So(l.Global.Score, ShouldEqual, 980)

				got, err := store.GetElement(ctx, "w")
				So(err, ShouldBeNil)
				So(got.Global.Score, ShouldEqual, 1020)
			})
		})

		Convey("When the mutation fails", func() {
			_, _, err := store.ApplyVote(ctx, "w", "l", func(w, l *element.Element) error {
				w.Global.Score = -9999
				return repository.ErrInactive
			})

			Convey("Then nothing is persisted", func() {
				So(err, ShouldNotBeNil)
				got, gerr := store.GetElement(ctx, "w")
				So(gerr, ShouldBeNil)
				So(got.Global.Score, ShouldEqual, element.DefaultScore)
			})
		})

		Convey("When one side is deactivated", func() {
			So(store.DeactivateElement(ctx, "l"), ShouldBeNil)
			_, _, err := store.ApplyVote(ctx, "w", "l", func(w, l *element.Element) error { return nil })
			So(err, ShouldWrap, repository.ErrInactive)
		})

		Convey("When many votes race on the same pair", func() {
			const voters = 50
			var wg sync.WaitGroup
			wg.Add(voters)
			for i := 0; i < voters; i++ {
				go func() {
					defer wg.Done()
					_, _, _ = store.ApplyVote(ctx, "w", "l", func(w, l *element.Element) error {
						w.Global.Participations++
						l.Global.Participations++
						return nil
					})
				}()
			}
			wg.Wait()

			Convey("Then no update is lost", func() {
				got, err := store.GetElement(ctx, "w")
				So(err, ShouldBeNil)
				So(got.Global.Participations, ShouldEqual, voters)
			})
		})
	})
}

func TestMemoryStoreStars(t *testing.T) {
	Convey("Given a store with starred pairs", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		key := element.NewPairKey("a", "b")

		for i := 0; i < 3; i++ {
			n, err := store.StarPair(ctx, key)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, i+1)
		}
		_, err := store.StarPair(ctx, element.NewPairKey("c", "d"))
		So(err, ShouldBeNil)

		Convey("Then the threshold listing keeps only well-starred pairs", func() {
			out, err := store.ListStarredPairs(ctx, 3)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].Key, ShouldEqual, key)
			So(out[0].Stars, ShouldEqual, 3)
		})
	})
}

func TestMemoryStoreSubmissions(t *testing.T) {
	Convey("Given a store with a small submission cap", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithSubmissionCap(3))

		for _, id := range []string{"s1", "s2", "s3", "s4"} {
			So(store.AddSubmission(ctx, verdict.Submission{ID: id, Color: verdict.ColorGreen}), ShouldBeNil)
		}

		Convey("Then the oldest entry is trimmed and listing is newest first", func() {
			out, err := store.ListSubmissions(ctx, 10)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 3)
			So(out[0].ID, ShouldEqual, "s4")
			So(out[2].ID, ShouldEqual, "s2")
		})

		Convey("Then a tighter limit trims the tail", func() {
			out, err := store.ListSubmissions(ctx, 1)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].ID, ShouldEqual, "s4")
		})
	})
}
