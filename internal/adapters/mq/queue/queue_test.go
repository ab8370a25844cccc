package queue_test

import (
	"context"
	"testing"

	queue "github.com/redflagduel/arena/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity two", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When records fit", func() {
			So(q.Enqueue(ctx, queue.Record{ID: "v1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Record{ID: "v2"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then a full queue refuses instead of blocking", func() {
				So(q.Enqueue(ctx, queue.Record{ID: "v3"}), ShouldBeFalse)
			})

			Convey("Then dequeue yields records in order", func() {
				rec := <-q.Dequeue(ctx)
				So(rec.ID, ShouldEqual, "v1")
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, queue.Record{ID: "v1"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue refuses and buffered records still drain", func() {
				So(q.Enqueue(ctx, queue.Record{ID: "late"}), ShouldBeFalse)

				rec, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(rec.ID, ShouldEqual, "v1")

				_, ok = <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing twice is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
