package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/redflagduel/arena/internal/adapters/mq/queue"
	worker "github.com/redflagduel/arena/internal/adapters/mq/worker"
	"github.com/redflagduel/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// captureJournal records appended votes for assertions.
type captureJournal struct {
	mu   sync.Mutex
	recs []model.VoteRecord
	fail bool
}

func (j *captureJournal) AppendVote(ctx context.Context, rec model.VoteRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("journal down")
	}
	j.recs = append(j.recs, rec)
	return nil
}

func (j *captureJournal) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.recs)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestPoolDrains(t *testing.T) {
	Convey("Given a running pool over a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		journal := &captureJournal{}
		pool := worker.NewPool(q, journal, worker.WithWorkerCount(2))
		pool.Start(ctx)

		Convey("When records are enqueued", func() {
			for i := 0; i < 5; i++ {
				So(q.Enqueue(ctx, queue.Record{ID: "v", SessionID: "s"}), ShouldBeTrue)
			}

			Convey("Then every record lands in the journal", func() {
				So(waitFor(func() bool { return journal.count() == 5 }), ShouldBeTrue)
				So(q.Close(), ShouldBeNil)
				pool.Stop()
			})
		})

		Convey("When the queue closes", func() {
			So(q.Enqueue(ctx, queue.Record{ID: "v1"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then workers drain the backlog and exit on their own", func() {
				So(waitFor(func() bool { return journal.count() == 1 }), ShouldBeTrue)
				pool.Stop()
			})
		})

		Convey("When the queue closes with a backlog still buffered", func() {
			for i := 0; i < 12; i++ {
				So(q.Enqueue(ctx, queue.Record{ID: "v", SessionID: "s"}), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)
			pool.Stop()

			Convey("Then no buffered record is dropped on shutdown", func() {
				So(journal.count(), ShouldEqual, 12)
			})
		})
	})

	Convey("Given a journal that rejects writes", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		journal := &captureJournal{fail: true}
		pool := worker.NewPool(q, journal, worker.WithWorkerCount(1))
		pool.Start(ctx)

		So(q.Enqueue(ctx, queue.Record{ID: "doomed"}), ShouldBeTrue)
		So(q.Close(), ShouldBeNil)

		Convey("Then the pool keeps running and stops cleanly", func() {
			So(waitFor(func() bool { return q.Len(ctx) == 0 }), ShouldBeTrue)
			pool.Stop()
			So(journal.count(), ShouldEqual, 0)
		})
	})
}
