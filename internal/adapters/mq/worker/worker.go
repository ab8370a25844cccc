// Package worker drains the vote journal queue into the persistent store.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/redflagduel/arena/internal/adapters/mq/queue"
	"github.com/redflagduel/arena/internal/domain/model"
	"github.com/redflagduel/arena/pkg/logger"
	"github.com/redflagduel/arena/pkg/metrics"
)

// defaultWorkerCount suits the write volume of a voting game; journaling is
// I/O bound, not CPU bound.
const defaultWorkerCount = 4

// stopTimeout bounds how long Stop waits for the backlog to drain before
// cancelling the workers outright.
const stopTimeout = 5 * time.Second

// Journal is where drained vote records land.
type Journal interface {
	AppendVote(ctx context.Context, rec model.VoteRecord) error
}

// Source is how workers receive records.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Record
	Len(ctx context.Context) int
}

// Pool runs a fixed set of journal workers.
type Pool struct {
	count   int
	source  Source
	journal Journal
	log     logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkerCount sets the number of drain goroutines.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPool creates a journal worker pool.
func NewPool(source Source, journal Journal, opts ...Option) *Pool {
	p := &Pool{
		count:   defaultWorkerCount,
		source:  source,
		journal: journal,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get().Named("journal")
	}
	return p
}

// Start launches the workers. They run until Stop or queue close.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

// Stop waits for the workers to drain what is already buffered. Close the
// source first so the workers exit on channel close; cancellation kicks in
// only after stopTimeout.
func (p *Pool) Stop() {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		if p.cancel != nil {
			p.cancel()
		}
		<-done
	}
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	records := p.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			if err := p.journal.AppendVote(ctx, rec); err != nil {
				metrics.RecordJournalError()
				p.log.Error(ctx, "failed to journal vote",
					logger.String("vote_id", rec.ID),
					logger.Error(err),
				)
			}
			metrics.UpdateJournalQueueSize(p.source.Len(ctx))
		}
	}
}
