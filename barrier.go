package main

import (
	"sync"

	"github.com/pdbj/sst-phold/core"
)

// windowBarrier coordinates the partition workers. Each round is two
// lockstep steps: a plain rendezvous once every worker has finished
// its window's sends, then a proposal step where each worker publishes
// its queue-head time and the barrier elects the next global window
// bound or declares the run finished.
//
// Workers call rendezvous and propose strictly alternately, so one
// generation counter serves both steps.
type windowBarrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int

	lookahead core.Time
	stop      core.Time
	tokens    *tokenPool

	err     error
	arrived int
	gen     uint64
	minNext core.Time

	// decision of the last completed proposal step
	bound core.Time
	done  bool
}

func newWindowBarrier(parties int, lookahead, stop core.Time, tokens *tokenPool) *windowBarrier {
	b := &windowBarrier{
		parties:   parties,
		lookahead: lookahead,
		stop:      stop,
		tokens:    tokens,
		minNext:   core.MaxTime,
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// rendezvous blocks until every worker has arrived, or a fault has
// been published.
func (b *windowBarrier) rendezvous() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return b.err
	}
	for b.gen == gen && b.err == nil {
		b.cond.Wait()
	}
	return b.err
}

// propose publishes this worker's earliest pending arrival and blocks
// until the round's decision: the next window bound, or done.
func (b *windowBarrier) propose(next core.Time) (core.Time, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, false, b.err
	}
	if next < b.minNext {
		b.minNext = next
	}
	gen := b.gen
	b.arrived++
	if b.arrived == b.parties {
		b.decide()
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return b.bound, b.done, nil
	}
	for b.gen == gen && b.err == nil {
		b.cond.Wait()
	}
	if b.err != nil {
		return 0, false, b.err
	}
	return b.bound, b.done, nil
}

// decide closes a proposal round. The run is over once every LP has
// released its do-not-end token and no event below the stop time can
// remain, or once the queues have drained completely.
func (b *windowBarrier) decide() {
	min := b.minNext
	b.minNext = core.MaxTime
	switch {
	case min == core.MaxTime:
		b.done = true
	case b.tokens.outstanding() == 0 && min >= b.stop:
		b.done = true
	default:
		b.done = false
		b.bound = min + b.lookahead
	}
}

// fail publishes a fatal error and wakes every waiting worker. The
// first error wins; later ones are dropped.
func (b *windowBarrier) fail(err error) {
	b.mu.Lock()
	if b.err == nil {
		b.err = err
	}
	b.cond.Broadcast()
	b.mu.Unlock()
}
