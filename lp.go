package main

import (
	"fmt"
	"sync/atomic"

	"github.com/pdbj/sst-phold/core"
)

// tokenPool counts do-not-end tokens. Every LP holds one from
// construction until it first observes virtual time at or past the
// stop time; the scheduler may not exit by authorization while any
// token is outstanding.
type tokenPool struct {
	n atomic.Int64
}

func (t *tokenPool) hold()              { t.n.Add(1) }
func (t *tokenPool) release()           { t.n.Add(-1) }
func (t *tokenPool) outstanding() int64 { return t.n.Load() }

// LP is one logical process. It owns its random stream, its outgoing
// links (index == own id is the self link), and its counters. LPs
// share no mutable state; everything here is touched only by the
// partition that owns the LP, or by the single-threaded collective
// phases outside the scheduled run.
type LP struct {
	id    int
	cfg   *Config
	links []*Link
	draws *core.Draws

	now        core.Time
	minimum    core.Time
	stop       core.Time
	fixedDelay core.Time // used instead of drawing when cfg.Fixed

	sendCount uint64
	recvCount uint64
	delays    *Histogram

	released bool
	tokens   *tokenPool

	// out-of-band mailbox for collective messages, in wire form
	oob [][]byte
}

func newLP(cfg *Config, id int, tokens *tokenPool) *LP {
	lp := &LP{
		id:      id,
		cfg:     cfg,
		draws:   core.NewDraws(uint64(id), uint64(cfg.Number), cfg.Average),
		minimum: cfg.MinimumTime(),
		stop:    cfg.StopTime(),
		tokens:  tokens,
	}
	if cfg.Fixed {
		lp.fixedDelay = core.TimeFromSeconds(cfg.Average)
	}
	if cfg.DelaysOut {
		lp.delays = NewHistogram()
	}
	tokens.hold()
	return lp
}

// attachLinks wires the outgoing links; links[id] is the self link.
func (lp *LP) attachLinks(links []*Link) {
	lp.links = links
}

// setupAttemptBudget bounds the extra draws Setup may spend looking
// for an event that lands before the stop time.
const setupAttemptBudget = 10000

// Setup emits the initial event population at virtual time zero. At
// least one emitted event must arrive before the stop time so the run
// has work; if every initial draw lands beyond stop, Setup keeps
// drawing against the attempt budget.
func (lp *LP) Setup() error {
	live := false
	for i := 0; i < lp.cfg.Events; i++ {
		if lp.sendEvent() {
			live = true
		}
	}
	for attempts := 0; !live; {
		attempts++
		if attempts > setupAttemptBudget {
			return fmt.Errorf("lp %d: %w after %d extra attempts", lp.id, ErrNoLiveEvent, attempts-1)
		}
		if lp.sendEvent() {
			live = true
		}
	}
	return nil
}

// handlePhold consumes one workload event delivered at time now. The
// event's data has already been extracted by the caller; before the
// stop time the LP counts the receive and emits a successor, at or
// past it the LP releases its do-not-end token.
func (lp *LP) handlePhold(now core.Time) {
	lp.now = now
	if now < lp.stop {
		lp.recvCount++
		lp.sendEvent()
		return
	}
	lp.releaseToken()
}

// releaseToken drops this LP's do-not-end token. Idempotent.
func (lp *LP) releaseToken() {
	if lp.released {
		return
	}
	lp.released = true
	lp.tokens.release()
}

// sendEvent draws the routing coin, the destination, and the delay,
// then emits one event. It reports whether the scheduled arrival
// lands before the stop time; only those events count toward the send
// statistics.
func (lp *LP) sendEvent() bool {
	dest := lp.id
	if lp.draws.Coin() < lp.cfg.Remote {
		dest = int(lp.draws.Dest())
	}
	delay := lp.fixedDelay
	if !lp.cfg.Fixed {
		delay = lp.draws.Delay()
	}
	delayTotal := delay + lp.minimum
	arrival := lp.now + delayTotal

	ev := &core.PholdEvent{SendTime: lp.now, Payload: lp.payload()}
	if dest == lp.id {
		// The self link carries no latency; the minimum rides in the
		// delay argument.
		lp.links[dest].Send(lp.now, delayTotal, ev)
	} else {
		lp.links[dest].Send(lp.now, delay, ev)
	}
	GetLogger().Debugf("lp %d: send to %d, arrival %dns", lp.id, dest, arrival)

	if arrival < lp.stop {
		lp.sendCount++
		if lp.delays != nil {
			lp.delays.Add(delayTotal.Seconds())
		}
		return true
	}
	return false
}

func (lp *LP) payload() []byte {
	if lp.cfg.BufferBytes == 0 {
		return nil
	}
	return make([]byte, lp.cfg.BufferBytes)
}
