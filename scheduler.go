package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdbj/sst-phold/core"
	"github.com/pdbj/sst-phold/queue"
)

// PartitionState tracks the scheduler state machine of one worker.
type PartitionState int

const (
	PartInit PartitionState = iota
	PartRunning
	PartBlocked
	PartDraining
	PartTerminated
)

func (s PartitionState) String() string {
	switch s {
	case PartInit:
		return "Init"
	case PartRunning:
		return "Running"
	case PartBlocked:
		return "Blocked"
	case PartDraining:
		return "Draining"
	case PartTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("PartitionState(%d)", int(s))
	}
}

// xmsg is one event crossing between partitions, in wire form.
type xmsg struct {
	from    int
	dest    int
	arrival core.Time
	wire    []byte
}

// xchan is the FIFO conduit from one sending partition to one
// receiving partition. The sender appends during its window; the
// receiver drains at the next barrier, after every sender has
// arrived, so the two sides never touch the slice in the same round.
type xchan struct {
	mu   sync.Mutex
	msgs []xmsg
}

func (c *xchan) send(m xmsg) {
	c.mu.Lock()
	c.msgs = append(c.msgs, m)
	c.mu.Unlock()
}

func (c *xchan) drain() []xmsg {
	c.mu.Lock()
	out := c.msgs
	c.msgs = nil
	c.mu.Unlock()
	return out
}

// Partition owns a contiguous block of LPs, their pending events, and
// the local virtual time.
type Partition struct {
	index int
	sim   *Simulation
	lps   []*LP
	lo    int // owned id range [lo, hi)
	hi    int

	pq    *queue.EventQueue
	inbox []*xchan // indexed by sender partition

	lvt        core.Time
	state      PartitionState
	dispatched uint64
}

// State returns the partition's scheduler state. Only stable once the
// run has finished or before it starts.
func (p *Partition) State() PartitionState {
	return p.state
}

// LVT returns the partition's local virtual time.
func (p *Partition) LVT() core.Time {
	return p.lvt
}

// deliver routes a scheduled delivery from one of this partition's
// LPs: local destinations go straight into the pending queue,
// cross-partition destinations travel encoded through the per-pair
// channel.
func (p *Partition) deliver(from, dest int, arrival core.Time, ev core.Event) {
	q := p.sim.partitionOf(dest)
	if q == p {
		p.pq.Push(queue.Pending{From: from, Dest: dest, Arrival: arrival, Ev: ev})
		return
	}
	q.inbox[p.index].send(xmsg{from: from, dest: dest, arrival: arrival, wire: core.Encode(ev)})
}

// drainInboxes merges cross-partition arrivals into the pending
// queue. Channels are drained in sender-partition order and each
// preserves its sender's emission order, which fixes the tie-break
// sequence for equal arrival times.
func (p *Partition) drainInboxes() error {
	for s := 0; s < len(p.inbox); s++ {
		if s == p.index {
			continue
		}
		for _, m := range p.inbox[s].drain() {
			ev, err := core.Decode(m.wire)
			if err != nil {
				return fmt.Errorf("partition %d: inbound event from %d: %w", p.index, s, err)
			}
			p.pq.Push(queue.Pending{From: m.from, Dest: m.dest, Arrival: m.arrival, Ev: ev})
		}
	}
	return nil
}

// dispatchWindow pops and handles every pending event with arrival
// below bound, in (arrival, seq) order, advancing the local virtual
// time. Events sent during the window have arrival at or beyond bound
// by the lookahead argument, so none of them can join this window.
func (p *Partition) dispatchWindow(bound core.Time) error {
	for {
		head, ok := p.pq.Peek()
		if !ok || head.Arrival >= bound {
			return nil
		}
		pd, _ := p.pq.Pop()
		if pd.Arrival < p.lvt {
			return &CausalityError{Partition: p.index, Arrival: pd.Arrival, Bound: p.lvt}
		}
		if pd.Arrival > p.lvt {
			p.lvt = pd.Arrival
		}
		switch ev := pd.Ev.(type) {
		case *core.PholdEvent:
			if pd.From != pd.Dest && pd.Arrival < ev.SendTime+p.sim.minimum {
				return &CausalityError{Partition: p.index, Arrival: pd.Arrival, Bound: ev.SendTime + p.sim.minimum}
			}
			p.sim.lps[pd.Dest].handlePhold(pd.Arrival)
			p.dispatched++
		default:
			return &CollectiveError{LP: pd.Dest,
				Msg: fmt.Sprintf("event tag %d inside the scheduled run", pd.Ev.Tag())}
		}
	}
}

// run is the worker loop for one partition: emit the initial event
// population, then alternate barrier rounds and dispatch windows
// until the run completes or a fault is published.
func (p *Partition) run(ctx context.Context) error {
	for _, lp := range p.lps {
		if err := lp.Setup(); err != nil {
			p.sim.bar.fail(err)
			p.state = PartTerminated
			return err
		}
	}
	p.state = PartRunning
	for {
		if ctx != nil && ctx.Err() != nil {
			p.sim.bar.fail(ctx.Err())
		}
		p.state = PartBlocked
		if err := p.sim.bar.rendezvous(); err != nil {
			p.state = PartTerminated
			return err
		}
		if err := p.drainInboxes(); err != nil {
			p.sim.bar.fail(err)
			p.state = PartTerminated
			return err
		}
		bound, done, err := p.sim.bar.propose(p.pq.NextTime())
		if err != nil {
			p.state = PartTerminated
			return err
		}
		if done {
			// Whatever is left arrives at or beyond the stop time and
			// the LPs are authorized to end; release the events.
			p.state = PartDraining
			for {
				if _, ok := p.pq.Pop(); !ok {
					break
				}
			}
			p.state = PartTerminated
			return nil
		}
		p.state = PartRunning
		if err := p.dispatchWindow(bound); err != nil {
			p.sim.bar.fail(err)
			p.state = PartTerminated
			return err
		}
	}
}
