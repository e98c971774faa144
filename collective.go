package main

import (
	"fmt"

	"github.com/pdbj/sst-phold/core"
	"github.com/pdbj/sst-phold/tree"
)

// The two out-of-band collectives run in integer phase steps outside
// virtual time, over the implicit binary tree of LP ids: a broadcast
// of InitEvents from the root down before scheduling begins, and a
// reduce of CompleteEvents from the leaves up after it ends. Messages
// move in wire form through per-LP mailboxes; a message sent at phase
// p is consumed at phase p+1. Each collective finishes in exactly
// maxTreeDepth(n)+1 phases.

// maxTreeDepth returns the deepest level of the LP tree.
func maxTreeDepth(n int) uint {
	return tree.Depth(uint(n - 1))
}

// takeOne pops the single expected mailbox message for lp during
// phase, decoding it to an event.
func takeOne(lp *LP, phase int) (core.Event, error) {
	if len(lp.oob) == 0 {
		return nil, &CollectiveError{Phase: phase, LP: lp.id, Msg: "expected message missing"}
	}
	if len(lp.oob) > 1 {
		return nil, &CollectiveError{Phase: phase, LP: lp.id,
			Msg: fmt.Sprintf("expected 1 message, have %d", len(lp.oob))}
	}
	ev, err := core.Decode(lp.oob[0])
	lp.oob = lp.oob[:0]
	if err != nil {
		return nil, &CollectiveError{Phase: phase, LP: lp.id, Msg: err.Error()}
	}
	return ev, nil
}

// checkQuiet verifies an LP not participating in the current phase has
// an empty mailbox. A stray message here is an early or late delivery
// relative to the LP's level.
func checkQuiet(lp *LP, depth, phase uint) error {
	if len(lp.oob) == 0 {
		return nil
	}
	return &CollectiveError{Phase: int(phase), LP: lp.id,
		Msg: fmt.Sprintf("unexpected message at depth %d", depth)}
}

// runInitBroadcast drives the spanning-tree init. During phase p every
// LP at depth p consumes exactly one InitEvent from its parent (the
// root initiates at phase 0), then forwards an InitEvent to each
// child index below n. Any message observed elsewhere is fatal.
func runInitBroadcast(lps []*LP) error {
	n := len(lps)
	for p := uint(0); p <= maxTreeDepth(n); p++ {
		// Receive side first: mailboxes hold only what the previous
		// phase sent.
		for _, lp := range lps {
			d := tree.Depth(uint(lp.id))
			if d != p {
				if err := checkQuiet(lp, d, p); err != nil {
					return err
				}
				continue
			}
			if lp.id == 0 {
				if len(lp.oob) != 0 {
					return &CollectiveError{Phase: int(p), LP: 0, Msg: "root received a message"}
				}
				continue
			}
			ev, err := takeOne(lp, int(p))
			if err != nil {
				return err
			}
			init, ok := ev.(*core.InitEvent)
			if !ok {
				return &CollectiveError{Phase: int(p), LP: lp.id,
					Msg: fmt.Sprintf("expected init event, got tag %d", ev.Tag())}
			}
			if want := tree.Parent(uint(lp.id)); init.SenderID != uint64(want) {
				return &CollectiveError{Phase: int(p), LP: lp.id,
					Msg: fmt.Sprintf("init from %d, expected parent %d", init.SenderID, want)}
			}
		}
		// Send side: this phase's LPs seed the next level.
		for _, lp := range lps {
			if tree.Depth(uint(lp.id)) != p {
				continue
			}
			left, right := tree.Children(uint(lp.id))
			for _, c := range [2]uint{left, right} {
				if int(c) < n {
					lps[c].oob = append(lps[c].oob,
						core.Encode(&core.InitEvent{SenderID: uint64(lp.id)}))
				}
			}
		}
	}
	return nil
}

// validChildren returns how many children of id exist below n.
func validChildren(id, n int) int {
	left, right := tree.Children(uint(id))
	count := 0
	if int(left) < n {
		count++
	}
	if int(right) < n {
		count++
	}
	return count
}

// runCompleteReduce sums the per-LP counters up the tree and returns
// the grand totals emitted by the root. During phase p the LPs at
// effective depth maxDepth-p consume one CompleteEvent per valid
// child, fold the child totals into their own, and forward the sum to
// their parent.
func runCompleteReduce(lps []*LP) (sendTotal, recvTotal uint64, err error) {
	n := len(lps)
	maxDepth := maxTreeDepth(n)

	sums := make([][2]uint64, n)
	for i, lp := range lps {
		sums[i] = [2]uint64{lp.sendCount, lp.recvCount}
	}

	for p := uint(0); p <= maxDepth; p++ {
		e := maxDepth - p
		for _, lp := range lps {
			d := tree.Depth(uint(lp.id))
			if d != e {
				if err := checkQuiet(lp, d, p); err != nil {
					return 0, 0, err
				}
				continue
			}
			want := validChildren(lp.id, n)
			if len(lp.oob) != want {
				return 0, 0, &CollectiveError{Phase: int(p), LP: lp.id,
					Msg: fmt.Sprintf("expected %d complete messages, have %d", want, len(lp.oob))}
			}
			for _, wire := range lp.oob {
				ev, derr := core.Decode(wire)
				if derr != nil {
					return 0, 0, &CollectiveError{Phase: int(p), LP: lp.id, Msg: derr.Error()}
				}
				comp, ok := ev.(*core.CompleteEvent)
				if !ok {
					return 0, 0, &CollectiveError{Phase: int(p), LP: lp.id,
						Msg: fmt.Sprintf("expected complete event, got tag %d", ev.Tag())}
				}
				sums[lp.id][0] += comp.SendCount
				sums[lp.id][1] += comp.RecvCount
			}
			lp.oob = lp.oob[:0]
		}
		for _, lp := range lps {
			if tree.Depth(uint(lp.id)) != e || lp.id == 0 {
				continue
			}
			parent := tree.Parent(uint(lp.id))
			lps[parent].oob = append(lps[parent].oob,
				core.Encode(&core.CompleteEvent{
					SendCount: sums[lp.id][0],
					RecvCount: sums[lp.id][1],
				}))
		}
	}
	return sums[0][0], sums[0][1], nil
}
