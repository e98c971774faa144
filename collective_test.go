package main

import (
	"errors"
	"testing"

	"github.com/pdbj/sst-phold/core"
)

func makeLPs(t *testing.T, n int) []*LP {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Number = n
	tokens := &tokenPool{}
	lps := make([]*LP, n)
	for i := range lps {
		lps[i] = newLP(&cfg, i, tokens)
	}
	return lps
}

func TestInitBroadcastUnbalancedTree(t *testing.T) {
	lps := makeLPs(t, 7)
	if err := runInitBroadcast(lps); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	for _, lp := range lps {
		if len(lp.oob) != 0 {
			t.Fatalf("lp %d mailbox not drained: %d messages", lp.id, len(lp.oob))
		}
	}
}

func TestInitBroadcastOddSizes(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13} {
		lps := makeLPs(t, n)
		if err := runInitBroadcast(lps); err != nil {
			t.Fatalf("broadcast over %d LPs failed: %v", n, err)
		}
	}
}

func TestInitBroadcastStrayMessageFatal(t *testing.T) {
	lps := makeLPs(t, 7)
	lps[5].oob = append(lps[5].oob, core.Encode(&core.InitEvent{SenderID: 0}))
	err := runInitBroadcast(lps)
	var coll *CollectiveError
	if !errors.As(err, &coll) {
		t.Fatalf("expected collective protocol violation, got %v", err)
	}
}

func TestInitBroadcastRootReceiveFatal(t *testing.T) {
	lps := makeLPs(t, 3)
	// The root initiates; it must never receive.
	lps[0].oob = append(lps[0].oob, core.Encode(&core.InitEvent{SenderID: 2}))
	var coll *CollectiveError
	if err := runInitBroadcast(lps); !errors.As(err, &coll) {
		t.Fatalf("expected collective protocol violation, got %v", err)
	}
}

func TestCompleteReduceSums(t *testing.T) {
	lps := makeLPs(t, 7)
	var wantSend, wantRecv uint64
	for i, lp := range lps {
		lp.sendCount = uint64(i + 1)
		lp.recvCount = uint64(2 * i)
		wantSend += lp.sendCount
		wantRecv += lp.recvCount
	}
	send, recv, err := runCompleteReduce(lps)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if send != wantSend || recv != wantRecv {
		t.Fatalf("reduce totals (%d, %d), want (%d, %d)", send, recv, wantSend, wantRecv)
	}
	for _, lp := range lps {
		if len(lp.oob) != 0 {
			t.Fatalf("lp %d mailbox not drained after reduce", lp.id)
		}
	}
}

func TestCompleteReduceStrayMessageFatal(t *testing.T) {
	lps := makeLPs(t, 7)
	lps[0].oob = append(lps[0].oob, core.Encode(&core.CompleteEvent{SendCount: 1}))
	_, _, err := runCompleteReduce(lps)
	var coll *CollectiveError
	if !errors.As(err, &coll) {
		t.Fatalf("expected collective protocol violation, got %v", err)
	}
}

func TestCollectivePhaseCount(t *testing.T) {
	// A 7-LP tree fills depths 0 to 2 exactly, so its last index is at
	// depth 2 and both collectives take exactly 3 phases.
	if d := maxTreeDepth(7); d != 2 {
		t.Fatalf("maxTreeDepth(7) = %d, want 2", d)
	}
	if d := maxTreeDepth(2); d != 1 {
		t.Fatalf("maxTreeDepth(2) = %d, want 1", d)
	}
}
