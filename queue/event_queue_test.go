package queue

import (
	"testing"

	"github.com/pdbj/sst-phold/core"
)

func TestEventQueueOrdering(t *testing.T) {
	q := New()
	arrivals := []core.Time{50, 10, 30, 20, 40}
	for _, a := range arrivals {
		q.Push(Pending{Arrival: a})
	}
	prev := core.Time(-1)
	for q.Len() > 0 {
		p, ok := q.Pop()
		if !ok {
			t.Fatalf("pop failed with %d pending", q.Len())
		}
		if p.Arrival < prev {
			t.Fatalf("arrival %d popped after %d", p.Arrival, prev)
		}
		prev = p.Arrival
	}
}

func TestEventQueueTieBreak(t *testing.T) {
	q := New()
	for i := 0; i < 10; i++ {
		q.Push(Pending{Arrival: 100, From: i})
	}
	q.Push(Pending{Arrival: 50, From: 99})

	p, _ := q.Pop()
	if p.From != 99 {
		t.Fatalf("earliest arrival not popped first, got sender %d", p.From)
	}
	prevSeq := uint64(0)
	first := true
	for i := 0; i < 10; i++ {
		p, ok := q.Pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if p.From != i {
			t.Fatalf("equal-time events out of enqueue order: got sender %d at pop %d", p.From, i)
		}
		if !first && p.Seq <= prevSeq {
			t.Fatalf("sequence not monotonic: %d after %d", p.Seq, prevSeq)
		}
		prevSeq = p.Seq
		first = false
	}
}

func TestEventQueueNextTime(t *testing.T) {
	q := New()
	if q.NextTime() != core.MaxTime {
		t.Fatalf("empty queue NextTime = %d, want MaxTime", q.NextTime())
	}
	if _, ok := q.Peek(); ok {
		t.Fatalf("peek on empty queue succeeded")
	}
	q.Push(Pending{Arrival: 77})
	if q.NextTime() != 77 {
		t.Fatalf("NextTime = %d, want 77", q.NextTime())
	}
	head, ok := q.Peek()
	if !ok || head.Arrival != 77 {
		t.Fatalf("peek = (%v, %v)", head, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("peek consumed the entry")
	}
}
