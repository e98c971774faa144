// Package queue holds the pending-event queue used by each scheduler
// partition.
package queue

import (
	"container/heap"

	"github.com/pdbj/sst-phold/core"
)

// Pending is one scheduled delivery: Ev arrives at LP Dest at Arrival,
// sent by LP From. Seq is assigned at push time.
type Pending struct {
	Arrival core.Time
	Seq     uint64
	From    int
	Dest    int
	Ev      core.Event
}

// EventQueue orders deliveries by (arrival, seq). Seq is monotonic
// within the queue, so events sharing an arrival time dispatch in
// enqueue order and the schedule is deterministic.
type EventQueue struct {
	h       eventHeap
	nextSeq uint64
}

// New returns an empty queue.
func New() *EventQueue {
	return &EventQueue{}
}

// Len returns the number of pending deliveries.
func (q *EventQueue) Len() int {
	return len(q.h)
}

// Push schedules a delivery, assigning its sequence number.
func (q *EventQueue) Push(p Pending) uint64 {
	p.Seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, p)
	return p.Seq
}

// Peek returns the earliest pending delivery without removing it.
func (q *EventQueue) Peek() (Pending, bool) {
	if len(q.h) == 0 {
		return Pending{}, false
	}
	return q.h[0], true
}

// Pop removes and returns the earliest pending delivery.
func (q *EventQueue) Pop() (Pending, bool) {
	if len(q.h) == 0 {
		return Pending{}, false
	}
	return heap.Pop(&q.h).(Pending), true
}

// NextTime returns the head arrival time, or core.MaxTime when the
// queue is empty.
func (q *EventQueue) NextTime() core.Time {
	if len(q.h) == 0 {
		return core.MaxTime
	}
	return q.h[0].Arrival
}

type eventHeap []Pending

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Arrival == h[j].Arrival {
		return h[i].Seq < h[j].Seq
	}
	return h[i].Arrival < h[j].Arrival
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(Pending)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
