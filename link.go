package main

import "github.com/pdbj/sst-phold/core"

// outbox accepts scheduled deliveries on behalf of a destination LP.
// The partition hosting the source LP implements it: local
// destinations enqueue directly, cross-partition destinations
// transport the encoded event through a per-pair FIFO channel.
type outbox interface {
	deliver(from, dest int, arrival core.Time, ev core.Event)
}

// Link is a directed channel from one LP to another, or to itself.
// Cross-LP links carry the global lookahead as latency; the self link
// carries none, and its caller folds the minimum into the delay
// argument.
type Link struct {
	src     int
	dst     int
	latency core.Time
	out     outbox
}

// Send schedules ev to arrive at now + latency + delay.
func (l *Link) Send(now, delay core.Time, ev core.Event) {
	l.out.deliver(l.src, l.dst, now+l.latency+delay, ev)
}
