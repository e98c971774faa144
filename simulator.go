package main

import (
	"context"
	"sync"

	"github.com/pdbj/sst-phold/core"
	"github.com/pdbj/sst-phold/queue"
)

// Simulation owns one configured PHOLD run: the LPs, their links, the
// scheduler partitions, and the coordination barrier.
type Simulation struct {
	cfg     Config
	log     *Logger
	minimum core.Time

	lps    []*LP
	parts  []*Partition
	owner  []int // LP id -> partition index
	tokens *tokenPool
	bar    *windowBarrier
}

// NewSimulation validates cfg and builds the run: N LPs with their
// deterministic draw streams, N outgoing links per LP hosted by the
// source LP's partition, and one pending queue per partition.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:     cfg,
		log:     GetLogger(),
		minimum: cfg.MinimumTime(),
		tokens:  &tokenPool{},
	}

	s.lps = make([]*LP, cfg.Number)
	for i := range s.lps {
		s.lps[i] = newLP(&s.cfg, i, s.tokens)
	}

	np := cfg.Partitions
	s.parts = make([]*Partition, np)
	s.owner = make([]int, cfg.Number)
	for pi := range s.parts {
		lo := pi * cfg.Number / np
		hi := (pi + 1) * cfg.Number / np
		part := &Partition{
			index: pi,
			sim:   s,
			lps:   s.lps[lo:hi],
			lo:    lo,
			hi:    hi,
			pq:    queue.New(),
			inbox: make([]*xchan, np),
			state: PartInit,
		}
		for j := range part.inbox {
			part.inbox[j] = &xchan{}
		}
		for id := lo; id < hi; id++ {
			s.owner[id] = pi
		}
		s.parts[pi] = part
	}

	for _, lp := range s.lps {
		src := s.partitionOf(lp.id)
		links := make([]*Link, cfg.Number)
		for dst := range links {
			latency := s.minimum
			if dst == lp.id {
				latency = 0
			}
			links[dst] = &Link{src: lp.id, dst: dst, latency: latency, out: src}
		}
		lp.attachLinks(links)
	}

	s.bar = newWindowBarrier(np, s.minimum, cfg.StopTime(), s.tokens)
	return s, nil
}

// partitionOf returns the partition owning LP id.
func (s *Simulation) partitionOf(id int) *Partition {
	return s.parts[s.owner[id]]
}

// Partitions exposes the scheduler partitions, mainly for inspection
// after a run.
func (s *Simulation) Partitions() []*Partition {
	return s.parts
}

// Run executes the init broadcast, the scheduled phase across the
// partition workers, and the complete reduce, then assembles the
// report. The context cancels the run between windows.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	s.cfg.Echo(s.log)

	if err := runInitBroadcast(s.lps); err != nil {
		return nil, err
	}
	s.log.Infof("init broadcast complete over %d LPs", len(s.lps))

	metrics := newMetricsCollector()
	var wg sync.WaitGroup
	errs := make([]error, len(s.parts))
	for i := range s.parts {
		wg.Add(1)
		go func(i int, part *Partition) {
			defer wg.Done()
			errs[i] = part.run(ctx)
		}(i, s.parts[i])
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, part := range s.parts {
		metrics.RecordDispatched(part.dispatched)
	}

	sendTotal, recvTotal, err := runCompleteReduce(s.lps)
	if err != nil {
		return nil, err
	}
	s.log.Infof("complete reduce: sends=%d recvs=%d", sendTotal, recvTotal)

	report := &Report{
		PerLP:     make([]LPStats, len(s.lps)),
		SendTotal: sendTotal,
		RecvTotal: recvTotal,
		Error:     int64(sendTotal) - int64(recvTotal),
	}
	for i, lp := range s.lps {
		report.PerLP[i] = LPStats{
			ID:        lp.id,
			SendCount: lp.sendCount,
			RecvCount: lp.recvCount,
			Delays:    lp.delays,
		}
	}
	report.Dispatched, report.Elapsed, report.EventRate = metrics.Snapshot()
	if report.Error != 0 {
		s.log.Warnf("receiver mismatch: sends=%d recvs=%d", sendTotal, recvTotal)
	}
	return report, nil
}
