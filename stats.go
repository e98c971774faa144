package main

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/slices"
)

// Histogram accumulates delay samples into powers-of-two bins over
// seconds: bin k covers [2^k, 2^(k+1)).
type Histogram struct {
	bins  map[int]uint64
	total uint64
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{bins: make(map[int]uint64)}
}

// Add records one sample, in seconds.
func (h *Histogram) Add(seconds float64) {
	if h == nil || seconds <= 0 {
		return
	}
	k := int(math.Floor(math.Log2(seconds)))
	h.bins[k]++
	h.total++
}

// Total returns the sample count.
func (h *Histogram) Total() uint64 {
	if h == nil {
		return 0
	}
	return h.total
}

// Bins returns the populated bin exponents in ascending order.
func (h *Histogram) Bins() []int {
	if h == nil {
		return nil
	}
	ks := make([]int, 0, len(h.bins))
	for k := range h.bins {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}

// Count returns the sample count of bin k.
func (h *Histogram) Count(k int) uint64 {
	if h == nil {
		return 0
	}
	return h.bins[k]
}

// LPStats is one LP's counters at end of run.
type LPStats struct {
	ID        int
	SendCount uint64
	RecvCount uint64
	Delays    *Histogram
}

// Report is the aggregate output of a run: the per-LP counters in id
// order, the reduced grand totals, and the wall-clock throughput.
type Report struct {
	PerLP     []LPStats
	SendTotal uint64
	RecvTotal uint64
	// Error is SendTotal - RecvTotal. A nonzero value is reported
	// with the results, not raised.
	Error      int64
	Dispatched uint64
	Elapsed    time.Duration
	EventRate  float64
}

// PrintReport writes the run report to stdout.
func PrintReport(r *Report, withDelays bool) {
	if r == nil {
		fmt.Println("no report available")
		return
	}
	fmt.Println("=== PHOLD Results ===")
	fmt.Printf("Grand sends:     %d\n", r.SendTotal)
	fmt.Printf("Grand receives:  %d\n", r.RecvTotal)
	fmt.Printf("Error (s-r):     %d\n", r.Error)
	fmt.Printf("Dispatched:      %d events in %s (%.0f ev/s)\n",
		r.Dispatched, r.Elapsed.Round(time.Millisecond), r.EventRate)

	fmt.Println()
	fmt.Println("=== Per-LP Counters ===")
	for _, st := range r.PerLP {
		fmt.Printf("LP %4d: sends=%d recvs=%d\n", st.ID, st.SendCount, st.RecvCount)
	}

	if !withDelays {
		return
	}
	fmt.Println()
	fmt.Println("=== Delay Histogram (s) ===")
	merged := NewHistogram()
	for _, st := range r.PerLP {
		for _, k := range st.Delays.Bins() {
			merged.bins[k] += st.Delays.Count(k)
			merged.total += st.Delays.Count(k)
		}
	}
	for _, k := range merged.Bins() {
		fmt.Printf("[2^%-3d, 2^%-3d): %d\n", k, k+1, merged.Count(k))
	}
}
