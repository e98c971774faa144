package core

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Draws is the per-LP random stream. A single uniform source, seeded
// by 1+id (a zero seed is disallowed by the generator), feeds the
// remote coin, the destination pick, and the exponential delay, in
// that order. The sequence for an LP is therefore reproducible
// regardless of how LPs are assigned to partitions.
type Draws struct {
	id  uint64
	n   uint64
	uni *rand.Rand
	exp distuv.Exponential
}

// NewDraws builds the stream for LP id of n, with the exponential
// delay mean given in seconds.
func NewDraws(id, n uint64, avgSeconds float64) *Draws {
	src := rand.NewSource(1 + id)
	return &Draws{
		id:  id,
		n:   n,
		uni: rand.New(src),
		exp: distuv.Exponential{Rate: 1 / avgSeconds, Src: src},
	}
}

// Coin returns the uniform [0,1) remote-or-not draw.
func (d *Draws) Coin() float64 {
	return d.uni.Float64()
}

// Dest returns a destination LP other than the sender, uniform over
// the remaining n-1 ids. A draw equal to the sender is rejected and
// redrawn.
func (d *Draws) Dest() uint64 {
	for {
		dst := d.uni.Uint64n(d.n)
		if dst != d.id {
			return dst
		}
	}
}

// Delay returns one exponential delay draw as virtual time.
func (d *Draws) Delay() Time {
	return TimeFromSeconds(d.exp.Rand())
}
