package engine

import "sync"

// barrier is a reusable cyclic rendezvous point of fixed arity n: every
// participant (the master and its T-1 workers) calls wait once per phase,
// and none proceed past it until all n have arrived.
type barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	n     int
	count int
	gen   uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// wait blocks until n arrivals (across all callers) have accumulated for
// the current generation, then releases all of them together and starts
// the next generation.
func (b *barrier) wait() {
	b.mu.Lock()
	gen := b.gen
	b.count++
	if b.count == b.n {
		b.count = 0
		b.gen++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for b.gen == gen {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
