package workflow

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the intended
// consume semantics under concurrency:
// - the pool bound is enforced by a conditional check-and-increment, so
//   concurrent consumers can never overdraw
// - total consumed quantity is conserved regardless of interleaving
//
// The real path runs the same predicate as a single conditional UPDATE with a
// RowsAffected check; full DB integration tests belong in an environment that
// can run MySQL.

type fakePool struct {
	mu        sync.Mutex
	available decimal.Decimal
	used      decimal.Decimal
	accepted  int
	rejected  int
}

func newFakePool(available int64) *fakePool {
	return &fakePool{available: decimal.NewFromInt(available)}
}

// consume mirrors the conditional update: succeed iff used+delta <= available.
func (p *fakePool) consume(delta decimal.Decimal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used.Add(delta).GreaterThan(p.available) {
		p.rejected++
		return false
	}
	p.used = p.used.Add(delta)
	p.accepted++
	return true
}

func TestConsume_ConcurrentConsumersNeverOverdraw(t *testing.T) {
	pool := newFakePool(100)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.consume(decimal.NewFromInt(10))
		}()
	}
	wg.Wait()

	if pool.used.GreaterThan(pool.available) {
		t.Fatalf("pool overdrawn: used=%s available=%s", pool.used, pool.available)
	}
	// Exactly 10 consumes of 10 fit into a pool of 100.
	if pool.accepted != 10 {
		t.Fatalf("expected exactly 10 accepted consumes, got %d", pool.accepted)
	}
	if pool.rejected != 30 {
		t.Fatalf("expected 30 rejected consumes, got %d", pool.rejected)
	}
	if !pool.used.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected used=100, got %s", pool.used)
	}
}

func TestConsume_Property_ConservedUnderConcurrency(t *testing.T) {
	for run := 0; run < 100; run++ {
		pool := newFakePool(55)

		var wg sync.WaitGroup
		deltas := []int64{30, 30, 20, 10, 5}
		for _, d := range deltas {
			wg.Add(1)
			go func(d int64) {
				defer wg.Done()
				pool.consume(decimal.NewFromInt(d))
			}(d)
		}
		wg.Wait()

		if pool.used.GreaterThan(pool.available) {
			t.Fatalf("run=%d pool overdrawn: used=%s", run, pool.used)
		}
		if pool.accepted+pool.rejected != len(deltas) {
			t.Fatalf("run=%d lost a consume: accepted=%d rejected=%d", run, pool.accepted, pool.rejected)
		}
	}
}
