package core

import "testing"

// stepClock advances by a fixed amount on every read.
func stepClock(deltaUS uint64) *SimClock {
	return &SimClock{OnRead: func(c *SimClock) { c.Advance(deltaUS) }}
}

func TestTickerAdvancesWithoutMisses(t *testing.T) {
	tk := NewTicker(stepClock(1))
	for i := 1; i <= 100; i++ {
		tk.Wait()
		if tk.Tick() != uint64(i) {
			t.Fatalf("after wait %d: tick = %d", i, tk.Tick())
		}
	}
	// Exactly one boundary observed per wait: no misses.
	if tk.Misses() != 0 {
		t.Errorf("misses = %d, want 0", tk.Misses())
	}
}

func TestTickerCountsMissOnOverrun(t *testing.T) {
	// Each clock read jumps 3us: every wait lands strictly past the
	// next boundary.
	tk := NewTicker(stepClock(3))
	for i := 0; i < 10; i++ {
		tk.Wait()
	}
	if tk.Misses() != 10 {
		t.Errorf("misses = %d, want 10", tk.Misses())
	}
}

func TestTickerCoalescesWithoutReplay(t *testing.T) {
	c := &SimClock{}
	tk := NewTicker(c)

	// The control body "took" 5us: the next wait must adopt the
	// observed time in a single evaluation, not replay 5 boundaries.
	c.Advance(5)
	tk.Wait()
	if tk.Tick() != 5 {
		t.Fatalf("tick = %d, want 5", tk.Tick())
	}
	if tk.Misses() != 1 {
		t.Errorf("misses = %d, want 1", tk.Misses())
	}

	// Arriving exactly on the next boundary is not a miss.
	c.Advance(1)
	tk.Wait()
	if tk.Tick() != 6 {
		t.Fatalf("tick = %d, want 6", tk.Tick())
	}
	if tk.Misses() != 1 {
		t.Errorf("misses = %d, want 1 still", tk.Misses())
	}
}
