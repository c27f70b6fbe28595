package tasty

import "testing"

func TestOwnerTreeArenaAllocWithinSlab(t *testing.T) {
	a := acquireOwnerTreeArena()
	defer a.release()

	n1 := a.alloc()
	n2 := a.alloc()
	if n1 == n2 {
		t.Fatalf("alloc() returned the same node twice")
	}
	if a.used != 2 {
		t.Fatalf("a.used = %d, want 2", a.used)
	}
}

func TestOwnerTreeArenaReleaseResetsAndRecycles(t *testing.T) {
	a := acquireOwnerTreeArena()
	n := a.alloc()
	n.addr = 42
	a.release()

	reused := acquireOwnerTreeArena()
	defer reused.release()
	if reused.used != 0 {
		t.Fatalf("expected a released arena's used counter to reset to 0, got %d", reused.used)
	}
}

func TestOwnerTreeArenaOverflowsGracefully(t *testing.T) {
	a := &ownerTreeArena{nodes: make([]OwnerTree, 1)}
	first := a.alloc()
	second := a.alloc()
	if first == second {
		t.Fatalf("overflow alloc should return a fresh node, not alias the last slab slot")
	}
}

func TestSeededReaderIsDeterministic(t *testing.T) {
	r1 := newSeededReader(7)
	r2 := newSeededReader(7)
	b1 := make([]byte, 16)
	b2 := make([]byte, 16)
	r1.Read(b1)
	r2.Read(b2)
	for i := range b1 {
		if b1[i] != b2[i] {
			t.Fatalf("seeded reader is not deterministic at byte %d: %x vs %x", i, b1[i], b2[i])
		}
	}
}

func TestCorrelationSourceProducesDistinctIDs(t *testing.T) {
	src := newCorrelationSource(1)
	id1 := src.next(1000)
	id2 := src.next(1000)
	if id1 == id2 {
		t.Fatalf("expected two successive correlation ids to differ")
	}
}
