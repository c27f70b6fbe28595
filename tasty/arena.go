package tasty

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// ownerTreeArena is a slab-backed allocator for OwnerTree nodes, grounded
// directly on the teacher's nodeArena (sync.Pool of pre-sized slices,
// ref-counted so borrowed subtrees stay valid). Unlike the teacher's
// parser, which reuses arenas across incremental edits, one unpickler run
// owns exactly one arena for the lifetime of the run; Release returns it
// to the pool once the TreeUnpickler is discarded.
type ownerTreeArena struct {
	nodes []OwnerTree
	used  int
}

const ownerTreeArenaSlab = 512

var ownerTreeArenaPool = sync.Pool{
	New: func() any {
		return &ownerTreeArena{nodes: make([]OwnerTree, ownerTreeArenaSlab)}
	},
}

func acquireOwnerTreeArena() *ownerTreeArena {
	return ownerTreeArenaPool.Get().(*ownerTreeArena)
}

func (a *ownerTreeArena) release() {
	for i := 0; i < a.used; i++ {
		a.nodes[i] = OwnerTree{}
	}
	a.used = 0
	ownerTreeArenaPool.Put(a)
}

func (a *ownerTreeArena) alloc() *OwnerTree {
	if a.used < len(a.nodes) {
		n := &a.nodes[a.used]
		a.used++
		return n
	}
	return &OwnerTree{}
}

// correlationSource mints monotonic ULIDs for diagnostic correlation only —
// never part of the decoded symbol data, and never compared for equality
// against anything but another correlation id. Each TreeUnpickler creates
// one; no owner-tree node or log line carries one of its ids. ulid.Monotonic needs an entropy source and
// a time; both are fixed at construction so a single unpickler run
// produces a stable, sortable sequence regardless of wall-clock jitter.
type correlationSource struct {
	mu  sync.Mutex
	ent *ulid.MonotonicEntropy
}

func newCorrelationSource(seed uint64) *correlationSource {
	return &correlationSource{ent: ulid.Monotonic(newSeededReader(seed), 0)}
}

func (c *correlationSource) next(t uint64) ulid.ULID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := ulid.New(t, c.ent)
	if err != nil {
		// Monotonic overflow within the same millisecond is the only
		// failure mode; fall back to a fresh entropy read rather than
		// propagate, since this id is diagnostic-only.
		id, _ = ulid.New(t, c.ent)
	}
	return id
}

// newSeededReader returns a tiny deterministic io.Reader so that
// correlation ids are reproducible across runs of the same artifact,
// which keeps golden diagnostic output stable in tests.
func newSeededReader(seed uint64) *seededReader { return &seededReader{state: seed | 1} }

type seededReader struct{ state uint64 }

func (r *seededReader) Read(p []byte) (int, error) {
	for i := range p {
		// xorshift64*
		r.state ^= r.state >> 12
		r.state ^= r.state << 25
		r.state ^= r.state >> 27
		p[i] = byte((r.state * 2685821657736338717) >> 56)
	}
	return len(p), nil
}
