// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ BOOK ROUTER — PER-SYMBOL BOOK PARTITIONING ACROSS PINNED CORES
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Routes applied events to the owning symbol's book on a
// dedicated, pinned consumer goroutine.
//
// Description:
//   Each symbol id is owned by exactly one shard (symbolID % shard count),
//   matching the spec's "multiple independent pipelines (distinct symbol
//   partitions) may run in parallel without coordination." A shard is one
//   SPSC ring plus one PinnedConsumer goroutine from the ring package,
//   used here to fan events out to per-symbol books. (The feed listener
//   hands packets to the arbiter through a buffered channel, not a ring.)
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bookrouter

import (
	"unsafe"

	"itchfeed/constants"
	"itchfeed/orderbook"
	"itchfeed/ring"
	"itchfeed/types"
)

// routed bundles a decoded event with the symbol it applies to, so a
// single ring carries both without a second channel.
type routed struct {
	ev  types.Event
	sym types.SymbolID
}

// Shard owns a disjoint partition of symbols' books, each processed by one
// pinned consumer goroutine.
type Shard struct {
	books map[types.SymbolID]*orderbook.Book
	in    *ring.Ring
	stop  *uint32
	hot   *uint32
	done  chan struct{}
}

// Router fans routed events out across a fixed number of shards.
type Router struct {
	shards []*Shard
}

// New builds a Router with numShards pinned-consumer shards, starting at
// OS thread core baseCore, baseCore+1, ... Core pinning is best-effort: on
// platforms without affinity support it degrades to an unpinned goroutine.
func New(numShards, baseCore int, queueBits int) *Router {
	r := &Router{shards: make([]*Shard, numShards)}
	for i := 0; i < numShards; i++ {
		s := &Shard{
			books: make(map[types.SymbolID]*orderbook.Book),
			in:    ring.New(1 << queueBits),
			stop:  new(uint32),
			hot:   new(uint32),
			done:  make(chan struct{}),
		}
		r.shards[i] = s
		ring.PinnedConsumer(baseCore+i, s.in, s.stop, s.hot, s.process, s.done)
	}
	return r
}

// shardFor returns the shard owning sym.
func (r *Router) shardFor(sym types.SymbolID) *Shard {
	return r.shards[int(sym)%len(r.shards)]
}

// bookFor returns sym's book within its shard, creating it on first use.
// Only called from the shard's own pinned consumer goroutine, so no
// synchronization is needed despite the lazy map write.
func (s *Shard) bookFor(sym types.SymbolID) *orderbook.Book {
	b, ok := s.books[sym]
	if !ok {
		b = orderbook.NewBook(constants.MinPrice, constants.MaxPrice, constants.PoolCapacity)
		s.books[sym] = b
	}
	return b
}

// process applies one routed event to its symbol's book. Runs on the
// shard's pinned consumer goroutine.
func (s *Shard) process(p unsafe.Pointer) {
	r := (*routed)(p)
	b := s.bookFor(r.sym)
	orderbook.Apply(b, &r.ev)
}

// Route enqueues ev for symbol sym onto its owning shard's ring. Returns
// false if that shard's queue is momentarily full (back-pressure; the
// caller may retry or drop, matching the feed listener's own queue-full
// policy).
func (r *Router) Route(sym types.SymbolID, ev types.Event) bool {
	if sym == 0 {
		return true // unknown symbol: silently ignored, matching apply dispatch
	}
	shard := r.shardFor(sym)
	rt := &routed{ev: ev, sym: sym}
	return shard.in.Push(unsafe.Pointer(rt))
}

// Stop signals every shard's consumer to exit and waits for all of them.
func (r *Router) Stop() {
	for _, s := range r.shards {
		*s.stop = 1
	}
	for _, s := range r.shards {
		<-s.done
	}
}

// Book returns sym's book if it has been created, for snapshot/shutdown
// reporting. Not safe to call concurrently with that symbol's shard still
// running; call after Stop.
func (r *Router) Book(sym types.SymbolID) (*orderbook.Book, bool) {
	b, ok := r.shardFor(sym).books[sym]
	return b, ok
}

// Symbols returns every symbol id with a live book, for shutdown
// reporting. Call after Stop.
func (r *Router) Symbols() []types.SymbolID {
	var out []types.SymbolID
	for _, s := range r.shards {
		for sym := range s.books {
			out = append(out, sym)
		}
	}
	return out
}
