// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ FEED ARBITER — A/B REDUNDANT MULTICAST MERGE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Merges two tracking-number-ordered feeds into one gapless stream
//
// Description:
//   Two independently-delivered copies of the same message stream (feed A and
//   feed B) are merged by tracking number. A message that arrives out of
//   order is buffered in a bounded-TTL gap table until either its predecessor
//   arrives on either feed or its TTL expires; a message already seen is
//   dropped as a duplicate. Neither feed is treated as primary: whichever
//   side presents the lower pending tracking number goes first.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package arbiter

import (
	"container/heap"
	"time"

	"itchfeed/decoder"
	"itchfeed/types"
)

// PopFunc pulls one packet from a feed's ring; ok is false when the feed is
// momentarily empty. Matches the feed listener's own pop contract so an
// Arbiter can sit directly on top of two feedlistener.Listener instances.
type PopFunc func() (types.PacketView, bool)

// Metrics counts the arbitration outcomes a caller needs for health
// reporting and alarms.
type Metrics struct {
	GapDetected        uint64
	GapFilled          uint64
	DupDropped         uint64
	GapDroppedTTL      uint64
	GapDroppedCapacity uint64
}

type gapItem struct {
	msg types.SmallMsg
	ts  time.Time
}

// trackingHeap is a min-heap over pending gap tracking numbers, so the
// oldest (lowest) pending number is always found in O(log n) for TTL
// pruning and capacity eviction. Entries may go stale once their tracking
// number is drained by the consecutive-fill loop in pickNext; pruneExpired
// and pickNext's capacity eviction both skip any popped key no longer
// present in the owning Arbiter's gap map.
type trackingHeap []uint64

func (h trackingHeap) Len() int            { return len(h) }
func (h trackingHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h trackingHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *trackingHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }
func (h *trackingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Arbiter merges feed A and feed B by tracking number, with bounded
// out-of-order buffering.
type Arbiter struct {
	popA, popB PopFunc

	gapCapacity int
	ttl         time.Duration

	expected uint64
	gap      map[uint64]gapItem
	order    trackingHeap

	bufA, bufB []types.PacketView
	ready      []types.SmallMsg
	staging    types.SmallMsg

	metrics Metrics
}

// New builds an Arbiter over two feed pop functions, with gap table capacity
// gapCapacity and a per-entry time-to-live of ttl before it is dropped
// un-filled.
func New(popA, popB PopFunc, gapCapacity int, ttl time.Duration) *Arbiter {
	return &Arbiter{
		popA:        popA,
		popB:        popB,
		gapCapacity: gapCapacity,
		ttl:         ttl,
		expected:    1,
		gap:         make(map[uint64]gapItem, gapCapacity),
		order:       make(trackingHeap, 0, gapCapacity),
	}
}

// Metrics returns a snapshot of the arbitration counters.
func (a *Arbiter) Metrics() Metrics {
	return a.metrics
}

// trackingNumber reads the common header's tracking number field. Returns 0
// (treated as "no ordering constraint") if pkt is shorter than a header.
//
//go:nosplit
//go:inline
func trackingNumber(pkt types.PacketView) uint16 {
	if len(pkt.Data) < 5 {
		return 0
	}
	return decoder.TrackingNumber(pkt.Data)
}

// loadFeedMessages drains every pending datagram from pop, splitting each
// into its constituent ITCH messages and appending them to buf.
func loadFeedMessages(pop PopFunc, buf *[]types.PacketView) {
	for {
		pkt, ok := pop()
		if !ok {
			return
		}
		cur, end := pkt.Data, len(pkt.Data)
		off := 0
		for off < end {
			msz := decoder.MessageSize(cur[off])
			if msz == 0 || off+int(msz) > end {
				break
			}
			*buf = append(*buf, types.PacketView{Data: cur[off : off+int(msz)]})
			off += int(msz)
		}
	}
}

// pruneExpired evicts every gap entry whose TTL has elapsed, in tracking-
// number order, incrementing GapDroppedTTL for each. Entries waiting behind
// a permanent hole (a tracking number that never arrives) are dropped this
// way without ever advancing expected past the hole: if the missing number
// does arrive later it is still accepted as in-order, but the entries
// already dropped are not backfilled.
func (a *Arbiter) pruneExpired() {
	now := time.Now()
	for a.order.Len() > 0 {
		tn := a.order[0]
		item, ok := a.gap[tn]
		if !ok {
			heap.Pop(&a.order) // stale: already drained by pickNext
			continue
		}
		if now.Sub(item.ts) <= a.ttl {
			return
		}
		heap.Pop(&a.order)
		delete(a.gap, tn)
		a.metrics.GapDroppedTTL++
	}
}

// popFront removes and returns the first element of *buf.
func popFront(buf *[]types.PacketView) types.PacketView {
	v := (*buf)[0]
	*buf = (*buf)[1:]
	return v
}

// pickNext chooses the next message from whichever of a/b has the lower
// pending tracking number, classifies it as duplicate/gap/in-order against
// expected, and on an in-order arrival drains any now-consecutive gap
// entries into ready. Returns false when neither queue has anything to
// offer right now, or when the chosen message was consumed into the gap
// table or dropped as a duplicate (the caller should try the other feed,
// or return empty-handed for this call).
func (a *Arbiter) pickNext(primary, secondary *[]types.PacketView) (types.PacketView, bool) {
	if len(*primary) == 0 && len(*secondary) == 0 {
		return types.PacketView{}, false
	}
	chooseA := false
	switch {
	case len(*primary) > 0 && len(*secondary) > 0:
		chooseA = trackingNumber((*primary)[0]) <= trackingNumber((*secondary)[0])
	case len(*primary) > 0:
		chooseA = true
	}
	src := secondary
	if chooseA {
		src = primary
	}
	if len(*src) == 0 {
		return types.PacketView{}, false
	}
	msg := popFront(src)

	tn := uint64(trackingNumber(msg))
	if tn == 0 {
		return msg, true
	}
	if tn < a.expected {
		a.metrics.DupDropped++
		return types.PacketView{}, false
	}
	if tn > a.expected {
		if len(a.gap) >= a.gapCapacity {
			for a.order.Len() > 0 {
				oldest := heap.Pop(&a.order).(uint64)
				if _, live := a.gap[oldest]; !live {
					continue // stale: already drained by the in-order fill loop
				}
				delete(a.gap, oldest)
				a.metrics.GapDroppedCapacity++
				break
			}
		}
		if _, exists := a.gap[tn]; !exists {
			var sm types.SmallMsg
			sm.Set(msg.Data)
			a.gap[tn] = gapItem{msg: sm, ts: time.Now()}
			heap.Push(&a.order, tn)
			a.metrics.GapDetected++
		}
		return types.PacketView{}, false
	}

	// In-order: advance expected and drain any consecutive gap entries.
	a.expected++
	for {
		item, ok := a.gap[a.expected]
		if !ok {
			break
		}
		a.ready = append(a.ready, item.msg)
		delete(a.gap, a.expected)
		a.metrics.GapFilled++
		a.expected++
	}
	return msg, true
}

// NextMessage returns the next in-order ITCH message merged across both
// feeds, or (_, false) if neither feed currently has one ready. The
// returned PacketView's backing array is only valid until the next call to
// NextMessage.
func (a *Arbiter) NextMessage() (types.PacketView, bool) {
	a.pruneExpired()

	if len(a.ready) > 0 {
		a.staging = a.ready[0]
		a.ready = a.ready[1:]
		return a.staging.View(), true
	}

	loadFeedMessages(a.popA, &a.bufA)
	loadFeedMessages(a.popB, &a.bufB)

	if m, ok := a.pickNext(&a.bufA, &a.bufB); ok {
		return m, true
	}
	if m, ok := a.pickNext(&a.bufB, &a.bufA); ok {
		return m, true
	}
	return types.PacketView{}, false
}
