// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ ORDER BOOK (ULTRA) — DENSE PRICE LATTICE, POOLED ORDERS, HASH INDEX
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Per-symbol limit order book
//
// Description:
//   Maintains resting-order state and per-price aggregates for a single
//   symbol. Add/Execute/Cancel/Delete/Replace are O(1) expected; best-bid
//   and best-ask are a cache-friendly linear scan over a dense, bounded
//   price-level array.
//
// Memory layout:
//   Two dense arrays (bid/ask) of PriceLevel span the book's configured
//   price range. Orders live in a single bump-allocated pool arena — the
//   pool never frees individual slots; Reset() is the only way to reclaim
//   capacity. This trades a bounded per-run order budget for zero
//   allocator/free-list overhead on the hot path.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package orderbook

import (
	"itchfeed/constants"
	"itchfeed/types"
)

// Book is a single symbol's order book.
type Book struct {
	minPrice uint32
	maxPrice uint32

	bidLevels []PriceLevel
	askLevels []PriceLevel

	pool    []Order
	poolTop uint32

	ids *index
}

// NewBook constructs a book over [minPrice, maxPrice] (inclusive), sized
// for at most poolCapacity Adds between Resets (removed orders' pool slots
// are not reused).
func NewBook(minPrice, maxPrice uint32, poolCapacity int) *Book {
	span := int(maxPrice-minPrice) + 1
	b := &Book{
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		bidLevels: make([]PriceLevel, span),
		askLevels: make([]PriceLevel, span),
		pool:      make([]Order, poolCapacity),
		ids:       newIndex(poolCapacity),
	}
	return b
}

// NewDefaultBook constructs a book using the package-wide tunables.
func NewDefaultBook() *Book {
	return NewBook(constants.MinPrice, constants.MaxPrice, constants.PoolCapacity)
}

// Reset returns the book to empty: the pool's bump index rewinds to zero
// and both price-level arrays are re-zeroed. This is the only way resting
// orders' pool slots are reclaimed.
func (b *Book) Reset() {
	b.poolTop = 0
	for i := range b.bidLevels {
		b.bidLevels[i] = PriceLevel{}
	}
	for i := range b.askLevels {
		b.askLevels[i] = PriceLevel{}
	}
	b.ids = newIndex(len(b.pool))
}

// priceIndex maps an absolute price to a dense level index, or (0, false)
// if price falls outside the book's configured span. Out-of-range prices
// are rejected, not folded into slot 0.
//
//go:nosplit
//go:inline
func (b *Book) priceIndex(price uint32) (uint32, bool) {
	if price < b.minPrice || price > b.maxPrice {
		return 0, false
	}
	return price - b.minPrice, true
}

func (b *Book) levels(side types.Side) []PriceLevel {
	if side == types.SideBuy {
		return b.bidLevels
	}
	return b.askLevels
}

// AddOrder inserts a new resting order at the front of its price level's
// list. A duplicate id, an out-of-range price, or a full pool are all
// silent no-ops.
func (b *Book) AddOrder(id uint64, side types.Side, qty, price uint32) {
	if _, found := b.ids.Get(id); found {
		return
	}
	idx, ok := b.priceIndex(price)
	if !ok {
		return
	}
	if b.poolTop >= uint32(len(b.pool)) {
		return
	}

	slot := b.poolTop
	b.poolTop++
	o := &b.pool[slot]
	*o = Order{ID: id, Side: side, Quantity: qty, Price: price, Next: noneIdx, Prev: noneIdx}

	lv := b.levels(side)
	level := &lv[idx]
	prefetchLevel(&b.bidLevels[idx])
	prefetchLevel(&b.askLevels[idx])

	if level.Head != noneIdx {
		b.pool[level.Head].Prev = slot
	}
	o.Next = level.Head
	level.Head = slot
	if level.Tail == noneIdx {
		level.Tail = slot
	}
	level.TotalQuantity += uint64(qty)
	level.OrderCount++

	b.ids.Put(id, slot)
}

// ExecuteOrder reduces a resting order's quantity by min(execQty, qty). If
// the order's quantity reaches zero it is fully unlinked and removed from
// the index, matching DeleteOrder's path (invariants hold after Exec, not
// only after Delete).
func (b *Book) ExecuteOrder(id uint64, execQty uint32) {
	slot, found := b.ids.Get(id)
	if !found {
		return
	}
	o := &b.pool[slot]
	if o.Quantity == 0 {
		return // idempotent at zero
	}
	dec := execQty
	if dec > o.Quantity {
		dec = o.Quantity
	}
	idx, _ := b.priceIndex(o.Price)
	level := &b.levels(o.Side)[idx]
	level.TotalQuantity -= uint64(dec)
	o.Quantity -= dec

	if o.Quantity == 0 {
		b.unlinkAndRemove(slot, o, level, id)
	}
}

// DeleteOrder removes a resting order entirely, crediting its remaining
// quantity back out of the level's aggregate.
func (b *Book) DeleteOrder(id uint64) {
	slot, found := b.ids.Get(id)
	if !found {
		return
	}
	o := &b.pool[slot]
	idx, _ := b.priceIndex(o.Price)
	level := &b.levels(o.Side)[idx]
	level.TotalQuantity -= uint64(o.Quantity)
	b.unlinkAndRemove(slot, o, level, id)
}

// unlinkAndRemove splices slot out of level's intrusive list, zeros the
// order, decrements the level's order count, and drops id from the index.
// The pool slot itself is never reclaimed individually; only Reset frees
// the arena.
func (b *Book) unlinkAndRemove(slot uint32, o *Order, level *PriceLevel, id uint64) {
	if o.Prev != noneIdx {
		b.pool[o.Prev].Next = o.Next
	} else {
		level.Head = o.Next
	}
	if o.Next != noneIdx {
		b.pool[o.Next].Prev = o.Prev
	} else {
		level.Tail = o.Prev
	}
	level.OrderCount--

	*o = Order{Next: noneIdx, Prev: noneIdx}
	b.ids.Delete(id)
}

// ReplaceOrder is equivalent to DeleteOrder(oldID) followed by
// AddOrder(newID, side, newQty, newPrice), with side inherited from the
// old order.
func (b *Book) ReplaceOrder(oldID, newID uint64, newQty, newPrice uint32) {
	slot, found := b.ids.Get(oldID)
	if !found {
		return
	}
	side := b.pool[slot].Side
	b.DeleteOrder(oldID)
	b.AddOrder(newID, side, newQty, newPrice)
}

// Depth returns the number of currently resting orders across both sides.
func (b *Book) Depth() int {
	return b.ids.Len()
}

// BestBid returns the highest price with positive bid quantity, or 0 if
// the bid side is empty.
func (b *Book) BestBid() uint32 {
	for i := len(b.bidLevels) - 1; i >= 0; i-- {
		if b.bidLevels[i].TotalQuantity > 0 {
			return b.minPrice + uint32(i)
		}
	}
	return 0
}

// BestAsk returns the lowest price with positive ask quantity, or 0 if the
// ask side is empty.
func (b *Book) BestAsk() uint32 {
	for i := 0; i < len(b.askLevels); i++ {
		if b.askLevels[i].TotalQuantity > 0 {
			return b.minPrice + uint32(i)
		}
	}
	return 0
}

// Snapshot returns up to levels non-empty price levels per side, ordered
// best-to-worst: bids descending from the best bid, asks ascending from
// the best ask.
func (b *Book) Snapshot(levels int) (bids, asks []LevelView) {
	bids = make([]LevelView, 0, levels)
	for i := len(b.bidLevels) - 1; i >= 0 && len(bids) < levels; i-- {
		if lv := b.bidLevels[i]; lv.TotalQuantity > 0 {
			bids = append(bids, LevelView{Price: b.minPrice + uint32(i), TotalQuantity: lv.TotalQuantity, OrderCount: lv.OrderCount})
		}
	}
	asks = make([]LevelView, 0, levels)
	for i := 0; i < len(b.askLevels) && len(asks) < levels; i++ {
		if lv := b.askLevels[i]; lv.TotalQuantity > 0 {
			asks = append(asks, LevelView{Price: b.minPrice + uint32(i), TotalQuantity: lv.TotalQuantity, OrderCount: lv.OrderCount})
		}
	}
	return bids, asks
}
