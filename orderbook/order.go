package orderbook

import "itchfeed/types"

// noneIdx marks an absent pool-index link ("no next", "no prev", "no head").
const noneIdx = ^uint32(0)

// Order is one resting order, stored in a pool arena. next/prev are pool
// indices within the same price level's intrusive list rather than raw
// pointers, so the whole book's live state is a handful of contiguous
// arrays with no heap aliasing between orders.
//
//go:notinheap
type Order struct {
	ID       uint64
	Side     types.Side
	Quantity uint32
	Price    uint32
	Next     uint32
	Prev     uint32
}

// PriceLevel aggregates the resting orders at one price on one side: total
// quantity, order count, and the head/tail of an intrusive list. AddOrder
// pushes at the head, so the list runs from newest (head) to oldest (tail).
//
//go:align 32
type PriceLevel struct {
	TotalQuantity uint64
	OrderCount    uint32
	Head          uint32
	Tail          uint32
}

// LevelView is a read-only snapshot of one price level, returned by
// Snapshot; it carries the absolute price alongside the aggregate so a
// caller walking a slice of these doesn't need the book's MinPrice.
type LevelView struct {
	Price         uint32
	TotalQuantity uint64
	OrderCount    uint32
}
