// Package types holds the wire-adjacent, zero-copy data shapes shared across
// the feed listener, arbiter, decoder, and order book: packet views into
// ring-owned storage, the small owned buffer used once a view's slot may be
// recycled, and the tagged event union emitted by the decoder.
package types

// Side identifies which side of the book an order rests on.
type Side uint8

const (
	SideBuy  Side = 'B'
	SideSell Side = 'S'
)

// SymbolID is a dense, process-lifetime-stable id assigned by the symbol
// table. 0 means unknown/absent.
type SymbolID uint16

// PacketView is a non-owning view of a UDP datagram payload, or of a single
// ITCH message split out of one. The bytes are only valid until the owning
// ring slot wraps; copy into a SmallMsg before holding one across a call
// boundary.
//
//go:notinheap
//go:align 16
type PacketView struct {
	Data []byte
}

// MaxMessageBytes is an upper bound on any ITCH 5.0 message this pipeline
// decodes: the widest message, Add-with-MPID, is 40 bytes.
const MaxMessageBytes = 64

// SmallMsg is an owned, fixed-capacity copy of a single ITCH message. The
// arbiter copies into one of these before buffering a message past the
// lifetime of its originating ring slot.
//
//go:notinheap
//go:align 64
type SmallMsg struct {
	Len   uint32
	Bytes [MaxMessageBytes]byte
}

// View returns a PacketView over the owned bytes.
func (m *SmallMsg) View() PacketView {
	return PacketView{Data: m.Bytes[:m.Len]}
}

// Set copies src into the owned buffer, truncating silently if src exceeds
// MaxMessageBytes (it never should, given the §4.3 size table).
func (m *SmallMsg) Set(src []byte) {
	n := copy(m.Bytes[:], src)
	m.Len = uint32(n)
}

// ============================================================================
// EVENT — tagged union of the five order-lifecycle variants
// ============================================================================

// EventKind tags which variant an Event holds.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventAdd
	EventExec
	EventCancel
	EventDelete
	EventReplace
)

// Event is a tagged union of the decoder's five order events. Fields unused
// by the active Kind are zero. A single flat struct (rather than an
// interface per variant) keeps decode/apply allocation-free, matching the
// teacher's LogView convention of one dense struct per hot-path record.
type Event struct {
	Kind EventKind

	ID       uint64   // Add/Exec/Cancel/Delete: order id. Replace: new id.
	OldID    uint64   // Replace only: the order id being replaced.
	Side     Side     // Add only.
	Qty      uint32   // Add: resting qty. Exec: executed qty. Cancel: canceled qty. Replace: new resting qty.
	Price    uint32   // Add/Replace: price in 1/10000-dollar units.
	SymbolID SymbolID // Add only; Replace's wire form carries no symbol, resolved by the apply layer.
}
