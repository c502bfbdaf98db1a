// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ ITCH DECODER — ZERO-COPY BINARY MESSAGE PARSING
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Single-message decode, symbol interning, typed event emission
//
// Description:
//   Given a pointer/length into one ITCH message, identifies the message
//   type from its leading byte, decodes its fixed-layout big-endian
//   fields in place (no intermediate struct copy beyond local scalars),
//   interns any contained symbol, and returns a typed Event plus the
//   number of bytes consumed.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package decoder

import (
	"itchfeed/symboltable"
	"itchfeed/types"
	"itchfeed/utils"
)

// Message type tags, per the common ITCH 5.0 header's leading byte.
const (
	TypeSystemEvent       = 'S'
	TypeStockDirectory    = 'R'
	TypeAddOrder          = 'A'
	TypeAddOrderMPID      = 'F'
	TypeOrderExecuted     = 'E'
	TypeOrderExecutedPx   = 'C'
	TypeOrderCancel       = 'X'
	TypeOrderDelete       = 'D'
	TypeOrderReplace      = 'U'
)

// messageSize returns the wire size of a message given its leading type
// byte, or 0 for an unknown type.
//
//go:nosplit
//go:inline
func messageSize(msgType byte) uint32 {
	switch msgType {
	case TypeSystemEvent:
		return 12
	case TypeStockDirectory:
		return 39
	case TypeAddOrder:
		return 36
	case TypeAddOrderMPID:
		return 40
	case TypeOrderExecuted:
		return 31
	case TypeOrderExecutedPx:
		return 36
	case TypeOrderCancel:
		return 23
	case TypeOrderDelete:
		return 19
	case TypeOrderReplace:
		return 35
	default:
		return 0
	}
}

// MessageSize exposes messageSize for callers (the arbiter) that need to
// split a datagram into individual messages without decoding them.
//
//go:nosplit
//go:inline
func MessageSize(msgType byte) uint32 {
	return messageSize(msgType)
}

// headerLen is the size of the common header every message shares:
// type(1) + stockLocate(2) + trackingNumber(2).
const headerLen = 5

// TrackingNumber reads the 16-bit tracking number at byte offset 3 of a
// message's common header. Callers must ensure len(msg) >= headerLen.
//
//go:nosplit
//go:inline
func TrackingNumber(msg []byte) uint16 {
	return utils.LoadBE16(msg[3:5])
}

// Decoder decodes ITCH messages against a shared symbol table.
type Decoder struct {
	Symbols *symboltable.Table
}

// New constructs a Decoder bound to symbols.
func New(symbols *symboltable.Table) *Decoder {
	return &Decoder{Symbols: symbols}
}

// DecodeOne decodes a single message at the front of buf. It returns the
// decoded event (Kind == types.EventNone for non-order messages) and the
// number of bytes consumed; consumed == 0 signals an unknown type or a
// declared size exceeding len(buf), which the caller should treat as
// end-of-stream for this buffer.
func (d *Decoder) DecodeOne(buf []byte) (types.Event, uint32) {
	if len(buf) < headerLen {
		return types.Event{}, 0
	}
	msgType := buf[0]
	size := messageSize(msgType)
	if size == 0 || uint32(len(buf)) < size {
		return types.Event{}, 0
	}

	switch msgType {
	case TypeStockDirectory:
		// Pre-register the symbol so a later Add referencing it interns
		// to the same id, even though this message emits no event.
		d.Symbols.Intern(buf[11:19])
		return types.Event{}, size

	case TypeAddOrder, TypeAddOrderMPID:
		id := utils.LoadBE64(buf[11:19])
		side := types.Side(buf[19])
		qty := utils.LoadBE32(buf[20:24])
		symID := d.Symbols.Intern(buf[24:32])
		price := utils.LoadBE32(buf[32:36])
		return types.Event{
			Kind:     types.EventAdd,
			ID:       id,
			Side:     side,
			Qty:      qty,
			Price:    price,
			SymbolID: symID,
		}, size

	case TypeOrderExecuted:
		id := utils.LoadBE64(buf[11:19])
		qty := utils.LoadBE32(buf[19:23])
		return types.Event{Kind: types.EventExec, ID: id, Qty: qty}, size

	case TypeOrderExecutedPx:
		id := utils.LoadBE64(buf[11:19])
		qty := utils.LoadBE32(buf[19:23])
		return types.Event{Kind: types.EventExec, ID: id, Qty: qty}, size

	case TypeOrderCancel:
		id := utils.LoadBE64(buf[11:19])
		qty := utils.LoadBE32(buf[19:23])
		return types.Event{Kind: types.EventCancel, ID: id, Qty: qty}, size

	case TypeOrderDelete:
		id := utils.LoadBE64(buf[11:19])
		return types.Event{Kind: types.EventDelete, ID: id}, size

	case TypeOrderReplace:
		oldID := utils.LoadBE64(buf[11:19])
		newID := utils.LoadBE64(buf[19:27])
		qty := utils.LoadBE32(buf[27:31])
		price := utils.LoadBE32(buf[31:35])
		// The wire form carries no symbol; the apply layer routes via
		// old_id's existing symbol-id mapping.
		return types.Event{
			Kind:  types.EventReplace,
			ID:    newID,
			OldID: oldID,
			Qty:   qty,
			Price: price,
		}, size

	default: // TypeSystemEvent and anything else non-order-affecting
		return types.Event{}, size
	}
}
