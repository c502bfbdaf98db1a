// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ EVENT APPLY — SYMBOL ROUTING & DISPATCH GLUE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Routes a decoded Event to the book owning its symbol.
//
// Description:
//   Add carries its own symbol id; Exec/Cancel/Delete/Replace do not (the
//   ITCH wire format omits it). This layer keeps a dense-enough routing
//   table from order id to symbol id, populated on Add, moved to the new id
//   on Replace and cleared on Delete, so every event variant reaches the
//   right book without trusting Replace's zero symbol field. An order that
//   Exec/Cancel events drive to zero keeps its routing entry.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package apply

import (
	"itchfeed/bookrouter"
	"itchfeed/types"
)

// Sink observes every event after it has been routed to a symbol, for an
// external collaborator (a market-data publisher's fan-out/recording) to
// consume without coupling the book itself to that concern.
type Sink interface {
	OnApplied(sym types.SymbolID, ev types.Event)
}

// Dispatcher routes decoded events to the owning symbol's book via a
// Router, resolving the symbol for variants the wire format doesn't carry
// one for.
type Dispatcher struct {
	router      *bookrouter.Router
	orderSymbol map[uint64]types.SymbolID
	sink        Sink
}

// New builds a Dispatcher over router. sink may be nil.
func New(router *bookrouter.Router, sink Sink) *Dispatcher {
	return &Dispatcher{
		router:      router,
		orderSymbol: make(map[uint64]types.SymbolID, 1<<16),
		sink:        sink,
	}
}

// Apply resolves ev's owning symbol and routes it to that symbol's book.
// Events whose symbol resolves to 0 (unknown, or an id never seen on an
// Add) are dropped, matching the dispatch table's "symbol 0 ignored" rule.
func (d *Dispatcher) Apply(ev types.Event) {
	var sym types.SymbolID

	switch ev.Kind {
	case types.EventAdd:
		sym = ev.SymbolID
		if sym != 0 {
			d.orderSymbol[ev.ID] = sym
		}

	case types.EventExec, types.EventCancel:
		sym = d.orderSymbol[ev.ID]

	case types.EventDelete:
		sym = d.orderSymbol[ev.ID]
		delete(d.orderSymbol, ev.ID)

	case types.EventReplace:
		sym = d.orderSymbol[ev.OldID]
		delete(d.orderSymbol, ev.OldID)
		if sym != 0 {
			d.orderSymbol[ev.ID] = sym
		}
		ev.SymbolID = sym

	default:
		return
	}

	if sym == 0 {
		return
	}
	d.router.Route(sym, ev)
	if d.sink != nil {
		d.sink.OnApplied(sym, ev)
	}
}
