package orderbook

import "itchfeed/types"

// Apply dispatches ev to the matching book operation. Events for symbol 0
// (unknown) are expected to be filtered out before reaching here; Apply
// itself only cares about the event's own fields.
func Apply(b *Book, ev *types.Event) {
	switch ev.Kind {
	case types.EventAdd:
		b.AddOrder(ev.ID, ev.Side, ev.Qty, ev.Price)
	case types.EventExec:
		b.ExecuteOrder(ev.ID, ev.Qty)
	case types.EventCancel:
		b.ExecuteOrder(ev.ID, ev.Qty)
	case types.EventDelete:
		b.DeleteOrder(ev.ID)
	case types.EventReplace:
		b.ReplaceOrder(ev.OldID, ev.ID, ev.Qty, ev.Price)
	}
}
