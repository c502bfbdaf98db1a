package orderbook

// prefetchLevel is an observable hint that the caller is about to touch lv;
// it never affects semantics. The portable build has no compiler intrinsic
// for a hardware prefetch, so this is a deliberate no-op left as a single
// call site the way the source's write-prefetch calls were — swapping in a
// real PREFETCHW on a platform that benefits from it requires no call-site
// changes.
//
//go:nosplit
//go:inline
func prefetchLevel(lv *PriceLevel) {}
