// ring_atomic_fallback.go
//
// Acquire/release helpers built on sync/atomic. Seq-cst is a conservative
// superset of the required order, and costs nothing extra on amd64/arm64
// where the hardware memory model is already close to this, so this
// implementation is used on every architecture rather than forked per-arch.

package ring

import "sync/atomic"

// loadAcquireUint64 is an acquire load of *p.
func loadAcquireUint64(p *uint64) uint64 {
	return atomic.LoadUint64(p)
}

// storeReleaseUint64 is a release store to *p.
func storeReleaseUint64(p *uint64, v uint64) {
	atomic.StoreUint64(p, v)
}
