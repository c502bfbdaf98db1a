// control.go — Global control flags and activity management for pinned consumers
// ============================================================================
// SYSTEM CONTROL ORCHESTRATION
// ============================================================================
//
// Control package provides lightweight global signaling infrastructure for
// coordinating activity states and graceful shutdown across pinned consumer
// threads with nanosecond-precision timing and zero-allocation operations.
//
// Architecture overview:
//   • Global hot/stop flags for lock-free inter-thread communication
//   • Nanosecond-precision activity tracking with automatic cooldown
//   • Zero-allocation flag access for hot path performance
//   • Graceful shutdown coordination across all consumer cores
//
// Threading model:
//   • Feed listeners signal activity via SignalActivity()
//   • The net-mode main loop calls PollCooldown() when the arbiter is idle
//   • Flags() exposes the flags for a PinnedConsumer; the book router's
//     shards use their own per-shard flags instead
//   • Automatic cooldown prevents unnecessary hot spinning between bursts
//   • Graceful shutdown ensures clean resource cleanup
//
// Safety guarantees:
//   • Race-free flag access with proper memory ordering
//   • Bounded cooldown periods prevent infinite hot spinning
//   • Deterministic shutdown behavior across all cores

package control

import "time"

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	// Global coordination flags - accessed by all consumer threads
	hot  uint32 // Activity indicator: 1 = active feed traffic, 0 = idle
	stop uint32 // Shutdown signal: 1 = initiate graceful shutdown, 0 = running

	// Activity timing for automatic cooldown management
	lastHot    int64                    // Nanosecond timestamp of last feed activity
	cooldownNs = int64(1 * time.Second) // Cooldown duration: 1 second idle period
)

// ============================================================================
// ACTIVITY SIGNALING (FEED INGRESS INTEGRATION)
// ============================================================================

// SignalActivity marks the system as active and records precise timing for
// automatic cooldown management. Called from the feed listener upon
// receiving a datagram on either the A or B multicast stream.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func SignalActivity() {
	hot = 1
	lastHot = time.Now().UnixNano()
}

// ============================================================================
// COOLDOWN MANAGEMENT (AUTOMATIC EFFICIENCY)
// ============================================================================

// PollCooldown implements automatic hot-flag clearance based on elapsed time
// since last activity. Integrates into consumer spin loops to drop from a
// hot spin to a relaxed/parked wait during idle periods between bursts.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func PollCooldown() {
	if hot == 1 && time.Now().UnixNano()-lastHot > cooldownNs {
		hot = 0
	}
}

// ============================================================================
// SYSTEM SHUTDOWN (GRACEFUL TERMINATION)
// ============================================================================

// Shutdown initiates graceful system termination by setting the global stop
// flag. A pinned consumer given this flag via Flags() terminates once it
// sees it; the book router's shards watch their own stop flags, which
// Router.Stop sets.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Shutdown() {
	stop = 1
}

// ============================================================================
// FLAG ACCESS (CONSUMER INTEGRATION)
// ============================================================================

// Flags returns direct pointers to global coordination flags for
// zero-allocation access by pinned consumer threads.
//
// Return values: (*stop_flag, *hot_flag) for PinnedConsumer integration.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}
