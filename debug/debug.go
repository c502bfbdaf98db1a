// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — pipeline-aligned error logging helper (zero-alloc)
//
// Purpose:
//   - Logs infrequent error paths without introducing heap pressure.
//   - Used only in cold paths: socket bind/join failures, gap-buffer
//     saturation, pool exhaustion, and similar diagnostics.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Builds each line with a single string concatenation (one small
//     allocation) and writes it straight to stderr.
//   - Aggressively inlined and nosplit — safe to call from latency-sensitive
//     call sites without disturbing their budget.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "itchfeed/utils"

// Pipeline stage tags passed as the prefix argument to DropError/DropMessage.
const (
	TagFeedA   = "FEED-A"
	TagFeedB   = "FEED-B"
	TagArbiter = "ARBITER"
	TagDecoder = "DECODER"
	TagBook    = "BOOK"
	TagBoot    = "BOOTSTRAP"
)

// DropError logs error messages without fmt: the line is built by string
// concatenation and written directly to stderr.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs debug messages without fmt, the same way as DropError.
// Used for cold-path diagnostics: connection state changes, gap events,
// compaction notices.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}
