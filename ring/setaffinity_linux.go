//go:build linux && !tinygo

// setaffinity_linux.go
//
// Linux-only binding for `sched_setaffinity(2)` that pins **this** OS thread
// to a single logical CPU, via golang.org/x/sys/unix rather than a hand
// rolled raw syscall — the portable, already-vetted form of the same call.
//
// Design notes
// ------------
//   • Builds a unix.CPUSet on the stack per call; no heap allocation.
//   • Errors are deliberately swallowed: on a containerised or cgroup-heavy
//     system the call might be EPERM/EINVAL; the fallback is simply "no pin".
//
// This file is built only when GOOS=linux and not under TinyGo.

package ring

import "golang.org/x/sys/unix"

// setAffinity pins the *current thread* to cpu (0-based). Out-of-range or
// failed calls are silently ignored for portability.
func setAffinity(cpu int) {
	if cpu < 0 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	_ = unix.SchedSetaffinity(0, &set) // pid 0 → current thread
}
