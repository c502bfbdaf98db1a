//go:build !linux || tinygo

// setaffinity_stub.go
//
// Portable fallback for non-Linux builds or when the toolchain doesn't
// support golang.org/x/sys/unix's sched_setaffinity binding (TinyGo).

package ring

// setAffinity is a no-op on unsupported platforms.
//
//go:nosplit
//go:inline
func setAffinity(cpu int) {}
