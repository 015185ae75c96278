package profiler

import "runtime"

// RuntimeStats is a snapshot of the Go runtime counters shown in the debug
// overlay.
type RuntimeStats struct {
	HeapAlloc  uint64
	Mallocs    uint64
	NumGC      uint32
	Goroutines int
	CPUs       int
}

// Runtime reads the counters. It stops the world briefly, so call it at most
// once per frame.
func Runtime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
