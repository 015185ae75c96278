//go:build !profile

package profiler

// Stubbed no-op versions when the "profile" build tag is not set.

const Enabled = false

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Dump(dir string) (string, error) { return "", nil }

func OpenProfilerGraph() (string, error) { return "", nil }
