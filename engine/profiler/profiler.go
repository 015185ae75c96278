//go:build profile

// Package profiler records named spans into a ring buffer and exports them
// as a speedscope evented profile. Without the "profile" build tag every
// call is a no-op.
package profiler

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const defaultCapacity = 1 << 20

// Enabled reports whether spans are recorded in this build.
const Enabled = true

// Init must be called once (e.g., on app start) with a capacity (#spans).
func Init(capacity int) {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	spans.init(capacity)
}

// Start begins a scope and returns an end func to be deferred.
func Start(name string) func() {
	if !spans.ready.Load() {
		return func() {}
	}
	id := names.id(name)
	start := time.Now().UnixNano()
	spans.push(event{atNS: start, frame: id, open: true})
	return func() {
		end := max(time.Now().UnixNano(), start)
		spans.push(event{atNS: end, frame: id})
	}
}

var errNoEvents = errors.New("profiler: no events to dump")

// Dump writes the recorded spans as a speedscope file into dir and returns
// its path.
func Dump(dir string) (string, error) {
	evs := spans.snapshot()
	if len(evs) == 0 {
		return "", errNoEvents
	}
	path := filepath.Join(dir, "grove-rhi.speedscope.json")
	if err := writeSpeedscope(evs, names.list(), path); err != nil {
		return "", err
	}
	return path, nil
}

// OpenProfilerGraph dumps into the temp dir and launches the speedscope
// viewer on the result when it is installed.
func OpenProfilerGraph() (string, error) {
	path, err := Dump(os.TempDir())
	if err != nil {
		return "", err
	}
	cmd := exec.Command("speedscope", path)
	cmd.SysProcAttr = viewerAttr()
	if err := cmd.Start(); err != nil {
		slog.Warn("profiler: speedscope not started", "path", path, "error", err)
	}
	return path, nil
}

type event struct {
	atNS  int64
	frame int
	open  bool
}

// ring keeps the newest events in write order.
type ring struct {
	ready atomic.Bool
	size  uint64
	write atomic.Uint64
	evs   []event
}

func (r *ring) init(capacity int) {
	r.size = uint64(capacity)
	r.evs = make([]event, r.size)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *ring) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.size] = e
}

func (r *ring) snapshot() []event {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.size {
		start = n - r.size
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.size])
	}
	return out
}

var spans ring

// interner maps span names to speedscope frame indices.
type interner struct {
	mu     sync.Mutex
	frames []string
	index  map[string]int
}

func (in *interner) id(name string) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[name]; ok {
		return id
	}
	if in.index == nil {
		in.index = map[string]int{}
	}
	id := len(in.frames)
	in.index[name] = id
	in.frames = append(in.frames, name)
	return id
}

func (in *interner) list() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.frames...)
}

var names interner
