package app

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// diagnostics counts ticks and rendered frames and logs rates and heap statistics
// once per interval. Ticks and frames arrive from different goroutines.
type diagnostics struct {
	mu        sync.Mutex
	interval  time.Duration
	since     time.Time
	ticks     int
	frames    int
	lastAlloc uint64
	lastGC    uint32
	mem       runtime.MemStats
}

func newDiagnostics(interval time.Duration) *diagnostics {
	return &diagnostics{interval: interval, since: time.Now()}
}

func (d *diagnostics) tick() {
	d.mu.Lock()
	d.ticks++
	d.mu.Unlock()
}

// frame records a rendered frame and reports when the interval has elapsed.
func (d *diagnostics) frame() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frames++
	now := time.Now()
	elapsed := now.Sub(d.since)
	if elapsed < d.interval {
		return false
	}

	runtime.ReadMemStats(&d.mem)
	secs := elapsed.Seconds()
	allocRate := float64(d.mem.TotalAlloc-d.lastAlloc) / 1024 / 1024 / secs

	var maxPauseUs uint64
	start := d.lastGC
	if d.mem.NumGC-start > 256 {
		start = d.mem.NumGC - 256
	}
	for i := start; i < d.mem.NumGC; i++ {
		if p := d.mem.PauseNs[i%256] / 1000; p > maxPauseUs {
			maxPauseUs = p
		}
	}

	log.Printf("[Diagnostics] FPS: %.1f | TPS: %.1f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause: %d µs)",
		float64(d.frames)/secs, float64(d.ticks)/secs,
		float64(d.mem.Alloc)/1024/1024, allocRate, d.mem.NumGC, maxPauseUs)

	d.frames, d.ticks = 0, 0
	d.since = now
	d.lastAlloc = d.mem.TotalAlloc
	d.lastGC = d.mem.NumGC
	return true
}
