package batch

import (
	"sync"
	"time"
)

// Progress counts completed items and batches. It is safe for concurrent use.
type Progress struct {
	mu          sync.RWMutex
	total       int
	done        int
	batches     int
	doneBatches int
	start       time.Time
}

// NewProgress starts tracking a run of total items in batches.
func NewProgress(total, batches int) *Progress {
	return &Progress{total: total, batches: batches, start: time.Now()}
}

// Add records a completed batch of n items.
func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	p.doneBatches++
}

// Snapshot is a point-in-time copy of progress.
type Snapshot struct {
	Total       int
	Done        int
	Batches     int
	DoneBatches int
	Elapsed     time.Duration
}

// Percent returns completion in [0, 100]; an empty run is complete.
func (s Snapshot) Percent() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// Snapshot copies the current counters.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Total:       p.total,
		Done:        p.done,
		Batches:     p.batches,
		DoneBatches: p.doneBatches,
		Elapsed:     time.Since(p.start),
	}
}
