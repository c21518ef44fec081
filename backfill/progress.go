package backfill

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports backfill progress to a writer every
// reportInterval notes, overwriting a single terminal line.
type ProgressTracker struct {
	mu         sync.Mutex
	out        io.Writer
	total      int
	done       int
	interval   int
	lastReport int
	begun      time.Time
	running    bool
}

// NewProgressTracker creates a tracker over total notes that reports
// every reportInterval processed notes.
func NewProgressTracker(out io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		out:      out,
		total:    total,
		interval: reportInterval,
	}
}

// Start resets the counters and begins timing. A tracker that was never
// started produces no output.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.begun = time.Now()
	p.running = true
	p.done = 0
	p.lastReport = 0
}

// Update sets the number of processed notes.
func (p *ProgressTracker) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(done)
}

// Increment adds delta to the number of processed notes.
func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(p.done + delta)
}

// advance moves the counter, capped at total, and reports whenever a
// report interval has been crossed. Caller must hold the lock.
func (p *ProgressTracker) advance(done int) {
	if !p.running {
		return
	}

	if done > p.total {
		done = p.total
	}
	p.done = done

	if p.done-p.lastReport >= p.interval {
		p.report()
		p.lastReport = p.done
	}
}

// Finish forces a final report and terminates the progress line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.done = p.total
	p.report()
	fmt.Fprintln(p.out)
}

// Elapsed returns how long the tracker has been running.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return 0
	}
	return time.Since(p.begun)
}

// report writes one progress line. Caller must hold the lock.
func (p *ProgressTracker) report() {
	rate := 0.0
	if elapsed := time.Since(p.begun); elapsed > 0 {
		rate = float64(p.done) / elapsed.Seconds()
	}

	percent := 0.0
	if p.total > 0 {
		percent = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.out, "\r%d/%d notes embedded (%.1f%%) at %.1f notes/s",
		p.done, p.total, percent, rate)
}
