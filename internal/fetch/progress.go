package fetch

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker is the shared completion counter. Workers increment it once per
// finished task regardless of outcome; the reporter reads it until it
// reaches the total.
type Tracker struct {
	mu        sync.Mutex
	completed int
	total     int
}

// NewTracker creates a tracker for total tasks.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total}
}

// Increment records one completed task.
func (t *Tracker) Increment() {
	t.mu.Lock()
	t.completed++
	t.mu.Unlock()
}

// Completed returns the current completion count.
func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// Total returns the task total.
func (t *Tracker) Total() int {
	return t.total
}

// Done reports whether every task is accounted for.
func (t *Tracker) Done() bool {
	return t.Completed() >= t.total
}

// Reporter emits a live status line while workers drain the queue. On a
// terminal the line overwrites itself with a carriage return; otherwise a
// plain line is printed whenever the count changes. The reporter stops once
// the tracker is done; callers must Wait for it before printing the summary
// so output does not interleave.
type Reporter struct {
	tracker  *Tracker
	out      io.Writer
	interval time.Duration
	tty      bool
	done     chan struct{}
}

// NewReporter creates a reporter sampling tracker at the given interval.
func NewReporter(tracker *Tracker, out io.Writer, interval time.Duration, tty bool) *Reporter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Reporter{
		tracker:  tracker,
		out:      out,
		interval: interval,
		tty:      tty,
		done:     make(chan struct{}),
	}
}

// Start launches the reporting loop. start is the run's start time, used to
// derive throughput.
func (r *Reporter) Start(start time.Time) {
	go r.run(start)
}

// Wait blocks until the reporter has observed completion and stopped.
func (r *Reporter) Wait() {
	<-r.done
}

func (r *Reporter) run(start time.Time) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	lastPrinted := -1
	for {
		completed := r.tracker.Completed()
		if r.tty || completed != lastPrinted {
			r.print(completed, start)
			lastPrinted = completed
		}
		if completed >= r.tracker.Total() {
			if r.tty {
				fmt.Fprintln(r.out)
			}
			return
		}
		<-ticker.C
	}
}

func (r *Reporter) print(completed int, start time.Time) {
	elapsed := time.Since(start).Seconds()
	var speed float64
	if elapsed > 0 {
		speed = float64(completed) / elapsed
	}
	if r.tty {
		fmt.Fprintf(r.out, "\rProgress: %d/%d images. Speed: %.2f images/second", completed, r.tracker.Total(), speed)
		return
	}
	fmt.Fprintf(r.out, "Progress: %d/%d images. Speed: %.2f images/second\n", completed, r.tracker.Total(), speed)
}
