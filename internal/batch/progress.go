package batch

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// progress renders an in-place terminal progress line for a batch run,
// refreshed on a fixed interval. Row counters may be bumped concurrently
// from any worker goroutine.
type progress struct {
	out       io.Writer
	label     string
	total     int64
	converted atomic.Int64
	skipped   atomic.Int64
	start     time.Time
	done      chan struct{}
	finished  chan struct{}
}

func newProgress(out io.Writer, label string, total int64) *progress {
	p := &progress{
		out:      out,
		label:    label,
		total:    total,
		start:    time.Now(),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *progress) loop() {
	defer close(p.finished)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			p.draw()
			fmt.Fprint(p.out, "\n")
			return
		case <-ticker.C:
			p.draw()
		}
	}
}

// Finish stops the refresh loop after a final draw and waits for it.
func (p *progress) Finish() {
	close(p.done)
	<-p.finished
}

func (p *progress) draw() {
	rows := p.converted.Load() + p.skipped.Load()

	var frac float64
	if p.total > 0 {
		frac = float64(rows) / float64(p.total)
	}
	if frac > 1 {
		frac = 1
	}

	const width = 24
	filled := int(width * frac)
	bar := strings.Repeat("=", filled) + strings.Repeat("-", width-filled)

	elapsed := time.Since(p.start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(rows) / secs
	}

	fmt.Fprintf(p.out, "\r%s [%s] %d/%d rows  %d skipped  %.0f/s  %s\033[K",
		p.label, bar, rows, p.total, p.skipped.Load(), rate, elapsed.Truncate(time.Second))
}
