package converter

import (
	"sync"

	"github.com/nconklindev/csvbook/internal/types"
)

// ProgressReporter receives a report after every finished input and once
// more when the batch completes. Implementations may be called from
// several goroutines, but never concurrently by one batch.
type ProgressReporter interface {
	Report(p types.Progress)
}

// ReporterFunc adapts a function to ProgressReporter.
type ReporterFunc func(p types.Progress)

func (f ReporterFunc) Report(p types.Progress) {
	f(p)
}

// ChannelReporter sends each report's fraction on ch. Sends never block;
// a report is dropped when ch is full.
func ChannelReporter(ch chan<- float64) ProgressReporter {
	return ReporterFunc(func(p types.Progress) {
		select {
		case ch <- p.Fraction():
		default:
		}
	})
}

type nopReporter struct{}

func (nopReporter) Report(types.Progress) {}

// progressCounter counts finished inputs and reports each new count in order.
type progressCounter struct {
	mu       sync.Mutex
	done     int
	total    int
	reporter ProgressReporter
}

func newProgressCounter(total int, reporter ProgressReporter) *progressCounter {
	return &progressCounter{total: total, reporter: reporter}
}

func (c *progressCounter) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
	c.reporter.Report(types.Progress{Completed: c.done, Total: c.total})
}

func (c *progressCounter) complete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reporter.Report(types.Progress{Completed: c.total, Total: c.total})
}
