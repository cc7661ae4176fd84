package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-wide request and payroll-run counters using
// atomics; a snapshot is served on /metricz.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	payrollRuns     uint64
	staffCalculated uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordRun counts one completed payroll run and how many staff it covered.
func (c *Collector) RecordRun(staffCount int) {
	atomic.AddUint64(&c.payrollRuns, 1)
	if staffCount > 0 {
		atomic.AddUint64(&c.staffCalculated, uint64(staffCount))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":     atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":        avg,
		"payrollRunsTotal":     atomic.LoadUint64(&c.payrollRuns),
		"staffCalculatedTotal": atomic.LoadUint64(&c.staffCalculated),
	}
}
