// Package progress reports sync/recovery progress at a throttled cadence,
// the Go port of sync.c's state_progress time-based throttle.
package progress

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Reporter throttles progress reports to at most once per Interval.
type Reporter struct {
	log      *logrus.Entry
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// New returns a Reporter logging through log, reporting at most once per
// interval. If interval <= 0, it defaults to one second.
func New(log *logrus.Entry, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &Reporter{log: log, interval: interval, now: time.Now}
}

// ShouldReport reports whether enough time has elapsed since the last
// report to emit another one; if so it records the current time as the new
// baseline. Driver.Run calls this once per processed index instead of
// doing wall-clock math inline.
func (r *Reporter) ShouldReport() bool {
	now := r.now()
	if now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	return true
}

// Report logs a percent-complete line with bytes processed so far.
func (r *Reporter) Report(processed, total int64, bytesProcessed int64) {
	pct := 0
	if total > 0 {
		pct = int(processed * 100 / total)
	}
	r.log.Infof("%d%% complete, %d MiB processed", pct, bytesProcessed/(1<<20))
}
