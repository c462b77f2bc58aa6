// Package profiler times the steps of a single prove or verify attempt.
package profiler

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Profiler logs step durations at debug level. A nil or disabled Profiler
// is a no-op.
type Profiler struct {
	logger  zerolog.Logger
	enabled bool
	start   time.Time
	last    time.Time
}

// New returns a profiler tagging every entry with a fresh request_id.
func New(logger zerolog.Logger, op string, enabled bool) *Profiler {
	now := time.Now()
	return &Profiler{
		logger: logger.With().
			Str("request_id", uuid.NewString()).
			Str("op", op).
			Logger(),
		enabled: enabled,
		start:   now,
		last:    now,
	}
}

// Step records the time spent since the previous step.
func (p *Profiler) Step(name string) {
	if p == nil || !p.enabled {
		return
	}
	now := time.Now()
	p.logger.Debug().
		Str("step", name).
		Dur("elapsed", now.Sub(p.last)).
		Msg("profiler step")
	p.last = now
}

// Done records the total duration of the attempt.
func (p *Profiler) Done() time.Duration {
	if p == nil {
		return 0
	}
	total := time.Since(p.start)
	if p.enabled {
		p.logger.Debug().Dur("total", total).Msg("profiler done")
	}
	return total
}
