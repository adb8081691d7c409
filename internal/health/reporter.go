// Package health reports scoring-engine liveness, decoupled from the
// recommendation request path.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/i211534/movieapp-recommendations/internal/domain"
)

// Prober issues one short-timeout liveness probe to the scoring engine.
type Prober interface {
	Probe(ctx context.Context) error
}

// Reporter checks the engine on demand and keeps the last known status
// behind an atomic pointer. Readers tolerate a few seconds of staleness;
// no locking beyond the atomic swap is needed.
type Reporter struct {
	prober  Prober
	probing sync.Mutex
	last    atomic.Pointer[domain.HealthStatus]
	log     zerolog.Logger
}

func NewReporter(prober Prober, log zerolog.Logger) *Reporter {
	return &Reporter{prober: prober, log: log}
}

// Check probes the engine once. Any failure, timeouts included, yields
// unhealthy; a probe never affects in-flight recommendation requests.
// While a probe is in flight, concurrent checks collapse to the last
// known status instead of stacking probes onto the engine.
func (r *Reporter) Check(ctx context.Context) domain.HealthStatus {
	if !r.probing.TryLock() {
		if last, ok := r.Last(); ok {
			return last
		}
		r.probing.Lock()
	}
	defer r.probing.Unlock()

	status := domain.HealthStatus{
		State:     domain.StateHealthy,
		CheckedAt: time.Now().UTC(),
	}

	if err := r.prober.Probe(ctx); err != nil {
		r.log.Warn().Err(err).Msg("scoring engine health probe failed")
		status.State = domain.StateUnhealthy
	}

	r.last.Store(&status)
	return status
}

// Last returns the most recent probe result, or ok=false before the
// first probe.
func (r *Reporter) Last() (domain.HealthStatus, bool) {
	if s := r.last.Load(); s != nil {
		return *s, true
	}
	return domain.HealthStatus{}, false
}
