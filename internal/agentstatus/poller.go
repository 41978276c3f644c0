package agentstatus

import (
	"context"
	"sync"
	"time"

	"github.com/shashank35i/DentraOS-sub001/platform/logger"
)

// DefaultInterval is the fixed re-arm delay between polls while the
// automation is still running.
const DefaultInterval = 2500 * time.Millisecond

// Fetcher loads the latest automation event for an appointment. A nil event
// with a nil error means no event exists for that appointment.
type Fetcher interface {
	FetchLatestAgentEvent(ctx context.Context, appointmentID string) (*Event, error)
}

// Clock abstracts timer scheduling so tests can drive ticks deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled call.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock returns the wall-clock implementation used outside tests.
func SystemClock() Clock { return systemClock{} }

// Poller keeps a Snapshot in sync with the server for one tracked
// appointment at a time.
//
// The design is pull-based and single-flight: one fetch per tick, and the
// next tick is armed only after the previous fetch settles. Re-arming is
// decided solely from the current snapshot's status: NEW and PROCESSING
// keep polling, everything else goes quiescent until the identity changes
// or a manual Refresh. Failed fetches are absorbed: the last good snapshot
// stays in place and the cycle continues as if the round produced nothing.
type Poller struct {
	fetcher  Fetcher
	clock    Clock
	log      *logger.Logger
	interval time.Duration

	mu            sync.Mutex
	ctx           context.Context
	appointmentID string
	generation    uint64
	snapshot      Snapshot
	timer         Timer
	inFlight      bool
}

// PollerConfig configures a Poller. Fetcher is required; zero values for the
// rest fall back to DefaultInterval and the system clock.
type PollerConfig struct {
	Fetcher  Fetcher
	Interval time.Duration
	Clock    Clock
	Logger   *logger.Logger
}

// NewPoller creates a quiescent poller; nothing is fetched until Track.
func NewPoller(cfg PollerConfig) *Poller {
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}

	return &Poller{
		fetcher:  cfg.Fetcher,
		clock:    clock,
		log:      cfg.Logger,
		interval: interval,
	}
}

// Track switches the poller to a new appointment identity. Any pending
// timer is cancelled and the old snapshot discarded before the first fetch
// for the new identity is issued, so a stale-identity response can never
// land on a fresh identity's snapshot.
func (p *Poller) Track(ctx context.Context, appointmentID string) {
	p.mu.Lock()
	p.cancelTimerLocked()
	p.ctx = ctx
	p.appointmentID = appointmentID
	p.generation++
	p.snapshot = Snapshot{}
	gen := p.generation
	p.mu.Unlock()

	if appointmentID == "" {
		return
	}
	p.fetch(gen)
}

// Refresh issues one immediate fetch for the current identity, e.g. after
// the user performed a status-changing action on the appointment.
func (p *Poller) Refresh() {
	p.mu.Lock()
	if p.appointmentID == "" {
		p.mu.Unlock()
		return
	}
	p.cancelTimerLocked()
	gen := p.generation
	p.mu.Unlock()

	p.fetch(gen)
}

// Stop clears the tracked identity and cancels any scheduled work. An
// in-flight fetch is not aborted; its result is discarded when it settles.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelTimerLocked()
	p.appointmentID = ""
	p.generation++
	p.snapshot = Snapshot{}
}

// Snapshot returns the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// fetch performs one poll round for the given generation and decides
// whether to re-arm. A generation mismatch after the round-trip means the
// identity changed while the request was in flight: the result is stale
// and is dropped without touching the snapshot.
func (p *Poller) fetch(gen uint64) {
	p.mu.Lock()
	if gen != p.generation || p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	ctx := p.ctx
	appointmentID := p.appointmentID
	p.mu.Unlock()

	event, err := p.fetcher.FetchLatestAgentEvent(ctx, appointmentID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if gen != p.generation {
		return
	}

	if err == nil {
		p.snapshot = Snapshot{Event: event, CheckedAt: p.clock.Now()}
	}
	// err != nil: no new information this round, keep the last good snapshot.

	rearm := p.snapshot.Status().Active()
	if rearm {
		p.timer = p.clock.AfterFunc(p.interval, func() {
			p.fetch(gen)
		})
	} else {
		p.timer = nil
	}

	if p.log != nil {
		p.log.PollTick(appointmentID, string(p.snapshot.Status()), rearm)
	}
}

func (p *Poller) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
