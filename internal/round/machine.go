package round

import (
	"sync"
	"time"
)

// Phase is a step of the round lifecycle.
type Phase int

const (
	// Idle: a fresh batch is face down, waiting for a pick.
	Idle Phase = iota
	// Revealed: one card is flipped and its reward credited.
	Revealed
	// Resetting: the batch is being cleared away.
	Resetting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Revealed:
		return "REVEALED"
	case Resetting:
		return "RESETTING"
	default:
		return "UNKNOWN"
	}
}

// Default dwell times between phases.
const (
	DefaultRevealDwell = 2200 * time.Millisecond
	DefaultResetDelay  = 800 * time.Millisecond
)

// Timing holds the dwell before each scheduled transition.
type Timing struct {
	RevealDwell time.Duration
	ResetDelay  time.Duration
}

// DefaultTiming returns the stock 2.2s reveal and 0.8s reset.
func DefaultTiming() Timing {
	return Timing{RevealDwell: DefaultRevealDwell, ResetDelay: DefaultResetDelay}
}

// Hooks are invoked after each transition, outside the machine's lock.
type Hooks struct {
	// OnResetting fires on REVEALED -> RESETTING.
	OnResetting func()
	// OnIdle fires on RESETTING -> IDLE; the host deals the next batch here.
	OnIdle func()
}

// Machine drives IDLE -> REVEALED -> RESETTING -> IDLE. Each scheduled
// transition carries the generation it was scheduled in; Stop bumps the
// generation so stale timers that still fire are ignored.
type Machine struct {
	mu     sync.Mutex
	sched  Scheduler
	timing Timing
	hooks  Hooks

	phase  Phase
	chosen string
	gen    uint64
	stop   func() bool
}

// NewMachine builds a machine in IDLE. A nil scheduler uses wall-clock time.
func NewMachine(sched Scheduler, timing Timing, hooks Hooks) *Machine {
	if sched == nil {
		sched = RealScheduler{}
	}
	if timing.RevealDwell <= 0 {
		timing.RevealDwell = DefaultRevealDwell
	}
	if timing.ResetDelay <= 0 {
		timing.ResetDelay = DefaultResetDelay
	}
	return &Machine{sched: sched, timing: timing, hooks: hooks}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Chosen returns the id picked this round, empty while IDLE.
func (m *Machine) Chosen() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chosen
}

// SetTiming changes the dwell times used from the next scheduled transition.
func (m *Machine) SetTiming(t Timing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.RevealDwell > 0 {
		m.timing.RevealDwell = t.RevealDwell
	}
	if t.ResetDelay > 0 {
		m.timing.ResetDelay = t.ResetDelay
	}
}

// Reveal moves IDLE -> REVEALED with id as the chosen card and schedules
// the reset. It returns false, changing nothing, outside IDLE.
func (m *Machine) Reveal(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Idle || id == "" {
		return false
	}
	m.phase = Revealed
	m.chosen = id
	m.scheduleLocked(m.timing.RevealDwell, Revealed, m.toResetting)
	return true
}

// Stop cancels any pending transition and returns the machine to IDLE.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.phase = Idle
	m.chosen = ""
}

func (m *Machine) cancelLocked() {
	m.gen++
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

func (m *Machine) scheduleLocked(d time.Duration, from Phase, next func(uint64, Phase)) {
	m.cancelLocked()
	gen := m.gen
	m.stop = m.sched.AfterFunc(d, func() { next(gen, from) })
}

func (m *Machine) toResetting(gen uint64, from Phase) {
	m.mu.Lock()
	if gen != m.gen || m.phase != from {
		m.mu.Unlock()
		return
	}
	m.phase = Resetting
	m.scheduleLocked(m.timing.ResetDelay, Resetting, m.toIdle)
	hook := m.hooks.OnResetting
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (m *Machine) toIdle(gen uint64, from Phase) {
	m.mu.Lock()
	if gen != m.gen || m.phase != from {
		m.mu.Unlock()
		return
	}
	m.phase = Idle
	m.chosen = ""
	m.stop = nil
	hook := m.hooks.OnIdle
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}
