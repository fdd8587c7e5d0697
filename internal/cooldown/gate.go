package cooldown

import "time"

// Gate tracks the time of the last trigger. It is owned by the single
// monitor loop, so no locking is needed.
type Gate struct {
	cooldown    time.Duration
	lastTrigger time.Time
}

// New creates a gate with the given cooldown duration
func New(cooldown time.Duration) *Gate {
	return &Gate{cooldown: cooldown}
}

// IsEligible reports whether a trigger may fire at now. The boundary is
// inclusive: exactly one cooldown after the last trigger is eligible.
func (g *Gate) IsEligible(now time.Time) bool {
	if g.lastTrigger.IsZero() {
		return true
	}
	return now.Sub(g.lastTrigger) >= g.cooldown
}

// RecordTrigger unconditionally marks now as the last trigger time
func (g *Gate) RecordTrigger(now time.Time) {
	g.lastTrigger = now
}

// Remaining returns how long until the gate is eligible again, or zero
// when it already is
func (g *Gate) Remaining(now time.Time) time.Duration {
	if g.lastTrigger.IsZero() {
		return 0
	}
	remaining := g.cooldown - now.Sub(g.lastTrigger)
	if remaining < 0 {
		return 0
	}
	return remaining
}
