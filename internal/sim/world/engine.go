// Package world is the authoritative match reducer. It owns no mutable state:
// every entry point takes a snapshot value and returns the next one, so hosts
// can broadcast, journal, and replay without defensive copies. A rejected
// intent hands back the input snapshot untouched; the outcome carries the
// rejection code for logging and client feedback.
package world

import (
	"fmt"

	"hexreign.gg/internal/sim/model"
	"hexreign.gg/internal/sim/tuning"
)

// Engine applies intents and time advances under one fixed tuning set.
type Engine struct {
	tun tuning.Tuning
}

func New(tun tuning.Tuning) *Engine {
	return &Engine{tun: tun}
}

// Tuning returns the constants the engine was built with.
func (e *Engine) Tuning() tuning.Tuning { return e.tun }

// ApplyIntent runs one intent against a snapshot. On rejection the input
// snapshot comes back unchanged. On success the result is a fresh snapshot
// whose clock has been lifted to at least in.TimeMs; the clock never moves
// backwards. Unknown kinds reject with E_UNKNOWN_TYPE rather than panic.
func (e *Engine) ApplyIntent(s model.Snapshot, in model.Intent) (model.Snapshot, model.Outcome) {
	h, ok := intentDispatch[in.Kind]
	if !ok {
		return s, model.Rejected(model.ErrUnknownType, fmt.Sprintf("unknown intent kind %q", in.Kind))
	}
	next := s.Clone()
	if in.TimeMs > next.ClockMs {
		next.ClockMs = in.TimeMs
	}
	out := h(e, &next, in)
	if !out.Applied {
		return s, out
	}
	return next, out
}
